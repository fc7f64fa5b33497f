package config

import (
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server     ServerConfig
	MongoDB    MongoDBConfig
	JWT        JWTConfig
	Admin      AdminConfig
	Raffle     RaffleConfig
	Oracle     OracleConfig
	FeeLedger  FeeLedgerConfig
	CrossChain CrossChainConfig
	Scheduler  SchedulerConfig
	LogLevel   string
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port         string
	AllowedHosts []string
}

// MongoDBConfig holds MongoDB-specific configuration
type MongoDBConfig struct {
	URI      string
	Database string
}

// JWTConfig holds JWT-specific configuration
type JWTConfig struct {
	Secret    string
	ExpiresIn int
}

// AdminConfig identifies the administrator account that gates module swaps
// and the other privileged raffle operations.
type AdminConfig struct {
	Email        string
	PasswordHash string
}

// RaffleConfig holds the raffle engine parameters
type RaffleConfig struct {
	EntryFee            int64
	MinPlayers          int
	Cooldown            time.Duration
	JackpotFeeDivisor   int64
	PrizePercent        int64
	JackpotChanceBP     int64
	CancelRefundPercent int64
	TreasuryAddress     string
}

// OracleConfig holds randomness oracle configuration
type OracleConfig struct {
	BaseURL       string
	APIKey        string
	CallbackKey   string
	WordCount     int
	Confirmations int
	MockOracle    bool
}

// FeeLedgerConfig holds fee-token ledger configuration
type FeeLedgerConfig struct {
	BaseURL    string
	APIKey     string
	MockLedger bool
}

// CrossChainConfig holds cross-chain transport configuration
type CrossChainConfig struct {
	BaseURL       string
	APIKey        string
	HolderAddress string
	MockTransport bool
}

// SchedulerConfig holds the in-process trigger poller configuration
type SchedulerConfig struct {
	Enabled  bool
	Interval time.Duration
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AutomaticEnv()

	// Set defaults
	setDefaults()

	// Read configuration
	if err := viper.ReadInConfig(); err != nil {
		// It's okay if config file is not found, we'll use environment variables
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	// Unmarshal configuration
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// setDefaults sets default values for configuration
func setDefaults() {
	viper.SetDefault("Server.Port", "4000")
	viper.SetDefault("Server.AllowedHosts", []string{"localhost:3000"})
	viper.SetDefault("MongoDB.URI", "mongodb://localhost:27017")
	viper.SetDefault("MongoDB.Database", "luckydip-raffle")
	viper.SetDefault("JWT.ExpiresIn", 24*60*60) // 24 hours
	viper.SetDefault("LogLevel", "info")
	viper.SetDefault("Raffle.EntryFee", int64(10))
	viper.SetDefault("Raffle.MinPlayers", 3)
	viper.SetDefault("Raffle.Cooldown", 60*time.Second)
	viper.SetDefault("Raffle.JackpotFeeDivisor", int64(10))
	viper.SetDefault("Raffle.PrizePercent", int64(90))
	viper.SetDefault("Raffle.JackpotChanceBP", int64(100))
	viper.SetDefault("Raffle.CancelRefundPercent", int64(90))
	viper.SetDefault("Raffle.TreasuryAddress", "raffle-treasury")
	viper.SetDefault("Oracle.WordCount", 2)
	viper.SetDefault("Oracle.Confirmations", 3)
	viper.SetDefault("Oracle.MockOracle", true)
	viper.SetDefault("FeeLedger.MockLedger", true)
	viper.SetDefault("CrossChain.HolderAddress", "raffle-treasury")
	viper.SetDefault("CrossChain.MockTransport", true)
	viper.SetDefault("Scheduler.Enabled", false)
	viper.SetDefault("Scheduler.Interval", 10*time.Second)
}
