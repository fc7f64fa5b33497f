package engine

// JackpotPool is the carry-over pool accounting object. It only grows via
// Contribute (called from entry) and only empties via Drain (called from
// fulfillment on a jackpot win); nothing else may mutate it.
type JackpotPool struct {
	balance int64
}

// Contribute adds a fee slice to the pool
func (p *JackpotPool) Contribute(amount int64) {
	if amount <= 0 {
		return
	}
	p.balance += amount
}

// Drain returns the current balance and resets the pool to zero
func (p *JackpotPool) Drain() int64 {
	b := p.balance
	p.balance = 0
	return b
}

// Balance returns the current balance
func (p *JackpotPool) Balance() int64 {
	return p.balance
}
