package models

import "time"

// ModuleRecordID is the fixed document id of the indirection record. The
// record lives in its own collection, disjoint from engine snapshots, so a
// module swap can never collide with business state.
const ModuleRecordID = "module_record"

// ModuleRecord holds the two identities the indirection layer owns: which
// logic module is active and who is allowed to swap it.
type ModuleRecord struct {
	ID            string    `bson:"_id" json:"id"`
	ActiveModule  string    `bson:"activeModule" json:"activeModule"`
	Administrator string    `bson:"administrator" json:"administrator"`
	UpdatedAt     time.Time `bson:"updatedAt" json:"updatedAt"`
}
