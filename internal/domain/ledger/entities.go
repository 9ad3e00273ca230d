package ledger

import "time"

// Field names match the public API contract; only these two loan fields
// are tracked in the change history.
type Field string

const (
	FieldDueDate        Field = "dueDate"
	FieldInterestAmount Field = "interestAmount"
)

type FieldChange struct {
	Field Field  `json:"field"`
	Old   string `json:"old"`
	New   string `json:"new"`
}

// Entry is one immutable history record for a loan. An entry is only
// ever written when at least one tracked field actually changed.
type Entry struct {
	ID        uint64        `gorm:"primaryKey;column:id" json:"-"`
	EntryID   string        `gorm:"size:32;uniqueIndex:ux_ledger_entry_id" json:"entry_id"`
	LoanRef   uint64        `gorm:"column:loan_id;index:idx_ledger_loan" json:"-"`
	ActorID   string        `gorm:"size:32" json:"actor_id"`
	Changes   []FieldChange `gorm:"serializer:json;type:json" json:"changes"`
	Note      string        `gorm:"size:500" json:"note,omitempty"`
	CreatedAt time.Time     `gorm:"autoCreateTime" json:"created_at"`
}

func (Entry) TableName() string { return "loan_ledger_entries" }
