package transaction

import (
	"time"

	"github.com/koperta/koperta/pkg/budget"
)

// MaxTitleLength is the longest title accepted after normalization, in runes.
const MaxTitleLength = 50

// Transaction is one recorded payment against a budget entry.
type Transaction struct {
	ID        string
	EntryID   string
	Amount    budget.Money
	Date      budget.TransactionDate
	Title     *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type NewTransaction struct {
	EntryID string
	Amount  budget.Money
	Date    budget.TransactionDate
	Title   *string
}
