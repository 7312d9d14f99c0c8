package budget

import (
	"fmt"
	"time"
)

type InvalidTransactionDateError struct {
	Value string
}

func (e InvalidTransactionDateError) Error() string {
	return fmt.Sprintf("invalid transaction date: expected YYYY-MM-DD format, got '%s'", e.Value)
}

const transactionDateLayout = "2006-01-02"

// TransactionDate is a calendar date with the canonical string form "YYYY-MM-DD".
type TransactionDate struct {
	t time.Time
}

func NewTransactionDate(t time.Time) TransactionDate {
	year, month, day := t.Date()
	return TransactionDate{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func ParseTransactionDate(s string) (TransactionDate, error) {
	t, err := time.Parse(transactionDateLayout, s)
	if err != nil {
		return TransactionDate{}, InvalidTransactionDateError{Value: s}
	}
	return TransactionDate{t: t}, nil
}

func (d TransactionDate) Value() time.Time {
	return d.t
}

func (d TransactionDate) String() string {
	return d.t.Format(transactionDateLayout)
}
