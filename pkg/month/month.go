package month

import (
	"time"

	"github.com/koperta/koperta/pkg/budget"
)

// Month is one budgeted calendar month. At most one record exists per
// BudgetMonth; the record is immutable after creation except for timestamps.
type Month struct {
	ID        string
	Month     budget.BudgetMonth
	CreatedAt time.Time
	UpdatedAt time.Time
}

type NewMonth struct {
	Month budget.BudgetMonth
}
