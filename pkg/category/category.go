package category

import (
	"time"

	"github.com/koperta/koperta/pkg/budget"
)

type Category struct {
	ID   string
	Name budget.CategoryName
	// Label is optional free text shown next to the name.
	Label     *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type NewCategory struct {
	Name  budget.CategoryName
	Label *string
}

// Summary is the minimal category projection embedded in budget entries and
// month summaries.
type Summary struct {
	ID    string
	Name  budget.CategoryName
	Label *string
}
