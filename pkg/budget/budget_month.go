package budget

import (
	"fmt"
	"strconv"
	"strings"
)

// InvalidBudgetMonthError reports a year/month pair or string outside the
// supported range or format.
type InvalidBudgetMonthError struct {
	Reason string
}

func (e InvalidBudgetMonthError) Error() string {
	return fmt.Sprintf("invalid budget month: %s", e.Reason)
}

// BudgetMonth is one calendar month between 2000-01 and 2100-12. Its
// canonical string form is zero-padded "YYYY-MM", which also sorts
// chronologically as text.
type BudgetMonth struct {
	year  int
	month int
}

func NewBudgetMonth(year, month int) (BudgetMonth, error) {
	if year < 2000 || year > 2100 {
		return BudgetMonth{}, InvalidBudgetMonthError{
			Reason: fmt.Sprintf("year must be between 2000 and 2100, got %d", year),
		}
	}
	if month < 1 || month > 12 {
		return BudgetMonth{}, InvalidBudgetMonthError{
			Reason: fmt.Sprintf("month must be between 1 and 12, got %d", month),
		}
	}
	return BudgetMonth{year: year, month: month}, nil
}

// ParseBudgetMonth parses "YYYY-MM". A non-padded month digit ("2026-1") is
// accepted.
func ParseBudgetMonth(s string) (BudgetMonth, error) {
	parts := strings.Split(s, "-")
	if len(parts) != 2 {
		return BudgetMonth{}, InvalidBudgetMonthError{
			Reason: fmt.Sprintf("expected YYYY-MM format, got '%s'", s),
		}
	}
	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return BudgetMonth{}, InvalidBudgetMonthError{
			Reason: fmt.Sprintf("invalid year in '%s'", s),
		}
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil {
		return BudgetMonth{}, InvalidBudgetMonthError{
			Reason: fmt.Sprintf("invalid month in '%s'", s),
		}
	}
	return NewBudgetMonth(year, month)
}

func (b BudgetMonth) Year() int {
	return b.year
}

func (b BudgetMonth) Month() int {
	return b.month
}

func (b BudgetMonth) String() string {
	return fmt.Sprintf("%04d-%02d", b.year, b.month)
}

// Compare orders by (year, month): negative when b < other.
func (b BudgetMonth) Compare(other BudgetMonth) int {
	if b.year != other.year {
		return b.year - other.year
	}
	return b.month - other.month
}

func (b BudgetMonth) Before(other BudgetMonth) bool {
	return b.Compare(other) < 0
}
