package budget

import "fmt"

type InvalidDueDayError struct {
	Value int
}

func (e InvalidDueDayError) Error() string {
	return fmt.Sprintf("invalid due day: %d", e.Value)
}

// DueDay is a day-of-month between 1 and 31. It is deliberately not checked
// against the length of any particular month.
type DueDay struct {
	v int
}

func NewDueDay(value int) (DueDay, error) {
	if value < 1 || value > 31 {
		return DueDay{}, InvalidDueDayError{Value: value}
	}
	return DueDay{v: value}, nil
}

func (d DueDay) Value() int {
	return d.v
}
