// Package budget contains the self-validating value types shared by the
// budgeting domain: Money, BudgetMonth, DueDay, CategoryName and
// TransactionDate.
package budget

// Money is an amount in minor currency units (cents, grosze) stored as a
// signed 64-bit integer. No floating point anywhere.
type Money struct {
	v int64
}

func NewMoney(value int64) Money {
	return Money{v: value}
}

func (m Money) Value() int64 {
	return m.v
}

func (m Money) Add(other Money) Money {
	return Money{v: m.v + other.v}
}

func (m Money) Sub(other Money) Money {
	return Money{v: m.v - other.v}
}

func (m Money) IsNegative() bool {
	return m.v < 0
}

// SumMoney sums a slice of amounts; an empty slice yields zero.
func SumMoney(amounts []Money) Money {
	var total Money
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}
