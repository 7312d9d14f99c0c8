package budget

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBudgetMonth(t *testing.T) {
	t.Run("should accept months inside the supported range", func(t *testing.T) {
		for _, tc := range []struct{ year, month int }{
			{2000, 1},
			{2024, 6},
			{2026, 12},
			{2100, 12},
		} {
			bm, err := NewBudgetMonth(tc.year, tc.month)
			require.NoError(t, err)
			assert.Equal(t, tc.year, bm.Year())
			assert.Equal(t, tc.month, bm.Month())
		}
	})

	t.Run("should reject out-of-range years and months", func(t *testing.T) {
		for _, tc := range []struct{ year, month int }{
			{1999, 1},
			{2101, 1},
			{2026, 0},
			{2026, 13},
		} {
			_, err := NewBudgetMonth(tc.year, tc.month)
			assert.Error(t, err, "year=%d month=%d", tc.year, tc.month)
			assert.ErrorAs(t, err, &InvalidBudgetMonthError{})
		}
	})
}

func TestBudgetMonth_String(t *testing.T) {
	bm, err := NewBudgetMonth(2024, 3)
	require.NoError(t, err)
	assert.Equal(t, "2024-03", bm.String())
}

func TestParseBudgetMonth(t *testing.T) {
	t.Run("should round-trip the canonical form", func(t *testing.T) {
		for year := 2000; year <= 2100; year += 25 {
			for month := 1; month <= 12; month++ {
				s := fmt.Sprintf("%04d-%02d", year, month)
				bm, err := ParseBudgetMonth(s)
				require.NoError(t, err)
				assert.Equal(t, s, bm.String())
			}
		}
	})

	t.Run("should accept a non-padded month digit", func(t *testing.T) {
		bm, err := ParseBudgetMonth("2026-1")
		require.NoError(t, err)
		assert.Equal(t, "2026-01", bm.String())
	})

	t.Run("should reject malformed input", func(t *testing.T) {
		for _, s := range []string{"", "abc", "2024", "2026-13", "not-a-month", "2024-01-02", "20x4-01", "2024-0y"} {
			_, err := ParseBudgetMonth(s)
			assert.Error(t, err, "input %q", s)
		}
	})
}

func TestBudgetMonth_Ordering(t *testing.T) {
	jan, _ := NewBudgetMonth(2026, 1)
	feb, _ := NewBudgetMonth(2026, 2)
	dec25, _ := NewBudgetMonth(2025, 12)

	assert.True(t, jan.Before(feb))
	assert.True(t, dec25.Before(jan))
	assert.False(t, feb.Before(jan))
	assert.Equal(t, 0, jan.Compare(jan))
}
