package budget

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTransactionDate(t *testing.T) {
	t.Run("should round-trip the canonical form", func(t *testing.T) {
		d, err := ParseTransactionDate("2026-01-10")
		require.NoError(t, err)
		assert.Equal(t, "2026-01-10", d.String())
	})

	t.Run("should reject malformed input", func(t *testing.T) {
		for _, s := range []string{"", "2026-01", "10-01-2026", "2026-13-01", "2026-02-30", "abc"} {
			_, err := ParseTransactionDate(s)
			assert.Error(t, err, "input %q", s)
		}
	})
}

func TestNewTransactionDate(t *testing.T) {
	d := NewTransactionDate(time.Date(2026, 1, 10, 15, 30, 0, 0, time.Local))
	assert.Equal(t, "2026-01-10", d.String())
	assert.Equal(t, time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC), d.Value())
}
