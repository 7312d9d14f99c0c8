package budget

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMoney_Arithmetic(t *testing.T) {
	a := NewMoney(1000)
	b := NewMoney(250)

	assert.Equal(t, int64(1250), a.Add(b).Value())
	assert.Equal(t, int64(750), a.Sub(b).Value())
	assert.Equal(t, a.Add(b), b.Add(a))
	assert.Equal(t, a.Add(b).Add(a), a.Add(b.Add(a)))
}

func TestMoney_Negative(t *testing.T) {
	assert.True(t, NewMoney(-1).IsNegative())
	assert.False(t, NewMoney(0).IsNegative())
	assert.Equal(t, int64(-500), NewMoney(500).Sub(NewMoney(1000)).Value())
}

func TestSumMoney(t *testing.T) {
	assert.Equal(t, int64(0), SumMoney(nil).Value())
	assert.Equal(t, int64(0), SumMoney([]Money{}).Value())
	assert.Equal(t, int64(600), SumMoney([]Money{NewMoney(100), NewMoney(200), NewMoney(300)}).Value())
}
