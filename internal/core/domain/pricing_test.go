package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrice_Default(t *testing.T) {
	p := DefaultPricer()

	tests := []struct {
		name     string
		demand   int
		quantity int
		want     string
	}{
		{"no sales, low stock", 0, 10, "7.3"},
		{"no sales, empty stock", 0, 0, "7"},
		{"sales raise the price", 2, 50, "18.5"},
		{"stock above reference", 0, 200, "13"},
		{"reference stock", 1, 100, "15"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, p.Price(tt.demand, tt.quantity).String())
		})
	}
}

func TestPrice_Floor(t *testing.T) {
	p, err := NewPricer(10, 0.5, 2, 100, 0.5)
	require.NoError(t, err)

	assert.Equal(t, "5", p.Price(0, 0).String())
}

func TestSensitivity(t *testing.T) {
	p := DefaultPricer()

	perSale, perUnit := p.Sensitivity(0, 10)
	assert.Equal(t, "5", perSale.String())
	assert.Equal(t, "0.03", perUnit.String())

	clamped, err := NewPricer(10, 0.5, 2, 100, 0.5)
	require.NoError(t, err)
	perSale, perUnit = clamped.Sensitivity(0, 0)
	assert.True(t, perSale.IsZero())
	assert.True(t, perUnit.IsZero())
}

func TestNewPricer_Invalid(t *testing.T) {
	_, err := NewPricer(0, 0.5, 0.3, 100, 0.5)
	assert.Error(t, err)

	_, err = NewPricer(10, 0.5, 0.3, 0, 0.5)
	assert.Error(t, err)

	_, err = NewPricer(10, 0.5, 0.3, 100, -1)
	assert.Error(t, err)
}

func TestNormalizeItem(t *testing.T) {
	name, err := NormalizeItem("  Caneta  ", 3)
	require.NoError(t, err)
	assert.Equal(t, "Caneta", name)

	_, err = NormalizeItem("   ", 1)
	assert.ErrorIs(t, err, ErrInvalidItem)

	_, err = NormalizeItem("Caneta", -1)
	assert.ErrorIs(t, err, ErrInvalidItem)

	_, err = NormalizeItem("Caneta", MaxItemQuantity)
	assert.NoError(t, err)

	_, err = NormalizeItem("Caneta", MaxItemQuantity+1)
	assert.ErrorIs(t, err, ErrInvalidItem)

	long := make([]rune, MaxItemNameLength+1)
	for i := range long {
		long[i] = 'a'
	}
	_, err = NormalizeItem(string(long), 1)
	assert.ErrorIs(t, err, ErrInvalidItem)
}
