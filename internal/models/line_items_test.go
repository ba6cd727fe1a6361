package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestLineTotal(t *testing.T) {
	tests := []struct {
		name      string
		quantity  int
		unitPrice string
		discount  string
		want      string
	}{
		{name: "no discount", quantity: 2, unitPrice: "300", discount: "0", want: "600"},
		{name: "flat discount", quantity: 1, unitPrice: "100", discount: "10", want: "90"},
		{name: "fractional rounding", quantity: 3, unitPrice: "33.335", discount: "0", want: "100.01"},
		{name: "discount exceeding price goes negative", quantity: 1, unitPrice: "50", discount: "60", want: "-10"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LineTotal(tt.quantity,
				decimal.RequireFromString(tt.unitPrice),
				decimal.RequireFromString(tt.discount))
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)),
				"got %s, want %s", got, tt.want)
		})
	}
}

func TestOrderPackageRecalculate(t *testing.T) {
	line := OrderPackage{
		Quantity:  2,
		UnitPrice: decimal.RequireFromString("450"),
		Discount:  decimal.RequireFromString("50"),
	}
	line.Recalculate()
	assert.True(t, line.TotalPrice.Equal(decimal.RequireFromString("850")))
}

func TestLineValidation(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		line := OrderAddon{Quantity: 1, UnitPrice: decimal.RequireFromString("100")}
		assert.Empty(t, line.Validate())
	})

	t.Run("zero quantity", func(t *testing.T) {
		line := OrderPackage{Quantity: 0, UnitPrice: decimal.RequireFromString("100")}
		assert.Contains(t, line.Validate(), "quantity must be greater than 0")
	})

	t.Run("negative price and discount", func(t *testing.T) {
		line := OrderAddon{
			Quantity:  1,
			UnitPrice: decimal.RequireFromString("-5"),
			Discount:  decimal.RequireFromString("-1"),
		}
		errs := line.Validate()
		assert.Contains(t, errs, "unit price must be greater than or equal to 0")
		assert.Contains(t, errs, "discount must be greater than or equal to 0")
	})
}
