package entity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Kountade/AFRIKTEXIA/internal/domain/entity"
)

func TestSaleLine_Subtotal(t *testing.T) {
	l := entity.SaleLine{Quantity: dec("3"), UnitPrice: dec("2.50")}
	assert.True(t, l.Subtotal().Equal(dec("7.50")))
}

func TestSale_ComputeTotal(t *testing.T) {
	s := entity.Sale{Lines: []entity.SaleLine{
		{Quantity: dec("2"), UnitPrice: dec("10")},
		{Quantity: dec("1"), UnitPrice: dec("5.25")},
	}}
	assert.True(t, s.ComputeTotal().Equal(dec("25.25")), "el total es la suma de subtotales")

	s.Lines = nil
	assert.True(t, s.ComputeTotal().IsZero(), "sin líneas el total es cero")
}
