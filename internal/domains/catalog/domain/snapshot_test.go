package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func sampleSnapshot() *Snapshot {
	return NewSnapshot([]Product{
		{ID: "p1", Barcode: "8901", Name: "Soap", Category: "Toiletries", Price: 34.5, Quantity: 12},
		{ID: "p2", Barcode: "8902", Name: "Shampoo", Category: "Toiletries", Price: 120, Quantity: 10},
		{ID: "p3", Barcode: "8903", Name: "Rice 5kg", Category: "Grocery", Price: 410, Quantity: 0},
		{ID: "p4", Barcode: "8904", Name: "Dal 1kg", Category: "Grocery", Price: 95, Quantity: 1},
	})
}

func TestSnapshot_Lookups(t *testing.T) {
	s := sampleSnapshot()

	byBarcode, ok := s.ByBarcode("8902")
	require.True(t, ok)
	require.Equal(t, "Shampoo", byBarcode.Name)

	byID, ok := s.ByID("p4")
	require.True(t, ok)
	require.Equal(t, "Dal 1kg", byID.Name)

	_, ok = s.ByBarcode("0000")
	require.False(t, ok)
	_, ok = s.ByID("p9")
	require.False(t, ok)
}

func TestSnapshot_NilIsEmpty(t *testing.T) {
	var s *Snapshot
	require.Zero(t, s.Len())
	require.Nil(t, s.All())
	_, ok := s.ByBarcode("8901")
	require.False(t, ok)
	require.Nil(t, s.Search("soap"))
	require.Nil(t, s.LowStock(10))
}

func TestSnapshot_SearchIsCaseInsensitive(t *testing.T) {
	s := sampleSnapshot()
	require.Len(t, s.Search("SOAP"), 1)
	require.Len(t, s.Search("  rice "), 1)
	require.Len(t, s.Search("890"), 4)
	require.Len(t, s.Search(""), 4)
	require.Empty(t, s.Search("noodles"))
}

func TestSnapshot_LowStockBoundaries(t *testing.T) {
	s := sampleSnapshot()
	low := s.LowStock(10)
	require.Len(t, low, 2)
	names := []string{low[0].Name, low[1].Name}
	require.Contains(t, names, "Shampoo")
	require.Contains(t, names, "Dal 1kg")
}

func TestSnapshot_AllReturnsCopy(t *testing.T) {
	s := sampleSnapshot()
	all := s.All()
	all[0].Name = "mutated"
	fresh, _ := s.ByID("p1")
	require.Equal(t, "Soap", fresh.Name)
}

func TestNewProduct_Validation(t *testing.T) {
	_, err := NewProduct("", "", "Soap", "Toiletries", 10, 1)
	require.ErrorIs(t, err, ErrEmptyBarcode)

	_, err = NewProduct("", "8901", "  ", "Toiletries", 10, 1)
	require.ErrorIs(t, err, ErrEmptyName)

	_, err = NewProduct("", "8901", "Soap", "Toiletries", -1, 1)
	require.ErrorIs(t, err, ErrNegativePrice)

	p, err := NewProduct("", "8901", "Soap", "Toiletries", 10, 0)
	require.NoError(t, err)
	require.False(t, p.InStock())
}
