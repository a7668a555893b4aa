package domain

import "strings"

// Snapshot is a read-mostly view of the catalog taken at one refresh cycle.
// It is an immutable value: refreshes replace the whole snapshot, partial
// in-place edits never happen.
type Snapshot struct {
	products  []Product
	byBarcode map[string]int
	byID      map[string]int
}

// NewSnapshot copies the given products into an immutable snapshot. Later
// entries win on duplicate barcodes, matching the backend list ordering.
func NewSnapshot(products []Product) *Snapshot {
	s := &Snapshot{
		products:  append([]Product(nil), products...),
		byBarcode: make(map[string]int, len(products)),
		byID:      make(map[string]int, len(products)),
	}
	for i, p := range s.products {
		if p.Barcode != "" {
			s.byBarcode[p.Barcode] = i
		}
		if p.ID != "" {
			s.byID[p.ID] = i
		}
	}
	return s
}

// Len returns the number of catalog entries.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.products)
}

// ByBarcode looks up a product by its barcode.
func (s *Snapshot) ByBarcode(barcode string) (Product, bool) {
	if s == nil {
		return Product{}, false
	}
	i, ok := s.byBarcode[barcode]
	if !ok {
		return Product{}, false
	}
	return s.products[i], true
}

// ByID looks up a product by its catalog identifier.
func (s *Snapshot) ByID(id string) (Product, bool) {
	if s == nil {
		return Product{}, false
	}
	i, ok := s.byID[id]
	if !ok {
		return Product{}, false
	}
	return s.products[i], true
}

// All returns a copy of every catalog entry.
func (s *Snapshot) All() []Product {
	if s == nil {
		return nil
	}
	return append([]Product(nil), s.products...)
}

// Search returns entries whose name or barcode contains the term,
// case-insensitively. An empty term matches everything.
func (s *Snapshot) Search(term string) []Product {
	if s == nil {
		return nil
	}
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return s.All()
	}
	var matches []Product
	for _, p := range s.products {
		if strings.Contains(strings.ToLower(p.Name), term) || strings.Contains(strings.ToLower(p.Barcode), term) {
			matches = append(matches, p)
		}
	}
	return matches
}

// LowStock returns entries with at least one unit left but no more than the
// threshold. Entries already at zero are out of stock, not low.
func (s *Snapshot) LowStock(threshold int) []Product {
	if s == nil {
		return nil
	}
	var low []Product
	for _, p := range s.products {
		if p.Quantity > 0 && p.Quantity <= threshold {
			low = append(low, p)
		}
	}
	return low
}
