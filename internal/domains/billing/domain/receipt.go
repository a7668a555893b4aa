package domain

import "time"

// ReceiptRow is one itemized line of a receipt.
type ReceiptRow struct {
	Name      string
	Quantity  int
	UnitPrice float64
	Subtotal  float64
}

// Receipt is the immutable billing document produced at finalize time.
// It is created once and never mutated afterward.
type Receipt struct {
	Number      string
	ShopName    string
	TableNumber *int
	IssuedAt    time.Time
	Rows        []ReceiptRow
	Subtotal    float64
	TaxRate     float64
	Tax         float64
	GrandTotal  float64
}

// BuildReceipt renders the order's current line set into a receipt.
// Deterministic given (lines, taxRate, issuedAt) and never mutates the order.
func BuildReceipt(order *Order, shopName string, taxRate float64, issuedAt time.Time, number string) Receipt {
	receipt := Receipt{
		Number:   number,
		ShopName: shopName,
		IssuedAt: issuedAt,
		TaxRate:  taxRate,
	}
	if order.TableNumber != nil {
		n := *order.TableNumber
		receipt.TableNumber = &n
	}
	for _, line := range order.Lines() {
		receipt.Rows = append(receipt.Rows, ReceiptRow{
			Name:      line.Item.Name,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
			Subtotal:  line.Subtotal,
		})
		receipt.Subtotal += line.Subtotal
	}
	receipt.Tax = receipt.Subtotal * taxRate
	receipt.GrandTotal = receipt.Subtotal + receipt.Tax
	return receipt
}
