package domain

import "errors"

// LineStatus tracks how far a line has progressed toward the kitchen/bill.
type LineStatus string

const (
	StatusNew        LineStatus = "new"
	StatusDispatched LineStatus = "dispatched"
	StatusBilled     LineStatus = "billed"
)

var (
	ErrInvalidQuantity = errors.New("quantity must be at least one")
	ErrLineOutOfRange  = errors.New("line index out of range")
	ErrLineCommitted   = errors.New("line already dispatched or billed")
	ErrEmptyOrder      = errors.New("order has no lines")
)

// ItemRef identifies the catalog entry a line was built from.
type ItemRef struct {
	ID      string
	Barcode string
	Name    string
}

// Line is one priced row of an order. Subtotal is always derived from
// UnitPrice and Quantity; a committed line is never mutated in place.
type Line struct {
	Item      ItemRef
	UnitPrice float64
	Quantity  int
	Subtotal  float64
	Status    LineStatus
}

// Committed reports whether the line has left the accumulator's control.
func (l Line) Committed() bool {
	return l.Status == StatusDispatched || l.Status == StatusBilled
}

func (l Line) sameItem(ref ItemRef) bool {
	if l.Item.ID != "" && ref.ID != "" {
		return l.Item.ID == ref.ID
	}
	if l.Item.Barcode != "" && ref.Barcode != "" {
		return l.Item.Barcode == ref.Barcode
	}
	return l.Item.Name == ref.Name
}

// Order accumulates the working line set for a simple bill (no owner) or a
// table-bound order.
type Order struct {
	TableNumber *int
	lines       []Line
}

// NewOrder starts an empty tab-less order.
func NewOrder() *Order {
	return &Order{}
}

// NewTableOrder starts an empty order bound to a table.
func NewTableOrder(tableNumber int) *Order {
	n := tableNumber
	return &Order{TableNumber: &n}
}

// RestoreTableOrder rebuilds a table order from previously persisted lines,
// e.g. when re-selecting an occupied table.
func RestoreTableOrder(tableNumber int, lines []Line) *Order {
	o := NewTableOrder(tableNumber)
	o.lines = append([]Line(nil), lines...)
	return o
}

// AddItem merges qty units into the first uncommitted line for the same
// item, or appends a new line when every matching line has already been
// dispatched or billed.
func (o *Order) AddItem(ref ItemRef, unitPrice float64, qty int) error {
	if qty < 1 {
		return ErrInvalidQuantity
	}
	for i := range o.lines {
		if o.lines[i].Status == StatusNew && o.lines[i].sameItem(ref) {
			o.lines[i].Quantity += qty
			o.lines[i].Subtotal = o.lines[i].UnitPrice * float64(o.lines[i].Quantity)
			return nil
		}
	}
	o.lines = append(o.lines, Line{
		Item:      ref,
		UnitPrice: unitPrice,
		Quantity:  qty,
		Subtotal:  unitPrice * float64(qty),
		Status:    StatusNew,
	})
	return nil
}

// RemoveLine drops an uncommitted line. Committed lines stay: they are
// already part of a kitchen ticket or bill.
func (o *Order) RemoveLine(index int) error {
	if index < 0 || index >= len(o.lines) {
		return ErrLineOutOfRange
	}
	if o.lines[index].Committed() {
		return ErrLineCommitted
	}
	o.lines = append(o.lines[:index], o.lines[index+1:]...)
	return nil
}

// Clear drops every line. Callers must not clear once lines are committed;
// settlement handles that path.
func (o *Order) Clear() {
	o.lines = nil
}

// Lines returns a defensive copy of the line set.
func (o *Order) Lines() []Line {
	return append([]Line(nil), o.lines...)
}

// Len returns the number of lines.
func (o *Order) Len() int {
	return len(o.lines)
}

// Empty reports whether the order has no lines.
func (o *Order) Empty() bool {
	return len(o.lines) == 0
}

// Total sums every line subtotal regardless of dispatch status.
func (o *Order) Total() float64 {
	total := 0.0
	for _, l := range o.lines {
		total += l.Subtotal
	}
	return total
}

// NewLines returns copies of the lines not yet sent to the kitchen.
func (o *Order) NewLines() []Line {
	var fresh []Line
	for _, l := range o.lines {
		if l.Status == StatusNew {
			fresh = append(fresh, l)
		}
	}
	return fresh
}

// MarkDispatched transitions every new line to dispatched. Called only
// after the gateway acknowledged the kitchen ticket.
func (o *Order) MarkDispatched() {
	o.MarkDispatchedPrefix(len(o.lines), o.NewLines())
}

// MarkDispatchedPrefix transitions the new lines among the first n lines
// to dispatched at the quantities they carried when the ticket was
// submitted. Only acknowledged state may transition: quantity merged into
// a line while the ticket was on the wire was never sent, so it is split
// off into a fresh new line for the next ticket. Lines appended after the
// snapshot stay new likewise.
func (o *Order) MarkDispatchedPrefix(n int, submitted []Line) {
	if n > len(o.lines) {
		n = len(o.lines)
	}
	var unsent []Line
	next := 0
	for i := 0; i < n; i++ {
		if o.lines[i].Status != StatusNew {
			continue
		}
		sent := o.lines[i].Quantity
		if next < len(submitted) {
			sent = submitted[next].Quantity
			next++
		}
		if merged := o.lines[i].Quantity - sent; merged > 0 {
			unsent = append(unsent, Line{
				Item:      o.lines[i].Item,
				UnitPrice: o.lines[i].UnitPrice,
				Quantity:  merged,
				Subtotal:  o.lines[i].UnitPrice * float64(merged),
				Status:    StatusNew,
			})
		}
		o.lines[i].Quantity = sent
		o.lines[i].Subtotal = o.lines[i].UnitPrice * float64(sent)
		o.lines[i].Status = StatusDispatched
	}
	o.lines = append(o.lines, unsent...)
}

// MarkBilled transitions every line to billed. Called only after the
// gateway accepted the final bill.
func (o *Order) MarkBilled() {
	for i := range o.lines {
		o.lines[i].Status = StatusBilled
	}
}
