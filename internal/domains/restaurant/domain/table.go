package domain

import "errors"

// Occupancy is the table lifecycle state.
type Occupancy string

const (
	Available Occupancy = "available"
	Occupied  Occupancy = "occupied"
)

var ErrUnknownTable = errors.New("unknown table number")

// Table is one provisioned restaurant table. Provisioning is external;
// the engine only flips occupancy.
type Table struct {
	Number    int
	Occupancy Occupancy
}

// Occupy marks the table as holding an open order.
func (t *Table) Occupy() { t.Occupancy = Occupied }

// Release returns the table to the floor after settlement.
func (t *Table) Release() { t.Occupancy = Available }

// IsOccupied reports whether an order is open on the table.
func (t *Table) IsOccupied() bool { return t.Occupancy == Occupied }
