package core

import "fmt"

// Size describes the dimensions of a simulation grid.
type Size struct {
	W int
	H int
}

// Cells returns the number of cells covered by the size.
func (s Size) Cells() int { return s.W * s.H }

// Coord addresses a grid cell by row and column.
type Coord struct {
	Row int
	Col int
}

// String formats the coordinate as "row,col".
func (c Coord) String() string { return fmt.Sprintf("%d,%d", c.Row, c.Col) }

// Sim defines the contract front ends drive a simulation through.
type Sim interface {
	Name() string
	Size() Size
	Step() bool
	Running() bool
	Steps() int
	Reset() error
	CopyCells(dst []uint8) []uint8
}
