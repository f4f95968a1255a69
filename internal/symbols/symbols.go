// Package symbols provides address to name symbol management.
package symbols

import (
	"cmp"
	"slices"
)

// Symbol names one program address.
type Symbol struct {
	Address int
	Name    string
}

// Table maps addresses to symbol names.
type Table struct {
	names map[int]string
}

// NewTable creates an empty symbol table.
func NewTable() *Table {
	return &Table{
		names: make(map[int]string),
	}
}

// Add registers a name for an address, overwriting an existing entry.
func (t *Table) Add(address int, name string) {
	t.names[address] = name
}

// Name returns the symbol name at the exact address.
func (t *Table) Name(address int) (string, bool) {
	name, ok := t.names[address]
	return name, ok
}

// Has returns whether a symbol exists at the exact address.
func (t *Table) Has(address int) bool {
	_, ok := t.names[address]
	return ok
}

// Nearest returns the symbol at or before the given address and the distance
// to it, false if no symbol covers the address.
func (t *Table) Nearest(address int) (string, int, bool) {
	found := false
	var bestAddress int
	for symbolAddress := range t.names {
		if symbolAddress > address {
			continue
		}
		if !found || symbolAddress > bestAddress {
			bestAddress = symbolAddress
			found = true
		}
	}
	if !found {
		return "", 0, false
	}
	return t.names[bestAddress], address - bestAddress, true
}

// Len returns the number of symbols in the table.
func (t *Table) Len() int {
	return len(t.names)
}

// Sorted returns all symbols in ascending address order.
func (t *Table) Sorted() []Symbol {
	symbols := make([]Symbol, 0, len(t.names))
	for address, name := range t.names {
		symbols = append(symbols, Symbol{Address: address, Name: name})
	}
	slices.SortFunc(symbols, func(a, b Symbol) int {
		return cmp.Compare(a.Address, b.Address)
	})
	return symbols
}
