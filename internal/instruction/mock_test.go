package instruction

import "strconv"

// mockStore is a minimal instruction store for testing.
type mockStore struct {
	instructions map[int]*Instruction
}

func newMockStore() *mockStore {
	return &mockStore{
		instructions: make(map[int]*Instruction),
	}
}

// add creates an instruction through the store and interns it.
func (m *mockStore) add(address, addressIncrement int, params Params) (*Instruction, error) {
	ins, err := New(m, address, addressIncrement, params)
	if err != nil {
		return nil, err
	}
	m.instructions[address] = ins
	return ins, nil
}

func (m *mockStore) Instruction(address int) (*Instruction, bool) {
	ins, ok := m.instructions[address]
	return ins, ok
}

func (m *mockStore) AddressDescription(address int) string {
	return strconv.Itoa(address)
}
