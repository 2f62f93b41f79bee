package memory

import "fmt"

// BackingStore is direct byte access to the memory contents, bypassing the
// message protocol. Test drivers use it to preload and inspect memory.
type BackingStore interface {
	// Read fetches size bytes starting at addr.
	Read(addr uint64, size int) ([]byte, error)
	// Write stores data starting at addr.
	Write(addr uint64, data []byte) error
}

var _ BackingStore = (*Memory)(nil)

// Read fetches data from the backing storage.
func (m *Memory) Read(addr uint64, size int) ([]byte, error) {
	if err := m.boundsMustHold(addr, uint64(size)); err != nil {
		return nil, err
	}
	return m.storage.Read(addr, uint64(size))
}

// Write stores data to the backing storage.
func (m *Memory) Write(addr uint64, data []byte) error {
	if err := m.boundsMustHold(addr, uint64(len(data))); err != nil {
		return err
	}
	return m.storage.Write(addr, data)
}

func (m *Memory) boundsMustHold(addr, size uint64) error {
	if addr+size > m.capacity || addr+size < addr {
		return fmt.Errorf("%w: 0x%x+%d, capacity %d", ErrOutOfBounds, addr, size, m.capacity)
	}
	return nil
}
