package cpu

import (
	"errors"
	"fmt"
)

// ErrBusFault is returned for accesses that hit neither RAM nor a device.
var ErrBusFault = errors.New("bus: access to unmapped address")

// Device is a memory-mapped peripheral. Offsets are relative to the base
// address the device was mapped at. Step is called once per CPU step so
// devices with internal behavior can advance.
type Device interface {
	ReadAt(offset uint64, size int) uint64
	WriteAt(offset uint64, size int, val uint64)
	Step()
}

type mapping struct {
	base uint64
	size uint64
	dev  Device
}

// Bus connects the CPU to byte-addressable RAM and MMIO devices. RAM
// occupies [Base, Base+len(RAM)); devices claim their own windows. All
// multi-byte accesses are little-endian.
type Bus struct {
	Base uint64
	RAM  []byte

	devices []mapping
}

// NewBus creates a bus with size bytes of RAM starting at base.
func NewBus(base uint64, size int) *Bus {
	return &Bus{Base: base, RAM: make([]byte, size)}
}

// Map attaches dev at [base, base+size). Device windows are checked before
// RAM, so a device may shadow part of the RAM range.
func (b *Bus) Map(base, size uint64, dev Device) {
	b.devices = append(b.devices, mapping{base: base, size: size, dev: dev})
}

func (b *Bus) findDevice(addr uint64) (Device, uint64, bool) {
	for _, m := range b.devices {
		if addr >= m.base && addr < m.base+m.size {
			return m.dev, addr - m.base, true
		}
	}
	return nil, 0, false
}

// Read reads a size-byte little-endian value (size 1, 2, 4 or 8) at addr.
func (b *Bus) Read(addr uint64, size int) (uint64, error) {
	if dev, off, ok := b.findDevice(addr); ok {
		return dev.ReadAt(off, size), nil
	}
	off, err := b.ramOffset(addr, size)
	if err != nil {
		return 0, err
	}
	var v uint64
	for i := 0; i < size; i++ {
		v |= uint64(b.RAM[off+uint64(i)]) << (8 * i)
	}
	return v, nil
}

// Write writes a size-byte little-endian value at addr.
func (b *Bus) Write(addr uint64, size int, val uint64) error {
	if dev, off, ok := b.findDevice(addr); ok {
		dev.WriteAt(off, size, val)
		return nil
	}
	off, err := b.ramOffset(addr, size)
	if err != nil {
		return err
	}
	for i := 0; i < size; i++ {
		b.RAM[off+uint64(i)] = byte(val >> (8 * i))
	}
	return nil
}

// ramOffset bounds-checks without forming addr+size, which wraps for
// addresses near the top of the 64-bit space (a plain negative offset from
// zero gets there).
func (b *Bus) ramOffset(addr uint64, size int) (uint64, error) {
	if addr < b.Base || uint64(size) > uint64(len(b.RAM)) ||
		addr-b.Base > uint64(len(b.RAM))-uint64(size) {
		return 0, fmt.Errorf("%w: %#x", ErrBusFault, addr)
	}
	return addr - b.Base, nil
}

// LoadBinary copies a flat binary image into RAM at addr. This is how the
// .bin artifacts produced by objcopy enter the machine.
func (b *Bus) LoadBinary(addr uint64, data []byte) error {
	if addr < b.Base || uint64(len(data)) > uint64(len(b.RAM)) ||
		addr-b.Base > uint64(len(b.RAM))-uint64(len(data)) {
		return fmt.Errorf("%w: image of %d bytes at %#x", ErrBusFault, len(data), addr)
	}
	copy(b.RAM[addr-b.Base:], data)
	return nil
}

// StepDevices advances every mapped device by one tick.
func (b *Bus) StepDevices() {
	for _, m := range b.devices {
		m.dev.Step()
	}
}
