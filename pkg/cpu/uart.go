package cpu

import (
	"io"
	"os"
)

// UART register layout, a byte-wide 16550 subset at the qemu virt address.
const (
	UARTBase uint64 = 0x1000_0000
	UARTSize uint64 = 0x100

	uartRBR = 0x00 // receive buffer (read)
	uartTHR = 0x00 // transmit holding (write)
	uartLSR = 0x05 // line status

	lsrDataReady = 0x01
	lsrTHREmpty  = 0x20
)

// UART is the console device. Transmitted bytes go to Output (os.Stdout when
// nil, mirroring the CPU's own sink behavior); received bytes are pushed by
// the host front-end via PushInput.
type UART struct {
	Output io.Writer

	rx []byte
}

func NewUART(out io.Writer) *UART {
	return &UART{Output: out}
}

func (u *UART) sink() io.Writer {
	if u.Output != nil {
		return u.Output
	}
	return os.Stdout
}

// PushInput queues a byte for the guest to read from the receive buffer.
func (u *UART) PushInput(b byte) {
	u.rx = append(u.rx, b)
}

// PushString queues every byte of s.
func (u *UART) PushString(s string) {
	u.rx = append(u.rx, s...)
}

func (u *UART) ReadAt(offset uint64, size int) uint64 {
	switch offset {
	case uartRBR:
		if len(u.rx) > 0 {
			b := u.rx[0]
			u.rx = u.rx[1:]
			return uint64(b)
		}
		return 0
	case uartLSR:
		v := uint64(lsrTHREmpty) // always ready to transmit
		if len(u.rx) > 0 {
			v |= lsrDataReady
		}
		return v
	}
	return 0
}

func (u *UART) WriteAt(offset uint64, size int, val uint64) {
	if offset == uartTHR {
		u.sink().Write([]byte{byte(val)})
	}
}

func (u *UART) Step() {}
