package cpu

import (
	"image"
	"image/png"
	"os"
)

// Framebuffer geometry. Pixels are RGB565, little-endian, row-major, mapped
// as a plain MMIO window above the UART.
const (
	FrameBase   uint64 = 0x1001_0000
	FrameWidth         = 128
	FrameHeight        = 128
	FrameSize   uint64 = FrameWidth * FrameHeight * 2
)

// Framebuffer is the bitmap display device.
type Framebuffer struct {
	Pixels [FrameSize]byte
}

func NewFramebuffer() *Framebuffer {
	return &Framebuffer{}
}

func (f *Framebuffer) ReadAt(offset uint64, size int) uint64 {
	var v uint64
	for i := 0; i < size; i++ {
		if offset+uint64(i) >= FrameSize {
			break
		}
		v |= uint64(f.Pixels[offset+uint64(i)]) << (8 * i)
	}
	return v
}

func (f *Framebuffer) WriteAt(offset uint64, size int, val uint64) {
	for i := 0; i < size; i++ {
		if offset+uint64(i) >= FrameSize {
			return
		}
		f.Pixels[offset+uint64(i)] = byte(val >> (8 * i))
	}
}

func (f *Framebuffer) Step() {}

// rgb565ToRGBA converts an RGB565 color to four RGBA bytes using accurate bit-expansion.
func rgb565ToRGBA(val uint16) (r, g, b, a byte) {
	r5 := byte((val >> 11) & 0x1F)
	g6 := byte((val >> 5) & 0x3F)
	b5 := byte(val & 0x1F)
	r = (r5 << 3) | (r5 >> 2)
	g = (g6 << 2) | (g6 >> 4)
	b = (b5 << 3) | (b5 >> 2)
	a = 0xFF
	return
}

// RGBA decodes the framebuffer into an RGBA8888 byte slice
// (FrameWidth*FrameHeight*4 bytes) for display front-ends.
func (f *Framebuffer) RGBA() []byte {
	pixels := make([]byte, FrameWidth*FrameHeight*4)
	for i := 0; i < FrameWidth*FrameHeight; i++ {
		lo := uint16(f.Pixels[i*2])
		hi := uint16(f.Pixels[i*2+1])
		r, g, b, a := rgb565ToRGBA(lo | hi<<8)
		pixels[i*4+0] = r
		pixels[i*4+1] = g
		pixels[i*4+2] = b
		pixels[i*4+3] = a
	}
	return pixels
}

// Image returns the framebuffer contents as an *image.RGBA.
func (f *Framebuffer) Image() *image.RGBA {
	return &image.RGBA{
		Pix:    f.RGBA(),
		Stride: FrameWidth * 4,
		Rect:   image.Rect(0, 0, FrameWidth, FrameHeight),
	}
}

// SaveScreenshot encodes the framebuffer as a PNG and writes it to filename.
func (f *Framebuffer) SaveScreenshot(filename string) error {
	out, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer out.Close()
	return png.Encode(out, f.Image())
}
