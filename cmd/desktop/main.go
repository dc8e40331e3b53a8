// Command desktop runs a binary on the emulated machine with the
// framebuffer device rendered in a window and the UART wired to an
// on-screen console and the host keyboard.
package main

import (
	"flag"
	"fmt"
	"image/color"
	"log"
	"os"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"

	"rvlator/pkg/cpu"
)

const (
	displayScale  = 2
	consoleRows   = 12
	consoleHeight = consoleRows * 13
	stepsPerFrame = 100_000
)

// console collects UART output and keeps the last lines for drawing.
type console struct {
	lines   []string
	current strings.Builder
}

func (c *console) Write(p []byte) (int, error) {
	for _, b := range p {
		if b == '\n' {
			c.lines = append(c.lines, c.current.String())
			c.current.Reset()
			if len(c.lines) > consoleRows {
				c.lines = c.lines[len(c.lines)-consoleRows:]
			}
			continue
		}
		c.current.WriteByte(b)
	}
	return len(p), nil
}

func (c *console) visible() []string {
	if c.current.Len() == 0 {
		return c.lines
	}
	return append(append([]string{}, c.lines...), c.current.String())
}

type Game struct {
	vm   *cpu.CPU
	fb   *cpu.Framebuffer
	uart *cpu.UART
	out  *console

	fbImg   *ebiten.Image
	stopped error
}

func (g *Game) Update() error {
	for _, r := range ebiten.AppendInputChars(nil) {
		if r < 0x80 {
			g.uart.PushInput(byte(r))
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		g.uart.PushInput('\n')
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyBackspace) {
		g.uart.PushInput(8)
	}

	for i := 0; i < stepsPerFrame; i++ {
		if g.vm.Halted || g.vm.Waiting || g.stopped != nil {
			break
		}
		if err := g.vm.Step(); err != nil {
			g.stopped = err
			fmt.Fprintf(g.out, "\n%v\n", err)
		}
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	if g.fbImg == nil {
		g.fbImg = ebiten.NewImage(cpu.FrameWidth, cpu.FrameHeight)
	}
	g.fbImg.WritePixels(g.fb.RGBA())

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(displayScale, displayScale)
	screen.DrawImage(g.fbImg, op)

	face := basicfont.Face7x13
	y := cpu.FrameHeight*displayScale + face.Height
	for _, line := range g.out.visible() {
		text.Draw(screen, line, face, 4, y, color.White)
		y += face.Height
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return cpu.FrameWidth * displayScale, cpu.FrameHeight*displayScale + consoleHeight
}

func main() {
	base := flag.Uint64("base", 0x0, "RAM base address and reset vector")
	memSize := flag.Int("mem", 16<<20, "RAM size in bytes")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage: desktop [-base addr] [-mem bytes] <binary>")
		os.Exit(2)
	}
	binPath := flag.Arg(0)

	data, err := os.ReadFile(binPath)
	if err != nil {
		log.Fatalf("failed to read binary %q: %v", binPath, err)
	}

	out := &console{}
	bus := cpu.NewBus(*base, *memSize)
	if err := bus.LoadBinary(*base, data); err != nil {
		log.Fatalf("program too large for memory: %v", err)
	}

	fb := cpu.NewFramebuffer()
	uart := cpu.NewUART(out)
	bus.Map(cpu.UARTBase, cpu.UARTSize, uart)
	bus.Map(cpu.FrameBase, cpu.FrameSize, fb)

	vm := cpu.NewCPU(bus)
	vm.Output = out

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(cpu.FrameWidth*displayScale*2, (cpu.FrameHeight*displayScale+consoleHeight)*2)
	ebiten.SetWindowTitle("rvlator")

	game := &Game{vm: vm, fb: fb, uart: uart, out: out}
	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
