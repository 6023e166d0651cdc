package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/urfave/cli"

	"github.com/silverfir/go-dmgcore/dmgcore"
)

const (
	width  = 160
	height = 144

	// Terminal characters are taller than wide; scale width more to keep
	// the aspect ratio roughly correct.
	scaleX = 2
	scaleY = 1

	frameTime = time.Second / 60
)

// Characters representing shades from darkest to lightest.
var shadeChars = []rune{'█', '▓', '▒', '░'}

// systemClock is the dmgcore.WallClockSource backing the MBC3 RTC latch
// when run as a standalone binary.
type systemClock struct{}

func (systemClock) Now() uint64 { return uint64(time.Now().Unix()) }

type terminalRenderer struct {
	screen  tcell.Screen
	gb      *dmgcore.Gameboy
	running bool
	frame   [width * height]dmgcore.Color
}

func (t *terminalRenderer) MapPixel(index int, color dmgcore.Color) {
	if index >= 0 && index < len(t.frame) {
		t.frame[index] = color
	}
}

func newTerminalRenderer(gb *dmgcore.Gameboy) (*terminalRenderer, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize terminal: %w", err)
	}
	return &terminalRenderer{screen: screen, gb: gb, running: true}, nil
}

func (t *terminalRenderer) Run() error {
	defer func() {
		slog.Info("finishing terminal")
		t.screen.Fini()
	}()

	t.screen.SetStyle(tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite))
	t.screen.Clear()

	go t.handleInput()

	ticker := time.NewTicker(frameTime)
	defer ticker.Stop()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	for t.running {
		select {
		case <-ticker.C:
			if err := t.runUntilFrame(); err != nil {
				return err
			}
			t.render()
			t.screen.Show()
		case <-signals:
			t.running = false
			slog.Info("received signal to stop")
			return nil
		}
	}
	return nil
}

func (t *terminalRenderer) runUntilFrame() error {
	for {
		result, err := t.gb.Step(t)
		if err != nil {
			return err
		}
		if result.VBlank {
			return nil
		}
	}
}

func (t *terminalRenderer) handleInput() {
	keymap := map[tcell.Key]dmgcore.Button{
		tcell.KeyUp:    dmgcore.Up,
		tcell.KeyDown:  dmgcore.Down,
		tcell.KeyLeft:  dmgcore.Left,
		tcell.KeyRight: dmgcore.Right,
	}
	runeMap := map[rune]dmgcore.Button{
		'z': dmgcore.A,
		'x': dmgcore.B,
		'a': dmgcore.Select,
		's': dmgcore.Start,
	}

	for t.running {
		ev := t.screen.PollEvent()
		switch ev := ev.(type) {
		case *tcell.EventKey:
			if ev.Key() == tcell.KeyEscape {
				t.running = false
				return
			}
			if b, ok := keymap[ev.Key()]; ok {
				t.gb.PressButton(b)
			}
			if b, ok := runeMap[ev.Rune()]; ok {
				t.gb.PressButton(b)
			}
		case *tcell.EventResize:
			t.screen.Sync()
		}
	}
}

func (t *terminalRenderer) render() {
	t.screen.Clear()
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			color := t.frame[dmgcore.PixelIndex(x, y)]
			shade := int(color)
			if shade > 3 {
				shade = 3
			}
			char := shadeChars[shade]
			style := tcell.StyleDefault.Foreground(tcell.ColorWhite)

			screenX := x * scaleX
			screenY := y * scaleY
			for sx := 0; sx < scaleX; sx++ {
				t.screen.SetContent(screenX+sx, screenY, char, nil, style)
			}
		}
	}
}

func main() {
	app := cli.NewApp()
	app.Name = "dmgcore"
	app.Description = "A Game Boy (DMG) emulation core with a terminal front-end"
	app.Usage = "dmgcore [options] <ROM file>"
	app.Version = "1.0.0"
	app.Flags = []cli.Flag{
		cli.StringFlag{Name: "rom", Usage: "path to the ROM file"},
		cli.StringFlag{Name: "boot-rom", Usage: "path to an optional boot ROM"},
	}
	app.Action = runEmulator

	if err := app.Run(os.Args); err != nil {
		slog.Error("error running emulator", "error", err)
		os.Exit(1)
	}
}

func runEmulator(c *cli.Context) error {
	romPath := c.String("rom")
	if romPath == "" {
		if c.NArg() > 0 {
			romPath = c.Args().Get(0)
		} else {
			cli.ShowAppHelp(c)
			return errors.New("no ROM path provided")
		}
	}

	rom, err := os.ReadFile(romPath)
	if err != nil {
		return fmt.Errorf("reading ROM: %w", err)
	}

	var bootROM []byte
	if path := c.String("boot-rom"); path != "" {
		bootROM, err = os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading boot ROM: %w", err)
		}
	}

	gb, err := dmgcore.FromROM(rom, bootROM, systemClock{})
	if err != nil {
		return err
	}

	renderer, err := newTerminalRenderer(gb)
	if err != nil {
		return err
	}
	return renderer.Run()
}
