package cmd

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync/atomic"

	"github.com/gdamore/tcell/v2"
	"github.com/pkg/errors"

	"github.com/botarena/botarena/sim"
)

// canvas is the part of tcell.Screen the renderer draws on.
type canvas interface {
	SetContent(x, y int, mainc rune, combc []rune, style tcell.Style)
	Size() (int, int)
}

// shipColors cycles per entrant.
var shipColors = []tcell.Color{
	tcell.ColorGreen, tcell.ColorBlue, tcell.ColorYellow, tcell.ColorPurple, tcell.ColorAqua, tcell.ColorOrange,
}

// headingGlyphs are indexed by heading octant, 0 = +X, clockwise on screen.
var headingGlyphs = []rune{'→', '↘', '↓', '↙', '←', '↖', '↑', '↗'}

const (
	glyphObstacle   = 'O'
	glyphProjectile = '•'
	glyphWreck      = 'x'
)

// draw paints one frame of the arena onto the character grid, reserving the
// last row for a status line.
func draw(c canvas, a *sim.Arena) {
	w, h := c.Size()
	if w <= 0 || h <= 1 {
		return
	}
	clearCanvas(c, w, h)

	rows := h - 1
	b := a.Bounds()
	cell := func(x, y float64) (int, int) {
		cx := int(math.Floor(x / b.Width * float64(w)))
		cy := int(math.Floor(y / b.Height * float64(rows)))
		return clamp(cx, 0, w-1), clamp(cy, 0, rows-1)
	}

	ship := 0
	for _, d := range a.Drawables() {
		x, y := cell(d.Position.X, d.Position.Y)
		switch d.Kind {
		case sim.DrawObstacle:
			if d.Alive {
				c.SetContent(x, y, glyphObstacle, nil, tcell.StyleDefault.Foreground(tcell.ColorGray))
			}
		case sim.DrawShip:
			style := tcell.StyleDefault.Foreground(shipColors[ship%len(shipColors)])
			ship++
			if !d.Alive {
				c.SetContent(x, y, glyphWreck, nil, style.Dim(true))
				continue
			}
			c.SetContent(x, y, headingGlyph(d.Heading), nil, style.Bold(true))
		case sim.DrawProjectile:
			c.SetContent(x, y, glyphProjectile, nil, tcell.StyleDefault.Foreground(tcell.ColorRed))
		}
	}

	out := a.Outcome()
	status := fmt.Sprintf(" tick %d | alive: %s", out.Tick, strings.Join(out.Survivors, ", "))
	if out.Over() {
		status = " " + out.String() + " | any key: continue, q: quit"
	}
	text(c, 0, h-1, status, w, tcell.StyleDefault.Reverse(true))
}

func headingGlyph(heading float64) rune {
	octant := int(math.Floor(math.Mod(heading+22.5, 360) / 45))
	return headingGlyphs[octant%len(headingGlyphs)]
}

func clearCanvas(c canvas, w, h int) {
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c.SetContent(x, y, ' ', nil, tcell.StyleDefault)
		}
	}
}

func text(c canvas, x, y int, s string, maxWidth int, style tcell.Style) {
	for _, r := range s {
		if x >= maxWidth {
			return
		}
		c.SetContent(x, y, r, nil, style)
		x++
	}
	for ; x < maxWidth; x++ {
		c.SetContent(x, y, ' ', nil, style)
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// watch runs the round in real time on the terminal. Once the round is over
// it waits for a key; quit reports whether that key, or one pressed during
// the round, asked to stop the whole run.
func watch(ctx context.Context, screen tcell.Screen, a *sim.Arena, tickRate float64) (out sim.Outcome, quit bool, err error) {
	if err := screen.Init(); err != nil {
		return sim.Outcome{}, false, errors.Wrap(err, "initialising terminal")
	}
	defer screen.Fini()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	var quitting atomic.Bool
	keys := make(chan struct{}, 1)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			if _, ok := ev.(*tcell.EventKey); !ok {
				continue
			}
			if isQuit(ev) {
				quitting.Store(true)
				cancel()
			}
			select {
			case keys <- struct{}{}:
			default:
			}
		}
	}()

	draw(screen, a)
	screen.Show()
	out = a.RunRealtime(ctx, tickRate, func(a *sim.Arena) {
		draw(screen, a)
		screen.Show()
	})

	if out.Over() && !quitting.Load() {
		// Keys pressed during the round do not skip the final frame.
		select {
		case <-keys:
		default:
		}
		select {
		case <-keys:
		case <-ctx.Done():
		}
	}
	return out, quitting.Load(), nil
}

func isQuit(ev tcell.Event) bool {
	key, ok := ev.(*tcell.EventKey)
	if !ok {
		return false
	}
	return key.Key() == tcell.KeyEscape || key.Key() == tcell.KeyCtrlC ||
		(key.Key() == tcell.KeyRune && key.Rune() == 'q')
}
