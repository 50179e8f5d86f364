package surface

import (
	"errors"
	"image"

	"github.com/gdamore/tcell/v2"

	"github.com/iburimskiy/backdrop/internal/draw"
)

// ErrNoScreen is returned when a terminal surface has no screen to draw on.
var ErrNoScreen = errors.New("surface: no screen")

// halfBlock shows the foreground in the top half of a cell and the
// background in the bottom half.
const halfBlock = '▀'

// TerminalViewport returns the viewport of a cols x rows terminal. Every
// cell holds two stacked pixels, so the host area is cols x 2*rows.
func TerminalViewport(cols, rows int) draw.Viewport {
	return draw.NewViewport(cols, rows*2, 1)
}

// CellToHost maps a terminal cell to host units of TerminalViewport, at
// the cell's centre.
func CellToHost(col, row int) (x, y float64) {
	return float64(col) + 0.5, float64(row)*2 + 1
}

// Terminal rasterises a frame at cell resolution and writes it to a tcell
// screen with half-block characters.
type Terminal struct {
	screen tcell.Screen
	raster *Raster
}

// NewTerminal wraps screen. The screen must already be initialised.
func NewTerminal(screen tcell.Screen) (*Terminal, error) {
	if screen == nil {
		return nil, ErrNoScreen
	}
	cols, rows := screen.Size()
	v := TerminalViewport(max(cols, 1), max(rows, 1))
	r, err := NewRaster(v)
	if err != nil {
		return nil, err
	}
	return &Terminal{screen: screen, raster: r}, nil
}

// Paint draws l and shows the screen.
func (t *Terminal) Paint(l *draw.List, v draw.Viewport) error {
	err := t.raster.Paint(l, v)
	if errors.Is(err, ErrInvalidViewport) {
		return err
	}
	img := t.raster.Image()
	cols, rows := t.screen.Size()
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			style := tcell.StyleDefault.
				Foreground(cellColor(img, x, 2*y)).
				Background(cellColor(img, x, 2*y+1))
			t.screen.SetContent(x, y, halfBlock, nil, style)
		}
	}
	t.screen.Show()
	return err
}

// Close releases the raster. The screen stays owned by the caller.
func (t *Terminal) Close() error { return t.raster.Close() }

// cellColor composites a pixel over black.
func cellColor(img image.Image, x, y int) tcell.Color {
	if !(image.Point{X: x, Y: y}).In(img.Bounds()) {
		return tcell.ColorBlack
	}
	r, g, b, _ := img.At(x, y).RGBA()
	return tcell.NewRGBColor(int32(r>>8), int32(g>>8), int32(b>>8))
}
