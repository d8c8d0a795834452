package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const brailleBlank = 0x2800

// Canvas is a braille canvas with one color per character cell. When
// several trails touch a cell the brightest color wins.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
	Colors        [][]colorful.Color
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
		Colors: make([][]colorful.Color, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		c.Colors[i] = make([]colorful.Color, w)
	}
	c.Clear()
	return c
}

// SubWidth and SubHeight are the canvas size in dots.
func (c *Canvas) SubWidth() int  { return c.Width * 2 }
func (c *Canvas) SubHeight() int { return c.Height * 4 }

// Set lights the dot at (x, y) in sub-pixel coordinates.
func (c *Canvas) Set(x, y int, col colorful.Color) {
	if x < 0 || y < 0 {
		return
	}

	cx := x / 2
	row := y / 4
	if cx >= c.Width || row >= c.Height {
		return
	}

	c.Grid[row][cx] |= rune(pixelMap[y%4][x%2])
	if brightness(col) >= brightness(c.Colors[row][cx]) {
		c.Colors[row][cx] = col
	}
}

// Lit reports whether the dot at (x, y) is set.
func (c *Canvas) Lit(x, y int) bool {
	if x < 0 || y < 0 || x/2 >= c.Width || y/4 >= c.Height {
		return false
	}
	return c.Grid[y/4][x/2]&rune(pixelMap[y%4][x%2]) != 0
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = brailleBlank
			c.Colors[i][j] = colorful.Color{}
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1 int, col colorful.Color) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0, col)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// String is the uncolored canvas.
func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

// Render is the canvas with each cell in its color. Runs of equal color
// share one style.
func (c *Canvas) Render() string {
	var b strings.Builder
	for row := range c.Grid {
		start := 0
		for col := 1; col <= c.Width; col++ {
			if col < c.Width && c.Colors[row][col] == c.Colors[row][start] {
				continue
			}
			run := string(c.Grid[row][start:col])
			if clr := c.Colors[row][start]; brightness(clr) > 0 {
				run = lipgloss.NewStyle().Foreground(toLipgloss(clr)).Render(run)
			}
			b.WriteString(run)
			start = col
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func brightness(col colorful.Color) float64 {
	_, _, v := col.Hsv()
	return v
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
