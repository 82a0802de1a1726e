package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/growthlab/internal/viz"
)

const (
	background  = "#0a0a0a"
	seriesColor = "#4aa3ff"
	steadyColor = "#ff5555"
)

// braille dot bits by row and column
var pixelMap = [4][2]rune{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

// CanvasToSVG converts a braille canvas to SVG, one circle per lit dot.
func CanvasToSVG(canvas *viz.Canvas, scale float64, color string) string {
	if canvas == nil {
		return ""
	}

	width := float64(canvas.Width) * scale * 2
	height := float64(canvas.Height) * scale * 4

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
<g fill="%s">
`, width, height, width, height, background, color)

	dotRadius := scale * 0.4

	for row := 0; row < canvas.Height; row++ {
		for col := 0; col < canvas.Width; col++ {
			pattern := canvas.Grid[row][col] - 0x2800
			if pattern <= 0 {
				continue
			}

			baseX := float64(col) * scale * 2
			baseY := float64(row) * scale * 4

			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 2; dx++ {
					if pattern&pixelMap[dy][dx] != 0 {
						cx := baseX + float64(dx)*scale + scale/2
						cy := baseY + float64(dy)*scale + scale/2
						fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\"/>\n", cx, cy, dotRadius)
					}
				}
			}
		}
	}

	sb.WriteString("</g>\n</svg>\n")
	return sb.String()
}

// SeriesToSVG draws a path over periods. A finite steady value adds a dashed
// reference line. Non-finite observations break the path.
func SeriesToSVG(series []float64, steady float64, width, height int) string {
	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, v := range series {
		if finite(v) {
			minY = math.Min(minY, v)
			maxY = math.Max(maxY, v)
		}
	}
	if math.IsInf(minY, 0) {
		return ""
	}
	if finite(steady) {
		minY = math.Min(minY, steady)
		maxY = math.Max(maxY, steady)
	}

	rangeY := maxY - minY
	if rangeY == 0 {
		rangeY = 1
	}
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeY = maxY - minY

	rangeX := float64(len(series) - 1)
	if rangeX == 0 {
		rangeX = 1
	}

	project := func(t int, v float64) (float64, float64) {
		x := float64(t) / rangeX * float64(width)
		y := float64(height) - (v-minY)/rangeY*float64(height)
		return x, y
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, background)

	if finite(steady) {
		_, y := project(0, steady)
		fmt.Fprintf(&sb, "<line x1=\"0\" y1=\"%.1f\" x2=\"%d\" y2=\"%.1f\" stroke=\"%s\" stroke-dasharray=\"6 4\"/>\n", y, width, y, steadyColor)
	}

	fmt.Fprintf(&sb, `<path fill="none" stroke="%s" stroke-width="1.5" d="`, seriesColor)
	move := true
	for t, v := range series {
		if !finite(v) {
			move = true
			continue
		}
		x, y := project(t, v)
		if move {
			fmt.Fprintf(&sb, "M%.1f,%.1f", x, y)
			move = false
		} else {
			fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
		}
	}
	sb.WriteString("\"/>\n</svg>\n")
	return sb.String()
}

// PhaseToSVG renders the x[t+1] against x[t] diagram of a series.
func PhaseToSVG(series []float64, width, height int, scale float64) string {
	return CanvasToSVG(viz.PhaseCanvas(series, width, height), scale, seriesColor)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
