package systolic

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// Rendering layout, per PE:
//
//	|   W=7   | ala |
//	|   pla   |-----|
//
// with the edge values printed above each column ("v↓") and left of each row
// ("v -> "). Column width is max(len, 8) + 2.

const minCellWidth = 8

type renderFrame struct {
	top   []string
	left  []string
	main  [][]string
	side  [][]string
	below [][]string
}

func cellWidth(values ...string) int {
	width := minCellWidth
	for _, v := range values {
		if n := utf8.RuneCountInString(v); n > width {
			width = n
		}
	}
	return width + 2
}

func center(value string, width int) string {
	pad := width - utf8.RuneCountInString(value)
	if pad <= 0 {
		return value
	}
	left := pad / 2
	return strings.Repeat(" ", left) + value + strings.Repeat(" ", pad-left)
}

func (f renderFrame) String() string {
	rows := len(f.main)
	topRows := make([]string, rows)
	botRows := make([]string, rows)
	var header strings.Builder
	maxRowWidth := 0

	for i := 0; i < rows; i++ {
		var top, bot strings.Builder
		for j := range f.main[i] {
			side := f.side[i][j]
			values := []string{f.main[i][j]}
			if f.below != nil {
				values = append(values, f.below[i][j])
			}
			width := cellWidth(values...)

			top.WriteString("| " + center(f.main[i][j], width) + " | " + side + " ")
			if f.below != nil {
				bot.WriteString("| " + center(f.below[i][j], width) + " |" + strings.Repeat("-", len(side)+2))
			}
			if i == 0 && f.top != nil {
				header.WriteString("  " + center(f.top[j]+"↓", width) + "   " + strings.Repeat(" ", len(side)) + " ")
			}
		}
		topRows[i] = top.String()
		botRows[i] = bot.String()
		if n := utf8.RuneCountInString(topRows[i]); n > maxRowWidth {
			maxRowWidth = n
		}
	}

	labelWidth := 0
	for _, l := range f.left {
		if len(l) > labelWidth {
			labelWidth = len(l)
		}
	}
	margin := 1
	if f.left != nil {
		margin = labelWidth + 5
	}
	lsep := strings.Repeat(" ", margin)
	sep := lsep + strings.Repeat("=", maxRowWidth+1)

	var sb strings.Builder
	sb.WriteString(lsep + header.String() + "\n" + sep + "\n")
	for i := 0; i < rows; i++ {
		if f.left != nil {
			sb.WriteString(" " + strings.Repeat(" ", labelWidth-len(f.left[i])) + f.left[i] + " -> ")
		} else {
			sb.WriteString(lsep)
		}
		sb.WriteString(topRows[i] + "|\n")
		if f.below != nil {
			sb.WriteString(lsep + botRows[i] + "|\n" + sep + "\n")
		}
	}
	if f.below == nil {
		sb.WriteString(sep + "\n")
	}
	return sb.String()
}

func itoa(v int64) string {
	return strconv.FormatInt(v, 10)
}

func formatAll(values []int64) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = itoa(v)
	}
	return out
}

func newCells(rows, cols int) [][]string {
	out := make([][]string, rows)
	for i := range out {
		out[i] = make([]string, cols)
	}
	return out
}

// Render draws weights, latches and edge values. In MMM the side cell is the
// activation latch and the lower cell the partial-sum latch; in MVM the side
// cell carries the partial sum.
func (h *Hsa) Render() string {
	enabled := h.EnableSnapshot()
	top, left := h.EdgeValues()
	f := renderFrame{
		top:  formatAll(top),
		left: formatAll(left),
		main: newCells(h.n, h.n),
		side: newCells(h.n, h.n),
	}
	if h.mode == ModeMMM {
		f.below = newCells(h.n, h.n)
	}

	for i := 0; i < h.n; i++ {
		for j := 0; j < h.n; j++ {
			f.main[i][j] = "Disabled"
			if enabled[i][j] {
				f.main[i][j] = "W=" + itoa(h.weights.Peek(i, j))
			}
			f.side[i][j] = itoa(h.latches.Read(Forward, i, j))
			if f.below != nil {
				f.below[i][j] = itoa(h.latches.Read(Down, i, j))
			}
		}
	}
	return h.mode.Label() + " cycle " + strconv.Itoa(h.counter) + "\n" + f.String()
}

// Render shows each PE's accumulator with the activation latch to its right
// and the weight latch below it.
func (m *Mpu) Render() string {
	enabled := m.EnableSnapshot()
	top, left := m.EdgeValues()
	f := renderFrame{
		top:   formatAll(top),
		left:  formatAll(left),
		main:  newCells(m.rows, m.cols),
		side:  newCells(m.rows, m.cols),
		below: newCells(m.rows, m.cols),
	}
	for i := 0; i < m.rows; i++ {
		for j := 0; j < m.cols; j++ {
			f.main[i][j] = "Disabled"
			if enabled[i][j] {
				f.main[i][j] = itoa(m.units[i*m.cols+j].Accumulator())
			}
			f.side[i][j] = itoa(m.latches.Read(Forward, i, j))
			f.below[i][j] = itoa(m.latches.Read(Down, i, j))
		}
	}
	return "MPU cycle " + strconv.Itoa(m.counter) + "\n" + f.String()
}

// Render shows each packed weight with its tag and the partial-sum latch.
// The edge row lists the activation pair broadcast to each packed column.
func (s *SpVpu) Render() string {
	enabled := s.EnableSnapshot()
	pairs := s.EdgeValues()
	f := renderFrame{
		top:  make([]string, s.cols),
		main: newCells(s.rows, s.cols),
		side: newCells(s.rows, s.cols),
	}
	for c, pair := range pairs {
		f.top[c] = itoa(pair[0]) + "," + itoa(pair[1])
	}
	for i := 0; i < s.rows; i++ {
		for j := 0; j < s.cols; j++ {
			f.main[i][j] = "Disabled"
			if enabled[i][j] {
				f.main[i][j] = "W=" + itoa(s.weights.Peek(i, j)) + ",ix=" + strconv.Itoa(int(s.packed.Tag(i, j)))
			}
			f.side[i][j] = itoa(s.latches.Read(Forward, i, j))
		}
	}
	return "SPVPU cycle " + strconv.Itoa(s.counter) + "\n" + f.String()
}
