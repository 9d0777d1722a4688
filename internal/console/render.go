package console

import (
	"fmt"
	"strings"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

const (
	ansiReset   = "\x1b[0m"
	ansiBold    = "\x1b[1m"
	ansiReverse = "\x1b[7m"
)

var ansiColors = map[string]string{
	"black":   "\x1b[30m",
	"red":     "\x1b[31m",
	"green":   "\x1b[32m",
	"yellow":  "\x1b[33m",
	"blue":    "\x1b[34m",
	"magenta": "\x1b[35m",
	"cyan":    "\x1b[36m",
	"white":   "\x1b[37m",
}

// render draws the board with column and row indexes. Cells of the winning line are highlighted.
func (that *Console) render() {
	size := that.game.BoardSize()
	board := that.game.Board()

	highlighted := make(map[entity.Position]bool)
	for _, position := range that.game.WinnerCombo() {
		highlighted[position] = true
	}

	colors := make(map[string]string)
	for _, player := range that.game.Players() {
		colors[player.Label] = player.Color
	}

	var sb strings.Builder

	sb.WriteString("\n   ")
	for col := range size {
		fmt.Fprintf(&sb, " %d  ", col)
	}
	sb.WriteString("\n")

	for row, cells := range board {
		fmt.Fprintf(&sb, "%2d ", row)

		for col, cell := range cells {
			label := cell.Label
			if !cell.IsPlayed() {
				label = " "
			}

			win := highlighted[entity.Position{Row: row, Col: col}]
			if win && !that.colors {
				sb.WriteString("*" + label + "*")
			} else {
				sb.WriteString(" " + that.paint(label, colors[cell.Label], win) + " ")
			}

			if col < size-1 {
				sb.WriteString("|")
			}
		}
		sb.WriteString("\n")

		if row < size-1 {
			sb.WriteString("   " + strings.TrimSuffix(strings.Repeat("---+", size), "+") + "\n")
		}
	}
	sb.WriteString("\n")

	that.printf("%s", sb.String())
}

func (that *Console) paint(text, color string, highlight bool) string {
	if !that.colors {
		return text
	}

	prefix := ansiColors[strings.ToLower(color)]
	if highlight {
		prefix += ansiBold + ansiReverse
	}

	if prefix == "" {
		return text
	}

	return prefix + text + ansiReset
}
