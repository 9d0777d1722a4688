package tictactoe

import "github.com/rocketscienceinc/tictactoe-engine/internal/entity"

// winningCombos derives every line that wins on a size x size board:
// each row top to bottom, each column left to right, the main diagonal, then the anti-diagonal.
// The scan order of ProcessMove follows this order.
func winningCombos(size int) [][]entity.Position {
	combos := make([][]entity.Position, 0, 2*size+2)

	for row := 0; row < size; row++ {
		line := make([]entity.Position, 0, size)
		for col := 0; col < size; col++ {
			line = append(line, entity.Position{Row: row, Col: col})
		}
		combos = append(combos, line)
	}

	for col := 0; col < size; col++ {
		line := make([]entity.Position, 0, size)
		for row := 0; row < size; row++ {
			line = append(line, entity.Position{Row: row, Col: col})
		}
		combos = append(combos, line)
	}

	mainDiagonal := make([]entity.Position, 0, size)
	antiDiagonal := make([]entity.Position, 0, size)
	for i := 0; i < size; i++ {
		mainDiagonal = append(mainDiagonal, entity.Position{Row: i, Col: i})
		antiDiagonal = append(antiDiagonal, entity.Position{Row: i, Col: size - 1 - i})
	}

	return append(combos, mainDiagonal, antiDiagonal)
}

func copyCombo(combo []entity.Position) []entity.Position {
	if combo == nil {
		return nil
	}

	out := make([]entity.Position, len(combo))
	copy(out, combo)
	return out
}
