package entity

// EmptyCell is the label of a cell nobody has played yet.
const EmptyCell = ""

// Position is a 0-indexed (row, column) pair on the board.
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Move is a cell position plus the label of the player who owns it.
// A move with an empty label denotes an unplayed cell.
type Move struct {
	Row   int    `json:"row"`
	Col   int    `json:"col"`
	Label string `json:"label,omitempty"`
}

func NewMove(row, col int, label string) Move {
	return Move{Row: row, Col: col, Label: label}
}

func (that Move) Position() Position {
	return Position{Row: that.Row, Col: that.Col}
}

func (that Move) IsPlayed() bool {
	return that.Label != EmptyCell
}
