package entity

const (
	DefaultLabelX = "X"
	DefaultLabelO = "O"
)

// Player is one side of a game: the label it writes into cells and the color it is displayed with.
type Player struct {
	Label string `json:"label" yaml:"label"`
	Color string `json:"color" yaml:"color"`
}

// DefaultPlayers returns the X (red) and O (green) pair, X moving first.
func DefaultPlayers() []Player {
	return []Player{
		{Label: DefaultLabelX, Color: "red"},
		{Label: DefaultLabelO, Color: "green"},
	}
}
