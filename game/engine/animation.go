package engine

// Animation is one event of a move's timeline. The concrete types are
// NewTile, MoveTile and MergeTile.
type Animation interface {
	isAnimation()
}

// NewTile places a spawned tile on an empty cell
type NewTile struct {
	At    Location
	Value int
}

// MoveTile relocates the tile at From to To, From is empty once committed
type MoveTile struct {
	From Location
	To   Location
}

// MergeTile doubles the committed tile at At
type MergeTile struct {
	At Location
}

func (NewTile) isAnimation()   {}
func (MoveTile) isAnimation()  {}
func (MergeTile) isAnimation() {}

// Frame is a JSON friendly view of one animation, used by transports
type Frame struct {
	Kind  string    `json:"kind"` // "new", "move" or "merge"
	From  *Location `json:"from,omitempty"`
	To    *Location `json:"to,omitempty"`
	At    *Location `json:"at,omitempty"`
	Value int       `json:"value,omitempty"`
}

// FrameOf converts an animation into its wire form. value is the tile value
// the renderer should draw; callers pass it because MoveTile and MergeTile do
// not carry one.
func FrameOf(a Animation, value int) Frame {
	switch a := a.(type) {
	case NewTile:
		at := a.At
		return Frame{Kind: "new", At: &at, Value: a.Value}
	case MoveTile:
		from, to := a.From, a.To
		return Frame{Kind: "move", From: &from, To: &to, Value: value}
	case MergeTile:
		at := a.At
		return Frame{Kind: "merge", At: &at, Value: value}
	default:
		return Frame{Kind: "unknown"}
	}
}
