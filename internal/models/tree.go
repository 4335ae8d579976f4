package models

import "time"

// InitialPositionLabel is the sequence label of the synthetic umbrella node
// shown above several roots.
const InitialPositionLabel = "Initial Position"

// TreeNode is one owner move in the reconstructed repertoire tree.
type TreeNode struct {
	EntryID      int64       `json:"entry_id,omitempty"`
	FEN          string      `json:"fen,omitempty"`
	Move         string      `json:"move,omitempty"`     // SAN
	MoveUCI      string      `json:"move_uci,omitempty"` // as stored
	OpponentMove string      `json:"opponent_move,omitempty"`
	MoveNumber   int         `json:"move_number,omitempty"`
	Plies        []string    `json:"plies,omitempty"`
	Sequence     string      `json:"sequence"`
	Context      string      `json:"context,omitempty"` // the line before Move
	Card         *CardState  `json:"card,omitempty"`
	Due          bool        `json:"due"`
	Synthetic    bool        `json:"synthetic,omitempty"`
	Children     []*TreeNode `json:"children,omitempty"`
}

// Tree is the display forest for one repertoire, collapsed to a single root
// when there is more than one.
type Tree struct {
	RepertoireID int64       `json:"repertoire_id"`
	Color        Color       `json:"color"`
	Roots        []*TreeNode `json:"roots"`
	BuiltAt      time.Time   `json:"built_at"`
}

// Walk visits every node depth first, the synthetic root included.
func (t *Tree) Walk(fn func(n *TreeNode, depth int)) {
	var visit func(n *TreeNode, depth int)
	visit = func(n *TreeNode, depth int) {
		fn(n, depth)
		for _, c := range n.Children {
			visit(c, depth+1)
		}
	}
	for _, r := range t.Roots {
		visit(r, 0)
	}
}
