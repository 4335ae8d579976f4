// Package repertoire reconstructs the move tree of a repertoire from its flat
// list of entries. Nothing about parent/child relations is stored: two owner
// entries are linked when one legal opponent reply connects the position after
// the first entry's move to the position of the second.
package repertoire

import (
	"fmt"
	"sort"
	"time"

	"github.com/sousa16/chesslab/internal/models"
	"github.com/sousa16/chesslab/internal/rules"
)

// Edge links an owner entry to a following owner entry through one opponent
// reply.
type Edge struct {
	Child int64
	Reply rules.Move
}

// Graph is the derived structure of one repertoire. It is immutable once
// built; WithCards swaps in fresh card states without recomputing edges.
type Graph struct {
	entries  map[int64]models.Entry
	owners   []int64            // owner entry ids, ascending
	atFEN    map[string][]int64 // owner entries by position
	opponent map[string][]int64 // opponent entries by position
	into     map[string][]int64 // opponent entries by the position they lead to
	after    map[int64]string   // position reached by each entry's move
	san      map[int64]string
	boards   map[string]rules.Board
	children map[int64][]Edge
	incoming map[int64]int
}

// NewGraph derives the edges of entries using engine for move generation.
// Every entry must carry its position FEN.
func NewGraph(entries []models.Entry, engine rules.Engine) (*Graph, error) {
	g := &Graph{
		entries:  make(map[int64]models.Entry, len(entries)),
		atFEN:    make(map[string][]int64),
		opponent: make(map[string][]int64),
		into:     make(map[string][]int64),
		after:    make(map[int64]string, len(entries)),
		san:      make(map[int64]string, len(entries)),
		boards:   make(map[string]rules.Board),
		children: make(map[int64][]Edge),
		incoming: make(map[int64]int),
	}

	sorted := append([]models.Entry(nil), entries...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	for _, e := range sorted {
		if e.FEN == "" {
			return nil, fmt.Errorf("entry %d has no position", e.ID)
		}
		g.entries[e.ID] = e
		san, err := engine.SAN(e.FEN, e.ExpectedMove)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", e.ID, err)
		}
		next, err := engine.Apply(e.FEN, e.ExpectedMove)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", e.ID, err)
		}
		g.san[e.ID] = san
		g.after[e.ID] = next
		if err := g.decode(engine, e.FEN); err != nil {
			return nil, err
		}
		if e.UserMove {
			g.owners = append(g.owners, e.ID)
			g.atFEN[e.FEN] = append(g.atFEN[e.FEN], e.ID)
		} else {
			g.opponent[e.FEN] = append(g.opponent[e.FEN], e.ID)
			g.into[next] = append(g.into[next], e.ID)
		}
	}

	successors := make(map[string][]rules.Successor)
	for _, id := range g.owners {
		pos := g.after[id]
		if err := g.decode(engine, pos); err != nil {
			return nil, err
		}
		succ, ok := successors[pos]
		if !ok {
			var err error
			if succ, err = engine.Successors(pos); err != nil {
				return nil, fmt.Errorf("entry %d: %w", id, err)
			}
			successors[pos] = succ
		}
		var edges []Edge
		for _, s := range succ {
			for _, child := range g.atFEN[s.FEN] {
				edges = append(edges, Edge{Child: child, Reply: s.Move})
				g.incoming[child]++
			}
		}
		sort.Slice(edges, func(i, j int) bool {
			if edges[i].Reply.SAN != edges[j].Reply.SAN {
				return edges[i].Reply.SAN < edges[j].Reply.SAN
			}
			return edges[i].Child < edges[j].Child
		})
		g.children[id] = edges
	}
	return g, nil
}

func (g *Graph) decode(engine rules.Engine, fen string) error {
	if _, ok := g.boards[fen]; ok {
		return nil
	}
	b, err := engine.Decode(fen)
	if err != nil {
		return err
	}
	g.boards[fen] = b
	return nil
}

// WithCards returns a copy of g whose entries carry the card states of
// entries. Ids missing from g are ignored.
func (g *Graph) WithCards(entries []models.Entry) *Graph {
	out := *g
	out.entries = make(map[int64]models.Entry, len(g.entries))
	for id, e := range g.entries {
		out.entries[id] = e
	}
	for _, e := range entries {
		if cur, ok := out.entries[e.ID]; ok {
			cur.Card = e.Card
			cur.Version = e.Version
			out.entries[e.ID] = cur
		}
	}
	return &out
}

// Matches reports whether entries holds exactly the ids g was built from.
func (g *Graph) Matches(entries []models.Entry) bool {
	if len(entries) != len(g.entries) {
		return false
	}
	for _, e := range entries {
		if _, ok := g.entries[e.ID]; !ok {
			return false
		}
	}
	return true
}

// Len returns the number of entries in the graph.
func (g *Graph) Len() int { return len(g.entries) }

// Entry returns the entry with the given id.
func (g *Graph) Entry(id int64) (models.Entry, bool) {
	e, ok := g.entries[id]
	return e, ok
}

// Children returns the outgoing edges of an owner entry.
func (g *Graph) Children(id int64) []Edge {
	return g.children[id]
}

// Roots returns owner entries with no incoming edge, ascending by id.
func (g *Graph) Roots() []int64 {
	var out []int64
	for _, id := range g.owners {
		if g.incoming[id] == 0 {
			out = append(out, id)
		}
	}
	return out
}

// Descendants returns id and every owner entry reachable from it, in BFS
// order. Each id appears once even when the graph has cycles.
func (g *Graph) Descendants(id int64) []int64 {
	if e, ok := g.entries[id]; !ok || !e.UserMove {
		return nil
	}
	return g.reach([]int64{id})
}

func (g *Graph) reach(starts []int64) []int64 {
	seen := make(map[int64]bool, len(starts))
	var out []int64
	queue := make([]int64, 0, len(starts))
	for _, id := range starts {
		if !seen[id] {
			seen[id] = true
			queue = append(queue, id)
		}
	}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		out = append(out, id)
		for _, edge := range g.children[id] {
			if !seen[edge.Child] {
				seen[edge.Child] = true
				queue = append(queue, edge.Child)
			}
		}
	}
	return out
}

// DeletionSet returns every entry that goes when target is deleted, target
// included, sorted ascending. For an owner entry that is the entry and its
// descendants. For an opponent entry it is the entry plus the owner entries its
// move leads to and their descendants. Opponent entries answering a deleted
// owner move go too, unless a surviving owner entry reaches the same position.
// Opponent entries leading into a deleted owner entry go too, unless a
// surviving owner entry's move reaches the position they are played from.
func (g *Graph) DeletionSet(target int64) []int64 {
	e, ok := g.entries[target]
	if !ok {
		return nil
	}
	del := map[int64]bool{target: true}
	starts := []int64{target}
	if !e.UserMove {
		starts = g.atFEN[g.after[target]]
	}
	for _, id := range g.reach(starts) {
		del[id] = true
	}

	surviving := make(map[string]bool)
	for _, id := range g.owners {
		if !del[id] {
			surviving[g.after[id]] = true
		}
	}
	for _, id := range g.owners {
		if !del[id] {
			continue
		}
		pos := g.after[id]
		if surviving[pos] {
			continue
		}
		for _, opp := range g.opponent[pos] {
			del[opp] = true
		}
	}
	// Owner plies are unique per position, so a deleted owner entry leaves
	// nothing at the end of the replies leading into it.
	for _, id := range g.owners {
		if !del[id] {
			continue
		}
		for _, opp := range g.into[g.entries[id].FEN] {
			if !surviving[g.entries[opp].FEN] {
				del[opp] = true
			}
		}
	}

	out := make([]int64, 0, len(del))
	for id := range del {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// BuildTree renders the display tree. Entries never reached from a root,
// which only happens for pure cycles, become roots themselves. Several roots
// are grouped under a synthetic Initial Position node.
func (g *Graph) BuildTree(repertoireID int64, color models.Color, now time.Time) *models.Tree {
	b := &treeBuilder{g: g, now: now, reached: make(map[int64]bool)}

	var roots []*models.TreeNode
	for _, id := range g.Roots() {
		roots = append(roots, b.root(id))
	}
	for _, id := range g.owners {
		if !b.reached[id] {
			roots = append(roots, b.root(id))
		}
	}

	tree := &models.Tree{RepertoireID: repertoireID, Color: color, BuiltAt: now}
	switch len(roots) {
	case 0:
		tree.Roots = []*models.TreeNode{}
	case 1:
		tree.Roots = roots
	default:
		tree.Roots = []*models.TreeNode{{
			Sequence:  models.InitialPositionLabel,
			Synthetic: true,
			Children:  roots,
		}}
	}
	return tree
}

type treeBuilder struct {
	g       *Graph
	now     time.Time
	reached map[int64]bool
}

func (b *treeBuilder) root(id int64) *models.TreeNode {
	var line []rules.LinePly
	var prefix string
	if into := b.g.into[b.g.entries[id].FEN]; len(into) > 0 {
		opp := b.g.entries[into[0]]
		prefix = b.g.san[opp.ID]
		line = append(line, rules.LinePly{SAN: prefix, Board: b.g.boards[opp.FEN]})
	}
	return b.node(id, line, prefix, map[int64]bool{})
}

func (b *treeBuilder) node(id int64, line []rules.LinePly, reply string, path map[int64]bool) *models.TreeNode {
	b.reached[id] = true
	path[id] = true
	defer delete(path, id)

	e := b.g.entries[id]
	board := b.g.boards[e.FEN]
	line = append(line[:len(line):len(line)], rules.LinePly{SAN: b.g.san[id], Board: board})

	card := e.Card.Clone()
	n := &models.TreeNode{
		EntryID:      id,
		FEN:          e.FEN,
		Move:         b.g.san[id],
		MoveUCI:      e.ExpectedMove,
		OpponentMove: reply,
		MoveNumber:   board.FullMove,
		Plies:        sans(line),
		Sequence:     rules.FormatLine(line),
		Context:      rules.FormatLine(line[:len(line)-1]),
		Card:         &card,
		Due:          card.IsDue(b.now),
	}

	replyBoard := b.g.boards[b.g.after[id]]
	for _, edge := range b.g.children[id] {
		if path[edge.Child] {
			continue
		}
		next := append(line[:len(line):len(line)], rules.LinePly{SAN: edge.Reply.SAN, Board: replyBoard})
		n.Children = append(n.Children, b.node(edge.Child, next, edge.Reply.SAN, path))
	}
	return n
}

func sans(line []rules.LinePly) []string {
	out := make([]string, len(line))
	for i, p := range line {
		out[i] = p.SAN
	}
	return out
}
