package services

import (
	"sync"

	"github.com/sousa16/chesslab/internal/models"
	"github.com/sousa16/chesslab/internal/repertoire"
	"github.com/sousa16/chesslab/internal/rules"
)

// graphCache keeps the derived graph of each repertoire for as long as its
// version does not change. Card states are refreshed on every read.
type graphCache struct {
	mu     sync.Mutex
	engine rules.Engine
	items  map[int64]cachedGraph
	hits   int
	builds int
}

type cachedGraph struct {
	version int64
	graph   *repertoire.Graph
}

func newGraphCache(engine rules.Engine) *graphCache {
	return &graphCache{engine: engine, items: make(map[int64]cachedGraph)}
}

func (c *graphCache) get(rep *models.Repertoire, entries []models.Entry) (*repertoire.Graph, error) {
	c.mu.Lock()
	cached, ok := c.items[rep.ID]
	c.mu.Unlock()
	if ok && cached.version == rep.Version && cached.graph.Matches(entries) {
		c.mu.Lock()
		c.hits++
		c.mu.Unlock()
		return cached.graph.WithCards(entries), nil
	}

	g, err := repertoire.NewGraph(entries, c.engine)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.builds++
	if cur, ok := c.items[rep.ID]; !ok || cur.version <= rep.Version {
		c.items[rep.ID] = cachedGraph{version: rep.Version, graph: g}
	}
	c.mu.Unlock()
	return g, nil
}

func (c *graphCache) invalidate(repertoireID int64) {
	c.mu.Lock()
	delete(c.items, repertoireID)
	c.mu.Unlock()
}

func (c *graphCache) stats() (hits, builds int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.builds
}
