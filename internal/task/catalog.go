package task

import (
	"fmt"
	"math/rand/v2"
	"sort"

	"gopkg.in/yaml.v3"
)

// CardList is a named card definition in the catalog file.
type CardList struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Tasks       []Task `yaml:"tasks"`
}

// CatalogFile represents the full YAML structure
type CatalogFile struct {
	Version int        `yaml:"version"`
	Cards   []CardList `yaml:"cards"`
}

// Catalog holds every named card and serves task pools from it
type Catalog struct {
	cards map[string]Pool
	order []string
}

// NewCatalog parses a catalog from YAML data. Duplicate tasks inside one
// card are dropped so that a pool is always a set.
func NewCatalog(data []byte) (*Catalog, error) {
	var file CatalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse task catalog: %w", err)
	}

	c := &Catalog{cards: make(map[string]Pool)}
	for _, list := range file.Cards {
		if list.Name == "" {
			return nil, fmt.Errorf("card without a name in task catalog")
		}
		if _, exists := c.cards[list.Name]; exists {
			return nil, fmt.Errorf("card %q defined twice", list.Name)
		}

		seen := make(map[string]bool, len(list.Tasks))
		pool := make(Pool, 0, len(list.Tasks))
		for _, t := range list.Tasks {
			if t.Key == "" {
				return nil, fmt.Errorf("card %q: task without a key", list.Name)
			}
			if t.Kind == "" {
				t.Kind = KindItem
			}
			if t.Count == 0 {
				t.Count = 1
			}
			if seen[t.ID()] {
				continue
			}
			seen[t.ID()] = true
			pool = append(pool, t)
		}
		c.cards[list.Name] = pool
		c.order = append(c.order, list.Name)
	}
	return c, nil
}

// CardNames returns the names of all cards in file order.
func (c *Catalog) CardNames() []string {
	names := make([]string, len(c.order))
	copy(names, c.order)
	return names
}

// HasCard reports whether a card with that name exists.
func (c *Catalog) HasCard(name string) bool {
	_, ok := c.cards[name]
	return ok
}

// Pool returns a copy of the ordered task pool of a card. Unknown cards
// yield an empty pool.
func (c *Catalog) Pool(cardName string) Pool {
	pool := c.cards[cardName]
	out := make(Pool, len(pool))
	copy(out, pool)
	return out
}

// RandomTask draws one task of a kind not excluded from a card. Item tasks
// are preferred because they can be checked instantly; other kinds are used
// when no item is left.
func (c *Catalog) RandomTask(cardName string, rng *rand.Rand, excluded ...Kind) (Task, bool) {
	pool := c.cards[cardName].Without(excluded...)
	if len(pool) == 0 {
		return Task{}, false
	}
	items := pool.Without(KindAdvancement, KindStatistic)
	if len(items) > 0 {
		pool = items
	}
	return pool[rng.IntN(len(pool))], true
}

// Kinds returns the task kinds present on a card, sorted.
func (c *Catalog) Kinds(cardName string) []Kind {
	seen := map[Kind]bool{}
	for _, t := range c.cards[cardName] {
		seen[t.Kind] = true
	}
	kinds := make([]Kind, 0, len(seen))
	for k := range seen {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}
