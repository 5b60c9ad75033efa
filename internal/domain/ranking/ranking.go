// Package ranking orders catalog films: tiered sort, weighted shuffle and curated-first.
package ranking

import (
	"cmp"
	"math/rand/v2"
	"slices"
	"sync"

	"github.com/okian/arthouse/internal/domain/model"
)

// Default ranking parameters.
const (
	DefaultHighTierThreshold = 70
	DefaultReservedHead      = 50
)

// TieredCompare orders by tier asc, baseCanonScore desc, year desc, then id.
func TieredCompare(a, b model.Film) int {
	if c := cmp.Compare(a.Tier, b.Tier); c != 0 {
		return c
	}
	if c := cmp.Compare(b.BaseCanonScore, a.BaseCanonScore); c != 0 {
		return c
	}
	if c := cmp.Compare(b.Year, a.Year); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}

// SortTiered sorts films in place by TieredCompare.
func SortTiered(films []model.Film) {
	slices.SortFunc(films, TieredCompare)
}

// Ranker applies the shuffle and curated policies.
type Ranker struct {
	threshold int
	head      int
	curated   []string
	priority  []string

	mu  sync.Mutex
	rng *rand.Rand
}

// Option applies a configuration option to the Ranker.
type Option func(*Ranker)

// WithHighTierThreshold sets the minimum score of the high tier.
func WithHighTierThreshold(score int) Option {
	return func(r *Ranker) {
		if score >= 0 && score <= 100 {
			r.threshold = score
		}
	}
}

// WithReservedHead sets how many high-tier films lead a shuffle.
func WithReservedHead(n int) Option {
	return func(r *Ranker) {
		if n >= 0 {
			r.head = n
		}
	}
}

// WithCuratedTitles sets the editorial list placed first in curated mode.
func WithCuratedTitles(titles []string) Option {
	return func(r *Ranker) {
		r.curated = slices.Clone(titles)
	}
}

// WithRand sets the random source. Without it the global source is used.
func WithRand(rng *rand.Rand) Option {
	return func(r *Ranker) {
		r.rng = rng
	}
}

// NewRanker creates a Ranker with default parameters.
func NewRanker(opts ...Option) *Ranker {
	r := &Ranker{
		threshold: DefaultHighTierThreshold,
		head:      DefaultReservedHead,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// CuratedTitles returns a copy of the editorial list.
func (r *Ranker) CuratedTitles() []string {
	return slices.Clone(r.curated)
}

// Shuffle returns films as reserved high-tier head followed by a mixed tail.
//
// Films scoring at least the threshold are shuffled and the first head of
// them lead. The remaining high-tier films join the low tier and the pool is
// shuffled again. The input slice is not modified.
func (r *Ranker) Shuffle(films []model.Film) []model.Film {
	high := make([]model.Film, 0, len(films))
	low := make([]model.Film, 0, len(films))
	for _, f := range films {
		if f.BaseCanonScore >= r.threshold {
			high = append(high, f)
		} else {
			low = append(low, f)
		}
	}
	r.permute(high)
	r.permute(low)

	n := min(r.head, len(high))
	out := make([]model.Film, 0, len(films))
	out = append(out, high[:n]...)
	rest := append(high[n:], low...)
	r.permute(rest)
	return append(out, rest...)
}

// CuratedFirst places the curated titles found in films first, in list
// order, followed by every other film in tiered order. Unknown titles are
// dropped. When several films share a curated title the best tiered one is used.
func (r *Ranker) CuratedFirst(films []model.Film) []model.Film {
	rest := slices.Clone(films)
	SortTiered(rest)

	byTitle := make(map[string]int, len(r.curated))
	for i, f := range rest {
		if _, ok := byTitle[f.Title]; !ok {
			byTitle[f.Title] = i
		}
	}

	out := make([]model.Film, 0, len(rest))
	taken := make(map[int]struct{}, len(r.curated))
	for _, title := range r.curated {
		i, ok := byTitle[title]
		if !ok {
			continue
		}
		if _, dup := taken[i]; dup {
			continue
		}
		taken[i] = struct{}{}
		out = append(out, rest[i])
	}
	for i, f := range rest {
		if _, ok := taken[i]; !ok {
			out = append(out, f)
		}
	}
	return out
}

func (r *Ranker) permute(films []model.Film) {
	swap := func(i, j int) { films[i], films[j] = films[j], films[i] }
	if r.rng == nil {
		rand.Shuffle(len(films), swap)
		return
	}
	r.mu.Lock()
	r.rng.Shuffle(len(films), swap)
	r.mu.Unlock()
}

// Paginate returns the 1-based page of size limit. Pages past the end are empty.
func Paginate(films []model.Film, limit, page int) model.Page {
	limit = max(limit, 1)
	page = max(page, 1)
	total := len(films)
	p := model.Page{
		Movies: []model.Film{},
		Total:  total,
		Page:   page,
		Pages:  (total + limit - 1) / limit,
	}
	if page > p.Pages {
		return p
	}
	start := (page - 1) * limit
	p.Movies = films[start:min(start+limit, total)]
	return p
}

// Single wraps films as the one page returned by shuffle mode.
func Single(films []model.Film) model.Page {
	if films == nil {
		films = []model.Film{}
	}
	return model.Page{Movies: films, Total: len(films), Page: 1, Pages: 1}
}
