package entitylinking

import (
	"sort"

	"github.com/teranos/wtu/index"
)

// Ranked is an entity candidate after aggregation.
type Ranked struct {
	EntityURI string
	Frequency int
	// Score is Frequency over the summed frequency of all candidates,
	// including those cut by top-N.
	Score float64
	Fuzzy bool
}

// Rank sums the frequencies of candidates naming the same entity, orders
// entities by frequency (ties by URI) and keeps the first topN. It returns
// nil when the candidates carry no frequency at all.
func Rank(cands []index.Candidate, topN int) []Ranked {
	byEntity := make(map[string]*Ranked)
	order := make([]*Ranked, 0, len(cands))
	total := 0
	for _, c := range cands {
		total += c.Frequency
		r, ok := byEntity[c.EntityURI]
		if !ok {
			r = &Ranked{EntityURI: c.EntityURI}
			byEntity[c.EntityURI] = r
			order = append(order, r)
		}
		r.Frequency += c.Frequency
		if c.Similarity < 1 {
			r.Fuzzy = true
		}
	}
	if total <= 0 {
		return nil
	}

	sort.SliceStable(order, func(i, j int) bool {
		if order[i].Frequency != order[j].Frequency {
			return order[i].Frequency > order[j].Frequency
		}
		return order[i].EntityURI < order[j].EntityURI
	})

	if topN > 0 && len(order) > topN {
		order = order[:topN]
	}

	out := make([]Ranked, len(order))
	for i, r := range order {
		r.Score = float64(r.Frequency) / float64(total)
		out[i] = *r
	}
	return out
}
