package graph

import (
	"convroute/internal/domain/format"
)

// Tunable constants (see the routing spec's constants table).
const (
	DepthCost                 = 1.0
	DefaultCategoryChangeCost = 0.6
	LossyCostMultiplier       = 1.4
	HandlerPriorityCost       = 0.2
	FormatPriorityCost        = 0.05
	LogFrequency              = 1000
)

// CostTables holds the mutable category-change and category-adaptive cost
// tables. Mutations do not retroactively re-cost an already-built graph;
// callers must rebuild.
type CostTables struct {
	categoryChange []CategoryChangeEntry
	adaptive       []AdaptiveEntry
}

// DefaultCostTables returns the shipped default configuration.
func DefaultCostTables() *CostTables {
	t := &CostTables{}
	for _, e := range []CategoryChangeEntry{
		{From: format.CategoryImage, To: format.CategoryVideo, Cost: 0.2},
		{From: format.CategoryVideo, To: format.CategoryImage, Cost: 0.4},
		{From: format.CategoryImage, To: format.CategoryAudio, Handler: "ffmpeg", Cost: 100},
		{From: format.CategoryAudio, To: format.CategoryImage, Handler: "ffmpeg", Cost: 100},
		{From: format.CategoryText, To: format.CategoryAudio, Handler: "ffmpeg", Cost: 100},
		{From: format.CategoryAudio, To: format.CategoryText, Handler: "ffmpeg", Cost: 100},
		{From: format.CategoryImage, To: format.CategoryAudio, Cost: 1.4},
		{From: format.CategoryAudio, To: format.CategoryImage, Cost: 1.0},
		{From: format.CategoryVideo, To: format.CategoryAudio, Cost: 1.4},
		{From: format.CategoryAudio, To: format.CategoryVideo, Cost: 1.0},
		{From: format.CategoryText, To: format.CategoryImage, Cost: 0.5},
		{From: format.CategoryImage, To: format.CategoryText, Cost: 0.5},
		{From: format.CategoryText, To: format.CategoryAudio, Cost: 0.6},
	} {
		t.categoryChange = append(t.categoryChange, e)
	}
	for _, e := range []AdaptiveEntry{
		{Categories: []string{format.CategoryText, format.CategoryImage, format.CategoryAudio}, Cost: 15},
		{Categories: []string{format.CategoryImage, format.CategoryVideo, format.CategoryAudio}, Cost: 10000},
		{Categories: []string{format.CategoryAudio, format.CategoryVideo, format.CategoryImage}, Cost: 10000},
	} {
		t.adaptive = append(t.adaptive, e)
	}
	return t
}

// Clone returns a deep copy of the tables, used by Graph.GetData so callers
// never alias internal storage.
func (t *CostTables) Clone() *CostTables {
	out := &CostTables{
		categoryChange: append([]CategoryChangeEntry(nil), t.categoryChange...),
		adaptive:       make([]AdaptiveEntry, len(t.adaptive)),
	}
	for i, a := range t.adaptive {
		out.adaptive[i] = AdaptiveEntry{Categories: append([]string(nil), a.Categories...), Cost: a.Cost}
	}
	return out
}

// --- Category-change table mutation: add/update/remove/has, keyed by (from, to, handler). ---

func (t *CostTables) AddCategoryChangeCost(from, to, handlerName string, cost float64) {
	if t.HasCategoryChangeCost(from, to, handlerName) {
		t.UpdateCategoryChangeCost(from, to, handlerName, cost)
		return
	}
	t.categoryChange = append(t.categoryChange, CategoryChangeEntry{From: from, To: to, Handler: handlerName, Cost: cost})
}

func (t *CostTables) UpdateCategoryChangeCost(from, to, handlerName string, cost float64) {
	for i := range t.categoryChange {
		e := &t.categoryChange[i]
		if e.From == from && e.To == to && e.Handler == handlerName {
			e.Cost = cost
			return
		}
	}
	t.AddCategoryChangeCost(from, to, handlerName, cost)
}

func (t *CostTables) RemoveCategoryChangeCost(from, to, handlerName string) {
	out := t.categoryChange[:0]
	for _, e := range t.categoryChange {
		if e.From == from && e.To == to && e.Handler == handlerName {
			continue
		}
		out = append(out, e)
	}
	t.categoryChange = out
}

func (t *CostTables) HasCategoryChangeCost(from, to, handlerName string) bool {
	for _, e := range t.categoryChange {
		if e.From == from && e.To == to && e.Handler == handlerName {
			return true
		}
	}
	return false
}

// --- Adaptive table mutation: add/update/remove/has, keyed by the full category sequence. ---

func (t *CostTables) AddCategoryAdaptiveCost(categories []string, cost float64) {
	if t.HasCategoryAdaptiveCost(categories) {
		t.UpdateCategoryAdaptiveCost(categories, cost)
		return
	}
	t.adaptive = append(t.adaptive, AdaptiveEntry{Categories: append([]string(nil), categories...), Cost: cost})
}

func (t *CostTables) UpdateCategoryAdaptiveCost(categories []string, cost float64) {
	for i := range t.adaptive {
		if sameSequence(t.adaptive[i].Categories, categories) {
			t.adaptive[i].Cost = cost
			return
		}
	}
	t.AddCategoryAdaptiveCost(categories, cost)
}

func (t *CostTables) RemoveCategoryAdaptiveCost(categories []string) {
	out := t.adaptive[:0]
	for _, e := range t.adaptive {
		if sameSequence(e.Categories, categories) {
			continue
		}
		out = append(out, e)
	}
	t.adaptive = out
}

func (t *CostTables) HasCategoryAdaptiveCost(categories []string) bool {
	for _, e := range t.adaptive {
		if sameSequence(e.Categories, categories) {
			return true
		}
	}
	return false
}

// costModel computes the cost of a single edge (f -> t) declared by handler
// h at position hIdx in the handler list, per the routing spec's cost model.
type costModel struct {
	tables          *CostTables
	strictCategories bool
}

func newCostModel(tables *CostTables, strict bool) *costModel {
	return &costModel{tables: tables, strictCategories: strict}
}

func (cm *costModel) edgeCost(f, t format.Descriptor, h string, hIdx int, formatPos int) float64 {
	cost := DepthCost
	cost += cm.categoryChangeComponent(f.Categories, t.Categories, h)
	cost += HandlerPriorityCost * float64(hIdx)
	cost += FormatPriorityCost * float64(formatPos)
	if !t.Lossless {
		cost *= LossyCostMultiplier
	}
	return cost
}

func (cm *costModel) categoryChangeComponent(fromCats, toCats []string, h string) float64 {
	if len(fromCats) == 0 && len(toCats) == 0 {
		return 0
	}
	if len(fromCats) == 0 || len(toCats) == 0 {
		return DefaultCategoryChangeCost
	}

	// handlerPairs: (from,to) -> every handler explicitly named for that
	// pair. Used to decide whether a handler-agnostic entry still "belongs"
	// to some specific handler and should not fall back for h. A set rather
	// than a single handler, since two handler-specific entries can name the
	// same pair for different handlers.
	handlerPairs := make(map[[2]string]map[string]bool)
	for _, e := range cm.tables.categoryChange {
		if e.Handler != "" {
			key := [2]string{e.From, e.To}
			if handlerPairs[key] == nil {
				handlerPairs[key] = make(map[string]bool)
			}
			handlerPairs[key][e.Handler] = true
		}
	}

	if cm.strictCategories {
		total := 0.0
		for _, e := range cm.tables.categoryChange {
			if containsStr(fromCats, e.From) && containsStr(toCats, e.To) && (e.Handler == "" || e.Handler == h) {
				total += e.Cost
			} else {
				total += DefaultCategoryChangeCost
			}
		}
		return total
	}

	// Lenient mode (default).
	if intersects(fromCats, toCats) {
		return 0
	}

	// An entry applies to h if it names h directly, or it is handler-agnostic
	// and no more specific entry for the same (from,to) pair names h (that
	// entry is considered on its own iteration instead).
	var min float64
	found := false
	for _, e := range cm.tables.categoryChange {
		if !containsStr(fromCats, e.From) || !containsStr(toCats, e.To) {
			continue
		}
		if e.Handler != "" && e.Handler != h {
			continue
		}
		if e.Handler == "" && handlerPairs[[2]string{e.From, e.To}][h] {
			continue
		}
		if !found || e.Cost < min {
			min = e.Cost
			found = true
		}
	}
	if !found {
		return DefaultCategoryChangeCost
	}
	return min
}

func containsStr(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func intersects(a, b []string) bool {
	for _, x := range a {
		if containsStr(b, x) {
			return true
		}
	}
	return false
}

// adaptiveCost computes the contribution of the adaptive table to a path's
// cost. It depends only on a suffix of the path's category sequence: for
// each entry, scan the sequence from the end and attempt to match the
// entry's full category list, allowing same-category runs to count as a
// single step in the match (an interior repeat of the category currently
// being matched does not advance the match pointer).
func adaptiveCost(tables *CostTables, categories []string) float64 {
	total := 0.0
	for _, entry := range tables.adaptive {
		if matchesSuffix(categories, entry.Categories) {
			total += entry.Cost
		}
	}
	return total
}

// matchesSuffix reports whether entry (a category sequence, oldest-first)
// can be matched against the trailing categories of seq, scanning seq from
// the end and consuming entry from its end, allowing runs of the same
// category to collapse into one matched token.
func matchesSuffix(seq []string, entry []string) bool {
	if len(entry) == 0 {
		return true
	}
	si := len(seq) - 1
	ei := len(entry) - 1
	for ei >= 0 {
		if si < 0 {
			return false
		}
		if seq[si] == entry[ei] {
			// Consume the run of this same category in seq before moving
			// the entry pointer, so interior repeats count once.
			for si > 0 && seq[si-1] == seq[si] {
				si--
			}
			si--
			ei--
			continue
		}
		return false
	}
	return true
}
