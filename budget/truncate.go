package budget

// BaseOverhead is the fixed token cost charged for the response envelope
// before any item is admitted.
const BaseOverhead = 100

// DefaultLimit is the token budget applied to tool responses when the
// caller does not configure one.
const DefaultLimit = 25000

// Truncate returns the longest prefix of items whose estimated token
// cost, on top of BaseOverhead, stays within limit. The second return
// value reports whether any items were dropped.
//
// Items are considered strictly in input order. The first item that would
// exceed the budget ends the pass: neither it nor any later item is
// included, even if a later item would individually fit.
func Truncate[T any](items []T, limit int) ([]T, bool) {
	consumed := BaseOverhead
	kept := make([]T, 0, len(items))
	for _, item := range items {
		cost := Estimate(item)
		if consumed+cost > limit {
			return kept, true
		}
		kept = append(kept, item)
		consumed += cost
	}
	return kept, false
}
