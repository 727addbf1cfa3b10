// Package budget bounds the approximate token cost of result collections
// returned to an LLM caller. It provides a recursive size estimator and a
// prefix truncator that together keep tool responses under a fixed token
// budget without reordering or rejecting results.
//
// # Estimation
//
// Estimate approximates the token cost of a value using the common
// 1-token-per-4-characters heuristic:
//
//   - Strings cost max(1, len/4).
//   - Maps, slices, and structs cost the sum of their constituent parts
//     (map keys included).
//   - Other scalars cost their formatted length / 4, minimum 1.
//
// The estimate is deliberately rough. It only needs to be stable and
// monotonic in content size, not to match any particular tokenizer.
//
// # Truncation
//
// Truncate walks an ordered result slice, accumulating estimated cost on
// top of BaseOverhead (the fixed envelope cost of the response structure),
// and stops before the first item that would push the total past the
// limit:
//
//	kept, truncated := budget.Truncate(results, budget.DefaultLimit)
//	if truncated {
//	    // report how many results were dropped
//	}
//
// The returned slice is always a strict prefix of the input: upstream
// ordering (typically relevance ranking) is preserved, and no later item
// is ever admitted after one has been refused. An empty input yields an
// empty, non-truncated output; a first item that alone exceeds the budget
// yields an empty, truncated output.
//
// # Determinism
//
// Both Estimate and Truncate are pure functions of their inputs: the same
// items and limit always produce the same prefix and the same truncated
// flag.
package budget
