package budget_test

import (
	"fmt"

	"github.com/phene/dash-mcp-server/budget"
)

func ExampleEstimate() {
	fmt.Println(budget.Estimate("abcdefgh"))
	fmt.Println(budget.Estimate([]string{"abcdefgh", "abcdefgh"}))
	// Output:
	// 2
	// 4
}

func ExampleTruncate() {
	results := []string{
		"first result body",  // 4 tokens
		"second result body", // 4 tokens
		"third result body",  // 4 tokens
	}

	// BaseOverhead is 100, so a limit of 109 leaves room for 9 tokens
	// of items: the first two fit, the third is cut.
	kept, truncated := budget.Truncate(results, 109)
	fmt.Println(len(kept), truncated)
	// Output: 2 true
}
