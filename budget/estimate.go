package budget

import (
	"fmt"
	"reflect"
)

// Estimate approximates the token cost of v. Strings cost max(1, len/4);
// composite values cost the sum of their parts; nil costs 0.
func Estimate(v any) int {
	if v == nil {
		return 0
	}
	return estimateValue(reflect.ValueOf(v))
}

func estimateValue(rv reflect.Value) int {
	switch rv.Kind() {
	case reflect.String:
		return charCost(rv.Len())

	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return 0
		}
		return estimateValue(rv.Elem())

	case reflect.Slice, reflect.Array:
		total := 0
		for i := 0; i < rv.Len(); i++ {
			total += estimateValue(rv.Index(i))
		}
		return total

	case reflect.Map:
		total := 0
		iter := rv.MapRange()
		for iter.Next() {
			total += estimateValue(iter.Key())
			total += estimateValue(iter.Value())
		}
		return total

	case reflect.Struct:
		total := 0
		t := rv.Type()
		for i := 0; i < rv.NumField(); i++ {
			if !t.Field(i).IsExported() {
				continue
			}
			total += estimateValue(rv.Field(i))
		}
		return total

	default:
		// Numbers, bools, and anything else cost their printed length.
		return charCost(len(fmt.Sprint(rv.Interface())))
	}
}

// charCost converts a character count to an approximate token count,
// never reporting less than one token.
func charCost(n int) int {
	cost := n / 4
	if cost < 1 {
		return 1
	}
	return cost
}
