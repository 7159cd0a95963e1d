package lattice

import (
	"fmt"

	"github.com/cottand/tsolve/types"
)

// IsSubtype carries the notation <:<
//
// It is reflexive, Dynamic is compatible with anything in both directions and
// Bottom is a subtype of everything.
func IsSubtype(left, right types.Type) bool {
	if types.Equal(left, right) {
		return true
	}
	if types.IsDynamic(left) || types.IsDynamic(right) {
		return true
	}
	if _, ok := left.(types.Bottom); ok {
		return true
	}

	switch left := left.(type) {
	case types.ErrorType, types.Void:
		// only subtypes of themselves, handled by Equal above
		return false
	case types.Instance:
		right, ok := right.(types.Instance)
		if !ok {
			return false
		}
		return isInstanceSubtype(left, right)
	case types.Callable:
		switch right := right.(type) {
		case types.Callable:
			return isCallableSubtype(left, right)
		case types.Instance:
			return IsSubtype(left.Fallback, right)
		default:
			return false
		}
	case types.Tuple:
		switch right := right.(type) {
		case types.Tuple:
			return allSubtypes(left.Items, right.Items) && IsSubtype(left.Fallback, right.Fallback)
		case types.Instance:
			return IsSubtype(left.Fallback, right)
		default:
			return false
		}
	default:
		panic(fmt.Sprintf("IsSubtype not implemented for %T", left))
	}
}

// isInstanceSubtype checks nominal ancestry, with covariant type arguments
func isInstanceSubtype(left, right types.Instance) bool {
	if !left.Class.HasBase(right.Name()) {
		return false
	}
	mapped, ok := types.MapToSupertype(left, right.Class)
	if !ok {
		return false
	}
	return allSubtypes(mapped.Args, right.Args)
}

func isCallableSubtype(left, right types.Callable) bool {
	if len(left.Args) != len(right.Args) {
		return false
	}
	// arguments are contravariant
	if !allSubtypes(right.Args, left.Args) {
		return false
	}
	return IsSubtype(left.Ret, right.Ret) && IsSubtype(left.Fallback, right.Fallback)
}

func allSubtypes(lefts, rights []types.Type) bool {
	if len(lefts) != len(rights) {
		return false
	}
	for i := range lefts {
		if !IsSubtype(lefts[i], rights[i]) {
			return false
		}
	}
	return true
}
