package lattice

import (
	"github.com/cottand/tsolve/types"
)

// Meet returns the greatest lower bound of s and t.
//
// Types with no common subtype other than the bottom type meet to Bottom,
// and Void meets to ErrorType with anything but Void.
func Meet(s, t types.Type, basics types.BasicTypes) types.Type {
	if res, ok := absorb(s, t); ok {
		return res
	}
	_, sBottom := s.(types.Bottom)
	_, tBottom := t.(types.Bottom)
	if sBottom || tBottom {
		return types.Bottom{}
	}

	switch s := s.(type) {
	case types.Instance:
		if t, ok := t.(types.Instance); ok && s.Name() == t.Name() && len(s.Args) == len(t.Args) {
			return types.NewInstance(s.Class, combineAll(s.Args, t.Args, basics, Meet)...)
		}
	case types.Callable:
		if t, ok := t.(types.Callable); ok && isSimilarCallable(s, t) {
			return types.NewCallable(
				combineAll(s.Args, t.Args, basics, Join),
				Meet(s.Ret, t.Ret, basics),
				s.Fallback,
			)
		}
	case types.Tuple:
		if t, ok := t.(types.Tuple); ok && isSimilarTuple(s, t) {
			return types.NewTuple(combineAll(s.Items, t.Items, basics, Meet), s.Fallback)
		}
	}

	if IsSubtype(s, t) {
		return s
	}
	if IsSubtype(t, s) {
		return t
	}
	return types.Bottom{}
}
