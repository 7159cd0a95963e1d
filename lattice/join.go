package lattice

import (
	"fmt"

	"github.com/cottand/tsolve/types"
)

// Join returns the least upper bound of s and t.
//
// It returns ErrorType when there is no sensible common supertype within the
// modelled hierarchy: Void with anything but Void, or classes with no common root.
func Join(s, t types.Type, basics types.BasicTypes) types.Type {
	if res, ok := absorb(s, t); ok {
		return res
	}
	if _, ok := s.(types.Bottom); ok {
		return t
	}
	if _, ok := t.(types.Bottom); ok {
		return s
	}

	switch t := t.(type) {
	case types.Instance:
		switch s := s.(type) {
		case types.Instance:
			return joinInstances(s, t, basics)
		case types.Callable:
			return Join(s.Fallback, t, basics)
		case types.Tuple:
			return Join(s.Fallback, t, basics)
		}
	case types.Callable:
		switch s := s.(type) {
		case types.Callable:
			if isSimilarCallable(s, t) {
				return types.NewCallable(
					combineAll(s.Args, t.Args, basics, Meet),
					Join(s.Ret, t.Ret, basics),
					t.Fallback,
				)
			}
			return Join(s.Fallback, t.Fallback, basics)
		case types.Instance:
			return Join(t.Fallback, s, basics)
		case types.Tuple:
			return Join(s.Fallback, t.Fallback, basics)
		}
	case types.Tuple:
		switch s := s.(type) {
		case types.Tuple:
			if isSimilarTuple(s, t) {
				return types.NewTuple(combineAll(s.Items, t.Items, basics, Join), t.Fallback)
			}
			return Join(s.Fallback, t.Fallback, basics)
		case types.Instance:
			return Join(t.Fallback, s, basics)
		case types.Callable:
			return Join(s.Fallback, t.Fallback, basics)
		}
	}
	panic(fmt.Sprintf("Join not implemented for %T and %T", s, t))
}

// joinInstances finds the closest class both s and t derive from, and joins
// the type arguments of s and t once mapped to that class
func joinInstances(s, t types.Instance, basics types.BasicTypes) types.Type {
	for _, ancestor := range types.Ancestry(s) {
		if !t.Class.HasBase(ancestor.Name()) {
			continue
		}
		mapped, ok := types.MapToSupertype(t, ancestor.Class)
		if !ok || len(mapped.Args) != len(ancestor.Args) {
			break
		}
		return types.NewInstance(ancestor.Class, combineAll(ancestor.Args, mapped.Args, basics, Join)...)
	}
	logger.Debug("no common ancestor", "s", s, "t", t, "object", basics.Object)
	return types.ErrorType{}
}

func isSimilarCallable(s, t types.Callable) bool {
	return len(s.Args) == len(t.Args) && types.Equal(s.Fallback, t.Fallback)
}

func isSimilarTuple(s, t types.Tuple) bool {
	return len(s.Items) == len(t.Items) && types.Equal(s.Fallback, t.Fallback)
}
