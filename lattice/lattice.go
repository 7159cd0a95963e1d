// Package lattice implements join, meet and subtyping over types.Type.
//
// Join and Meet are commutative and associative. Dynamic absorbs everything,
// and ErrorType absorbs everything but Dynamic.
package lattice

import (
	"github.com/cottand/tsolve/internal/log"
	"github.com/cottand/tsolve/types"
)

var logger = log.DefaultLogger.With("section", "lattice")

// Lattice is what the solver needs to combine bounds
type Lattice interface {
	// Join returns the least type both a and b are subtypes of
	Join(a, b types.Type, basics types.BasicTypes) types.Type
	// Meet returns the greatest type that is a subtype of both a and b
	Meet(a, b types.Type, basics types.BasicTypes) types.Type
	IsSubtype(a, b types.Type) bool
}

// Nominal is the Lattice over the nominal class hierarchy of package types
type Nominal struct{}

var Default Lattice = Nominal{}

func (Nominal) Join(a, b types.Type, basics types.BasicTypes) types.Type { return Join(a, b, basics) }
func (Nominal) Meet(a, b types.Type, basics types.BasicTypes) types.Type { return Meet(a, b, basics) }
func (Nominal) IsSubtype(a, b types.Type) bool                            { return IsSubtype(a, b) }

// IsEquivalent carries the notation >:<
func IsEquivalent(a, b types.Type) bool {
	return types.Equal(a, b) || IsSubtype(a, b) && IsSubtype(b, a)
}

// absorb handles the cases shared by Join and Meet, where the shape of the
// other type does not matter
func absorb(a, b types.Type) (types.Type, bool) {
	if types.IsDynamic(a) || types.IsDynamic(b) {
		return types.Dynamic{}, true
	}
	if types.IsError(a) || types.IsError(b) {
		return types.ErrorType{}, true
	}
	_, aVoid := a.(types.Void)
	_, bVoid := b.(types.Void)
	if aVoid && bVoid {
		return types.Void{}, true
	}
	if aVoid || bVoid {
		return types.ErrorType{}, true
	}
	return nil, false
}

func combineAll(as, bs []types.Type, basics types.BasicTypes, op func(a, b types.Type, basics types.BasicTypes) types.Type) []types.Type {
	combined := make([]types.Type, len(as))
	for i := range as {
		combined[i] = op(as[i], bs[i], basics)
	}
	return combined
}
