package solver

import (
	"fmt"

	"github.com/benbjohnson/immutable"
	"github.com/cottand/tsolve/types"
)

// TypeVarID identifies a type variable. It carries no other information
type TypeVarID int

func (id TypeVarID) String() string {
	return fmt.Sprintf("T%d", int(id))
}

type Direction int

const (
	// LowerBound constraints require the variable to be a supertype of the target
	LowerBound Direction = iota
	// UpperBound constraints require the variable to be a subtype of the target
	UpperBound
)

func (d Direction) String() string {
	switch d {
	case LowerBound:
		return ":>"
	case UpperBound:
		return "<:"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

// Constraint binds Var to Target in direction Dir.
// Target never refers to another type variable
type Constraint struct {
	Var    TypeVarID
	Dir    Direction
	Target types.Type
}

func SupertypeOf(v TypeVarID, target types.Type) Constraint {
	return Constraint{Var: v, Dir: LowerBound, Target: target}
}

func SubtypeOf(v TypeVarID, target types.Type) Constraint {
	return Constraint{Var: v, Dir: UpperBound, Target: target}
}

func (c Constraint) String() string {
	return fmt.Sprintf("%s %s %s", c.Var, c.Dir, types.Describe(c.Target))
}

type varHasher struct{}

func (varHasher) Hash(key TypeVarID) uint32 {
	h := uint32(key)
	// murmur3 finalizer
	h ^= h >> 16
	h *= 0x85ebca6b
	h ^= h >> 13
	h *= 0xc2b2ae35
	h ^= h >> 16
	return h
}
func (varHasher) Equal(a, b TypeVarID) bool { return a == b }

// buckets maps each constrained variable to its constraints, in input order
type buckets = *immutable.Map[TypeVarID, *immutable.List[Constraint]]

func bucket(constraints []Constraint) buckets {
	builder := immutable.NewMapBuilder[TypeVarID, *immutable.List[Constraint]](varHasher{})
	for _, c := range constraints {
		bucket, ok := builder.Get(c.Var)
		if !ok {
			bucket = immutable.NewList[Constraint]()
		}
		builder.Set(c.Var, bucket.Append(c))
	}
	return builder.Map()
}

func constraintsOf(b buckets, v TypeVarID) []Constraint {
	list, ok := b.Get(v)
	if !ok {
		return nil
	}
	cs := make([]Constraint, 0, list.Len())
	itr := list.Iterator()
	for !itr.Done() {
		_, c := itr.Next()
		cs = append(cs, c)
	}
	return cs
}
