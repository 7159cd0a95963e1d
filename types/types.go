// Package types holds the type representation the solver and the lattice operate on.
//
// The taxonomy is closed: every Type is one of Instance, Callable, Tuple,
// Void, Dynamic, Bottom or ErrorType. Values are immutable once built.
package types

import (
	"fmt"

	"github.com/cottand/tsolve/util"
)

type Type interface {
	fmt.Stringer
	isType()
}

var (
	_ Type = Instance{}
	_ Type = Callable{}
	_ Type = Tuple{}
	_ Type = Void{}
	_ Type = Dynamic{}
	_ Type = Bottom{}
	_ Type = ErrorType{}
)

// Instance is a nominal type: a class applied to type arguments
type Instance struct {
	Class *ClassDef
	Args  []Type
}

// Callable is a function type. Fallback is the nominal type callables are
// compatible with (usually the function anchor of BasicTypes)
type Callable struct {
	Args     []Type
	Ret      Type
	Fallback Instance
}

// Tuple is a fixed-length heterogeneous tuple. Fallback is the nominal
// type tuples are compatible with
type Tuple struct {
	Items    []Type
	Fallback Instance
}

// Void is the type of expressions which produce no value.
// It only joins or meets with itself
type Void struct{}

// Dynamic accepts anything and is accepted by anything, printed as Any
type Dynamic struct{}

// Bottom is the most specific type, printed as None.
// It is the default for type variables without constraints
type Bottom struct{}

// ErrorType is produced by the lattice when two types cannot be combined
type ErrorType struct{}

func (Instance) isType()  {}
func (Callable) isType()  {}
func (Tuple) isType()     {}
func (Void) isType()      {}
func (Dynamic) isType()   {}
func (Bottom) isType()    {}
func (ErrorType) isType() {}

func NewInstance(class *ClassDef, args ...Type) Instance {
	return Instance{Class: class, Args: args}
}

func NewCallable(args []Type, ret Type, fallback Instance) Callable {
	return Callable{Args: args, Ret: ret, Fallback: fallback}
}

func NewTuple(items []Type, fallback Instance) Tuple {
	return Tuple{Items: items, Fallback: fallback}
}

func (t Instance) Name() string {
	if t.Class == nil {
		return "<nil>"
	}
	return t.Class.Name
}

func (t Instance) String() string {
	if len(t.Args) == 0 {
		return t.Name()
	}
	return t.Name() + "[" + util.JoinString(t.Args, ", ") + "]"
}

func (t Callable) String() string {
	return "def (" + util.JoinString(t.Args, ", ") + ") -> " + t.Ret.String()
}

func (t Tuple) String() string {
	if len(t.Items) == 1 {
		return "(" + t.Items[0].String() + ",)"
	}
	return "(" + util.JoinString(t.Items, ", ") + ")"
}

func (Void) String() string      { return "void" }
func (Dynamic) String() string   { return "Any" }
func (Bottom) String() string    { return "None" }
func (ErrorType) String() string { return "<error>" }

// Equal compares types structurally.
// Classes are compared by name, so two universes defining the same class name agree
func Equal(a, b Type) bool {
	switch a := a.(type) {
	case Instance:
		b, ok := b.(Instance)
		return ok && a.Name() == b.Name() && allEqual(a.Args, b.Args)
	case Callable:
		b, ok := b.(Callable)
		return ok && allEqual(a.Args, b.Args) && Equal(a.Ret, b.Ret) && Equal(a.Fallback, b.Fallback)
	case Tuple:
		b, ok := b.(Tuple)
		return ok && allEqual(a.Items, b.Items) && Equal(a.Fallback, b.Fallback)
	case Void:
		_, ok := b.(Void)
		return ok
	case Dynamic:
		_, ok := b.(Dynamic)
		return ok
	case Bottom:
		_, ok := b.(Bottom)
		return ok
	case ErrorType:
		_, ok := b.(ErrorType)
		return ok
	case nil:
		return b == nil
	default:
		panic(fmt.Sprintf("unexpected type %T", a))
	}
}

func allEqual(as, bs []Type) bool {
	if len(as) != len(bs) {
		return false
	}
	for i := range as {
		if !Equal(as[i], bs[i]) {
			return false
		}
	}
	return true
}

func IsDynamic(t Type) bool {
	_, ok := t.(Dynamic)
	return ok
}

func IsError(t Type) bool {
	_, ok := t.(ErrorType)
	return ok
}

// Describe is like String but safe for nil, which stands for an absent type
func Describe(t Type) string {
	if t == nil {
		return "<unset>"
	}
	return t.String()
}
