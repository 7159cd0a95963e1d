package types

import (
	"fmt"

	"github.com/benbjohnson/immutable"
	"github.com/hashicorp/go-set/v3"
)

type className = string

// ClassDef is a nominal class with single inheritance.
//
// Base arguments are fixed when the class is defined: they may not refer to
// the class' own type parameters.
type ClassDef struct {
	Name      className
	NumParams int
	// Base is nil for root classes
	Base *Instance
	// ancestors contains Name and the names of all transitive bases
	ancestors *set.Set[className]
}

// NewClass defines a class. base may be nil, in which case the class is a root
func NewClass(name className, numParams int, base *Instance) *ClassDef {
	ancestors := set.From([]className{name})
	if base != nil {
		ancestors.InsertSet(base.Class.ancestors)
	}
	return &ClassDef{
		Name:      name,
		NumParams: numParams,
		Base:      base,
		ancestors: ancestors,
	}
}

// HasBase reports whether name is this class or one of its transitive bases
func (c *ClassDef) HasBase(name className) bool {
	return c.ancestors.Contains(name)
}

func (c *ClassDef) IsRoot() bool {
	return c.Base == nil
}

// Depth is the number of bases between c and its root
func (c *ClassDef) Depth() int {
	return c.ancestors.Size() - 1
}

func (c *ClassDef) String() string {
	if c.Base == nil {
		return c.Name
	}
	return fmt.Sprintf("%s(%s)", c.Name, c.Base)
}

// MapToSupertype walks the base chain of t until it reaches super, returning
// t viewed as an instance of super. ok is false if super is not an ancestor of t
func MapToSupertype(t Instance, super *ClassDef) (mapped Instance, ok bool) {
	for {
		if t.Class.Name == super.Name {
			return t, true
		}
		if t.Class.Base == nil {
			return Instance{}, false
		}
		t = *t.Class.Base
	}
}

// Ancestry returns t followed by its bases, most specific first
func Ancestry(t Instance) []Instance {
	chain := make([]Instance, 0, t.Class.Depth()+1)
	for {
		chain = append(chain, t)
		if t.Class.Base == nil {
			return chain
		}
		t = *t.Class.Base
	}
}

// Universe is a persistent collection of classes, indexed by name.
// Defining a class returns a new Universe and leaves the receiver untouched
type Universe struct {
	classes *immutable.SortedMap[className, *ClassDef]
}

func NewUniverse() *Universe {
	return &Universe{classes: immutable.NewSortedMap[className, *ClassDef](nil)}
}

func (u *Universe) Lookup(name className) (*ClassDef, bool) {
	return u.classes.Get(name)
}

func (u *Universe) Len() int {
	return u.classes.Len()
}

// Classes returns every class in the universe, sorted by name
func (u *Universe) Classes() []*ClassDef {
	classes := make([]*ClassDef, 0, u.classes.Len())
	itr := u.classes.Iterator()
	for !itr.Done() {
		_, class, _ := itr.Next()
		classes = append(classes, class)
	}
	return classes
}

// Define adds a class whose base, if not nil, must already be in the universe
func (u *Universe) Define(name className, numParams int, base *Instance) (*Universe, *ClassDef, error) {
	if _, exists := u.classes.Get(name); exists {
		return nil, nil, fmt.Errorf("class '%s' is already defined", name)
	}
	if numParams < 0 {
		return nil, nil, fmt.Errorf("class '%s' cannot have %d type parameters", name, numParams)
	}
	if base != nil {
		known, ok := u.classes.Get(base.Name())
		if !ok || known != base.Class {
			return nil, nil, fmt.Errorf("base '%s' of class '%s' is not defined", base.Name(), name)
		}
		if len(base.Args) != known.NumParams {
			return nil, nil, fmt.Errorf("base '%s' of class '%s' expects %d type arguments, found %d", base.Name(), name, known.NumParams, len(base.Args))
		}
	}
	class := NewClass(name, numParams, base)
	return &Universe{classes: u.classes.Set(name, class)}, class, nil
}

// MustDefine is like Define but panics on error. Meant for builtin universes
func (u *Universe) MustDefine(name className, numParams int, base *Instance) (*Universe, *ClassDef) {
	u, class, err := u.Define(name, numParams, base)
	if err != nil {
		panic(err)
	}
	return u, class
}
