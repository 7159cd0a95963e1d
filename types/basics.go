package types

import "fmt"

// Names of the classes BasicTypes is built from
const (
	ObjectName   = "object"
	TypeName     = "type"
	TupleName    = "tuple"
	FunctionName = "function"
)

// BasicTypes are the anchors the lattice needs to combine types of different
// shapes. They are read-only and passed around by value
type BasicTypes struct {
	Object   Instance
	TypeType Instance
	Tuple    Instance
	Function Instance
}

// BasicsOf looks up the anchor classes in u
func BasicsOf(u *Universe) (BasicTypes, error) {
	lookup := func(name string) (Instance, error) {
		class, ok := u.Lookup(name)
		if !ok {
			return Instance{}, fmt.Errorf("universe is missing basic class '%s'", name)
		}
		if class.NumParams != 0 {
			return Instance{}, fmt.Errorf("basic class '%s' cannot be generic", name)
		}
		return NewInstance(class), nil
	}
	var basics BasicTypes
	var err error
	if basics.Object, err = lookup(ObjectName); err != nil {
		return BasicTypes{}, err
	}
	if basics.TypeType, err = lookup(TypeName); err != nil {
		return BasicTypes{}, err
	}
	if basics.Tuple, err = lookup(TupleName); err != nil {
		return BasicTypes{}, err
	}
	if basics.Function, err = lookup(FunctionName); err != nil {
		return BasicTypes{}, err
	}
	return basics, nil
}

// Builtins returns a universe with the basic classes plus a handful of common ones:
//
//	object
//	type, tuple, function, int, float, str, list[T], dict[K, V] <: object
//	bool <: int
func Builtins() *Universe {
	u, object := NewUniverse().MustDefine(ObjectName, 0, nil)
	objectBase := NewInstance(object)
	for _, name := range []string{TypeName, TupleName, FunctionName, "int", "float", "str"} {
		u, _ = u.MustDefine(name, 0, &objectBase)
	}
	u, _ = u.MustDefine("list", 1, &objectBase)
	u, _ = u.MustDefine("dict", 2, &objectBase)

	intClass, _ := u.Lookup("int")
	intBase := NewInstance(intClass)
	u, _ = u.MustDefine("bool", 0, &intBase)
	return u
}

// BuiltinBasics are the BasicTypes of Builtins
func BuiltinBasics() BasicTypes {
	basics, err := BasicsOf(Builtins())
	if err != nil {
		panic(err)
	}
	return basics
}
