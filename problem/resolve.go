package problem

import (
	"github.com/cottand/tsolve/tserr"
	"github.com/cottand/tsolve/types"
)

// Special names which do not refer to classes
const (
	DynamicName = "Any"
	BottomName  = "None"
	VoidName    = "void"
)

// resolver turns parsed type expressions into types.Type
type resolver struct {
	universe *types.Universe
	basics   types.BasicTypes
	at       at
	errs     *tserr.Errors
}

func (r *resolver) resolve(e *typeExpr) types.Type {
	switch {
	case e.Callable != nil:
		return types.NewCallable(r.resolveAll(e.Callable.Args), r.resolve(e.Callable.Ret), r.basics.Function)
	case e.Tuple != nil:
		return types.NewTuple(r.resolveAll(e.Tuple.Items), r.basics.Tuple)
	case e.Named != nil:
		return r.resolveNamed(e)
	default:
		panic("empty type expression")
	}
}

func (r *resolver) resolveAll(es []*typeExpr) []types.Type {
	ts := make([]types.Type, 0, len(es))
	for _, e := range es {
		ts = append(ts, r.resolve(e))
	}
	return ts
}

func (r *resolver) resolveNamed(e *typeExpr) types.Type {
	named := e.Named
	var special types.Type
	switch named.Name {
	case DynamicName:
		special = types.Dynamic{}
	case BottomName:
		special = types.Bottom{}
	case VoidName:
		special = types.Void{}
	}
	if special != nil {
		if len(named.Args) != 0 {
			r.errs = r.errs.With(tserr.New(tserr.NewTypeArity{
				Position: r.at.offset(e.Pos),
				Name:     named.Name,
				Actual:   len(named.Args),
			}))
		}
		return special
	}

	class, ok := r.universe.Lookup(named.Name)
	if !ok {
		r.errs = r.errs.With(tserr.New(tserr.NewUnknownClass{
			Position: r.at.offset(e.Pos),
			Name:     named.Name,
		}))
		return types.ErrorType{}
	}
	if len(named.Args) != class.NumParams {
		r.errs = r.errs.With(tserr.New(tserr.NewTypeArity{
			Position: r.at.offset(e.Pos),
			Name:     named.Name,
			Expected: class.NumParams,
			Actual:   len(named.Args),
		}))
		return types.ErrorType{}
	}
	return types.NewInstance(class, r.resolveAll(named.Args)...)
}

// ParseType parses a type expression such as dict[str, list[int]] against the classes of u
func ParseType(u *types.Universe, basics types.BasicTypes, src string) (types.Type, error) {
	expr, err := typeParser.ParseString("", src)
	if err != nil {
		return nil, (*tserr.Errors)(nil).With(parseError(src, err, at{}))
	}
	r := &resolver{universe: u, basics: basics}
	t := r.resolve(expr)
	if r.errs.HasError() {
		return nil, r.errs
	}
	return t, nil
}
