// Package problem loads constraint problems from YAML files.
//
// A problem declares classes on top of types.Builtins, type variables, and
// constraints on those variables:
//
//	classes:
//	  - name: animal
//	  - name: cat
//	    base: animal
//	  - name: box
//	    params: 1
//	variables: [T, S]
//	constraints:
//	  - T :> cat
//	  - T <: animal
//	  - "S :> box[int]"
//
// Classes derive from object unless they declare a base or are marked as
// root. A base must be declared before the classes deriving from it. When
// variables are omitted they are collected from the constraints, in order of
// first appearance.
package problem

import (
	"bytes"
	"io"
	"os"
	"strings"

	"github.com/cottand/tsolve/internal/log"
	"github.com/cottand/tsolve/solver"
	"github.com/cottand/tsolve/tserr"
	"github.com/cottand/tsolve/types"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

var logger = log.DefaultLogger.With("section", "problem")

// Problem is ready to be handed to solver.Solve
type Problem struct {
	Universe    *types.Universe
	Basics      types.BasicTypes
	Vars        []solver.TypeVarID
	Constraints []solver.Constraint

	names []string
}

// Name returns the name v was declared with
func (p *Problem) Name(v solver.TypeVarID) string {
	if int(v) < 0 || int(v) >= len(p.names) {
		return v.String()
	}
	return p.names[v]
}

// FormatConstraint is like solver.Constraint.String but uses declared variable names
func (p *Problem) FormatConstraint(c solver.Constraint) string {
	return p.Name(c.Var) + " " + c.Dir.String() + " " + types.Describe(c.Target)
}

type document struct {
	Classes     []classDecl `yaml:"classes"`
	Variables   []yaml.Node `yaml:"variables"`
	Constraints []yaml.Node `yaml:"constraints"`
}

type classDecl struct {
	Name   string `yaml:"name"`
	Params int    `yaml:"params"`
	Base   string `yaml:"base"`
	Root   bool   `yaml:"root"`

	pos    tserr.Position
	baseAt at
}

func (c *classDecl) UnmarshalYAML(value *yaml.Node) error {
	type plain classDecl
	if err := value.Decode((*plain)(c)); err != nil {
		return err
	}
	c.pos = tserr.Position{Line: value.Line, Column: value.Column}
	c.baseAt = at{Position: c.pos}
	// find the exact position of the base scalar, for errors inside it
	for i := 0; i+1 < len(value.Content); i += 2 {
		if value.Content[i].Value == "base" {
			c.baseAt = nodeAt(value.Content[i+1])
		}
	}
	return nil
}

func nodeAt(n *yaml.Node) at {
	return at{
		Position: tserr.Position{Line: n.Line, Column: n.Column},
		quoted:   n.Style&(yaml.DoubleQuotedStyle|yaml.SingleQuotedStyle) != 0,
	}
}

// LoadFile reads and parses the problem at path
func LoadFile(path string) (*Problem, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "could not open problem")
	}
	defer f.Close()
	return Load(f)
}

// Load reads a problem from r
func Load(r io.Reader) (*Problem, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "could not read problem")
	}
	return Parse(data)
}

// Parse parses a problem. Mistakes in the problem itself are reported as
// a *tserr.Errors holding every mistake found
func Parse(data []byte) (*Problem, error) {
	var doc document
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&doc); err != nil && err != io.EOF {
		return nil, errors.Wrap(err, "could not decode problem")
	}

	u, errs := declareClasses(types.Builtins(), doc.Classes)
	basics, err := types.BasicsOf(u)
	if err != nil {
		// builtin classes cannot be redeclared, so this is a bug
		panic(err)
	}
	p := &Problem{Universe: u, Basics: basics}

	index := make(map[string]solver.TypeVarID, len(doc.Variables))
	for _, node := range doc.Variables {
		if _, exists := index[node.Value]; exists {
			errs = errs.With(tserr.New(tserr.NewDuplicateVariable{
				Position: tserr.Position{Line: node.Line, Column: node.Column},
				Name:     node.Value,
			}))
			continue
		}
		p.declare(index, node.Value)
	}
	inferVars := len(doc.Variables) == 0

	for _, node := range doc.Constraints {
		c, cerrs := p.parseConstraint(node, index, inferVars)
		errs = errs.Merge(cerrs)
		if !cerrs.HasError() {
			p.Constraints = append(p.Constraints, c)
		}
	}

	if errs.HasError() {
		logger.Debug("problem has errors", "errors", errs)
		return nil, errs
	}
	logger.Debug("loaded problem", "classes", u.Len(), "vars", len(p.Vars), "constraints", len(p.Constraints))
	return p, nil
}

func (p *Problem) declare(index map[string]solver.TypeVarID, name string) solver.TypeVarID {
	id := solver.TypeVarID(len(p.Vars))
	index[name] = id
	p.Vars = append(p.Vars, id)
	p.names = append(p.names, name)
	return id
}

func (p *Problem) parseConstraint(node yaml.Node, index map[string]solver.TypeVarID, inferVars bool) (solver.Constraint, *tserr.Errors) {
	src, nAt, err := constraintSource(&node)
	if err != nil {
		return solver.Constraint{}, (*tserr.Errors)(nil).With(err)
	}
	expr, perr := constraintParser.ParseString("", src)
	if perr != nil {
		return solver.Constraint{}, (*tserr.Errors)(nil).With(parseError(src, perr, nAt))
	}

	r := &resolver{universe: p.Universe, basics: p.Basics, at: nAt}
	target := r.resolve(expr.Target)

	v, ok := index[expr.Var]
	if !ok && inferVars {
		v, ok = p.declare(index, expr.Var), true
	}
	if !ok {
		r.errs = r.errs.With(tserr.New(tserr.NewUnknownVariable{
			Position: nAt.offset(expr.Pos),
			Name:     expr.Var,
		}))
	}

	dir := solver.LowerBound
	if expr.Op == solver.UpperBound.String() {
		dir = solver.UpperBound
	}
	return solver.Constraint{Var: v, Dir: dir, Target: target}, r.errs
}

// constraintSource returns the text of a constraint node.
//
// YAML reads an unquoted T <: int as the mapping {"T <": "int"}, so such
// mappings are turned back into the text they were written as
func constraintSource(node *yaml.Node) (string, at, tserr.Error) {
	switch node.Kind {
	case yaml.ScalarNode:
		return node.Value, nodeAt(node), nil
	case yaml.MappingNode:
		if len(node.Content) == 2 {
			key, value := node.Content[0], node.Content[1]
			if key.Kind == yaml.ScalarNode && key.Style == 0 && strings.HasSuffix(key.Value, "<") &&
				value.Kind == yaml.ScalarNode && value.Style&(yaml.LiteralStyle|yaml.FoldedStyle) == 0 {
				return key.Value + ":" + valuePadding(key, value) + value.Value, nodeAt(key), nil
			}
		}
	}
	return "", at{}, tserr.New(tserr.NewParse{
		Position: tserr.Position{Line: node.Line, Column: node.Column},
		Message:  "constraints are written 'T :> type' or 'T <: type', quote them if they contain ': '",
	})
}

// valuePadding keeps value at its original column, so positions inside it stay exact
func valuePadding(key, value *yaml.Node) string {
	gap := value.Column - key.Column - len(key.Value) - 1
	if nodeAt(value).quoted {
		gap++
	}
	if value.Line != key.Line || gap < 1 {
		gap = 1
	}
	return strings.Repeat(" ", gap)
}

func declareClasses(u *types.Universe, decls []classDecl) (*types.Universe, *tserr.Errors) {
	var errs *tserr.Errors
	object, _ := u.Lookup(types.ObjectName)
	for _, decl := range decls {
		if _, exists := u.Lookup(decl.Name); exists {
			errs = errs.With(tserr.New(tserr.NewDuplicateClass{Position: decl.pos, Name: decl.Name}))
			continue
		}

		var base *types.Instance
		switch {
		case decl.Root && decl.Base != "":
			errs = errs.With(tserr.New(tserr.NewInvalidClass{Position: decl.pos, Name: decl.Name, Reason: "a root class cannot have a base"}))
			continue
		case decl.Root:
		case decl.Base == "":
			objectBase := types.NewInstance(object)
			base = &objectBase
		default:
			resolved, berrs := resolveBase(u, decl)
			if berrs.HasError() {
				errs = errs.Merge(berrs)
				continue
			}
			base = &resolved
		}

		newU, _, err := u.Define(decl.Name, decl.Params, base)
		if err != nil {
			errs = errs.With(tserr.New(tserr.NewInvalidClass{Position: decl.pos, Name: decl.Name, Reason: err.Error()}))
			continue
		}
		u = newU
	}
	return u, errs
}

func resolveBase(u *types.Universe, decl classDecl) (types.Instance, *tserr.Errors) {
	expr, err := typeParser.ParseString("", decl.Base)
	if err != nil {
		return types.Instance{}, (*tserr.Errors)(nil).With(parseError(decl.Base, err, decl.baseAt))
	}
	basics, err := types.BasicsOf(u)
	if err != nil {
		panic(err)
	}
	r := &resolver{universe: u, basics: basics, at: decl.baseAt}
	t := r.resolve(expr)
	if r.errs.HasError() {
		return types.Instance{}, r.errs
	}
	base, ok := t.(types.Instance)
	if !ok {
		return types.Instance{}, (*tserr.Errors)(nil).With(tserr.New(tserr.NewInvalidClass{
			Position: decl.pos,
			Name:     decl.Name,
			Reason:   "base '" + t.String() + "' is not a class",
		}))
	}
	return base, nil
}
