//go:build js && wasm

package tsolve

import (
	"context"
	"fmt"
	"strings"
	"syscall/js"

	"github.com/cottand/tsolve/lattice"
	"github.com/cottand/tsolve/problem"
	"github.com/cottand/tsolve/tserr"
	"github.com/cottand/tsolve/types"
)

// SolveAndShowTypes solves the YAML problem in args[0]
// and prints one line per type variable, or alternatively displays
// error messages if the problem does not parse
func SolveAndShowTypes(_ js.Value, args []js.Value) (ret any) {
	defer func() {
		if r := recover(); r != nil {
			ret = "solver panicked: " + fmt.Sprint(r)
		}
	}()

	report, err := SolveBytes(context.Background(), []byte(args[0].String()), Settings{})
	if errs, ok := err.(*tserr.Errors); ok {
		sb := strings.Builder{}
		sb.WriteString("the problem has the following errors:\n")
		for _, e := range errs.Errors() {
			sb.WriteString(tserr.FormatWithPosition(e, "problem.yaml"))
			sb.WriteByte('\n')
		}
		return sb.String()
	}
	if err != nil {
		return fmt.Sprintf("the solver encountered a failure:\n\n%s", err)
	}
	return report.String()
}

// CompareTypes parses the two types in args[0] and args[1] against the builtin classes
//
// output: { error: string } | { join: string, meet: string, subtype: bool, supertype: bool }
func CompareTypes(_ js.Value, args []js.Value) (ret any) {
	errorObj := func(err string) any {
		return js.ValueOf(map[string]any{
			"error": err,
		})
	}
	defer func() {
		if r := recover(); r != nil {
			ret = errorObj("solver panicked: " + fmt.Sprint(r))
		}
	}()
	if len(args) != 2 {
		return errorObj(fmt.Sprintf("expected 2 arguments, got %d", len(args)))
	}

	u, basics := types.Builtins(), types.BuiltinBasics()
	a, err := problem.ParseType(u, basics, args[0].String())
	if err != nil {
		return errorObj(fmt.Sprintf("invalid first type:\n%s", err))
	}
	b, err := problem.ParseType(u, basics, args[1].String())
	if err != nil {
		return errorObj(fmt.Sprintf("invalid second type:\n%s", err))
	}
	return js.ValueOf(map[string]any{
		"join":      lattice.Join(a, b, basics).String(),
		"meet":      lattice.Meet(a, b, basics).String(),
		"subtype":   lattice.IsSubtype(a, b),
		"supertype": lattice.IsSubtype(b, a),
	})
}
