package problem

import (
	"errors"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
	"github.com/cottand/tsolve/tserr"
)

var typeLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_.]*`},
	{Name: "Op", Pattern: `:>|<:|->`},
	{Name: "Punct", Pattern: `[(),\[\]]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

// constraintExpr is written
//
//	T :> int
//	T <: list[object]
type constraintExpr struct {
	Pos    lexer.Position
	Var    string    `@Ident`
	Op     string    `@(":>" | "<:")`
	Target *typeExpr `@@`
}

type typeExpr struct {
	Pos      lexer.Position
	Callable *callableExpr `  @@`
	Tuple    *tupleExpr    `| @@`
	Named    *namedExpr    `| @@`
}

// callableExpr is written def (int, str) -> bool
type callableExpr struct {
	Args []*typeExpr `"def" "(" ( @@ ( "," @@ )* )? ")"`
	Ret  *typeExpr   `"->" @@`
}

// tupleExpr is written (int, str). A trailing comma is allowed, as in (int,)
type tupleExpr struct {
	Items []*typeExpr `"(" ( @@ ( "," @@ )* ","? )? ")"`
}

// namedExpr is a class, optionally applied to arguments as in dict[str, int],
// or one of the special names Any, None and void
type namedExpr struct {
	Name string      `@Ident`
	Args []*typeExpr `( "[" @@ ( "," @@ )* "]" )?`
}

var (
	parserOpts = []participle.Option{
		participle.Lexer(typeLexer),
		participle.Elide("Whitespace"),
		participle.UseLookahead(2),
	}
	typeParser       = participle.MustBuild[typeExpr](parserOpts...)
	constraintParser = participle.MustBuild[constraintExpr](parserOpts...)
)

// at translates positions inside a YAML scalar to positions in the file
type at struct {
	tserr.Position
	// quoted scalars start one column after the node
	quoted bool
}

func (a at) offset(pos lexer.Position) tserr.Position {
	if a.Line == 0 {
		return tserr.Position{Line: pos.Line, Column: pos.Column}
	}
	column := a.Column + pos.Column - 1
	if a.quoted {
		column++
	}
	return tserr.Position{Line: a.Line + pos.Line - 1, Column: column}
}

func parseError(src string, err error, a at) tserr.Error {
	var perr participle.Error
	if errors.As(err, &perr) {
		return tserr.New(tserr.NewParse{
			Position: a.offset(perr.Position()),
			Source:   src,
			Message:  perr.Message(),
		})
	}
	return tserr.New(tserr.NewParse{
		Position: a.Position,
		Source:   src,
		Message:  err.Error(),
	})
}
