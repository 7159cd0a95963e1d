package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/cottand/tsolve/problem"
	"github.com/cottand/tsolve/solver"
	"github.com/cottand/tsolve/tsolve"
	"github.com/mattn/go-isatty"
)

const (
	colorReset  = "\x1b[0m"
	colorRed    = "\x1b[31m"
	colorGreen  = "\x1b[32m"
	colorYellow = "\x1b[33m"
)

// printer writes results one per line, coloured when writing to a terminal
type printer struct {
	w     io.Writer
	color bool
}

func newPrinter(w io.Writer) printer {
	p := printer{w: w}
	if f, ok := w.(*os.File); ok {
		p.color = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return p
}

func (p printer) paint(o solver.Outcome, s string) string {
	if !p.color {
		return s
	}
	color := colorRed
	switch o {
	case solver.Resolved:
		color = colorGreen
	case solver.Unconstrained:
		color = colorYellow
	}
	return color + s + colorReset
}

func (p printer) result(prob *problem.Problem, r solver.Result) error {
	_, err := fmt.Fprintln(p.w, tsolve.FormatResult(prob, r, p.paint))
	return err
}
