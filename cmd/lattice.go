package cmd

import (
	"fmt"
	"io"

	"github.com/cottand/tsolve/lattice"
	"github.com/cottand/tsolve/problem"
	"github.com/cottand/tsolve/types"
	"github.com/spf13/cobra"
)

var JoinCmd = &cobra.Command{
	Use:          "join TYPE TYPE",
	Short:        "Print the least upper bound of two types",
	RunE:         latticeRunner(joinOp),
	Args:         cobra.ExactArgs(2),
	SilenceUsage: true,
}

var MeetCmd = &cobra.Command{
	Use:          "meet TYPE TYPE",
	Short:        "Print the greatest lower bound of two types",
	RunE:         latticeRunner(meetOp),
	Args:         cobra.ExactArgs(2),
	SilenceUsage: true,
}

var SubtypeCmd = &cobra.Command{
	Use:          "subtype TYPE TYPE",
	Short:        "Print whether the first type is a subtype of the second",
	RunE:         latticeRunner(subtypeOp),
	Args:         cobra.ExactArgs(2),
	SilenceUsage: true,
}

var classesFrom = map[*cobra.Command]*string{}

func init() {
	for _, c := range []*cobra.Command{JoinCmd, MeetCmd, SubtypeCmd} {
		classesFrom[c] = c.Flags().StringP("classes", "c", "", "problem file to take class declarations from")
	}
}

type latticeOp int

const (
	joinOp latticeOp = iota
	meetOp
	subtypeOp
)

func latticeRunner(op latticeOp) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		return runLatticeOp(cmd.OutOrStdout(), op, *classesFrom[cmd], args[0], args[1])
	}
}

func runLatticeOp(out io.Writer, op latticeOp, classesPath string, lhs, rhs string) error {
	u, basics := types.Builtins(), types.BuiltinBasics()
	if classesPath != "" {
		prob, err := problem.LoadFile(classesPath)
		if err != nil {
			return describeLoadError(classesPath, err)
		}
		u, basics = prob.Universe, prob.Basics
	}

	a, err := problem.ParseType(u, basics, lhs)
	if err != nil {
		return fmt.Errorf("invalid first type: %w", err)
	}
	b, err := problem.ParseType(u, basics, rhs)
	if err != nil {
		return fmt.Errorf("invalid second type: %w", err)
	}

	var res string
	switch op {
	case joinOp:
		res = lattice.Join(a, b, basics).String()
	case meetOp:
		res = lattice.Meet(a, b, basics).String()
	case subtypeOp:
		res = fmt.Sprint(lattice.IsSubtype(a, b))
	}
	_, err = fmt.Fprintln(out, res)
	return err
}
