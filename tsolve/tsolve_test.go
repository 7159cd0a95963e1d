package tsolve

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/cottand/tsolve/solver"
	"github.com/cottand/tsolve/tserr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pets = `
classes:
  - name: pet
  - name: cat
    base: pet
  - name: dog
    base: pet
variables: [T, S, U]
constraints:
  - T :> cat
  - T :> dog
  - S :> cat
  - "S <: dog"
`

type countingObserver struct {
	mu   sync.Mutex
	seen map[solver.TypeVarID]int
}

func (o *countingObserver) Observe(r solver.Result, constraints int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.seen[r.Var] = constraints
}

func TestSolveBytes(t *testing.T) {
	for _, concurrency := range []int{0, 1, 2, -1} {
		report, err := SolveBytes(context.Background(), []byte(pets), Settings{Concurrency: concurrency})
		require.NoError(t, err)

		assert.NotEmpty(t, report.ID)
		assert.Equal(t, []string{
			"T = pet",
			"S = <unsolvable: bound conflict> (lower cat, upper dog)",
			"U = None (unconstrained)",
		}, report.Lines())
		assert.Equal(t, "T = pet\nS = <unsolvable: bound conflict> (lower cat, upper dog)\nU = None (unconstrained)", report.String())

		unsolved := report.Unsolved()
		require.Len(t, unsolved, 1)
		assert.Equal(t, solver.TypeVarID(1), unsolved[0].Var)
	}
}

func TestSolveBytesObserver(t *testing.T) {
	o := &countingObserver{seen: map[solver.TypeVarID]int{}}
	_, err := SolveBytes(context.Background(), []byte(pets), Settings{Concurrency: 3, Observer: o})
	require.NoError(t, err)
	assert.Equal(t, map[solver.TypeVarID]int{0: 2, 1: 2, 2: 0}, o.seen)
}

func TestSolveBytesProblemErrors(t *testing.T) {
	_, err := SolveBytes(context.Background(), []byte("constraints: ['T :> nope']"), Settings{})
	require.Error(t, err)
	errs, ok := err.(*tserr.Errors)
	require.True(t, ok, "expected *tserr.Errors, got %T", err)
	assert.Equal(t, tserr.UnknownClass, errs.Errors()[0].Code())
}

func TestSolveBytesCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := SolveBytes(ctx, []byte(pets), Settings{Concurrency: 2})
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorContains(t, err, "solving was interrupted")

	// sequential solving never blocks, so it ignores ctx
	_, err = SolveBytes(ctx, []byte(pets), Settings{})
	assert.NoError(t, err)
}

func TestSolveFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pets.yaml")
	require.NoError(t, os.WriteFile(path, []byte(pets), 0o600))

	report, err := SolveFile(context.Background(), path, Settings{})
	require.NoError(t, err)
	assert.Len(t, report.Results, 3)

	_, err = SolveFile(context.Background(), filepath.Join(t.TempDir(), "missing.yaml"), Settings{})
	assert.ErrorContains(t, err, "could not open problem")
}

func TestFormatResultPainter(t *testing.T) {
	report, err := SolveBytes(context.Background(), []byte(pets), Settings{})
	require.NoError(t, err)

	brackets := func(o solver.Outcome, s string) string { return "[" + o.String() + ":" + s + "]" }
	assert.Equal(t, "T = [resolved:pet]", FormatResult(report.Problem, report.Results[0], brackets))
	assert.Equal(t, "U = [unconstrained:None (unconstrained)]", FormatResult(report.Problem, report.Results[2], brackets))
}
