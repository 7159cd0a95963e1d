package solver

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"testing"

	"github.com/cottand/tsolve/lattice"
	"github.com/cottand/tsolve/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	universe = types.Builtins()
	basics   = types.BuiltinBasics()

	intType    = instance("int")
	boolType   = instance("bool")
	strType    = instance("str")
	floatType  = instance("float")
	objectType = instance("object")
)

func instance(name string, args ...types.Type) types.Instance {
	class, ok := universe.Lookup(name)
	if !ok {
		panic("no builtin class " + name)
	}
	return types.NewInstance(class, args...)
}

func assertTypes(t *testing.T, expected []types.Type, results []Result) {
	t.Helper()
	actual := Types(results)
	require.Len(t, actual, len(expected))
	for i := range expected {
		if expected[i] == nil {
			assert.Nil(t, actual[i], "expected no result for %s, got %s", results[i].Var, types.Describe(actual[i]))
			continue
		}
		assert.True(t, types.Equal(expected[i], actual[i]), "expected %s for %s, got %s", expected[i], results[i].Var, types.Describe(actual[i]))
	}
}

func TestSolveSingleVariable(t *testing.T) {
	testCases := []struct {
		name        string
		constraints []Constraint
		expected    types.Type
		outcome     Outcome
		reason      Reason
	}{
		{
			name:     "unconstrained defaults to bottom",
			expected: types.Bottom{},
			outcome:  Unconstrained,
		},
		{
			name:        "single lower bound",
			constraints: []Constraint{SupertypeOf(0, intType)},
			expected:    intType,
			outcome:     Resolved,
		},
		{
			name:        "single upper bound",
			constraints: []Constraint{SubtypeOf(0, intType)},
			expected:    intType,
			outcome:     Resolved,
		},
		{
			name:        "lower bounds are joined",
			constraints: []Constraint{SupertypeOf(0, intType), SupertypeOf(0, strType)},
			expected:    lattice.Join(intType, strType, basics),
			outcome:     Resolved,
		},
		{
			name:        "lower bounds join to common base",
			constraints: []Constraint{SupertypeOf(0, boolType), SupertypeOf(0, intType)},
			expected:    intType,
			outcome:     Resolved,
		},
		{
			name:        "upper bounds are met",
			constraints: []Constraint{SubtypeOf(0, objectType), SubtypeOf(0, intType)},
			expected:    intType,
			outcome:     Resolved,
		},
		{
			name:        "consistent bounds prefer the lower bound",
			constraints: []Constraint{SupertypeOf(0, intType), SubtypeOf(0, objectType)},
			expected:    intType,
			outcome:     Resolved,
		},
		{
			name:        "inconsistent bounds have no result",
			constraints: []Constraint{SupertypeOf(0, intType), SubtypeOf(0, strType)},
			outcome:     Unsolvable,
			reason:      BoundConflict,
		},
		{
			name:        "dynamic lower bound short-circuits",
			constraints: []Constraint{SupertypeOf(0, types.Dynamic{}), SubtypeOf(0, strType)},
			expected:    types.Dynamic{},
			outcome:     Resolved,
		},
		{
			name: "dynamic upper bound short-circuits conflicting bounds",
			constraints: []Constraint{
				SupertypeOf(0, intType),
				SubtypeOf(0, types.Dynamic{}),
				SupertypeOf(0, types.Void{}),
			},
			expected: types.Dynamic{},
			outcome:  Resolved,
		},
		{
			name:        "failed join has no result",
			constraints: []Constraint{SupertypeOf(0, types.Void{}), SupertypeOf(0, intType)},
			outcome:     Unsolvable,
			reason:      LatticeFailure,
		},
		{
			name:        "failed meet has no result",
			constraints: []Constraint{SubtypeOf(0, intType), SubtypeOf(0, types.Void{})},
			outcome:     Unsolvable,
			reason:      LatticeFailure,
		},
		{
			name:        "error target has no result",
			constraints: []Constraint{SubtypeOf(0, types.ErrorType{})},
			outcome:     Unsolvable,
			reason:      LatticeFailure,
		},
		{
			name:        "error lower bound conflicts with an upper bound",
			constraints: []Constraint{SupertypeOf(0, types.Void{}), SupertypeOf(0, intType), SubtypeOf(0, objectType)},
			outcome:     Unsolvable,
			reason:      BoundConflict,
		},
		{
			name: "bottom lower bound fits under a failed meet",
			constraints: []Constraint{
				SupertypeOf(0, types.Bottom{}),
				SubtypeOf(0, types.Void{}),
				SubtypeOf(0, intType),
			},
			expected: types.Bottom{},
			outcome:  Resolved,
		},
		{
			name:        "disjoint upper bounds meet to bottom",
			constraints: []Constraint{SubtypeOf(0, intType), SubtypeOf(0, strType)},
			expected:    types.Bottom{},
			outcome:     Resolved,
		},
		{
			name:        "bottom lower bound under an upper bound",
			constraints: []Constraint{SupertypeOf(0, types.Bottom{}), SubtypeOf(0, strType)},
			expected:    types.Bottom{},
			outcome:     Resolved,
		},
		{
			name: "generic lower bounds join their arguments",
			constraints: []Constraint{
				SupertypeOf(0, instance("list", intType)),
				SupertypeOf(0, instance("list", boolType)),
				SubtypeOf(0, instance("list", objectType)),
			},
			expected: instance("list", intType),
			outcome:  Resolved,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			res := Solve([]TypeVarID{0}, tc.constraints, basics)
			require.Len(t, res, 1)
			assert.Equal(t, tc.outcome, res[0].Outcome)
			assert.Equal(t, tc.reason, res[0].Reason)
			assertTypes(t, []types.Type{tc.expected}, res)
		})
	}
}

func TestUnconstrainedAndUnsolvableAreDistinct(t *testing.T) {
	res := Solve([]TypeVarID{0, 1}, []Constraint{SupertypeOf(1, intType), SubtypeOf(1, strType)}, basics)

	typ, ok := res[0].Type()
	assert.True(t, ok)
	assert.Equal(t, types.Bottom{}, typ)
	assert.Equal(t, Unconstrained, res[0].Outcome)

	typ, ok = res[1].Type()
	assert.False(t, ok)
	assert.Nil(t, typ)
	assert.Equal(t, Unsolvable, res[1].Outcome)
	assert.True(t, types.Equal(intType, res[1].Lower))
	assert.True(t, types.Equal(strType, res[1].Upper))
}

func TestSolveKeepsVariableOrder(t *testing.T) {
	vars := []TypeVarID{7, 3, 5, 3}
	constraints := []Constraint{
		SupertypeOf(3, intType),
		SubtypeOf(5, strType),
		SupertypeOf(9, floatType),
	}

	res := Solve(vars, constraints, basics)

	require.Len(t, res, len(vars))
	for i, v := range vars {
		assert.Equal(t, v, res[i].Var)
	}
	assertTypes(t, []types.Type{types.Bottom{}, intType, strType, intType}, res)
}

// shared is a constraint list over several variables used by the property tests
func shared() ([]TypeVarID, []Constraint) {
	vars := []TypeVarID{0, 1, 2, 3, 4, 5}
	return vars, []Constraint{
		SupertypeOf(0, intType),
		SupertypeOf(0, boolType),
		SubtypeOf(0, objectType),
		SupertypeOf(1, intType),
		SubtypeOf(1, strType),
		SupertypeOf(2, instance("list", intType)),
		SupertypeOf(2, instance("list", strType)),
		SupertypeOf(3, types.Dynamic{}),
		SupertypeOf(3, intType),
		SubtypeOf(4, instance("dict", strType, intType)),
		SubtypeOf(4, objectType),
		SupertypeOf(5, types.Void{}),
		SupertypeOf(5, types.NewTuple([]types.Type{intType}, basics.Tuple)),
	}
}

func TestSolveIsDeterministic(t *testing.T) {
	vars, constraints := shared()

	first := Solve(vars, constraints, basics)
	second := Solve(vars, constraints, basics)

	assert.Equal(t, first, second)
}

func TestSolveIsOrderIndependent(t *testing.T) {
	vars, constraints := shared()
	expected := Solve(vars, constraints, basics)

	rnd := rand.New(rand.NewSource(42))
	for i := 0; i < 20; i++ {
		permuted := append([]Constraint(nil), constraints...)
		rnd.Shuffle(len(permuted), func(i, j int) { permuted[i], permuted[j] = permuted[j], permuted[i] })

		t.Run(fmt.Sprint("permutation ", i), func(t *testing.T) {
			actual := Solve(vars, permuted, basics)
			for j := range expected {
				assert.Equal(t, expected[j].Outcome, actual[j].Outcome)
				assert.Equal(t, expected[j].Reason, actual[j].Reason)
				assertTypes(t, Types(expected[j:j+1]), actual[j:j+1])
			}
		})
	}
}

func TestVariablesAreIndependent(t *testing.T) {
	vars, constraints := shared()
	together := Solve(vars, constraints, basics)

	for i, v := range vars {
		var own []Constraint
		for _, c := range constraints {
			if c.Var == v {
				own = append(own, c)
			}
		}
		alone := Solve([]TypeVarID{v}, own, basics)
		assert.Equal(t, together[i], alone[0], "solving %s on its own", v)
	}
}

func TestSolveConcurrent(t *testing.T) {
	vars, constraints := shared()
	expected := Solve(vars, constraints, basics)

	for _, workers := range []int{0, 1, 3, 16} {
		t.Run(fmt.Sprint(workers, " workers"), func(t *testing.T) {
			actual, err := New().SolveConcurrent(context.Background(), vars, constraints, basics, workers)
			require.NoError(t, err)
			assert.Equal(t, expected, actual)
		})
	}
}

func TestSolveConcurrentUnlimitedWorkers(t *testing.T) {
	vars, constraints := shared()
	expected := Solve(vars, constraints, basics)

	for _, workers := range []int{0, -1, -8} {
		t.Run(fmt.Sprint(workers, " workers"), func(t *testing.T) {
			actual, err := New().SolveConcurrent(context.Background(), vars, constraints, basics, workers)
			require.NoError(t, err)
			require.Len(t, actual, len(vars))
			assert.Equal(t, expected, actual)
		})
	}
}

func TestSolveConcurrentEmpty(t *testing.T) {
	res, err := New().SolveConcurrent(context.Background(), nil, nil, basics, 2)
	require.NoError(t, err)
	assert.Empty(t, res)
}

func TestSolveConcurrentCancelled(t *testing.T) {
	vars, constraints := shared()

	// the same call succeeds while the caller's context is live
	ctx, cancel := context.WithCancel(context.Background())
	res, err := New().SolveConcurrent(ctx, vars, constraints, basics, 2)
	require.NoError(t, err)
	require.Len(t, res, len(vars))

	cancel()
	res, err = New().SolveConcurrent(ctx, vars, constraints, basics, 2)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, res)
}

type cancellingObserver struct {
	cancel context.CancelFunc
}

func (o cancellingObserver) Observe(Result, int) { o.cancel() }

func TestSolveConcurrentCancelledMidway(t *testing.T) {
	vars, constraints := shared()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	res, err := New(WithObserver(cancellingObserver{cancel})).SolveConcurrent(ctx, vars, constraints, basics, 1)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, res)
}

type recordingObserver struct {
	mu          sync.Mutex
	constraints map[TypeVarID]int
}

func (o *recordingObserver) Observe(r Result, constraints int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.constraints[r.Var] = constraints
}

func TestObserverSeesEveryVariable(t *testing.T) {
	vars, constraints := shared()
	observer := &recordingObserver{constraints: map[TypeVarID]int{}}

	_, err := New(WithObserver(observer)).SolveConcurrent(context.Background(), vars, constraints, basics, 2)

	require.NoError(t, err)
	assert.Equal(t, map[TypeVarID]int{0: 3, 1: 2, 2: 2, 3: 2, 4: 2, 5: 2}, observer.constraints)
}

// flatLattice treats every type as unrelated, to check the solver only
// combines bounds through its Lattice
type flatLattice struct{}

func (flatLattice) Join(a, b types.Type, _ types.BasicTypes) types.Type {
	if types.Equal(a, b) {
		return a
	}
	return types.ErrorType{}
}
func (flatLattice) Meet(a, b types.Type, basics types.BasicTypes) types.Type {
	return flatLattice{}.Join(a, b, basics)
}
func (flatLattice) IsSubtype(a, b types.Type) bool { return types.Equal(a, b) }

func TestWithLattice(t *testing.T) {
	s := New(WithLattice(flatLattice{}))

	res := s.Solve(
		[]TypeVarID{0, 1, 2},
		[]Constraint{
			SupertypeOf(0, boolType),
			SupertypeOf(0, intType),
			SupertypeOf(1, intType),
			SupertypeOf(1, intType),
			SupertypeOf(2, boolType),
			SubtypeOf(2, intType),
		},
		basics,
	)

	assert.Equal(t, LatticeFailure, res[0].Reason)
	assertTypes(t, []types.Type{nil, intType, nil}, res)
	assert.Equal(t, BoundConflict, res[2].Reason)
}

func TestResultString(t *testing.T) {
	res := Solve([]TypeVarID{0, 1, 2}, []Constraint{SupertypeOf(1, intType), SupertypeOf(2, intType), SubtypeOf(2, strType)}, basics)

	assert.Equal(t, "T0 = None (unconstrained)", res[0].String())
	assert.Equal(t, "T1 = int", res[1].String())
	assert.Equal(t, "T2 = <unsolvable: bound conflict>", res[2].String())
	assert.Equal(t, "T2 <: str", SubtypeOf(2, strType).String())
}
