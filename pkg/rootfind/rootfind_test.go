package rootfind

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewtonSqrt2(t *testing.T) {
	f := func(x float64) float64 { return x*x - 2 }
	df := func(x float64) float64 { return 2 * x }

	res, err := Newton(f, df, 1, WithTolerance(1e-12))
	require.NoError(t, err)
	assert.InDelta(t, math.Sqrt2, res.X, 1e-9)
	assert.Less(t, res.Iterations, 10)
}

func TestNewtonAlreadyConverged(t *testing.T) {
	res, err := Newton(func(x float64) float64 { return x - 3 }, func(float64) float64 { return 1 }, 3)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Iterations)
	assert.Equal(t, 3.0, res.X)
}

func TestNewtonNoRootHitsCap(t *testing.T) {
	// x^2+1 has no real root, Newton wanders forever without a cap.
	calls := 0
	f := func(x float64) float64 { calls++; return x*x + 1 }
	df := func(x float64) float64 { return 2 * x }

	_, err := Newton(f, df, 0.5, WithMaxIterations(25), WithOp("test"))
	var cerr *ConvergenceError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "test", cerr.Op)
	assert.Equal(t, 25, cerr.Iterations)
	assert.LessOrEqual(t, calls, 26)
}

func TestNewtonZeroDerivative(t *testing.T) {
	_, err := Newton(func(x float64) float64 { return x*x + 1 }, func(x float64) float64 { return 2 * x }, 0)
	var cerr *ConvergenceError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, 0, cerr.Iterations)
	assert.Equal(t, "unusable derivative", cerr.Reason)
}

func TestNewtonNonFinite(t *testing.T) {
	_, err := Newton(func(x float64) float64 { return math.NaN() }, func(float64) float64 { return 1 }, 0)
	var cerr *ConvergenceError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "non-finite residual", cerr.Reason)
}

func TestBisectCubic(t *testing.T) {
	f := func(x float64) float64 { return x*x*x - x - 2 }

	res, err := Bisect(f, 1, 2, WithTolerance(1e-9))
	require.NoError(t, err)
	assert.InDelta(t, 1.5213797068, res.X, 1e-8)
	assert.Greater(t, res.Iterations, 0)
	assert.LessOrEqual(t, res.Iterations, DefaultBisectMaxIter)
}

func TestBisectEndpointRoot(t *testing.T) {
	res, err := Bisect(func(x float64) float64 { return x - 1 }, 1, 5)
	require.NoError(t, err)
	assert.Equal(t, 1.0, res.X)
	assert.Equal(t, 0, res.Iterations)
}

func TestBisectIterationCap(t *testing.T) {
	calls := 0
	f := func(x float64) float64 { calls++; return x - math.Pi }

	_, err := Bisect(f, 0, 10, WithTolerance(1e-15), WithMaxIterations(8))
	var cerr *ConvergenceError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, 8, cerr.Iterations)
	// two endpoint evaluations plus one per iteration
	assert.Equal(t, 10, calls)
}

func TestBisectCollapsedBracket(t *testing.T) {
	// A step discontinuity never reaches the residual tolerance.
	f := func(x float64) float64 {
		if x < 1 {
			return -1
		}
		return 1
	}
	_, err := Bisect(f, 0, 2, WithMaxIterations(10000))
	var cerr *ConvergenceError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "bracket collapsed", cerr.Reason)
	assert.Less(t, cerr.Iterations, 10000)
}

func TestBisectInvalidInput(t *testing.T) {
	f := func(x float64) float64 { return x*x + 1 }

	var berr *BracketError
	_, err := Bisect(f, 2, 1)
	require.ErrorAs(t, err, &berr)
	assert.ErrorContains(t, err, "invalid bracket")

	_, err = Bisect(f, -1, 1, WithOp("square"))
	require.ErrorAs(t, err, &berr)
	assert.Equal(t, "square", berr.Op)
	assert.Equal(t, 2.0, berr.FLo)
	assert.Equal(t, 2.0, berr.FHi)
	assert.ErrorContains(t, err, "not bracketed")

	_, err = Bisect(f, -1, 1, WithMaxIterations(0))
	assert.Error(t, err)
}
