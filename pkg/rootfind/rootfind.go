// Package rootfind holds the scalar root finders used by the psychrometric
// solvers. Every solver is bounded: running out of iterations is reported as
// a ConvergenceError, never as a hang or a stale value.
package rootfind

import (
	"fmt"
	"math"
)

const (
	DefaultTolerance      = 1e-4
	DefaultNewtonMaxIter  = 100
	DefaultBisectMaxIter  = 200
	minBracketWidthFactor = 4
)

type Func func(x float64) float64

// ConvergenceError is returned when a solver exhausts its iteration budget
// or cannot take another step.
type ConvergenceError struct {
	Op         string
	Iterations int
	X          float64
	Residual   float64
	Reason     string
}

func (e *ConvergenceError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s: no convergence after %d iterations (x=%g, residual=%g): %s", e.Op, e.Iterations, e.X, e.Residual, e.Reason)
	}
	return fmt.Sprintf("%s: no convergence after %d iterations (x=%g, residual=%g)", e.Op, e.Iterations, e.X, e.Residual)
}

// BracketError is returned by Bisect when it cannot start: the bracket is
// empty or f has the same sign at both ends. Callers that guarantee their
// bracket never see it.
type BracketError struct {
	Op       string
	Lo, Hi   float64
	FLo, FHi float64
}

func (e *BracketError) Error() string {
	if !(e.Lo < e.Hi) {
		return fmt.Sprintf("%s: invalid bracket [%g, %g]", e.Op, e.Lo, e.Hi)
	}
	return fmt.Sprintf("%s: root not bracketed by [%g, %g] (f=%g, %g)", e.Op, e.Lo, e.Hi, e.FLo, e.FHi)
}

// Result is a converged root.
type Result struct {
	X          float64
	Residual   float64
	Iterations int
}

type config struct {
	op        string
	tolerance float64
	maxIter   int
}

type Option func(*config)

func WithTolerance(tol float64) Option {
	return func(c *config) { c.tolerance = tol }
}

func WithMaxIterations(n int) Option {
	return func(c *config) { c.maxIter = n }
}

// WithOp names the caller in errors.
func WithOp(op string) Option {
	return func(c *config) { c.op = op }
}

func newConfig(op string, maxIter int, opts []Option) config {
	c := config{op: op, tolerance: DefaultTolerance, maxIter: maxIter}
	for _, o := range opts {
		o(&c)
	}
	return c
}

// Newton iterates x <- x - f(x)/df(x) from x0 until |f(x)| < tolerance.
// The function should be smooth and monotonic near x0.
func Newton(f, df Func, x0 float64, opts ...Option) (Result, error) {
	c := newConfig("newton", DefaultNewtonMaxIter, opts)
	if c.tolerance <= 0 || c.maxIter <= 0 {
		return Result{}, fmt.Errorf("%s: invalid tolerance %g or iteration cap %d", c.op, c.tolerance, c.maxIter)
	}

	x := x0
	fx := f(x)
	for i := 0; ; i++ {
		if math.IsNaN(fx) || math.IsInf(fx, 0) {
			return Result{}, &ConvergenceError{Op: c.op, Iterations: i, X: x, Residual: fx, Reason: "non-finite residual"}
		}
		if math.Abs(fx) < c.tolerance {
			return Result{X: x, Residual: fx, Iterations: i}, nil
		}
		if i == c.maxIter {
			return Result{}, &ConvergenceError{Op: c.op, Iterations: i, X: x, Residual: fx}
		}
		d := df(x)
		if d == 0 || math.IsNaN(d) || math.IsInf(d, 0) {
			return Result{}, &ConvergenceError{Op: c.op, Iterations: i, X: x, Residual: fx, Reason: "unusable derivative"}
		}
		x -= fx / d
		fx = f(x)
	}
}

// Bisect halves [lo, hi] until |f(mid)| < tolerance. f(lo) and f(hi) must
// have opposite signs (either may be zero), otherwise a BracketError is
// returned before iterating.
func Bisect(f Func, lo, hi float64, opts ...Option) (Result, error) {
	c := newConfig("bisect", DefaultBisectMaxIter, opts)
	if c.tolerance <= 0 || c.maxIter <= 0 {
		return Result{}, fmt.Errorf("%s: invalid tolerance %g or iteration cap %d", c.op, c.tolerance, c.maxIter)
	}
	if !(lo < hi) {
		return Result{}, &BracketError{Op: c.op, Lo: lo, Hi: hi, FLo: math.NaN(), FHi: math.NaN()}
	}

	flo := f(lo)
	if math.Abs(flo) < c.tolerance {
		return Result{X: lo, Residual: flo}, nil
	}
	fhi := f(hi)
	if math.Abs(fhi) < c.tolerance {
		return Result{X: hi, Residual: fhi}, nil
	}
	if math.Signbit(flo) == math.Signbit(fhi) {
		return Result{}, &BracketError{Op: c.op, Lo: lo, Hi: hi, FLo: flo, FHi: fhi}
	}

	var mid, fmid float64
	for i := 1; i <= c.maxIter; i++ {
		mid = lo + (hi-lo)/2
		fmid = f(mid)
		if math.Abs(fmid) < c.tolerance {
			return Result{X: mid, Residual: fmid, Iterations: i}, nil
		}
		if math.Signbit(fmid) == math.Signbit(flo) {
			lo, flo = mid, fmid
		} else {
			hi = mid
		}
		if hi-lo <= minBracketWidthFactor*ulp(mid) {
			return Result{}, &ConvergenceError{Op: c.op, Iterations: i, X: mid, Residual: fmid, Reason: "bracket collapsed"}
		}
	}
	return Result{}, &ConvergenceError{Op: c.op, Iterations: c.maxIter, X: mid, Residual: fmid}
}

func ulp(x float64) float64 {
	return math.Nextafter(math.Abs(x), math.Inf(1)) - math.Abs(x)
}
