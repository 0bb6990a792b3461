package psychro

import (
	"fmt"
	"math"

	"github.com/mikesmitty/psychro-chart/pkg/rootfind"
)

// DomainError reports an input outside the physically valid range. It is
// raised before any iteration starts.
type DomainError struct {
	Op  string
	Msg string
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("psychro: %s: %s", e.Op, e.Msg)
}

// ConvergenceError is returned by the iterative solvers.
type ConvergenceError = rootfind.ConvergenceError

func domainErr(op, format string, args ...any) error {
	return &DomainError{Op: op, Msg: fmt.Sprintf(format, args...)}
}

func finite(vals ...float64) bool {
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func checkTemp(op string, temp float64) error {
	if !finite(temp) {
		return domainErr(op, "temperature %g is not finite", temp)
	}
	if temp <= -RankineOffset {
		return domainErr(op, "temperature %g °F is at or below absolute zero", temp)
	}
	return nil
}

func checkPressure(op string, p float64) error {
	if !finite(p) || p <= 0 {
		return domainErr(op, "total pressure %g psia must be positive", p)
	}
	return nil
}

func checkRH(op string, rh float64) error {
	if !finite(rh) || rh < 0 || rh > 1 {
		return domainErr(op, "relative humidity %g must be between 0 and 1", rh)
	}
	return nil
}
