package stats

import (
	"math"
	"slices"
	"time"

	"gonum.org/v1/gonum/stat"
)

// Stats keeps the last size timestamped values for trend fitting.
type Stats struct {
	size   int
	origin time.Time
	x      []float64
	values []float64
	resid  []float64
}

func NewStats(size int) *Stats {
	size = max(size, 2)
	return &Stats{
		size:   size,
		x:      make([]float64, 0, size),
		values: make([]float64, 0, size),
		resid:  make([]float64, 0, size),
	}
}

// Add appends a value observed at ts, dropping the oldest once full.
// Timestamps must not go backwards.
func (p *Stats) Add(ts time.Time, value float64) {
	if p.origin.IsZero() {
		p.origin = ts
	}
	if len(p.values) == p.size {
		p.x = append(p.x[:0], p.x[1:]...)
		p.values = append(p.values[:0], p.values[1:]...)
	}
	p.x = append(p.x, ts.Sub(p.origin).Seconds())
	p.values = append(p.values, value)
}

func (p *Stats) Len() int {
	return len(p.values)
}

func (p *Stats) Full() bool {
	return len(p.values) == p.size
}

func (p *Stats) Reset() {
	p.origin = time.Time{}
	p.x = p.x[:0]
	p.values = p.values[:0]
}

// LinearRegression fits value = alpha + beta*seconds. With fewer than two
// distinct timestamps there is no line and both are NaN.
func (p *Stats) LinearRegression() (alpha, beta float64) {
	if len(p.values) < 2 || p.x[0] == p.x[len(p.x)-1] {
		return math.NaN(), math.NaN()
	}
	return stat.LinearRegression(p.x, p.values, nil, false)
}

// SlopePerHour is the fitted trend in units per hour.
func (p *Stats) SlopePerHour() float64 {
	_, beta := p.LinearRegression()
	return beta * time.Hour.Seconds()
}

func (p *Stats) StdDev() float64 {
	return stat.StdDev(p.values, nil)
}

// QuantileSpread is the pct quantile of the absolute residuals around the
// fitted line.
func (p *Stats) QuantileSpread(pct float64) float64 {
	alpha, beta := p.LinearRegression()
	if math.IsNaN(beta) {
		return math.NaN()
	}
	p.resid = p.resid[:0]
	for i, v := range p.values {
		p.resid = append(p.resid, math.Abs(v-(alpha+beta*p.x[i])))
	}
	slices.Sort(p.resid)
	return stat.Quantile(pct, stat.Empirical, p.resid, nil)
}
