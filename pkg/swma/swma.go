package swma

import "math"

// SlidingWindow is a simple moving average over the last windowSize values.
// Until the window fills, the average is over the values seen so far.
type SlidingWindow struct {
	sum        float64
	window     []float64
	next       int
	count      int
	windowSize int
}

func NewSlidingWindow(windowSize int) *SlidingWindow {
	windowSize = max(windowSize, 1)
	return &SlidingWindow{
		window:     make([]float64, windowSize),
		windowSize: windowSize,
	}
}

// Add pushes value into the window and returns the new average. Non-finite
// values are ignored.
func (s *SlidingWindow) Add(value float64) float64 {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return s.Average()
	}
	s.sum += value - s.window[s.next]
	s.window[s.next] = value
	s.next = (s.next + 1) % s.windowSize
	if s.count < s.windowSize {
		s.count++
	}
	return s.Average()
}

func (s *SlidingWindow) Average() float64 {
	if s.count == 0 {
		return 0
	}
	return s.sum / float64(s.count)
}

func (s *SlidingWindow) Reset() {
	s.sum = 0
	s.next = 0
	s.count = 0
	clear(s.window)
}

func (s *SlidingWindow) Full() bool {
	return s.count == s.windowSize
}

func (s *SlidingWindow) Len() int {
	return s.count
}

// Window returns the values in the window, oldest first.
func (s *SlidingWindow) Window() []float64 {
	out := make([]float64, 0, s.count)
	start := (s.next - s.count + s.windowSize) % s.windowSize
	for i := range s.count {
		out = append(out, s.window[(start+i)%s.windowSize])
	}
	return out
}

func (s *SlidingWindow) WindowSize() int {
	return s.windowSize
}
