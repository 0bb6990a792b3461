package mqtt

// Sample lets through one call in every rate.
type Sample struct {
	count int
	rate  int
}

func NewSample(rate int) *Sample {
	return &Sample{rate: max(rate, 1)}
}

func (s *Sample) Ready() bool {
	s.count++
	if s.count >= s.rate {
		s.count = 0
		return true
	}
	return false
}
