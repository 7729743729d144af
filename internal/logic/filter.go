package logic

// MovingAverage smooths one scalar stream over a fixed-depth ring buffer.
//
// Until the buffer has been filled once, the mean is taken over the samples
// written so far, so early averages are not pulled toward zero.
type MovingAverage struct {
	buf    []float64
	next   int // slot for the next sample, always < len(buf)
	filled int // saturates at len(buf)
}

// NewMovingAverage creates a filter of depth n. Depths below 1 are treated as 1.
func NewMovingAverage(n int) *MovingAverage {
	if n < 1 {
		n = 1
	}
	return &MovingAverage{buf: make([]float64, n)}
}

// Push stores x, evicting the oldest sample once full, and returns the new mean.
func (m *MovingAverage) Push(x float64) float64 {
	m.buf[m.next] = x
	m.next = (m.next + 1) % len(m.buf)
	if m.filled < len(m.buf) {
		m.filled++
	}
	return m.Mean()
}

// Mean returns the mean of the filled slots, or 0 before the first push.
func (m *MovingAverage) Mean() float64 {
	if m.filled == 0 {
		return 0
	}
	var sum float64
	for i := 0; i < m.filled; i++ {
		sum += m.buf[i]
	}
	return sum / float64(m.filled)
}

// Len returns the number of samples currently averaged.
func (m *MovingAverage) Len() int {
	return m.filled
}

// Size returns the filter depth.
func (m *MovingAverage) Size() int {
	return len(m.buf)
}
