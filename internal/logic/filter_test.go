package logic

import "testing"

func TestMovingAverageWarmUp(t *testing.T) {
	m := NewMovingAverage(5)

	want := []float64{1, 1.5, 2}
	for i, x := range []float64{1, 2, 3} {
		if got := m.Push(x); got != want[i] {
			t.Errorf("push %d: got %v, want %v", i, got, want[i])
		}
	}
	if m.Len() != 3 {
		t.Errorf("Len: got %d, want 3", m.Len())
	}
}

func TestMovingAverageSlidingWindow(t *testing.T) {
	m := NewMovingAverage(5)
	for _, x := range []float64{1, 2, 3, 4, 5} {
		m.Push(x)
	}
	if got := m.Mean(); got != 3 {
		t.Fatalf("full buffer mean: got %v, want 3", got)
	}

	// Sixth sample evicts the first: (2+3+4+5+11)/5 = 5
	if got := m.Push(11); got != 5 {
		t.Errorf("after eviction: got %v, want 5", got)
	}
	if m.Len() != 5 {
		t.Errorf("Len should saturate at 5, got %d", m.Len())
	}

	// Seventh evicts the second: (3+4+5+11+2)/5 = 5
	if got := m.Push(2); got != 5 {
		t.Errorf("after second eviction: got %v, want 5", got)
	}
}

func TestMovingAverageIndexWraps(t *testing.T) {
	m := NewMovingAverage(3)
	for i := 0; i < 100; i++ {
		m.Push(float64(i))
		if m.next >= m.Size() {
			t.Fatalf("push %d: write index %d out of range", i, m.next)
		}
	}
	// Last three: 97, 98, 99
	if got := m.Mean(); got != 98 {
		t.Errorf("mean: got %v, want 98", got)
	}
}

func TestMovingAverageEmpty(t *testing.T) {
	m := NewMovingAverage(5)
	if got := m.Mean(); got != 0 {
		t.Errorf("empty mean: got %v, want 0", got)
	}
}

func TestMovingAverageDepthClamped(t *testing.T) {
	m := NewMovingAverage(0)
	if m.Size() != 1 {
		t.Fatalf("Size: got %d, want 1", m.Size())
	}
	m.Push(4)
	if got := m.Push(8); got != 8 {
		t.Errorf("depth-1 filter should pass through, got %v", got)
	}
}

func TestMovingAverageIndependentInstances(t *testing.T) {
	temp := NewMovingAverage(5)
	pres := NewMovingAverage(5)

	temp.Push(20)
	temp.Push(22)
	got := pres.Push(1000)

	if got != 1000 {
		t.Errorf("pressure filter affected by temperature pushes: got %v", got)
	}
	if temp.Len() != 2 || pres.Len() != 1 {
		t.Errorf("unexpected fill counts temp=%d pres=%d", temp.Len(), pres.Len())
	}
}
