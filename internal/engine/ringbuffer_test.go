package engine

import (
	"sync"
	"testing"
)

func TestRingBufferRetention(t *testing.T) {
	tests := []struct {
		name     string
		capacity int
		adds     int
		want     []int
	}{
		{"empty", 3, 0, nil},
		{"partial", 3, 2, []int{0, 1}},
		{"exactly full", 3, 3, []int{0, 1, 2}},
		{"wrapped", 3, 5, []int{2, 3, 4}},
		{"wrapped twice", 2, 7, []int{5, 6}},
		{"zero capacity clamps to one", 0, 4, []int{3}},
	}
	for _, tt := range tests {
		rb := NewRingBuffer[int](tt.capacity)
		for i := 0; i < tt.adds; i++ {
			rb.Add(i)
		}
		got := rb.All()
		if len(got) != len(tt.want) || rb.Len() != len(tt.want) {
			t.Errorf("%s: All() = %v (Len %d), want %v", tt.name, got, rb.Len(), tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("%s: All() = %v, want %v", tt.name, got, tt.want)
				break
			}
		}
		last, ok := rb.Last()
		if len(tt.want) == 0 {
			if ok {
				t.Errorf("%s: Last() on empty buffer returned %d", tt.name, last)
			}
			continue
		}
		if !ok || last != tt.want[len(tt.want)-1] {
			t.Errorf("%s: Last() = %d, %v; want %d", tt.name, last, ok, tt.want[len(tt.want)-1])
		}
	}
}

func TestRingBufferAllIsCopy(t *testing.T) {
	rb := NewRingBuffer[Report](2)
	rb.Add(Report{Controller: "a"})
	items := rb.All()
	items[0].Controller = "mutated"
	if last, _ := rb.Last(); last.Controller != "a" {
		t.Errorf("All() exposed internal storage: Last().Controller = %q", last.Controller)
	}
}

func TestRingBufferConcurrent(t *testing.T) {
	rb := NewRingBuffer[int](16)
	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				rb.Add(i)
				_ = rb.All()
			}
		}()
	}
	wg.Wait()
	if rb.Len() != 16 {
		t.Errorf("Len() = %d, want 16", rb.Len())
	}
}
