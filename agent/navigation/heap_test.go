package navigation

import (
	"testing"

	"pgregory.net/rapid"
)

func TestMinHeap_PopOrder(t *testing.T) {
	h := NewMinHeap[int](0)
	for _, p := range []int{3, 1, 4, 1, 5} {
		h.Push(p, float64(p))
	}

	var got []int
	for {
		v, ok := h.Pop()
		if !ok {
			break
		}
		got = append(got, v)
	}
	want := []int{1, 1, 3, 4, 5}
	if len(got) != len(want) {
		t.Fatalf("popped %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("popped %v, want %v", got, want)
			break
		}
	}
	if h.Len() != 0 {
		t.Errorf("Len = %d, want 0", h.Len())
	}
	if _, ok := h.Pop(); ok {
		t.Error("Pop on empty heap should return false")
	}
}

func TestMinHeap_TiesPopInInsertionOrder(t *testing.T) {
	h := NewMinHeap[string](4)
	h.Push("a", 2)
	h.Push("b", 1)
	h.Push("c", 2)
	h.Push("d", 1)
	h.Push("e", 2)

	want := []string{"b", "d", "a", "c", "e"}
	for _, w := range want {
		got, ok := h.Pop()
		if !ok || got != w {
			t.Fatalf("Pop = %q, %v, want %q", got, ok, w)
		}
	}
}

func TestMinHeap_Reset(t *testing.T) {
	h := NewMinHeap[int](2)
	h.Push(1, 1)
	h.Push(2, 2)
	h.Reset()
	if h.Len() != 0 {
		t.Fatalf("Len = %d after Reset", h.Len())
	}
	h.Push(7, 0)
	if v, ok := h.Pop(); !ok || v != 7 {
		t.Errorf("Pop = %d, %v, want 7", v, ok)
	}
}

func TestMinHeap_NonDecreasing(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		prios := rapid.SliceOf(rapid.IntRange(-50, 50)).Draw(t, "priorities")
		h := NewMinHeap[int](len(prios))
		for i, p := range prios {
			h.Push(i, float64(p))
		}
		last := -1
		lastPrio := -1 << 31
		for h.Len() > 0 {
			i, _ := h.Pop()
			p := prios[i]
			if p < lastPrio {
				t.Fatalf("priority %d popped after %d", p, lastPrio)
			}
			if p == lastPrio && i < last {
				t.Fatalf("index %d popped after %d with equal priority", i, last)
			}
			last, lastPrio = i, p
		}
	})
}
