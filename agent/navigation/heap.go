package navigation

type heapEntry[T any] struct {
	item     T
	priority float64
	seq      uint64 // 挿入順。同じ priority なら先に入れたものが先に出る
}

func (e heapEntry[T]) less(o heapEntry[T]) bool {
	if e.priority != o.priority {
		return e.priority < o.priority
	}
	return e.seq < o.seq
}

// MinHeap は探索用の二分ヒープです。decrease-key は持たず、
// 優先度が改善したら重複して Push し、古いものは呼び出し側の closed set で捨てます。
type MinHeap[T any] struct {
	entries []heapEntry[T]
	seq     uint64
}

func NewMinHeap[T any](capacity int) *MinHeap[T] {
	return &MinHeap[T]{entries: make([]heapEntry[T], 0, capacity)}
}

func (h *MinHeap[T]) Len() int {
	return len(h.entries)
}

func (h *MinHeap[T]) Push(item T, priority float64) {
	h.entries = append(h.entries, heapEntry[T]{item: item, priority: priority, seq: h.seq})
	h.seq++

	// Sift up
	i := len(h.entries) - 1
	for i > 0 {
		parent := (i - 1) / 2
		if !h.entries[i].less(h.entries[parent]) {
			break
		}
		h.entries[parent], h.entries[i] = h.entries[i], h.entries[parent]
		i = parent
	}
}

// Pop は最小の要素を取り出します。空なら false。
func (h *MinHeap[T]) Pop() (T, bool) {
	var zero T
	n := len(h.entries)
	if n == 0 {
		return zero, false
	}
	top := h.entries[0]
	h.entries[0] = h.entries[n-1]
	h.entries[n-1] = heapEntry[T]{}
	h.entries = h.entries[:n-1]

	// Sift down
	i := 0
	for {
		left := 2*i + 1
		if left >= len(h.entries) {
			break
		}
		smallest := left
		if right := left + 1; right < len(h.entries) && h.entries[right].less(h.entries[left]) {
			smallest = right
		}
		if !h.entries[smallest].less(h.entries[i]) {
			break
		}
		h.entries[i], h.entries[smallest] = h.entries[smallest], h.entries[i]
		i = smallest
	}
	return top.item, true
}

// Reset は中身を捨てて容量を再利用します。
func (h *MinHeap[T]) Reset() {
	clear(h.entries)
	h.entries = h.entries[:0]
	h.seq = 0
}
