package datastructure

import (
	"errors"

	"golang.org/x/exp/constraints"
)

type PriorityQueueNode[T constraints.Ordered] struct {
	rank    float64
	item    T
	itemPos int
}

func NewPriorityQueueNode[T constraints.Ordered](rank float64, item T) *PriorityQueueNode[T] {
	return &PriorityQueueNode[T]{rank: rank, item: item}
}

func (p *PriorityQueueNode[T]) GetItem() T {
	return p.item
}

func (p *PriorityQueueNode[T]) GetRank() float64 {
	return p.rank
}

func (p *PriorityQueueNode[T]) setRank(rank float64) {
	p.rank = rank
}

func (p *PriorityQueueNode[T]) setPos(i int) {
	p.itemPos = i
}

// MinHeap is a d-ary heap priority queue. Equal ranks are broken by item
// order, which makes minimum extraction (and therefore search output)
// deterministic.
type MinHeap[T constraints.Ordered] struct {
	heap []*PriorityQueueNode[T]
	d    int
}

func NewBinaryHeap[T constraints.Ordered]() *MinHeap[T] {
	return NewdAryHeap[T](2)
}

func NewFourAryHeap[T constraints.Ordered]() *MinHeap[T] {
	return NewdAryHeap[T](4)
}

func NewdAryHeap[T constraints.Ordered](d int) *MinHeap[T] {
	return &MinHeap[T]{
		heap: make([]*PriorityQueueNode[T], 0),
		d:    d,
	}
}

func (h *MinHeap[T]) Preallocate(maxSearchSize int) {
	h.heap = make([]*PriorityQueueNode[T], 0, maxSearchSize)
}

func (h *MinHeap[T]) less(a, b *PriorityQueueNode[T]) bool {
	if a.rank != b.rank {
		return a.rank < b.rank
	}
	return a.item < b.item
}

func (h *MinHeap[T]) parent(index int) int {
	return (index - 1) / h.d
}

func (h *MinHeap[T]) heapifyUp(index int) {
	for index != 0 && h.less(h.heap[index], h.heap[h.parent(index)]) {
		h.swap(index, h.parent(index))
		index = h.parent(index)
	}
}

func (h *MinHeap[T]) heapifyDown(index int) {
	for {
		leftMostChild := index*h.d + 1
		if leftMostChild >= len(h.heap) {
			return
		}

		sentinel := leftMostChild + h.d
		if sentinel > len(h.heap) {
			sentinel = len(h.heap)
		}

		smallest := index
		for child := leftMostChild; child < sentinel; child++ {
			if h.less(h.heap[child], h.heap[smallest]) {
				smallest = child
			}
		}
		if smallest == index {
			return
		}
		h.swap(index, smallest)
		index = smallest
	}
}

func (h *MinHeap[T]) swap(i, j int) {
	h.heap[i], h.heap[j] = h.heap[j], h.heap[i]
	h.heap[i].setPos(i)
	h.heap[j].setPos(j)
}

func (h *MinHeap[T]) IsEmpty() bool {
	return len(h.heap) == 0
}

func (h *MinHeap[T]) Size() int {
	return len(h.heap)
}

func (h *MinHeap[T]) Clear() {
	h.heap = h.heap[:0]
}

func (h *MinHeap[T]) GetMin() (*PriorityQueueNode[T], error) {
	if h.IsEmpty() {
		return nil, errors.New("heap is empty")
	}
	return h.heap[0], nil
}

func (h *MinHeap[T]) Insert(key *PriorityQueueNode[T]) {
	h.heap = append(h.heap, key)
	key.setPos(len(h.heap) - 1)
	h.heapifyUp(len(h.heap) - 1)
}

func (h *MinHeap[T]) ExtractMin() (*PriorityQueueNode[T], error) {
	if h.IsEmpty() {
		return nil, errors.New("heap is empty")
	}
	min := h.heap[0]
	last := len(h.heap) - 1
	h.swap(0, last)
	h.heap = h.heap[:last]
	if last > 0 {
		h.heapifyDown(0)
	}
	return min, nil
}

func (h *MinHeap[T]) DecreaseKey(item *PriorityQueueNode[T], rank float64) error {
	pos := item.itemPos
	if pos < 0 || pos >= len(h.heap) || h.heap[pos] != item {
		return errors.New("item is not in the heap")
	}
	if rank > item.rank {
		return errors.New("new rank is larger than the current rank")
	}
	item.setRank(rank)
	h.heapifyUp(pos)
	return nil
}
