// Package openset is the A* open list used by the grid and lattice searches. It
// holds arena indices keyed by f and supports decrease-key. Equal f values pop
// in the order they were first pushed, so searches are reproducible.
package openset

import "container/heap"

type entry struct {
	id  int
	f   float64
	seq uint64
}

// queue implements heap.Interface. pos maps an arena index to its heap slot, or
// -1 once it has been popped.
type queue struct {
	entries []entry
	pos     []int
}

func (q *queue) Len() int { return len(q.entries) }

func (q *queue) Less(i, j int) bool {
	if q.entries[i].f != q.entries[j].f {
		return q.entries[i].f < q.entries[j].f
	}
	return q.entries[i].seq < q.entries[j].seq
}

func (q *queue) Swap(i, j int) {
	q.entries[i], q.entries[j] = q.entries[j], q.entries[i]
	q.pos[q.entries[i].id] = i
	q.pos[q.entries[j].id] = j
}

func (q *queue) Push(x interface{}) {
	e := x.(entry)
	for len(q.pos) <= e.id {
		q.pos = append(q.pos, -1)
	}
	q.pos[e.id] = len(q.entries)
	q.entries = append(q.entries, e)
}

func (q *queue) Pop() interface{} {
	last := len(q.entries) - 1
	e := q.entries[last]
	q.entries = q.entries[:last]
	q.pos[e.id] = -1
	return e
}

// Set is a min-priority queue of non-negative arena indices. The zero value is
// empty and ready to use.
type Set struct {
	q   queue
	seq uint64
}

// Len returns the number of queued indices.
func (s *Set) Len() int {
	return s.q.Len()
}

// Push queues id with priority f. An id must not be pushed while it is queued.
func (s *Set) Push(id int, f float64) {
	heap.Push(&s.q, entry{id: id, f: f, seq: s.seq})
	s.seq++
}

// Pop removes and returns the index with the lowest f.
func (s *Set) Pop() int {
	return heap.Pop(&s.q).(entry).id
}

// Contains reports whether id is queued.
func (s *Set) Contains(id int) bool {
	return id >= 0 && id < len(s.q.pos) && s.q.pos[id] >= 0
}

// Update changes the priority of a queued id, keeping its original place among
// equal priorities. It returns false if id is not queued.
func (s *Set) Update(id int, f float64) bool {
	if !s.Contains(id) {
		return false
	}
	i := s.q.pos[id]
	s.q.entries[i].f = f
	heap.Fix(&s.q, i)
	return true
}
