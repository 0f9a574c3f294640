package core

import "fmt"

// queue is a fixed-capacity FIFO ring of inactive items.
type queue struct {
	buf  []*Item
	head int
	n    int
}

func newQueue(capacity int) queue {
	return queue{buf: make([]*Item, capacity)}
}

func (q *queue) push(it *Item) {
	invariant(q.n < len(q.buf), "pool queue for %s over capacity %d", it.color, len(q.buf))
	q.buf[(q.head+q.n)%len(q.buf)] = it
	q.n++
}

func (q *queue) pop() *Item {
	it := q.buf[q.head]
	q.buf[q.head] = nil
	q.head = (q.head + 1) % len(q.buf)
	q.n--
	return it
}

// Pool owns a fixed set of pre-allocated items per colour.
// Inactive items live only in their colour's queue; active items are owned by
// whoever acquired them. The pool never allocates after construction.
type Pool struct {
	capacity int
	queues   []queue
	items    []Item
}

// NewPool pre-allocates capacity items for each of colors colours.
func NewPool(colors, capacity int) (*Pool, error) {
	if colors < MinColors || colors > MaxColors {
		return nil, configErrorf("colors", "must be between %d and %d, got %d", MinColors, MaxColors, colors)
	}
	if capacity <= 0 {
		return nil, configErrorf("pool_capacity", "must be positive, got %d", capacity)
	}

	p := &Pool{
		capacity: capacity,
		queues:   make([]queue, colors),
		items:    make([]Item, colors*capacity),
	}
	for c := range colors {
		p.queues[c] = newQueue(capacity)
		for s := range capacity {
			it := &p.items[c*capacity+s]
			it.id = ItemID(c*capacity + s)
			it.color = Color(c)
			it.owner = p
			p.queues[c].push(it)
		}
	}
	return p, nil
}

// NewPoolFor sizes the pool from board parameters.
func NewPoolFor(params Params) (*Pool, error) {
	return NewPool(params.Colors, params.PoolCapacity())
}

// Colors returns the number of colour queues.
func (p *Pool) Colors() int { return len(p.queues) }

// Capacity returns the number of items per colour.
func (p *Pool) Capacity() int { return p.capacity }

// Free returns how many items of a colour are waiting in the pool.
func (p *Pool) Free(c Color) int {
	if int(c) >= len(p.queues) {
		return 0
	}
	return p.queues[c].n
}

// Active returns how many items of a colour are currently handed out.
func (p *Pool) Active(c Color) int {
	if int(c) >= len(p.queues) {
		return 0
	}
	return p.capacity - p.queues[c].n
}

// Acquire activates the next free item of colour c at the given placement.
// An empty queue reports ErrPoolExhausted and returns no item.
func (p *Pool) Acquire(c Color, pos Vec2, rotation float64) (*Item, error) {
	if int(c) >= len(p.queues) {
		return nil, fmt.Errorf("pool: %w: %s", ErrUnknownColor, c)
	}
	q := &p.queues[c]
	if q.n == 0 {
		return nil, fmt.Errorf("pool: %w: no free %s items (capacity %d)", ErrPoolExhausted, c, p.capacity)
	}

	it := q.pop()
	it.active = true
	it.tier = Tier0
	it.pos = pos
	it.rotation = rotation
	return it, nil
}

// Release deactivates an item and returns it to its colour's queue.
// Releasing an inactive or foreign item panics.
func (p *Pool) Release(it *Item) {
	invariant(it != nil, "release of nil item")
	invariant(it.owner == p, "item %d released to a pool that does not own it", it.id)
	invariant(it.active, "double release of item %d", it.id)

	it.active = false
	it.tier = Tier0
	it.addr = Address{}
	p.queues[it.color].push(it)
}

// PoolStats summarises free items per colour.
type PoolStats struct {
	Capacity int
	Free     []int
}

// Stats returns a copy of the pool's free counts.
func (p *Pool) Stats() PoolStats {
	free := make([]int, len(p.queues))
	for c := range p.queues {
		free[c] = p.queues[c].n
	}
	return PoolStats{Capacity: p.capacity, Free: free}
}
