// Package mutation holds pending style changes until a flush applies them.
package mutation

// Kind tags a mutation for statistics. The queue never inspects it.
type Kind int

const (
	Other Kind = iota
	Cell
	Column
)

func (k Kind) String() string {
	switch k {
	case Cell:
		return "cell"
	case Column:
		return "column"
	}
	return "other"
}

// Mutation is one deferred styling change.
type Mutation struct {
	Kind  Kind
	Apply func()
}

// New wraps fn as a mutation of the given kind.
func New(kind Kind, fn func()) Mutation {
	return Mutation{Kind: kind, Apply: fn}
}

// Queue is an ordered buffer of mutations. It is owned by a single goroutine
// and is not safe for concurrent use.
type Queue struct {
	items []Mutation
}

// Enqueue appends m to the tail.
func (q *Queue) Enqueue(m Mutation) {
	q.items = append(q.items, m)
}

// Drain returns every queued mutation in enqueue order and leaves the queue
// empty. Mutations enqueued while the result is being applied land in the
// next drain.
func (q *Queue) Drain() []Mutation {
	items := q.items
	q.items = nil
	return items
}

// Len returns the number of queued mutations.
func (q *Queue) Len() int {
	return len(q.items)
}
