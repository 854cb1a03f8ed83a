package intern

// Pool assigns dense integer IDs to strings in first-seen order.
// A Pool is owned by one graph; it is not safe for concurrent use.
type Pool struct {
	store map[string]int64
}

func New() *Pool {
	return &Pool{store: make(map[string]int64)}
}

// Get returns the ID for s, allocating the next one if s is new.
// IDs are 0-based so they can be used directly as gonum node IDs.
func (p *Pool) Get(s string) int64 {
	if id, ok := p.store[s]; ok {
		return id
	}
	id := int64(len(p.store))
	p.store[s] = id
	return id
}

// Lookup returns the ID for s without allocating.
func (p *Pool) Lookup(s string) (int64, bool) {
	id, ok := p.store[s]
	return id, ok
}
