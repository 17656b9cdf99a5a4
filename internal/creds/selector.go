package creds

import (
	"fmt"
	"math/rand"
	"sync"
	"time"
)

// Source produces pseudo-random indices. Injectable so tests can pin the
// selection order.
type Source interface {
	Intn(n int) int
}

// Selector picks credentials uniformly at random, with replacement, from a
// fixed pool. Safe for concurrent use.
type Selector struct {
	pool *Pool
	mu   sync.Mutex
	src  Source
}

// NewSelector builds a selector over pool. A nil src gets a time-seeded
// default. An empty pool is a configuration error, never a per-session one.
func NewSelector(pool *Pool, src Source) (*Selector, error) {
	if pool == nil || pool.Len() == 0 {
		return nil, fmt.Errorf("credential pool is empty")
	}
	if src == nil {
		src = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Selector{pool: pool, src: src}, nil
}

// Pick returns one credential. With a single-entry pool it always returns
// that entry without consuming randomness.
func (s *Selector) Pick() Credential {
	if s.pool.Len() == 1 {
		return s.pool.At(0)
	}
	s.mu.Lock()
	i := s.src.Intn(s.pool.Len())
	s.mu.Unlock()
	return s.pool.At(i)
}
