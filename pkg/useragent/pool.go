// Package useragent serves stored user-agents to consumers that want a
// handful of strings rather than the whole store.
package useragent

import (
	"crypto/rand"
	"math/big"
	"sync/atomic"
)

// Order selects how Take walks the pool.
type Order int

const (
	// Shuffled draws distinct entries at random.
	Shuffled Order = iota
	// Stored walks entries in store order, wrapping around.
	Stored
)

// Pool is a read-only view over stored user-agents. It is safe for
// concurrent use.
type Pool struct {
	entries []string
	cursor  atomic.Uint64
}

// NewPool builds a Pool over a copy of entries.
func NewPool(entries []string) *Pool {
	return &Pool{entries: append([]string(nil), entries...)}
}

// Len returns the number of stored entries.
func (p *Pool) Len() int {
	return len(p.entries)
}

// Next returns the entry under the cursor and advances it.
func (p *Pool) Next() string {
	if len(p.entries) == 0 {
		return ""
	}
	i := p.cursor.Add(1) - 1
	return p.entries[i%uint64(len(p.entries))]
}

// Take returns k entries. Shuffled never repeats an entry, so it returns at
// most Len entries; Stored wraps around and always returns k.
func (p *Pool) Take(k int, order Order) []string {
	if k <= 0 || len(p.entries) == 0 {
		return nil
	}
	if order == Stored {
		out := make([]string, k)
		for i := range out {
			out[i] = p.Next()
		}
		return out
	}
	return p.sample(min(k, len(p.entries)))
}

// sample runs a partial Fisher-Yates shuffle over a copy of the entries.
func (p *Pool) sample(k int) []string {
	buf := append([]string(nil), p.entries...)
	for i := 0; i < k; i++ {
		j := i + randIndex(len(buf)-i)
		buf[i], buf[j] = buf[j], buf[i]
	}
	return buf[:k]
}

func randIndex(n int) int {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0
	}
	return int(v.Int64())
}
