package keylock

import (
	"sort"
	"sync"
)

// Locker provides mutual exclusion per key. The zero value is ready to use.
type Locker struct {
	mu    sync.Mutex
	locks map[string]*entry
}

type entry struct {
	mu   sync.Mutex
	refs int
}

// New creates Locker.
func New() *Locker {
	return &Locker{locks: make(map[string]*entry)}
}

// Lock acquires every key and returns a function releasing them.
// Keys are deduplicated and taken in sorted order, so callers sharing keys cannot deadlock.
func (l *Locker) Lock(keys ...string) (unlock func()) {
	ordered := normalize(keys)
	held := make([]*entry, 0, len(ordered))
	for _, key := range ordered {
		e := l.acquire(key)
		e.mu.Lock()
		held = append(held, e)
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			for i := len(held) - 1; i >= 0; i-- {
				held[i].mu.Unlock()
				l.release(ordered[i])
			}
		})
	}
}

// Len reports number of keys currently tracked.
func (l *Locker) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}

func (l *Locker) acquire(key string) *entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.locks == nil {
		l.locks = make(map[string]*entry)
	}
	e, ok := l.locks[key]
	if !ok {
		e = &entry{}
		l.locks[key] = e
	}
	e.refs++
	return e
}

func (l *Locker) release(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	e, ok := l.locks[key]
	if !ok {
		return
	}
	e.refs--
	if e.refs == 0 {
		delete(l.locks, key)
	}
}

func normalize(keys []string) []string {
	seen := make(map[string]struct{}, len(keys))
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
