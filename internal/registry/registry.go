package registry

import (
	"crypto/sha1"
	"encoding/hex"
	"sync"
)

const idPrefix = "id_"

// Hash derives the stable id of a product name
func Hash(name string) string {
	sum := sha1.Sum([]byte(name))
	return idPrefix + hex.EncodeToString(sum[:])
}

// Registry memoizes Hash and remembers which name produced each id
type Registry struct {
	mu     sync.RWMutex
	byID   map[string]string
	byName map[string]string
}

func New() *Registry {
	return &Registry{
		byID:   make(map[string]string),
		byName: make(map[string]string),
	}
}

// ID returns the id of name, computing it on first use
func (r *Registry) ID(name string) string {
	r.mu.RLock()
	id, ok := r.byName[name]
	r.mu.RUnlock()
	if ok {
		return id
	}

	id = Hash(name)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.byName[name] = id
	r.byID[id] = name
	return id
}

// Name returns the name an id was derived from, if it was seen
func (r *Registry) Name(id string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	name, ok := r.byID[id]
	return name, ok
}
