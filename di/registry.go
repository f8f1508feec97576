package di

import (
	"sort"
	"sync"
)

// registry 标识符到绑定的映射，后写覆盖先写。
type registry struct {
	mu       sync.RWMutex
	bindings map[string]Binding
}

func newRegistry() *registry {
	return &registry{
		bindings: make(map[string]Binding),
	}
}

func (r *registry) set(id string, b Binding) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bindings[id] = b
}

func (r *registry) has(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.bindings[id]
	return ok
}

// lookup 读取绑定。调用方拿到的是副本，可以在锁外执行工厂。
func (r *registry) lookup(id string) (Binding, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.bindings[id]
	return b, ok
}

func (r *registry) identifiers() []string {
	r.mu.RLock()
	out := make([]string, 0, len(r.bindings))
	for id := range r.bindings {
		out = append(out, id)
	}
	r.mu.RUnlock()

	sort.Strings(out)
	return out
}
