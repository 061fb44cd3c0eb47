package domain

import (
	"fmt"
	"sort"
	"sync"

	"github.com/defiscout/yieldscout/internal/apperror"
)

// Registry is a thread-safe whitelist of vetted protocols.
type Registry struct {
	mu        sync.RWMutex
	protocols map[string]ProtocolInfo
}

// NewRegistry creates an empty protocol registry.
func NewRegistry() *Registry {
	return &Registry{
		protocols: make(map[string]ProtocolInfo),
	}
}

// Register adds or replaces a protocol entry keyed by its slug.
func (r *Registry) Register(info ProtocolInfo) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.protocols[info.Slug] = info
}

// Lookup returns the protocol for slug.
func (r *Registry) Lookup(slug string) (ProtocolInfo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	info, ok := r.protocols[slug]
	if !ok {
		return ProtocolInfo{}, apperror.New(
			apperror.CodeUnknownProtocol,
			apperror.WithContext(fmt.Sprintf("protocol %q is not vetted", slug)),
		)
	}
	return info, nil
}

// Contains reports whether slug is whitelisted.
func (r *Registry) Contains(slug string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.protocols[slug]
	return ok
}

// All returns every registered protocol sorted by slug.
func (r *Registry) All() []ProtocolInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	infos := make([]ProtocolInfo, 0, len(r.protocols))
	for _, info := range r.protocols {
		infos = append(infos, info)
	}
	sort.Slice(infos, func(i, j int) bool {
		return infos[i].Slug < infos[j].Slug
	})
	return infos
}

// Len returns the number of registered protocols.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.protocols)
}
