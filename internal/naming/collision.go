package naming

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"
)

// CollisionResolver tracks output paths claimed by input files and resolves
// duplicates by appending "-N" to the stem. All methods are goroutine-safe.
type CollisionResolver struct {
	mu       sync.Mutex
	owners   map[string]string // output path → input path that owns it
	counters map[string]int    // requested output path → next suffix
}

// NewCollisionResolver creates a ready-to-use resolver.
func NewCollisionResolver() *CollisionResolver {
	return &CollisionResolver{
		owners:   make(map[string]string),
		counters: make(map[string]int),
	}
}

// Resolve returns the final output path for input. A requested path that is
// unclaimed (or already owned by input) is returned as-is; otherwise the
// first free "-N" variant, N >= 2, is claimed.
func (cr *CollisionResolver) Resolve(input, requested string) string {
	cr.mu.Lock()
	defer cr.mu.Unlock()

	if owner, taken := cr.owners[requested]; !taken || owner == input {
		cr.owners[requested] = input
		return requested
	}

	dir, base := filepath.Split(requested)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	// Keep the ".storyboard" marker next to the extension.
	marker := ""
	if strings.HasSuffix(stem, Suffix) {
		stem = strings.TrimSuffix(stem, Suffix)
		marker = Suffix
	}

	n := max(2, cr.counters[requested])
	for {
		candidate := filepath.Join(dir, fmt.Sprintf("%s-%d%s%s", stem, n, marker, ext))
		if owner, taken := cr.owners[candidate]; !taken || owner == input {
			cr.counters[requested] = n + 1
			cr.owners[candidate] = input
			return candidate
		}
		n++
	}
}
