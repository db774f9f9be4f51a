package cache

// ScopedKeyer wraps a Keyer with a prefix so several deployments or
// tenants can share one Redis instance without colliding.
//
// Example usage:
//
//	// Separate namespaces for staging and production
//	staging := NewScopedKeyer(NewDefaultKeyer(), "g6viz:staging:")
//	prod := NewScopedKeyer(NewDefaultKeyer(), "g6viz:prod:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// LayoutKey generates a prefixed key for layout caching.
func (k *ScopedKeyer) LayoutKey(graph6 string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(graph6, opts)
}

// ArtifactKey generates a prefixed key for artifact caching.
func (k *ScopedKeyer) ArtifactKey(layoutKey string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(layoutKey, opts)
}
