package gateway

import "time"

type Option func(*Gateway)

// WithCacheSize sets the response cache capacity in bytes.
func WithCacheSize(size int) Option {
	return func(g *Gateway) {
		g.cacheSize = size
	}
}

// WithCacheTTL sets how long cached responses stay valid.
func WithCacheTTL(ttl time.Duration) Option {
	return func(g *Gateway) {
		g.cacheTTL = int(ttl.Seconds())
	}
}
