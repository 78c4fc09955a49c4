package tracer

import (
	"context"
	"net"
	"net/netip"
	"strings"
	"time"

	"github.com/jellydator/ttlcache/v3"
)

const ptrCacheTTL = 10 * time.Minute

// ptrCache memoizes reverse lookups. Paths repeat the same routers
// across traces, and PTR answers are slow enough to dominate the walk
// without it. Negative answers are cached as empty strings.
type ptrCache struct {
	cache *ttlcache.Cache[string, string]
}

func newPTRCache() *ptrCache {
	return &ptrCache{
		cache: ttlcache.New[string, string](
			ttlcache.WithTTL[string, string](ptrCacheTTL),
		),
	}
}

func (c *ptrCache) lookup(ctx context.Context, addr netip.Addr) string {
	key := addr.String()
	if item := c.cache.Get(key); item != nil {
		return item.Value()
	}

	name := resolveName(ctx, key)
	c.cache.Set(key, name, ttlcache.DefaultTTL)

	return name
}

func resolveName(ctx context.Context, ip string) string {
	names, err := net.DefaultResolver.LookupAddr(ctx, ip)
	if err != nil || len(names) == 0 {
		return ""
	}
	return strings.TrimSuffix(names[0], ".")
}
