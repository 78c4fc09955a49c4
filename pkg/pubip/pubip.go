// Package pubip reports the host public IP. STUN is asked first, web
// services are the fallback, and the answer is cached for a while so
// status requests do not hammer external servers. The cache is package
// wide and shared by all callers.
package pubip

import (
	"net"
	"sync"
	"time"

	"github.com/netprobe-io/netprobe/pkg/pubip/stunip"
	"github.com/netprobe-io/netprobe/pkg/pubip/webip"
)

type ipProvider int

const (
	Fallback ipProvider = iota
	Stun
	WebIP
)

var publicIP struct {
	sync.Mutex
	updatePeriod time.Duration
	provider     ipProvider
	cache        struct {
		ip      net.IP
		updated time.Time
	}
}

func init() {
	publicIP.updatePeriod = time.Minute
	publicIP.provider = Stun
}

func UpdatePeriod() time.Duration {
	return publicIP.updatePeriod
}

func SetUpdatePeriod(t time.Duration) {
	publicIP.updatePeriod = t
}

// Reset forgets the cache and retries STUN on the next request.
func Reset() {
	publicIP.Lock()
	defer publicIP.Unlock()
	publicIP.provider = Stun
	publicIP.cache.updated = time.Unix(0, 0)
}

// GetPublicIp returns the cached address, refreshing it when stale.
// On total failure it reports the unspecified address and keeps the
// cache stale so the next call retries immediately.
func GetPublicIp() net.IP {
	publicIP.Lock()
	defer publicIP.Unlock()

	if time.Since(publicIP.cache.updated) <= publicIP.updatePeriod {
		return publicIP.cache.ip
	}

	if publicIP.provider == Fallback {
		publicIP.provider = Stun
	}

	var ip net.IP
	var err error
	if publicIP.provider == Stun {
		ip, err = stunip.PublicIP()
		if err != nil {
			// strict firewalls commonly eat STUN; don't retry it until
			// the web path fails too
			publicIP.provider = WebIP
		}
	}
	if publicIP.provider == WebIP {
		ip, err = webip.PublicIP()
		if err != nil {
			publicIP.provider = Stun
		}
	}

	if err != nil {
		publicIP.cache.ip = net.IPv4zero
		publicIP.provider = Fallback
		return publicIP.cache.ip
	}

	publicIP.cache.ip = ip
	publicIP.cache.updated = time.Now()
	return publicIP.cache.ip
}

// Provider names the source of the current cached address.
func Provider() string {
	switch publicIP.provider {
	case Stun:
		return "STUN"
	case WebIP:
		return "WebIP"
	case Fallback:
		return "fallback"
	default:
		return "unknown"
	}
}
