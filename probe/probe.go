// Package probe holds the pieces shared by all probe kinds:
// the attempt record, the error taxonomy and target resolution.
package probe

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/netip"
	"time"
)

var (
	// ErrUnresolvable - name resolution produced no usable address
	ErrUnresolvable = errors.New("could not resolve host")
	// ErrAllAttemptsFailed - every attempt in a run timed out or errored
	ErrAllAttemptsFailed = errors.New("all attempts failed")
	// ErrMalformedConfig - invalid method/query type/port range.
	// Rejected before any network activity.
	ErrMalformedConfig = errors.New("malformed configuration")
)

// Attempt is one timed trial within a probe run.
// It is owned exclusively by the run that produced it.
type Attempt struct {
	OK  bool
	RTT time.Duration
}

// ResolveAddr resolves a host name to a single concrete address.
// The first resolver answer wins. Returns ErrUnresolvable when the
// lookup fails or yields no candidates.
func ResolveAddr(ctx context.Context, host string) (netip.Addr, error) {
	addrs, err := net.DefaultResolver.LookupIPAddr(ctx, host)
	if err != nil || len(addrs) == 0 {
		return netip.Addr{}, fmt.Errorf("%w: %s", ErrUnresolvable, host)
	}

	addr, ok := netip.AddrFromSlice(addrs[0].IP)
	if !ok {
		return netip.Addr{}, fmt.Errorf("%w: %s", ErrUnresolvable, host)
	}
	return addr.Unmap(), nil
}

// Sleep waits for the inter-attempt delay, honoring context cancellation.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Millis converts a duration to milliseconds with fractional precision.
func Millis(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000
}
