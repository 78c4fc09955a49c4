package dnsquery

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/netprobe-io/netprobe/probe"
)

func TestParseQueryType(t *testing.T) {
	for _, in := range []string{"A", "a", " mx ", "ALL", "aaaa", "Txt"} {
		if _, err := ParseQueryType(in); err != nil {
			t.Errorf("ParseQueryType(%q) rejected valid input: %v", in, err)
		}
	}

	for _, in := range []string{"", "SRV", "ANY", "a record"} {
		if _, err := ParseQueryType(in); !errors.Is(err, probe.ErrMalformedConfig) {
			t.Errorf("ParseQueryType(%q) = %v, want ErrMalformedConfig", in, err)
		}
	}
}

func TestQueryLocalhostA(t *testing.T) {
	result, err := New().Query(context.Background(), Config{
		Domain:  "localhost",
		Type:    TypeA,
		Timeout: 5 * time.Second,
	})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}

	if len(result.Records) == 0 {
		t.Fatal("no records returned")
	}
	for _, rec := range result.Records {
		if rec.Type != TypeA {
			t.Errorf("record type = %s, want A", rec.Type)
		}
		ip := net.ParseIP(rec.Value)
		if ip == nil || ip.To4() == nil {
			t.Errorf("A record value %q is not an IPv4 address", rec.Value)
		}
		if rec.TTL != defaultTTL {
			t.Errorf("ttl = %d, want %d", rec.TTL, defaultTTL)
		}
	}
	if result.QueryType != TypeA || result.Domain != "localhost" {
		t.Errorf("result echo mismatch: %+v", result)
	}
}

func TestQueryFallbackTypes(t *testing.T) {
	// CNAME, SOA, PTR and ALL fall back to address lookup.
	for _, qt := range []QueryType{TypeCNAME, TypeSOA, TypePTR, TypeALL} {
		t.Run(string(qt), func(t *testing.T) {
			result, err := New().Query(context.Background(), Config{
				Domain:  "localhost",
				Type:    qt,
				Timeout: 5 * time.Second,
			})
			if err != nil {
				t.Fatalf("Query failed: %v", err)
			}
			if result.QueryType != qt {
				t.Errorf("query type echoed as %s, want %s", result.QueryType, qt)
			}
			if len(result.Records) == 0 {
				t.Error("fallback lookup returned no records")
			}
		})
	}
}

func TestQueryUnresolvable(t *testing.T) {
	_, err := New().Query(context.Background(), Config{
		Domain:  "host.invalid",
		Type:    TypeA,
		Timeout: 5 * time.Second,
	})
	if !errors.Is(err, probe.ErrUnresolvable) {
		t.Fatalf("expected ErrUnresolvable, got %v", err)
	}
}

func TestQueryUnknownType(t *testing.T) {
	_, err := New().Query(context.Background(), Config{
		Domain: "localhost",
		Type:   QueryType("SRV"),
	})
	if !errors.Is(err, probe.ErrMalformedConfig) {
		t.Fatalf("expected ErrMalformedConfig, got %v", err)
	}
}
