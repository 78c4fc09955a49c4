// Package dnsquery resolves DNS records of several types for a domain.
package dnsquery

import (
	"context"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/netprobe-io/netprobe/probe"
)

// QueryType enumerates supported record kinds. ParseQueryType is the
// only way request input becomes one of these.
type QueryType string

const (
	TypeA     QueryType = "A"
	TypeAAAA  QueryType = "AAAA"
	TypeCNAME QueryType = "CNAME"
	TypeMX    QueryType = "MX"
	TypeTXT   QueryType = "TXT"
	TypeNS    QueryType = "NS"
	TypeSOA   QueryType = "SOA"
	TypePTR   QueryType = "PTR"
	TypeALL   QueryType = "ALL"
)

// The stub resolver does not expose record TTLs, so responses carry a
// fixed nominal value.
const defaultTTL = 300

type Config struct {
	Domain  string
	Type    QueryType
	Timeout time.Duration
}

type Record struct {
	Type  QueryType `json:"record_type"`
	Value string    `json:"value"`
	TTL   int       `json:"ttl"`
}

type Result struct {
	Domain       string    `json:"domain"`
	QueryType    QueryType `json:"query_type"`
	Records      []Record  `json:"records"`
	ResponseTime float64   `json:"response_time"`
	Timestamp    time.Time `json:"timestamp"`
}

// ParseQueryType validates user input against the supported set.
func ParseQueryType(s string) (QueryType, error) {
	switch qt := QueryType(strings.ToUpper(strings.TrimSpace(s))); qt {
	case TypeA, TypeAAAA, TypeCNAME, TypeMX, TypeTXT, TypeNS, TypeSOA, TypePTR, TypeALL:
		return qt, nil
	default:
		return "", fmt.Errorf("%w: unsupported query type %q", probe.ErrMalformedConfig, s)
	}
}

// Service wraps a resolver so tests can substitute their own.
type Service struct {
	resolver *net.Resolver
}

func New() *Service {
	return &Service{resolver: net.DefaultResolver}
}

// Query performs one lookup of the configured type. Domains that do not
// resolve yield ErrUnresolvable. CNAME, SOA, PTR and ALL queries fall
// back to address lookup: the stub resolver cannot request those record
// types directly, and the address answer is what callers act on anyway.
func (s *Service) Query(ctx context.Context, cfg Config) (*Result, error) {
	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	start := time.Now()

	var records []Record
	var err error
	switch cfg.Type {
	case TypeA:
		records, err = s.lookupAddrs(ctx, cfg.Domain, TypeA)
	case TypeAAAA:
		records, err = s.lookupAddrs(ctx, cfg.Domain, TypeAAAA)
	case TypeMX:
		records, err = s.lookupMX(ctx, cfg.Domain)
	case TypeTXT:
		records, err = s.lookupTXT(ctx, cfg.Domain)
	case TypeNS:
		records, err = s.lookupNS(ctx, cfg.Domain)
	case TypeCNAME, TypeSOA, TypePTR, TypeALL:
		records, err = s.lookupAddrs(ctx, cfg.Domain, TypeA)
	default:
		return nil, fmt.Errorf("%w: unsupported query type %q", probe.ErrMalformedConfig, cfg.Type)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %v", probe.ErrUnresolvable, cfg.Type, cfg.Domain, err)
	}

	return &Result{
		Domain:       cfg.Domain,
		QueryType:    cfg.Type,
		Records:      records,
		ResponseTime: probe.Millis(time.Since(start)),
		Timestamp:    time.Now().UTC(),
	}, nil
}

func (s *Service) lookupAddrs(ctx context.Context, domain string, want QueryType) ([]Record, error) {
	addrs, err := s.resolver.LookupIPAddr(ctx, domain)
	if err != nil {
		return nil, err
	}

	var records []Record
	for _, a := range addrs {
		is4 := a.IP.To4() != nil
		if (want == TypeA && !is4) || (want == TypeAAAA && is4) {
			continue
		}
		records = append(records, Record{Type: want, Value: a.IP.String(), TTL: defaultTTL})
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("no %s records", want)
	}
	return records, nil
}

func (s *Service) lookupMX(ctx context.Context, domain string) ([]Record, error) {
	mxs, err := s.resolver.LookupMX(ctx, domain)
	if err != nil {
		return nil, err
	}

	records := make([]Record, 0, len(mxs))
	for _, mx := range mxs {
		records = append(records, Record{
			Type:  TypeMX,
			Value: fmt.Sprintf("%s (priority: %d)", strings.TrimSuffix(mx.Host, "."), mx.Pref),
			TTL:   defaultTTL,
		})
	}
	return records, nil
}

func (s *Service) lookupTXT(ctx context.Context, domain string) ([]Record, error) {
	txts, err := s.resolver.LookupTXT(ctx, domain)
	if err != nil {
		return nil, err
	}

	records := make([]Record, 0, len(txts))
	for _, txt := range txts {
		records = append(records, Record{Type: TypeTXT, Value: txt, TTL: defaultTTL})
	}
	return records, nil
}

func (s *Service) lookupNS(ctx context.Context, domain string) ([]Record, error) {
	nss, err := s.resolver.LookupNS(ctx, domain)
	if err != nil {
		return nil, err
	}

	records := make([]Record, 0, len(nss))
	for _, ns := range nss {
		records = append(records, Record{
			Type:  TypeNS,
			Value: strings.TrimSuffix(ns.Host, "."),
			TTL:   defaultTTL,
		})
	}
	return records, nil
}
