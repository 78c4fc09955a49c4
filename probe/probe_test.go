package probe

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestResolveAddrLiteral(t *testing.T) {
	addr, err := ResolveAddr(context.Background(), "127.0.0.1")
	if err != nil {
		t.Fatalf("ResolveAddr failed: %v", err)
	}
	if addr.String() != "127.0.0.1" {
		t.Errorf("addr = %s, want 127.0.0.1", addr)
	}
	if !addr.Is4() {
		t.Error("loopback must come back unmapped as IPv4")
	}
}

func TestResolveAddrInvalid(t *testing.T) {
	_, err := ResolveAddr(context.Background(), "host.invalid")
	if !errors.Is(err, ErrUnresolvable) {
		t.Fatalf("expected ErrUnresolvable, got %v", err)
	}
}

func TestSleepCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	err := Sleep(ctx, time.Minute)
	if err == nil {
		t.Fatal("expected context error")
	}
	if time.Since(start) > time.Second {
		t.Fatal("cancelled sleep must return immediately")
	}
}

func TestSleepElapses(t *testing.T) {
	if err := Sleep(context.Background(), time.Millisecond); err != nil {
		t.Fatalf("Sleep failed: %v", err)
	}
}

func TestMillis(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want float64
	}{
		{time.Millisecond, 1},
		{1500 * time.Microsecond, 1.5},
		{time.Second, 1000},
		{0, 0},
	}
	for _, tt := range tests {
		if got := Millis(tt.d); got != tt.want {
			t.Errorf("Millis(%s) = %f, want %f", tt.d, got, tt.want)
		}
	}
}
