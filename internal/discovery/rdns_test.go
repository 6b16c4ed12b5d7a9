package discovery

import (
	"context"
	"fmt"
	"testing"
	"time"

	"go.uber.org/zap"
)

func newTestResolver(lookup lookupAddrFunc) *Resolver {
	return &Resolver{
		timeout: 100 * time.Millisecond,
		lookup:  lookup,
		logger:  zap.NewNop(),
	}
}

func TestResolveTrimsTrailingDot(t *testing.T) {
	r := newTestResolver(func(context.Context, string) ([]string, error) {
		return []string{"printer.lan."}, nil
	})
	if got := r.Resolve(context.Background(), "192.168.1.9"); got != "printer.lan" {
		t.Errorf("Resolve() = %q, want printer.lan", got)
	}
}

func TestResolveFailureReturnsEmpty(t *testing.T) {
	r := newTestResolver(func(context.Context, string) ([]string, error) {
		return nil, fmt.Errorf("NXDOMAIN")
	})
	if got := r.Resolve(context.Background(), "192.168.1.9"); got != "" {
		t.Errorf("Resolve() = %q, want empty", got)
	}
}

func TestResolveRejectsBareIPAnswer(t *testing.T) {
	r := newTestResolver(func(_ context.Context, addr string) ([]string, error) {
		return []string{addr}, nil
	})
	if got := r.Resolve(context.Background(), "192.168.1.9"); got != "" {
		t.Errorf("Resolve() = %q, want empty for self-referential answer", got)
	}
}

func TestResolveHonorsTimeout(t *testing.T) {
	r := newTestResolver(func(ctx context.Context, _ string) ([]string, error) {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(5 * time.Second):
			return []string{"too-late.lan"}, nil
		}
	})

	start := time.Now()
	got := r.Resolve(context.Background(), "192.168.1.9")
	elapsed := time.Since(start)

	if got != "" {
		t.Errorf("Resolve() = %q, want empty on timeout", got)
	}
	if elapsed > time.Second {
		t.Errorf("Resolve() blocked %v, want well under 1s", elapsed)
	}
}
