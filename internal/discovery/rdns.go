package discovery

import (
	"context"
	"net"
	"strings"
	"time"

	"go.uber.org/zap"
)

// lookupAddrFunc matches net.Resolver.LookupAddr; injectable for tests.
type lookupAddrFunc func(ctx context.Context, addr string) ([]string, error)

// Resolver performs best-effort, time-boxed reverse DNS lookups.
// A lookup never blocks the scan beyond its own timeout.
type Resolver struct {
	timeout time.Duration
	lookup  lookupAddrFunc
	logger  *zap.Logger
}

// NewResolver creates a reverse DNS resolver using the system resolver.
func NewResolver(timeout time.Duration, logger *zap.Logger) *Resolver {
	return &Resolver{
		timeout: timeout,
		lookup:  net.DefaultResolver.LookupAddr,
		logger:  logger,
	}
}

// Resolve returns the hostname for ip, or "" when the lookup fails, times
// out, or yields nothing more informative than the address itself.
func (r *Resolver) Resolve(ctx context.Context, ip string) string {
	lookupCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	names, err := r.lookup(lookupCtx, ip)
	if err != nil || len(names) == 0 {
		return ""
	}

	name := strings.TrimSuffix(names[0], ".")
	if name == "" || name == ip {
		return ""
	}
	return name
}
