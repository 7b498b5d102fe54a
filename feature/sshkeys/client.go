package sshkeys

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"hesiod53/core/retry"

	"go.uber.org/zap"
)

// Client fetches SSH keys through a Resolver.
type Client struct {
	resolver Resolver
	policy   retry.Policy
	log      *zap.Logger
}

// NewClient returns a client retrying lookups as configured in cfg.
func NewClient(resolver Resolver, cfg Config, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		resolver: resolver,
		policy: retry.Policy{
			Attempts: cfg.Tries,
			Delay:    cfg.RetryDelay(),
			OnRetry: func(n int, err error) {
				log.Debug("Lookup failed, retrying", zap.Int("attempt", n+1), zap.Error(err))
			},
		},
		log: log,
	}
}

// Fetch returns the SSH keys of username in key order. A user without key
// records has no keys and yields an empty list.
func (c *Client) Fetch(ctx context.Context, username, domain string) ([]string, error) {
	domain = strings.TrimSuffix(domain, ".")

	counts, err := c.lookup(ctx, username+".count.ssh."+domain)
	if errors.Is(err, ErrNotFound) {
		return c.fetchLegacy(ctx, username, domain)
	}
	if err != nil {
		return nil, err
	}

	count, err := strconv.Atoi(strings.TrimSpace(counts[0]))
	if err != nil || count < 0 {
		return nil, fmt.Errorf("invalid key count %q for %s", counts[0], username)
	}

	keys := make([]string, 0, count)
	for i := 0; i < count; i++ {
		values, err := c.lookup(ctx, username+"."+strconv.Itoa(i)+".ssh."+domain)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch key %d of %d for %s: %w", i, count, username, err)
		}
		keys = append(keys, values[0])
	}
	return keys, nil
}

// fetchLegacy reads the single key record used before key counts existed.
func (c *Client) fetchLegacy(ctx context.Context, username, domain string) ([]string, error) {
	values, err := c.lookup(ctx, username+".ssh."+domain)
	if errors.Is(err, ErrNotFound) {
		return []string{}, nil
	}
	if err != nil {
		return nil, err
	}
	return values, nil
}

// lookup resolves name under the retry policy.
func (c *Client) lookup(ctx context.Context, name string) ([]string, error) {
	var values []string
	err := c.policy.Do(ctx, func() error {
		v, err := c.resolver.LookupTXT(ctx, name)
		values = v
		return err
	})
	if err != nil {
		return nil, err
	}
	c.log.Debug("Resolved TXT record", zap.String("name", name), zap.Int("answers", len(values)))
	return values, nil
}
