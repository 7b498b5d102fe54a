package sshkeys

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"hesiod53/core/retry"

	"github.com/miekg/dns"
)

// ErrNotFound is returned by a Resolver when the name has no TXT record.
var ErrNotFound = errors.New("no such record")

// Resolver looks up TXT records. Each returned string is one record with its
// character strings concatenated.
type Resolver interface {
	LookupTXT(ctx context.Context, name string) ([]string, error)
}

// DNSResolver queries a single nameserver over TCP.
type DNSResolver struct {
	client *dns.Client
	server string
}

// NewDNSResolver returns a resolver for cfg.Nameserver, or for the first
// nameserver of /etc/resolv.conf when none is configured.
func NewDNSResolver(cfg Config) (*DNSResolver, error) {
	server := cfg.Nameserver
	if server == "" {
		cc, err := dns.ClientConfigFromFile("/etc/resolv.conf")
		if err != nil {
			return nil, fmt.Errorf("failed to read resolv.conf: %w", err)
		}
		if len(cc.Servers) == 0 {
			return nil, errors.New("no nameserver configured in resolv.conf")
		}
		server = net.JoinHostPort(cc.Servers[0], cc.Port)
	}
	if _, _, err := net.SplitHostPort(server); err != nil {
		server = net.JoinHostPort(server, "53")
	}

	return &DNSResolver{
		client: &dns.Client{Net: "tcp", Timeout: cfg.Timeout()},
		server: server,
	}, nil
}

// LookupTXT implements Resolver. Network failures and server errors are transient.
func (r *DNSResolver) LookupTXT(ctx context.Context, name string) ([]string, error) {
	msg := new(dns.Msg)
	msg.SetQuestion(dns.Fqdn(name), dns.TypeTXT)
	msg.RecursionDesired = true

	in, _, err := r.client.ExchangeContext(ctx, msg, r.server)
	if err != nil {
		return nil, retry.Transient(fmt.Errorf("query %s: %w", name, err))
	}

	switch in.Rcode {
	case dns.RcodeSuccess:
	case dns.RcodeNameError:
		return nil, fmt.Errorf("%s: %w", name, ErrNotFound)
	default:
		return nil, retry.Transient(fmt.Errorf("query %s: %s", name, dns.RcodeToString[in.Rcode]))
	}

	var values []string
	for _, rr := range in.Answer {
		if t, ok := rr.(*dns.TXT); ok {
			values = append(values, strings.Join(t.Txt, ""))
		}
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("%s: %w", name, ErrNotFound)
	}
	return values, nil
}
