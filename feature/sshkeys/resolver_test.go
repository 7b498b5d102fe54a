package sshkeys

import (
	"context"
	"errors"
	"net"
	"testing"

	"hesiod53/core/retry"

	"github.com/miekg/dns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// zoneHandler answers TXT queries from a fixed table. Names in servfail get a
// SERVFAIL, names in nodata an empty successful answer, and anything else NXDOMAIN.
type zoneHandler struct {
	txt      map[string][][]string
	nodata   map[string]bool
	servfail map[string]bool
}

func (h *zoneHandler) ServeDNS(w dns.ResponseWriter, r *dns.Msg) {
	m := new(dns.Msg)
	m.SetReply(r)
	name := r.Question[0].Name

	switch {
	case h.servfail[name]:
		m.SetRcode(r, dns.RcodeServerFailure)
	case h.nodata[name]:
	case h.txt[name] != nil:
		for _, strs := range h.txt[name] {
			m.Answer = append(m.Answer, &dns.TXT{
				Hdr: dns.RR_Header{Name: name, Rrtype: dns.TypeTXT, Class: dns.ClassINET, Ttl: 60},
				Txt: strs,
			})
		}
	default:
		m.SetRcode(r, dns.RcodeNameError)
	}

	_ = w.WriteMsg(m)
}

// startServer serves h over TCP on a loopback port and returns its address.
func startServer(t *testing.T, h dns.Handler) string {
	t.Helper()

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	started := make(chan struct{})
	srv := &dns.Server{Listener: l, Handler: h, NotifyStartedFunc: func() { close(started) }}
	go func() { _ = srv.ActivateAndServe() }()
	<-started
	t.Cleanup(func() { _ = srv.Shutdown() })

	return l.Addr().String()
}

func newTestResolver(t *testing.T, h dns.Handler) *DNSResolver {
	t.Helper()
	r, err := NewDNSResolver(Config{Nameserver: startServer(t, h), TimeoutSeconds: 2})
	require.NoError(t, err)
	return r
}

func TestDNSResolver_LookupTXT(t *testing.T) {
	r := newTestResolver(t, &zoneHandler{txt: map[string][][]string{
		"alice.count.ssh.hs.example.com.": {{"2"}},
		"alice.0.ssh.hs.example.com.":     {{"ssh-rsa AAAA", "BBBB alice@host"}},
	}})

	values, err := r.LookupTXT(context.Background(), "alice.count.ssh.hs.example.com")
	require.NoError(t, err)
	assert.Equal(t, []string{"2"}, values)

	values, err = r.LookupTXT(context.Background(), "alice.0.ssh.hs.example.com.")
	require.NoError(t, err)
	assert.Equal(t, []string{"ssh-rsa AAAABBBB alice@host"}, values)
}

func TestDNSResolver_LookupTXT_NotFound(t *testing.T) {
	r := newTestResolver(t, &zoneHandler{nodata: map[string]bool{"nodata.ssh.hs.example.com.": true}})

	tests := []struct {
		name  string
		query string
	}{
		{"NXDOMAIN", "missing.ssh.hs.example.com"},
		{"NODATA", "nodata.ssh.hs.example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.LookupTXT(context.Background(), tt.query)
			assert.ErrorIs(t, err, ErrNotFound)
			assert.False(t, retry.IsTransient(err))
		})
	}
}

func TestDNSResolver_LookupTXT_ServerFailureIsTransient(t *testing.T) {
	r := newTestResolver(t, &zoneHandler{servfail: map[string]bool{"alice.count.ssh.hs.example.com.": true}})

	_, err := r.LookupTXT(context.Background(), "alice.count.ssh.hs.example.com")
	require.Error(t, err)
	assert.True(t, retry.IsTransient(err))
	assert.False(t, errors.Is(err, ErrNotFound))
}

func TestDNSResolver_LookupTXT_ConnectionErrorIsTransient(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())

	r, err := NewDNSResolver(Config{Nameserver: addr, TimeoutSeconds: 1})
	require.NoError(t, err)

	_, err = r.LookupTXT(context.Background(), "alice.count.ssh.hs.example.com")
	require.Error(t, err)
	assert.True(t, retry.IsTransient(err))
}

func TestNewDNSResolver_DefaultPort(t *testing.T) {
	r, err := NewDNSResolver(Config{Nameserver: "192.0.2.53", TimeoutSeconds: 1})
	require.NoError(t, err)
	assert.Equal(t, "192.0.2.53:53", r.server)
	assert.Equal(t, "tcp", r.client.Net)
}

func TestClient_Fetch_OverDNS(t *testing.T) {
	r := newTestResolver(t, &zoneHandler{txt: map[string][][]string{
		"alice.count.ssh.hs.example.com.": {{"1"}},
		"alice.0.ssh.hs.example.com.":     {{"ssh-ed25519 AAAA alice@laptop"}},
	}})

	keys, err := NewClient(r, Config{Tries: 1}, nil).Fetch(context.Background(), "alice", "hs.example.com")
	require.NoError(t, err)
	assert.Equal(t, []string{"ssh-ed25519 AAAA alice@laptop"}, keys)
}
