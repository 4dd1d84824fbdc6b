// Package proxy builds HTTP clients that dial through a SOCKS5 proxy.
package proxy

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/proxy"
)

const defaultTimeout = 120 * time.Second

// NewSocksClient returns an HTTP client whose connections go through socksAddr.
// The address may be "host:port" or a socks5:// URL with optional credentials.
func NewSocksClient(socksAddr string) (*http.Client, error) {
	addr, auth, err := parseAddr(socksAddr)
	if err != nil {
		return nil, err
	}

	dialer, err := proxy.SOCKS5("tcp", addr, auth, proxy.Direct)
	if err != nil {
		return nil, err
	}

	transport := &http.Transport{
		DialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
			if cd, ok := dialer.(proxy.ContextDialer); ok {
				return cd.DialContext(ctx, network, addr)
			}
			return dialer.Dial(network, addr)
		},
	}

	return &http.Client{
		Transport: transport,
		Timeout:   defaultTimeout,
	}, nil
}

func parseAddr(raw string) (string, *proxy.Auth, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", nil, errors.New("empty proxy address")
	}
	if !strings.Contains(raw, "://") {
		return raw, nil, nil
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", nil, err
	}
	if u.Scheme != "socks5" && u.Scheme != "socks5h" {
		return "", nil, errors.New("unsupported proxy scheme " + u.Scheme)
	}
	if u.Host == "" {
		return "", nil, errors.New("proxy address has no host")
	}

	var auth *proxy.Auth
	if u.User != nil {
		password, _ := u.User.Password()
		auth = &proxy.Auth{User: u.User.Username(), Password: password}
	}
	return u.Host, auth, nil
}
