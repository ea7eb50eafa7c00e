package lookup

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
)

// maxBodySize bounds provider responses; a trace body is a few hundred bytes
const maxBodySize = 4096

// HTTPProvider queries a web endpoint that echoes the caller's address
type HTTPProvider struct {
	name      string
	url       string
	format    string
	userAgent string
	client    *http.Client
}

// NewHTTPProvider creates an HTTP provider. format is FormatPlain or FormatTrace.
func NewHTTPProvider(name, url, format string, client *http.Client) *HTTPProvider {
	return &HTTPProvider{name: name, url: url, format: format, client: client}
}

// Name implements Provider
func (p *HTTPProvider) Name() string {
	return p.name
}

// Lookup implements Provider
func (p *HTTPProvider) Lookup(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	if p.userAgent != "" {
		req.Header.Set("User-Agent", p.userAgent)
	}
	req.Header.Set("Accept", "text/plain")

	client := p.client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("provider returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	var ip string
	if p.format == FormatTrace {
		ip = parseTrace(body)
	} else {
		ip = strings.TrimSpace(string(body))
	}

	if net.ParseIP(ip) == nil {
		return "", fmt.Errorf("invalid IP address: %q", ip)
	}

	return ip, nil
}

// parseTrace extracts the ip= line of a cdn-cgi/trace body
func parseTrace(body []byte) string {
	sc := bufio.NewScanner(bytes.NewReader(body))
	for sc.Scan() {
		if v, ok := strings.CutPrefix(strings.TrimSpace(sc.Text()), "ip="); ok {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
