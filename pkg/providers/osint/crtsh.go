package osint

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"sensiscan/pkg/net"
)

const defaultEndpoint = "https://crt.sh/"

// CrtSh enumerates subdomains from certificate transparency logs
type CrtSh struct {
	client   *net.Client
	Endpoint string
}

func NewCrtSh(client *net.Client) *CrtSh {
	return &CrtSh{
		client:   client,
		Endpoint: defaultEndpoint,
	}
}

type crtShEntry struct {
	NameValue string `json:"name_value"`
}

// Subdomains returns every distinct name under domain (domain included)
// found in certificates logged for it, sorted.
func (p *CrtSh) Subdomains(ctx context.Context, domain string) ([]string, error) {
	domain = strings.ToLower(strings.TrimSuffix(strings.TrimSpace(domain), "."))
	if domain == "" {
		return nil, fmt.Errorf("empty domain")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("q", "%."+domain)
	query.Set("output", "json")

	body, err := p.client.GetBody(p.Endpoint + "?" + query.Encode())
	if err != nil {
		return nil, fmt.Errorf("crt.sh query for %s: %w", domain, err)
	}

	var entries []crtShEntry
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("decode crt.sh response: %w", err)
	}

	return collectNames(entries, domain), nil
}

func collectNames(entries []crtShEntry, domain string) []string {
	seen := make(map[string]bool)
	var names []string
	for _, e := range entries {
		// Split multi-value certs
		for _, name := range strings.Split(e.NameValue, "\n") {
			name = strings.ToLower(strings.TrimSpace(name))
			name = strings.TrimPrefix(name, "*.")
			if name == "" || seen[name] {
				continue
			}
			if name != domain && !strings.HasSuffix(name, "."+domain) {
				continue
			}
			seen[name] = true
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}
