package engine

import (
	"context"
	"fmt"
	"sort"

	"github.com/projectdiscovery/gologger"

	"sensiscan/pkg/core"
	"sensiscan/pkg/net"
	"sensiscan/pkg/providers/sensitive"
)

// NoisyHost is a host whose hit count reached the noise threshold.
type NoisyHost struct {
	Host  string
	Count int
}

// Report is the outcome of a scan after noise filtering.
type Report struct {
	Found  []string
	Noisy  []NoisyHost
	Probes int64
}

// Scanner probes hosts for sensitive files and filters noisy hosts.
type Scanner struct {
	config   *core.Config
	client   *net.Client
	provider *sensitive.FilesProvider

	// OnNoisy is called once per suppressed host.
	OnNoisy func(NoisyHost)
	// OnCheck is called after every completed probe.
	OnCheck func()
}

// NewScanner builds a scanner whose HTTP client follows config.
// Extra client options are applied after the config-derived ones.
func NewScanner(config *core.Config, opts ...net.Option) (*Scanner, error) {
	clientOpts := []net.Option{
		net.WithMaxRedirects(config.MaxRedirects),
		net.WithUserAgent(config.UserAgent),
	}
	client := net.NewClient(config.Timeout, append(clientOpts, opts...)...)

	provider := sensitive.NewFilesProvider(client)
	if err := provider.Init(config); err != nil {
		return nil, fmt.Errorf("init %s: %w", provider.Name(), err)
	}

	return &Scanner{
		config:   config,
		client:   client,
		provider: provider,
	}, nil
}

// Client returns the HTTP client shared by every probe.
func (s *Scanner) Client() *net.Client {
	return s.client
}

// Total returns the number of probes a scan of hosts will issue.
func (s *Scanner) Total(hosts []string) int {
	return len(hosts) * len(s.provider.Keywords())
}

// Scan probes every (host, keyword) pair and blocks until all probes finish.
func (s *Scanner) Scan(ctx context.Context, hosts []string) *Report {
	runner := NewRunner(s.config, []core.Provider{s.provider})
	runner.OnCheck = s.OnCheck

	byHost := make(map[string][]string)
	for res := range runner.Start(ctx, hosts) {
		byHost[res.Host] = append(byHost[res.Host], res.URL)
	}
	gologger.Debug().Msgf("%d probes done, %d hosts with hits", runner.Dispatched(), len(byHost))

	found, noisy := FilterNoisy(byHost, s.config.NoiseThreshold)
	for _, n := range noisy {
		if s.OnNoisy != nil {
			s.OnNoisy(n)
		}
	}

	return &Report{
		Found:  found,
		Noisy:  noisy,
		Probes: runner.Dispatched(),
	}
}

// FilterNoisy drops every host with threshold or more hits. Kept URLs are
// returned sorted; noisy hosts are sorted by name.
func FilterNoisy(byHost map[string][]string, threshold int) ([]string, []NoisyHost) {
	var found []string
	var noisy []NoisyHost
	for host, urls := range byHost {
		if len(urls) >= threshold {
			noisy = append(noisy, NoisyHost{Host: host, Count: len(urls)})
			continue
		}
		found = append(found, urls...)
	}
	sort.Strings(found)
	sort.Slice(noisy, func(i, j int) bool { return noisy[i].Host < noisy[j].Host })
	return found, noisy
}
