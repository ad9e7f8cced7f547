package sensitive

import (
	"context"
	"errors"

	"github.com/projectdiscovery/gologger"

	"sensiscan/pkg/core"
	"sensiscan/pkg/net"
)

// FilesProvider probes hosts for well-known sensitive files
type FilesProvider struct {
	client   *net.Client
	keywords []string
}

func NewFilesProvider(client *net.Client) *FilesProvider {
	return &FilesProvider{
		client: client,
	}
}

func (p *FilesProvider) Name() string {
	return "sensitive-files"
}

func (p *FilesProvider) Init(config *core.Config) error {
	if len(config.Keywords) == 0 {
		return errors.New("no keywords configured")
	}
	p.keywords = config.Keywords
	return nil
}

// Keywords returns the paths probed on every host.
func (p *FilesProvider) Keywords() []string {
	return p.keywords
}

func (p *FilesProvider) Generate(ctx context.Context, host string, output chan<- string) {
	for _, kw := range p.keywords {
		select {
		case <-ctx.Done():
			return
		case output <- BuildURL(host, kw):
		}
	}
}

// Check fetches target and validates where it landed. Failures of any kind
// are a miss for this target only.
func (p *FilesProvider) Check(ctx context.Context, target string) (*core.Result, error) {
	resp, err := p.client.Fetch(target)
	if err != nil {
		gologger.Debug().Msgf("%s: %v", target, err)
		return nil, nil
	}
	if !Validate(target, resp.FinalURL, resp.Status) {
		return nil, nil
	}

	return &core.Result{
		URL:      target,
		Host:     HostOf(target),
		Status:   resp.Status,
		FinalURL: resp.FinalURL,
	}, nil
}
