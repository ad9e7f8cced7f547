package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/projectdiscovery/gologger"
	"github.com/projectdiscovery/gologger/levels"
	"github.com/schollz/progressbar/v3"

	"sensiscan/pkg/config"
	"sensiscan/pkg/core"
	"sensiscan/pkg/engine"
	"sensiscan/pkg/loader"
	"sensiscan/pkg/net"
	"sensiscan/pkg/output"
	"sensiscan/pkg/providers/osint"
)

type options struct {
	configPath string
	inputFile  string
	threads    int
	timeout    int
	domain     string
	noColor    bool
	silent     bool
	verbose    bool

	clientOpts []net.Option
}

func main() {
	opts := &options{}
	defaults := core.DefaultConfig()

	flag.StringVar(&opts.configPath, "config", "", "YAML config file (optional)")
	flag.StringVar(&opts.inputFile, "l", defaults.InputFile, "File with one subdomain per line")
	flag.IntVar(&opts.threads, "c", defaults.Threads, "Number of concurrent workers")
	flag.IntVar(&opts.timeout, "timeout", defaults.Timeout, "Request timeout in seconds")
	flag.StringVar(&opts.domain, "d", "", "Also probe subdomains of this domain found via crt.sh")
	flag.BoolVar(&opts.noColor, "no-color", false, "Disable coloured output")
	flag.BoolVar(&opts.silent, "silent", false, "Hide the progress bar")
	flag.BoolVar(&opts.verbose, "v", false, "Print debug diagnostics to stderr")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "sensiscan - probe subdomains for exposed sensitive files.\n\n")
		fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if opts.verbose {
		gologger.DefaultLogger.SetMaxLevel(levels.LevelDebug)
	}
	if opts.noColor {
		color.NoColor = true
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		gologger.Fatal().Msgf("%v", err)
	}
	applyFlags(cfg, opts)
	if err := config.Validate(cfg); err != nil {
		gologger.Fatal().Msgf("invalid options: %v", err)
	}

	console := output.NewConsole(os.Stdout)
	if err := run(context.Background(), cfg, opts, console); err != nil {
		gologger.Error().Msgf("%v", err)
	}
}

// applyFlags copies explicitly set flags over the loaded config.
func applyFlags(cfg *core.Config, opts *options) {
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "l":
			cfg.InputFile = opts.inputFile
		case "c":
			cfg.Threads = opts.threads
		case "timeout":
			cfg.Timeout = opts.timeout
		}
	})
}

func run(ctx context.Context, cfg *core.Config, opts *options, console *output.Console) error {
	hosts, err := loader.ReadHosts(cfg.InputFile)
	switch {
	case errors.Is(err, os.ErrNotExist) && opts.domain == "":
		console.FileNotFound(cfg.InputFile)
		return nil
	case errors.Is(err, os.ErrNotExist):
		gologger.Debug().Msgf("%s not found, using crt.sh names only", cfg.InputFile)
	case err != nil:
		return fmt.Errorf("read targets: %w", err)
	}

	scanner, err := engine.NewScanner(cfg, opts.clientOpts...)
	if err != nil {
		return err
	}

	if opts.domain != "" {
		names, err := osint.NewCrtSh(scanner.Client()).Subdomains(ctx, opts.domain)
		if err != nil {
			gologger.Warning().Msgf("subdomain enumeration failed: %v", err)
		} else {
			gologger.Info().Msgf("crt.sh returned %d names for %s", len(names), opts.domain)
			hosts = loader.Merge(hosts, names...)
		}
	}

	console.Analyzing(len(hosts))

	var bar *progressbar.ProgressBar
	if !opts.silent && len(hosts) > 0 {
		bar = newProgressBar(scanner.Total(hosts), os.Stderr)
		scanner.OnCheck = func() { _ = bar.Add(1) }
	}
	scanner.OnNoisy = func(n engine.NoisyHost) {
		console.TooMany(n.Host, n.Count)
	}

	start := time.Now()
	report := scanner.Scan(ctx, hosts)
	if bar != nil {
		_ = bar.Finish()
	}
	gologger.Debug().Msgf("%d probes in %s", report.Probes, time.Since(start).Round(time.Millisecond))

	if len(report.Found) == 0 {
		console.NoneFound()
		return nil
	}
	for _, u := range report.Found {
		console.Found(u)
	}
	return nil
}

func newProgressBar(total int, w io.Writer) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetDescription("[cyan]Probing...[reset]"),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))
}
