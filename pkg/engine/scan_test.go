package engine

import (
	"context"
	"errors"
	gonet "net"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"testing"

	"github.com/valyala/fasthttp"

	"sensiscan/internal/fakeweb"
	"sensiscan/pkg/core"
	"sensiscan/pkg/net"
)

var errRefused = errors.New("connection refused")

func newTestScanner(t *testing.T, srv *fakeweb.Server) *Scanner {
	t.Helper()
	s, err := NewScanner(core.DefaultConfig(), net.WithDial(srv.Dial))
	if err != nil {
		t.Fatalf("NewScanner: %v", err)
	}
	return s
}

func TestScanSingleFinding(t *testing.T) {
	srv := fakeweb.Start(t, func(ctx *fasthttp.RequestCtx) {
		if string(ctx.Path()) == "/.env" {
			ctx.SetStatusCode(fasthttp.StatusOK)
			return
		}
		ctx.SetStatusCode(fasthttp.StatusNotFound)
	})
	s := newTestScanner(t, srv)

	var noisy []NoisyHost
	s.OnNoisy = func(n NoisyHost) { noisy = append(noisy, n) }

	rep := s.Scan(context.Background(), []string{"example.com"})
	if want := []string{"http://example.com/.env"}; !reflect.DeepEqual(rep.Found, want) {
		t.Errorf("found = %v, want %v", rep.Found, want)
	}
	if len(noisy) != 0 || len(rep.Noisy) != 0 {
		t.Errorf("unexpected noisy hosts %v", noisy)
	}
	if rep.Probes != int64(len(core.DefaultKeywords())) {
		t.Errorf("probes = %d", rep.Probes)
	}
}

func TestScanNoisyHostSuppressed(t *testing.T) {
	srv := fakeweb.Start(t, func(ctx *fasthttp.RequestCtx) {
		ctx.SetStatusCode(fasthttp.StatusOK)
	})
	s := newTestScanner(t, srv)

	var noisy []NoisyHost
	s.OnNoisy = func(n NoisyHost) { noisy = append(noisy, n) }

	rep := s.Scan(context.Background(), []string{"noisy.com"})
	if len(rep.Found) != 0 {
		t.Errorf("found = %v, want none", rep.Found)
	}
	want := []NoisyHost{{Host: "noisy.com", Count: len(core.DefaultKeywords())}}
	if !reflect.DeepEqual(noisy, want) {
		t.Errorf("noisy = %v, want %v", noisy, want)
	}
}

func TestScanCrossHostRedirectIsNegative(t *testing.T) {
	srv := fakeweb.Start(t, func(ctx *fasthttp.RequestCtx) {
		if string(ctx.Host()) == "login.test" {
			ctx.SetStatusCode(fasthttp.StatusOK)
			return
		}
		if string(ctx.Path()) == "/id_rsa" {
			fakeweb.Redirect(ctx, "http://login.test/id_rsa", fasthttp.StatusFound)
			return
		}
		ctx.SetStatusCode(fasthttp.StatusNotFound)
	})
	s := newTestScanner(t, srv)

	rep := s.Scan(context.Background(), []string{"example.com"})
	if len(rep.Found) != 0 {
		t.Errorf("found = %v, want none", rep.Found)
	}
}

func TestScanSameHostRedirects(t *testing.T) {
	srv := fakeweb.Start(t, func(ctx *fasthttp.RequestCtx) {
		switch string(ctx.Path()) {
		case "/.git/config":
			fakeweb.Redirect(ctx, "/.git/config/", fasthttp.StatusMovedPermanently)
		case "/.git/config/":
			ctx.SetStatusCode(fasthttp.StatusOK)
		case "/backup.zip":
			fakeweb.Redirect(ctx, "/login", fasthttp.StatusFound)
		case "/login":
			ctx.SetStatusCode(fasthttp.StatusOK)
		default:
			ctx.SetStatusCode(fasthttp.StatusNotFound)
		}
	})
	s := newTestScanner(t, srv)

	rep := s.Scan(context.Background(), []string{"example.com/"})
	if want := []string{"http://example.com/.git/config"}; !reflect.DeepEqual(rep.Found, want) {
		t.Errorf("found = %v, want %v", rep.Found, want)
	}
}

func TestScanLowercaseLocationHeader(t *testing.T) {
	srv := fakeweb.Start(t, func(ctx *fasthttp.RequestCtx) {
		switch string(ctx.Path()) {
		case "/.git/config":
			ctx.Response.Header.DisableNormalizing()
			ctx.Response.Header.Set("location", "/.git/config/")
			ctx.SetStatusCode(fasthttp.StatusMovedPermanently)
		case "/.git/config/":
			ctx.SetStatusCode(fasthttp.StatusOK)
		default:
			ctx.SetStatusCode(fasthttp.StatusNotFound)
		}
	})
	s := newTestScanner(t, srv)

	rep := s.Scan(context.Background(), []string{"example.com"})
	if want := []string{"http://example.com/.git/config"}; !reflect.DeepEqual(rep.Found, want) {
		t.Errorf("found = %v, want %v", rep.Found, want)
	}
	followed := false
	for _, seen := range srv.Seen() {
		if seen == "example.com/.git/config/" {
			followed = true
		}
	}
	if !followed {
		t.Error("redirect to /.git/config/ was not followed")
	}
}

func TestScanLongSameHostRedirectChain(t *testing.T) {
	srv := fakeweb.Start(t, func(ctx *fasthttp.RequestCtx) {
		path := string(ctx.Path())
		switch {
		case path == "/.env":
			fakeweb.Redirect(ctx, "/.env/1", fasthttp.StatusFound)
		case strings.HasPrefix(path, "/.env/"):
			n, _ := strconv.Atoi(strings.TrimPrefix(path, "/.env/"))
			if n < 25 {
				fakeweb.Redirect(ctx, "/.env/"+strconv.Itoa(n+1), fasthttp.StatusFound)
				return
			}
			ctx.SetStatusCode(fasthttp.StatusOK)
		default:
			ctx.SetStatusCode(fasthttp.StatusNotFound)
		}
	})
	s := newTestScanner(t, srv)

	rep := s.Scan(context.Background(), []string{"example.com"})
	if want := []string{"http://example.com/.env"}; !reflect.DeepEqual(rep.Found, want) {
		t.Errorf("found = %v, want %v", rep.Found, want)
	}
}

func TestScanMultipleHosts(t *testing.T) {
	srv := fakeweb.Start(t, func(ctx *fasthttp.RequestCtx) {
		host := string(ctx.Host())
		path := string(ctx.Path())
		switch {
		case host == "noisy.com":
			ctx.SetStatusCode(fasthttp.StatusOK)
		case host == "a.com" && (path == "/.env" || path == "/id_rsa"):
			ctx.SetStatusCode(fasthttp.StatusOK)
		default:
			ctx.SetStatusCode(fasthttp.StatusNotFound)
		}
	})
	s := newTestScanner(t, srv)

	hosts := []string{"a.com", "noisy.com", "quiet.com"}
	rep := s.Scan(context.Background(), hosts)

	want := []string{"http://a.com/.env", "http://a.com/id_rsa"}
	if !reflect.DeepEqual(rep.Found, want) {
		t.Errorf("found = %v, want %v", rep.Found, want)
	}
	if len(rep.Noisy) != 1 || rep.Noisy[0].Host != "noisy.com" {
		t.Errorf("noisy = %v", rep.Noisy)
	}
	if got, want := len(srv.Seen()), s.Total(hosts); got != want {
		t.Errorf("requests = %d, want %d", got, want)
	}
}

func TestScanIdempotent(t *testing.T) {
	srv := fakeweb.Start(t, func(ctx *fasthttp.RequestCtx) {
		switch string(ctx.Path()) {
		case "/.env", "/config.json", "/.htpasswd":
			ctx.SetStatusCode(fasthttp.StatusOK)
		default:
			ctx.SetStatusCode(fasthttp.StatusNotFound)
		}
	})
	s := newTestScanner(t, srv)
	hosts := []string{"one.test", "two.test"}

	first := s.Scan(context.Background(), hosts).Found
	second := s.Scan(context.Background(), hosts).Found
	sort.Strings(first)
	sort.Strings(second)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("scans differ: %v vs %v", first, second)
	}
	if len(first) != 6 {
		t.Errorf("found %d urls, want 6", len(first))
	}
}

func TestScanUnreachableHost(t *testing.T) {
	cfg := core.DefaultConfig()
	cfg.Timeout = 1
	s, err := NewScanner(cfg, net.WithDial(func(addr string) (gonet.Conn, error) {
		return nil, errRefused
	}))
	if err != nil {
		t.Fatalf("NewScanner: %v", err)
	}

	rep := s.Scan(context.Background(), []string{"down.test"})
	if len(rep.Found) != 0 || len(rep.Noisy) != 0 {
		t.Errorf("report = %+v, want empty", rep)
	}
}

func TestNewScannerRejectsEmptyKeywords(t *testing.T) {
	cfg := core.DefaultConfig()
	cfg.Keywords = nil
	if _, err := NewScanner(cfg); err == nil {
		t.Fatal("expected error")
	}
}

func TestFilterNoisy(t *testing.T) {
	urls := func(host string, n int) []string {
		out := make([]string, n)
		for i := range out {
			out[i] = "http://" + host + "/" + string(rune('a'+i))
		}
		return out
	}
	byHost := map[string][]string{
		"four.test": urls("four.test", 4),
		"five.test": urls("five.test", 5),
		"one.test":  urls("one.test", 1),
		"many.test": urls("many.test", 23),
	}

	found, noisy := FilterNoisy(byHost, 5)

	if len(found) != 5 {
		t.Errorf("kept %d urls, want 5: %v", len(found), found)
	}
	for _, u := range found {
		if strings.Contains(u, "//five.test/") || strings.Contains(u, "//many.test/") {
			t.Errorf("noisy host url kept: %s", u)
		}
	}
	want := []NoisyHost{{Host: "five.test", Count: 5}, {Host: "many.test", Count: 23}}
	if !reflect.DeepEqual(noisy, want) {
		t.Errorf("noisy = %v, want %v", noisy, want)
	}
}
