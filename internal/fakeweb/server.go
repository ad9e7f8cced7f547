// Package fakeweb serves virtual hosts from memory so probes can be
// exercised without touching the network.
package fakeweb

import (
	"net"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttputil"
)

// Server is an in-memory fasthttp server that records every request it sees.
type Server struct {
	ln       *fasthttputil.InmemoryListener
	requests atomic.Int64

	mu   sync.Mutex
	seen []string
}

// Start serves handler until the test finishes.
func Start(t testing.TB, handler fasthttp.RequestHandler) *Server {
	t.Helper()
	s := &Server{ln: fasthttputil.NewInmemoryListener()}
	srv := &fasthttp.Server{
		Handler: func(ctx *fasthttp.RequestCtx) {
			s.requests.Add(1)
			s.mu.Lock()
			s.seen = append(s.seen, string(ctx.Host())+string(ctx.Path()))
			s.mu.Unlock()
			handler(ctx)
		},
	}
	go srv.Serve(s.ln) //nolint:errcheck
	t.Cleanup(func() {
		s.ln.Close()
	})
	return s
}

// Dial connects to the server regardless of the requested address.
func (s *Server) Dial(addr string) (net.Conn, error) {
	return s.ln.Dial()
}

// Requests returns the number of requests served so far.
func (s *Server) Requests() int {
	return int(s.requests.Load())
}

// Seen returns host+path of every request served so far.
func (s *Server) Seen() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.seen))
	copy(out, s.seen)
	return out
}

// Redirect answers ctx with a redirect to location.
func Redirect(ctx *fasthttp.RequestCtx, location string, code int) {
	ctx.Response.Header.Set(fasthttp.HeaderLocation, location)
	ctx.SetStatusCode(code)
}

// Close stops accepting connections; later dials fail.
func (s *Server) Close() {
	s.ln.Close()
}
