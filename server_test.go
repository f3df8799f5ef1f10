package charcountd

import (
	"net"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"
)

func newTestApplication(t *testing.T, cfg Config) *Application {
	t.Helper()
	cfg.Application.Host = "127.0.0.1"
	cfg.Application.Port = 0
	app, err := NewApplication(cfg, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { app.ln.Close() })
	return app
}

func serve(t *testing.T, app *Application, method, path, body string) *fasthttp.RequestCtx {
	t.Helper()
	var req fasthttp.Request
	req.Header.SetMethod(method)
	req.SetRequestURI(path)
	if body != "" {
		req.Header.SetContentType("application/json")
		req.SetBodyString(body)
	}
	ctx := new(fasthttp.RequestCtx)
	ctx.Init(&req, &net.TCPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 40000}, nil)
	app.srv.Handler(ctx)
	return ctx
}

func TestEndToEndScenario(t *testing.T) {
	app := newTestApplication(t, DefaultConfig())

	body := `{"id":"00000000-0000-0000-0000-000000000000","jsonrpc":"2.0","method":"char_count","params":{"some_string":" Oliver "}}`
	ctx := serve(t, app, fasthttp.MethodPost, "/", body)

	if ctx.Response.StatusCode() != fasthttp.StatusOK {
		t.Fatalf("status = %d, want 200", ctx.Response.StatusCode())
	}
	want := `{"id":"00000000-0000-0000-0000-000000000000","jsonrpc":"2.0","result":{"count":6}}`
	if got := string(ctx.Response.Body()); got != want {
		t.Errorf("body = %s, want %s", got, want)
	}
}

func TestHealthCheck(t *testing.T) {
	app := newTestApplication(t, DefaultConfig())

	ctx := serve(t, app, fasthttp.MethodGet, "/health_check", "")
	if ctx.Response.StatusCode() != fasthttp.StatusOK {
		t.Errorf("status = %d, want 200", ctx.Response.StatusCode())
	}
	if len(ctx.Response.Body()) != 0 {
		t.Errorf("body = %q, want empty", ctx.Response.Body())
	}
	if id := ctx.Response.Header.Peek("X-Request-Id"); len(id) == 0 {
		t.Error("X-Request-Id header missing")
	}
}

func TestRouteErrors(t *testing.T) {
	app := newTestApplication(t, DefaultConfig())

	if ctx := serve(t, app, fasthttp.MethodGet, "/", ""); ctx.Response.StatusCode() != fasthttp.StatusMethodNotAllowed {
		t.Errorf("GET /: status = %d, want 405", ctx.Response.StatusCode())
	}
	if ctx := serve(t, app, fasthttp.MethodPost, "/health_check", ""); ctx.Response.StatusCode() != fasthttp.StatusMethodNotAllowed {
		t.Errorf("POST /health_check: status = %d, want 405", ctx.Response.StatusCode())
	}
	if ctx := serve(t, app, fasthttp.MethodGet, "/nope", ""); ctx.Response.StatusCode() != fasthttp.StatusNotFound {
		t.Errorf("GET /nope: status = %d, want 404", ctx.Response.StatusCode())
	}
}

func TestMetricsEndpoint(t *testing.T) {
	app := newTestApplication(t, DefaultConfig())

	observeHTTP("/test", fasthttp.StatusOK)
	ctx := serve(t, app, fasthttp.MethodGet, "/metrics", "")
	if ctx.Response.StatusCode() != fasthttp.StatusOK {
		t.Fatalf("status = %d, want 200", ctx.Response.StatusCode())
	}
	if !strings.Contains(string(ctx.Response.Body()), "charcountd_http_requests_total") {
		t.Error("metrics output missing request counter")
	}
}

func TestPortIsBoundAtBuildTime(t *testing.T) {
	app := newTestApplication(t, DefaultConfig())
	if app.Port() == 0 {
		t.Error("Port() = 0, want a bound port")
	}
}

func TestRateLimitedApplication(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RateLimit = RateLimitConfig{Rps: 0.001, Burst: 2}
	app := newTestApplication(t, cfg)

	body := `{"id":"1","jsonrpc":"2.0","method":"char_count","params":{"some_string":"a"}}`
	for i := 0; i < 2; i++ {
		if ctx := serve(t, app, fasthttp.MethodPost, "/", body); ctx.Response.StatusCode() != fasthttp.StatusOK {
			t.Fatalf("request %d: status = %d, want 200", i, ctx.Response.StatusCode())
		}
	}
	if ctx := serve(t, app, fasthttp.MethodPost, "/", body); ctx.Response.StatusCode() != fasthttp.StatusTooManyRequests {
		t.Errorf("status = %d, want 429", ctx.Response.StatusCode())
	}
}
