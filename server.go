package charcountd

import (
	"context"
	"net"
	"time"

	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"
)

// Application owns the listener and the HTTP server around the RPC core.
// The listener is bound at build time so a configuration with port 0 gets
// a real port before Run is called.
type Application struct {
	cfg     Config
	log     zerolog.Logger
	api     *APIServer
	srv     *fasthttp.Server
	ln      net.Listener
	metrics fasthttp.RequestHandler
}

// NewApplication builds the router for the given configuration, registers
// the RPC services and binds the listener.
func NewApplication(cfg Config, log zerolog.Logger) (*Application, error) {
	app := &Application{
		cfg:     cfg,
		log:     log,
		api:     NewServer(),
		metrics: MetricsHandler(),
	}
	if err := app.api.RegisterService(new(TextAPI), ""); err != nil {
		return nil, err
	}

	handler := app.route
	if limiter := newKeyLimiter(cfg.RateLimit.Rps, cfg.RateLimit.Burst, 0); limiter != nil {
		handler = RateLimit(limiter, handler)
	}
	handler = AccessLog(log, handler)

	app.srv = &fasthttp.Server{
		Name:               "charcountd",
		Handler:            handler,
		MaxRequestBodySize: cfg.Application.MaxBodyBytes,
		ReadTimeout:        5 * time.Second,
		WriteTimeout:       5 * time.Second,
	}

	ln, err := net.Listen("tcp", cfg.Addr())
	if err != nil {
		return nil, err
	}
	app.ln = ln
	return app, nil
}

// API exposes the RPC server so additional services can be registered
// before Run.
func (app *Application) API() *APIServer {
	return app.api
}

// Port returns the bound listener port.
func (app *Application) Port() int {
	return app.ln.Addr().(*net.TCPAddr).Port
}

// Run serves until the context is cancelled, then shuts down gracefully.
func (app *Application) Run(ctx context.Context) error {
	app.log.Info().
		Str("addr", app.ln.Addr().String()).
		Str("base_url", app.cfg.Application.BaseURL).
		Strs("methods", app.api.Methods()).
		Msg("listening")

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.srv.Serve(app.ln)
	}()

	select {
	case <-ctx.Done():
		if err := app.srv.Shutdown(); err != nil {
			return err
		}
		return <-errCh
	case err := <-errCh:
		return err
	}
}

func (app *Application) route(ctx *fasthttp.RequestCtx) {
	switch string(ctx.Path()) {
	case "/":
		if !ctx.IsPost() {
			ctx.Error("method not allowed", fasthttp.StatusMethodNotAllowed)
			return
		}
		app.api.APIHandler(ctx)
	case "/health_check":
		if !ctx.IsGet() {
			ctx.Error("method not allowed", fasthttp.StatusMethodNotAllowed)
			return
		}
		ctx.SetStatusCode(fasthttp.StatusOK)
	case "/metrics":
		if !ctx.IsGet() {
			ctx.Error("method not allowed", fasthttp.StatusMethodNotAllowed)
			return
		}
		app.metrics(ctx)
	default:
		ctx.Error("Unsupported path", fasthttp.StatusNotFound)
	}
}
