package charcountd

import (
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"
)

// AccessLog wraps every request with a log entry carrying a generated
// request id, and feeds the request counter. The wrapped handlers are
// unaffected by its presence.
func AccessLog(log zerolog.Logger, next fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		started := time.Now()
		requestID := uuid.NewString()
		ctx.Response.Header.Set("X-Request-Id", requestID)

		next(ctx)

		status := ctx.Response.StatusCode()
		observeHTTP(string(ctx.Path()), status)
		log.Info().
			Str("request_id", requestID).
			Str("method", string(ctx.Method())).
			Str("path", string(ctx.Path())).
			Int("status", status).
			Dur("elapsed", time.Since(started)).
			Msg("request")
	}
}

// RateLimit rejects requests whose remote IP has exhausted its token
// bucket. A nil limiter passes everything through.
func RateLimit(limiter *keyLimiter, next fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		if !limiter.Allow(ctx.RemoteIP().String(), time.Now()) {
			ctx.Error("too many requests", fasthttp.StatusTooManyRequests)
			return
		}
		next(ctx)
	}
}
