package charcountd

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

// unknownMethod keeps the method label bounded for unregistered names.
const unknownMethod = "_unknown"

var (
	metricsRegistry = prometheus.NewRegistry()

	httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "charcountd_http_requests_total",
		Help: "HTTP requests handled, by path and status code.",
	}, []string{"path", "status"})

	rpcCallsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "charcountd_rpc_calls_total",
		Help: "RPC calls dispatched, by method and outcome.",
	}, []string{"method", "outcome"})
)

func init() {
	metricsRegistry.MustRegister(httpRequestsTotal, rpcCallsTotal)
}

func observeHTTP(path string, status int) {
	httpRequestsTotal.WithLabelValues(path, strconv.Itoa(status)).Inc()
}

func observeRPC(method, outcome string) {
	rpcCallsTotal.WithLabelValues(method, outcome).Inc()
}

// MetricsHandler serves the prometheus registry on a fasthttp route.
func MetricsHandler() fasthttp.RequestHandler {
	return fasthttpadaptor.NewFastHTTPHandler(
		promhttp.HandlerFor(metricsRegistry, promhttp.HandlerOpts{}))
}
