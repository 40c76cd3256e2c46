// Package middleware provides observability for pagewire servers.
//
// This package includes:
//   - Prometheus metrics for page visits, version mismatches and redirects
//   - OpenTelemetry tracing of every request with its protocol classification
//
// # Prometheus Metrics
//
// Metrics implements server.Observer, so Pages reports to it directly, and
// its Handler counts every request by kind and status:
//   - pagewire_visits_total{kind}: page responses by kind (bare, full, partial)
//   - pagewire_render_duration_seconds{kind}: time spent in Render
//   - pagewire_version_mismatches_total: stale visits sent to a hard navigation
//   - pagewire_redirects_total{status}: redirects by status code
//   - pagewire_requests_total{kind,code}: all requests behind Handler
//
// Wire it into Pages and expose it:
//
//	m := middleware.NewMetrics(middleware.WithRegistry(reg))
//	pages, _ := server.New(server.Config{Adapter: "react", Observer: m})
//	http.Handle("/", m.Handler(pages.Handler(app)))
//	http.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
//
// # OpenTelemetry
//
// OpenTelemetry starts a server span per request, named pagewire.visit for
// protocol visits and pagewire.load for first loads, and stores it in the
// request context so handlers and outgoing calls join the trace:
//
//	r.Use(middleware.OpenTelemetry(middleware.WithTracerName("my-app")))
//
// The tracer comes from the global provider; configure it with
// otel.SetTracerProvider before serving.
package middleware
