/*
Package observability turns store hooks into Prometheus metrics and
structured log lines.

	m := observability.NewMetrics(prometheus.DefaultRegisterer)
	s, err := store.New(ctx, repo, store.WithHooks(observability.Combine(
		m.Hooks(),
		observability.LogHooks(logger),
	)))
*/
package observability
