package modules

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"mystic_market/pkg/metrics"
	"mystic_market/pkg/probe"
)

// OpsServer runs the operational listeners next to the API: probes on
// ProbeListenAddress and Prometheus metrics on MetricsListenAddress. Each
// readiness check is reported under its map key.
type OpsServer struct {
	Name                 string
	Version              string
	ProbeListenAddress   string
	MetricsListenAddress string
	Gatherer             prometheus.Gatherer
	Checks               map[string]probe.ReadinessCheck
}

func (o OpsServer) Run(ctx context.Context, g *errgroup.Group) {
	probeServer := probe.NewServer(o.ProbeListenAddress, probe.Options{Name: o.Name, Version: o.Version})
	for name, check := range o.Checks {
		probeServer = probeServer.WithCheck(name, check)
	}

	metricServer := metrics.NewPrometheusServer(o.MetricsListenAddress, o.Gatherer)

	g.Go(func() error {
		if err := probeServer.Run(ctx); err != nil {
			return fmt.Errorf("probeServer.Run: %w", err)
		}

		return nil
	})

	g.Go(func() error {
		if err := metricServer.Run(ctx); err != nil {
			return fmt.Errorf("metricServer.Run: %w", err)
		}

		return nil
	})
}
