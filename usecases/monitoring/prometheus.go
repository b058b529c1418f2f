//                           _       _
// __      _____  __ ___   ___  __ _| |_ ___
// \ \ /\ / / _ \/ _` \ \ / / |/ _` | __/ _ \
//  \ V  V /  __/ (_| |\ V /| | (_| | ||  __/
//   \_/\_/ \___|\__,_| \_/ |_|\__,_|\__\___|
//
//  Copyright © 2016 - 2026 Weaviate B.V. All rights reserved.
//
//  CONTACT: hello@weaviate.io
//

package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusMetrics carries the registerer components use to publish their
// metrics. A nil *PrometheusMetrics disables monitoring entirely; components
// must tolerate it. A holder with a nil Registerer registers against
// NoopRegisterer, keeping the component's counters inert without a second
// code path.
type PrometheusMetrics struct {
	Registerer prometheus.Registerer
}

// NewPrometheusMetrics builds a metrics holder around its own registry, so
// tests and embedders do not collide on the process-wide default.
func NewPrometheusMetrics() *PrometheusMetrics {
	return &PrometheusMetrics{
		Registerer: prometheus.NewRegistry(),
	}
}
