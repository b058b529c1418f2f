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

package journal

import (
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/weaviate/sproutfs/usecases/monitoring"
)

type Metrics struct {
	monitoring bool

	truncatedReads prometheus.Counter
}

func NewMetrics(prom *monitoring.PrometheusMetrics) (*Metrics, error) {
	m := &Metrics{}

	if prom == nil {
		return m, nil
	}
	m.monitoring = true

	// A holder without a registerer keeps the counters inert rather than
	// leaking them into the process-wide default registry.
	if prom.Registerer == nil {
		prom.Registerer = monitoring.NoopRegisterer
	}

	var err error

	m.truncatedReads, err = newCounter(prom.Registerer,
		"journal_truncated_reads", "Count of range reads extending past what the journal still remembers")
	if err != nil {
		return nil, err
	}

	// Add 0 so that the counter is published before the first truncated
	// read happens.
	m.truncatedReads.Add(0)

	return m, nil
}

// TruncatedRead counts one range read that reported truncation.
func (m *Metrics) TruncatedRead() {
	if m == nil || !m.monitoring {
		return
	}

	m.truncatedReads.Inc()
}

func newCounter(reg prometheus.Registerer, name, help string) (prometheus.Counter, error) {
	c := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "sproutfs",
		Name:      name,
		Help:      help,
	})
	if err := reg.Register(c); err != nil {
		var e prometheus.AlreadyRegisteredError
		if errors.As(err, &e) {
			if counter, ok := e.ExistingCollector.(prometheus.Counter); ok {
				return counter, nil
			}
			return nil, fmt.Errorf("metric %s already registered but not as a Counter", name)
		}
		return nil, err
	}
	return c, nil
}
