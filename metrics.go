package tombset

import (
	"fmt"
	"slices"

	"github.com/VictoriaMetrics/metrics"
)

type instruments struct {
	applied    *metrics.Counter
	deferred   *metrics.Counter
	rejected   *metrics.Counter
	duplicates *metrics.Counter

	deleted *metrics.Counter
	missed  *metrics.Counter

	drains   *metrics.Counter
	cleanups *metrics.Counter

	batch *metrics.Histogram
}

func metricName(name, set string, labels ...string) string {
	s := fmt.Sprintf("tombset_%s{set=%q", name, set)
	for i := 0; i+1 < len(labels); i += 2 {
		s += fmt.Sprintf(",%s=%q", labels[i], labels[i+1])
	}

	return s + "}"
}

// newInstruments registers the set's metrics in ms. Two sets sharing a name
// and a metrics.Set add up their counters, but the gauges keep reading the
// set registered first.
func newInstruments(ms *metrics.Set, ss *SortedSet) *instruments {
	name := ss.name

	if slices.Contains(ms.ListMetricNames(), metricName("capacity", name)) {
		ss.logger.Warn().Msg("metrics set already has a set with this name, gauges report the other one")
	}

	ms.GetOrCreateGauge(metricName("pending", name), func() float64 {
		return float64(ss.staging.len())
	})
	ms.GetOrCreateGauge(metricName("available", name), func() float64 {
		return float64(ss.admission.available())
	})
	ms.GetOrCreateGauge(metricName("capacity", name), func() float64 {
		return float64(ss.store.len())
	})

	return &instruments{
		applied:    ms.GetOrCreateCounter(metricName("inserts_total", name, "outcome", Applied.String())),
		deferred:   ms.GetOrCreateCounter(metricName("inserts_total", name, "outcome", Deferred.String())),
		rejected:   ms.GetOrCreateCounter(metricName("inserts_total", name, "outcome", Rejected.String())),
		duplicates: ms.GetOrCreateCounter(metricName("duplicates_total", name)),
		deleted:    ms.GetOrCreateCounter(metricName("deletes_total", name, "result", "deleted")),
		missed:     ms.GetOrCreateCounter(metricName("deletes_total", name, "result", "missed")),
		drains:     ms.GetOrCreateCounter(metricName("drain_passes_total", name)),
		cleanups:   ms.GetOrCreateCounter(metricName("cleanups_total", name)),
		batch:      ms.GetOrCreateHistogram(metricName("drain_batch_size", name)),
	}
}

func (m *instruments) inserted(o Outcome) {
	switch o {
	case Applied:
		m.applied.Inc()
	case Deferred:
		m.deferred.Inc()
	default:
		m.rejected.Inc()
	}
}
