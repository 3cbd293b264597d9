package metrics

import (
	"github.com/x-xyz/saleengine/base/log"
)

// LogClient writes metrics to the debug log, used when no datadog agent is configured
type LogClient struct{}

func (lc *LogClient) Gauge(name string, value float64, tags []string, rate float64) error {
	log.Log().WithFields(log.Fields{"key": name, "val": value, "tags": tags}).Debug("metric gauge")
	return nil
}

func (lc *LogClient) Count(name string, value int64, tags []string, rate float64) error {
	log.Log().WithFields(log.Fields{"key": name, "val": value, "tags": tags}).Debug("metric count")
	return nil
}

func (lc *LogClient) Histogram(name string, value float64, tags []string, rate float64) error {
	log.Log().WithFields(log.Fields{"key": name, "val": value, "tags": tags}).Debug("metric histogram")
	return nil
}

func (lc *LogClient) TimeInMilliseconds(name string, value float64, tags []string, rate float64) error {
	log.Log().WithFields(log.Fields{"key": name, "time_ms": value, "tags": tags}).Debug("metric time")
	return nil
}
