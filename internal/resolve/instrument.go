package resolve

import (
	"graph-mapper/internal/access"
	"graph-mapper/internal/metrics"
)

type instrumentedReader struct {
	access.Reader

	metrics *metrics.Collector
}

func (r instrumentedReader) Read(instance any) (any, error) {
	v, err := r.Reader.Read(instance)
	if err != nil {
		r.metrics.RecordFailure(read.String(), r.Info().Capability.String())
	}

	return v, err
}

type instrumentedWriter struct {
	access.Writer

	metrics *metrics.Collector
}

func (w instrumentedWriter) Write(instance any, value any) error {
	err := w.Writer.Write(instance, value)
	if err != nil {
		w.metrics.RecordFailure(write.String(), w.Info().Capability.String())
	}

	return err
}

// instrument counts the failures of accessor a.
func instrument(a any, op operation, c *metrics.Collector) any {
	if op == write {
		if w, ok := a.(access.Writer); ok {
			return instrumentedWriter{Writer: w, metrics: c}
		}

		return a
	}

	if r, ok := a.(access.Reader); ok {
		return instrumentedReader{Reader: r, metrics: c}
	}

	return a
}
