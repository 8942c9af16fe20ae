package cmd

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/docker/go-units"
	"github.com/gosuri/uitable"
	dto "github.com/prometheus/client_model/go"
)

// report the storage metrics collected by the command, and cache statistics
func (s *cliStores) report(w io.Writer) error {
	families, err := s.registry.Gather()
	if err != nil {
		return err
	}

	table := uitable.New()
	table.AddRow("METRIC", "LABELS", "VALUE")
	for _, family := range families {
		for _, m := range family.GetMetric() {
			table.AddRow(family.GetName(), formatLabels(m.GetLabel()), formatValue(family.GetType(), m))
		}
	}

	if s.cache != nil {
		objects, size, hits, misses := s.cache.Stats()
		table.AddRow("cache_objects", "", objects)
		table.AddRow("cache_size", "", units.HumanSize(float64(size)))
		table.AddRow("cache_hits", "", hits)
		table.AddRow("cache_misses", "", misses)
	}

	_, err = fmt.Fprintln(w, table)
	return err
}

func formatLabels(pairs []*dto.LabelPair) string {
	labels := make([]string, 0, len(pairs))
	for _, p := range pairs {
		labels = append(labels, p.GetName()+"="+p.GetValue())
	}
	sort.Strings(labels)
	return strings.Join(labels, ",")
}

func formatValue(t dto.MetricType, m *dto.Metric) string {
	switch t {
	case dto.MetricType_COUNTER:
		return fmt.Sprintf("%g", m.GetCounter().GetValue())
	case dto.MetricType_GAUGE:
		return fmt.Sprintf("%g", m.GetGauge().GetValue())
	case dto.MetricType_HISTOGRAM:
		h := m.GetHistogram()
		return fmt.Sprintf("count=%d sum=%.6fs", h.GetSampleCount(), h.GetSampleSum())
	default:
		return ""
	}
}
