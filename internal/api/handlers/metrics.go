package handlers

import (
	"fmt"
	"net/http"
	"sort"
	"strings"

	"promptqr/internal/pkg/metrics"
)

// MetricsHandler exposes the process counters in the Prometheus text format.
type MetricsHandler struct{}

func NewMetricsHandler() *MetricsHandler {
	return &MetricsHandler{}
}

func (h *MetricsHandler) Export(w http.ResponseWriter, r *http.Request) {
	snapshot := metrics.Snapshot()
	names := make([]string, 0, len(snapshot))
	for name := range snapshot {
		names = append(names, name)
	}
	sort.Strings(names)

	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	fmt.Fprintf(w, "# HELP promptqr_up Is the server up\n")
	fmt.Fprintf(w, "# TYPE promptqr_up gauge\n")
	fmt.Fprintf(w, "promptqr_up 1\n")

	for _, name := range names {
		kind := "gauge"
		if strings.HasSuffix(name, "_total") {
			kind = "counter"
		}
		fmt.Fprintf(w, "# TYPE %s %s\n", name, kind)
		fmt.Fprintf(w, "%s %d\n", name, snapshot[name])
	}
}
