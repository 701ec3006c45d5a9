package monitoring

import (
	"github.com/chocolate-network/ledger/src/utils/monitoring/report"

	"github.com/prometheus/client_golang/prometheus"
)

type Monitor interface {
	GetReport() *report.Report
	GetPrometheusCollector() prometheus.Collector
	IsOK() bool
}
