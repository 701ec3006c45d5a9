package monitor_ledger

import (
	"github.com/prometheus/client_golang/prometheus"
)

type Collector struct {
	monitor *Monitor

	StartTimestamp                  *prometheus.Desc
	UpForSeconds                    *prometheus.Desc
	ProjectsCreated                 *prometheus.Desc
	ReviewsCreated                  *prometheus.Desc
	ReviewsAccepted                 *prometheus.Desc
	ProjectsAccepted                *prometheus.Desc
	Mints                           *prometheus.Desc
	RewardsPaid                     *prometheus.Desc
	AverageReviewsAcceptedPerMinute *prometheus.Desc

	NotFoundErrors          *prometheus.Desc
	PreconditionErrors      *prometheus.Desc
	InsufficientFundsErrors *prometheus.Desc
	InconsistencyErrors     *prometheus.Desc
	ArithmeticErrors        *prometheus.Desc
	CapacityErrors          *prometheus.Desc
	DbStoreErrors           *prometheus.Desc
	RedisPublishErrors      *prometheus.Desc
}

func NewCollector() *Collector {
	labels := prometheus.Labels{
		"app": "ledger",
	}

	return &Collector{
		StartTimestamp:                  prometheus.NewDesc("start_timestamp", "", nil, labels),
		UpForSeconds:                    prometheus.NewDesc("up_for_seconds", "", nil, labels),
		ProjectsCreated:                 prometheus.NewDesc("projects_created", "", nil, labels),
		ReviewsCreated:                  prometheus.NewDesc("reviews_created", "", nil, labels),
		ReviewsAccepted:                 prometheus.NewDesc("reviews_accepted", "", nil, labels),
		ProjectsAccepted:                prometheus.NewDesc("projects_accepted", "", nil, labels),
		Mints:                           prometheus.NewDesc("mints", "", nil, labels),
		RewardsPaid:                     prometheus.NewDesc("rewards_paid", "", nil, labels),
		AverageReviewsAcceptedPerMinute: prometheus.NewDesc("average_reviews_accepted_per_minute", "", nil, labels),

		// Errors
		NotFoundErrors:          prometheus.NewDesc("error_not_found", "", nil, labels),
		PreconditionErrors:      prometheus.NewDesc("error_precondition", "", nil, labels),
		InsufficientFundsErrors: prometheus.NewDesc("error_insufficient_funds", "", nil, labels),
		InconsistencyErrors:     prometheus.NewDesc("error_inconsistency", "", nil, labels),
		ArithmeticErrors:        prometheus.NewDesc("error_arithmetic", "", nil, labels),
		CapacityErrors:          prometheus.NewDesc("error_capacity", "", nil, labels),
		DbStoreErrors:           prometheus.NewDesc("error_db_store", "", nil, labels),
		RedisPublishErrors:      prometheus.NewDesc("error_redis_publish", "", nil, labels),
	}
}

func (self *Collector) WithMonitor(m *Monitor) *Collector {
	self.monitor = m
	return self
}

func (self *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- self.StartTimestamp
	ch <- self.UpForSeconds
	ch <- self.ProjectsCreated
	ch <- self.ReviewsCreated
	ch <- self.ReviewsAccepted
	ch <- self.ProjectsAccepted
	ch <- self.Mints
	ch <- self.RewardsPaid
	ch <- self.AverageReviewsAcceptedPerMinute

	// Errors
	ch <- self.NotFoundErrors
	ch <- self.PreconditionErrors
	ch <- self.InsufficientFundsErrors
	ch <- self.InconsistencyErrors
	ch <- self.ArithmeticErrors
	ch <- self.CapacityErrors
	ch <- self.DbStoreErrors
	ch <- self.RedisPublishErrors
}

// Collect implements required collect function for all prometheus collectors
func (self *Collector) Collect(ch chan<- prometheus.Metric) {
	state := &self.monitor.Report.Engine.State
	errors := &self.monitor.Report.Engine.Errors

	ch <- prometheus.MustNewConstMetric(self.StartTimestamp, prometheus.GaugeValue, float64(self.monitor.Report.Run.State.StartTimestamp.Load()))
	ch <- prometheus.MustNewConstMetric(self.UpForSeconds, prometheus.GaugeValue, float64(self.monitor.Report.Run.State.UpForSeconds.Load()))
	ch <- prometheus.MustNewConstMetric(self.ProjectsCreated, prometheus.CounterValue, float64(state.ProjectsCreated.Load()))
	ch <- prometheus.MustNewConstMetric(self.ReviewsCreated, prometheus.CounterValue, float64(state.ReviewsCreated.Load()))
	ch <- prometheus.MustNewConstMetric(self.ReviewsAccepted, prometheus.CounterValue, float64(state.ReviewsAccepted.Load()))
	ch <- prometheus.MustNewConstMetric(self.ProjectsAccepted, prometheus.CounterValue, float64(state.ProjectsAccepted.Load()))
	ch <- prometheus.MustNewConstMetric(self.Mints, prometheus.CounterValue, float64(state.Mints.Load()))
	ch <- prometheus.MustNewConstMetric(self.RewardsPaid, prometheus.CounterValue, float64(state.RewardsPaid.Load()))
	ch <- prometheus.MustNewConstMetric(self.AverageReviewsAcceptedPerMinute, prometheus.GaugeValue, state.AverageReviewsAcceptedPerMinute.Load())

	// Errors
	ch <- prometheus.MustNewConstMetric(self.NotFoundErrors, prometheus.CounterValue, float64(errors.NotFound.Load()))
	ch <- prometheus.MustNewConstMetric(self.PreconditionErrors, prometheus.CounterValue, float64(errors.Precondition.Load()))
	ch <- prometheus.MustNewConstMetric(self.InsufficientFundsErrors, prometheus.CounterValue, float64(errors.InsufficientFunds.Load()))
	ch <- prometheus.MustNewConstMetric(self.InconsistencyErrors, prometheus.CounterValue, float64(errors.Inconsistency.Load()))
	ch <- prometheus.MustNewConstMetric(self.ArithmeticErrors, prometheus.CounterValue, float64(errors.Arithmetic.Load()))
	ch <- prometheus.MustNewConstMetric(self.CapacityErrors, prometheus.CounterValue, float64(errors.Capacity.Load()))
	ch <- prometheus.MustNewConstMetric(self.DbStoreErrors, prometheus.CounterValue, float64(errors.DbStore.Load()))
	ch <- prometheus.MustNewConstMetric(self.RedisPublishErrors, prometheus.CounterValue, float64(errors.RedisPublish.Load()))
}
