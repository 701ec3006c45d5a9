package monitor_ledger

import (
	"net/http"
	"time"

	"github.com/chocolate-network/ledger/src/utils/monitoring/report"
	"github.com/chocolate-network/ledger/src/utils/task"

	"github.com/gammazero/deque"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// Stores and computes monitor counters
type Monitor struct {
	*task.Task

	Report report.Report

	historySize int

	collector *Collector

	// Review acceptance speed
	reviewsAccepted *deque.Deque[uint64]
}

func NewMonitor() (self *Monitor) {
	self = new(Monitor)

	self.Report = report.Report{
		Run:    &report.RunReport{},
		Engine: &report.EngineReport{},
	}

	// Initialization
	self.Report.Run.State.StartTimestamp.Store(time.Now().Unix())

	self.collector = NewCollector().WithMonitor(self)

	self.Task = task.NewTask(nil, "monitor").
		WithPeriodicSubtaskFunc(time.Minute, self.monitorReviews)
	return
}

func (self *Monitor) WithMaxHistorySize(maxHistorySize int) *Monitor {
	self.historySize = maxHistorySize
	self.reviewsAccepted = deque.New[uint64](self.historySize)
	return self
}

func (self *Monitor) GetReport() *report.Report {
	return &self.Report
}

func (self *Monitor) GetPrometheusCollector() (collector prometheus.Collector) {
	return self.collector
}

// Measure review acceptance speed
func (self *Monitor) monitorReviews() (err error) {
	loaded := self.Report.Engine.State.ReviewsAccepted.Load()

	self.reviewsAccepted.PushBack(loaded)
	if self.reviewsAccepted.Len() > self.historySize {
		self.reviewsAccepted.PopFront()
	}
	if self.reviewsAccepted.Len() < 2 {
		return
	}
	value := float64(self.reviewsAccepted.Back()-self.reviewsAccepted.Front()) / float64(self.reviewsAccepted.Len())
	self.Report.Engine.State.AverageReviewsAcceptedPerMinute.Store(value)
	return
}

// IsOK reports liveness, not progress. The engine is passive between calls,
// so there is no minimum rate to enforce.
func (self *Monitor) IsOK() bool {
	return true
}

func (self *Monitor) OnGetState(c *gin.Context) {
	self.Report.Run.State.UpForSeconds.Store(uint64(time.Now().Unix() - self.Report.Run.State.StartTimestamp.Load()))
	c.JSON(http.StatusOK, &self.Report)
}

func (self *Monitor) OnGetHealth(c *gin.Context) {
	if self.IsOK() {
		c.Status(http.StatusOK)
	} else {
		c.Status(http.StatusServiceUnavailable)
	}
}
