package gateway

import (
	"context"
	"net/http"
	"runtime"

	"github.com/chocolate-network/ledger/src/engine"
	"github.com/chocolate-network/ledger/src/utils/config"
	"github.com/chocolate-network/ledger/src/utils/monitoring"
	"github.com/chocolate-network/ledger/src/utils/task"

	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// REST API server. Exposes the ledger operations, state queries,
// monitor counters and Prometheus metrics.
type Server struct {
	*task.Task

	httpServer *http.Server
	Router     *gin.Engine

	engine  *engine.Engine
	monitor monitoring.Monitor
}

func NewServer(config *config.Config) (self *Server) {
	self = new(Server)

	self.Task = task.NewTask(config, "gateway").
		WithSubtaskFunc(self.run).
		WithOnStop(self.stop)

	if !config.IsDevelopment {
		gin.SetMode(gin.ReleaseMode)
	}

	self.Router = gin.New()
	self.Router.Use(gin.Recovery())

	self.httpServer = &http.Server{
		Addr:              config.Gateway.ListenAddress,
		Handler:           self.Router,
		ReadHeaderTimeout: config.Gateway.ServerRequestTimeout,
	}

	return
}

func (self *Server) WithEngine(v *engine.Engine) *Server {
	self.engine = v
	return self
}

func (self *Server) WithMonitor(v monitoring.Monitor) *Server {
	self.monitor = v
	return self
}

func (self *Server) run() (err error) {
	if self.Config.Profiler.Enabled {
		pprof.Register(self.Router, "debug/pprof")
		runtime.SetBlockProfileRate(self.Config.Profiler.BlockProfileRate)
	}

	registry := prometheus.NewRegistry()
	err = registry.Register(self.monitor.GetPrometheusCollector())
	if err != nil {
		return
	}

	v1 := self.Router.Group("v1")
	{
		v1.POST("projects", self.onCreateProject)
		v1.GET("projects/:id", self.onGetProject)
		v1.POST("projects/:id/reviews", self.onCreateReview)
		v1.GET("projects/:id/reviews/:reviewer", self.onGetReview)

		// Approver capability
		v1.POST("projects/:id/accept", self.approverOnly(), self.onAcceptProject)
		v1.POST("projects/:id/reviews/:reviewer/accept", self.approverOnly(), self.onAcceptReview)
		v1.POST("mint", self.approverOnly(), self.onMint)

		v1.GET("state", self.onGetState)
		v1.GET("health", self.onGetHealth)
		v1.GET("metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))
	}

	self.Log.WithField("addr", self.httpServer.Addr).Info("Starting REST server")
	err = self.httpServer.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		self.Log.WithError(err).Error("Failed to start REST server")
		return
	}
	return nil
}

func (self *Server) stop() {
	ctx, cancel := context.WithTimeout(context.Background(), self.Config.StopTimeout)
	defer cancel()

	err := self.httpServer.Shutdown(ctx)
	if err != nil {
		self.Log.WithError(err).Error("Failed to gracefully shutdown REST server")
		return
	}
}
