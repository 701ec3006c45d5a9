package serve

import (
	"github.com/chocolate-network/ledger/src/bootstrap"
	"github.com/chocolate-network/ledger/src/engine"
	"github.com/chocolate-network/ledger/src/flush"
	"github.com/chocolate-network/ledger/src/gateway"
	"github.com/chocolate-network/ledger/src/ledger"
	"github.com/chocolate-network/ledger/src/users"
	"github.com/chocolate-network/ledger/src/utils/config"
	"github.com/chocolate-network/ledger/src/utils/model"
	monitor_ledger "github.com/chocolate-network/ledger/src/utils/monitoring/ledger"
	"github.com/chocolate-network/ledger/src/utils/publisher"
	"github.com/chocolate-network/ledger/src/utils/task"
)

type Controller struct {
	*task.Task
}

// Main class that orchestrates the ledger service.
// Sets up the engine with its collaborators, seeds genesis state and wires
// the committed-event pipeline to the enabled sinks.
func NewController(config *config.Config) (self *Controller, err error) {
	self = new(Controller)

	self.Task = task.NewTask(config, "controller")

	monitor := monitor_ledger.NewMonitor().
		WithMaxHistorySize(30)

	balances := ledger.NewMemory(config)

	registry := users.NewMemory()

	treasury := ledger.NewTreasury(config).
		WithLedger(balances)

	eng := engine.NewEngine(config).
		WithLedger(balances).
		WithUsers(registry).
		WithTreasury(treasury).
		WithMonitor(monitor)

	err = bootstrap.NewSeeder(config).
		WithEngine(eng).
		WithLedger(balances).
		WithUsers(registry).
		Run()
	if err != nil {
		return
	}

	server := gateway.NewServer(config).
		WithEngine(eng).
		WithMonitor(monitor)

	fanout := NewFanout(config).
		WithInputChannel(eng.Output)

	self.Task = self.Task.
		WithSubtask(monitor.Task).
		WithSubtask(fanout.Task).
		WithSubtask(server.Task)

	if config.Database.Enabled {
		var store *flush.Store
		store, err = self.newStore(config, monitor, fanout)
		if err != nil {
			return
		}
		self.Task = self.Task.WithSubtask(store.Task)
	}

	if config.Redis.Enabled {
		redisPublisher := publisher.NewRedisPublisher[*model.EventNotification](config, config.Redis, "redis-publisher").
			WithChannelName(config.Redis.ChannelName).
			WithInputChannel(fanout.PublishOutput).
			WithMonitor(monitor)
		self.Task = self.Task.WithSubtask(redisPublisher.Task)
	}

	return
}

func (self *Controller) newStore(config *config.Config, monitor *monitor_ledger.Monitor, fanout *Fanout) (store *flush.Store, err error) {
	db, err := model.NewConnection(self.Ctx, config, "ledger")
	if err != nil {
		return
	}

	store = flush.NewStore(config).
		WithInputChannel(fanout.StoreOutput).
		WithMonitor(monitor).
		WithDB(db)
	return
}
