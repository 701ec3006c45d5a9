package serve

import (
	"github.com/chocolate-network/ledger/src/engine"
	"github.com/chocolate-network/ledger/src/utils/config"
	"github.com/chocolate-network/ledger/src/utils/model"
	"github.com/chocolate-network/ledger/src/utils/task"
)

// Fanout forwards committed events from the engine to the enabled sinks.
// Each sink gets its own channel so a slow database doesn't starve Redis
// subscribers of everything buffered before it.
type Fanout struct {
	*task.Task

	input chan *engine.Event

	storeEnabled   bool
	publishEnabled bool

	StoreOutput   chan *engine.Event
	PublishOutput chan *model.EventNotification
}

func NewFanout(config *config.Config) (self *Fanout) {
	self = new(Fanout)

	self.storeEnabled = config.Database.Enabled
	self.publishEnabled = config.Redis.Enabled

	self.StoreOutput = make(chan *engine.Event, config.Engine.EventBufferSize)
	self.PublishOutput = make(chan *model.EventNotification, config.Engine.EventBufferSize)

	self.Task = task.NewTask(config, "fanout").
		WithSubtaskFunc(self.run)

	return
}

func (self *Fanout) WithInputChannel(v chan *engine.Event) *Fanout {
	self.input = v
	return self
}

func (self *Fanout) run() (err error) {
	for {
		select {
		case <-self.Ctx.Done():
			return nil
		case event := <-self.input:
			if self.storeEnabled {
				select {
				case <-self.Ctx.Done():
					return nil
				case self.StoreOutput <- event:
				}
			}
			if self.publishEnabled {
				select {
				case <-self.Ctx.Done():
					return nil
				case self.PublishOutput <- model.NewEventNotification(event):
				}
			}
		}
	}
}
