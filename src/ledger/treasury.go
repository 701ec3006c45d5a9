package ledger

import (
	"github.com/chocolate-network/ledger/src/utils/config"
	"github.com/chocolate-network/ledger/src/utils/logger"

	"github.com/sirupsen/logrus"
)

// Treasury credits minted supply to the configured treasury account
type Treasury struct {
	log     *logrus.Entry
	ledger  Ledger
	account AccountID
}

func NewTreasury(config *config.Config) (self *Treasury) {
	self = new(Treasury)
	self.log = logger.NewSublogger("treasury")
	self.account = AccountID(config.Engine.TreasuryAccount)
	return
}

func (self *Treasury) WithLedger(ledger Ledger) *Treasury {
	self.ledger = ledger
	return self
}

func (self *Treasury) OnUnbalanced(imbalance *Imbalance) {
	amount := imbalance.Peek()
	self.ledger.ResolveCreating(self.account, imbalance)
	self.log.WithField("amount", amount).Debug("Minted funds absorbed")
}
