package ledger

import (
	"sync"

	"github.com/chocolate-network/ledger/src/utils/config"
	"github.com/chocolate-network/ledger/src/utils/logger"

	"github.com/sirupsen/logrus"
)

type account struct {
	free     Balance
	reserved Balance
}

// Memory is the in-process Ledger implementation. Balances are keyed by
// (currency, account); the configured minimum balance applies to every
// currency unless overridden per currency id.
type Memory struct {
	mtx sync.RWMutex
	log *logrus.Entry

	accounts map[CurrencyID]map[AccountID]*account
	minimums map[CurrencyID]Balance

	native         CurrencyID
	defaultMinimum Balance
	totalIssuance  Balance
}

func NewMemory(config *config.Config) (self *Memory) {
	self = new(Memory)
	self.log = logger.NewSublogger("ledger")
	self.accounts = make(map[CurrencyID]map[AccountID]*account)
	self.minimums = make(map[CurrencyID]Balance)
	self.native = CurrencyID(config.Engine.NativeCurrency)
	self.defaultMinimum = Balance(config.Engine.MinimumBalance)
	return
}

func (self *Memory) WithMinimumBalance(currency CurrencyID, minimum Balance) *Memory {
	self.minimums[currency] = minimum
	return self
}

func (self *Memory) MinimumBalance(currency CurrencyID) Balance {
	self.mtx.RLock()
	defer self.mtx.RUnlock()
	if minimum, ok := self.minimums[currency]; ok {
		return minimum
	}
	return self.defaultMinimum
}

func (self *Memory) ReservedBalance(currency CurrencyID, id AccountID) Balance {
	self.mtx.RLock()
	defer self.mtx.RUnlock()
	if acc := self.lookup(currency, id); acc != nil {
		return acc.reserved
	}
	return 0
}

func (self *Memory) FreeBalance(currency CurrencyID, id AccountID) Balance {
	self.mtx.RLock()
	defer self.mtx.RUnlock()
	if acc := self.lookup(currency, id); acc != nil {
		return acc.free
	}
	return 0
}

func (self *Memory) CanReserve(currency CurrencyID, id AccountID, amount Balance) bool {
	self.mtx.RLock()
	defer self.mtx.RUnlock()
	acc := self.lookup(currency, id)
	return acc != nil && acc.free >= amount
}

func (self *Memory) Reserve(currency CurrencyID, id AccountID, amount Balance) error {
	self.mtx.Lock()
	defer self.mtx.Unlock()
	acc := self.lookup(currency, id)
	if acc == nil || acc.free < amount {
		return ErrInsufficientBalance
	}
	acc.free -= amount
	acc.reserved += amount
	return nil
}

func (self *Memory) Unreserve(currency CurrencyID, id AccountID, amount Balance) (shortfall Balance) {
	self.mtx.Lock()
	defer self.mtx.Unlock()
	acc := self.lookup(currency, id)
	if acc == nil {
		return amount
	}
	released := amount
	if acc.reserved < released {
		released = acc.reserved
	}
	acc.reserved -= released
	acc.free += released
	return amount - released
}

func (self *Memory) Transfer(currency CurrencyID, from, to AccountID, amount Balance, keepAlive bool) error {
	if from == to || amount == 0 {
		return nil
	}
	self.mtx.Lock()
	defer self.mtx.Unlock()

	minimum := self.defaultMinimum
	if m, ok := self.minimums[currency]; ok {
		minimum = m
	}

	sender := self.lookup(currency, from)
	if sender == nil || sender.free < amount {
		return ErrInsufficientBalance
	}
	remaining := sender.free - amount
	if keepAlive && remaining < minimum {
		return ErrKeepAlive
	}

	receiver := self.lookup(currency, to)
	if receiver == nil && amount < minimum {
		return ErrBelowMinimum
	}

	sender.free = remaining
	if receiver == nil {
		receiver = new(account)
		self.bucket(currency)[to] = receiver
	}
	receiver.free += amount

	// Reap a dusted sender. Reserved funds keep the entry alive.
	if remaining < minimum && sender.reserved == 0 {
		delete(self.accounts[currency], from)
		self.log.WithField("account", from).WithField("currency", currency).Debug("Account reaped")
	}
	return nil
}

func (self *Memory) Issue(amount Balance) *Imbalance {
	self.mtx.Lock()
	defer self.mtx.Unlock()
	self.totalIssuance += amount
	return NewImbalance(amount)
}

func (self *Memory) ResolveCreating(id AccountID, imbalance *Imbalance) {
	amount := imbalance.Consume()
	self.mtx.Lock()
	defer self.mtx.Unlock()
	acc := self.lookup(self.native, id)
	if acc == nil {
		acc = new(account)
		self.bucket(self.native)[id] = acc
	}
	acc.free += amount
}

// Deposit credits a free balance directly, creating the entry if needed.
// Bootstrap and test helper, deliberately not part of the Ledger interface.
func (self *Memory) Deposit(currency CurrencyID, id AccountID, amount Balance) {
	self.mtx.Lock()
	defer self.mtx.Unlock()
	acc := self.lookup(currency, id)
	if acc == nil {
		acc = new(account)
		self.bucket(currency)[id] = acc
	}
	acc.free += amount
}

// TotalIssuance reports the native supply issued so far
func (self *Memory) TotalIssuance() Balance {
	self.mtx.RLock()
	defer self.mtx.RUnlock()
	return self.totalIssuance
}

// lookup returns the account entry or nil. Callers hold the lock.
func (self *Memory) lookup(currency CurrencyID, id AccountID) *account {
	return self.accounts[currency][id]
}

// bucket returns the currency's account map, creating it if needed.
// Callers hold the write lock.
func (self *Memory) bucket(currency CurrencyID) map[AccountID]*account {
	b, ok := self.accounts[currency]
	if !ok {
		b = make(map[AccountID]*account)
		self.accounts[currency] = b
	}
	return b
}
