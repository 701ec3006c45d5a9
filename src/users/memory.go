package users

import (
	"math"
	"sync"

	"github.com/chocolate-network/ledger/src/ledger"
)

// Memory is the in-process Registry implementation
type Memory struct {
	mtx   sync.RWMutex
	users map[ledger.AccountID]User
}

func NewMemory() (self *Memory) {
	self = new(Memory)
	self.users = make(map[ledger.AccountID]User)
	return
}

func (self *Memory) GetByID(id ledger.AccountID) (User, error) {
	self.mtx.RLock()
	defer self.mtx.RUnlock()
	user, ok := self.users[id]
	if !ok {
		return User{}, ErrUserNotFound
	}
	return user, nil
}

func (self *Memory) GetOrCreateDefault(id ledger.AccountID) User {
	self.mtx.Lock()
	defer self.mtx.Unlock()
	user, ok := self.users[id]
	if !ok {
		user = User{}
		self.users[id] = user
	}
	return user
}

func (self *Memory) AssignProject(id ledger.AccountID, projectID uint32) {
	self.mtx.Lock()
	defer self.mtx.Unlock()
	user := self.users[id]
	user.ProjectID = &projectID
	self.users[id] = user
}

func (self *Memory) IncrementRank(id ledger.AccountID) User {
	self.mtx.Lock()
	defer self.mtx.Unlock()
	user := self.users[id]
	if user.RankPoints < math.MaxUint32 {
		user.RankPoints++
	}
	self.users[id] = user
	return user
}

func (self *Memory) Set(id ledger.AccountID, user User) {
	self.mtx.Lock()
	defer self.mtx.Unlock()
	self.users[id] = user
}
