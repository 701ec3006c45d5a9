package engine

import (
	"errors"
	"sync"
	"time"

	"github.com/chocolate-network/ledger/src/ledger"
	"github.com/chocolate-network/ledger/src/users"
	"github.com/chocolate-network/ledger/src/utils/config"
	"github.com/chocolate-network/ledger/src/utils/logger"
	"github.com/chocolate-network/ledger/src/utils/monitoring"

	"github.com/sirupsen/logrus"
)

// Engine drives the project/review lifecycle and the reservation, release
// and payout protocol on top of the balance ledger.
//
// Every public operation runs as a single check-then-act sequence: all
// preconditions are validated first, fallible ledger mutations follow (with
// compensating rollbacks where the ledger cannot), and registry writes come
// last so no partial state is ever observable. Operations touching the same
// project are serialized through a per-project lock.
type Engine struct {
	log     *logrus.Entry
	config  *config.Config
	ledger  ledger.Ledger
	users   users.Registry
	sink    ledger.TreasurySink
	monitor monitoring.Monitor

	rewardCap      ledger.Balance
	userCollateral ledger.Balance
	native         ledger.CurrencyID
	stringLimit    int

	// Guards the registries, the per-project locks and the id counter
	mtx      sync.RWMutex
	projects map[ProjectID]*Project
	reviews  map[reviewKey]*Review
	locks    map[ProjectID]*sync.Mutex

	// Serializes project creation (id allocation + owner uniqueness)
	createMtx sync.Mutex
	nextID    ProjectID

	// Committed state transitions, consumed by flush/publish
	Output chan *Event
}

func NewEngine(config *config.Config) (self *Engine) {
	if config.Engine.RewardCap == 0 || config.Engine.UserCollateral == 0 {
		panic("engine: RewardCap and UserCollateral must be positive")
	}

	self = new(Engine)
	self.log = logger.NewSublogger("engine")
	self.config = config

	self.rewardCap = ledger.Balance(config.Engine.RewardCap)
	self.userCollateral = ledger.Balance(config.Engine.UserCollateral)
	self.native = ledger.CurrencyID(config.Engine.NativeCurrency)
	self.stringLimit = config.Engine.StringLimit

	self.projects = make(map[ProjectID]*Project)
	self.reviews = make(map[reviewKey]*Review)
	self.locks = make(map[ProjectID]*sync.Mutex)
	self.nextID = 1

	self.Output = make(chan *Event, config.Engine.EventBufferSize)
	return
}

func (self *Engine) WithLedger(l ledger.Ledger) *Engine {
	self.ledger = l
	return self
}

func (self *Engine) WithUsers(u users.Registry) *Engine {
	self.users = u
	return self
}

func (self *Engine) WithTreasury(sink ledger.TreasurySink) *Engine {
	self.sink = sink
	return self
}

func (self *Engine) WithMonitor(monitor monitoring.Monitor) *Engine {
	self.monitor = monitor
	return self
}

// CreateProject allocates the next project id, reserves the reward stake
// against the owner and inserts the project in Proposed state
func (self *Engine) CreateProject(owner ledger.AccountID, metadata []byte) (id ProjectID, err error) {
	id, err = self.createProject(owner, metadata)
	if err != nil {
		self.trackFailure(err)
		return
	}
	if self.monitor != nil {
		self.monitor.GetReport().Engine.State.ProjectsCreated.Inc()
	}
	return
}

func (self *Engine) createProject(owner ledger.AccountID, metadata []byte) (id ProjectID, err error) {
	if len(metadata) > self.stringLimit {
		return 0, ErrMetadataTooLong
	}

	self.createMtx.Lock()
	defer self.createMtx.Unlock()

	// CHECKS
	index := self.nextID
	newIndex, ok := checkedAdd32(index, 1)
	if !ok {
		return 0, ErrStorageOverflow
	}
	user := self.users.GetOrCreateDefault(owner)
	if user.ProjectID != nil {
		return 0, ErrAlreadyOwnsProject
	}
	if !self.canReward(owner) {
		return 0, ErrInsufficientBalance
	}

	project := newProject(owner, metadata)
	project.ID = index

	// FALLIBLE MUTATIONS
	err = self.reserveReward(project)
	if err != nil {
		return 0, err
	}

	// STORAGE MUTATIONS
	self.mtx.Lock()
	self.projects[index] = project
	self.nextID = newIndex
	self.mtx.Unlock()

	self.users.AssignProject(owner, uint32(index))

	self.emit(&Event{
		Kind:    EventProjectCreated,
		Project: self.snapshotProject(index),
		Account: owner,
	})
	return index, nil
}

// CreateReview locks the reviewer's collateral, snapshots their rank points
// and inserts the review in Proposed state
func (self *Engine) CreateReview(reviewer ledger.AccountID, projectID ProjectID, score uint8, content []byte, collateral ledger.CurrencyID) (err error) {
	err = self.createReview(reviewer, projectID, score, content, collateral)
	if err != nil {
		self.trackFailure(err)
		return
	}
	if self.monitor != nil {
		self.monitor.GetReport().Engine.State.ReviewsCreated.Inc()
	}
	return
}

func (self *Engine) createReview(reviewer ledger.AccountID, projectID ProjectID, score uint8, content []byte, collateral ledger.CurrencyID) (err error) {
	if len(content) > self.stringLimit {
		return ErrMetadataTooLong
	}

	unlock := self.lockProject(projectID)
	defer unlock()

	// CHECKS
	project, ok := self.getProject(projectID)
	if !ok {
		return ErrNoProjectWithID
	}
	if _, ok := self.getReview(reviewer, projectID); ok {
		return ErrDuplicateReview
	}
	if project.Owner == reviewer {
		return ErrOwnerReviewedProject
	}
	if score < 1 || score > 5 {
		return ErrReviewScoreOutOfRange
	}
	if collateral == self.native {
		return ErrNativeCollateral
	}
	amount, err := self.canCollateralise(reviewer, collateral)
	if err != nil {
		return err
	}

	// FALLIBLE MUTATIONS
	err = self.collateralise(reviewer, collateral, amount)
	if err != nil {
		return err
	}
	user := self.users.GetOrCreateDefault(reviewer)
	project.TotalUserScores = saturatingAdd32(project.TotalUserScores, user.RankPoints)
	project.Reviewers = append(append([]ledger.AccountID{}, project.Reviewers...), reviewer)

	review := &Review{
		Reviewer:           reviewer,
		ProjectID:          projectID,
		Content:            content,
		ProposalStatus:     defaultProposalStatus(),
		PointSnapshot:      user.RankPoints,
		ReviewScore:        score,
		CollateralCurrency: collateral,
	}

	// STORAGE MUTATIONS
	self.mtx.Lock()
	self.reviews[reviewKey{reviewer, projectID}] = review
	self.projects[projectID] = &project
	self.mtx.Unlock()

	self.emit(&Event{
		Kind:       EventReviewCreated,
		Project:    self.snapshotProject(projectID),
		Review:     snapshotReview(review),
		Account:    reviewer,
		RankPoints: user.RankPoints,
	})
	return nil
}

// AcceptReview releases the reviewer's collateral and pays out their share
// of the project's reward. Approver capability, enforced by the caller.
func (self *Engine) AcceptReview(reviewer ledger.AccountID, projectID ProjectID) (err error) {
	err = self.acceptReview(reviewer, projectID)
	if err != nil {
		self.trackFailure(err)
		return
	}
	if self.monitor != nil {
		self.monitor.GetReport().Engine.State.ReviewsAccepted.Inc()
	}
	return
}

func (self *Engine) acceptReview(reviewer ledger.AccountID, projectID ProjectID) (err error) {
	unlock := self.lockProject(projectID)
	defer unlock()

	// CHECKS
	review, ok := self.getReview(reviewer, projectID)
	if !ok {
		return ErrReviewNotFound
	}
	if review.ProposalStatus.Status != StatusProposed {
		return ErrAcceptingNotProposed
	}
	project, ok := self.getProject(projectID)
	if !ok {
		return ErrNoProjectWithID
	}
	if !self.checkCollateral(reviewer, review.CollateralCurrency) {
		return ErrInconsistentCollateral
	}
	err = self.checkReward(&project)
	if err != nil {
		return err
	}

	// MUTATIONS - Fallible. rewardUser compensates the ledger on failure,
	// the project and review copies are simply discarded.
	payout, rankPoints, err := self.rewardUser(reviewer, &project, &review)
	if err != nil {
		return err
	}
	review.ProposalStatus = ProposalStatus{
		Status: StatusAccepted,
		Reason: Reason{Kind: ReasonPassedRequirements},
	}
	project.NumberOfReviews = saturatingAdd32(project.NumberOfReviews, 1)
	project.TotalReviewScore = saturatingAdd64(project.TotalReviewScore, uint64(review.ReviewScore))

	// STORAGE MUTATIONS
	self.mtx.Lock()
	self.reviews[reviewKey{reviewer, projectID}] = &review
	self.projects[projectID] = &project
	self.mtx.Unlock()

	if self.monitor != nil {
		self.monitor.GetReport().Engine.State.RewardsPaid.Add(uint64(payout))
	}
	self.emit(&Event{
		Kind:       EventReviewAccepted,
		Project:    self.snapshotProject(projectID),
		Review:     snapshotReview(&review),
		Account:    reviewer,
		RankPoints: rankPoints,
		Amount:     payout,
	})
	return nil
}

// AcceptProject flips a consistent Proposed project to Accepted.
// No reservation or release side effects.
func (self *Engine) AcceptProject(projectID ProjectID) (err error) {
	err = self.acceptProject(projectID)
	if err != nil {
		self.trackFailure(err)
		return
	}
	if self.monitor != nil {
		self.monitor.GetReport().Engine.State.ProjectsAccepted.Inc()
	}
	return
}

func (self *Engine) acceptProject(projectID ProjectID) (err error) {
	unlock := self.lockProject(projectID)
	defer unlock()

	project, ok := self.getProject(projectID)
	if !ok {
		return ErrNoProjectWithID
	}
	if project.ProposalStatus.Status != StatusProposed {
		return ErrAcceptingNotProposed
	}
	err = self.checkReward(&project)
	if err != nil {
		return err
	}

	project.ProposalStatus = ProposalStatus{
		Status: StatusAccepted,
		Reason: Reason{Kind: ReasonPassedRequirements},
	}

	self.mtx.Lock()
	self.projects[projectID] = &project
	self.mtx.Unlock()

	self.emit(&Event{
		Kind:    EventProjectAccepted,
		Project: self.snapshotProject(projectID),
	})
	return nil
}

// Mint issues new native supply and hands it to the treasury sink
func (self *Engine) Mint(amount ledger.Balance) {
	imbalance := self.ledger.Issue(amount)
	minted := imbalance.Peek()
	self.sink.OnUnbalanced(imbalance)

	if self.monitor != nil {
		self.monitor.GetReport().Engine.State.Mints.Inc()
	}
	self.emit(&Event{
		Kind:   EventMinted,
		Amount: minted,
	})
}

// InitializeProject creates a project and forces its status. Bootstrap only.
func (self *Engine) InitializeProject(owner ledger.AccountID, metadata []byte, status Status, reason Reason) (id ProjectID, err error) {
	id, err = self.CreateProject(owner, metadata)
	if err != nil {
		return
	}

	self.mtx.Lock()
	project := *self.projects[id]
	project.ProposalStatus = ProposalStatus{Status: status, Reason: reason}
	self.projects[id] = &project
	self.mtx.Unlock()
	return
}

// GetProject returns a snapshot of the project
func (self *Engine) GetProject(id ProjectID) (Project, bool) {
	self.mtx.RLock()
	defer self.mtx.RUnlock()
	project, ok := self.projects[id]
	if !ok {
		return Project{}, false
	}
	return *project, true
}

// GetReview returns a snapshot of the review
func (self *Engine) GetReview(reviewer ledger.AccountID, projectID ProjectID) (Review, bool) {
	self.mtx.RLock()
	defer self.mtx.RUnlock()
	review, ok := self.reviews[reviewKey{reviewer, projectID}]
	if !ok {
		return Review{}, false
	}
	return *review, true
}

// NextProjectID returns the id the next created project will get
func (self *Engine) NextProjectID() ProjectID {
	self.mtx.RLock()
	defer self.mtx.RUnlock()
	return self.nextID
}

func (self *Engine) getProject(id ProjectID) (Project, bool) {
	self.mtx.RLock()
	defer self.mtx.RUnlock()
	project, ok := self.projects[id]
	if !ok {
		return Project{}, false
	}
	return *project, true
}

func (self *Engine) getReview(reviewer ledger.AccountID, projectID ProjectID) (Review, bool) {
	self.mtx.RLock()
	defer self.mtx.RUnlock()
	review, ok := self.reviews[reviewKey{reviewer, projectID}]
	if !ok {
		return Review{}, false
	}
	return *review, true
}

func (self *Engine) snapshotProject(id ProjectID) *Project {
	self.mtx.RLock()
	defer self.mtx.RUnlock()
	project, ok := self.projects[id]
	if !ok {
		return nil
	}
	snapshot := *project
	return &snapshot
}

func snapshotReview(review *Review) *Review {
	snapshot := *review
	return &snapshot
}

// lockProject serializes operations touching the same project
func (self *Engine) lockProject(id ProjectID) (unlock func()) {
	self.mtx.Lock()
	lock, ok := self.locks[id]
	if !ok {
		lock = &sync.Mutex{}
		self.locks[id] = lock
	}
	self.mtx.Unlock()

	lock.Lock()
	return lock.Unlock
}

func (self *Engine) emit(event *Event) {
	event.Timestamp = time.Now()
	select {
	case self.Output <- event:
	default:
		// Consumers feed reporting replicas, the registries stay authoritative
		self.log.WithField("kind", event.Kind).Warn("Event buffer full, event dropped")
	}
}

func (self *Engine) trackFailure(err error) {
	if self.monitor == nil {
		return
	}
	counters := &self.monitor.GetReport().Engine.Errors
	switch {
	case errors.Is(err, ErrNoProjectWithID), errors.Is(err, ErrReviewNotFound), errors.Is(err, ErrNoneValue):
		counters.NotFound.Inc()
	case errors.Is(err, ErrDuplicateReview), errors.Is(err, ErrOwnerReviewedProject),
		errors.Is(err, ErrReviewScoreOutOfRange), errors.Is(err, ErrAcceptingNotProposed),
		errors.Is(err, ErrAlreadyOwnsProject), errors.Is(err, ErrNativeCollateral),
		errors.Is(err, ErrMetadataTooLong):
		counters.Precondition.Inc()
	case errors.Is(err, ErrInsufficientBalance):
		counters.InsufficientFunds.Inc()
	case errors.Is(err, ErrRewardInconsistent), errors.Is(err, ErrInconsistentCollateral):
		counters.Inconsistency.Inc()
	case errors.Is(err, ErrDivisionByZero), errors.Is(err, ErrOverflow), errors.Is(err, ErrUnderflow):
		counters.Arithmetic.Inc()
	case errors.Is(err, ErrStorageOverflow):
		counters.Capacity.Inc()
	}
}
