package engine

import (
	"testing"

	"github.com/chocolate-network/ledger/src/ledger"
	"github.com/chocolate-network/ledger/src/users"
	"github.com/chocolate-network/ledger/src/utils/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

const collateralCurrency = ledger.CurrencyID(1)

func TestEngineTestSuite(t *testing.T) {
	suite.Run(t, new(EngineTestSuite))
}

type EngineTestSuite struct {
	suite.Suite
	config   *config.Config
	balances *ledger.Memory
	registry *users.Memory
	treasury *ledger.Treasury
	engine   *Engine
}

func (s *EngineTestSuite) SetupTest() {
	s.config = config.Default()
	s.balances = ledger.NewMemory(s.config)
	s.registry = users.NewMemory()
	s.treasury = ledger.NewTreasury(s.config).WithLedger(s.balances)
	s.engine = NewEngine(s.config).
		WithLedger(s.balances).
		WithUsers(s.registry).
		WithTreasury(s.treasury)
}

func (s *EngineTestSuite) fundNative(account ledger.AccountID, amount ledger.Balance) {
	s.balances.Deposit(ledger.CurrencyID(s.config.Engine.NativeCurrency), account, amount)
}

func (s *EngineTestSuite) fundCollateral(account ledger.AccountID, amount ledger.Balance) {
	s.balances.Deposit(collateralCurrency, account, amount)
}

func (s *EngineTestSuite) native() ledger.CurrencyID {
	return ledger.CurrencyID(s.config.Engine.NativeCurrency)
}

// Default config: reward cap 100, collateral 20, minimum balance 1

func (s *EngineTestSuite) TestCreateProject() {
	s.fundNative("alice", 201)

	id, err := s.engine.CreateProject("alice", []byte("a project"))
	assert.Nil(s.T(), err)
	assert.Equal(s.T(), ProjectID(1), id)

	// Reserve is sized to the cap plus one existential minimum
	assert.Equal(s.T(), ledger.Balance(101), s.balances.ReservedBalance(s.native(), "alice"))
	assert.Equal(s.T(), ledger.Balance(100), s.balances.FreeBalance(s.native(), "alice"))

	project, ok := s.engine.GetProject(id)
	assert.True(s.T(), ok)
	assert.Equal(s.T(), StatusProposed, project.ProposalStatus.Status)
	assert.Equal(s.T(), ledger.Balance(100), project.Reward)

	user, err := s.registry.GetByID("alice")
	assert.Nil(s.T(), err)
	assert.NotNil(s.T(), user.ProjectID)
	assert.Equal(s.T(), id, *user.ProjectID)

	assert.Equal(s.T(), ProjectID(2), s.engine.NextProjectID())
}

func (s *EngineTestSuite) TestCreateProjectOnePerOwner() {
	s.fundNative("alice", 500)

	_, err := s.engine.CreateProject("alice", []byte("first"))
	assert.Nil(s.T(), err)

	_, err = s.engine.CreateProject("alice", []byte("second"))
	assert.ErrorIs(s.T(), err, ErrAlreadyOwnsProject)
}

func (s *EngineTestSuite) TestCreateProjectInsufficientBalance() {
	s.fundNative("alice", 100)

	_, err := s.engine.CreateProject("alice", []byte("underfunded"))
	assert.ErrorIs(s.T(), err, ErrInsufficientBalance)
	assert.Equal(s.T(), ledger.Balance(0), s.balances.ReservedBalance(s.native(), "alice"))
}

func (s *EngineTestSuite) TestCreateProjectMetadataTooLong() {
	s.fundNative("alice", 201)

	metadata := make([]byte, s.config.Engine.StringLimit+1)
	_, err := s.engine.CreateProject("alice", metadata)
	assert.ErrorIs(s.T(), err, ErrMetadataTooLong)
}

func (s *EngineTestSuite) createProject(owner ledger.AccountID) ProjectID {
	s.fundNative(owner, 201)
	id, err := s.engine.CreateProject(owner, []byte("a project"))
	s.Require().Nil(err)
	return id
}

func (s *EngineTestSuite) TestCreateReview() {
	id := s.createProject("alice")
	s.registry.Set("bob", users.User{RankPoints: 2})
	s.fundCollateral("bob", 50)

	err := s.engine.CreateReview("bob", id, 4, []byte("solid"), collateralCurrency)
	assert.Nil(s.T(), err)

	// Collateral plus one existential minimum is locked
	assert.Equal(s.T(), ledger.Balance(21), s.balances.ReservedBalance(collateralCurrency, "bob"))

	review, ok := s.engine.GetReview("bob", id)
	assert.True(s.T(), ok)
	assert.Equal(s.T(), StatusProposed, review.ProposalStatus.Status)
	assert.Equal(s.T(), uint32(2), review.PointSnapshot)
	assert.Equal(s.T(), uint8(4), review.ReviewScore)

	project, _ := s.engine.GetProject(id)
	assert.Equal(s.T(), uint32(2), project.TotalUserScores)
	assert.Equal(s.T(), []ledger.AccountID{"bob"}, project.Reviewers)
}

func (s *EngineTestSuite) TestCreateReviewValidation() {
	id := s.createProject("alice")
	s.fundCollateral("bob", 50)

	err := s.engine.CreateReview("bob", id, 0, nil, collateralCurrency)
	assert.ErrorIs(s.T(), err, ErrReviewScoreOutOfRange)

	err = s.engine.CreateReview("bob", id, 6, nil, collateralCurrency)
	assert.ErrorIs(s.T(), err, ErrReviewScoreOutOfRange)

	err = s.engine.CreateReview("bob", id, 3, nil, s.native())
	assert.ErrorIs(s.T(), err, ErrNativeCollateral)

	err = s.engine.CreateReview("alice", id, 3, nil, collateralCurrency)
	assert.ErrorIs(s.T(), err, ErrOwnerReviewedProject)

	err = s.engine.CreateReview("bob", 42, 3, nil, collateralCurrency)
	assert.ErrorIs(s.T(), err, ErrNoProjectWithID)

	err = s.engine.CreateReview("bob", id, 3, nil, collateralCurrency)
	assert.Nil(s.T(), err)

	err = s.engine.CreateReview("bob", id, 3, nil, collateralCurrency)
	assert.ErrorIs(s.T(), err, ErrDuplicateReview)
}

func (s *EngineTestSuite) TestCreateReviewWithoutCollateral() {
	id := s.createProject("alice")
	s.fundCollateral("bob", 20)

	err := s.engine.CreateReview("bob", id, 3, nil, collateralCurrency)
	assert.ErrorIs(s.T(), err, ErrInsufficientBalance)
	assert.Equal(s.T(), ledger.Balance(0), s.balances.ReservedBalance(collateralCurrency, "bob"))
}

func (s *EngineTestSuite) TestAcceptReviewPaysOut() {
	id := s.createProject("alice")
	s.registry.Set("bob", users.User{RankPoints: 2})
	s.fundCollateral("bob", 50)

	err := s.engine.CreateReview("bob", id, 5, []byte("great"), collateralCurrency)
	s.Require().Nil(err)

	err = s.engine.AcceptReview("bob", id)
	assert.Nil(s.T(), err)

	// payout = floor(100 / 2) * 2 = 100
	assert.Equal(s.T(), ledger.Balance(100), s.balances.FreeBalance(s.native(), "bob"))
	assert.Equal(s.T(), ledger.Balance(1), s.balances.ReservedBalance(s.native(), "alice"))
	assert.Equal(s.T(), ledger.Balance(100), s.balances.FreeBalance(s.native(), "alice"))

	// Collateral released, the sizing minimum stays locked
	assert.Equal(s.T(), ledger.Balance(1), s.balances.ReservedBalance(collateralCurrency, "bob"))

	review, _ := s.engine.GetReview("bob", id)
	assert.Equal(s.T(), StatusAccepted, review.ProposalStatus.Status)
	assert.Equal(s.T(), ReasonPassedRequirements, review.ProposalStatus.Reason.Kind)

	project, _ := s.engine.GetProject(id)
	assert.Equal(s.T(), ledger.Balance(0), project.Reward)
	assert.Equal(s.T(), uint32(1), project.NumberOfReviews)
	assert.Equal(s.T(), uint64(5), project.TotalReviewScore)

	user, _ := s.registry.GetByID("bob")
	assert.Equal(s.T(), uint32(3), user.RankPoints)

	// Accepting twice is rejected
	err = s.engine.AcceptReview("bob", id)
	assert.ErrorIs(s.T(), err, ErrAcceptingNotProposed)
}

func (s *EngineTestSuite) TestAcceptReviewZeroRankReviewer() {
	id := s.createProject("alice")
	s.fundCollateral("bob", 50)

	// Lone reviewer with zero rank points makes the score total zero
	err := s.engine.CreateReview("bob", id, 3, nil, collateralCurrency)
	s.Require().Nil(err)

	err = s.engine.AcceptReview("bob", id)
	assert.ErrorIs(s.T(), err, ErrDivisionByZero)

	review, _ := s.engine.GetReview("bob", id)
	assert.Equal(s.T(), StatusProposed, review.ProposalStatus.Status)
}

func (s *EngineTestSuite) TestAcceptReviewZeroPayout() {
	id := s.createProject("alice")
	s.registry.Set("bob", users.User{RankPoints: 2})
	s.fundCollateral("bob", 50)
	s.fundCollateral("carol", 50)

	err := s.engine.CreateReview("bob", id, 5, nil, collateralCurrency)
	s.Require().Nil(err)
	err = s.engine.CreateReview("carol", id, 2, nil, collateralCurrency)
	s.Require().Nil(err)

	// carol's snapshot is zero, so her share is zero but rank still moves
	err = s.engine.AcceptReview("carol", id)
	assert.Nil(s.T(), err)

	assert.Equal(s.T(), ledger.Balance(0), s.balances.FreeBalance(s.native(), "carol"))
	assert.Equal(s.T(), ledger.Balance(1), s.balances.ReservedBalance(collateralCurrency, "carol"))

	user, _ := s.registry.GetByID("carol")
	assert.Equal(s.T(), uint32(1), user.RankPoints)

	project, _ := s.engine.GetProject(id)
	assert.Equal(s.T(), ledger.Balance(100), project.Reward)
}

func (s *EngineTestSuite) TestAcceptReviewExhaustedReward() {
	id := s.createProject("alice")
	s.registry.Set("bob", users.User{RankPoints: 1})
	s.fundCollateral("bob", 50)
	s.fundCollateral("carol", 50)

	// bob snapshots rank 1, carol rank 0, so the score total stays 1
	err := s.engine.CreateReview("bob", id, 5, nil, collateralCurrency)
	s.Require().Nil(err)
	err = s.engine.CreateReview("carol", id, 4, nil, collateralCurrency)
	s.Require().Nil(err)

	// bob's acceptance drains the whole reward: floor(100 / 1) * 1
	err = s.engine.AcceptReview("bob", id)
	s.Require().Nil(err)
	project, _ := s.engine.GetProject(id)
	s.Require().Equal(ledger.Balance(0), project.Reward)

	// carol's acceptance still succeeds, floor(0 / 1) * 0 pays nothing
	err = s.engine.AcceptReview("carol", id)
	assert.Nil(s.T(), err)

	assert.Equal(s.T(), ledger.Balance(0), s.balances.FreeBalance(s.native(), "carol"))

	review, _ := s.engine.GetReview("carol", id)
	assert.Equal(s.T(), StatusAccepted, review.ProposalStatus.Status)

	project, _ = s.engine.GetProject(id)
	assert.Equal(s.T(), ledger.Balance(0), project.Reward)

	// Collateral is released regardless of the empty payout
	assert.Equal(s.T(), ledger.Balance(1), s.balances.ReservedBalance(collateralCurrency, "carol"))
}

func (s *EngineTestSuite) TestAcceptReviewDrainedRewardReserve() {
	id := s.createProject("alice")
	s.registry.Set("bob", users.User{RankPoints: 2})
	s.fundCollateral("bob", 50)

	err := s.engine.CreateReview("bob", id, 5, nil, collateralCurrency)
	s.Require().Nil(err)

	// Simulate an external drain of the owner's reserve
	shortfall := s.balances.Unreserve(s.native(), "alice", 101)
	s.Require().Equal(ledger.Balance(0), shortfall)

	err = s.engine.AcceptReview("bob", id)
	assert.ErrorIs(s.T(), err, ErrRewardInconsistent)

	review, _ := s.engine.GetReview("bob", id)
	assert.Equal(s.T(), StatusProposed, review.ProposalStatus.Status)

	project, _ := s.engine.GetProject(id)
	assert.Equal(s.T(), ledger.Balance(100), project.Reward)
}

func (s *EngineTestSuite) TestAcceptReviewDrainedCollateral() {
	id := s.createProject("alice")
	s.registry.Set("bob", users.User{RankPoints: 2})
	s.fundCollateral("bob", 50)

	err := s.engine.CreateReview("bob", id, 5, nil, collateralCurrency)
	s.Require().Nil(err)

	s.balances.Unreserve(collateralCurrency, "bob", 21)

	err = s.engine.AcceptReview("bob", id)
	assert.ErrorIs(s.T(), err, ErrInconsistentCollateral)
}

func (s *EngineTestSuite) TestAcceptReviewTransferFailureRestoresReserve() {
	s.config.Engine.MinimumBalance = 10
	s.SetupTestWithConfig()

	s.fundNative("alice", 120)
	id, err := s.engine.CreateProject("alice", []byte("a project"))
	s.Require().Nil(err)

	// bob's payout lands below the existential minimum of his missing
	// native entry: floor(100 / 25) * 2 = 8 < 10
	s.registry.Set("bob", users.User{RankPoints: 2})
	s.registry.Set("carol", users.User{RankPoints: 23})
	s.fundCollateral("bob", 50)
	s.fundCollateral("carol", 50)

	err = s.engine.CreateReview("bob", id, 5, nil, collateralCurrency)
	s.Require().Nil(err)
	err = s.engine.CreateReview("carol", id, 4, nil, collateralCurrency)
	s.Require().Nil(err)

	reservedBefore := s.balances.ReservedBalance(s.native(), "alice")

	err = s.engine.AcceptReview("bob", id)
	assert.ErrorIs(s.T(), err, ErrInsufficientBalance)

	// The released amount is locked again and nothing else moved
	assert.Equal(s.T(), reservedBefore, s.balances.ReservedBalance(s.native(), "alice"))
	assert.Equal(s.T(), ledger.Balance(0), s.balances.FreeBalance(s.native(), "bob"))

	review, _ := s.engine.GetReview("bob", id)
	assert.Equal(s.T(), StatusProposed, review.ProposalStatus.Status)

	project, _ := s.engine.GetProject(id)
	assert.Equal(s.T(), ledger.Balance(100), project.Reward)

	user, _ := s.registry.GetByID("bob")
	assert.Equal(s.T(), uint32(2), user.RankPoints)

	// Collateral stays locked until the review is actually accepted
	assert.Equal(s.T(), ledger.Balance(30), s.balances.ReservedBalance(collateralCurrency, "bob"))
}

// SetupTestWithConfig rebuilds the collaborators after a config tweak
func (s *EngineTestSuite) SetupTestWithConfig() {
	s.balances = ledger.NewMemory(s.config)
	s.registry = users.NewMemory()
	s.treasury = ledger.NewTreasury(s.config).WithLedger(s.balances)
	s.engine = NewEngine(s.config).
		WithLedger(s.balances).
		WithUsers(s.registry).
		WithTreasury(s.treasury)
}

func (s *EngineTestSuite) TestAcceptProject() {
	id := s.createProject("alice")

	err := s.engine.AcceptProject(id)
	assert.Nil(s.T(), err)

	project, _ := s.engine.GetProject(id)
	assert.Equal(s.T(), StatusAccepted, project.ProposalStatus.Status)
	assert.Equal(s.T(), ReasonPassedRequirements, project.ProposalStatus.Reason.Kind)

	err = s.engine.AcceptProject(id)
	assert.ErrorIs(s.T(), err, ErrAcceptingNotProposed)

	err = s.engine.AcceptProject(42)
	assert.ErrorIs(s.T(), err, ErrNoProjectWithID)
}

func (s *EngineTestSuite) TestAcceptProjectDrainedReserve() {
	id := s.createProject("alice")
	s.balances.Unreserve(s.native(), "alice", 101)

	err := s.engine.AcceptProject(id)
	assert.ErrorIs(s.T(), err, ErrRewardInconsistent)

	project, _ := s.engine.GetProject(id)
	assert.Equal(s.T(), StatusProposed, project.ProposalStatus.Status)
}

func (s *EngineTestSuite) TestMint() {
	issuanceBefore := s.balances.TotalIssuance()

	s.engine.Mint(500)

	treasury := ledger.AccountID(s.config.Engine.TreasuryAccount)
	assert.Equal(s.T(), ledger.Balance(500), s.balances.FreeBalance(s.native(), treasury))
	assert.Equal(s.T(), issuanceBefore+500, s.balances.TotalIssuance())
}

func (s *EngineTestSuite) TestInitializeProject() {
	s.fundNative("alice", 201)

	id, err := s.engine.InitializeProject("alice", []byte("genesis"), StatusAccepted, Reason{Kind: ReasonPassedRequirements})
	assert.Nil(s.T(), err)

	project, _ := s.engine.GetProject(id)
	assert.Equal(s.T(), StatusAccepted, project.ProposalStatus.Status)

	// The stake is reserved like for any other project
	assert.Equal(s.T(), ledger.Balance(101), s.balances.ReservedBalance(s.native(), "alice"))
}

func (s *EngineTestSuite) TestCollateralSizingAcrossReviews() {
	first := s.createProject("alice")
	second := s.createProject("dave")

	s.registry.Set("bob", users.User{RankPoints: 1})
	s.fundCollateral("bob", 100)

	err := s.engine.CreateReview("bob", first, 3, nil, collateralCurrency)
	s.Require().Nil(err)
	// First reserve carries the extra existential minimum
	assert.Equal(s.T(), ledger.Balance(21), s.balances.ReservedBalance(collateralCurrency, "bob"))

	err = s.engine.CreateReview("bob", second, 3, nil, collateralCurrency)
	s.Require().Nil(err)
	// Second one doesn't, the reserve already covers the minimum
	assert.Equal(s.T(), ledger.Balance(41), s.balances.ReservedBalance(collateralCurrency, "bob"))
}

func (s *EngineTestSuite) TestSupplyConservation() {
	imbalance := s.balances.Issue(1000)
	s.balances.ResolveCreating("alice", imbalance)
	s.fundCollateral("bob", 50)
	s.registry.Set("bob", users.User{RankPoints: 2})

	id, err := s.engine.CreateProject("alice", []byte("a project"))
	s.Require().Nil(err)
	err = s.engine.CreateReview("bob", id, 5, nil, collateralCurrency)
	s.Require().Nil(err)
	err = s.engine.AcceptReview("bob", id)
	s.Require().Nil(err)

	total := s.balances.FreeBalance(s.native(), "alice") +
		s.balances.ReservedBalance(s.native(), "alice") +
		s.balances.FreeBalance(s.native(), "bob") +
		s.balances.ReservedBalance(s.native(), "bob")
	assert.Equal(s.T(), ledger.Balance(1000), total)
	assert.Equal(s.T(), ledger.Balance(1000), s.balances.TotalIssuance())
}

func (s *EngineTestSuite) TestEventsEmitted() {
	id := s.createProject("alice")
	s.registry.Set("bob", users.User{RankPoints: 2})
	s.fundCollateral("bob", 50)

	err := s.engine.CreateReview("bob", id, 5, nil, collateralCurrency)
	s.Require().Nil(err)
	err = s.engine.AcceptReview("bob", id)
	s.Require().Nil(err)
	s.engine.Mint(10)

	kinds := []EventKind{}
	for i := 0; i < 4; i++ {
		event := <-s.engine.Output
		kinds = append(kinds, event.Kind)
	}
	assert.Equal(s.T(), []EventKind{EventProjectCreated, EventReviewCreated, EventReviewAccepted, EventMinted}, kinds)
}
