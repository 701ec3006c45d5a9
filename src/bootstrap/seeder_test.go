package bootstrap

import (
	"testing"

	"github.com/chocolate-network/ledger/src/engine"
	"github.com/chocolate-network/ledger/src/ledger"
	"github.com/chocolate-network/ledger/src/users"
	"github.com/chocolate-network/ledger/src/utils/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

func TestSeederTestSuite(t *testing.T) {
	suite.Run(t, new(SeederTestSuite))
}

type SeederTestSuite struct {
	suite.Suite
	config   *config.Config
	balances *ledger.Memory
	registry *users.Memory
	engine   *engine.Engine
	seeder   *Seeder
}

func (s *SeederTestSuite) setup(accounts []string, statuses []string) {
	s.config = config.Default()
	s.config.Bootstrap.Users = accounts
	s.config.Bootstrap.ProjectStatuses = statuses

	s.balances = ledger.NewMemory(s.config)
	s.registry = users.NewMemory()
	treasury := ledger.NewTreasury(s.config).WithLedger(s.balances)
	s.engine = engine.NewEngine(s.config).
		WithLedger(s.balances).
		WithUsers(s.registry).
		WithTreasury(treasury)

	s.seeder = NewSeeder(s.config).
		WithEngine(s.engine).
		WithLedger(s.balances).
		WithUsers(s.registry)
}

func (s *SeederTestSuite) TestEmptyConfigIsNoop() {
	s.setup(nil, nil)

	err := s.seeder.Run()
	assert.Nil(s.T(), err)
	assert.Equal(s.T(), ledger.Balance(0), s.balances.TotalIssuance())
}

func (s *SeederTestSuite) TestGenesis() {
	s.setup([]string{"alice", "bob"}, []string{"Accepted"})

	err := s.seeder.Run()
	assert.Nil(s.T(), err)

	// Each user is funded with twice the reward cap plus the minimum,
	// plus the final treasury mint of one reward cap
	assert.Equal(s.T(), ledger.Balance(2*201+100), s.balances.TotalIssuance())

	// alice's genesis project carries the forced status
	project, ok := s.engine.GetProject(1)
	assert.True(s.T(), ok)
	assert.Equal(s.T(), engine.StatusAccepted, project.ProposalStatus.Status)
	assert.Equal(s.T(), ledger.AccountID("alice"), project.Owner)

	// bob reviewed it and the review got accepted with a full payout
	review, ok := s.engine.GetReview("bob", 1)
	assert.True(s.T(), ok)
	assert.Equal(s.T(), engine.StatusAccepted, review.ProposalStatus.Status)
	assert.Equal(s.T(), ledger.Balance(301), s.balances.FreeBalance(0, "bob"))

	user, err := s.registry.GetByID("bob")
	assert.Nil(s.T(), err)
	assert.Equal(s.T(), uint32(2), user.RankPoints)

	// Treasury primed with one reward cap
	treasuryAccount := ledger.AccountID(s.config.Engine.TreasuryAccount)
	assert.Equal(s.T(), ledger.Balance(100), s.balances.FreeBalance(0, treasuryAccount))
}

func (s *SeederTestSuite) TestRejectsUnknownStatus() {
	s.setup([]string{"alice"}, []string{"HalfBaked"})

	err := s.seeder.Run()
	assert.NotNil(s.T(), err)
}

func (s *SeederTestSuite) TestRejectsMoreStatusesThanUsers() {
	s.setup([]string{"alice"}, []string{"Proposed", "Proposed"})

	err := s.seeder.Run()
	assert.NotNil(s.T(), err)
}

func (s *SeederTestSuite) TestRejectsNativeCollateralCurrency() {
	s.setup([]string{"alice"}, nil)
	s.config.Bootstrap.CollateralCurrency = s.config.Engine.NativeCurrency

	err := s.seeder.Run()
	assert.NotNil(s.T(), err)
}
