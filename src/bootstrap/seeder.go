package bootstrap

import (
	"fmt"

	"github.com/chocolate-network/ledger/src/engine"
	"github.com/chocolate-network/ledger/src/ledger"
	"github.com/chocolate-network/ledger/src/users"
	"github.com/chocolate-network/ledger/src/utils/config"
	"github.com/chocolate-network/ledger/src/utils/logger"

	"github.com/sirupsen/logrus"
)

// Seeder loads the genesis state: seeded user profiles, funded balances,
// initial projects with forced statuses and one accepted review per project.
// Runs once, before any task starts. Any failure aborts startup.
type Seeder struct {
	log    *logrus.Entry
	config *config.Config

	engine *engine.Engine
	ledger *ledger.Memory
	users  users.Registry
}

func NewSeeder(config *config.Config) (self *Seeder) {
	self = new(Seeder)
	self.log = logger.NewSublogger("bootstrap")
	self.config = config
	return
}

func (self *Seeder) WithEngine(v *engine.Engine) *Seeder {
	self.engine = v
	return self
}

func (self *Seeder) WithLedger(v *ledger.Memory) *Seeder {
	self.ledger = v
	return self
}

func (self *Seeder) WithUsers(v users.Registry) *Seeder {
	self.users = v
	return self
}

func (self *Seeder) Run() (err error) {
	accounts := self.config.Bootstrap.Users
	if len(accounts) == 0 {
		self.log.Debug("No bootstrap users configured, skipping genesis")
		return
	}
	if len(self.config.Bootstrap.ProjectStatuses) > len(accounts) {
		return fmt.Errorf("more bootstrap project statuses (%d) than users (%d)",
			len(self.config.Bootstrap.ProjectStatuses), len(accounts))
	}

	self.log.WithField("users", len(accounts)).Info("Seeding genesis state")

	err = self.seedUsers(accounts)
	if err != nil {
		return
	}

	projects, err := self.seedProjects(accounts)
	if err != nil {
		return
	}

	err = self.seedReviews(accounts, projects)
	if err != nil {
		return
	}

	// Prime the treasury so it exists from the first block of activity
	self.engine.Mint(ledger.Balance(self.config.Engine.RewardCap))

	self.log.Info("Genesis state seeded")
	return
}

// seedUsers creates default profiles and funds them with enough native
// currency for a project stake and enough collateral currency for two reviews
func (self *Seeder) seedUsers(accounts []string) (err error) {
	collateralCurrency := ledger.CurrencyID(self.config.Bootstrap.CollateralCurrency)
	if collateralCurrency == ledger.CurrencyID(self.config.Engine.NativeCurrency) {
		return fmt.Errorf("bootstrap collateral currency %d clashes with the native currency", collateralCurrency)
	}

	nativeMinimum := self.ledger.MinimumBalance(ledger.CurrencyID(self.config.Engine.NativeCurrency))
	collateralMinimum := self.ledger.MinimumBalance(collateralCurrency)

	nativeGrant := 2*ledger.Balance(self.config.Engine.RewardCap) + nativeMinimum
	collateralGrant := 2*ledger.Balance(self.config.Engine.UserCollateral) + collateralMinimum

	for _, account := range accounts {
		id := ledger.AccountID(account)

		// One rank point so genesis reviews carry weight in the score total
		self.users.Set(id, users.User{RankPoints: 1})

		imbalance := self.ledger.Issue(nativeGrant)
		self.ledger.ResolveCreating(id, imbalance)

		self.ledger.Deposit(collateralCurrency, id, collateralGrant)
	}
	return
}

// seedProjects creates one project per configured status, owned by the
// user at the same position
func (self *Seeder) seedProjects(accounts []string) (projects map[int]engine.ProjectID, err error) {
	projects = make(map[int]engine.ProjectID)

	for i, status := range self.config.Bootstrap.ProjectStatuses {
		forced, err := parseStatus(status)
		if err != nil {
			return nil, err
		}

		owner := ledger.AccountID(accounts[i])
		metadata := []byte(fmt.Sprintf("genesis project of %s", owner))

		id, err := self.engine.InitializeProject(owner, metadata, forced, engine.Reason{Kind: engine.ReasonPassedRequirements})
		if err != nil {
			return nil, fmt.Errorf("initialize genesis project for %s: %w", owner, err)
		}
		projects[i] = id
	}
	return
}

// seedReviews has the next user in the ring review each genesis project,
// then accepts the review so genesis already exercises the payout path
func (self *Seeder) seedReviews(accounts []string, projects map[int]engine.ProjectID) (err error) {
	if len(accounts) < 2 {
		return
	}
	collateralCurrency := ledger.CurrencyID(self.config.Bootstrap.CollateralCurrency)

	for i := 0; i < len(projects); i++ {
		id := projects[i]
		reviewer := ledger.AccountID(accounts[(i+1)%len(accounts)])
		content := []byte(fmt.Sprintf("genesis review of project %d", id))

		err = self.engine.CreateReview(reviewer, id, 5, content, collateralCurrency)
		if err != nil {
			return fmt.Errorf("create genesis review of project %d: %w", id, err)
		}

		err = self.engine.AcceptReview(reviewer, id)
		if err != nil {
			return fmt.Errorf("accept genesis review of project %d: %w", id, err)
		}
	}
	return
}

func parseStatus(v string) (status engine.Status, err error) {
	switch engine.Status(v) {
	case engine.StatusProposed, engine.StatusAccepted, engine.StatusRejected:
		return engine.Status(v), nil
	default:
		return "", fmt.Errorf("unknown bootstrap project status: %s", v)
	}
}
