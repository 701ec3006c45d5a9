package engine

import (
	"errors"
	"fmt"

	"github.com/chocolate-network/ledger/src/ledger"
)

// Reward and collateral protocol. Reservations are sized so the locked
// amount never leaves the owner's account unable to cover the ledger's
// existential minimum: whenever the already reserved balance is within one
// minimum of a multiple of the cap, one extra minimum is locked on top.

func (self *Engine) rewardReserveAmount(owner ledger.AccountID) (amount ledger.Balance) {
	existential := self.ledger.MinimumBalance(self.native)
	amount = self.rewardCap
	reserved := self.ledger.ReservedBalance(self.native, owner)
	if reserved%self.rewardCap < existential {
		amount = saturatingAddBalance(amount, existential)
	}
	return
}

func (self *Engine) canReward(owner ledger.AccountID) bool {
	return self.ledger.CanReserve(self.native, owner, self.rewardReserveAmount(owner))
}

func (self *Engine) reserveReward(project *Project) (err error) {
	err = self.ledger.Reserve(self.native, project.Owner, self.rewardReserveAmount(project.Owner))
	if err != nil {
		return ErrInsufficientBalance
	}
	project.Reward = self.rewardCap
	return
}

// checkReward verifies the owner's reserve still backs the project's
// remaining reward plus the existential minimum, and that the free balance
// can survive a keep-alive payout
func (self *Engine) checkReward(project *Project) (err error) {
	existential := self.ledger.MinimumBalance(self.native)
	reserved := self.ledger.ReservedBalance(self.native, project.Owner)
	if reserved < saturatingAddBalance(project.Reward, existential) {
		return ErrRewardInconsistent
	}
	if self.ledger.FreeBalance(self.native, project.Owner) < existential {
		return ErrInsufficientBalance
	}
	return
}

// reward releases amount from the owner's reserve into their free balance
// and decrements the project's remaining reward. A shortfall means the
// reserve was externally drained below what the project's bookkeeping
// claims, in which case whatever was released gets locked again and the
// bookkeeping is left untouched.
func (self *Engine) reward(project *Project, amount ledger.Balance) (err error) {
	shortfall := self.ledger.Unreserve(self.native, project.Owner, amount)
	if shortfall > 0 {
		err = self.ledger.Reserve(self.native, project.Owner, saturatingSubBalance(amount, shortfall))
		if err != nil {
			self.log.WithError(err).
				WithField("owner", project.Owner).
				WithField("project_id", project.ID).
				Error("Failed to restore partially released reward reserve")
			return fmt.Errorf("restore partially released reward reserve: %w", err)
		}
		return ErrRewardInconsistent
	}
	project.Reward = saturatingSubBalance(project.Reward, amount)
	return
}

// rewardUser computes the reviewer's share of the reward and executes the
// payout: release from the owner's reserve, keep-alive transfer to the
// reviewer, rank point bump, collateral release. Mutates the working copies
// only, the caller commits them. Ledger effects are compensated on failure.
func (self *Engine) rewardUser(reviewer ledger.AccountID, project *Project, review *Review) (payout ledger.Balance, rankPoints uint32, err error) {
	// A stored review implies a stored profile
	_, err = self.users.GetByID(reviewer)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: reviewer %s has a review but no profile", ErrNoneValue, reviewer)
	}

	fraction, err := divideReward(project.Reward, project.TotalUserScores)
	if err != nil {
		return 0, 0, err
	}
	payout = saturatingMulBalance(fraction, ledger.Balance(review.PointSnapshot))

	err = self.reward(project, payout)
	if err != nil {
		return 0, 0, err
	}

	err = self.ledger.Transfer(self.native, project.Owner, reviewer, payout, true)
	if err != nil {
		// Lock the released amount back so the reserve keeps backing the
		// project's untouched remaining reward
		rerr := self.ledger.Reserve(self.native, project.Owner, payout)
		if rerr != nil {
			self.log.WithError(rerr).
				WithField("owner", project.Owner).
				WithField("reviewer", reviewer).
				Error("Failed to restore reward reserve after payout transfer failure")
			return 0, 0, fmt.Errorf("restore reserve after failed payout transfer: %w", rerr)
		}
		if errors.Is(err, ledger.ErrKeepAlive) || errors.Is(err, ledger.ErrInsufficientBalance) || errors.Is(err, ledger.ErrBelowMinimum) {
			return 0, 0, ErrInsufficientBalance
		}
		return 0, 0, err
	}

	user := self.users.IncrementRank(reviewer)

	self.releaseCollateral(reviewer, review.CollateralCurrency)
	return payout, user.RankPoints, nil
}

func (self *Engine) collateralReserveAmount(reviewer ledger.AccountID, currency ledger.CurrencyID) (amount ledger.Balance) {
	existential := self.ledger.MinimumBalance(currency)
	amount = self.userCollateral
	reserved := self.ledger.ReservedBalance(currency, reviewer)
	if reserved%self.userCollateral < existential {
		amount = saturatingAddBalance(amount, existential)
	}
	return
}

func (self *Engine) canCollateralise(reviewer ledger.AccountID, currency ledger.CurrencyID) (amount ledger.Balance, err error) {
	amount = self.collateralReserveAmount(reviewer, currency)
	if !self.ledger.CanReserve(currency, reviewer, amount) {
		return 0, ErrInsufficientBalance
	}
	return
}

func (self *Engine) collateralise(reviewer ledger.AccountID, currency ledger.CurrencyID, amount ledger.Balance) (err error) {
	err = self.ledger.Reserve(currency, reviewer, amount)
	if err != nil {
		return ErrInsufficientBalance
	}
	return
}

// checkCollateral verifies the reviewer's reserve still holds the collateral
// plus the existential minimum
func (self *Engine) checkCollateral(reviewer ledger.AccountID, currency ledger.CurrencyID) bool {
	existential := self.ledger.MinimumBalance(currency)
	reserved := self.ledger.ReservedBalance(currency, reviewer)
	return reserved >= saturatingAddBalance(self.userCollateral, existential)
}

// releaseCollateral unlocks the reviewer's collateral. Unconditional, a
// shortfall only means someone already unlocked part of it.
func (self *Engine) releaseCollateral(reviewer ledger.AccountID, currency ledger.CurrencyID) {
	shortfall := self.ledger.Unreserve(currency, reviewer, self.userCollateral)
	if shortfall > 0 {
		self.log.WithField("reviewer", reviewer).
			WithField("shortfall", shortfall).
			Warn("Collateral release came up short")
	}
}
