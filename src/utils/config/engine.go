package config

import (
	"github.com/spf13/viper"
)

type Engine struct {
	// Fixed stake a project owner locks upon creation.
	// Doubles as the maximum reward a project can pay out.
	RewardCap uint64

	// Fixed collateral a reviewer locks per review
	UserCollateral uint64

	// Currency id rewards are paid in
	NativeCurrency uint32

	// Smallest balance a ledger entry may hold without being reaped
	MinimumBalance uint64

	// Account absorbing minted funds
	TreasuryAccount string

	// Upper bound for project metadata and review content, in bytes
	StringLimit int

	// Capacity of the committed-event channel
	EventBufferSize int
}

func setEngineDefaults() {
	viper.SetDefault("Engine.RewardCap", "100")
	viper.SetDefault("Engine.UserCollateral", "20")
	viper.SetDefault("Engine.NativeCurrency", "0")
	viper.SetDefault("Engine.MinimumBalance", "1")
	viper.SetDefault("Engine.TreasuryAccount", "treasury")
	viper.SetDefault("Engine.StringLimit", "4096")
	viper.SetDefault("Engine.EventBufferSize", "1024")
}
