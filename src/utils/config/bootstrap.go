package config

import (
	"github.com/spf13/viper"
)

type Bootstrap struct {
	// Accounts seeded with a default user profile
	Users []string

	// Status of the initial project created for each seeded user, in order.
	// Fewer statuses than users means the remaining users own no project.
	ProjectStatuses []string

	// Currency id reviewers lock their genesis collateral in
	CollateralCurrency uint32
}

func setBootstrapDefaults() {
	viper.SetDefault("Bootstrap.Users", []string{})
	viper.SetDefault("Bootstrap.ProjectStatuses", []string{})
	viper.SetDefault("Bootstrap.CollateralCurrency", "1")
}
