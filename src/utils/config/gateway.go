package config

import (
	"time"

	"github.com/spf13/viper"
)

type Gateway struct {
	// REST API address
	ListenAddress string

	// Max time for handling a single request
	ServerRequestTimeout time.Duration

	// Bearer token required for approver-only calls (accept, mint).
	// Empty token disables those endpoints.
	ApproverToken string
}

func setGatewayDefaults() {
	viper.SetDefault("Gateway.ListenAddress", ":7891")
	viper.SetDefault("Gateway.ServerRequestTimeout", "30s")
	viper.SetDefault("Gateway.ApproverToken", "")
}
