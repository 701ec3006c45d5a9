package common

import (
	"context"
	"errors"

	"github.com/chocolate-network/ledger/src/utils/config"
)

type contextKey int

const configKey contextKey = iota

var ErrConfigNotSet = errors.New("config not set in context")

// SetConfig stores the configuration in the context so it travels with it
func SetConfig(ctx context.Context, config *config.Config) context.Context {
	return context.WithValue(ctx, configKey, config)
}

func GetConfig(ctx context.Context) (*config.Config, error) {
	config, ok := ctx.Value(configKey).(*config.Config)
	if !ok {
		return nil, ErrConfigNotSet
	}
	return config, nil
}
