package config

import (
	"time"

	"github.com/spf13/viper"
)

type Database struct {
	// Is persisting committed records to Postgres on
	Enabled bool

	Port        uint16
	Host        string
	User        string
	Password    string
	Name        string
	SslMode     string
	PingTimeout time.Duration

	ClientKey  string
	ClientCert string
	CaCert     string

	MigrationUser     string
	MigrationPassword string

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxIdleTime time.Duration
	ConnMaxLifetime time.Duration

	// How many records are saved in one transaction
	StoreBatchSize int

	// How often is an insert triggered even if the batch isn't full
	StoreInterval time.Duration

	// Insert backoff configuration, 0 is no limit
	StoreMaxElapsedTime time.Duration
	StoreMaxInterval    time.Duration
}

func setDatabaseDefaults() {
	viper.SetDefault("Database.Enabled", "false")
	viper.SetDefault("Database.Port", "5432")
	viper.SetDefault("Database.Host", "127.0.0.1")
	viper.SetDefault("Database.User", "postgres")
	viper.SetDefault("Database.Password", "postgres")
	viper.SetDefault("Database.Name", "chocolate")
	viper.SetDefault("Database.SslMode", "disable")
	viper.SetDefault("Database.PingTimeout", "15s")
	viper.SetDefault("Database.MigrationUser", "postgres")
	viper.SetDefault("Database.MigrationPassword", "postgres")
	viper.SetDefault("Database.MaxOpenConns", "10")
	viper.SetDefault("Database.MaxIdleConns", "5")
	viper.SetDefault("Database.ConnMaxIdleTime", "10m")
	viper.SetDefault("Database.ConnMaxLifetime", "1h")
	viper.SetDefault("Database.StoreBatchSize", "50")
	viper.SetDefault("Database.StoreInterval", "1s")
	viper.SetDefault("Database.StoreMaxElapsedTime", "5m")
	viper.SetDefault("Database.StoreMaxInterval", "15s")
}
