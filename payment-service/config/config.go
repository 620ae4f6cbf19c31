package config

import (
	"fmt"
	"path/filepath"
	"runtime"

	sharedconfig "github.com/draftea/order-system/shared/config"
)

type Config struct {
	sharedconfig.Base `mapstructure:",squash"`
	// StoreAccount receives payments and funds refunds.
	StoreAccount string `mapstructure:"store_account"`
}

func ReadConfig() (*Config, error) {
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		return nil, fmt.Errorf("unable to get current file")
	}

	var cfg Config
	err := sharedconfig.Read(sharedconfig.Options{
		ServiceName: "payment-service",
		EnvPrefix:   "PAYMENT",
		Dir:         filepath.Dir(filename),
		DefaultPort: "8081",
		Defaults: map[string]interface{}{
			"store_account":     "STORE001",
			"database.database": "payment",
			"aws.sqs_queue_url": "http://localhost:4566/000000000000/payment-events",
			"aws.sqs_dlq_url":   "http://localhost:4566/000000000000/payment-events-dlq",
		},
	}, &cfg)
	if err != nil {
		return nil, err
	}

	return &cfg, nil
}
