package config

import (
	"fmt"
	"path/filepath"
	"runtime"

	sharedconfig "github.com/draftea/order-system/shared/config"
)

// Config has no service-specific sections; the notification service keeps
// no database.
type Config struct {
	sharedconfig.Base `mapstructure:",squash"`
}

func ReadConfig() (*Config, error) {
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		return nil, fmt.Errorf("unable to get current file")
	}

	var cfg Config
	err := sharedconfig.Read(sharedconfig.Options{
		ServiceName: "notification-service",
		EnvPrefix:   "NOTIFICATION",
		Dir:         filepath.Dir(filename),
		DefaultPort: "8083",
		Defaults: map[string]interface{}{
			"aws.sqs_queue_url": "http://localhost:4566/000000000000/notification-events",
			"aws.sqs_dlq_url":   "http://localhost:4566/000000000000/notification-events-dlq",
		},
	}, &cfg)
	if err != nil {
		return nil, err
	}

	return &cfg, nil
}
