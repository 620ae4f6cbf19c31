package config

import (
	"fmt"
	"path/filepath"
	"runtime"
	"time"

	sharedconfig "github.com/draftea/order-system/shared/config"
)

type Config struct {
	sharedconfig.Base `mapstructure:",squash"`
	Carrier           CarrierConfig `mapstructure:"carrier"`
}

// CarrierConfig tunes the simulated carrier.
type CarrierConfig struct {
	PickupDelay     time.Duration `mapstructure:"pickup_delay"`
	TransitDelay    time.Duration `mapstructure:"transit_delay"`
	DeliveryDelay   time.Duration `mapstructure:"delivery_delay"`
	LossProbability float64       `mapstructure:"loss_probability"`
	TickInterval    time.Duration `mapstructure:"tick_interval"`
	BatchSize       int           `mapstructure:"batch_size"`
}

func ReadConfig() (*Config, error) {
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		return nil, fmt.Errorf("unable to get current file")
	}

	var cfg Config
	err := sharedconfig.Read(sharedconfig.Options{
		ServiceName: "delivery-service",
		EnvPrefix:   "DELIVERY",
		Dir:         filepath.Dir(filename),
		DefaultPort: "8082",
		Defaults: map[string]interface{}{
			"carrier.pickup_delay":     "10s",
			"carrier.transit_delay":    "5s",
			"carrier.delivery_delay":   "10s",
			"carrier.loss_probability": 0.05,
			"carrier.tick_interval":    "1s",
			"carrier.batch_size":       50,
			"database.database":        "delivery",
			"aws.sqs_queue_url":        "http://localhost:4566/000000000000/delivery-events",
			"aws.sqs_dlq_url":          "http://localhost:4566/000000000000/delivery-events-dlq",
		},
	}, &cfg)
	if err != nil {
		return nil, err
	}

	if cfg.Carrier.LossProbability < 0 || cfg.Carrier.LossProbability > 1 {
		return nil, fmt.Errorf("carrier.loss_probability must be between 0 and 1, got %v", cfg.Carrier.LossProbability)
	}
	return &cfg, nil
}
