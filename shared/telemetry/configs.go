package telemetry

// Predefined service configurations
var (
	OrderingServiceConfig = Config{
		ServiceName:    "ordering-service",
		ServiceVersion: "1.0.0",
	}

	PaymentServiceConfig = Config{
		ServiceName:    "payment-service",
		ServiceVersion: "1.0.0",
	}

	DeliveryServiceConfig = Config{
		ServiceName:    "delivery-service",
		ServiceVersion: "1.0.0",
	}

	NotificationServiceConfig = Config{
		ServiceName:    "notification-service",
		ServiceVersion: "1.0.0",
	}
)

// WithOTLPEndpoint sets the OTLP endpoint for a config
func (c Config) WithOTLPEndpoint(endpoint string) Config {
	c.OTLPEndpoint = endpoint
	return c
}
