package config

// TracingConfig holds OTLP trace export configuration.
//
// Traces are exported over OTLP/HTTP to a local collector or agent.
// See internal/observability for exporter setup.
type TracingConfig struct {
	// AgentHost is the OTLP/HTTP endpoint (default: localhost:4318)
	AgentHost string `mapstructure:"agent_host" json:"agent_host"`
	// Environment is the deployment environment tag (default: dev)
	Environment string `mapstructure:"environment" json:"environment"`
	// ServiceName is the service name reported on spans (default: deskpilot)
	ServiceName string `mapstructure:"service_name" json:"service_name"`
	// Enabled turns trace export on. Off by default so local runs need no collector.
	Enabled bool `mapstructure:"enabled" json:"enabled"`
}
