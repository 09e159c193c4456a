package config

// Config holds all configuration for the application.
type Config struct {
	DBName        string
	MigrationsDir string
	Port          string
	Gateway       GatewayConfig
	Slack         SlackConfig
	Turso         TursoConfig
	// DryRun makes notifications log instead of posting.
	DryRun bool
}

// GatewayConfig points at the central tournament server.
type GatewayConfig struct {
	BaseURL string
	APIKey  string
}

type SlackConfig struct {
	Token     string
	ChannelID string
}

type TursoConfig struct {
	PrimaryURL string
	AuthToken  string
}
