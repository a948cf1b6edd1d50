package config

// Config holds all configuration for the application.
type Config struct {
	DBName        string
	MigrationsDir string
	Port          string
	Slack         SlackConfig
	Turso         TursoConfig
	ProjectID     string
	Settlement    SettlementConfig
}
type SlackConfig struct {
	Token         string
	ChannelID     string
	SigningSecret string
}
type TursoConfig struct {
	PrimaryURL string
	AuthToken  string
}

// SettlementConfig carries the per-deployment policy choices for the
// stroke-play engine. The club's historical sheets disagree on these, so
// they are explicit configuration rather than code defaults.
type SettlementConfig struct {
	NetPolicy    string
	RunnerUpFlag string
}
