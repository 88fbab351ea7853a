package config

import "time"

// Config holds all configuration for the application.
type Config struct {
	DBName    string
	Port      string
	Arena     ArenaConfig
	Slack     SlackConfig
	Turso     TursoConfig
	Redis     RedisConfig
	Session   SessionConfig
	ProjectID string
	// Location is the arena's time zone. Booking dates are calendar dates in this zone.
	Location *time.Location
}
type ArenaConfig struct {
	BaseURL string
	Token   string
}
type SlackConfig struct {
	Token     string
	ChannelID string
}
type TursoConfig struct {
	PrimaryURL string
	AuthToken  string
}
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// SessionConfig applies to whichever session store is in use.
type SessionConfig struct {
	// TTL is how long an idle booking session is kept.
	TTL time.Duration
}
