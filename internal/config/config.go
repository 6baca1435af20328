package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	AppPort string `env:"APP_PORT" envDefault:"8080"`

	DatabaseDSN string `env:"DATABASE_DSN" envDefault:"postgres://localhost:5432/angular2club?sslmode=disable"`

	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`

	// PasswordPepper is the server-wide salt for password digests.
	// Changing it invalidates every stored credential.
	PasswordPepper string `env:"PASSWORD_PEPPER" envDefault:"angular2club-dev-pepper"`

	SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"24h"`

	QQAppID       string `env:"QQ_APP_ID"`
	QQAppSecret   string `env:"QQ_APP_SECRET"`
	QQRedirectURL string `env:"QQ_REDIRECT_URL"`
	QQGraphURL    string `env:"QQ_GRAPH_URL" envDefault:"https://graph.qq.com"`

	SMTPHost     string `env:"SMTP_HOST" envDefault:"localhost"`
	SMTPPort     int    `env:"SMTP_PORT" envDefault:"587"`
	SMTPUser     string `env:"SMTP_USER"`
	SMTPPassword string `env:"SMTP_PASSWORD"`
	MailFrom     string `env:"MAIL_FROM" envDefault:"no-reply@angular2club.com"`

	// SiteBaseURL is the public origin used in activation links
	// and the federation completion redirect.
	SiteBaseURL string `env:"SITE_BASE_URL" envDefault:"http://localhost:8080"`
}

func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
