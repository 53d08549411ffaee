package config

import (
	"log"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig       `envPrefix:"APP_"`
	Server    ServerConfig    `envPrefix:"SERVER_"`
	Database  DatabaseConfig  `envPrefix:"DB_"`
	Log       LogConfig       `envPrefix:"LOG_"`
	Mail      MailConfig      `envPrefix:"MAIL_"`
	Session   SessionConfig   `envPrefix:"SESSION_"`
	Auth      AuthConfig      `envPrefix:"AUTH_"`
	Posts     PostsConfig     `envPrefix:"POSTS_"`
	RateLimit RateLimitConfig `envPrefix:"RATELIMIT_"`
	Templates TemplatesConfig `envPrefix:"TEMPLATES_"`
}

type AppConfig struct {
	Name string `env:"NAME" envDefault:"Urban Dictionary"`
	URL  string `env:"URL" envDefault:"http://localhost:8080"`
}

type ServerConfig struct {
	Port string `env:"PORT" envDefault:"8080"`
	Host string `env:"HOST" envDefault:"localhost"`
}

type DatabaseConfig struct {
	Driver      string `env:"DRIVER" envDefault:"sqlite"`
	DSN         string `env:"DSN" envDefault:"urbandict.db"`
	AutoMigrate bool   `env:"AUTOMIGRATE" envDefault:"true"`
}

type LogConfig struct {
	Level  string `env:"LEVEL" envDefault:"info"`
	Format string `env:"FORMAT" envDefault:"json"`
}

type MailConfig struct {
	Host        string `env:"HOST" envDefault:"localhost"`
	Port        int    `env:"PORT" envDefault:"587"`
	Username    string `env:"USERNAME"`
	Password    string `env:"PASSWORD"`
	Encryption  string `env:"ENCRYPTION" envDefault:"starttls"`
	FromAddress string `env:"FROM_ADDRESS"`
	FromName    string `env:"FROM_NAME"`
}

type SessionConfig struct {
	Store    string        `env:"STORE" envDefault:"database"`
	Name     string        `env:"NAME" envDefault:"urbandict_session"`
	MaxAge   time.Duration `env:"MAX_AGE" envDefault:"336h"`
	Path     string        `env:"PATH" envDefault:"/"`
	Domain   string        `env:"DOMAIN"`
	Secure   bool          `env:"SECURE" envDefault:"false"`
	HttpOnly bool          `env:"HTTP_ONLY" envDefault:"true"`
	SameSite string        `env:"SAME_SITE" envDefault:"lax"`
}

type AuthConfig struct {
	BcryptCost        int `env:"BCRYPT_COST" envDefault:"12"`
	MinPasswordLength int `env:"MIN_PASSWORD_LENGTH" envDefault:"8"`
}

type PostsConfig struct {
	PerPage     int `env:"PER_PAGE" envDefault:"10"`
	TitleMaxLen int `env:"TITLE_MAX_LEN" envDefault:"255"`
	TextMaxLen  int `env:"TEXT_MAX_LEN" envDefault:"10000"`
	SearchLimit int `env:"SEARCH_LIMIT" envDefault:"500"`
}

type RateLimitConfig struct {
	Enabled bool          `env:"ENABLED" envDefault:"true"`
	Rate    int           `env:"RATE" envDefault:"10"`
	Period  time.Duration `env:"PERIOD" envDefault:"1m"`
}

type TemplatesConfig struct {
	Dir         string `env:"DIR" envDefault:"templates"`
	Extension   string `env:"EXTENSION" envDefault:".html"`
	Development bool   `env:"DEVELOPMENT" envDefault:"false"`
}

func LoadConfig(cfg any) error {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found: %v", err)
	}

	return env.Parse(cfg)
}
