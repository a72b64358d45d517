package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration (env + Viper).
type Config struct {
	Env                 string
	Port                string
	SessionSecret       string
	DatabaseURL         string
	RedisURL            string
	JWTSecret           string
	JWTTTL              time.Duration
	FrontendURLEndsWith string
	DevPassword         string
	AllowCrossSiteDev   bool
	HealthAdminKey      string
	LogLevel            string
	ReportCurrency      string
	ReportTitle         string

	// BootstrapAdminEmail and BootstrapAdminPassword seed the first superadmin on an empty database.
	BootstrapAdminEmail    string
	BootstrapAdminPassword string

	// HealthUpstreams are "name=url" pairs HEAD-checked by /health/json.
	HealthUpstreams []string
}

// IsProduction reports whether APP_ENV is "production".
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Load loads config from env and optional .env file.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("PORT", "8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("JWT_TTL", "12h")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("REPORT_CURRENCY", "SAR")
	v.SetDefault("REPORT_TITLE", "Asset Register")

	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
	ttl := v.GetDuration("JWT_TTL")
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	jwtSecret := v.GetString("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = v.GetString("SESSION_SECRET")
	}
	return &Config{
		Env:                 v.GetString("APP_ENV"),
		Port:                v.GetString("PORT"),
		SessionSecret:       v.GetString("SESSION_SECRET"),
		DatabaseURL:         v.GetString("DATABASE_URL"),
		RedisURL:            v.GetString("REDIS_URL"),
		JWTSecret:           jwtSecret,
		JWTTTL:              ttl,
		FrontendURLEndsWith: v.GetString("FRONTEND_URL_ENDS_WITH"),
		DevPassword:         v.GetString("DEV_PASSWORD"),
		AllowCrossSiteDev:   v.GetBool("ALLOW_CROSS_SITE_DEV"),
		HealthAdminKey:      v.GetString("HEALTH_ADMIN_KEY"),
		LogLevel:            v.GetString("LOG_LEVEL"),
		ReportCurrency:      strings.ToUpper(strings.TrimSpace(v.GetString("REPORT_CURRENCY"))),
		ReportTitle:         v.GetString("REPORT_TITLE"),

		BootstrapAdminEmail:    strings.TrimSpace(v.GetString("BOOTSTRAP_ADMIN_EMAIL")),
		BootstrapAdminPassword: v.GetString("BOOTSTRAP_ADMIN_PASSWORD"),
		HealthUpstreams:           splitList(v.GetString("HEALTH_UPSTREAMS")),
	}
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
