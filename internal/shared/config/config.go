package config

import (
	"fmt"
	"strings"
	"time"

	"sectors-server/internal/shared/utils"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Auth      AuthConfig
	OAuth     OAuthConfig
	Frontend  FrontendConfig
	Logging   LoggingConfig
	RateLimit RateLimitConfig
	Sector    SectorConfig
	Local     LocalStoreConfig
}

type ServerConfig struct {
	Port         string
	Environment  string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type DatabaseConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	MigrationsPath  string
}

// RedisConfig describes the generated-sector cache. URL wins over the
// individual host settings when set.
type RedisConfig struct {
	Enabled  bool
	URL      string
	Host     string
	Port     string
	Password string
	DB       int
}

type AuthConfig struct {
	JWTSecret       string
	TokenExpiration time.Duration
	CookieSecure    bool
	CookieSameSite  string
}

type OAuthConfig struct {
	Google  OAuthProviderConfig
	GitHub  OAuthProviderConfig
	Discord OAuthProviderConfig
}

type OAuthProviderConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Scopes       []string
}

// Configured reports whether both client credentials are present.
func (p OAuthProviderConfig) Configured() bool {
	return p.ClientID != "" && p.ClientSecret != ""
}

type FrontendConfig struct {
	URL       string
	CORSDebug bool
}

type LoggingConfig struct {
	Level      string
	JSONFormat bool
}

type RateLimitConfig struct {
	Enabled           bool
	RequestsPerSecond float64
	BurstSize         int
	TrustProxy        bool
}

type SectorConfig struct {
	DefaultRows    int
	DefaultColumns int
	// Limit caps the synced sectors of one user. Zero disables the cap.
	Limit        int
	GeneratedTTL time.Duration
}

type LocalStoreConfig struct {
	// Path of the SQLite file holding anonymous sectors. ":memory:" keeps
	// them for the lifetime of the process.
	Path string
}

var GlobalConfig *Config

func Init() error {
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found, using system environment variables")
	}

	config := load()
	if err := config.validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	GlobalConfig = config
	return nil
}

func load() *Config {
	environment := utils.GetEnv("ENVIRONMENT", "development")
	production := environment == "production"
	serverURL := strings.TrimSuffix(utils.GetEnv("SERVER_URL", "http://localhost:8080"), "/")

	return &Config{
		Server: ServerConfig{
			Port:         utils.GetEnv("SERVER_PORT", "8080"),
			Environment:  environment,
			ReadTimeout:  seconds("SERVER_READ_TIMEOUT_SECONDS", 15),
			WriteTimeout: seconds("SERVER_WRITE_TIMEOUT_SECONDS", 15),
			IdleTimeout:  seconds("SERVER_IDLE_TIMEOUT_SECONDS", 60),
		},
		Database: DatabaseConfig{
			Host:            utils.GetEnv("DB_HOST", "localhost"),
			Port:            utils.GetEnv("DB_PORT", "5432"),
			User:            utils.GetEnv("DB_USER", "postgres"),
			Password:        utils.GetEnv("DB_PASSWORD", "postgres"),
			Name:            utils.GetEnv("DB_NAME", "sectors"),
			SSLMode:         utils.GetEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:    utils.GetEnvInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    utils.GetEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: time.Duration(utils.GetEnvInt("DB_CONN_MAX_LIFETIME_MINUTES", 5)) * time.Minute,
			MigrationsPath:  utils.GetEnv("DB_MIGRATIONS_PATH", "migrations"),
		},
		Redis: RedisConfig{
			Enabled:  utils.GetEnvBool("REDIS_ENABLED", true),
			URL:      utils.GetEnv("REDIS_URL", ""),
			Host:     utils.GetEnv("REDIS_HOST", "localhost"),
			Port:     utils.GetEnv("REDIS_PORT", "6379"),
			Password: utils.GetEnv("REDIS_PASSWORD", ""),
			DB:       utils.GetEnvInt("REDIS_DB", 0),
		},
		Auth: AuthConfig{
			JWTSecret:       utils.GetEnv("JWT_SECRET", ""),
			TokenExpiration: time.Duration(utils.GetEnvInt("JWT_EXPIRATION_HOURS", 24)) * time.Hour,
			CookieSecure:    production,
			CookieSameSite:  utils.GetEnv("COOKIE_SAME_SITE", "lax"),
		},
		OAuth: OAuthConfig{
			Google:  oauthProvider("GOOGLE", serverURL+"/auth/google/callback", "openid", "profile", "email"),
			GitHub:  oauthProvider("GITHUB", serverURL+"/auth/github/callback", "user:email"),
			Discord: oauthProvider("DISCORD", serverURL+"/auth/discord/callback", "identify", "email"),
		},
		Frontend: FrontendConfig{
			URL:       utils.GetEnv("FRONTEND_URL", "http://localhost:3000"),
			CORSDebug: utils.GetEnvBool("CORS_DEBUG", false),
		},
		Logging: LoggingConfig{
			Level:      utils.GetEnv("LOG_LEVEL", "debug"),
			JSONFormat: production || strings.EqualFold(utils.GetEnv("LOG_FORMAT", "text"), "json"),
		},
		RateLimit: RateLimitConfig{
			Enabled:           utils.GetEnvBool("RATE_LIMIT_ENABLED", true),
			RequestsPerSecond: utils.GetEnvFloat("RATE_LIMIT_REQUESTS_PER_SECOND", 10),
			BurstSize:         utils.GetEnvInt("RATE_LIMIT_BURST_SIZE", 20),
			TrustProxy:        utils.GetEnvBool("RATE_LIMIT_TRUST_PROXY", false),
		},
		Sector: SectorConfig{
			DefaultRows:    utils.GetEnvInt("SECTOR_DEFAULT_ROWS", 10),
			DefaultColumns: utils.GetEnvInt("SECTOR_DEFAULT_COLUMNS", 8),
			Limit:          utils.GetEnvInt("SECTOR_LIMIT", 10),
			GeneratedTTL:   time.Duration(utils.GetEnvInt("GENERATED_SECTOR_TTL_MINUTES", 60)) * time.Minute,
		},
		Local: LocalStoreConfig{
			Path: utils.GetEnv("LOCAL_DB_PATH", "sectors-local.db"),
		},
	}
}

func seconds(key string, fallback int) time.Duration {
	return time.Duration(utils.GetEnvInt(key, fallback)) * time.Second
}

// oauthProvider reads <PREFIX>_CLIENT_ID and <PREFIX>_CLIENT_SECRET.
func oauthProvider(prefix, redirectURL string, scopes ...string) OAuthProviderConfig {
	return OAuthProviderConfig{
		ClientID:     utils.GetEnv(prefix+"_CLIENT_ID", ""),
		ClientSecret: utils.GetEnv(prefix+"_CLIENT_SECRET", ""),
		RedirectURL:  redirectURL,
		Scopes:       scopes,
	}
}

func (c *Config) validate() error {
	switch {
	case c.Auth.JWTSecret == "":
		return fmt.Errorf("JWT_SECRET is required")
	case len(c.Auth.JWTSecret) < 32:
		return fmt.Errorf("JWT_SECRET must be at least 32 characters long")
	case c.Server.Port == "":
		return fmt.Errorf("SERVER_PORT is required")
	case c.Database.Host == "" || c.Database.Name == "":
		return fmt.Errorf("DB_HOST and DB_NAME are required")
	case !inGrid(c.Sector.DefaultRows):
		return fmt.Errorf("SECTOR_DEFAULT_ROWS must be between 1 and 99")
	case !inGrid(c.Sector.DefaultColumns):
		return fmt.Errorf("SECTOR_DEFAULT_COLUMNS must be between 1 and 99")
	case c.Sector.GeneratedTTL <= 0:
		return fmt.Errorf("GENERATED_SECTOR_TTL_MINUTES must be positive")
	case c.Local.Path == "":
		return fmt.Errorf("LOCAL_DB_PATH is required")
	}
	return nil
}

func inGrid(n int) bool {
	return n >= 1 && n <= 99
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}
