package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	Admin         AdminConfig
	Wizard        WizardConfig
	Storage       StorageConfig
	Advisor       AdvisorConfig
	CORS          CORSConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"UNLOCK_APP_ENV" required:"true"`
	Port         string `envconfig:"UNLOCK_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"UNLOCK_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"UNLOCK_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"UNLOCK_DB_DSN"`
	Driver string `envconfig:"UNLOCK_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"UNLOCK_DB_HOST"`
	LegacyPort     int    `envconfig:"UNLOCK_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"UNLOCK_DB_USER"`
	LegacyPassword string `envconfig:"UNLOCK_DB_PASSWORD"`
	LegacyName     string `envconfig:"UNLOCK_DB_NAME"`
	LegacySSLMode  string `envconfig:"UNLOCK_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"UNLOCK_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"UNLOCK_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"UNLOCK_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"UNLOCK_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"UNLOCK_REDIS_URL" required:"true"`
	Address      string        `envconfig:"UNLOCK_REDIS_ADDR"`
	Password     string        `envconfig:"UNLOCK_REDIS_PASSWORD"`
	DB           int           `envconfig:"UNLOCK_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"UNLOCK_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"UNLOCK_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"UNLOCK_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"UNLOCK_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"UNLOCK_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"UNLOCK_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"UNLOCK_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"UNLOCK_JWT_EXPIRATION_MINUTES" default:"1440"`
}

// AccessTokenTTL returns the access token lifetime.
func (j JWTConfig) AccessTokenTTL() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"UNLOCK_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"UNLOCK_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"UNLOCK_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"UNLOCK_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"UNLOCK_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"UNLOCK_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"UNLOCK_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"UNLOCK_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"UNLOCK_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"UNLOCK_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"UNLOCK_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"UNLOCK_AUTO_MIGRATE" default:"false"`
}

type AdminConfig struct {
	// BootstrapEmail is always treated as an admin regardless of the
	// grant table, so the console stays reachable if grants are wiped.
	BootstrapEmail string `envconfig:"UNLOCK_ADMIN_BOOTSTRAP_EMAIL" default:"admin@unlockglobal.com"`
}

type WizardConfig struct {
	DraftTTL        time.Duration `envconfig:"UNLOCK_WIZARD_DRAFT_TTL" default:"24h"`
	RequireAnalysis bool          `envconfig:"UNLOCK_WIZARD_REQUIRE_ANALYSIS" default:"false"`
	MaxUploadMB     int           `envconfig:"UNLOCK_WIZARD_MAX_UPLOAD_MB" default:"5"`
}

// MaxUploadBytes returns the proof upload ceiling in bytes.
func (w WizardConfig) MaxUploadBytes() int64 {
	return int64(w.MaxUploadMB) * 1024 * 1024
}

type StorageConfig struct {
	BaseURL string `envconfig:"UNLOCK_STORAGE_BASE_URL" required:"true"`
	Bucket  string `envconfig:"UNLOCK_STORAGE_BUCKET" default:"proofs"`
	APIKey  string `envconfig:"UNLOCK_STORAGE_API_KEY"`
}

type AdvisorConfig struct {
	APIKey  string `envconfig:"UNLOCK_ADVISOR_API_KEY"`
	BaseURL string `envconfig:"UNLOCK_ADVISOR_BASE_URL"`
	Model   string `envconfig:"UNLOCK_ADVISOR_MODEL" default:"gemini-2.5-flash"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"UNLOCK_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
