package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"go.uber.org/multierr"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	RateLimit     RateLimitConfig
	FeatureFlags  FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	var err error
	if c.JWT.ExpirationMinutes <= 0 {
		err = multierr.Append(err, fmt.Errorf("%s must be positive", EnvJWTExpMins))
	}
	if c.JWT.RefreshTokenTTLMinutes < c.JWT.ExpirationMinutes {
		err = multierr.Append(err, fmt.Errorf("%s must not be shorter than %s", EnvRefreshTokenTTLMinutes, EnvJWTExpMins))
	}
	switch strings.ToLower(c.DB.Driver) {
	case DBDriverPostgres, DBDriverSQLite:
	default:
		err = multierr.Append(err, fmt.Errorf("%s must be %q or %q", EnvDBDriver, DBDriverPostgres, DBDriverSQLite))
	}
	if c.RateLimit.RequestsPerSecond < 0 || c.RateLimit.Burst < 0 {
		err = multierr.Append(err, fmt.Errorf("%s and %s must not be negative", EnvRateLimitRPS, EnvRateLimitBurst))
	}
	return err
}

type AppConfig struct {
	Env          string `envconfig:"FRUITNUT_APP_ENV" required:"true"`
	Port         string `envconfig:"FRUITNUT_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"FRUITNUT_LOG_LEVEL" default:"info"`
	LogFormat    string `envconfig:"FRUITNUT_LOG_FORMAT" default:"json"`
	LogWarnStack bool   `envconfig:"FRUITNUT_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN           string `envconfig:"FRUITNUT_DB_DSN"`
	Driver        string `envconfig:"FRUITNUT_DB_DRIVER" default:"postgres"`
	MigrationsDir string `envconfig:"FRUITNUT_DB_MIGRATIONS_DIR" default:"pkg/migrate/migrations"`

	LegacyHost     string `envconfig:"FRUITNUT_DB_HOST"`
	LegacyPort     int    `envconfig:"FRUITNUT_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"FRUITNUT_DB_USER"`
	LegacyPassword string `envconfig:"FRUITNUT_DB_PASSWORD"`
	LegacyName     string `envconfig:"FRUITNUT_DB_NAME"`
	LegacySSLMode  string `envconfig:"FRUITNUT_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"FRUITNUT_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"FRUITNUT_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"FRUITNUT_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"FRUITNUT_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"FRUITNUT_REDIS_URL" required:"true"`
	Address      string        `envconfig:"FRUITNUT_REDIS_ADDR"`
	Password     string        `envconfig:"FRUITNUT_REDIS_PASSWORD"`
	DB           int           `envconfig:"FRUITNUT_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"FRUITNUT_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"FRUITNUT_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"FRUITNUT_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"FRUITNUT_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"FRUITNUT_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"FRUITNUT_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"FRUITNUT_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"FRUITNUT_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"FRUITNUT_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	MinLength        int `envconfig:"FRUITNUT_PASSWORD_MIN_LENGTH" default:"6"`
	ArgonMemoryKB    int `envconfig:"FRUITNUT_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"FRUITNUT_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"FRUITNUT_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"FRUITNUT_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"FRUITNUT_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"FRUITNUT_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"FRUITNUT_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"FRUITNUT_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"FRUITNUT_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"FRUITNUT_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"FRUITNUT_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

// RateLimitConfig bounds the in-process per-client request rate.
type RateLimitConfig struct {
	RequestsPerSecond float64       `envconfig:"FRUITNUT_RATE_LIMIT_RPS" default:"20"`
	Burst             int           `envconfig:"FRUITNUT_RATE_LIMIT_BURST" default:"40"`
	IdleTTL           time.Duration `envconfig:"FRUITNUT_RATE_LIMIT_IDLE_TTL" default:"10m"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"FRUITNUT_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}
	if strings.EqualFold(db.Driver, DBDriverSQLite) {
		db.DSN = "file:fruitnut.db?cache=shared"
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
