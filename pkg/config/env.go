package config

const (
	EnvPrefix = "FRUITNUT"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DBDriverPostgres = "postgres"
	DBDriverSQLite   = "sqlite"

	EnvAppEnv                 = "FRUITNUT_APP_ENV"
	EnvPort                   = "FRUITNUT_APP_PORT"
	EnvLogFormat              = "FRUITNUT_LOG_FORMAT"
	EnvDBDSN                  = "FRUITNUT_DB_DSN"
	EnvDBDriver               = "FRUITNUT_DB_DRIVER"
	EnvDBHost                 = "FRUITNUT_DB_HOST"
	EnvDBUser                 = "FRUITNUT_DB_USER"
	EnvDBName                 = "FRUITNUT_DB_NAME"
	EnvRedisURL               = "FRUITNUT_REDIS_URL"
	EnvJWTSecret              = "FRUITNUT_JWT_SECRET"
	EnvJWTIssuer              = "FRUITNUT_JWT_ISSUER"
	EnvJWTExpMins             = "FRUITNUT_JWT_EXPIRATION_MINUTES"
	EnvRefreshTokenTTLMinutes = "FRUITNUT_REFRESH_TOKEN_TTL_MINUTES"
	EnvRateLimitRPS           = "FRUITNUT_RATE_LIMIT_RPS"
	EnvRateLimitBurst         = "FRUITNUT_RATE_LIMIT_BURST"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
