package config

// EnvPrefix is passed to envconfig; individual fields carry explicit names so
// the prefix only matters for fields without one.
const EnvPrefix = "LEARNLOOP"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv                 = "LEARNLOOP_APP_ENV"
	EnvPort                   = "LEARNLOOP_APP_PORT"
	EnvDBDSN                  = "LEARNLOOP_DB_DSN"
	EnvDBHost                 = "LEARNLOOP_DB_HOST"
	EnvDBUser                 = "LEARNLOOP_DB_USER"
	EnvDBName                 = "LEARNLOOP_DB_NAME"
	EnvRedisURL               = "LEARNLOOP_REDIS_URL"
	EnvJWTSecret              = "LEARNLOOP_JWT_SECRET"
	EnvJWTIssuer              = "LEARNLOOP_JWT_ISSUER"
	EnvJWTExpMins             = "LEARNLOOP_JWT_EXPIRATION_MINUTES"
	EnvRefreshTokenTTLMinutes = "LEARNLOOP_REFRESH_TOKEN_TTL_MINUTES"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
