package config

const (
	EnvPrefix = "SPICEBAZAAR"

	AppEnvDev  = "development"
	AppEnvProd = "production"

	EnvAppEnv   = "SPICEBAZAAR_APP_ENV"
	EnvPort     = "SPICEBAZAAR_APP_PORT"
	EnvDBDSN    = "SPICEBAZAAR_DB_DSN"
	EnvDBHost   = "SPICEBAZAAR_DB_HOST"
	EnvDBUser   = "SPICEBAZAAR_DB_USER"
	EnvDBName   = "SPICEBAZAAR_DB_NAME"
	EnvRedisURL = "SPICEBAZAAR_REDIS_URL"

	EnvJWTSecret = "SPICEBAZAAR_JWT_SECRET"
	EnvJWTIssuer = "SPICEBAZAAR_JWT_ISSUER"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
