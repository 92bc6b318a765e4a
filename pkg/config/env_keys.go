package config

// EnvPrefix scopes every environment variable this process reads.
const EnvPrefix = "SHOPKART"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

const (
	EnvAppEnv    = "SHOPKART_APP_ENV"
	EnvPort      = "SHOPKART_APP_PORT"
	EnvDBDSN     = "SHOPKART_DB_DSN"
	EnvDBHost    = "SHOPKART_DB_HOST"
	EnvDBUser    = "SHOPKART_DB_USER"
	EnvDBName    = "SHOPKART_DB_NAME"
	EnvRedisURL  = "SHOPKART_REDIS_URL"
	EnvJWTSecret = "SHOPKART_JWT_SECRET"
	EnvJWTIssuer = "SHOPKART_JWT_ISSUER"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
