package config

const (
	// EnvPrefix namespaces every GPTX environment variable.
	EnvPrefix = "GPTX"

	AppEnvDev  = "development"
	AppEnvProd = "production"

	EnvAppEnv   = "GPTX_APP_ENV"
	EnvPort     = "GPTX_APP_PORT"
	EnvDBDSN    = "GPTX_DB_DSN"
	EnvDBHost   = "GPTX_DB_HOST"
	EnvDBUser   = "GPTX_DB_USER"
	EnvDBName   = "GPTX_DB_NAME"
	EnvRedisURL = "GPTX_REDIS_URL"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
