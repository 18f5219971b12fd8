package config

// EnvPrefix namespaces every environment variable consumed by the service.
const EnvPrefix = "UNLOCK"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvDBDSN  = "UNLOCK_DB_DSN"
	EnvDBHost = "UNLOCK_DB_HOST"
	EnvDBUser = "UNLOCK_DB_USER"
	EnvDBName = "UNLOCK_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
