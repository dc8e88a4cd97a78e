package config

const (
	// EnvPrefix is passed to envconfig; individual fields carry fully
	// prefixed names, so this stays empty.
	EnvPrefix = ""

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "SHOPKART_DB_DSN"
	EnvDBHost = "SHOPKART_DB_HOST"
	EnvDBUser = "SHOPKART_DB_USER"
	EnvDBName = "SHOPKART_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
