package env

const (
	// Prefix is the prefix of every fxquotes environment variable
	Prefix = "FXQUOTES"

	// DBURLSuffix is the suffix of the Postgres connection string variable
	DBURLSuffix = "_DB_URL"
)
