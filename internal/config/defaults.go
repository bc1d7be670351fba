package config

const (
	defaultLibraryDir     = "~/library"
	defaultLogDir         = "~/.local/share/reclaim/logs"
	defaultDBHost         = "localhost"
	defaultDBPort         = 5432
	defaultDBName         = "immich"
	defaultDBUser         = "postgres"
	defaultSSLMode        = "disable"
	defaultRequestTimeout = 30
	defaultMinDimension   = 1080
	defaultUploadPrefix   = "upload/"
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LibraryDir: defaultLibraryDir,
			LogDir:     defaultLogDir,
		},
		Database: Database{
			Host:    defaultDBHost,
			Port:    defaultDBPort,
			Name:    defaultDBName,
			User:    defaultDBUser,
			SSLMode: defaultSSLMode,
		},
		Indexer: Indexer{
			RequestTimeout: defaultRequestTimeout,
		},
		Reconcile: Reconcile{
			MinDimension: defaultMinDimension,
			UploadPrefix: defaultUploadPrefix,
			BulkRefresh:  true,
		},
		Report: Report{
			Enabled: true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
