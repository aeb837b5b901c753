package config

import "time"

const (
	DefaultDataURL = "https://github.com/natachasena2023-sys/bootcam_analisis/raw/refs/heads/main/" +
		"Listado_de_Negocios_Verdes_20251025.csv"
	DefaultDatasetVersion = "20251025"
	DefaultFetchTimeout   = 30 * time.Second

	// An empty Mongo URI disables the snapshot store.
	DefaultMongoURI          = ""
	DefaultMongoDatabaseName = "negocios_verdes"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort      = "8080"
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	DefaultRequestTimeout = 60 * time.Second
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 90 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultEnvFile = ".env"

	DefaultPaginationLimit = 1000
	fallbackPageSize       = 10
)
