package base

import (
	"log/slog"
	"time"
)

var HttpPort = EnvVar("HTTP_PORT", "8080")
var DefaultShapesVersion = EnvVar("DEFAULT_SHAPES_VERSION", "1")
var FetchTimeout = time.Duration(EnvVarAsInt("FETCH_TIMEOUT_SECONDS", 30)) * time.Second

// MaxUploadBytes caps the request body of the validator endpoint. 50 MiB.
var MaxUploadBytes = int64(EnvVarAsInt("MAX_UPLOAD_BYTES", 50*1024*1024))

var ShapesCatalogFile = EnvVar("SHAPES_CATALOG", "")
var PrewarmShapes = EnvVarAsBool("PREWARM_SHAPES", false)

// var SyncSchedule = EnvVar("CRON", "0 * * * *") // every hour
var SyncSchedule = EnvVar("CRON", "")

var logLevel = EnvVar("LOG_LEVEL", "INFO")

func init() {
	// set log level
	var level slog.Level
	if err := level.UnmarshalText([]byte(logLevel)); err == nil {
		slog.SetLogLoggerLevel(level)
	}
}
