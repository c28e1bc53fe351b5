package appconfig

import (
	"time"

	"exusiai.dev/posecoach/internal/app/appcontext"
)

type ConfigSpec struct {
	// ServiceAddress is the listen address would listen on for serving normal service requests.
	ServiceAddress string `required:"true" split_words:"true" default:"localhost:9010"`

	// DevOpsAddress is the listen address would listen on for serving devops requests (pprof, fgprof).
	// Leaving this empty will disable devops server.
	DevOpsAddress string `split_words:"true"`

	// LogJsonStdout is whether to log JSON logs (instead of pretty-print logs) to stdout for the ease of log collection.
	LogJsonStdout bool `split_words:"true" default:"false"`

	// LogFile is the path of the rotated log file. Leaving this empty disables file logging.
	LogFile string `split_words:"true" default:"logs/app.log"`

	// TrustedProxies is a list of trusted proxies that are trusted to report a real IP via the X-Forwarded-For header.
	TrustedProxies []string `required:"true" split_words:"true" default:"::1,127.0.0.1,10.0.0.0/8"`

	// DevMode to indicate development mode. When true, the program would spin up utilities for debugging and
	// provide a more contextual message when encountered a panic.
	DevMode bool `split_words:"true"`

	// TracingEnabled to indicate whether to enable OpenTelemetry tracing.
	TracingEnabled bool `split_words:"true"`

	// TracingExporters to indicate which exporters to use for tracing.
	// Valid values are: jaeger, otlp, stdout (for debug).
	TracingExporters []string `split_words:"true" default:"jaeger"`

	// TracingSampleRate to indicate the sampling rate for tracing.
	TracingSampleRate float64 `split_words:"true" default:"1.0"`

	// infrastructure components connection instructions

	// PostgresDSN is the data source name for the PostgreSQL database. See
	// https://bun.uptrace.dev/postgres/#pgdriver for more details on how to construct a PostgreSQL DSN.
	PostgresDSN string `required:"true" split_words:"true"`

	PostgresMaxOpenConns    int           `split_words:"true" default:"10"`
	PostgresMaxIdleConns    int           `split_words:"true" default:"2"`
	PostgresConnMaxLifeTime time.Duration `split_words:"true" default:"5m"`
	PostgresConnMaxIdleTime time.Duration `split_words:"true" default:"5m"`

	BunDebugVerbose bool `split_words:"true"`

	// NatsURL is the URL of the NATS server. See https://pkg.go.dev/github.com/nats-io/nats.go#Connect
	NatsURL string `required:"true" split_words:"true" default:"nats://127.0.0.1:4222"`

	// RedisURL is the URL of the Redis server. See https://pkg.go.dev/github.com/redis/go-redis/v9#ParseURL
	RedisURL string `required:"true" split_words:"true" default:"redis://127.0.0.1:6379/1"`

	// InfraConnectAttempts is how many times a connection check against postgres, redis and nats
	// is attempted during startup before giving up.
	InfraConnectAttempts uint `split_words:"true" default:"5"`

	// SentryDSN is the DSN of the Sentry server. See https://pkg.go.dev/github.com/getsentry/sentry-go#ClientOptions
	SentryDSN string `split_words:"true"`

	// DatadogProfilerEnabled to indicate whether to enable Datadog profiler.
	DatadogProfilerEnabled bool `split_words:"true" default:"false"`

	// DatadogProfilerAgentAddress is the address of the Datadog profiler agent.
	DatadogProfilerAgentAddress string `split_words:"true" default:"localhost:8126"`

	// ArchiveBucket is the S3 bucket reference archives are uploaded to.
	// Leaving this empty disables archiving.
	ArchiveBucket string `split_words:"true"`

	// ArchiveRegion is the AWS region of ArchiveBucket.
	ArchiveRegion string `split_words:"true" default:"us-east-1"`

	// ArchiveAccessKeyID and ArchiveSecretAccessKey are static credentials for the archive bucket.
	// When left empty the default AWS credential chain is used.
	ArchiveAccessKeyID     string `split_words:"true"`
	ArchiveSecretAccessKey string `split_words:"true"`

	// HTTPServerShutdownTimeout is the timeout for the HTTP server to shut down gracefully.
	HTTPServerShutdownTimeout time.Duration `required:"true" split_words:"true" default:"60s"`

	// AdminKey is the key used to authenticate the admin API.
	AdminKey string `split_words:"true"`

	// pose comparison

	// PoseSchema is the landmark catalog frames and references are expressed in.
	// Valid values are: blazepose33, coco15.
	PoseSchema string `required:"true" split_words:"true" default:"blazepose33"`

	// PoseAngleFormulation is how joint angles are derived from landmark triplets. It must stay
	// the same for the whole deployment; references derived under another formulation are re-derived
	// from their stored landmarks before being compared against.
	// Valid values are: cosine, bearing.
	PoseAngleFormulation string `required:"true" split_words:"true" default:"cosine"`

	// PoseTolerance is the allowed deviation of a joint, as a fraction of the reference angle.
	PoseTolerance float64 `split_words:"true" default:"0.20"`

	// PoseCorrectThreshold is the accuracy percentage at or above which a frame is labelled "correct".
	PoseCorrectThreshold float64 `split_words:"true" default:"80"`

	// PoseLandmarkMinConfidence is the confidence a landmark needs to be considered usable.
	PoseLandmarkMinConfidence float64 `split_words:"true" default:"0.5"`

	// PoseVisibleFraction is the fraction of the schema's landmarks that need to be usable
	// for a capture to count as a full body.
	PoseVisibleFraction float64 `split_words:"true" default:"0.6"`

	// PoseCaptureGateExpr is an optional extra capture rule evaluated after the visibility gate.
	// The expression sees `visible`, `total`, `fraction` and `landmarks`; it must evaluate to a bool.
	PoseCaptureGateExpr string `split_words:"true"`

	// SessionIdleTTL is how long a comparison session is kept around without any activity.
	SessionIdleTTL time.Duration `required:"true" split_words:"true" default:"30m"`

	// FeedbackStreamInterval is how often the feedback stream checks for a newly published frame.
	FeedbackStreamInterval time.Duration `required:"true" split_words:"true" default:"100ms"`

	// FrameWorkerEnabled is a flag to indicate whether to consume frames from NATS JetStream.
	FrameWorkerEnabled bool `split_words:"true"`

	// FrameWorkerConcurrency is the number of frames being processed concurrently by a worker instance.
	FrameWorkerConcurrency int `split_words:"true" default:"4"`

	// FrameWorkerTimeout describes the timeout for a single frame to be processed.
	FrameWorkerTimeout time.Duration `required:"true" split_words:"true" default:"2s"`
}

type Config struct {
	// ConfigSpec is the configuration specification injected to the config.
	ConfigSpec

	// AppContext is the application context
	AppContext appcontext.Ctx
}
