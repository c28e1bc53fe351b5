package constant

const (
	ContextKeyRequestID     = "requestid"
	ContextKeyTranslator    = "T"
	IdempotencyKeyLocalsKey = "idempotencyKey"

	RequestIDHeader      = "X-Posecoach-Request-ID"
	IdempotencyHeader    = "X-Posecoach-Idempotency"
	IdempotencyKeyHeader = "X-Posecoach-Idempotency-Key"
	AdminKeyHeader       = "X-Posecoach-Admin-Key"

	IdempotencyKeyLengthLimit = 128
)
