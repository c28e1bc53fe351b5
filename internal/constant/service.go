package constant

import "time"

const (
	// SlimHeaderKey is to indicate whether the current request shall be ignored by Sentry transaction tracing.
	// This is typically used by probes to avoid useless data being sent to Sentry.
	SlimHeaderKey = "X-Slim"

	IdempotencyLifetime = 24 * time.Hour

	// FrameQueueGroup is the JetStream queue group shared by every frame worker replica.
	FrameQueueGroup = "posecoach-frame-workers"
)
