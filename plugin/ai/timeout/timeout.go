// Package timeout defines centralized timeout constants for AI operations.
package timeout

import "time"

const (
	// RewriteTimeout is the timeout for the question rewrite stage.
	RewriteTimeout = 30 * time.Second

	// RetrieveTimeout is the timeout for the retrieval stage.
	RetrieveTimeout = 30 * time.Second

	// AnswerTimeout is the timeout for the answer stage.
	AnswerTimeout = 2 * time.Minute

	// EmbeddingTimeout is the timeout for embedding generation.
	EmbeddingTimeout = 30 * time.Second

	// MaxTruncateLength is the maximum length for truncating strings in logs.
	MaxTruncateLength = 200
)
