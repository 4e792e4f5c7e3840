package shared

import "time"

// HTTP Client Configuration
const (
	DefaultHTTPTimeout         = 60 * time.Second
	DefaultGenerationTimeout   = 30 * time.Second
	DefaultShutdownTimeout     = 30 * time.Second
	DefaultDialTimeout         = 2 * time.Second
	DefaultTLSHandshakeTimeout = 2 * time.Second
)

// Provider Configuration
const (
	ProviderGemini      = "gemini"
	ProviderOpenAI      = "openai"
	DefaultGeminiModel  = "gemini-pro"
	DefaultMaxTokens    = 32
	DefaultTemperature  = 0.9
	GeminiAPIKeyEnvName = "GEMINI_API_KEY"
)

// Rate Limit Configuration
const (
	RateLimitWindow     = 1 * time.Minute
	DefaultRateLimitRPM = 0 // disabled
)

// History Configuration
const (
	HistoryFlushInterval = 1 * time.Minute
	HistoryBatchSize     = 100
	HistoryRetryDelay    = 5 * time.Second
	MaxFlushRetries      = 3
)

// History column limits, in bytes
const (
	MaxStoredPromptLen     = 65535 // TEXT
	MaxStoredIdentifierLen = 255   // VARCHAR(255)
)

// Request Configuration
const (
	CORSMaxAge         = 3600
	MaxRequestBodySize = "64K"
)
