package model

import "time"

// Shared defaults used by both the TUI and the mirror binaries.
const (
	DefaultAPIBaseURL      = "https://api.tvmaze.com"
	DefaultRequestTimeout  = 130 * time.Second
	DefaultMaxRetries      = 2
	DefaultSearchDebounce  = 300 * time.Millisecond
	DefaultMirrorAddr      = "127.0.0.1:8787"
	DefaultWarmPages       = 3
	DefaultWarmConcurrency = 4
)
