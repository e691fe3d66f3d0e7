// Package constants centralizes tuning values shared across DrivePort packages.
package constants

import (
	"time"
)

// Document store paging
const (
	// ListPageSize - maximum documents returned per list request.
	// The platform caps list responses at 100 documents; exhaustive fetches
	// page with cursors until a short page comes back.
	ListPageSize = 100
)

// Upload behavior
const (
	// DefaultMaxConcurrentUploads - per-manager cap on simultaneously running
	// transfers. 0 disables the cap entirely (every item in a batch starts
	// immediately), matching the web client's behavior on small batches.
	DefaultMaxConcurrentUploads = 6

	// ProgressThrottle - minimum interval between progress bar redraws.
	// Coarser repaints keep terminal traffic reasonable on fast links
	// without hurting percentage resolution.
	ProgressThrottle = 100 * time.Millisecond
)

// Credential minting
const (
	// TokenExpiryMargin - a cached storage token is considered stale once it
	// is within this margin of its expiry. Matches the minting endpoint's
	// guidance of refreshing no later than 60s before expireAt.
	TokenExpiryMargin = 60 * time.Second
)

// Search tuning
const (
	// SearchThreshold - normalized match scores at or below this value count
	// as hits. Lower is a better match.
	SearchThreshold = 0.45

	// SuggestionCeiling - scores above the hit threshold but at or below this
	// value still qualify as "did you mean" suggestion material.
	SuggestionCeiling = 0.75

	// DefaultSearchLimit - hits returned when the caller does not specify one.
	DefaultSearchLimit = 12

	// MaxSuggestions - upper bound on deduplicated suggestion names.
	MaxSuggestions = 8

	// SearchDebounce - quiet period after the last keystroke before a
	// debounced search fires.
	SearchDebounce = 300 * time.Millisecond
)

// Retry configuration for document-store requests
const (
	// MaxRetries - retryablehttp attempts beyond the first request.
	MaxRetries = 5

	// RetryWaitMin - initial backoff delay.
	RetryWaitMin = 500 * time.Millisecond

	// RetryWaitMax - backoff ceiling.
	RetryWaitMax = 15 * time.Second
)

// Rate limiting
const (
	// DocStoreRatePerSec - steady-state request rate against the document
	// store (80% of the platform's per-session allowance).
	DocStoreRatePerSec = 8.0

	// DocStoreBurstCapacity - bucket size; allows short bursts such as the
	// two-collection fetch at the start of a search.
	DocStoreBurstCapacity = 40.0
)

// HTTP transport tuning
const (
	// HTTPIdleConnTimeout - how long idle pooled connections are kept.
	HTTPIdleConnTimeout = 90 * time.Second

	// HTTPTLSHandshakeTimeout - TLS handshake deadline.
	HTTPTLSHandshakeTimeout = 30 * time.Second

	// HTTPResponseHeaderTimeout - time to first response header. Transfers
	// themselves carry no client-side deadline; cancellation is user-driven.
	HTTPResponseHeaderTimeout = 60 * time.Second
)

// Notices
const (
	// NoticeDedupeWindow - identical notice texts inside this window collapse
	// into one.
	NoticeDedupeWindow = 5 * time.Second
)
