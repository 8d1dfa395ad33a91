package common

import "time"

const (
	// MaxContentLength bounds message content, in runes.
	MaxContentLength = 500

	// MissionTarget is the number of distinct recipients a user must message
	// to complete the mission and unlock the full customization palette.
	MissionTarget = 3

	// Submission deadlines. The network deadline bounds the remote insert
	// itself; the safety deadline is the hard stop after which the in-flight
	// guard is force-released even if the insert goroutine never came back.
	DefaultNetworkTimeout = 10 * time.Second
	DefaultSafetyTimeout  = 15 * time.Second

	// Budget for the best-effort mission refresh after a submission.
	MissionRefreshTimeout = 5 * time.Second
)
