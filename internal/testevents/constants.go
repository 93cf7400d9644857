package testevents

import "time"

// Simulation defaults.
const (
	DefaultTeams              = 8
	DefaultSubmissionsPerTeam = 2
	DefaultSoloSubmissions    = 2
	DefaultJudges             = 3
	DefaultRounds             = 2
	DefaultCoverage           = 80
	DefaultRescores           = 5
)

// Worker configuration constants.
const (
	WorkerChannelMultiplier = 2
)

// Rate limit handling.
const (
	RateLimitBackoff     = 200 * time.Millisecond
	MaxRateLimitAttempts = 50
)

// Runner configuration constants.
const (
	PercentageMultiplier = 100
	maxTeamMembers       = 4
	directoryPermission  = 0750
	filePermission       = 0600
)
