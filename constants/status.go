package constants

// RunStatus is the canonical status for rows in runs.
type RunStatus string

// Stable values (store these exact strings in DB).
const (
	RunStatusQueued    RunStatus = "QUEUED"    // accepted, not started
	RunStatusRunning   RunStatus = "RUNNING"   // in progress
	RunStatusTextOK    RunStatus = "TEXT_OK"   // datasheet text extracted
	RunStatusCompleted RunStatus = "COMPLETED" // all combinations processed
	RunStatusFailed    RunStatus = "FAILED"    // terminal failure
)
