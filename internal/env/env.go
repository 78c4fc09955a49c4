// Env package describes settings common to the whole application
package env

import "time"

const (
	// Stream and API clients expect ISO8601 timestamps.
	// RFC3339 is a stricter version of ISO8601, so it is safe to use here.
	TimeFormat = time.RFC3339

	// Prefix of all shell configuration variables
	ConfigPrefix = "NETPROBE_"
)
