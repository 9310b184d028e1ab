package buildinfo

import "fmt"

// Set through -ldflags "-X" at release time.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

func String() string {
	return fmt.Sprintf("ordercompat %s (commit=%s, date=%s)", Version, Commit, Date)
}
