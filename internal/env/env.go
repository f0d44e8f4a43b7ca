// Package env resolves the deployment environment once, from the ENV
// variable. Anything unrecognized falls back to local.
package env

import "os"

type Environment string

const (
	Local      Environment = "local"
	Production Environment = "production"
)

// Current is the process-wide environment, resolved at startup.
var Current = resolve(os.Getenv("ENV"))

func resolve(v string) Environment {
	if e := Environment(v); e == Production {
		return e
	}
	return Local
}

// IsProduction reports whether the process runs in production, which
// hardens cookie attributes.
func IsProduction() bool { return Current == Production }
