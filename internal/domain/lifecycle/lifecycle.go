// Package lifecycle holds shared start/stop tuning for fx hooks.
package lifecycle

import "time"

// DefaultTimeout bounds every OnStart/OnStop hook (DB ping, HTTP shutdown).
const DefaultTimeout = 10 * time.Second
