// Package process terminates the headless browser started by the chrome rasterizer.
package process

import "errors"

// ErrInvalidPID is returned for a pid that cannot name a process group.
// Zero would target the caller's own group.
var ErrInvalidPID = errors.New("process: pid must be positive")
