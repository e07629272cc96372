// Package guard marks the process as a test run when imported. Mains check
// app.InTestMode, which reads the variable lazily on first use, and skip
// runtime startup — so accidental go test invocations of cmd packages never
// open sockets or connections.
package guard

import (
	"os"
	"sync"
)

var once sync.Once

func init() {
	once.Do(func() {
		if os.Getenv("STOCKMASTER_TEST_MODE") == "" {
			_ = os.Setenv("STOCKMASTER_TEST_MODE", "1")
		}
	})
}
