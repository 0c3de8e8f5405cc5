// Package guard switches the process into test mode when imported by test helpers.
package guard

import (
	"os"
	"sync"
)

// ModeEnv is the environment variable read by app.InTestMode.
const ModeEnv = "STOCKROOM_TEST_MODE"

var once sync.Once

func init() {
	once.Do(func() {
		if os.Getenv(ModeEnv) == "" {
			_ = os.Setenv(ModeEnv, "1")
		}
	})
}
