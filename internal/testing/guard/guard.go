// Package guard flips the test-mode flag before any package init that
// might start runtime side effects. Import it for effect in tests.
package guard

import (
	"os"
	"sync"
)

var once sync.Once

func init() {
	once.Do(func() {
		if os.Getenv("LEAFMARK_TEST_MODE") == "" {
			_ = os.Setenv("LEAFMARK_TEST_MODE", "1")
		}
	})
}
