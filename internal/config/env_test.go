package config

import (
	"os"
	"testing"
)

// unsetForTest removes keys for the duration of the test. The keys must have
// been registered with t.Setenv first so they are restored afterwards.
func unsetForTest(t *testing.T, keys ...string) {
	t.Helper()
	for _, key := range keys {
		if err := os.Unsetenv(key); err != nil {
			t.Fatalf("unset %s: %v", key, err)
		}
	}
}
