package guard

import (
	"os"
	"testing"
)

func TestImportMarksProcessAsTestRun(t *testing.T) {
	if got := os.Getenv("STOCKMASTER_TEST_MODE"); got != "1" {
		t.Fatalf("expected STOCKMASTER_TEST_MODE=1 after import, got %q", got)
	}
}
