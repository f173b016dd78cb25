package procs

import (
	"os"
	"testing"

	"github.com/arthur-debert/devsetup/pkg/logging"
)

func TestMain(m *testing.M) {
	logging.Disable()
	os.Exit(m.Run())
}
