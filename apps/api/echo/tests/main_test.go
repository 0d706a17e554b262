package tests

import (
	"os"
	"testing"

	"github.com/trezcool/maoni/core"
)

func TestMain(m *testing.M) {
	_ = os.Setenv("ENV", "TEST")
	core.NewConfig()
	core.Conf.Debug = false // keep the error handler's prod-mode responses

	os.Exit(m.Run())
}
