// Sorry, workaround to import cycles.
package state_new

import (
	"context"
	"os"
	"testing"

	config_global "github.com/AlexTransit/teller/internal/config"
	"github.com/AlexTransit/teller/internal/state"
	"github.com/AlexTransit/teller/log2"
	tele_api "github.com/AlexTransit/teller/tele"
	"github.com/juju/errors"
	"github.com/temoto/alive/v2"
)

func NewContext(log *log2.Log, teler tele_api.Teler) (context.Context, *state.Global) {
	if log == nil {
		panic("code error NewContext() log=nil")
	}

	g := &state.Global{
		Alive: alive.NewAlive(),
		Log:   log,
		Tele:  teler,
	}
	ctx := context.Background()
	ctx = context.WithValue(ctx, state.ContextKey, g)

	return ctx, g
}

func NewTestContext(t testing.TB, buildVersion string, confString string) (context.Context, *state.Global) {
	fs := config_global.MapReader{
		"test-inline": confString,
	}

	var log *log2.Log
	if os.Getenv("teller_test_log_stderr") == "1" {
		log = log2.NewStderr(log2.LDebug) // useful with panics
	} else {
		log = log2.NewTest(t, log2.LDebug)
	}
	log.SetFlags(log2.LTestFlags)
	ctx, g := NewContext(log, tele_api.Noop{})
	g.BuildVersion = buildVersion
	cfg, err := config_global.ReadConfig(log, fs, "test-inline")
	if err != nil {
		t.Fatal(errors.ErrorStack(err))
	}
	if err := g.Init(ctx, cfg); err != nil {
		t.Fatal(errors.ErrorStack(err))
	}
	return ctx, g
}
