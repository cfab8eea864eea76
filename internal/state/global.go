package state

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	config_global "github.com/AlexTransit/teller/internal/config"
	"github.com/AlexTransit/teller/internal/teller"
	"github.com/AlexTransit/teller/log2"
	tele_api "github.com/AlexTransit/teller/tele"
	"github.com/juju/errors"
	"github.com/temoto/alive/v2"
)

type Global struct {
	Alive        *alive.Alive
	BuildVersion string
	Config       *config_global.Config
	Log          *log2.Log
	Tele         tele_api.Teler
	Teller       *teller.Machine
}

const ContextKey = "run/state-global"

func GetGlobal(ctx context.Context) *Global {
	v := ctx.Value(ContextKey)
	if v == nil {
		panic(fmt.Sprintf("context['%s'] is nil", ContextKey))
	}
	if g, ok := v.(*Global); ok {
		return g
	}
	panic(fmt.Sprintf("context['%s'] expected type *Global actual=%#v", ContextKey, v))
}

func (g *Global) Init(ctx context.Context, cfg *config_global.Config) error {
	g.Config = cfg
	g.Log.Infof("build version=%s", g.BuildVersion)
	if cfg.Teller.LogDebug {
		g.Log.SetLevel(log2.LDebug)
	}

	set, err := cfg.NominalSet()
	if err != nil {
		return err
	}

	// Tele.Init gets g.Log clone before SetErrorFunc, so Tele.Log.Error doesn't recurse on itself
	if err := g.Tele.Init(ctx, g.Log.Clone(log2.LInfo), cfg.Tele); err != nil {
		g.Tele = tele_api.Noop{}
		return errors.Annotate(err, "tele init")
	}
	g.Log.SetErrorFunc(g.Tele.Error)

	if g.BuildVersion == "unknown" {
		g.Log.Warning("build version is not set, please use script/build")
	} else if cfg.Tele.VmId > 0 && strings.HasSuffix(g.BuildVersion, "-dirty") { // vmid<=0 is staging
		g.Log.Warning("running development build with uncommited changes, bad idea for production")
	}

	g.Teller = teller.New(set, teller.WithLog(g.Log), teller.WithTele(g.Tele))
	g.Log.Debugf("teller nominals=%v", set.Nominals())
	g.Tele.State(g.Teller.Snapshot())
	return nil
}

func (g *Global) MustInit(ctx context.Context, cfg *config_global.Config) {
	if err := g.Init(ctx, cfg); err != nil {
		g.Fatal(err)
	}
}

func (g *Global) Error(err error, args ...interface{}) {
	if err != nil {
		if len(args) != 0 {
			msg := args[0].(string)
			args = args[1:]
			err = errors.Annotatef(err, msg, args...)
		}
		g.Log.Error(err)
	}
}

func (g *Global) Fatal(err error, args ...interface{}) {
	if err != nil {
		g.Error(err, args...)
		g.StopWait(5 * time.Second)
		g.Log.Fatal(errors.ErrorStack(err))
		os.Exit(1)
	}
}

// Stop sends final state, closes tele and releases Alive.
func (g *Global) Stop() {
	if g.Teller != nil {
		g.Tele.State(g.Teller.Snapshot())
	}
	g.Tele.Close()
	g.Alive.Stop()
}

func (g *Global) StopWait(timeout time.Duration) bool {
	g.Stop()
	select {
	case <-g.Alive.WaitChan():
		return true
	case <-time.After(timeout):
		return false
	}
}
