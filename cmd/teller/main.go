package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"regexp"

	"github.com/AlexTransit/teller/cmd/teller/console"
	"github.com/AlexTransit/teller/cmd/teller/subcmd"
	cmd_tele "github.com/AlexTransit/teller/cmd/teller/tele"
	config_global "github.com/AlexTransit/teller/internal/config"
	state_new "github.com/AlexTransit/teller/internal/state/new"
	"github.com/AlexTransit/teller/internal/tele"
	"github.com/AlexTransit/teller/log2"
)

var (
	log     = log2.NewStderr(log2.LDebug)
	modules = []subcmd.Mod{
		console.Mod,
		cmd_tele.Mod,
		{Name: "config", Usage: "print default config", Main: configMain},
		{Name: "version", Usage: "print build version", Main: versionMain},
	}
)

var (
	BuildVersion  string = "unknown" // set by ldflags -X
	reFlagVersion        = regexp.MustCompile("-?-?version")
)

func main() {
	flagset := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	flagset.Usage = func() {
		fmt.Fprint(flagset.Output(), "Usage: [option...] command\n\nOptions:\n")
		flagset.PrintDefaults()
		fmt.Fprintf(flagset.Output(), "\nCommands:\n%s", subcmd.Usage(modules))
	}
	configPath := flagset.String("config", "/etc/teller/config.hcl", "")
	onlyVersion := flagset.Bool("version", false, "print build version and exit")
	if err := flagset.Parse(os.Args[1:]); err != nil {
		log.Fatal(err)
	}
	if *onlyVersion || reFlagVersion.MatchString(flagset.Arg(0)) {
		_ = versionMain(context.Background(), nil)
		return
	}

	mod, err := subcmd.Parse(flagset.Arg(0), modules)
	if err != nil {
		fmt.Fprintf(flagset.Output(), "command line error: %v\n\n", err)
		flagset.Usage()
		os.Exit(1)
	}
	if subcmd.SdNotify("start") {
		// under systemd assume systemd journal logging, no timestamp
		log.SetFlags(log2.LServiceFlags)
	} else {
		log.SetFlags(log2.LInteractiveFlags)
	}

	ctx, g := state_new.NewContext(log, tele.New())
	g.BuildVersion = BuildVersion
	if mod.NeedConfig {
		g.Config = config_global.MustReadConfig(log, config_global.NewDirReader(), *configPath)
	}
	log.Debugf("starting %s", flagset.Args())

	if err := mod.Main(ctx, flagset.Args()[1:]); err != nil {
		g.Log.Errorf("%v", err)
		os.Exit(1)
	}
}

// configMain prints default config
func configMain(ctx context.Context, _ []string) error {
	_, err := os.Stdout.Write(config_global.WriteDefault())
	return err
}

func versionMain(ctx context.Context, _ []string) error {
	fmt.Printf("teller %s\n", BuildVersion)
	return nil
}
