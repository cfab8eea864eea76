// Package subcmd dispatches teller command line to one mode: interactive
// console, telemetry decoder or one-shot helpers.
package subcmd

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/coreos/go-systemd/daemon"
	"github.com/juju/errors"
)

type Mod struct {
	Name  string
	Usage string
	// NeedConfig modes get config file read into global state before Main.
	NeedConfig bool
	// Main receives command line arguments after mode name.
	Main func(ctx context.Context, args []string) error
}

// Parse finds mode by command name.
func Parse(command string, modules []Mod) (Mod, error) {
	if command == "" {
		return Mod{}, errors.NotValidf("empty command")
	}
	for _, m := range modules {
		if m.Name == "" {
			panic(fmt.Sprintf("code error Name='' module=%#v", m))
		}
		if command == m.Name {
			return m, nil
		}
	}
	return Mod{}, errors.NotFoundf("command=%s", command)
}

// Usage lists modes one per line, for flag.Usage.
func Usage(modules []Mod) string {
	var b strings.Builder
	for _, m := range modules {
		fmt.Fprintf(&b, "  %-8s %s\n", m.Name, m.Usage)
	}
	return b.String()
}

// SdNotify returns false when not running under systemd.
func SdNotify(s string) bool {
	ok, err := daemon.SdNotify(false, s)
	if err != nil {
		log.Fatal("sdnotify: ", errors.ErrorStack(err))
	}
	return ok
}
