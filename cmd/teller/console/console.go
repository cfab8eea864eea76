// Interactive or scripted teller operation, one command per line.
package console

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/AlexTransit/teller/cmd/teller/subcmd"
	"github.com/AlexTransit/teller/helpers/cli"
	"github.com/AlexTransit/teller/internal/state"
	"github.com/c-bata/go-prompt"
	"github.com/coreos/go-systemd/daemon"
	"github.com/juju/errors"
)

const modName = "cli"

var Mod = subcmd.Mod{
	Name:       modName,
	Usage:      "interactive deposit and withdraw console",
	NeedConfig: true,
	Main:       Main,
}

const helpText = `deposit <denomination> <quantity> ... - add cash
withdraw <denomination> <quantity> ... - take cash, larger denominations are broken when needed
quantity <denomination> - count held
show - all counts and total
help - this text
exit - quit`

var suggests = []prompt.Suggest{
	{Text: "deposit", Description: "deposit <denomination> <quantity> ..."},
	{Text: "withdraw", Description: "withdraw <denomination> <quantity> ..."},
	{Text: "quantity", Description: "quantity <denomination>"},
	{Text: "show", Description: "counts and total"},
	{Text: "help", Description: "list commands"},
	{Text: cli.ExitCommand, Description: "quit"},
}

func Main(ctx context.Context, args []string) error {
	g := state.GetGlobal(ctx)
	g.MustInit(ctx, g.Config)
	subcmd.SdNotify(daemon.SdNotifyReady)
	g.Log.Debugf("teller init complete, cash=%s", g.Teller.String())

	cli.MainLoop(modName, newExecutor(ctx), newCompleter(ctx))
	g.StopWait(5 * time.Second)
	return nil
}

func newCompleter(ctx context.Context) func(d prompt.Document) []prompt.Suggest {
	_ = ctx
	return func(d prompt.Document) []prompt.Suggest {
		if strings.Contains(d.TextBeforeCursor(), " ") {
			return nil
		}
		return prompt.FilterHasPrefix(suggests, d.GetWordBeforeCursor(), true)
	}
}

func newExecutor(ctx context.Context) func(string) {
	g := state.GetGlobal(ctx)
	return func(line string) {
		out, err := Exec(ctx, line)
		if err != nil {
			g.Log.Warningf("cli line='%s' err=%v", line, err)
			return
		}
		if out != "" {
			fmt.Println(out)
		}
	}
}

// Exec runs one command line against global teller.
func Exec(ctx context.Context, line string) (string, error) {
	g := state.GetGlobal(ctx)
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", nil
	}
	args := fields[1:]
	switch strings.ToLower(fields[0]) {
	case "deposit":
		pairs, err := parseInts(args)
		if err != nil {
			return "", err
		}
		if err := g.Teller.Deposit(pairs...); err != nil {
			return "", err
		}
		return g.Teller.String(), nil

	case "withdraw":
		pairs, err := parseInts(args)
		if err != nil {
			return "", err
		}
		if !g.Teller.Withdraw(pairs...) {
			return "rejected " + g.Teller.String(), nil
		}
		return "ok " + g.Teller.String(), nil

	case "quantity":
		if len(args) != 1 {
			return "", errors.NotValidf("quantity needs one denomination, args=%v", args)
		}
		ns, err := parseInts(args)
		if err != nil {
			return "", err
		}
		return strconv.FormatUint(uint64(g.Teller.Quantity(ns[0])), 10), nil

	case "show":
		return g.Teller.String(), nil

	case "help":
		return helpText, nil

	default:
		return "", errors.NotSupportedf("command=%s", fields[0])
	}
}

func parseInts(args []string) ([]int, error) {
	result := make([]int, len(args))
	for i, s := range args {
		x, err := strconv.Atoi(s)
		if err != nil {
			return nil, errors.NotValidf("argument=%s", s)
		}
		result[i] = x
	}
	return result, nil
}
