// Decode telemetry messages, hex per line, as seen by mosquitto_sub -F %x
package tele

import (
	"context"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/AlexTransit/teller/cmd/teller/subcmd"
	"github.com/AlexTransit/teller/helpers/cli"
	"github.com/AlexTransit/teller/internal/state"
	tele_api "github.com/AlexTransit/teller/tele"
	"github.com/c-bata/go-prompt"
	"github.com/juju/errors"
)

const modName = "tele"

var Mod = subcmd.Mod{
	Name:  modName,
	Usage: "decode hex telemetry messages from stdin",
	Main:  Main,
}

func Main(ctx context.Context, args []string) error {
	g := state.GetGlobal(ctx)
	g.Log.Debugf("tele decode, enter hex messages")
	cli.MainLoop(modName, newExecutor(ctx), func(prompt.Document) []prompt.Suggest { return nil })
	return nil
}

func newExecutor(ctx context.Context) func(string) {
	g := state.GetGlobal(ctx)
	return func(line string) {
		s, err := Decode(line)
		if err != nil {
			g.Log.Errorf("%v", err)
			return
		}
		g.Log.Info(s)
	}
}

// Decode renders one hex encoded transaction.
func Decode(line string) (string, error) {
	line = strings.TrimSpace(line)
	// mosquitto_sub wrongly strips leading zero in hex format
	if len(line)%2 == 1 {
		line = "0" + line
	}
	b, err := hex.DecodeString(line)
	if err != nil {
		return "", errors.Annotate(err, "hex.Decode")
	}
	tx, err := tele_api.UnmarshalTransaction(b)
	if err != nil {
		return "", err
	}
	s := fmt.Sprintf("time=%s kind=%s request=%v ok=%t cash=%s",
		tx.Time.Format("2006-01-02T15:04:05.000"), tx.Kind, tx.Request, tx.Ok, tele_api.SnapshotString(tx.Snapshot))
	if tx.Error != "" {
		s += " error=" + tx.Error
	}
	if len(tx.Stat) != 0 {
		s += fmt.Sprintf(" stat=%v", tx.Stat)
	}
	return s, nil
}
