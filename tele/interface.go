package tele

import (
	"context"

	"github.com/AlexTransit/teller/currency"
	"github.com/AlexTransit/teller/log2"
	tele_config "github.com/AlexTransit/teller/tele/config"
)

// Teler interface Telemetry client, teller side.
// Not for external public usage.
type Teler interface {
	Init(context.Context, *log2.Log, tele_config.Config) error
	Close()
	Error(error)
	StatModify(func(*Stat))
	Transaction(*Transaction)
	State(snapshot map[currency.Nominal]uint)
}

type Kind string

const (
	KindDeposit  Kind = "deposit"
	KindWithdraw Kind = "withdraw"
	KindError    Kind = "error"
	KindState    Kind = "state"
)
