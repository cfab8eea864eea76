package tele

import (
	"context"

	"github.com/AlexTransit/teller/currency"
	"github.com/AlexTransit/teller/log2"
	tele_config "github.com/AlexTransit/teller/tele/config"
)

type Noop struct{}

var _ Teler = Noop{} // compile-time interface test

func (Noop) Init(context.Context, *log2.Log, tele_config.Config) error { return nil }

func (Noop) Close() {}

func (Noop) Error(error) {}

func (Noop) StatModify(func(*Stat)) {}

func (Noop) Transaction(*Transaction) {}

func (Noop) State(map[currency.Nominal]uint) {}
