package tele

import (
	"context"

	"github.com/AlexTransit/teller/log2"
	tele_config "github.com/AlexTransit/teller/tele/config"
)

// Transporter  Tele transport contract:
// - Init fails only with invalid config, ignores network errors
// - Send* returns false when message was not handed to network, caller retries later
// - hide "connection" concept from upstream API or errors; transport delivers messages at least once
// - application may start without network available
type Transporter interface {
	Init(ctx context.Context, log *log2.Log, teleConfig tele_config.Config) error
	SendState(payload []byte) bool
	SendTelemetry(payload []byte) bool
	CloseTele()
}
