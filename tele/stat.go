package tele

import (
	"sync"
)

// Stat Low priority telemetry buffer. Can be updated at any time.
// Sent together with state.
type Stat struct { //nolint:maligned
	sync.Mutex
	Deposits          uint32
	DepositsRejected  uint32
	Withdrawals       uint32
	WithdrawsRejected uint32
	Conversions       uint32
}

// Locked_Reset Internal for tele package. Caller must hold s.Mutex.
func (s *Stat) Locked_Reset() {
	s.Deposits = 0
	s.DepositsRejected = 0
	s.Withdrawals = 0
	s.WithdrawsRejected = 0
	s.Conversions = 0
}

// Locked_Fields Caller must hold s.Mutex.
func (s *Stat) Locked_Fields() map[string]interface{} {
	return map[string]interface{}{
		"deposits":           s.Deposits,
		"deposits_rejected":  s.DepositsRejected,
		"withdrawals":        s.Withdrawals,
		"withdraws_rejected": s.WithdrawsRejected,
		"conversions":        s.Conversions,
	}
}
