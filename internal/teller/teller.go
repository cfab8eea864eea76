// Package teller holds cash of fixed denominations and serves deposit and
// withdraw requests.
// Withdraw may break larger denominations into smaller ones when a requested
// denomination is short. Every operation is atomic: on any failure counts stay
// exactly as before the call.
package teller

import (
	"sync"

	"github.com/AlexTransit/teller/currency"
	"github.com/AlexTransit/teller/log2"
	tele_api "github.com/AlexTransit/teller/tele"
	"github.com/JohnCGriffin/overflow"
	"github.com/juju/errors"
)

type Machine struct {
	lk   sync.Mutex
	cash *currency.NominalGroup
	log  *log2.Log
	tele tele_api.Teler
}

type Option func(*Machine)

func WithLog(log *log2.Log) Option     { return func(m *Machine) { m.log = log } }
func WithTele(t tele_api.Teler) Option { return func(m *Machine) { m.tele = t } }

func New(set currency.NominalSet, opts ...Option) *Machine {
	m := &Machine{
		cash: currency.NewNominalGroup(set),
		tele: tele_api.Noop{},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Machine) Nominals() []currency.Nominal { return m.cash.Set().Nominals() }

// Quantity returns held count, 0 for unsupported denomination.
func (m *Machine) Quantity(denomination int) uint {
	m.lk.Lock()
	defer m.lk.Unlock()
	return m.cash.Quantity(currency.Nominal(denomination))
}

func (m *Machine) Total() currency.Amount {
	m.lk.Lock()
	defer m.lk.Unlock()
	return m.cash.Total()
}

func (m *Machine) Snapshot() map[currency.Nominal]uint {
	m.lk.Lock()
	defer m.lk.Unlock()
	return m.cash.Snapshot()
}

func (m *Machine) String() string {
	m.lk.Lock()
	defer m.lk.Unlock()
	return m.cash.String()
}

// Deposit adds denomination,quantity pairs.
// Whole request is validated before any change. A deposit that would overflow
// held count fails with currency.ErrCountOverflow.
func (m *Machine) Deposit(pairs ...int) error {
	const tag = "teller.deposit"
	m.lk.Lock()
	defer m.lk.Unlock()

	if err := m.deposit(pairs); err != nil {
		m.log.Debugf("%s pairs=%v err=%v", tag, pairs, err)
		m.tele.StatModify(func(s *tele_api.Stat) { s.DepositsRejected++ })
		m.report(tele_api.KindDeposit, pairs, err)
		return errors.Annotate(err, tag)
	}
	m.log.Debugf("%s pairs=%v cash=%s", tag, pairs, m.cash.String())
	m.tele.StatModify(func(s *tele_api.Stat) { s.Deposits++ })
	m.report(tele_api.KindDeposit, pairs, nil)
	return nil
}

// Caller must hold m.lk.
func (m *Machine) deposit(pairs []int) error {
	r, err := ParseRequest(m.cash.Set(), pairs)
	if err != nil {
		return err
	}
	scratch := m.cash.Copy()
	for n, q := range r {
		if err := scratch.AddMany(n, uint(q)); err != nil {
			return err
		}
	}
	m.cash.Assign(scratch)
	return nil
}

// Withdraw removes denomination,quantity pairs, breaking larger denominations
// when needed. Returns false and keeps counts unchanged when request is
// invalid or can not be satisfied completely.
func (m *Machine) Withdraw(pairs ...int) bool {
	const tag = "teller.withdraw"
	m.lk.Lock()
	defer m.lk.Unlock()

	err := m.withdraw(pairs)
	if err != nil {
		m.log.Debugf("%s pairs=%v err=%v", tag, pairs, err)
		m.tele.StatModify(func(s *tele_api.Stat) { s.WithdrawsRejected++ })
		m.report(tele_api.KindWithdraw, pairs, err)
		return false
	}
	m.log.Debugf("%s pairs=%v cash=%s", tag, pairs, m.cash.String())
	m.tele.StatModify(func(s *tele_api.Stat) { s.Withdrawals++ })
	m.report(tele_api.KindWithdraw, pairs, nil)
	return true
}

// Caller must hold m.lk.
func (m *Machine) withdraw(pairs []int) error {
	set := m.cash.Set()
	r, err := ParseRequest(set, pairs)
	if err != nil {
		return err
	}

	scratch := m.cash.Copy()
	conversions := 0
	// largest first: breaking big nominal may leave spare smaller units for next lines
	for _, n := range set.Nominals() {
		want := r[n]
		if want <= 0 {
			continue
		}
		have := int(scratch.Quantity(n))
		if have < want {
			shortfall, ok := overflow.Mul64(int64(n), int64(want-have))
			if !ok {
				return errors.Annotatef(currency.ErrInsufficientSupply, "denomination=%s quantity=%d overflow", n, want)
			}
			if err := scratch.Breakdown(n, currency.Amount(shortfall)); err != nil {
				return errors.Annotatef(err, "denomination=%s quantity=%d", n, want)
			}
			conversions++
		}
		scratch.Apply(n, -want)
	}

	m.cash.Assign(scratch)
	if conversions > 0 {
		m.tele.StatModify(func(s *tele_api.Stat) { s.Conversions += uint32(conversions) })
	}
	return nil
}

// Caller must hold m.lk.
func (m *Machine) report(kind tele_api.Kind, pairs []int, err error) {
	tx := &tele_api.Transaction{
		Kind:     kind,
		Request:  append([]int(nil), pairs...),
		Ok:       err == nil,
		Snapshot: m.cash.Snapshot(),
	}
	if err != nil {
		tx.Error = err.Error()
	}
	m.tele.Transaction(tx)
}
