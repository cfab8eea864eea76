package tele

import (
	"context"
	"time"

	"github.com/AlexTransit/teller/currency"
	"github.com/AlexTransit/teller/log2"
	tele_api "github.com/AlexTransit/teller/tele"
	tele_config "github.com/AlexTransit/teller/tele/config"
	"github.com/google/uuid"
	"github.com/juju/errors"
	"github.com/temoto/alive/v2"
	"github.com/temoto/spq"
)

const defaultRetryDelay = 5 * time.Second

// Tele contract:
// - Init() fails only with invalid config, network issues ignored
// - Transaction/Error/State calls block at most for disk write
//   network may be slow or absent, messages will be delivered in background
// - Close() stops background delivery, undelivered messages stay on disk
// - Transaction messages delivered at least once
type tele struct { //nolint:maligned
	config     tele_config.Config
	log        *log2.Log
	transport  Transporter
	q          *spq.Queue
	alive      *alive.Alive
	stat       tele_api.Stat
	retryDelay time.Duration
}

func New() tele_api.Teler {
	return &tele{}
}
func NewWithTransporter(trans Transporter) tele_api.Teler {
	return &tele{transport: trans}
}

func (t *tele) Init(ctx context.Context, log *log2.Log, teleConfig tele_config.Config) error {
	t.config = teleConfig
	t.log = log
	if t.config.LogDebug {
		t.log.SetLevel(log2.LDebug)
	}
	t.stat.Lock()
	t.stat.Locked_Reset()
	t.stat.Unlock()
	if t.retryDelay == 0 {
		t.retryDelay = defaultRetryDelay
	}

	if !t.config.Enabled {
		return nil
	}
	if err := t.config.Validate(); err != nil {
		return err
	}
	// queue first, so failed open leaves no connected client behind
	q, err := spq.Open(t.config.QueuePath())
	if err != nil {
		return errors.Annotate(err, "tele queue")
	}
	// test code sets .transport
	if t.transport == nil { // production path
		t.transport = &transportMqtt{}
	}
	if err := t.transport.Init(ctx, log, teleConfig); err != nil {
		if cerr := q.Close(); cerr != nil {
			t.log.Errorf("tele queue close err=%v", cerr)
		}
		return errors.Annotate(err, "tele transport")
	}
	t.q = q

	t.alive = alive.NewAlive()
	t.alive.Add(1)
	go t.qworker()
	return nil
}

func (t *tele) Close() {
	if t.q == nil {
		return
	}
	t.alive.Stop()
	if err := t.q.Close(); err != nil {
		t.log.Errorf("tele queue close err=%v", err)
	}
	t.alive.Wait()
	t.transport.CloseTele()
}

func (t *tele) Error(e error) {
	if t.q == nil {
		return
	}
	t.log.Debugf("tele.Error: %s", errors.ErrorStack(e))
	t.Transaction(&tele_api.Transaction{Kind: tele_api.KindError, Error: e.Error()})
}

func (t *tele) StatModify(fun func(s *tele_api.Stat)) {
	t.stat.Lock()
	fun(&t.stat)
	t.stat.Unlock()
}

func (t *tele) Transaction(tx *tele_api.Transaction) {
	if t.q == nil {
		return
	}
	if err := t.qpush(qTransaction, tx); err != nil {
		t.log.Errorf("tele transaction push kind=%s err=%v", tx.Kind, err)
	}
}

func (t *tele) State(snapshot map[currency.Nominal]uint) {
	if t.q == nil {
		return
	}
	tx := &tele_api.Transaction{Kind: tele_api.KindState, Ok: true, Snapshot: snapshot}
	t.stat.Lock()
	tx.Stat = t.stat.Locked_Fields()
	t.stat.Locked_Reset()
	t.stat.Unlock()
	if err := t.qpush(qState, tx); err != nil {
		t.log.Errorf("tele state push err=%v", err)
	}
}

// denote value type in persistent queue bytes form
const (
	qTransaction byte = 1
	qState       byte = 2
)

func (t *tele) qpush(tag byte, tx *tele_api.Transaction) error {
	if tx.Id == "" {
		tx.Id = uuid.NewString()
	}
	if tx.Time.IsZero() {
		tx.Time = time.Now()
	}
	b, err := tx.Marshal()
	if err != nil {
		return err
	}
	return t.q.Push(append([]byte{tag}, b...))
}

func (t *tele) qworker() {
	defer t.alive.Done()
	stopch := t.alive.StopChan()
	for {
		box, err := t.q.Peek()
		switch err {
		case nil:
			// success path
			b := box.Bytes()
			if t.qhandle(b) {
				err = t.q.Delete(box)
			} else {
				err = t.q.DeletePush(box)
				select {
				case <-stopch:
				case <-time.After(t.retryDelay):
				}
			}
			if err != nil && err != spq.ErrClosed {
				t.log.Errorf("tele qworker b=%x err=%v", b, err)
			}

		case spq.ErrClosed:
			select {
			case <-stopch: // success path
			default:
				t.log.Errorf("CRITICAL tele spq closed unexpectedly")
			}
			return

		default:
			t.log.Errorf("CRITICAL tele spq err=%v", err)
			select {
			case <-stopch:
				return
			case <-time.After(t.retryDelay):
			}
		}
	}
}

// qhandle returns true when message is done, either delivered or broken.
func (t *tele) qhandle(b []byte) bool {
	if len(b) == 0 {
		t.log.Errorf("tele spq peek=empty")
		return true
	}

	switch b[0] {
	case qTransaction:
		return t.transport.SendTelemetry(b[1:])
	case qState:
		return t.transport.SendState(b[1:])
	default:
		t.log.Errorf("tele spq unknown kind=%d", b[0])
		return true
	}
}
