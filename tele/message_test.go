package tele

import (
	"testing"
	"time"

	"github.com/AlexTransit/teller/currency"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransactionMarshal(t *testing.T) {
	t.Parallel()

	now := time.UnixMilli(time.Now().UnixMilli())
	tx := &Transaction{
		Id:       "3f0c6a52-1d5e-4b8e-9a57-2f6f3c1b9e10",
		Kind:     KindWithdraw,
		Request:  []int{1, 11},
		Ok:       false,
		Error:    "not enough nominals for this amount",
		Snapshot: map[currency.Nominal]uint{20: 2, 10: 1, 5: 0, 1: 0},
		Stat:     map[string]interface{}{"withdrawals": uint32(3)},
		Time:     now,
	}
	b, err := tx.Marshal()
	require.NoError(t, err)

	tx2, err := UnmarshalTransaction(b)
	require.NoError(t, err)
	assert.Equal(t, tx.Id, tx2.Id)
	assert.Equal(t, tx.Kind, tx2.Kind)
	assert.Equal(t, tx.Request, tx2.Request)
	assert.Equal(t, tx.Ok, tx2.Ok)
	assert.Equal(t, tx.Error, tx2.Error)
	assert.Equal(t, tx.Snapshot, tx2.Snapshot)
	assert.Equal(t, float64(3), tx2.Stat["withdrawals"])
	assert.True(t, now.Equal(tx2.Time), "time=%s", tx2.Time)
}

func TestUnmarshalTransactionInvalid(t *testing.T) {
	t.Parallel()

	_, err := UnmarshalTransaction([]byte{0xff, 0xff, 0xff})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tele transaction decode")
}

func TestSnapshotString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "", SnapshotString(nil))
	assert.Equal(t, "20:1,10:0,5:1,1:4", SnapshotString(map[currency.Nominal]uint{1: 4, 5: 1, 20: 1, 10: 0}))
}

func TestStat(t *testing.T) {
	t.Parallel()

	var s Stat
	s.Lock()
	s.Deposits = 2
	s.Conversions = 1
	fields := s.Locked_Fields()
	s.Locked_Reset()
	s.Unlock()
	assert.Equal(t, uint32(2), fields["deposits"])
	assert.Equal(t, uint32(1), fields["conversions"])
	assert.Equal(t, uint32(0), s.Deposits)
}
