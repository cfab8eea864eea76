package tele

import (
	"sort"
	"strconv"
	"time"

	"github.com/AlexTransit/teller/currency"
	"github.com/juju/errors"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// Transaction is one deposit, withdraw or state report.
// Wire form is protobuf google.protobuf.Struct.
// Id is unique per message, receivers use it to drop redelivered copies.
type Transaction struct {
	Id       string
	Kind     Kind
	Request  []int
	Ok       bool
	Error    string
	Snapshot map[currency.Nominal]uint
	Stat     map[string]interface{}
	Time     time.Time
}

func (tx *Transaction) Marshal() ([]byte, error) {
	request := make([]interface{}, len(tx.Request))
	for i, x := range tx.Request {
		request[i] = x
	}
	snapshot := make(map[string]interface{}, len(tx.Snapshot))
	for n, c := range tx.Snapshot {
		snapshot[n.String()] = c
	}
	fields := map[string]interface{}{
		"kind":     string(tx.Kind),
		"request":  request,
		"ok":       tx.Ok,
		"snapshot": snapshot,
		"time":     tx.Time.UnixMilli(),
	}
	if tx.Id != "" {
		fields["id"] = tx.Id
	}
	if tx.Error != "" {
		fields["error"] = tx.Error
	}
	if tx.Stat != nil {
		fields["stat"] = tx.Stat
	}
	s, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, errors.Annotate(err, "tele transaction encode")
	}
	return proto.Marshal(s)
}

func UnmarshalTransaction(b []byte) (*Transaction, error) {
	var s structpb.Struct
	if err := proto.Unmarshal(b, &s); err != nil {
		return nil, errors.Annotate(err, "tele transaction decode")
	}
	f := s.GetFields()
	tx := &Transaction{
		Id:    f["id"].GetStringValue(),
		Kind:  Kind(f["kind"].GetStringValue()),
		Ok:    f["ok"].GetBoolValue(),
		Error: f["error"].GetStringValue(),
		Time:  time.UnixMilli(int64(f["time"].GetNumberValue())),
	}
	for _, v := range f["request"].GetListValue().GetValues() {
		tx.Request = append(tx.Request, int(v.GetNumberValue()))
	}
	if snap := f["snapshot"].GetStructValue(); snap != nil {
		tx.Snapshot = make(map[currency.Nominal]uint, len(snap.GetFields()))
		for k, v := range snap.GetFields() {
			n, err := strconv.ParseInt(k, 10, 64)
			if err != nil {
				return nil, errors.Annotatef(err, "tele transaction snapshot key=%s", k)
			}
			tx.Snapshot[currency.Nominal(n)] = uint(v.GetNumberValue())
		}
	}
	if stat := f["stat"].GetStructValue(); stat != nil {
		tx.Stat = stat.AsMap()
	}
	return tx, nil
}

// SnapshotString is stable text form for logs, largest nominal first.
func SnapshotString(snapshot map[currency.Nominal]uint) string {
	order := make([]currency.Nominal, 0, len(snapshot))
	for n := range snapshot {
		order = append(order, n)
	}
	sort.Slice(order, func(i, j int) bool { return order[i] > order[j] })
	b := make([]byte, 0, 8*len(order))
	for i, n := range order {
		if i > 0 {
			b = append(b, ',')
		}
		b = strconv.AppendInt(b, int64(n), 10)
		b = append(b, ':')
		b = strconv.AppendUint(b, uint64(snapshot[n]), 10)
	}
	return string(b)
}
