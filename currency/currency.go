package currency

import (
	"fmt"
	"strings"

	"github.com/JohnCGriffin/overflow"
	oerr "github.com/juju/errors"
)

// Amount is integer counting lowest currency unit, e.g. $20 bill = 20
type Amount int64

func (a Amount) String() string { return fmt.Sprint(int64(a)) }

// Nominal is value of one coin or bill
type Nominal Amount

func (n Nominal) String() string { return fmt.Sprint(int64(n)) }

var (
	ErrNominalInvalid     = oerr.New("nominal is not valid for this group")
	ErrNominalSetInvalid  = oerr.New("nominal set is not valid")
	ErrInsufficientSupply = oerr.New("not enough nominals for this amount")
	ErrShortfallInvalid   = oerr.New("shortfall amount is not valid")
	ErrCountOverflow      = oerr.New("nominal count overflow")
)

// NominalSet is fixed list of supported nominals, largest first.
type NominalSet struct {
	order []Nominal
	index map[Nominal]int
}

// NewNominalSet validates order: not empty, positive, strictly descending
// and each nominal evenly divides the next larger one.
func NewNominalSet(order []Nominal) (NominalSet, error) {
	if len(order) == 0 {
		return NominalSet{}, oerr.Annotate(ErrNominalSetInvalid, "empty")
	}
	ns := NominalSet{
		order: make([]Nominal, len(order)),
		index: make(map[Nominal]int, len(order)),
	}
	for i, n := range order {
		if n <= 0 {
			return NominalSet{}, oerr.Annotatef(ErrNominalSetInvalid, "nominal=%s must be positive", n)
		}
		if i > 0 {
			bigger := order[i-1]
			if n >= bigger {
				return NominalSet{}, oerr.Annotatef(ErrNominalSetInvalid, "nominal=%s after %s, order must be strictly descending", n, bigger)
			}
			if bigger%n != 0 {
				return NominalSet{}, oerr.Annotatef(ErrNominalSetInvalid, "nominal=%s does not divide %s", n, bigger)
			}
		}
		ns.order[i] = n
		ns.index[n] = i
	}
	return ns, nil
}

// MustNominalSet is NewNominalSet for static sets, panics on error.
func MustNominalSet(order ...Nominal) NominalSet {
	ns, err := NewNominalSet(order)
	if err != nil {
		panic(err)
	}
	return ns
}

func (ns NominalSet) Len() int { return len(ns.order) }

func (ns NominalSet) Index(n Nominal) (int, bool) {
	i, ok := ns.index[n]
	return i, ok
}

func (ns NominalSet) Contains(n Nominal) bool {
	_, ok := ns.index[n]
	return ok
}

// Nominals returns copy, largest first.
func (ns NominalSet) Nominals() []Nominal {
	result := make([]Nominal, len(ns.order))
	copy(result, ns.order)
	return result
}

// NominalGroup operates money comprised of multiple nominals, like coins or bills.
// coin20: 1
// coin10: 1
// coin5 : 1
// coin1 : 4
// total : 39
type NominalGroup struct {
	set    NominalSet
	values map[Nominal]uint
}

func NewNominalGroup(set NominalSet) *NominalGroup {
	ng := &NominalGroup{
		set:    set,
		values: make(map[Nominal]uint, set.Len()),
	}
	for _, n := range set.order {
		ng.values[n] = 0
	}
	return ng
}

func (ng *NominalGroup) Set() NominalSet { return ng.set }

func (ng *NominalGroup) Copy() *NominalGroup {
	ng2 := &NominalGroup{
		set:    ng.set,
		values: make(map[Nominal]uint, len(ng.values)),
	}
	for k, v := range ng.values {
		ng2.values[k] = v
	}
	return ng2
}

// Assign replaces all counts with other's. Both groups must share nominal set.
func (ng *NominalGroup) Assign(other *NominalGroup) {
	for n := range ng.values {
		ng.values[n] = other.values[n]
	}
}

// Quantity returns stored count or 0 for unsupported nominal.
func (ng *NominalGroup) Quantity(n Nominal) uint {
	if stored, ok := ng.values[n]; !ok {
		return 0
	} else {
		return stored
	}
}

// AddMany stores count more units of n.
// Fails without change when n is not in set or resulting count or value
// of whole group would overflow.
func (ng *NominalGroup) AddMany(n Nominal, count uint) error {
	stored, ok := ng.values[n]
	if !ok {
		return oerr.Annotatef(ErrNominalInvalid, "AddMany(n=%s)", n)
	}
	next, ok := overflow.Add(int(stored), int(count))
	if !ok || next < 0 || int(count) < 0 {
		return oerr.Annotatef(ErrCountOverflow, "AddMany(n=%s count=%d stored=%d)", n, count, stored)
	}
	ng.values[n] = uint(next)
	if _, ok := ng.checkedTotal(); !ok {
		ng.values[n] = stored
		return oerr.Annotatef(ErrCountOverflow, "AddMany(n=%s count=%d) total", n, count)
	}
	return nil
}

// Apply adds delta to count of n.
// Caller guarantees n is valid and result is not negative.
func (ng *NominalGroup) Apply(n Nominal, delta int) {
	stored, ok := ng.values[n]
	if !ok {
		panic(fmt.Sprintf("code error NominalGroup.Apply invalid nominal=%s", n))
	}
	next, ok := overflow.Add(int(stored), delta)
	if !ok || next < 0 {
		panic(fmt.Sprintf("code error NominalGroup.Apply nominal=%s count=%d delta=%d", n, stored, delta))
	}
	ng.values[n] = uint(next)
}

// Iter visits nominals largest first.
func (ng *NominalGroup) Iter(f func(nominal Nominal, count uint) error) error {
	for _, nominal := range ng.set.order {
		if err := f(nominal, ng.values[nominal]); err != nil {
			return err
		}
	}
	return nil
}

func (ng *NominalGroup) Snapshot() map[Nominal]uint {
	m := make(map[Nominal]uint, len(ng.values))
	for nominal, count := range ng.values {
		m[nominal] = count
	}
	return m
}

func (ng *NominalGroup) Total() Amount {
	sum, _ := ng.checkedTotal()
	return sum
}

func (ng *NominalGroup) checkedTotal() (Amount, bool) {
	sum := int64(0)
	ok := true
	_ = ng.Iter(func(nominal Nominal, count uint) error {
		v, vok := value(nominal, int64(count))
		sum, ok = overflow.Add64(sum, int64(v))
		if !vok || !ok {
			ok = false
			return ErrCountOverflow
		}
		return nil
	})
	return Amount(sum), ok
}

// value is overflow checked nominal*count.
func value(n Nominal, count int64) (Amount, bool) {
	v, ok := overflow.Mul64(int64(n), count)
	return Amount(v), ok
}

// String lists nonzero counts largest first, then total.
// "20:1,10:1,5:1,1:4,total:39"
func (ng *NominalGroup) String() string {
	parts := make([]string, 0, len(ng.values)+1)
	_ = ng.Iter(func(nominal Nominal, count uint) error {
		if count > 0 {
			parts = append(parts, fmt.Sprintf("%s:%d", nominal, count))
		}
		return nil
	})
	parts = append(parts, fmt.Sprintf("total:%s", ng.Total()))
	return strings.Join(parts, ",")
}
