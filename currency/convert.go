package currency

import (
	"github.com/JohnCGriffin/overflow"
	oerr "github.com/juju/errors"
)

// Breakdown produces at least shortfall/target extra units of target by breaking
// larger nominals down the chain, largest first.
// Only supply is produced, consumption is left to caller.
// On error ng is unchanged.
func (ng *NominalGroup) Breakdown(target Nominal, shortfall Amount) error {
	k, ok := ng.set.Index(target)
	if !ok {
		return oerr.Annotatef(ErrNominalInvalid, "Breakdown(n=%s)", target)
	}
	if shortfall <= 0 || shortfall%Amount(target) != 0 {
		return oerr.Annotatef(ErrShortfallInvalid, "Breakdown(n=%s shortfall=%s)", target, shortfall)
	}

	needed, err := ng.breakdownNeeded(k, shortfall)
	if err != nil {
		return oerr.Annotatef(err, "Breakdown(n=%s shortfall=%s)", target, shortfall)
	}
	counts, err := ng.breakdownCascade(needed)
	if err != nil {
		return oerr.Annotatef(err, "Breakdown(n=%s shortfall=%s)", target, shortfall)
	}
	for n, c := range counts {
		ng.values[n] = uint(c)
	}
	return nil
}

// breakdownNeeded walks from order[k] toward the largest nominal and records
// how many units of each level must be pulled down from the next larger one.
// Stops at first level already covered by stock of the larger nominal.
func (ng *NominalGroup) breakdownNeeded(k int, shortfall Amount) (map[Nominal]int64, error) {
	order := ng.set.order
	needed := make(map[Nominal]int64, k+1)
	needed[order[k]] = int64(shortfall) / int64(order[k])
	for i := k; ; i-- {
		cur := order[i]
		if i == 0 {
			return nil, oerr.Annotatef(ErrInsufficientSupply, "nothing larger than %s", cur)
		}
		bigger := order[i-1]
		neededValue, ok1 := value(cur, needed[cur])
		availableValue, ok2 := value(bigger, int64(ng.values[bigger]))
		if !ok1 || !ok2 {
			return nil, oerr.Annotate(ErrInsufficientSupply, "overflow")
		}
		if availableValue >= neededValue {
			break
		}
		needed[bigger] = ceilDiv(int64(neededValue-availableValue), int64(bigger))
	}
	return needed, nil
}

// breakdownCascade converts value down level by level, largest first.
// Returns resulting counts of touched nominals, ng is not modified.
func (ng *NominalGroup) breakdownCascade(needed map[Nominal]int64) (map[Nominal]int64, error) {
	order := ng.set.order
	counts := make(map[Nominal]int64, len(order))
	for _, n := range order {
		counts[n] = int64(ng.values[n])
	}
	for i := 0; i < len(order)-1; i++ {
		cur, next := order[i], order[i+1]
		amount, ok := value(next, needed[next])
		if !ok {
			return nil, oerr.Annotate(ErrInsufficientSupply, "overflow")
		}
		if amount <= 0 {
			continue
		}
		units := ceilDiv(int64(amount), int64(cur))
		if units > counts[cur] {
			return nil, oerr.Annotatef(ErrInsufficientSupply, "nominal=%s have=%d need=%d", cur, counts[cur], units)
		}
		made, ok1 := overflow.Mul64(units, int64(cur/next))
		total, ok2 := overflow.Add64(counts[next], made)
		if !ok1 || !ok2 {
			return nil, oerr.Annotate(ErrInsufficientSupply, "overflow")
		}
		counts[cur] -= units
		counts[next] = total
	}
	return counts, nil
}

func ceilDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 {
		q++
	}
	return q
}
