package teller

import (
	"github.com/AlexTransit/teller/currency"
	"github.com/JohnCGriffin/overflow"
	"github.com/juju/errors"
)

var (
	ErrMalformedRequest        = errors.New("request must be denomination,quantity pairs")
	ErrUnsupportedDenomination = errors.New("denomination is not supported")
	ErrNegativeQuantity        = errors.New("quantity must not be negative")
)

// Request is validated quantity per denomination, repeats accumulated.
type Request map[currency.Nominal]int

// ParseRequest validates flat denomination,quantity pairs.
// Checks stop at first failure, in order: odd length, any unsupported
// denomination, any negative quantity.
func ParseRequest(set currency.NominalSet, pairs []int) (Request, error) {
	if len(pairs)%2 != 0 {
		return nil, errors.Annotatef(ErrMalformedRequest, "length=%d", len(pairs))
	}
	for i := 0; i < len(pairs); i += 2 {
		if !set.Contains(currency.Nominal(pairs[i])) {
			return nil, errors.Annotatef(ErrUnsupportedDenomination, "pair=%d denomination=%d", i/2, pairs[i])
		}
	}
	for i := 1; i < len(pairs); i += 2 {
		if pairs[i] < 0 {
			return nil, errors.Annotatef(ErrNegativeQuantity, "pair=%d denomination=%d quantity=%d", i/2, pairs[i-1], pairs[i])
		}
	}
	r := make(Request, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		n := currency.Nominal(pairs[i])
		sum, ok := overflow.Add(r[n], pairs[i+1])
		if !ok {
			return nil, errors.Annotatef(ErrMalformedRequest, "pair=%d denomination=%d quantity overflow", i/2, pairs[i])
		}
		r[n] = sum
	}
	return r, nil
}
