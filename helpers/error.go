package helpers

import (
	"errors"
	"fmt"
)

// FoldErrors returns nil for no errors, single error unchanged, otherwise
// joined errors prefixed with their count. errors.Is sees each one.
func FoldErrors(errs []error) error {
	kept := make([]error, 0, len(errs))
	for _, e := range errs {
		if e != nil {
			kept = append(kept, e)
		}
	}
	switch len(kept) {
	case 0:
		return nil
	case 1:
		return kept[0]
	}
	return fmt.Errorf("%d errors:\n%w", len(kept), errors.Join(kept...))
}
