package pipeline

import (
	errs "github.com/matzehuels/eksdiagrams/pkg/errors"
)

// ValidateDPI accepts 0 (Graphviz default) or 1..MaxDPI.
func ValidateDPI(dpi int) error {
	if dpi < 0 || dpi > MaxDPI {
		return errs.New(errs.ErrCodeInvalidInput, "dpi must be between 0 and %d, got %d", MaxDPI, dpi)
	}
	return nil
}
