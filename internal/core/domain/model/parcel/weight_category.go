package parcel

import (
	"errors"
	"strings"

	"sendit/internal/pkg/errs"
)

// WeightCategory is the coarse size class of a parcel.
type WeightCategory int

const (
	WeightUnknown WeightCategory = iota
	WeightLight
	WeightMedium
	WeightHeavy
)

// ErrInvalidWeightCategory is returned for anything outside LIGHT, MEDIUM, HEAVY.
var ErrInvalidWeightCategory = errs.NewValueIsInvalidErrorWithCause(
	"weight category", errors.New("must be one of LIGHT, MEDIUM, HEAVY"))

func getWeightStrings() map[WeightCategory]string {
	//nolint:exhaustive // WeightUnknown has no wire form
	return map[WeightCategory]string{
		WeightLight:  "LIGHT",
		WeightMedium: "MEDIUM",
		WeightHeavy:  "HEAVY",
	}
}

func ParseWeightCategory(s string) (WeightCategory, error) {
	normalized := strings.ToUpper(strings.TrimSpace(s))
	for w, str := range getWeightStrings() {
		if str == normalized {
			return w, nil
		}
	}
	return WeightUnknown, ErrInvalidWeightCategory
}

func (w WeightCategory) Validate() error {
	if _, ok := getWeightStrings()[w]; !ok {
		return ErrInvalidWeightCategory
	}
	return nil
}

func (w WeightCategory) String() string {
	if str, ok := getWeightStrings()[w]; ok {
		return str
	}
	return "UNKNOWN"
}
