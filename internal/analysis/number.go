package analysis

import (
	"math"
	"strconv"
)

// Number is a float64 whose JSON form is null when the value is NaN or
// infinite. encoding/json refuses those values outright.
type Number float64

// Defined reports whether n is a finite number.
func (n Number) Defined() bool {
	f := float64(n)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func (n Number) MarshalJSON() ([]byte, error) {
	if !n.Defined() {
		return []byte("null"), nil
	}
	return strconv.AppendFloat(nil, float64(n), 'g', -1, 64), nil
}

func (n *Number) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*n = Number(math.NaN())
		return nil
	}
	f, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		return err
	}
	*n = Number(f)
	return nil
}

// String formats with four significant digits, or "undefined".
func (n Number) String() string {
	if !n.Defined() {
		return "undefined"
	}
	return strconv.FormatFloat(float64(n), 'g', 4, 64)
}
