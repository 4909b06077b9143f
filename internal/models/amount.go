package models

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Amount - денежная сумма в целых единицах. При разборе JSON принимает числа
// и числовые строки, дробная часть отбрасывается.
type Amount int64

// UnmarshalJSON реализует json.Unmarshaler.
func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}

	raw := string(data)
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return NewValidationError("amount must be a number")
		}
		raw = strings.TrimSpace(s)
	}

	v, err := ParseAmount(raw)
	if err != nil {
		return err
	}
	*a = v
	return nil
}

// ParseAmount приводит строку к целой сумме.
func ParseAmount(raw string) (Amount, error) {
	if raw == "" {
		return 0, NewValidationError("amount must be a number")
	}
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return Amount(n), nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f >= math.MaxInt64 || f < math.MinInt64 {
		return 0, NewValidationError("amount must be a number, got %q", raw)
	}
	return Amount(math.Trunc(f)), nil
}

// Int64 возвращает значение как int64.
func (a Amount) Int64() int64 { return int64(a) }
