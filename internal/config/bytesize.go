package config

import (
	"fmt"
	"strconv"
	"strings"
)

var byteSizeShifts = map[string]uint{
	"":   0,
	"B":  0,
	"KB": 10,
	"MB": 20,
	"GB": 30,
}

// parseByteSize reads sizes such as "512", "64KB" or "10 MB" as base-1024 byte
// counts. Units are case-insensitive; fractions are not accepted.
func parseByteSize(s string) (int64, error) {
	s = strings.TrimSpace(s)
	digits := strings.TrimRight(s, "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz ")
	unit := strings.ToUpper(strings.TrimSpace(s[len(digits):]))

	if digits == "" {
		return 0, fmt.Errorf("invalid byte size: %q", s)
	}

	shift, ok := byteSizeShifts[unit]
	if !ok {
		return 0, fmt.Errorf("unknown byte size unit: %q", unit)
	}

	n, err := strconv.ParseUint(digits, 10, int(63-shift))
	if err != nil {
		return 0, fmt.Errorf("invalid byte size %q: %w", s, err)
	}

	return int64(n) << shift, nil
}
