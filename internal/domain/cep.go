package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidCEP is returned when input does not contain exactly 8 digits.
var ErrInvalidCEP = errors.New("invalid CEP")

// NormalizeCEP strips all non-digit characters from raw and validates the
// result as an 8-digit CEP. No network calls happen before this check.
func NormalizeCEP(raw string) (string, error) {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	cep := b.String()
	if len(cep) != 8 {
		return "", fmt.Errorf("%w: %q has %d digits, want 8", ErrInvalidCEP, raw, len(cep))
	}
	return cep, nil
}

// CandidateCEPs returns the probe sequence for a normalized CEP: the exact
// code first, then phase 1 (suffixes 001–020 on the 5-digit prefix), then
// phase 2 (4th digit varied 1–9, tail zeroed). Duplicates of earlier entries
// are skipped so the exact code is never probed twice.
func CandidateCEPs(cep string) []string {
	prefix := cep[:5]

	candidates := make([]string, 0, 30)
	seen := make(map[string]struct{}, 30)
	add := func(c string) {
		if _, ok := seen[c]; ok {
			return
		}
		seen[c] = struct{}{}
		candidates = append(candidates, c)
	}

	add(cep)
	for i := 1; i <= 20; i++ {
		add(fmt.Sprintf("%s%03d", prefix, i))
	}
	for d := 1; d <= 9; d++ {
		add(fmt.Sprintf("%s%d0000", cep[:3], d))
	}
	return candidates
}
