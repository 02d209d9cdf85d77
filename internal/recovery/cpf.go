package recovery

import "errors"

// ErrInvalidCPF rejects structurally invalid CPFs before any store access.
var ErrInvalidCPF = errors.New("invalid_cpf")

// NormalizeCPF strips non-digits and requires exactly 11 digits.
func NormalizeCPF(raw string) (string, error) {
	digits := make([]byte, 0, 11)
	for i := 0; i < len(raw); i++ {
		if raw[i] >= '0' && raw[i] <= '9' {
			digits = append(digits, raw[i])
		}
	}
	if len(digits) != 11 {
		return "", ErrInvalidCPF
	}
	return string(digits), nil
}
