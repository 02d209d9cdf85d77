package recovery

import (
	"errors"
	"testing"
)

func TestNormalizeCPF(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
		err  error
	}{
		{name: "bare digits", in: "52998224725", want: "52998224725"},
		{name: "formatted", in: "529.982.247-25", want: "52998224725"},
		{name: "with spaces", in: " 529 982 247 25 ", want: "52998224725"},
		{name: "too short", in: "1234567890", err: ErrInvalidCPF},
		{name: "too long", in: "123456789012", err: ErrInvalidCPF},
		{name: "empty", in: "", err: ErrInvalidCPF},
		{name: "letters only", in: "abcdefghijk", err: ErrInvalidCPF},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := NormalizeCPF(tc.in)
			if !errors.Is(err, tc.err) {
				t.Fatalf("NormalizeCPF(%q) err = %v, want %v", tc.in, err, tc.err)
			}
			if got != tc.want {
				t.Fatalf("NormalizeCPF(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}
