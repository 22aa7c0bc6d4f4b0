package notification

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatPhone(t *testing.T) {
	cases := map[string]string{
		"9866168995":       "+919866168995",
		"09866168995":      "+919866168995",
		"+91 62814 38990":  "+916281438990",
		"+1 (555) 000-111": "+1555000111",
		"  ":               "",
	}
	for in, want := range cases {
		assert.Equal(t, want, FormatPhone(in), in)
	}
}
