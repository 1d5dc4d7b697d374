package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidatePhone(t *testing.T) {
	require.True(t, ValidatePhone("+15551234567"))
	require.True(t, ValidatePhone("+91 808 786-1289"))
	require.False(t, ValidatePhone("not-a-number"))
	require.False(t, ValidatePhone("+0123"))
}

func TestValidateEmail(t *testing.T) {
	require.True(t, ValidateEmail("x@y.com"))
	require.True(t, ValidateEmail(" x@y.co.uk "))
	require.False(t, ValidateEmail("x@y"))
	require.False(t, ValidateEmail("missing-at.com"))
}

func TestValidateChannels(t *testing.T) {
	require.True(t, ValidateChannels([]string{"email", "sms", "app"}))
	require.True(t, ValidateChannels(nil))
	require.False(t, ValidateChannels([]string{"email", "carrier-pigeon"}))
}
