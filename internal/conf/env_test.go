package conf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateEnvBool(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{"true", "true", false},
		{"false", "false", false},
		{"1", "1", false},
		{"0", "0", false},
		{"TRUE", "TRUE", false},
		{"invalid", "maybe", true},
		{"yes", "yes", true}, // strconv.ParseBool doesn't accept yes/no
		{"empty", "", true},
		{"true with spaces", " true ", false},
		{"false with newline", "false\n", false},
		{"decimal 1.0", "1.0", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateEnvBool(tt.value)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "invalid boolean value")
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateEnvDuration(t *testing.T) {
	t.Parallel()

	assert.NoError(t, validateEnvDuration("30m"))
	assert.NoError(t, validateEnvDuration(" 1h30m "))
	assert.Error(t, validateEnvDuration("soon"))
	assert.Error(t, validateEnvDuration("0s"))
	assert.Error(t, validateEnvDuration("-5m"))
}

func TestValidateEnvLocation(t *testing.T) {
	t.Parallel()

	assert.NoError(t, validateEnvLocation("Östersund"))
	assert.NoError(t, validateEnvLocation("ostersund"))

	err := validateEnvLocation("Reykjavik")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Kiruna")
}

func TestValidateEnvVerdict(t *testing.T) {
	t.Parallel()

	for _, v := range []string{"excellent", "good", "mixed", "poor", " Good "} {
		assert.NoError(t, validateEnvVerdict(v), v)
	}
	assert.Error(t, validateEnvVerdict("stellar"))
}

func TestValidateEnvBrokerURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		value   string
		wantErr bool
	}{
		{"tcp://localhost:1883", false},
		{"ssl://broker.example.com:8883", false},
		{"wss://broker.example.com/mqtt", false},
		{"http://localhost:1883", true},
		{"tcp://", true},
		{"localhost:1883", true},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			err := validateEnvBrokerURL(tt.value)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSplitList(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"a", "b"}, splitList(" a ,, b ,"))
	assert.Nil(t, splitList(" , "))
}
