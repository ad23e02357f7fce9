package appconf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvFlagToEnvironment(t *testing.T) {
	tests := []struct {
		input    string
		expected Environment
	}{
		{"", Development},
		{"development", Development},
		{"DEV", Development},
		{"test", Test},
		{" production ", Production},
		{"prod", Production},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			env, err := EnvFlagToEnvironment(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, env)
		})
	}

	_, err := EnvFlagToEnvironment("staging")
	assert.Error(t, err)
}

func TestEnvironmentString(t *testing.T) {
	assert.Equal(t, "production", Production.String())
	assert.Equal(t, "Environment(9)", Environment(9).String())
}
