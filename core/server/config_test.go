package server_test

import (
	"testing"
	"time"

	"area-reconciler/core/server"

	"github.com/stretchr/testify/assert"
)

func TestConfig_Address(t *testing.T) {
	c := server.Config{Port: "8080"}
	assert.Equal(t, ":8080", c.Address())
}

func TestConfig_RequestTimeout(t *testing.T) {
	tests := []struct {
		name    string
		seconds int
		want    time.Duration
	}{
		{"Default", 120, 2 * time.Minute},
		{"Disabled", 0, 0},
		{"Negative", -5, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := server.Config{RequestTimeoutSeconds: tt.seconds}
			assert.Equal(t, tt.want, c.RequestTimeout())
		})
	}
}
