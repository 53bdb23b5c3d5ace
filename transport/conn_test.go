package transport

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExtractIP(t *testing.T) {
	req := require.New(t)

	tests := []struct {
		name       string
		remoteAddr string
		expected   string
	}{
		{
			name:       "Host and port",
			remoteAddr: "203.0.113.77:54321",
			expected:   "203.0.113.77",
		},
		{
			name:       "Bare host",
			remoteAddr: "8.8.8.8",
			expected:   "8.8.8.8",
		},
		{
			name:       "IPv6 loopback is normalized",
			remoteAddr: "[::1]:9999",
			expected:   "127.0.0.1",
		},
		{
			name:       "Expanded IPv6 loopback",
			remoteAddr: "[0:0:0:0:0:0:0:1]:9999",
			expected:   "127.0.0.1",
		},
		{
			name:       "Empty address",
			remoteAddr: "",
			expected:   "unknown",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req.Equal(tt.expected, ExtractIP(tt.remoteAddr))
		})
	}
}
