package middleware

import "testing"

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/api/v1/assets/BTC", "/api/v1/assets/:id"},
		{"/api/v1/manual/man-01ABC", "/api/v1/manual/:id"},
		{"/api/v1/connections/01ABC/", "/api/v1/connections/:id/"},
		{"/api/v1/portfolio/summary", "/api/v1/portfolio/summary"},
		{"/api/v1/manual", "/api/v1/manual"},
		{"/api/v1/manual/", "/api/v1/manual/"},
		{"/health", "/health"},
	}

	for _, tt := range tests {
		if got := normalizePath(tt.path); got != tt.want {
			t.Errorf("normalizePath(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}
