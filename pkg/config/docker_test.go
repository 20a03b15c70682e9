package config

import (
	"testing"
)

func TestResolveHost(t *testing.T) {
	tests := []struct {
		input    string
		inDocker bool
		expected string
	}{
		{"mydb.example.com", true, "mydb.example.com"},
		{"192.168.1.100", true, "192.168.1.100"},
		{"localhost", true, "host.docker.internal"},
		{"127.0.0.1", true, "host.docker.internal"},
		{"localhost", false, "localhost"},
		{"127.0.0.1", false, "127.0.0.1"},
	}

	for _, tt := range tests {
		if got := resolveHost(tt.input, tt.inDocker); got != tt.expected {
			t.Errorf("resolveHost(%q, %v) = %q, want %q", tt.input, tt.inDocker, got, tt.expected)
		}
	}
}

func TestResolveURL(t *testing.T) {
	tests := []struct {
		input    string
		inDocker bool
		expected string
	}{
		{"http://localhost:8080/v1", true, "http://host.docker.internal:8080/v1"},
		{"http://127.0.0.1/v1", true, "http://host.docker.internal/v1"},
		{"https://api.groq.com/openai/v1", true, "https://api.groq.com/openai/v1"},
		{"http://localhost:8080/v1", false, "http://localhost:8080/v1"},
		{"not a url", true, "not a url"},
	}

	for _, tt := range tests {
		if got := resolveURL(tt.input, tt.inDocker); got != tt.expected {
			t.Errorf("resolveURL(%q, %v) = %q, want %q", tt.input, tt.inDocker, got, tt.expected)
		}
	}
}

func TestResolveHostForDocker_MatchesDetection(t *testing.T) {
	got := ResolveHostForDocker("localhost")
	if IsRunningInDocker() {
		if got != "host.docker.internal" {
			t.Errorf("in Docker: got %q", got)
		}
	} else if got != "localhost" {
		t.Errorf("not in Docker: got %q", got)
	}
}
