package bootstrap

import (
	"testing"

	"github.com/archlens/scan-api/config"
)

func TestErrorChannelCapacity(t *testing.T) {
	tests := []struct {
		name  string
		modes []config.ServiceMode
		want  int
	}{
		{
			name: "no services enabled",
			want: 0,
		},
		{
			name:  "http only",
			modes: []config.ServiceMode{config.ServiceModeHTTP},
			want:  1,
		},
		{
			name:  "reconciler only",
			modes: []config.ServiceMode{config.ServiceModeReconciler},
			want:  1,
		},
		{
			name:  "http and reconciler",
			modes: []config.ServiceMode{config.ServiceModeHTTP, config.ServiceModeReconciler},
			want:  2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enabled := make(map[config.ServiceMode]bool, len(tt.modes))
			for _, mode := range tt.modes {
				enabled[mode] = true
			}

			if got := errorChannelCapacity(enabled); got != tt.want {
				t.Fatalf("errorChannelCapacity(%v) = %d, want %d", tt.modes, got, tt.want)
			}
		})
	}
}

func TestErrorChannelBufferSize(t *testing.T) {
	tests := []struct {
		name  string
		modes []config.ServiceMode
		want  int
	}{
		{
			name: "no services enabled",
			want: 1,
		},
		{
			name:  "http only",
			modes: []config.ServiceMode{config.ServiceModeHTTP},
			want:  2,
		},
		{
			name:  "http and reconciler",
			modes: []config.ServiceMode{config.ServiceModeHTTP, config.ServiceModeReconciler},
			want:  3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enabled := make(map[config.ServiceMode]bool, len(tt.modes))
			for _, mode := range tt.modes {
				enabled[mode] = true
			}

			if got := errorChannelBufferSize(enabled); got != tt.want {
				t.Fatalf("errorChannelBufferSize(%v) = %d, want %d", tt.modes, got, tt.want)
			}
		})
	}
}

func TestGetEnabledServices(t *testing.T) {
	cfg := &config.AppConfig{Services: "http,reconciler"}
	got := GetEnabledServices(cfg)
	if len(got) != 2 {
		t.Fatalf("GetEnabledServices() = %v, want two entries", got)
	}

	seen := make(map[string]bool, len(got))
	for _, name := range got {
		seen[name] = true
	}
	if !seen["http"] || !seen["reconciler"] {
		t.Fatalf("GetEnabledServices() = %v, want http and reconciler", got)
	}
}

func TestGetEnabledServices_InvalidConfig(t *testing.T) {
	cfg := &config.AppConfig{Services: "bogus"}
	if got := GetEnabledServices(cfg); len(got) != 0 {
		t.Fatalf("GetEnabledServices() = %v, want empty", got)
	}
}

func TestValidateServiceConfig(t *testing.T) {
	if err := ValidateServiceConfig(nil); err == nil {
		t.Fatal("ValidateServiceConfig(nil) = nil, want error")
	}

	cfg := &config.AppConfig{Services: "http"}
	if err := ValidateServiceConfig(cfg); err != nil {
		t.Fatalf("ValidateServiceConfig() = %v, want nil", err)
	}

	cfg = &config.AppConfig{Services: "nope"}
	if err := ValidateServiceConfig(cfg); err == nil {
		t.Fatal("ValidateServiceConfig() = nil, want error for invalid service")
	}
}
