package config

import (
	"testing"

	"github.com/spf13/viper"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name    string
		level   string
		format  string
		wantErr bool
	}{
		{"defaults", "info", "", false},
		{"debug_json", "debug", "json", false},
		{"warn_console", "warn", "console", false},
		{"bad_level", "loud", "json", true},
		{"bad_format", "info", "xml", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := viper.New()
			v.Set("logging.level", tt.level)
			v.Set("logging.format", tt.format)

			logger, err := NewLogger(v)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewLogger() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && logger == nil {
				t.Fatal("NewLogger() returned nil logger without error")
			}
		})
	}
}

func TestViperConfigSub(t *testing.T) {
	v := viper.New()
	v.Set("modules.discovery.batch_size", 25)

	cfg := New(v)
	sub := cfg.Sub("modules.discovery")
	if got := sub.GetInt("batch_size"); got != 25 {
		t.Errorf("Sub().GetInt(batch_size) = %d, want 25", got)
	}

	// Missing section yields an empty (non-nil) config.
	missing := cfg.Sub("modules.nope")
	if missing == nil {
		t.Fatal("Sub() on missing key returned nil")
	}
	if missing.IsSet("anything") {
		t.Error("empty sub config reports keys as set")
	}
}
