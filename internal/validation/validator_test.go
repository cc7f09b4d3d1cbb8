// Watchpost - Multi-Camera Surveillance Daemon
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/watchpost

package validation

import (
	"strings"
	"testing"
)

type testCamera struct {
	FrameRate int    `validate:"gte=1,lte=100"`
	NetcamURL string `validate:"omitempty,url"`
}

type testConfig struct {
	Level   string       `validate:"loglevel"`
	Addr    string       `validate:"omitempty,hostname_port"`
	Format  string       `validate:"oneof=json console"`
	Cameras []testCamera `validate:"dive"`
}

func TestGetValidator_Singleton(t *testing.T) {
	if GetValidator() != GetValidator() {
		t.Error("GetValidator() should return the same instance")
	}
}

func TestValidateStruct(t *testing.T) {
	valid := testConfig{
		Level:   "info",
		Addr:    "127.0.0.1:8080",
		Format:  "json",
		Cameras: []testCamera{{FrameRate: 15, NetcamURL: "http://cam.local/snap.jpg"}},
	}

	tests := []struct {
		name      string
		mutate    func(c *testConfig)
		wantField string
		wantMsg   string
	}{
		{"valid", func(c *testConfig) {}, "", ""},
		{"bad level", func(c *testConfig) { c.Level = "loud" }, "Level", "must be a log level"},
		{"bad addr", func(c *testConfig) { c.Addr = "nowhere" }, "Addr", "must be host:port"},
		{"bad format", func(c *testConfig) { c.Format = "xml" }, "Format", "must be one of: json console"},
		{"camera framerate", func(c *testConfig) { c.Cameras[0].FrameRate = 0 }, "Cameras[0].FrameRate", "greater than or equal to 1"},
		{"camera url", func(c *testConfig) { c.Cameras[0].NetcamURL = "not a url" }, "Cameras[0].NetcamURL", "valid URL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			cfg.Cameras = append([]testCamera(nil), valid.Cameras...)
			tt.mutate(&cfg)

			verr := ValidateStruct(&cfg)
			if tt.wantField == "" {
				if verr != nil {
					t.Fatalf("unexpected error: %v", verr)
				}
				return
			}
			if verr == nil {
				t.Fatal("expected validation error")
			}
			errs := verr.Errors()
			if len(errs) != 1 {
				t.Fatalf("expected 1 error, got %d: %v", len(errs), verr)
			}
			if errs[0].Field != tt.wantField {
				t.Errorf("Field = %q, want %q", errs[0].Field, tt.wantField)
			}
			if !strings.Contains(verr.Error(), tt.wantMsg) {
				t.Errorf("Error() = %q, want it to contain %q", verr.Error(), tt.wantMsg)
			}
		})
	}
}
