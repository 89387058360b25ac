package cfg

import (
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	c, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if c.Port != "8000" {
		t.Errorf("Port = %q", c.Port)
	}
	if c.SessionCookieName != "session_token" {
		t.Errorf("SessionCookieName = %q", c.SessionCookieName)
	}
	if c.ShareCodeLength != 8 {
		t.Errorf("ShareCodeLength = %d", c.ShareCodeLength)
	}
	if c.MinPasswordLen != 6 {
		t.Errorf("MinPasswordLen = %d", c.MinPasswordLen)
	}
	if c.SessionTTL != 7*24*time.Hour {
		t.Errorf("SessionTTL = %v", c.SessionTTL)
	}
	if err := Validate(c); err != nil {
		t.Errorf("defaults do not validate: %v", err)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("SHARE_CODE_LENGTH", "10")
	t.Setenv("SESSION_TTL", "24h")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example")

	c, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if c.Port != "9000" {
		t.Errorf("Port = %q", c.Port)
	}
	if c.ShareCodeLength != 10 {
		t.Errorf("ShareCodeLength = %d", c.ShareCodeLength)
	}
	if c.SessionTTL != 24*time.Hour {
		t.Errorf("SessionTTL = %v", c.SessionTTL)
	}
	if len(c.AllowedOrigins) != 2 || c.AllowedOrigins[1] != "https://b.example" {
		t.Errorf("AllowedOrigins = %v", c.AllowedOrigins)
	}
}

func TestLoadRejectsMalformedValues(t *testing.T) {
	t.Setenv("SESSION_TTL", "not-a-duration")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for malformed SESSION_TTL")
	}
}

func TestValidateRejections(t *testing.T) {
	base := func() *Cfg {
		c, err := Load()
		if err != nil {
			t.Fatal(err)
		}
		return c
	}
	tests := []struct {
		name   string
		mutate func(*Cfg)
		want   string
	}{
		{"bad port", func(c *Cfg) { c.Port = "http" }, "PORT"},
		{"short ttl", func(c *Cfg) { c.SessionTTL = time.Second }, "SESSION_TTL"},
		{"code too short", func(c *Cfg) { c.ShareCodeLength = 4 }, "SHARE_CODE_LENGTH"},
		{"code too long", func(c *Cfg) { c.ShareCodeLength = 32 }, "SHARE_CODE_LENGTH"},
		{"weak pepper", func(c *Cfg) { c.Pepper = NewSecret("short") }, "PEPPER"},
		{"bad redis url", func(c *Cfg) { c.RedisURL = "http://nope" }, "REDIS_URL"},
		{"huge content", func(c *Cfg) { c.MaxContentSize = 100 * 1024 * 1024 }, "MAX_CONTENT_SIZE"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base()
			tt.mutate(c)
			err := Validate(c)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want mention of %s", err, tt.want)
			}
		})
	}
}

func TestValidateProductionRequirements(t *testing.T) {
	c, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	c.Environment = "production"
	if err := Validate(c); err == nil {
		t.Error("production without pepper validated")
	}
	c.Pepper = NewSecret("0123456789ABCDEF0123456789ABCDEF")
	if err := Validate(c); err == nil {
		t.Error("production without secure cookies validated")
	}
	c.CookieSecure = true
	if err := Validate(c); err != nil {
		t.Errorf("hardened production config rejected: %v", err)
	}
}

func TestSecretRedaction(t *testing.T) {
	s := NewSecret("hunter2hunter2hunter2")
	if s.String() != "***REDACTED***" {
		t.Errorf("String() = %q", s.String())
	}
	if s.Value() != "hunter2hunter2hunter2" {
		t.Error("Value() does not round-trip")
	}
	s.Wipe()
	if strings.Trim(s.Value(), "\x00") != "" {
		t.Errorf("Wipe left %q", s.Value())
	}
}
