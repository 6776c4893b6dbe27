package config

import "testing"

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("KEYWORD_MAP_PATH", "custom.json")
	t.Setenv("WALLET", "Другой кошелек")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("PORT", "9090")

	cfg := Load()
	if cfg.KeywordMapPath != "custom.json" {
		t.Errorf("KeywordMapPath: got %q", cfg.KeywordMapPath)
	}
	if cfg.Wallet != "Другой кошелек" {
		t.Errorf("Wallet: got %q", cfg.Wallet)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel: got %q", cfg.LogLevel)
	}
	if cfg.Port != "9090" {
		t.Errorf("Port: got %q", cfg.Port)
	}
}

func TestGetEnvDefault(t *testing.T) {
	if got := getEnv("STATEMENT_CONVERTER_UNSET_KEY", "fallback"); got != "fallback" {
		t.Errorf("getEnv: got %q, want fallback", got)
	}
	t.Setenv("STATEMENT_CONVERTER_SET_KEY", "value")
	if got := getEnv("STATEMENT_CONVERTER_SET_KEY", "fallback"); got != "value" {
		t.Errorf("getEnv: got %q, want value", got)
	}
}
