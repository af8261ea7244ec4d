package config

import (
	"testing"
	"time"
)

func TestLoad_AppEnvValidation(t *testing.T) {
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_UptraceRequiresDSNWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when UPTRACE_ENABLED=true without UPTRACE_DSN")
	}
}

func TestLoad_DefaultsByEnv(t *testing.T) {
	t.Run("prod disables swagger by default", func(t *testing.T) {
		t.Setenv("APP_ENV", EnvProd)
		t.Setenv("UPTRACE_ENABLED", "false")
		t.Setenv("SWAGGER_ENABLED", "")
		t.Setenv("JWT_SIGNING_KEY", "prod-signing-key")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.SwaggerEnabled {
			t.Fatalf("expected SwaggerEnabled=false in prod by default")
		}
	})

	t.Run("dev enables swagger by default", func(t *testing.T) {
		t.Setenv("APP_ENV", EnvDev)
		t.Setenv("UPTRACE_ENABLED", "false")
		t.Setenv("SWAGGER_ENABLED", "")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if !cfg.SwaggerEnabled {
			t.Fatalf("expected SwaggerEnabled=true in dev by default")
		}
	})
}

func TestLoad_PprofDefaultsAddrWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("PPROF_ENABLED", "true")
	t.Setenv("PPROF_ADDR", "  ")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.PprofAddr != ":6060" {
		t.Fatalf("expected default pprof addr :6060, got %q", cfg.PprofAddr)
	}
}

func TestLoad_PyroscopeRequiresServerAddressWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("PYROSCOPE_ENABLED", "true")
	t.Setenv("PYROSCOPE_SERVER_ADDRESS", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when PYROSCOPE_ENABLED=true without PYROSCOPE_SERVER_ADDRESS")
	}
}

func TestLoad_PyroscopeAppNameDefaultsToServiceName(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("PYROSCOPE_ENABLED", "true")
	t.Setenv("PYROSCOPE_SERVER_ADDRESS", "http://pyroscope:4040")
	t.Setenv("APP_SERVICE_NAME", "league-api")
	t.Setenv("PYROSCOPE_APP_NAME", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.PyroscopeAppName != "league-api" {
		t.Fatalf("expected pyroscope app name to default to service name, got %q", cfg.PyroscopeAppName)
	}
}

func TestLoad_PyroscopeUploadRateMustBePositive(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("PYROSCOPE_UPLOAD_RATE", "0s")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for non-positive PYROSCOPE_UPLOAD_RATE")
	}
}

func TestLoad_AnubisCircuitDefaults(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("ANUBIS_ENABLED", "")
	t.Setenv("ANUBIS_CIRCUIT_FAILURE_COUNT", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.AnubisEnabled {
		t.Fatalf("expected AnubisEnabled=false by default")
	}
	if cfg.AnubisCircuitFailureCount != 5 {
		t.Fatalf("unexpected default anubis circuit failure count: %d", cfg.AnubisCircuitFailureCount)
	}
	if cfg.AnubisCircuitHalfOpenMaxReq != 2 {
		t.Fatalf("unexpected default anubis circuit half-open max req: %d", cfg.AnubisCircuitHalfOpenMaxReq)
	}
}

func TestLoad_AnubisCircuitFailureCountMustBePositive(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("ANUBIS_CIRCUIT_FAILURE_COUNT", "0")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for ANUBIS_CIRCUIT_FAILURE_COUNT < 1")
	}
}

func TestLoad_DBDisablePreparedBinaryParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")

	t.Run("defaults to false", func(t *testing.T) {
		t.Setenv("DB_DISABLE_PREPARED_BINARY", "")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.DBDisablePreparedBinary {
			t.Fatalf("expected DBDisablePreparedBinary=false by default")
		}
	})

	t.Run("invalid value", func(t *testing.T) {
		t.Setenv("DB_DISABLE_PREPARED_BINARY", "not-a-bool")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for invalid DB_DISABLE_PREPARED_BINARY")
		}
	})
}

func TestLoad_JWTSigningKey(t *testing.T) {
	t.Run("falls back to a dev key outside prod", func(t *testing.T) {
		t.Setenv("APP_ENV", EnvDev)
		t.Setenv("UPTRACE_ENABLED", "false")
		t.Setenv("JWT_SIGNING_KEY", "")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.JWTSigningKey == "" {
			t.Fatalf("expected a non-empty dev signing key fallback")
		}
	})

	t.Run("is required in prod", func(t *testing.T) {
		t.Setenv("APP_ENV", EnvProd)
		t.Setenv("UPTRACE_ENABLED", "false")
		t.Setenv("SWAGGER_ENABLED", "false")
		t.Setenv("JWT_SIGNING_KEY", "")

		if _, err := Load(); err == nil {
			t.Fatalf("expected error when JWT_SIGNING_KEY is empty in prod")
		}
	})
}

func TestLoad_RateLimitBackendValidation(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("RATE_LIMIT_BACKEND", "carrier-pigeon")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid RATE_LIMIT_BACKEND")
	}
}

func TestLoad_RateLimitDefaults(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("RATE_LIMIT_BACKEND", "")
	t.Setenv("RATE_LIMIT_AUTH_LIMIT", "")
	t.Setenv("RATE_LIMIT_AUTH_WINDOW", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.RateLimitBackend != "memory" {
		t.Fatalf("expected default rate limit backend memory, got %q", cfg.RateLimitBackend)
	}
	if cfg.RateLimitAuthLimit != 10 {
		t.Fatalf("unexpected default auth rate limit: %d", cfg.RateLimitAuthLimit)
	}
	if cfg.RateLimitAuthWindow != time.Minute {
		t.Fatalf("unexpected default auth rate limit window: %s", cfg.RateLimitAuthWindow)
	}
}

func TestLoad_CORSAllowedOriginsSplitting(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.example.com ,https://b.example.com,")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if len(cfg.CORSAllowedOrigins) != 2 {
		t.Fatalf("expected 2 allowed origins, got %v", cfg.CORSAllowedOrigins)
	}
	if cfg.CORSAllowedOrigins[0] != "https://a.example.com" || cfg.CORSAllowedOrigins[1] != "https://b.example.com" {
		t.Fatalf("unexpected allowed origins: %v", cfg.CORSAllowedOrigins)
	}
}

func TestLoad_WorkerAutoCreateProducersSplitting(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("WORKER_AUTO_CREATE_PRODUCERS", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if len(cfg.AutoCreateProducers) != 0 {
		t.Fatalf("expected no auto-create producers by default, got %v", cfg.AutoCreateProducers)
	}

	t.Setenv("WORKER_AUTO_CREATE_PRODUCERS", "sportsfeed,manual")
	cfg, err = Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if len(cfg.AutoCreateProducers) != 2 || cfg.AutoCreateProducers[0] != "sportsfeed" {
		t.Fatalf("unexpected auto-create producers: %v", cfg.AutoCreateProducers)
	}
}

func TestLoad_LogLevelParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")

	cases := map[string]string{
		"debug":   "debug",
		"warn":    "warn",
		"warning": "warn",
		"error":   "error",
		"":        "info",
		"bogus":   "info",
	}
	for input, want := range cases {
		t.Setenv("APP_LOG_LEVEL", input)
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if got := cfg.LogLevel.String(); got != want {
			t.Fatalf("APP_LOG_LEVEL=%q: expected level %q, got %q", input, want, got)
		}
	}
}
