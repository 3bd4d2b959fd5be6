package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Warehouse.Driver != DriverCSV || cfg.HTTP.Addr != ":8080" || cfg.GRPC.Addr != ":9090" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := writeFile(t, `
log:
  mode: prod
http:
  grpc_target: reader:9090
  request_timeout: 2s
  cors_origins: ["http://localhost:5173"]
warehouse:
  driver: postgres
  dsn: postgres://dw@localhost/dw
  table_prefix: kundinfo.
  slow_query: 250ms
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Log.Mode != "prod" || cfg.HTTP.GRPCTarget != "reader:9090" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if got, want := cfg.HTTP.RequestTimeout, 2*time.Second; got != want {
		t.Fatalf("request_timeout=%s want %s", got, want)
	}
	if got, want := cfg.Warehouse.SlowQuery, 250*time.Millisecond; got != want {
		t.Fatalf("slow_query=%s want %s", got, want)
	}
	if cfg.Warehouse.TablePrefix != "kundinfo." || len(cfg.HTTP.CORSOrigins) != 1 {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	// Untouched fields keep their defaults.
	if cfg.Warehouse.MaxOpenConns != 10 {
		t.Fatalf("max_open_conns=%d want 10", cfg.Warehouse.MaxOpenConns)
	}
}

func TestApplyEnv(t *testing.T) {
	t.Parallel()

	env := map[string]string{
		"DWR_WAREHOUSE_DRIVER":         "sqlite",
		"DWR_WAREHOUSE_DSN":            "warehouse.db",
		"DWR_HTTP_CORS_ORIGINS":        "http://a.test, http://b.test",
		"DWR_HTTP_REQUEST_TIMEOUT":     "750ms",
		"DWR_WAREHOUSE_MAX_OPEN_CONNS": "3",
	}
	cfg := Default()
	err := cfg.applyEnv(func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	})
	if err != nil {
		t.Fatalf("applyEnv: %v", err)
	}
	if cfg.Warehouse.Driver != DriverSQLite || cfg.Warehouse.DSN != "warehouse.db" || cfg.Warehouse.MaxOpenConns != 3 {
		t.Fatalf("unexpected warehouse config: %+v", cfg.Warehouse)
	}
	if got := strings.Join(cfg.HTTP.CORSOrigins, "|"); got != "http://a.test|http://b.test" {
		t.Fatalf("cors_origins=%q", got)
	}
	if got, want := cfg.HTTP.RequestTimeout, 750*time.Millisecond; got != want {
		t.Fatalf("request_timeout=%s want %s", got, want)
	}
}

func TestApplyEnv_InvalidValues(t *testing.T) {
	t.Parallel()

	cfg := Default()
	err := cfg.applyEnv(func(k string) (string, bool) {
		switch k {
		case "DWR_HTTP_REQUEST_TIMEOUT":
			return "soon", true
		case "DWR_WAREHOUSE_MAX_IDLE_CONNS":
			return "many", true
		}
		return "", false
	})
	if err == nil {
		t.Fatalf("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "DWR_HTTP_REQUEST_TIMEOUT") || !strings.Contains(err.Error(), "DWR_WAREHOUSE_MAX_IDLE_CONNS") {
		t.Fatalf("error should name both keys: %v", err)
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := map[string]func(*Config){
		"postgres without dsn":  func(c *Config) { c.Warehouse.Driver = DriverPostgres },
		"unknown driver":        func(c *Config) { c.Warehouse.Driver = "oracle" },
		"csv without dir":       func(c *Config) { c.Warehouse.CSVDir = "" },
		"zero timeout":          func(c *Config) { c.HTTP.RequestTimeout = 0 },
		"otlp without endpoint": func(c *Config) { c.Tracing.Exporter = TracingOTLP },
		"unknown exporter":      func(c *Config) { c.Tracing.Exporter = "jaeger" },
		"ratio above one":       func(c *Config) { c.Tracing.SampleRatio = 1.5 },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			cfg := Default()
			mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}

	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestApplyEnv_Tracing(t *testing.T) {
	t.Parallel()

	env := map[string]string{
		"DWR_TRACING_EXPORTER":     "otlp",
		"DWR_TRACING_ENDPOINT":     "collector:4318",
		"DWR_TRACING_INSECURE":     "true",
		"DWR_TRACING_SAMPLE_RATIO": "0.5",
	}
	cfg := Default()
	err := cfg.applyEnv(func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	})
	if err != nil {
		t.Fatalf("applyEnv: %v", err)
	}
	want := TracingConfig{Exporter: TracingOTLP, Endpoint: "collector:4318", Insecure: true, SampleRatio: 0.5, ServiceName: "dwreader"}
	if cfg.Tracing != want {
		t.Fatalf("tracing=%+v want %+v", cfg.Tracing, want)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}
