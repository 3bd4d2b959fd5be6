package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverCSV      = "csv"

	TracingNone   = "none"
	TracingStdout = "stdout"
	TracingOTLP   = "otlp"
)

// Config holds the service configuration.
type Config struct {
	Log       LogConfig       `yaml:"log"`
	HTTP      HTTPConfig      `yaml:"http"`
	GRPC      GRPCConfig      `yaml:"grpc"`
	Warehouse WarehouseConfig `yaml:"warehouse"`
	Tracing   TracingConfig   `yaml:"tracing"`
}

type LogConfig struct {
	Mode string `yaml:"mode"` // dev, prod or test
}

type HTTPConfig struct {
	Addr string `yaml:"addr"`
	// GRPCTarget is the reader service to call. Empty serves the warehouse
	// in-process.
	GRPCTarget     string        `yaml:"grpc_target,omitempty"`
	GRPCWait       time.Duration `yaml:"grpc_wait"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	CORSOrigins    []string      `yaml:"cors_origins,omitempty"`
}

type GRPCConfig struct {
	Addr string `yaml:"addr"`
}

type WarehouseConfig struct {
	Driver          string        `yaml:"driver"`
	DSN             string        `yaml:"dsn,omitempty"`
	TablePrefix     string        `yaml:"table_prefix,omitempty"`
	CSVDir          string        `yaml:"csv_dir,omitempty"`
	SlowQuery       time.Duration `yaml:"slow_query"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
}

// TracingConfig selects the span exporter for the HTTP gateway.
type TracingConfig struct {
	Exporter    string  `yaml:"exporter"` // none, stdout or otlp
	Endpoint    string  `yaml:"endpoint,omitempty"`
	Insecure    bool    `yaml:"insecure,omitempty"`
	SampleRatio float64 `yaml:"sample_ratio"`
	ServiceName string  `yaml:"service_name,omitempty"`
}

func Default() Config {
	return Config{
		Log: LogConfig{Mode: "dev"},
		HTTP: HTTPConfig{
			Addr:           ":8080",
			GRPCWait:       20 * time.Second,
			RequestTimeout: 5 * time.Second,
		},
		GRPC: GRPCConfig{Addr: ":9090"},
		Warehouse: WarehouseConfig{
			Driver:          DriverCSV,
			CSVDir:          "data",
			SlowQuery:       time.Second,
			MaxOpenConns:    10,
			MaxIdleConns:    5,
			ConnMaxLifetime: 30 * time.Minute,
		},
		Tracing: TracingConfig{
			Exporter:    TracingNone,
			SampleRatio: 0.1,
			ServiceName: "dwreader",
		},
	}
}

// Load reads path over the defaults, then applies DWR_* environment
// overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("reading config file: %w", err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parsing config file: %w", err)
			}
		}
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok {
			*dst = v
		}
	}
	dur := func(key string, dst *time.Duration) error {
		v, ok := lookup(key)
		if !ok {
			return nil
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*dst = d
		return nil
	}
	num := func(key string, dst *int) error {
		v, ok := lookup(key)
		if !ok {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*dst = n
		return nil
	}
	flag := func(key string, dst *bool) error {
		v, ok := lookup(key)
		if !ok {
			return nil
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*dst = b
		return nil
	}
	ratio := func(key string, dst *float64) error {
		v, ok := lookup(key)
		if !ok {
			return nil
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*dst = f
		return nil
	}

	str("DWR_LOG_MODE", &c.Log.Mode)
	str("DWR_HTTP_ADDR", &c.HTTP.Addr)
	str("DWR_HTTP_GRPC_TARGET", &c.HTTP.GRPCTarget)
	if v, ok := lookup("DWR_HTTP_CORS_ORIGINS"); ok {
		c.HTTP.CORSOrigins = splitList(v)
	}
	str("DWR_GRPC_ADDR", &c.GRPC.Addr)
	str("DWR_WAREHOUSE_DRIVER", &c.Warehouse.Driver)
	str("DWR_WAREHOUSE_DSN", &c.Warehouse.DSN)
	str("DWR_WAREHOUSE_TABLE_PREFIX", &c.Warehouse.TablePrefix)
	str("DWR_WAREHOUSE_CSV_DIR", &c.Warehouse.CSVDir)
	str("DWR_TRACING_EXPORTER", &c.Tracing.Exporter)
	str("DWR_TRACING_ENDPOINT", &c.Tracing.Endpoint)

	return errors.Join(
		dur("DWR_HTTP_GRPC_WAIT", &c.HTTP.GRPCWait),
		dur("DWR_HTTP_REQUEST_TIMEOUT", &c.HTTP.RequestTimeout),
		dur("DWR_WAREHOUSE_SLOW_QUERY", &c.Warehouse.SlowQuery),
		dur("DWR_WAREHOUSE_CONN_MAX_LIFETIME", &c.Warehouse.ConnMaxLifetime),
		num("DWR_WAREHOUSE_MAX_OPEN_CONNS", &c.Warehouse.MaxOpenConns),
		num("DWR_WAREHOUSE_MAX_IDLE_CONNS", &c.Warehouse.MaxIdleConns),
		flag("DWR_TRACING_INSECURE", &c.Tracing.Insecure),
		ratio("DWR_TRACING_SAMPLE_RATIO", &c.Tracing.SampleRatio),
	)
}

func (c *Config) Validate() error {
	var errs []error
	switch c.Warehouse.Driver {
	case DriverPostgres:
		if c.Warehouse.DSN == "" {
			errs = append(errs, errors.New("warehouse.dsn is required for the postgres driver"))
		}
	case DriverSQLite:
	case DriverCSV:
		if c.Warehouse.CSVDir == "" {
			errs = append(errs, errors.New("warehouse.csv_dir is required for the csv driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("warehouse.driver %q must be one of %s, %s, %s", c.Warehouse.Driver, DriverPostgres, DriverSQLite, DriverCSV))
	}
	if c.HTTP.RequestTimeout <= 0 {
		errs = append(errs, errors.New("http.request_timeout must be positive"))
	}
	switch strings.ToLower(c.Tracing.Exporter) {
	case "", TracingNone, TracingStdout:
	case TracingOTLP:
		if c.Tracing.Endpoint == "" {
			errs = append(errs, errors.New("tracing.endpoint is required for the otlp exporter"))
		}
	default:
		errs = append(errs, fmt.Errorf("tracing.exporter %q must be one of %s, %s, %s", c.Tracing.Exporter, TracingNone, TracingStdout, TracingOTLP))
	}
	if c.Tracing.SampleRatio < 0 || c.Tracing.SampleRatio > 1 {
		errs = append(errs, errors.New("tracing.sample_ratio must be within [0, 1]"))
	}
	if c.Warehouse.MaxOpenConns < 0 || c.Warehouse.MaxIdleConns < 0 {
		errs = append(errs, errors.New("warehouse pool sizes must not be negative"))
	}
	return errors.Join(errs...)
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
