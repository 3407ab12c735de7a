package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config represents the application configuration structure.
// It contains settings for the environment, HTTP server, database connection,
// solver defaults, the sweep queue, ensemble comparisons and graceful shutdown behavior.
type Config struct {
	// Environment specifies the current running environment (development, production, etc.)
	Environment string `env:"ENVIRONMENT" env-default:"development" yaml:"environment"`
	// LogLevel overrides the default level of the environment when set
	LogLevel string `env:"LOG_LEVEL" env-default:"" yaml:"logLevel"`

	// HTTP contains all HTTP server related configurations
	HTTP struct {
		// Addr is the address and port the HTTP server will listen on
		Addr string `env:"HTTP_ADDR" env-default:":8080" yaml:"addr"`
		// ReadTimeout is the maximum duration for reading the entire request, including the body
		ReadTimeout time.Duration `env:"HTTP_READ_TIMEOUT" env-default:"1m" yaml:"readTimeout"`
		// ReadHeaderTimeout is the amount of time allowed to read request headers
		ReadHeaderTimeout time.Duration `env:"HTTP_READ_HEADER_TIMEOUT" env-default:"10s" yaml:"readHeaderTimeout"`
		// WriteTimeout is the maximum duration before timing out writes of the response
		WriteTimeout time.Duration `env:"HTTP_WRITE_TIMEOUT" env-default:"2m" yaml:"writeTimeout"`
		// IdleTimeout is the maximum amount of time to wait for the next request when keep-alives are enabled
		IdleTimeout time.Duration `env:"HTTP_IDLE_TIMEOUT" env-default:"2m" yaml:"idleTimeout"`
		// RequestTimeout is the maximum time allowed for processing a single request.
		// Transient solves with many times can be slow, so this is larger than usual.
		RequestTimeout time.Duration `env:"HTTP_REQUEST_TIMEOUT" env-default:"1m" yaml:"requestTimeout"`
		// MaxHeaderBytes controls the maximum number of bytes the server will read parsing the request header
		MaxHeaderBytes int `env:"HTTP_MAX_HEADER_BYTES" env-default:"0" yaml:"maxHeaderBytes"`
		// MaxBodyBytes limits the size of JSON request bodies
		MaxBodyBytes int64 `env:"HTTP_MAX_BODY_BYTES" env-default:"1048576" yaml:"maxBodyBytes"`
		// MetricsPath defines the URL path where metrics are exposed
		MetricsPath string `env:"HTTP_METRICS_PATH" env-default:"/metrics" yaml:"metricsPath"`
		// AllowedOrigins restricts CORS to the listed origins, empty allows all
		AllowedOrigins []string `env:"HTTP_ALLOWED_ORIGINS" env-separator:"," yaml:"allowedOrigins"`
	} `yaml:"http"`

	// Database contains all database connection related configurations
	Database struct {
		// Username for database authentication
		Username string `env:"DATABASE_USERNAME" env-default:"myuser" yaml:"username"`
		// Password for database authentication
		Password string `env:"DATABASE_PASSWORD" env-default:"mypassword" yaml:"password"`
		// Host is the database server hostname or IP address
		Host string `env:"DATABASE_HOST" env-default:"localhost" yaml:"host"`
		// Port is the database server port number
		Port int `env:"DATABASE_PORT" env-default:"5432" yaml:"port"`
		// SslMode defines the SSL mode for the database connection
		SslMode string `env:"DATABASE_SSL_MODE" env-default:"disable" yaml:"sslMode"`
		// DatabaseName is the name of the database to connect to
		DatabaseName string `env:"DATABASE_NAME" env-default:"wellflow" yaml:"name"`
		// MaxOpenConnections limits the number of open connections to the database
		MaxOpenConnections int `env:"DATABASE_MAX_OPEN_CONNECTIONS" env-default:"10" yaml:"maxOpenConnections"`
		// MaxIdleConnections limits the number of connections in the idle connection pool
		MaxIdleConnections int `env:"DATABASE_MAX_IDLE_CONNECTIONS" env-default:"8" yaml:"maxIdleConnections"`
		// ConnMaxLifetime is the maximum amount of time a connection may be reused
		ConnMaxLifetime time.Duration `env:"DATABASE_CONNECTION_MAX_LIFETIME" env-default:"3m" yaml:"connMaxLifetime"`
		// ConnMaxIdleTime is the maximum amount of time a connection may be idle
		ConnMaxIdleTime time.Duration `env:"DATABASE_CONNECTION_MAX_IDLE_TIME" env-default:"3m" yaml:"connMaxIdleTime"`
		// ConnectRetries is the number of extra pings on startup before giving up
		ConnectRetries int `env:"DATABASE_CONNECT_RETRIES" env-default:"5" yaml:"connectRetries"`
	} `yaml:"database"`

	// Solver holds the defaults of the drawdown pipelines
	Solver struct {
		// Prop is the proportionality factor between radius and correlation length in the upscaling law
		Prop float64 `env:"SOLVER_PROP" env-default:"1.6" yaml:"prop"`
		// FarError is the relative error at which the law is replaced by its far field
		FarError float64 `env:"SOLVER_FAR_ERROR" env-default:"0.01" yaml:"farError"`
		// Parts is the number of zones of the step profile
		Parts int `env:"SOLVER_PARTS" env-default:"30" yaml:"parts"`
		// LatExt is the lateral extent of the aquifer
		LatExt float64 `env:"SOLVER_LAT_EXT" env-default:"1" yaml:"latExt"`
		// Workers bounds concurrent time evaluations, zero uses GOMAXPROCS
		Workers int `env:"SOLVER_WORKERS" env-default:"0" yaml:"workers"`
		// Levels are the Talbot node counts tried in order
		Levels []int `env:"SOLVER_LEVELS" env-default:"16,24,32,40" env-separator:"," yaml:"levels"`
		// RelTol is the relative agreement required between two levels
		RelTol float64 `env:"SOLVER_REL_TOL" env-default:"1e-8" yaml:"relTol"`
		// ScaleTol is the agreement required relative to the largest head of a time
		ScaleTol float64 `env:"SOLVER_SCALE_TOL" env-default:"1e-10" yaml:"scaleTol"`
	} `yaml:"solver"`

	// Sweep configures background execution of parameter sweeps
	Sweep struct {
		// MaxAttempts is the maximum number of times a run job is tried
		MaxAttempts int `env:"SWEEP_MAX_ATTEMPTS" env-default:"3" yaml:"maxAttempts"`
		// QueueWorkers is the number of runs solved concurrently by the worker
		QueueWorkers int `env:"SWEEP_QUEUE_WORKERS" env-default:"4" yaml:"queueWorkers"`
		// MaxRuns limits the number of parameter sets in a single sweep
		MaxRuns int `env:"SWEEP_MAX_RUNS" env-default:"1000" yaml:"maxRuns"`
	} `yaml:"sweep"`

	// Ensemble configures the comparison of ensemble means against the effective solution
	Ensemble struct {
		// TimeMin excludes times at or below this value
		TimeMin float64 `env:"ENSEMBLE_TIME_MIN" env-default:"60" yaml:"timeMin"`
		// RadMin excludes radii at or below this value
		RadMin float64 `env:"ENSEMBLE_RAD_MIN" env-default:"0.2" yaml:"radMin"`
		// RadMax excludes radii at or above this value
		RadMax float64 `env:"ENSEMBLE_RAD_MAX" env-default:"40" yaml:"radMax"`
		// Rate is the pumping rate used by the simulations
		Rate float64 `env:"ENSEMBLE_RATE" env-default:"-1e-4" yaml:"rate"`
		// Prop is the proportionality factor used for the comparison, sqrt(2π) by default
		Prop float64 `env:"ENSEMBLE_PROP" env-default:"2.5066282746310002" yaml:"prop"`
		// Parts is the number of zones used for the comparison
		Parts int `env:"ENSEMBLE_PARTS" env-default:"30" yaml:"parts"`
	} `yaml:"ensemble"`

	// GracefulShutdownTimeout is the maximum duration to wait for ongoing requests to complete during shutdown
	GracefulShutdownTimeout time.Duration `env:"GRACEFUL_SHUTDOWN_TIMEOUT" env-default:"10s" yaml:"gracefulShutdownTimeout"` //nolint: lll
}

// Load receives the path for yaml config file and returns a filled Config struct.
func Load(configPath string) (*Config, error) {
	var cfg Config
	err := cleanenv.ReadConfig(configPath, &cfg)
	if err != nil {
		return nil, fmt.Errorf("could not read config: %w", err)
	}

	return &cfg, nil
}

// Defaults returns a Config filled from env-default tags and the environment
// only, for commands that run without a config file.
func Defaults() (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("could not read config from env: %w", err)
	}

	return &cfg, nil
}
