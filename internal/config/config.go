package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config holds all the configuration for the application.
type Config struct {
	Env        string `yaml:"env" env:"ENV" env-default:"production"`
	HTTPServer `yaml:"http_server"`
	Database   `yaml:"database"`
	Prober     `yaml:"prober"`
	Redis      `yaml:"redis"`
	Bloom      `yaml:"bloom"`
	Enrichment `yaml:"enrichment"`
	Owner      `yaml:"owner"`
	BaseURL    string `yaml:"base_url" env:"BASE_URL" env-default:"http://localhost:8080"`
}

// HTTPServer holds HTTP server specific configuration.
type HTTPServer struct {
	Addr         string        `yaml:"addr" env:"HTTP_ADDR" env-default:":8080"`
	ReadTimeout  time.Duration `yaml:"read_timeout" env:"HTTP_READ_TIMEOUT" env-default:"30s"`
	WriteTimeout time.Duration `yaml:"write_timeout" env:"HTTP_WRITE_TIMEOUT" env-default:"30s"`
	IdleTimeout  time.Duration `yaml:"idle_timeout" env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`
}

// Database holds PostgreSQL connection configuration.
type Database struct {
	Host            string `yaml:"host" env:"DB_HOST" env-default:"localhost"`
	Port            int    `yaml:"port" env:"DB_PORT" env-default:"5432"`
	User            string `yaml:"user" env:"DB_USER" env-default:"shorty"`
	Password        string `yaml:"password" env:"DB_PASSWORD" env-default:""`
	DBName          string `yaml:"dbname" env:"DB_NAME" env-default:"shorty"`
	SSLMode         string `yaml:"sslmode" env:"DB_SSLMODE" env-default:"disable"`
	Timezone        string `yaml:"timezone" env:"DB_TIMEZONE" env-default:"UTC"`
	MaxIdleConns    int    `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS" env-default:"5"`
	MaxOpenConns    int    `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS" env-default:"25"`
	ConnMaxLifetime string `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME" env-default:"1h"`
	AutoMigrate     bool   `yaml:"auto_migrate" env:"DB_AUTO_MIGRATE" env-default:"true"`
	SeedData        bool   `yaml:"seed_data" env:"DB_SEED_DATA" env-default:"true"`
}

// Prober holds liveness probe configuration.
type Prober struct {
	Timeout      time.Duration `yaml:"timeout" env:"PROBE_TIMEOUT" env-default:"500ms"`
	MaxBodyBytes int64         `yaml:"max_body_bytes" env:"PROBE_MAX_BODY_BYTES" env-default:"1048576"`
}

// Redis holds the optional mapping cache configuration.
type Redis struct {
	Enabled  bool          `yaml:"enabled" env:"REDIS_ENABLED" env-default:"false"`
	Addr     string        `yaml:"addr" env:"REDIS_ADDR" env-default:"localhost:6379"`
	Password string        `yaml:"password" env:"REDIS_PASSWORD" env-default:""`
	DB       int           `yaml:"db" env:"REDIS_DB" env-default:"0"`
	PoolSize int           `yaml:"pool_size" env:"REDIS_POOL_SIZE" env-default:"10"`
	TTL      time.Duration `yaml:"ttl" env:"REDIS_TTL" env-default:"5m"`
}

// Bloom holds the short code filter sizing.
type Bloom struct {
	ExpectedItems     uint    `yaml:"expected_items" env:"BLOOM_EXPECTED_ITEMS" env-default:"1000000"`
	FalsePositiveRate float64 `yaml:"false_positive_rate" env:"BLOOM_FALSE_POSITIVE_RATE" env-default:"0.01"`
}

// Enrichment holds the title enrichment worker pool configuration.
type Enrichment struct {
	WorkerCount     int           `yaml:"worker_count" env:"ENRICH_WORKER_COUNT" env-default:"2"`
	BufferSize      int           `yaml:"buffer_size" env:"ENRICH_BUFFER_SIZE" env-default:"256"`
	UpdateTimeout   time.Duration `yaml:"update_timeout" env:"ENRICH_UPDATE_TIMEOUT" env-default:"5s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"ENRICH_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// Owner identifies the seeded system account anonymous submissions are
// attributed to.
type Owner struct {
	DefaultID int64  `yaml:"default_id" env:"OWNER_DEFAULT_ID" env-default:"1"`
	Username  string `yaml:"username" env:"OWNER_USERNAME" env-default:"system"`
}

// MustLoad loads the application configuration.
func MustLoad() *Config {
	// Try to load .env file (ignore error in production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment variables")
	}

	var cfg Config

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/local.yml" // default path
	}

	if _, err := os.Stat(configPath); err == nil {
		if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
			log.Fatalf("cannot read config: %s", err)
		}
	} else {
		// If config file doesn't exist, use environment variables only
		log.Println("Config file not found, using environment variables only")
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			log.Fatalf("cannot read config from environment: %s", err)
		}
	}

	return &cfg
}
