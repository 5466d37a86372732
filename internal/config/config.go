package config

import (
	"flag"
	"os"
	"strconv"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env               string `yaml:"env" env:"APP_ENV" env-default:"development"`
	CORSOrigin        string `yaml:"cors_origin" env:"CORS_ORIGIN" env-default:"*"`
	PostgresConfig    `yaml:"database"`
	JWTConfig         `yaml:"jwt"`
	Server            `yaml:"server"`
	RateLimiterConfig `yaml:"rate_limiter"`
	RedisConfig       `yaml:"redis"`
	MediaConfig       `yaml:"media"`
	UploadConfig      `yaml:"upload"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr" env:"REDIS_ADDR" env-default:"localhost:6379"`
	Password string `yaml:"password" env:"REDIS_PASSWORD" env-default:""`
	DB       int    `yaml:"db" env:"REDIS_DB" env-default:"0"`
}

type RateLimiterConfig struct {
	Limit  int           `yaml:"limit" env:"RATE_LIMITER_LIMIT" env-default:"100"`
	Window time.Duration `yaml:"window" env:"RATE_LIMITER_WINDOW" env-default:"1m"`
}

type Server struct {
	Port        int           `yaml:"port" env:"SERVER_PORT" env-default:"8080"`
	Host        string        `yaml:"host" env:"SERVER_HOST" env-default:"localhost"`
	Timeout     time.Duration `yaml:"timeout" env:"SERVER_TIMEOUT" env-default:"15s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env:"SERVER_IDLE_TIMEOUT" env-default:"60s"`
}

type JWTConfig struct {
	AccessSecret  string        `yaml:"access_secret" env:"ACCESS_TOKEN_SECRET"`
	RefreshSecret string        `yaml:"refresh_secret" env:"REFRESH_TOKEN_SECRET"`
	AccessTTL     time.Duration `yaml:"access_ttl" env:"ACCESS_TOKEN_TTL" env-default:"15m"`
	RefreshTTL    time.Duration `yaml:"refresh_ttl" env:"REFRESH_TOKEN_TTL" env-default:"240h"`
}

// MediaConfig points at the external media service that stores uploaded
// images and hands back durable URLs.
type MediaConfig struct {
	BaseURL string        `yaml:"base_url" env:"MEDIA_BASE_URL"`
	APIKey  string        `yaml:"api_key" env:"MEDIA_API_KEY"`
	Timeout time.Duration `yaml:"timeout" env:"MEDIA_TIMEOUT" env-default:"30s"`
}

// UploadConfig holds the local staging directory for multipart uploads
// before they are pushed to the media service.
type UploadConfig struct {
	Dir string `yaml:"dir" env:"UPLOAD_DIR" env-default:"./public/temp"`
}

// postgres config
type PostgresConfig struct {
	Host     string `yaml:"host" env:"POSTGRES_HOST" env-default:"localhost"`
	Port     int    `yaml:"port" env:"POSTGRES_PORT" env-default:"5432"`
	Username string `yaml:"username" env:"POSTGRES_USER" env-default:"postgres"`
	Password string `yaml:"password" env:"POSTGRES_PASSWORD" env-default:"postgres"`
	Name     string `yaml:"name" env:"POSTGRES_DB" env-default:"blogdb"`
}

func (cfg *PostgresConfig) DSN() string {
	return "postgres://" +
		cfg.Username + ":" +
		cfg.Password + "@" +
		cfg.Host + ":" +
		strconv.Itoa(cfg.Port) + "/" +
		cfg.Name + "?sslmode=disable"
}

// -------------Get Config Path from Flag or Env --------------
var configPath string

func init() {
	flag.StringVar(&configPath, "config", "", "Path to the config file")
}

func fetchConfigPath() string {
	var res string

	if !flag.Parsed() {
		flag.Parse()
	}

	res = configPath

	if res == "" {
		res = os.Getenv("CONFIG_PATH")
	}

	if res == "" {
		panic("config path is not provided")
	}

	return res
}

func LoadConfig() Config {
	path := fetchConfigPath()
	if path == "" {
		panic("config path is empty")
	}
	return LoadConfigFromPath(path)
}

func LoadConfigFromPath(path string) Config {
	var cfg Config
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		panic(err)
	}
	return cfg
}
