package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

type HTTPConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	MaxBodyBytes int64
}

type PostgresConfig struct {
	DSN             string
	MaxOpen         int
	MaxIdle         int
	ConnMaxLifetime time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// StorageConfig selects where identity documents are written. Driver "local"
// keeps them under LocalRoot/DocumentDir; "minio" puts them in Bucket.
type StorageConfig struct {
	Driver         string
	LocalRoot      string
	DocumentDir    string
	MaxUploadBytes int64
	Endpoint       string
	AccessKey      string
	SecretKey      string
	Bucket         string
	UseSSL         bool
	Region         string
}

type SecurityConfig struct {
	SessionSecret      string
	RegistrationSecret string
	SessionTTL         time.Duration
	RegistrationTTL    time.Duration
	CookieSecure       bool
	LoginRate          float64
	LoginBurst         int
}

type JobsConfig struct {
	SessionPurgeSchedule  string
	DocumentSweepSchedule string
	OrphanGracePeriod     time.Duration
}

type AppConfig struct {
	Environment      string
	HTTP             HTTPConfig
	Postgres         PostgresConfig
	Redis            RedisConfig
	Storage          StorageConfig
	Security         SecurityConfig
	Jobs             JobsConfig
	AllowCORSOrigins []string
}

func Load() (*AppConfig, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("../config")

	v.SetEnvPrefix("LGUPORTAL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	var cfg AppConfig
	if err := v.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return &cfg, nil
}

// Validate rejects configurations the portal cannot safely start with.
func (c *AppConfig) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Postgres.DSN) == "" {
		errs = append(errs, errors.New("postgres.dsn is required"))
	}
	if len(c.Security.SessionSecret) < 16 {
		errs = append(errs, errors.New("security.sessionsecret must be at least 16 characters"))
	}
	if len(c.Security.RegistrationSecret) < 16 {
		errs = append(errs, errors.New("security.registrationsecret must be at least 16 characters"))
	}
	if c.Security.SessionSecret != "" && c.Security.SessionSecret == c.Security.RegistrationSecret {
		errs = append(errs, errors.New("security.sessionsecret and security.registrationsecret must differ"))
	}
	if c.HTTP.MaxBodyBytes > 0 && c.HTTP.MaxBodyBytes <= c.Storage.MaxUploadBytes {
		errs = append(errs, errors.New("http.maxbodybytes must exceed storage.maxuploadbytes"))
	}
	switch c.Storage.Driver {
	case "local":
	case "minio":
		if c.Storage.Endpoint == "" || c.Storage.Bucket == "" {
			errs = append(errs, errors.New("storage.endpoint and storage.bucket are required for the minio driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown storage.driver %q", c.Storage.Driver))
	}
	return errors.Join(errs...)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", "development")

	v.SetDefault("http.host", "0.0.0.0")
	v.SetDefault("http.port", 8080)
	v.SetDefault("http.readtimeout", "10s")
	v.SetDefault("http.writetimeout", "30s")
	v.SetDefault("http.idletimeout", "60s")
	v.SetDefault("http.maxbodybytes", 64<<20)

	v.SetDefault("postgres.dsn", "")
	v.SetDefault("postgres.maxopen", 20)
	v.SetDefault("postgres.maxidle", 5)
	v.SetDefault("postgres.connmaxlifetime", "30m")

	v.SetDefault("redis.addr", "127.0.0.1:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("storage.driver", "local")
	v.SetDefault("storage.localroot", ".")
	v.SetDefault("storage.documentdir", "uploads/ids")
	v.SetDefault("storage.maxuploadbytes", 10<<20)
	v.SetDefault("storage.endpoint", "")
	v.SetDefault("storage.accesskey", "")
	v.SetDefault("storage.secretkey", "")
	v.SetDefault("storage.bucket", "lgu-portal-documents")
	v.SetDefault("storage.usessl", false)
	v.SetDefault("storage.region", "us-east-1")

	v.SetDefault("security.sessionsecret", "")
	v.SetDefault("security.registrationsecret", "")
	v.SetDefault("security.sessionttl", "8h")
	v.SetDefault("security.registrationttl", "30m")
	v.SetDefault("security.cookiesecure", false)
	v.SetDefault("security.loginrate", 0.2) // one attempt every 5s once the burst is spent
	v.SetDefault("security.loginburst", 5)

	v.SetDefault("jobs.sessionpurgeschedule", "0 */15 * * * *")
	v.SetDefault("jobs.documentsweepschedule", "0 30 3 * * *")
	v.SetDefault("jobs.orphangraceperiod", "24h")

	v.SetDefault("allowcorsorigins", []string{})
}
