package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "ARTESANIA"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "ARTESANIA_DB_DSN"
	EnvDBHost = "ARTESANIA_DB_HOST"
	EnvDBUser = "ARTESANIA_DB_USER"
	EnvDBName = "ARTESANIA_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	GCP           GCPConfig
	GCS           GCSConfig
	Uploads       UploadsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"ARTESANIA_APP_ENV" required:"true"`
	Port         string `envconfig:"ARTESANIA_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"ARTESANIA_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"ARTESANIA_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"ARTESANIA_DB_DSN"`
	Driver string `envconfig:"ARTESANIA_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"ARTESANIA_DB_HOST"`
	LegacyPort     int    `envconfig:"ARTESANIA_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"ARTESANIA_DB_USER"`
	LegacyPassword string `envconfig:"ARTESANIA_DB_PASSWORD"`
	LegacyName     string `envconfig:"ARTESANIA_DB_NAME"`
	LegacySSLMode  string `envconfig:"ARTESANIA_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"ARTESANIA_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"ARTESANIA_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"ARTESANIA_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"ARTESANIA_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"ARTESANIA_REDIS_URL"`
	Address      string        `envconfig:"ARTESANIA_REDIS_ADDR"`
	Password     string        `envconfig:"ARTESANIA_REDIS_PASSWORD"`
	DB           int           `envconfig:"ARTESANIA_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"ARTESANIA_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"ARTESANIA_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"ARTESANIA_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"ARTESANIA_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"ARTESANIA_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"ARTESANIA_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"ARTESANIA_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"ARTESANIA_JWT_EXPIRATION_MINUTES" default:"60"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"ARTESANIA_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"ARTESANIA_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"ARTESANIA_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"ARTESANIA_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"ARTESANIA_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"ARTESANIA_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"ARTESANIA_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"ARTESANIA_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"ARTESANIA_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"ARTESANIA_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"ARTESANIA_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"ARTESANIA_AUTO_MIGRATE" default:"false"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"ARTESANIA_GCP_PROJECT_ID"`
	CredentialsJSON        string `envconfig:"ARTESANIA_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"ARTESANIA_GOOGLE_APPLICATION_CREDENTIALS"`
}

type GCSConfig struct {
	BucketName string `envconfig:"ARTESANIA_GCS_BUCKET_NAME" required:"true"`
}

type UploadsConfig struct {
	FilePrefix  string `envconfig:"ARTESANIA_UPLOADS_FILE_PREFIX" default:"products"`
	MaxUploadMB int    `envconfig:"ARTESANIA_UPLOADS_MAX_MB" default:"5"`
}

// MaxUploadBytes returns the product image size cap in bytes.
func (u UploadsConfig) MaxUploadBytes() int64 {
	if u.MaxUploadMB <= 0 {
		return 5 << 20
	}
	return int64(u.MaxUploadMB) << 20
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
