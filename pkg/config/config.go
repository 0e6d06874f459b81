package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	Service       ServiceConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	Eventing      EventingConfig
	GCP           GCPConfig
	GCS           GCSConfig
	Media         MediaConfig
	PubSub        PubSubConfig
	Square        SquareConfig
	Outbox        OutboxConfig
	Auction       AuctionConfig
	Cron          CronConfig
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
	Env          string `envconfig:"AUCTIONHOUSE_APP_ENV" required:"true"`
	Port         string `envconfig:"AUCTIONHOUSE_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"AUCTIONHOUSE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"AUCTIONHOUSE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"AUCTIONHOUSE_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"AUCTIONHOUSE_DB_DSN"`
	Driver string `envconfig:"AUCTIONHOUSE_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"AUCTIONHOUSE_DB_HOST"`
	LegacyPort     int    `envconfig:"AUCTIONHOUSE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"AUCTIONHOUSE_DB_USER"`
	LegacyPassword string `envconfig:"AUCTIONHOUSE_DB_PASSWORD"`
	LegacyName     string `envconfig:"AUCTIONHOUSE_DB_NAME"`
	LegacySSLMode  string `envconfig:"AUCTIONHOUSE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"AUCTIONHOUSE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"AUCTIONHOUSE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"AUCTIONHOUSE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"AUCTIONHOUSE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"AUCTIONHOUSE_REDIS_URL" required:"true"`
	Address      string        `envconfig:"AUCTIONHOUSE_REDIS_ADDR"`
	Password     string        `envconfig:"AUCTIONHOUSE_REDIS_PASSWORD"`
	DB           int           `envconfig:"AUCTIONHOUSE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"AUCTIONHOUSE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"AUCTIONHOUSE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"AUCTIONHOUSE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"AUCTIONHOUSE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"AUCTIONHOUSE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"AUCTIONHOUSE_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"AUCTIONHOUSE_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"AUCTIONHOUSE_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"AUCTIONHOUSE_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"AUCTIONHOUSE_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"AUCTIONHOUSE_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"AUCTIONHOUSE_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"AUCTIONHOUSE_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"AUCTIONHOUSE_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"AUCTIONHOUSE_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"AUCTIONHOUSE_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"AUCTIONHOUSE_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"AUCTIONHOUSE_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"AUCTIONHOUSE_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"AUCTIONHOUSE_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	UseSQLite     bool   `envconfig:"AUCTIONHOUSE_USE_SQLITE" default:"false"`
	AutoMigrate   bool   `envconfig:"AUCTIONHOUSE_AUTO_MIGRATE" default:"false"`
	GCSAccessMode string `envconfig:"AUCTIONHOUSE_GCS_ACCESS_MODE" default:"signed"`
}

type EventingConfig struct {
	OutboxIdempotencyTTL time.Duration `envconfig:"AUCTIONHOUSE_EVENTING_IDEMPOTENCY_TTL" default:"720h"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"AUCTIONHOUSE_GCP_PROJECT_ID" required:"true"`
	CredentialsJSON        string `envconfig:"AUCTIONHOUSE_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"AUCTIONHOUSE_GOOGLE_APPLICATION_CREDENTIALS"`
}

type GCSConfig struct {
	BucketName        string        `envconfig:"AUCTIONHOUSE_GCS_BUCKET_NAME" required:"true"`
	UploadURLExpiry   time.Duration `envconfig:"AUCTIONHOUSE_GCS_UPLOAD_URL_EXPIRY" required:"true"`
	DownloadURLExpiry time.Duration `envconfig:"AUCTIONHOUSE_GCS_DOWNLOAD_URL_EXPIRY" required:"true"`
}

type MediaConfig struct {
	MaxUploadMB      int `envconfig:"AUCTIONHOUSE_MAX_UPLOAD_MB" default:"16"`
	MaxPhotosPerItem int `envconfig:"AUCTIONHOUSE_MEDIA_MAX_PHOTOS_PER_ITEM" default:"10"`
	ImageMaxWidth    int `envconfig:"AUCTIONHOUSE_MEDIA_IMAGE_MAX_WIDTH" default:"1920"`
	ImageMaxHeight   int `envconfig:"AUCTIONHOUSE_MEDIA_IMAGE_MAX_HEIGHT" default:"1080"`
}

type PubSubConfig struct {
	DomainTopic              string `envconfig:"AUCTIONHOUSE_PUBSUB_DOMAIN_TOPIC" required:"true"`
	DomainSubscription       string `envconfig:"AUCTIONHOUSE_PUBSUB_DOMAIN_SUBSCRIPTION" required:"true"`
	NotificationSubscription string `envconfig:"AUCTIONHOUSE_PUBSUB_NOTIFICATION_SUBSCRIPTION" required:"true"`
}

type SquareConfig struct {
	AccessToken   string `envconfig:"AUCTIONHOUSE_SQUARE_ACCESS_TOKEN"`
	WebhookSecret string `envconfig:"AUCTIONHOUSE_SQUARE_WEBHOOK_SECRET"`
	LocationID    string `envconfig:"AUCTIONHOUSE_SQUARE_LOCATION_ID"`
	Env           string `envconfig:"AUCTIONHOUSE_SQUARE_ENV" default:"sandbox"`
}

// Environment returns the normalized Square environment (sandbox/production).
func (s SquareConfig) Environment() string {
	env := strings.TrimSpace(strings.ToLower(s.Env))
	if env == "" {
		return "sandbox"
	}
	return env
}

type OutboxConfig struct {
	BatchSize      int `envconfig:"AUCTIONHOUSE_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int `envconfig:"AUCTIONHOUSE_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int `envconfig:"AUCTIONHOUSE_OUTBOX_MAX_ATTEMPTS" default:"10"`
}

type AuctionConfig struct {
	DefaultStepPrice  string `envconfig:"AUCTIONHOUSE_AUCTION_DEFAULT_STEP_PRICE" default:"100"`
	MaxLotsPerSession int    `envconfig:"AUCTIONHOUSE_AUCTION_MAX_LOTS_PER_SESSION" default:"500"`
	BidPageLimit      int    `envconfig:"AUCTIONHOUSE_AUCTION_BID_PAGE_LIMIT" default:"100"`
}

type CronConfig struct {
	SessionOpenerInterval time.Duration `envconfig:"AUCTIONHOUSE_CRON_SESSION_OPENER_INTERVAL" default:"30s"`
	SessionCloserInterval time.Duration `envconfig:"AUCTIONHOUSE_CRON_SESSION_CLOSER_INTERVAL" default:"30s"`
	LockTTL               time.Duration `envconfig:"AUCTIONHOUSE_CRON_LOCK_TTL" default:"5m"`
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
