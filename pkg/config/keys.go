package config

// EnvPrefix is passed to envconfig.Process; individual fields carry fully
// qualified names so the prefix only matters for implicitly named fields.
const EnvPrefix = "AUCTIONHOUSE"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "production"
)

// Environment variable names referenced outside struct tags (error messages,
// tests, tooling).
const (
	EnvAppEnv   = "AUCTIONHOUSE_APP_ENV"
	EnvPort     = "AUCTIONHOUSE_APP_PORT"
	EnvLogLevel = "AUCTIONHOUSE_LOG_LEVEL"

	EnvDBDSN  = "AUCTIONHOUSE_DB_DSN"
	EnvDBHost = "AUCTIONHOUSE_DB_HOST"
	EnvDBUser = "AUCTIONHOUSE_DB_USER"
	EnvDBName = "AUCTIONHOUSE_DB_NAME"

	EnvRedisURL = "AUCTIONHOUSE_REDIS_URL"

	EnvJWTSecret              = "AUCTIONHOUSE_JWT_SECRET"
	EnvJWTIssuer              = "AUCTIONHOUSE_JWT_ISSUER"
	EnvJWTExpMins             = "AUCTIONHOUSE_JWT_EXPIRATION_MINUTES"
	EnvRefreshTokenTTLMinutes = "AUCTIONHOUSE_REFRESH_TOKEN_TTL_MINUTES"

	EnvGCPProjectID      = "AUCTIONHOUSE_GCP_PROJECT_ID"
	EnvGCSBucket         = "AUCTIONHOUSE_GCS_BUCKET_NAME"
	EnvGCSUploadExpiry   = "AUCTIONHOUSE_GCS_UPLOAD_URL_EXPIRY"
	EnvGCSDownloadExpiry = "AUCTIONHOUSE_GCS_DOWNLOAD_URL_EXPIRY"

	EnvPubSubDomainTopic     = "AUCTIONHOUSE_PUBSUB_DOMAIN_TOPIC"
	EnvPubSubDomainSub       = "AUCTIONHOUSE_PUBSUB_DOMAIN_SUBSCRIPTION"
	EnvPubSubNotificationSub = "AUCTIONHOUSE_PUBSUB_NOTIFICATION_SUBSCRIPTION"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
