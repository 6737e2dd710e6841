package app

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Addr          string `env:"KYC_ADDR" envDefault:":8080"`
	DatabaseFile  string `env:"KYC_DB_PATH" envDefault:"kyc.db"`
	SecretFile    string `env:"KYC_SECRET_PATH" envDefault:"kyc.secret"`
	PublicBaseURL string `env:"KYC_PUBLIC_BASE_URL" envDefault:"http://localhost:8080"`

	InvitationTTL  time.Duration `env:"KYC_INVITATION_TTL" envDefault:"720h"`
	OTPMode        string        `env:"KYC_OTP_MODE" envDefault:"simulated"` // simulated, totp
	OTPTTL         time.Duration `env:"KYC_OTP_TTL" envDefault:"10m"`
	OTPMaxAttempts int           `env:"KYC_OTP_MAX_ATTEMPTS" envDefault:"5"`
	PhoneRegion    string        `env:"KYC_PHONE_REGION" envDefault:"IN"`

	RequireGPS      bool     `env:"KYC_REQUIRE_GPS" envDefault:"true"`
	GPSOptionalOrgs []string `env:"KYC_GPS_OPTIONAL_ORGS" envSeparator:","`
	AutoDecision    bool     `env:"KYC_AUTO_DECISION" envDefault:"false"`

	// Organization bearer tokens
	OrgIssuer     string   `env:"KYC_ORG_ISSUER" envDefault:"verity-idp"`
	OrgAudience   []string `env:"KYC_ORG_AUDIENCE" envSeparator:"," envDefault:"verity"`
	OrgPublicKeys string   `env:"KYC_ORG_PUBLIC_KEYS"` // PEM or JWKS file

	// Verification providers
	ProviderMode       string        `env:"KYC_PROVIDER_MODE" envDefault:"simulated"` // simulated, remote
	ProviderURL        string        `env:"KYC_PROVIDER_URL"`
	ProviderSigningKey string        `env:"KYC_PROVIDER_SIGNING_KEY"` // PKCS8 PEM file
	ProviderAudience   string        `env:"KYC_PROVIDER_AUDIENCE" envDefault:"verification-gateway"`
	ProviderTimeout    time.Duration `env:"KYC_PROVIDER_TIMEOUT" envDefault:"15s"`

	// Optional shared infrastructure
	RedisURL        string        `env:"REDIS_URL"`
	LockTTL         time.Duration `env:"KYC_LOCK_TTL" envDefault:"30s"`
	KafkaBrokers    []string      `env:"KAFKA_BROKERS" envSeparator:","`
	KafkaAuditTopic string        `env:"KAFKA_AUDIT_TOPIC" envDefault:"verity.audit"`
	OTelEndpoint    string        `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`

	Env                  string        `env:"ENV" envDefault:"dev"`
	LogLevel             string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat            string        `env:"LOG_FORMAT" envDefault:"json"`
	ShutdownGracePeriod  time.Duration `env:"SHUTDOWN_GRACE_PERIOD" envDefault:"10s"`
	HousekeepingInterval time.Duration `env:"HOUSEKEEPING_INTERVAL" envDefault:"1h"`
}

// LoadConfig reads the environment, after loading KYC_ENV_FILE when it is
// set. Variables already present in the environment win over the file.
func LoadConfig() (Config, error) {
	if path := os.Getenv("KYC_ENV_FILE"); path != "" {
		if err := godotenv.Load(path); err != nil {
			return Config{}, fmt.Errorf("load env file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error

	switch c.ProviderMode {
	case "simulated":
	case "remote":
		if c.ProviderURL == "" {
			errs = append(errs, errors.New("KYC_PROVIDER_URL is required in remote provider mode"))
		}
		if c.ProviderSigningKey == "" {
			errs = append(errs, errors.New("KYC_PROVIDER_SIGNING_KEY is required in remote provider mode"))
		}
	default:
		errs = append(errs, fmt.Errorf("KYC_PROVIDER_MODE %q is not one of simulated, remote", c.ProviderMode))
	}

	switch c.OTPMode {
	case "simulated", "totp":
	default:
		errs = append(errs, fmt.Errorf("KYC_OTP_MODE %q is not one of simulated, totp", c.OTPMode))
	}

	if c.OTPMaxAttempts < 1 {
		errs = append(errs, errors.New("KYC_OTP_MAX_ATTEMPTS must be at least 1"))
	}
	if c.OTPTTL < time.Minute {
		errs = append(errs, errors.New("KYC_OTP_TTL must be at least 1m"))
	}
	if c.InvitationTTL <= 0 {
		errs = append(errs, errors.New("KYC_INVITATION_TTL must be positive"))
	}
	if c.Env == "prod" && c.OrgPublicKeys == "" {
		errs = append(errs, errors.New("KYC_ORG_PUBLIC_KEYS is required in prod"))
	}

	return errors.Join(errs...)
}
