package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultHTTPAddr      = ":8080"
	defaultDatabaseDSN   = "hotelbooking.db"
	defaultJWTSecret     = "change-me-jwt-secret"
	defaultJWTAccessTTL  = "15m"
	defaultRedisAddr     = "localhost:6379"
	defaultKafkaBrokers  = "localhost:9092"
	defaultSessionTTL    = "15m"
	defaultSweepSchedule = "*/5 * * * *"

	defaultMoMoEndpoint = "https://test-payment.momo.vn/v2/gateway/api/create"
	defaultVNPayPayURL  = "https://sandbox.vnpayment.vn/paymentv2/vpcpay.html"
)

type MoMoConfig struct {
	PartnerCode string
	AccessKey   string
	SecretKey   string
	Endpoint    string
	RedirectURL string
	IPNURL      string
}

type VNPayConfig struct {
	TmnCode    string
	HashSecret string
	PayURL     string
	ReturnURL  string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type EmailConfig struct {
	BrevoAPIKey string
	SenderEmail string
	SenderName  string
}

type Config struct {
	AppEnv       string
	HTTPAddr     string
	DatabaseDSN  string
	JWTSecret    string
	JWTAccessTTL time.Duration

	Redis        RedisConfig
	KafkaBrokers []string
	Email        EmailConfig

	MoMo  MoMoConfig
	VNPay VNPayConfig

	// Where the browser lands after a gateway redirect.
	FrontendSuccessURL string
	FrontendFailureURL string

	// Payment sessions older than this in the created state get expired by
	// the background sweep.
	PaymentSessionTTL time.Duration
	SweepSchedule     string
}

func Load() (*Config, error) {
	cfg := &Config{}

	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = "dev"
	}
	cfg.AppEnv = strings.ToLower(appEnv)

	cfg.HTTPAddr = getEnv("HTTP_ADDR", defaultHTTPAddr)
	cfg.DatabaseDSN = getEnv("DATABASE_URL", defaultDatabaseDSN)
	cfg.JWTSecret = strings.TrimSpace(getEnv("JWT_SECRET", defaultJWTSecret))

	var err error
	cfg.JWTAccessTTL, err = parseDurationEnv("JWT_ACCESS_TTL", defaultJWTAccessTTL)
	if err != nil {
		return nil, err
	}
	cfg.PaymentSessionTTL, err = parseDurationEnv("PAYMENT_SESSION_TTL", defaultSessionTTL)
	if err != nil {
		return nil, err
	}
	cfg.SweepSchedule = getEnv("PAYMENT_SWEEP_SCHEDULE", defaultSweepSchedule)

	cfg.Redis = RedisConfig{
		Addr:     getEnv("REDIS_ADDR", defaultRedisAddr),
		Password: os.Getenv("REDIS_PASSWORD"),
	}
	if db := strings.TrimSpace(os.Getenv("REDIS_DB")); db != "" {
		cfg.Redis.DB, err = strconv.Atoi(db)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_DB value %q: %w", db, err)
		}
	}

	cfg.KafkaBrokers = splitList(getEnv("KAFKA_BROKERS", defaultKafkaBrokers))

	cfg.Email = EmailConfig{
		BrevoAPIKey: strings.TrimSpace(os.Getenv("BREVO_API_KEY")),
		SenderEmail: getEnv("EMAIL_SENDER", "no-reply@hotelbooking.local"),
		SenderName:  getEnv("EMAIL_SENDER_NAME", "Hotel Booking"),
	}

	cfg.MoMo = MoMoConfig{
		PartnerCode: os.Getenv("MOMO_PARTNER_CODE"),
		AccessKey:   os.Getenv("MOMO_ACCESS_KEY"),
		SecretKey:   os.Getenv("MOMO_SECRET_KEY"),
		Endpoint:    getEnv("MOMO_ENDPOINT", defaultMoMoEndpoint),
		RedirectURL: os.Getenv("MOMO_REDIRECT_URL"),
		IPNURL:      os.Getenv("MOMO_IPN_URL"),
	}

	cfg.VNPay = VNPayConfig{
		TmnCode:    os.Getenv("VNPAY_TMN_CODE"),
		HashSecret: os.Getenv("VNPAY_HASH_SECRET"),
		PayURL:     getEnv("VNPAY_PAY_URL", defaultVNPayPayURL),
		ReturnURL:  os.Getenv("VNPAY_RETURN_URL"),
	}

	cfg.FrontendSuccessURL = getEnv("FRONTEND_SUCCESS_URL", "http://localhost:3000/payment/success")
	cfg.FrontendFailureURL = getEnv("FRONTEND_FAILURE_URL", "http://localhost:3000/payment/failure")

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.JWTAccessTTL <= 0 {
		return fmt.Errorf("JWT_ACCESS_TTL must be > 0")
	}
	if cfg.PaymentSessionTTL <= 0 {
		return fmt.Errorf("PAYMENT_SESSION_TTL must be > 0")
	}

	if isProdLike(cfg.AppEnv) {
		if cfg.JWTSecret == "" || cfg.JWTSecret == defaultJWTSecret {
			return fmt.Errorf("in prod/release JWT_SECRET must be set and not default")
		}
		if cfg.MoMo.SecretKey == "" {
			return fmt.Errorf("in prod/release MOMO_SECRET_KEY must be set")
		}
		if cfg.VNPay.HashSecret == "" {
			return fmt.Errorf("in prod/release VNPAY_HASH_SECRET must be set")
		}
	}

	return nil
}

func isProdLike(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))
	return env == "prod" || env == "production" || env == "release"
}

func parseDurationEnv(name, fallback string) (time.Duration, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return d, nil
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
