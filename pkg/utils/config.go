package utils

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App         AppConfig
	Database    DatabaseConfig
	Gateway     GatewayConfig
	PayPal      PayPalConfig
	Stripe      StripeConfig
	Idempotency IdempotencyConfig
	Submission  SubmissionConfig
	Pricing     PricingConfig
}

type AppConfig struct {
	Name    string
	Port    string
	Debug   bool
	LogPath string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	MaxConns int32
}

type GatewayConfig struct {
	BookingBaseURL   string
	TicketingBaseURL string
	Timeout          time.Duration
}

type PayPalConfig struct {
	BaseURL      string
	ClientID     string
	ClientSecret string
	ReturnURL    string
	CancelURL    string
}

type StripeConfig struct {
	BaseURL   string
	SecretKey string
}

type IdempotencyConfig struct {
	TTL             time.Duration
	CleanupInterval time.Duration
}

type SubmissionConfig struct {
	Workers       int
	SweepInterval time.Duration
}

type PricingConfig struct {
	TicketPrice float64
	Currency    string
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	// Set defaults
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DEBUG", false)
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("LOG_PATH", "logs/")
	viper.SetDefault("GATEWAY_TIMEOUT_SECONDS", 10)
	viper.SetDefault("IDEMPOTENCY_TTL_HOURS", 24)
	viper.SetDefault("IDEMPOTENCY_CLEANUP_MINUTES", 60)
	viper.SetDefault("SUBMISSION_WORKERS", 3)
	viper.SetDefault("SUBMISSION_SWEEP_HOURS", 24)
	viper.SetDefault("TICKET_PRICE", 100.0)
	viper.SetDefault("CURRENCY", "USD")
	viper.SetDefault("PAYPAL_BASE_URL", "https://api-m.sandbox.paypal.com")
	viper.SetDefault("STRIPE_BASE_URL", "https://api.stripe.com")

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	viper.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:    viper.GetString("APP_NAME"),
			Port:    viper.GetString("PORT"),
			Debug:   viper.GetBool("DEBUG"),
			LogPath: viper.GetString("LOG_PATH"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASS"),
			MaxConns: viper.GetInt32("DB_MAX_CONNS"),
		},
		Gateway: GatewayConfig{
			BookingBaseURL:   viper.GetString("BOOKING_GATEWAY_URL"),
			TicketingBaseURL: viper.GetString("TICKETING_GATEWAY_URL"),
			Timeout:          time.Duration(viper.GetInt("GATEWAY_TIMEOUT_SECONDS")) * time.Second,
		},
		PayPal: PayPalConfig{
			BaseURL:      viper.GetString("PAYPAL_BASE_URL"),
			ClientID:     viper.GetString("PAYPAL_CLIENT_ID"),
			ClientSecret: viper.GetString("PAYPAL_CLIENT_SECRET"),
			ReturnURL:    viper.GetString("PAYPAL_RETURN_URL"),
			CancelURL:    viper.GetString("PAYPAL_CANCEL_URL"),
		},
		Stripe: StripeConfig{
			BaseURL:   viper.GetString("STRIPE_BASE_URL"),
			SecretKey: viper.GetString("STRIPE_SECRET_KEY"),
		},
		Idempotency: IdempotencyConfig{
			TTL:             time.Duration(viper.GetInt("IDEMPOTENCY_TTL_HOURS")) * time.Hour,
			CleanupInterval: time.Duration(viper.GetInt("IDEMPOTENCY_CLEANUP_MINUTES")) * time.Minute,
		},
		Submission: SubmissionConfig{
			Workers:       viper.GetInt("SUBMISSION_WORKERS"),
			SweepInterval: time.Duration(viper.GetInt("SUBMISSION_SWEEP_HOURS")) * time.Hour,
		},
		Pricing: PricingConfig{
			TicketPrice: viper.GetFloat64("TICKET_PRICE"),
			Currency:    viper.GetString("CURRENCY"),
		},
	}

	return config, nil
}
