package config

import (
	"log"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

type BillingConfig struct {
	Env        string `yaml:"env" env-default:"local"`
	HTTPServer `yaml:"http_server"`
	BillingDB  `yaml:"billing_db"`
	LogConfig  `yaml:"log_config"`
	Redis      `yaml:"redis"`
	Kafka      `yaml:"kafka"`
	Gateway    `yaml:"gateway"`
	Billing    `yaml:"billing"`
}

type HTTPServer struct {
	Host string `yaml:"host" env-default:"0.0.0.0"`
	Port string `yaml:"port" env-default:"8080"`
}

type BillingDB struct {
	Dsn            string `yaml:"dsn"`
	MigrationsPath string `yaml:"migrations_path"`
}

type LogConfig struct {
	LogLevel  string `yaml:"log_level" env-default:"info"`
	LogFormat string `yaml:"log_format" env-default:"json"`
}

type Redis struct {
	Addr     string `yaml:"addr" env-default:"localhost:6379"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db" env-default:"0"`
}

type Kafka struct {
	Host  string `yaml:"host"`
	Port  string `yaml:"port"`
	Topic string `yaml:"topic" env-default:"billing-events"`
}

type Gateway struct {
	BaseURL        string  `yaml:"base_url"`
	APIKey         string  `yaml:"api_key" env:"GATEWAY_API_KEY"`
	RequestsPerSec float64 `yaml:"requests_per_sec" env-default:"10"`
	Burst          int     `yaml:"burst" env-default:"5"`
	TimeoutSec     int     `yaml:"timeout_sec" env-default:"15"`
}

// Billing carries every monetary tunable of the engine. It is built once at
// startup and passed by reference; nothing reads it as global state.
type Billing struct {
	CommissionDueDays    int     `yaml:"commission_due_days" env-default:"30"`
	MinInvoiceAmount     int64   `yaml:"min_invoice_amount" env-default:"1000"`
	InvoiceLookaheadDays int     `yaml:"invoice_lookahead_days" env-default:"7"`
	MonthlyLateFeeRate   float64 `yaml:"monthly_late_fee_rate" env-default:"0.015"`
	MaxLateFeeRate       float64 `yaml:"max_late_fee_rate" env-default:"0.10"`
	MinPayoutAmount      int64   `yaml:"min_payout_amount" env-default:"1000"`
	CreditTopupFloor     int64   `yaml:"credit_topup_floor" env-default:"500"`
	CreditTopupAmount    int64   `yaml:"credit_topup_amount" env-default:"2000"`
	MaxMonthlyTopup      int64   `yaml:"max_monthly_topup" env-default:"10000"`
	TaskWorkers          int     `yaml:"task_workers" env-default:"8"`
	GatewayRetryAttempts int     `yaml:"gateway_retry_attempts" env-default:"3"`
	TaskLockTTLSec       int     `yaml:"task_lock_ttl_sec" env-default:"300"`
	SchedulerIntervalMin int     `yaml:"scheduler_interval_min" env-default:"60"`
	PayoutIntervalMin    int     `yaml:"payout_interval_min" env-default:"1440"`
}

func MustLoad() *BillingConfig {

	// Processing env config variable and file
	configPath := os.Getenv("BILLING_CONFIG_PATH")

	if configPath == "" {
		log.Fatalf("BILLING_CONFIG_PATH was not found\n")
	}

	if _, err := os.Stat(configPath); err != nil {
		log.Fatalf("failed to find config file: %v\n", err)
	}

	// YAML to struct object
	var cfg BillingConfig
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("failed to read config file: %v", err)
	}

	return &cfg
}
