package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const EnvPrefix = "VSTUPENKY"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"

	EnvAppEnv        = "VSTUPENKY_APP_ENV"
	EnvSpreadsheetID = "VSTUPENKY_SHEETS_SPREADSHEET_ID"
)

type Config struct {
	App     AppConfig
	Server  ServerConfig
	Sheets  SheetsConfig
	Bank    BankConfig
	Redis   RedisConfig
	Recon   ReconConfig
	Tickets TicketsConfig
	Catalog CatalogConfig
	Mail    MailConfig
	Gate    GateConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.Tickets.UnitPrice <= 0 {
		return nil, fmt.Errorf("ticket unit price must be positive, got %d", cfg.Tickets.UnitPrice)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env       string `envconfig:"VSTUPENKY_APP_ENV" required:"true"`
	LogLevel  string `envconfig:"VSTUPENKY_LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"VSTUPENKY_LOG_FORMAT" default:"json"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServerConfig struct {
	Port        string   `envconfig:"VSTUPENKY_SERVER_PORT" default:"8080"`
	CORSOrigins []string `envconfig:"VSTUPENKY_SERVER_CORS_ORIGINS" default:"http://localhost:3000,https://vstupenky.strahovfest.cz"`
}

// SheetsConfig locates the backing spreadsheet. Sheet titles default to the
// names of the production document and normally stay untouched.
type SheetsConfig struct {
	SpreadsheetID    string `envconfig:"VSTUPENKY_SHEETS_SPREADSHEET_ID" required:"true"`
	CredentialsFile  string `envconfig:"VSTUPENKY_SHEETS_CREDENTIALS_FILE"`
	CredentialsJSON  string `envconfig:"VSTUPENKY_SHEETS_CREDENTIALS_JSON"`
	PurchasesSheet   string `envconfig:"VSTUPENKY_SHEETS_PURCHASES_SHEET" default:"listky"`
	UnmatchedSheet   string `envconfig:"VSTUPENKY_SHEETS_UNMATCHED_SHEET" default:"neprirazene_transakce"`
	TicketUsageSheet string `envconfig:"VSTUPENKY_SHEETS_TICKET_USAGE_SHEET" default:"pouzite_vstupenky"`
}

type BankConfig struct {
	Token    string        `envconfig:"VSTUPENKY_BANK_TOKEN" required:"true"`
	BaseURL  string        `envconfig:"VSTUPENKY_BANK_BASE_URL" default:"https://fioapi.fio.cz/v1/rest"`
	FeedFrom string        `envconfig:"VSTUPENKY_BANK_FEED_FROM" required:"true"` // YYYY-MM-DD, start of sales
	Currency string        `envconfig:"VSTUPENKY_BANK_CURRENCY" default:"CZK"`
	Timeout  time.Duration `envconfig:"VSTUPENKY_BANK_TIMEOUT" default:"30s"`
}

type RedisConfig struct {
	URL          string        `envconfig:"VSTUPENKY_REDIS_URL" required:"true"`
	DialTimeout  time.Duration `envconfig:"VSTUPENKY_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"VSTUPENKY_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"VSTUPENKY_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type ReconConfig struct {
	Interval time.Duration `envconfig:"VSTUPENKY_RECON_INTERVAL" default:"5m"`
	LockTTL  time.Duration `envconfig:"VSTUPENKY_RECON_LOCK_TTL" default:"20m"`
}

// TicketsConfig carries pricing and the payment instructions shown to buyers.
type TicketsConfig struct {
	UnitPrice     int    `envconfig:"VSTUPENKY_TICKET_UNIT_PRICE" required:"true"`
	AccountNumber string `envconfig:"VSTUPENKY_ACCOUNT_NUMBER" required:"true"`
	IBAN          string `envconfig:"VSTUPENKY_IBAN"`
}

// CatalogConfig lists the exclusive add-on resources as name:price pairs,
// e.g. "stan-u-reky:1500,parkovani:300". Each is sold at most once.
type CatalogConfig struct {
	Resources map[string]int `envconfig:"VSTUPENKY_CATALOG_RESOURCES"`
}

type MailConfig struct {
	SMTPHost   string `envconfig:"VSTUPENKY_SMTP_HOST"`
	SMTPPort   int    `envconfig:"VSTUPENKY_SMTP_PORT" default:"587"`
	Username   string `envconfig:"VSTUPENKY_SMTP_USERNAME"`
	Password   string `envconfig:"VSTUPENKY_SMTP_PASSWORD"`
	From       string `envconfig:"VSTUPENKY_MAIL_FROM"`
	TicketsURL string `envconfig:"VSTUPENKY_MAIL_TICKETS_URL" default:"https://vstupenky.strahovfest.cz/ticket"`
}

func (m MailConfig) Enabled() bool {
	return m.SMTPHost != "" && m.From != ""
}

// GateConfig holds the shared secret for redemption endpoints.
type GateConfig struct {
	Token string `envconfig:"VSTUPENKY_GATE_TOKEN" required:"true"`
}
