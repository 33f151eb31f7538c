package config

import (
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	Storage   StorageConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
	Log       LogConfig
	Renderer  RendererConfig
	Brand     BrandConfig
	Admin     AdminConfig
}

type AppConfig struct {
	Name  string
	Env   string
	Port  string
	Debug bool
}

type DatabaseConfig struct {
	Driver     string
	Host       string
	Port       string
	Name       string
	User       string
	Password   string
	SSLMode    string
	Timezone   string
	SQLitePath string
}

type JWTConfig struct {
	Secret      string
	ExpiryHours time.Duration
}

type StorageConfig struct {
	AssetsPath    string
	UploadMaxSize int64
}

type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

type RateLimitConfig struct {
	Requests int
	Duration int
}

type LogConfig struct {
	Level      string
	Format     string
	OutputPath string
}

type RendererConfig struct {
	Bin            string
	Headless       bool
	NoSandbox      bool
	ViewportWidth  int
	ViewportHeight int
	PageWidth      int
	RootSelector   string
	SettleTimeout  time.Duration
	ExportTimeout  time.Duration
	NetworkIdle    time.Duration
	OffsetQuote    int
	OffsetInvoice  int
	OffsetDelivery int
}

type BrandConfig struct {
	Name            string
	LogoRef         string
	SealRef         string
	FooterRef       string
	CurrencyIconRef string
	CurrencyLabel   string
}

type AdminConfig struct {
	Email    string
	Password string
	Name     string
}

func Load() *Config {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables: %v", err)
	}

	setDefaults(viper.GetViper())
	return fromViper(viper.GetViper())
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_NAME", "docgen-api")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("APP_DEBUG", true)
	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_NAME", "docgen")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_TIMEZONE", "UTC")
	v.SetDefault("DB_SQLITE_PATH", "./storage/docgen.db")
	v.SetDefault("JWT_SECRET", "change-this-secret-in-production")
	v.SetDefault("JWT_EXPIRY_HOURS", 720)
	v.SetDefault("ASSETS_PATH", "./storage/assets")
	v.SetDefault("UPLOAD_MAX_SIZE", 10485760)
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	v.SetDefault("CORS_ALLOWED_METHODS", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"})
	v.SetDefault("CORS_ALLOWED_HEADERS", []string{"Origin", "Content-Type", "Authorization", "Idempotency-Key", "X-Request-ID"})
	v.SetDefault("RATE_LIMIT_REQUESTS", 100)
	v.SetDefault("RATE_LIMIT_DURATION", 60)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")
	v.SetDefault("LOG_OUTPUT", "stdout")
	v.SetDefault("RENDERER_BIN", "")
	v.SetDefault("RENDERER_HEADLESS", true)
	v.SetDefault("RENDERER_NO_SANDBOX", true)
	v.SetDefault("RENDERER_VIEWPORT_WIDTH", 800)
	v.SetDefault("RENDERER_VIEWPORT_HEIGHT", 1000)
	v.SetDefault("RENDERER_PAGE_WIDTH", 786)
	v.SetDefault("RENDERER_ROOT_SELECTOR", ".document-container")
	v.SetDefault("RENDERER_SETTLE_TIMEOUT_SECONDS", 60)
	v.SetDefault("RENDERER_EXPORT_TIMEOUT_SECONDS", 60)
	v.SetDefault("RENDERER_NETWORK_IDLE_MS", 500)
	v.SetDefault("RENDERER_OFFSET_QUOTATION", -5)
	v.SetDefault("RENDERER_OFFSET_INVOICE", -5)
	v.SetDefault("RENDERER_OFFSET_DELIVERY", 10)
	v.SetDefault("BRAND_NAME", "")
	v.SetDefault("BRAND_LOGO", "")
	v.SetDefault("BRAND_SEAL", "")
	v.SetDefault("BRAND_FOOTER", "")
	v.SetDefault("BRAND_CURRENCY_ICON", "")
	v.SetDefault("BRAND_CURRENCY_LABEL", "SAR")
	v.SetDefault("ADMIN_EMAIL", "admin@example.com")
	v.SetDefault("ADMIN_PASSWORD", "")
	v.SetDefault("ADMIN_NAME", "Administrator")
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		App: AppConfig{
			Name:  v.GetString("APP_NAME"),
			Env:   v.GetString("APP_ENV"),
			Port:  v.GetString("APP_PORT"),
			Debug: v.GetBool("APP_DEBUG"),
		},
		Database: DatabaseConfig{
			Driver:     strings.ToLower(v.GetString("DB_DRIVER")),
			Host:       v.GetString("DB_HOST"),
			Port:       v.GetString("DB_PORT"),
			Name:       v.GetString("DB_NAME"),
			User:       v.GetString("DB_USER"),
			Password:   v.GetString("DB_PASSWORD"),
			SSLMode:    v.GetString("DB_SSL_MODE"),
			Timezone:   v.GetString("DB_TIMEZONE"),
			SQLitePath: v.GetString("DB_SQLITE_PATH"),
		},
		JWT: JWTConfig{
			Secret:      v.GetString("JWT_SECRET"),
			ExpiryHours: time.Duration(v.GetInt("JWT_EXPIRY_HOURS")) * time.Hour,
		},
		Storage: StorageConfig{
			AssetsPath:    v.GetString("ASSETS_PATH"),
			UploadMaxSize: v.GetInt64("UPLOAD_MAX_SIZE"),
		},
		CORS: CORSConfig{
			AllowedOrigins: v.GetStringSlice("CORS_ALLOWED_ORIGINS"),
			AllowedMethods: v.GetStringSlice("CORS_ALLOWED_METHODS"),
			AllowedHeaders: v.GetStringSlice("CORS_ALLOWED_HEADERS"),
		},
		RateLimit: RateLimitConfig{
			Requests: v.GetInt("RATE_LIMIT_REQUESTS"),
			Duration: v.GetInt("RATE_LIMIT_DURATION"),
		},
		Log: LogConfig{
			Level:      v.GetString("LOG_LEVEL"),
			Format:     v.GetString("LOG_FORMAT"),
			OutputPath: v.GetString("LOG_OUTPUT"),
		},
		Renderer: RendererConfig{
			Bin:            v.GetString("RENDERER_BIN"),
			Headless:       v.GetBool("RENDERER_HEADLESS"),
			NoSandbox:      v.GetBool("RENDERER_NO_SANDBOX"),
			ViewportWidth:  v.GetInt("RENDERER_VIEWPORT_WIDTH"),
			ViewportHeight: v.GetInt("RENDERER_VIEWPORT_HEIGHT"),
			PageWidth:      v.GetInt("RENDERER_PAGE_WIDTH"),
			RootSelector:   v.GetString("RENDERER_ROOT_SELECTOR"),
			SettleTimeout:  time.Duration(v.GetInt("RENDERER_SETTLE_TIMEOUT_SECONDS")) * time.Second,
			ExportTimeout:  time.Duration(v.GetInt("RENDERER_EXPORT_TIMEOUT_SECONDS")) * time.Second,
			NetworkIdle:    time.Duration(v.GetInt("RENDERER_NETWORK_IDLE_MS")) * time.Millisecond,
			OffsetQuote:    v.GetInt("RENDERER_OFFSET_QUOTATION"),
			OffsetInvoice:  v.GetInt("RENDERER_OFFSET_INVOICE"),
			OffsetDelivery: v.GetInt("RENDERER_OFFSET_DELIVERY"),
		},
		Brand: BrandConfig{
			Name:            v.GetString("BRAND_NAME"),
			LogoRef:         v.GetString("BRAND_LOGO"),
			SealRef:         v.GetString("BRAND_SEAL"),
			FooterRef:       v.GetString("BRAND_FOOTER"),
			CurrencyIconRef: v.GetString("BRAND_CURRENCY_ICON"),
			CurrencyLabel:   v.GetString("BRAND_CURRENCY_LABEL"),
		},
		Admin: AdminConfig{
			Email:    v.GetString("ADMIN_EMAIL"),
			Password: v.GetString("ADMIN_PASSWORD"),
			Name:     v.GetString("ADMIN_NAME"),
		},
	}
}

// IsProduction reports whether the service runs in release mode
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}

func (c *DatabaseConfig) DSN() string {
	return "host=" + c.Host +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" port=" + c.Port +
		" sslmode=" + c.SSLMode +
		" TimeZone=" + c.Timezone
}
