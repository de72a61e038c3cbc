package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App       AppConfig
	HTTP      HTTPConfig
	JWT       JWTConfig
	Auth      AuthConfig
	Storage   StorageConfig
	Stock     StockConfig
	Shopify   ShopifyConfig
	Slack     SlackConfig
	RateLimit RateLimitConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env  string // development, staging, production
	Name string
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// JWTConfig configuración de JWT para el API administrativo.
type JWTConfig struct {
	Secret     string
	Expiration int // minutos
	Issuer     string
}

// AuthConfig credencial de operador contra la que se emiten los tokens.
type AuthConfig struct {
	AdminAPIKey string
}

// StorageConfig raíz de datos en disco (snapshots, categorías, movimientos).
type StorageConfig struct {
	DataDir string
}

// StockConfig comportamiento del motor de stock.
// BaselineEnabled activa el catálogo base compilado; AllowBaselineDelete es el
// override de operador: borrar un producto del catálogo base sin dejar tombstone
// (el producto vuelve a sembrarse en el próximo arranque).
type StockConfig struct {
	BaselineEnabled     bool
	AllowBaselineDelete bool
	LowStockThreshold   float64 // gramos; 0 desactiva las alertas
}

// ShopifyConfig credenciales y destino de la sincronización de inventario.
type ShopifyConfig struct {
	ShopName       string // "xxx" o "xxx.myshopify.com"
	AdminToken     string
	APIVersion     string
	LocationID     string
	WebhookSecret  string
	SkipHMACVerify bool // solo para desarrollo
}

// SlackConfig canal de alertas de stock bajo (vacío = desactivado).
type SlackConfig struct {
	Token        string
	AlertChannel string
}

// RateLimitConfig límites por grupo de rutas.
type RateLimitConfig struct {
	APIMax     int // peticiones por ventana de 15 min
	WebhookMax int // peticiones por ventana de 1 min
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, DATA_DIR, SHOPIFY_WEBHOOK_SECRET, etc.
func Load() (*Config, error) {
	v := viper.New()

	// Opcional: archivo de configuración (.env o config.env)
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	cfg := &Config{
		App: AppConfig{
			Env:  getString(v, "APP_ENV", "development"),
			Name: getString(v, "APP_NAME", "stock-pool-api"),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "HTTP_PORT", 3000),
		},
		JWT: JWTConfig{
			Secret:     getString(v, "JWT_SECRET", ""),
			Expiration: getInt(v, "JWT_EXPIRATION_MINUTES", 60),
			Issuer:     getString(v, "JWT_ISSUER", "stock-pool-api"),
		},
		Auth: AuthConfig{
			AdminAPIKey: getString(v, "ADMIN_API_KEY", ""),
		},
		Storage: StorageConfig{
			DataDir: getString(v, "DATA_DIR", "/var/data"),
		},
		Stock: StockConfig{
			BaselineEnabled:     getBool(v, "STOCK_BASELINE_ENABLED", false),
			AllowBaselineDelete: getBool(v, "STOCK_ALLOW_BASELINE_DELETE", false),
			LowStockThreshold:   getFloat(v, "STOCK_LOW_THRESHOLD_GRAMS", 0),
		},
		Shopify: ShopifyConfig{
			ShopName:       getString(v, "SHOP_NAME", ""),
			AdminToken:     getString(v, "SHOPIFY_ADMIN_TOKEN", ""),
			APIVersion:     getString(v, "SHOPIFY_API_VERSION", "2025-10"),
			LocationID:     getString(v, "LOCATION_ID", ""),
			WebhookSecret:  getString(v, "SHOPIFY_WEBHOOK_SECRET", ""),
			SkipHMACVerify: getBool(v, "SKIP_HMAC_VALIDATION", false),
		},
		Slack: SlackConfig{
			Token:        getString(v, "SLACK_TOKEN", ""),
			AlertChannel: getString(v, "SLACK_ALERT_CHANNEL", ""),
		},
		RateLimit: RateLimitConfig{
			APIMax:     getInt(v, "RATE_LIMIT_API_MAX", 100),
			WebhookMax: getInt(v, "RATE_LIMIT_WEBHOOK_MAX", 60),
		},
	}

	if cfg.App.Env == "production" && cfg.Shopify.SkipHMACVerify {
		return nil, fmt.Errorf("config: SKIP_HMAC_VALIDATION no puede activarse en producción")
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("HTTP_PORT", 3000)
	v.SetDefault("DATA_DIR", "/var/data")
	v.SetDefault("SHOPIFY_API_VERSION", "2025-10")
	v.SetDefault("JWT_EXPIRATION_MINUTES", 60)
	v.SetDefault("RATE_LIMIT_API_MAX", 100)
	v.SetDefault("RATE_LIMIT_WEBHOOK_MAX", 60)
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		return v.GetInt(key)
	}
	return def
}

func getBool(v *viper.Viper, key string, def bool) bool {
	if v.IsSet(key) {
		return v.GetBool(key)
	}
	return def
}

func getFloat(v *viper.Viper, key string, def float64) float64 {
	if v.IsSet(key) {
		return v.GetFloat64(key)
	}
	return def
}
