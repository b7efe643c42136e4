package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Drivers de persistencia soportados.
const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App     AppConfig
	DB      DBConfig
	JWT     JWTConfig
	HTTP    HTTPConfig
	Redis   RedisConfig
	Storage StorageConfig
	Import  ImportConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	Timezone string // zona de los límites de exportación y del dashboard
	LogLevel string
}

// Location resuelve Timezone; si no es válida usa UTC.
func (c AppConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// DBConfig configuración de PostgreSQL.
// Si DatabaseURL no está vacío, se usa como connection string completo (ej. DATABASE_URL de Supabase).
type DBConfig struct {
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
	MaxConns    int
	PreferIPv4  bool // resolver el host solo por registros A al conectar
}

// ConnectionString devuelve el DSN a usar: DATABASE_URL si está definido, si no el construido con DSN().
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN devuelve el connection string para PostgreSQL con URL encoding para caracteres especiales.
func (c DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: "sslmode=" + url.QueryEscape(c.SSLMode),
	}
	return u.String()
}

// JWTConfig validación de los tokens del proveedor de identidad.
type JWTConfig struct {
	Secret     string
	Expiration int // minutos, solo para tokens emitidos localmente
	Issuer     string
	Audience   string
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host        string
	Port        int
	SwaggerFile string
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// RedisConfig caché opcional de perfiles. Addr vacío = sin caché.
type RedisConfig struct {
	Addr            string
	Password        string
	DB              int
	ProfileCacheTTL time.Duration
}

// Enabled indica si se configuró Redis.
func (c RedisConfig) Enabled() bool { return c.Addr != "" }

// StorageConfig selección del driver de persistencia.
type StorageConfig struct {
	Driver string
}

// ImportConfig límites de la importación de planillas.
type ImportConfig struct {
	MaxBytes int
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.MergeInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			Name:     getString(v, "APP_NAME", "equipamentos-api"),
			Timezone: getString(v, "APP_TIMEZONE", "America/Sao_Paulo"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
		},
		DB: DBConfig{
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "postgres"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
			MaxConns:    getInt(v, "DB_MAX_CONNS", 10),
			PreferIPv4:  getBool(v, "DB_PREFER_IPV4", true),
		},
		JWT: JWTConfig{
			Secret:     getString(v, "JWT_SECRET", ""),
			Expiration: getInt(v, "JWT_EXPIRATION_MINUTES", 60),
			Issuer:     getString(v, "JWT_ISSUER", ""),
			Audience:   getString(v, "JWT_AUDIENCE", "authenticated"),
		},
		HTTP: HTTPConfig{
			Host:        getString(v, "HTTP_HOST", "0.0.0.0"),
			Port:        getInt(v, "HTTP_PORT", 8080),
			SwaggerFile: getString(v, "SWAGGER_FILE", "./docs/swagger.json"),
		},
		Redis: RedisConfig{
			Addr:            getString(v, "REDIS_ADDR", ""),
			Password:        getString(v, "REDIS_PASSWORD", ""),
			DB:              getInt(v, "REDIS_DB", 0),
			ProfileCacheTTL: time.Duration(getInt(v, "PROFILE_CACHE_TTL_SECONDS", 300)) * time.Second,
		},
		Storage: StorageConfig{
			Driver: strings.ToLower(getString(v, "STORAGE_DRIVER", StorageDriverPostgres)),
		},
		Import: ImportConfig{
			MaxBytes: getInt(v, "IMPORT_MAX_BYTES", 10<<20),
		},
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.JWT.Secret == "" {
		return fmt.Errorf("config: JWT_SECRET es obligatorio")
	}
	switch c.Storage.Driver {
	case StorageDriverPostgres, StorageDriverMemory:
	default:
		return fmt.Errorf("config: STORAGE_DRIVER inválido %q", c.Storage.Driver)
	}
	if c.DB.MaxConns < 1 {
		return fmt.Errorf("config: DB_MAX_CONNS debe ser mayor a cero")
	}
	if _, err := time.LoadLocation(c.App.Timezone); err != nil {
		return fmt.Errorf("config: APP_TIMEZONE inválida %q: %w", c.App.Timezone, err)
	}
	return nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getBool(v *viper.Viper, key string, def bool) bool {
	if v.IsSet(key) {
		return v.GetBool(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, err := strconv.Atoi(strings.TrimSpace(v.GetString(key)))
			if err != nil {
				return def
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}
