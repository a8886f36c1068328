package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Env struct {
	AppAddr string `mapstructure:"APP_ADDR"`
	GinMode string `mapstructure:"GIN_MODE"`
	AppEnv  string `mapstructure:"ENV"`

	LogLevel string `mapstructure:"LOG_LEVEL"`

	DBHost         string `mapstructure:"DB_HOST"`
	DBPort         int    `mapstructure:"DB_PORT"`
	DBUser         string `mapstructure:"DB_USER"`
	DBPassword     string `mapstructure:"DB_PASSWORD"`
	DBName         string `mapstructure:"DB_NAME"`
	DBMaxOpenConns int    `mapstructure:"DB_MAX_OPEN_CONNS"`

	CacheDriver   string `mapstructure:"CACHE_DRIVER"`
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"REDIS_DB"`

	JWTSecret  string        `mapstructure:"JWT_SECRET"`
	JWTTTL     time.Duration `mapstructure:"JWT_TTL"`
	SessionTTL time.Duration `mapstructure:"SESSION_TTL"`
	OTPTTL     time.Duration `mapstructure:"OTP_TTL"`

	ServiceFee      int64  `mapstructure:"SERVICE_FEE"`
	RateLimitPerMin int    `mapstructure:"RATE_LIMIT_PER_MIN"`
	CORSOrigins     string `mapstructure:"CORS_ALLOWED_ORIGINS"`
}

// DefaultJWTSecret is only acceptable outside production.
const DefaultJWTSecret = "change-me-in-production"

// Current holds the env loaded at startup; tests may overwrite it.
var Current = Defaults()

// Defaults returns the configuration used when nothing is set.
func Defaults() Env {
	return Env{
		AppAddr:         ":8080",
		AppEnv:          "development",
		LogLevel:        "info",
		DBHost:          "127.0.0.1",
		DBPort:          3306,
		DBUser:          "root",
		DBName:          "bus_ticketing",
		DBMaxOpenConns:  25,
		CacheDriver:     "redis",
		RedisAddr:       "localhost:6379",
		JWTSecret:       DefaultJWTSecret,
		JWTTTL:          24 * time.Hour,
		SessionTTL:      30 * time.Minute,
		OTPTTL:          5 * time.Minute,
		ServiceFee:      500,
		RateLimitPerMin: 120,
		CORSOrigins:     "http://localhost:8081,http://localhost:19006",
	}
}

// LoadEnv reads .env (when present), config.yaml (when present) and the process environment.
func LoadEnv() Env {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using process environment")
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AutomaticEnv()

	d := Defaults()
	v.SetDefault("APP_ADDR", d.AppAddr)
	v.SetDefault("GIN_MODE", d.GinMode)
	v.SetDefault("ENV", d.AppEnv)
	v.SetDefault("LOG_LEVEL", d.LogLevel)
	v.SetDefault("DB_HOST", d.DBHost)
	v.SetDefault("DB_PORT", d.DBPort)
	v.SetDefault("DB_USER", d.DBUser)
	v.SetDefault("DB_PASSWORD", d.DBPassword)
	v.SetDefault("DB_NAME", d.DBName)
	v.SetDefault("DB_MAX_OPEN_CONNS", d.DBMaxOpenConns)
	v.SetDefault("CACHE_DRIVER", d.CacheDriver)
	v.SetDefault("REDIS_ADDR", d.RedisAddr)
	v.SetDefault("REDIS_PASSWORD", d.RedisPassword)
	v.SetDefault("REDIS_DB", d.RedisDB)
	v.SetDefault("JWT_SECRET", d.JWTSecret)
	v.SetDefault("JWT_TTL", d.JWTTTL)
	v.SetDefault("SESSION_TTL", d.SessionTTL)
	v.SetDefault("OTP_TTL", d.OTPTTL)
	v.SetDefault("SERVICE_FEE", d.ServiceFee)
	v.SetDefault("RATE_LIMIT_PER_MIN", d.RateLimitPerMin)
	v.SetDefault("CORS_ALLOWED_ORIGINS", d.CORSOrigins)

	if err := v.ReadInConfig(); err != nil {
		log.Println("no config.yaml found, using environment variables only")
	}

	var env Env
	if err := v.Unmarshal(&env); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	env.AppAddr = strings.TrimSpace(env.AppAddr)
	env.GinMode = strings.TrimSpace(env.GinMode)
	if env.ServiceFee < 0 {
		env.ServiceFee = 0
	}
	if err := env.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	Current = env
	return env
}

// Validate rejects settings that must never reach production.
func (e Env) Validate() error {
	if !e.IsProduction() {
		return nil
	}
	secret := strings.TrimSpace(e.JWTSecret)
	if secret == "" || secret == DefaultJWTSecret {
		return errors.New("JWT_SECRET must be set to a private value when ENV=production")
	}
	return nil
}

func (e Env) IsProduction() bool {
	return strings.EqualFold(e.AppEnv, "production")
}

// MySQLDSN builds the go-sql-driver DSN.
func (e Env) MySQLDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&loc=Local&charset=utf8mb4&timeout=5s&readTimeout=30s&writeTimeout=30s",
		e.DBUser,
		e.DBPassword,
		e.DBHost,
		e.DBPort,
		e.DBName,
	)
}

// AllowedOrigins splits CORS_ALLOWED_ORIGINS.
func (e Env) AllowedOrigins() []string {
	out := []string{}
	for _, o := range strings.Split(e.CORSOrigins, ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			out = append(out, o)
		}
	}
	return out
}
