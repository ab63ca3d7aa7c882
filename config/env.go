package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type Config struct {
	Server  ServerConfig
	DB      DBConfig
	Redis   RedisConfig
	POS     POSConfig
	Storage StorageConfig
	UPI     UPIConfig
}

type ServerConfig struct {
	Port        string
	CORSOrigins string
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// POSConfig carries the billing knobs that used to be scattered literals:
// the flat per-unit parcel surcharge and the hour at which the business
// day rolls over (0 = midnight).
type POSConfig struct {
	ParcelCharge           decimal.Decimal
	BusinessDayCutoverHour int
}

type StorageConfig struct {
	Bucket          string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	PublicBaseURL   string
}

type UPIConfig struct {
	PayeeVPA  string
	PayeeName string
}

func LoadConfig() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	cutoverHour, _ := strconv.Atoi(getEnv("BUSINESS_DAY_CUTOVER_HOUR", "0"))
	if cutoverHour < 0 || cutoverHour > 23 {
		log.Printf("Invalid BUSINESS_DAY_CUTOVER_HOUR %d, falling back to 0", cutoverHour)
		cutoverHour = 0
	}

	parcelCharge, err := decimal.NewFromString(getEnv("PARCEL_CHARGE", "5"))
	if err != nil || parcelCharge.IsNegative() {
		log.Println("Invalid PARCEL_CHARGE, falling back to 5")
		parcelCharge = decimal.NewFromInt(5)
	}

	return Config{
		Server: ServerConfig{
			Port:        getEnv("SERVER_PORT", "8080"),
			CORSOrigins: getEnv("CORS_ORIGINS", "*"),
		},
		DB: DBConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "juicepos"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		POS: POSConfig{
			ParcelCharge:           parcelCharge,
			BusinessDayCutoverHour: cutoverHour,
		},
		Storage: StorageConfig{
			Bucket:          getEnv("S3_BUCKET", "juicepos-menu-images"),
			Region:          getEnv("S3_REGION", "ap-south-1"),
			AccessKeyID:     getEnv("S3_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("S3_SECRET_ACCESS_KEY", ""),
			PublicBaseURL:   getEnv("S3_PUBLIC_BASE_URL", ""),
		},
		UPI: UPIConfig{
			PayeeVPA:  getEnv("UPI_PAYEE_VPA", ""),
			PayeeName: getEnv("UPI_PAYEE_NAME", "Juice Counter"),
		},
	}
}

func (c DBConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
