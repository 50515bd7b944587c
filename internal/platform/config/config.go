package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env      string
	LogLevel string

	APIPort          string
	HTTPWriteTimeout time.Duration
	CORSOrigins      []string

	JWTKey []byte
	JWTExp time.Duration

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string
	DBConnStr  string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	ExecutionQueueName      string
	ExecutionLockKey        string
	ExecutionLockTTLSeconds int
	ExecutionJobTTL         time.Duration
	WorkerPollTimeout       time.Duration

	PistonURL        string
	PistonTimeout    time.Duration
	CompileTimeoutMs int
	InterCallDelay   time.Duration
	RuntimesFile     string
}

var AppConfig *Config

// Load reads .env (if present) and the environment into AppConfig.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	AppConfig = &Config{
		Env:                     getEnv("APP_ENV", "development"),
		LogLevel:                getEnv("LOG_LEVEL", "info"),
		APIPort:                 getEnv("API_PORT", "5000"),
		HTTPWriteTimeout:        getEnvAsDuration("HTTP_WRITE_TIMEOUT", 2*time.Minute),
		CORSOrigins:             getEnvAsList("CORS_ORIGINS", []string{"http://localhost:4173", "http://localhost:5173"}),
		JWTKey:                  []byte(getEnv("JWT_SECRET", "defaultsecret")),
		JWTExp:                  time.Duration(getEnvAsInt("JWT_EXPIRATION_HOURS", 72)) * time.Hour,
		DBHost:                  getEnv("DB_HOST", "localhost"),
		DBPort:                  getEnv("DB_PORT", "5432"),
		DBUser:                  getEnv("DB_USER", "user"),
		DBPassword:              getEnv("DB_PASSWORD", "password"),
		DBName:                  getEnv("DB_NAME", "codemaster"),
		DBSslMode:               getEnv("DB_SSLMODE", "disable"),
		RedisAddr:               getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:           getEnv("REDIS_PASSWORD", ""),
		RedisDB:                 getEnvAsInt("REDIS_DB", 0),
		ExecutionQueueName:      getEnv("EXECUTION_QUEUE_NAME", "execution_jobs_queue"),
		ExecutionLockKey:        getEnv("EXECUTION_LOCK_KEY", "execution_job_lock"),
		ExecutionLockTTLSeconds: getEnvAsInt("EXECUTION_LOCK_TTL_SECONDS", 300),
		ExecutionJobTTL:         getEnvAsDuration("EXECUTION_JOB_TTL", 24*time.Hour),
		WorkerPollTimeout:       getEnvAsDuration("WORKER_POLL_TIMEOUT", 5*time.Second),
		PistonURL:               getEnv("PISTON_URL", "https://emkc.org/api/v2/piston"),
		PistonTimeout:           getEnvAsDuration("PISTON_TIMEOUT", 30*time.Second),
		CompileTimeoutMs:        getEnvAsInt("COMPILE_TIMEOUT_MS", 10000),
		InterCallDelay:          getEnvAsDuration("EXECUTOR_CALL_DELAY", 250*time.Millisecond),
		RuntimesFile:            getEnv("RUNTIMES_FILE", ""),
	}

	AppConfig.DBConnStr = getEnv("DATABASE_URL", "host="+AppConfig.DBHost+
		" port="+AppConfig.DBPort+
		" user="+AppConfig.DBUser+
		" password="+AppConfig.DBPassword+
		" dbname="+AppConfig.DBName+
		" sslmode="+AppConfig.DBSslMode)

	return AppConfig
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return fallback
}

// getEnvAsDuration accepts Go durations ("250ms", "5s").
func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return fallback
}

func getEnvAsList(key string, fallback []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	var out []string
	for _, item := range strings.Split(valueStr, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
