package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort int
	Env        string
	Database   DatabaseConfig
	Google     GoogleConfig
	Inference  InferenceConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	UseSSL   bool
}

type GoogleConfig struct {
	ClientID string
}

type InferenceConfig struct {
	// PythonBin is the interpreter used to run the prediction scripts.
	PythonBin string
	// ScriptsDir holds predict_model.py and predict_mood.py.
	ScriptsDir string
	// UploadDir receives uploaded mood images until inference finishes.
	UploadDir string
	// Timeout bounds a single prediction-process run.
	Timeout time.Duration
}

func LoadConfig() Config {
	if os.Getenv("ENV") == "dev" {
		godotenv.Load()
	}

	dbConfig := DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnvInt("DB_PORT", 5432),
		User:     getEnv("DB_USER", "mindwell"),
		Password: getEnv("DB_PASSWORD", "password"),
		DBName:   getEnv("DB_NAME", "mindwell_db"),
		UseSSL:   getEnv("DB_SSL", "disable") == "require",
	}

	return Config{
		ServerPort: getEnvInt("SERVER_PORT", 8080),
		Env:        getEnv("ENV", "production"),
		Database:   dbConfig,
		Google: GoogleConfig{
			ClientID: os.Getenv("GOOGLE_CLIENT_ID"),
		},
		Inference: InferenceConfig{
			PythonBin:  getEnv("PYTHON_BIN", "myenv/bin/python"),
			ScriptsDir: getEnv("SCRIPTS_DIR", "."),
			UploadDir:  getEnv("UPLOAD_DIR", "uploads"),
			Timeout:    time.Duration(getEnvInt("INFERENCE_TIMEOUT", 60)) * time.Second,
		},
	}
}

// IsProduction reports whether diagnostic detail should be withheld
// from error responses.
func (c Config) IsProduction() bool {
	return c.Env != "dev" && c.Env != "development"
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if valueStr, exists := os.LookupEnv(key); exists {
		var value int
		fmt.Sscanf(valueStr, "%d", &value)
		return value
	}
	return defaultValue
}
