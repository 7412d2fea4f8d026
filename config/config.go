package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Бэкенды детектора, которые умеет загружать vision.Load
const (
	BackendONNX   = "onnx"
	BackendGoCV   = "gocv"
	BackendRemote = "remote"
)

type Config struct {
	Port            int
	DetectorBackend string
	ModelPath       string
	ONNXRuntimeLib  string
	InferenceURL    string
	TelegramToken   string
	LogLevel        string
	LogFile         string
}

func Load() (*Config, error) {
	// Загружаем .env файл (игнорируем ошибку если файла нет)
	_ = godotenv.Load()

	cfg := &Config{
		Port:            getEnvAsInt("PORT", 8080),
		DetectorBackend: getEnv("DETECTOR_BACKEND", BackendONNX),
		ModelPath:       getEnv("MODEL_PATH", "best.onnx"),
		ONNXRuntimeLib:  os.Getenv("ONNXRUNTIME_LIB"),
		InferenceURL:    getEnv("INFERENCE_URL", "http://localhost:5000/predict"),
		TelegramToken:   os.Getenv("TELEGRAM_TOKEN"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		LogFile:         os.Getenv("LOG_FILE"),
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
