package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "DETECTOR_BACKEND", "MODEL_PATH", "INFERENCE_URL", "TELEGRAM_TOKEN", "LOG_LEVEL"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 8080, cfg.Port)
	require.Equal(t, BackendONNX, cfg.DetectorBackend)
	require.Equal(t, "best.onnx", cfg.ModelPath)
	require.Equal(t, "http://localhost:5000/predict", cfg.InferenceURL)
	require.Empty(t, cfg.TelegramToken)
	require.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DETECTOR_BACKEND", BackendRemote)
	t.Setenv("MODEL_PATH", "/models/eye.onnx")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 9090, cfg.Port)
	require.Equal(t, BackendRemote, cfg.DetectorBackend)
	require.Equal(t, "/models/eye.onnx", cfg.ModelPath)
}

func TestLoad_BadPortFallsBack(t *testing.T) {
	t.Setenv("PORT", "eighty")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 8080, cfg.Port)
}
