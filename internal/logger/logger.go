package logger

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"cat-eye-locator/config"
)

// New создаёт логгер процесса. Вывод всегда идёт в stdout, а если задан
// cfg.LogFile, то и в этот файл.
func New(cfg *config.Config) (*logrus.Logger, error) {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("parse log level: %w", err)
	}
	log.SetLevel(level)

	if cfg.LogFile == "" {
		log.SetOutput(os.Stdout)
		return log, nil
	}

	file, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		return nil, fmt.Errorf("open log file %s: %w", cfg.LogFile, err)
	}
	log.SetOutput(io.MultiWriter(os.Stdout, file))

	return log, nil
}
