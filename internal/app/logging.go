package app

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-hclog"

	"pomodo/internal/config"
)

// NewLogger builds the root logger from the config. The returned closer
// releases the log file, if any.
func NewLogger(cfg *config.Config) (hclog.Logger, io.Closer, error) {
	var output io.Writer = os.Stderr
	var closer io.Closer = io.NopCloser(nil)

	if cfg.LogFile != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0o755); err != nil {
			return nil, nil, fmt.Errorf("create log directory: %w", err)
		}
		file, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		output = file
		closer = file
	}

	logger := hclog.New(&hclog.LoggerOptions{
		Name:   config.AppName,
		Level:  cfg.Level(),
		Output: output,
	})
	return logger, closer, nil
}
