package observability

import (
	"fmt"

	"go.uber.org/zap"
)

// NewLogger builds a zap.Logger at the given level (debug/info/warn/
// error), production-formatted JSON in production-style deployments and
// development-formatted console output everywhere else.
func NewLogger(environment, level string) (*zap.Logger, error) {
	var cfg zap.Config
	if environment == "production" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
	}

	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, fmt.Errorf("observability: parsing log level %q: %w", level, err)
	}
	cfg.Level = lvl

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("observability: building logger: %w", err)
	}
	return logger, nil
}
