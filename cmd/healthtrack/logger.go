package main

import (
	"go.uber.org/zap"

	"github.com/jonathan/health-tracker/internal/observability"
)

// newCLILogger keeps one-shot commands quiet unless --verbose is set.
func newCLILogger(verbose bool) (*zap.Logger, error) {
	if !verbose {
		return zap.NewNop(), nil
	}
	return observability.NewLogger(true)
}
