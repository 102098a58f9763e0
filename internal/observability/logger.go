package observability

import "github.com/tphakala/astral-forecast/internal/logger"

// Package-level cached logger instance.
var log = logger.Global().Module("observability")
