package main

import (
	stdlog "log"

	"github.com/rs/zerolog"
)

// stdLogger routes net/http's internal error log through zerolog.
func stdLogger(l zerolog.Logger) *stdlog.Logger {
	return stdlog.New(l.With().Str("component", "http").Logger(), "", 0)
}
