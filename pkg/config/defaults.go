package config

import "time"

// Server defaults.
const (
	DefaultHost         = "127.0.0.1"
	DefaultPort         = 8080
	DefaultReadTimeout  = 30 * time.Second
	DefaultWriteTimeout = 30 * time.Second
	DefaultIdleTimeout  = 60 * time.Second
)

// Endpoint defaults.
const (
	DefaultEndpointPath    = "/filter/"
	DefaultEndpointTimeout = 10 * time.Second
)

// Dashboard defaults.
const (
	DefaultTheme       = "dark"
	DefaultTrendPeriod = "month"
	DefaultStoreSort   = "desc"
	DefaultTitle       = "Sales Dashboard"
)

// Logging defaults.
const (
	DefaultLogLevel = "info"
)

// Telemetry defaults.
const (
	DefaultPrometheus = true
)
