package parser

import (
	"log/slog"
	"os"
	"time"
)

// ParserOpt represents a parser configuration option
type ParserOpt func(*ParserConfig)

// TelemetryMode controls telemetry collection (production-safe)
type TelemetryMode int

const (
	TelemetryOff    TelemetryMode = iota // Zero overhead (default)
	TelemetryBasic                       // Counts only
	TelemetryTiming                      // Counts + timing per phase
)

// DebugLevel controls debug tracing (development only)
type DebugLevel int

const (
	DebugOff      DebugLevel = iota // No debug info (default)
	DebugPaths                      // Rule entry tracing
	DebugDetailed                   // Rule entry + boundary scans
)

// ParserConfig holds parser configuration
type ParserConfig struct {
	telemetry  TelemetryMode
	debug      DebugLevel
	filename   string
	logger     *slog.Logger
	labelCheck bool
}

func newConfig(opts []ParserOpt) *ParserConfig {
	c := &ParserConfig{labelCheck: true}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = defaultLogger()
	}
	return c
}

// defaultLogger is silent unless BATPARSE_DEBUG_PARSER is set.
func defaultLogger() *slog.Logger {
	if os.Getenv("BATPARSE_DEBUG_PARSER") == "" {
		return slog.New(slog.DiscardHandler)
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// WithFilename sets the name reported in errors and warnings.
func WithFilename(name string) ParserOpt {
	return func(c *ParserConfig) {
		c.filename = name
	}
}

// WithLogger sets the logger used by the parser and its scanner.
func WithLogger(l *slog.Logger) ParserOpt {
	return func(c *ParserConfig) {
		c.logger = l
	}
}

// WithLabelCheck toggles the undefined/duplicate label analysis (on by default).
func WithLabelCheck(enabled bool) ParserOpt {
	return func(c *ParserConfig) {
		c.labelCheck = enabled
	}
}

// WithTelemetryBasic enables basic telemetry (counts only)
func WithTelemetryBasic() ParserOpt {
	return func(c *ParserConfig) {
		c.telemetry = TelemetryBasic
	}
}

// WithTelemetryTiming enables timing telemetry (counts + timing per phase)
func WithTelemetryTiming() ParserOpt {
	return func(c *ParserConfig) {
		c.telemetry = TelemetryTiming
	}
}

// WithDebugPaths enables debug path tracing (development only)
func WithDebugPaths() ParserOpt {
	return func(c *ParserConfig) {
		c.debug = DebugPaths
	}
}

// WithDebugDetailed enables detailed debug tracing (development only)
func WithDebugDetailed() ParserOpt {
	return func(c *ParserConfig) {
		c.debug = DebugDetailed
	}
}

// ParseTelemetry holds parser performance metrics (production-safe)
type ParseTelemetry struct {
	ParseTime    time.Duration  // Time spent building the tree
	CheckTime    time.Duration  // Time spent in label analysis
	TotalTime    time.Duration  // Total parse time
	TokenCount   int            // Number of tokens in the tree
	NodeCount    int            // Number of nodes in the tree
	LineCount    int            // Number of source lines
	WarningCount int            // Number of warnings
	RuleHits     map[string]int // Dispatch counts per rule name
}

// DebugEvent holds debug tracing information (development only)
type DebugEvent struct {
	Timestamp time.Time
	Event     string // "enter_group", "boundary", etc.
	Pos       int    // Byte offset when the event was recorded
	Context   string // Additional context
}
