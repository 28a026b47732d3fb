// Package logger provides the engine's logging setup.
package logger

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	once   sync.Once
	logger zerolog.Logger
)

// Level aliases the zerolog level type.
type Level = zerolog.Level

const (
	DebugLevel = zerolog.DebugLevel
	InfoLevel  = zerolog.InfoLevel
	WarnLevel  = zerolog.WarnLevel
	ErrorLevel = zerolog.ErrorLevel
)

// Config controls log output.
type Config struct {
	Level      string `yaml:"level" json:"level"`
	Format     string `yaml:"format" json:"format"` // json/console
	Output     string `yaml:"output" json:"output"` // stdout/stderr
	TimeFormat string `yaml:"time_format,omitempty" json:"time_format,omitempty"`
}

// DefaultConfig returns the default logging configuration.
func DefaultConfig() Config {
	return Config{
		Level:      "info",
		Format:     "console",
		Output:     "stderr",
		TimeFormat: time.RFC3339,
	}
}

// Init initializes the global logger. Safe to call more than once.
func Init(cfg Config) {
	once.Do(func() {
		zerolog.SetGlobalLevel(parseLevel(cfg.Level))

		var output io.Writer
		switch cfg.Output {
		case "stdout":
			output = os.Stdout
		default:
			output = os.Stderr
		}

		if cfg.Format == "console" {
			output = zerolog.ConsoleWriter{
				Out:        output,
				TimeFormat: cfg.TimeFormat,
			}
		}

		logger = zerolog.New(output).With().Timestamp().Logger()
	})
}

func parseLevel(level string) zerolog.Level {
	switch level {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// Get returns the global logger, initializing defaults if needed. An earlier
// Init call wins; this never reconfigures.
func Get() *zerolog.Logger {
	Init(DefaultConfig())
	return &logger
}

// SolverLogger is the roster engine's component logger.
type SolverLogger struct {
	base *zerolog.Logger
}

// NewSolverLogger creates a logger scoped to the roster engine.
func NewSolverLogger() *SolverLogger {
	l := Get().With().Str("component", "roster").Logger()
	return &SolverLogger{base: &l}
}

// StartGeneration records the start of a generation run.
func (l *SolverLogger) StartGeneration(weekStart string, staff, requirements int) {
	l.base.Info().
		Str("week_start", weekStart).
		Int("staff", staff).
		Int("requirements", requirements).
		Msg("starting roster generation")
}

// ConstraintViolation records a constraint violation found during scoring.
func (l *SolverLogger) ConstraintViolation(constraint, details string) {
	l.base.Warn().
		Str("constraint", constraint).
		Str("details", details).
		Msg("constraint violation")
}

// Backtrack records an undo-and-retry move in the search.
func (l *SolverLogger) Backtrack(requirement int, remaining int) {
	l.base.Debug().
		Int("requirement", requirement).
		Int("backtracks_remaining", remaining).
		Msg("backtracking assignment")
}

// GenerationComplete records the end of a generation run.
func (l *SolverLogger) GenerationComplete(weekStart string, duration time.Duration, score float64, valid bool) {
	l.base.Info().
		Str("week_start", weekStart).
		Dur("duration", duration).
		Float64("score", score).
		Bool("is_valid", valid).
		Msg("roster generation complete")
}
