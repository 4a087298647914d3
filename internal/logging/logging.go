// Package logging builds the structured logger shared by the CLI and the
// staging core, and carries it on contexts.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	slogcontext "github.com/veqryn/slog-context"

	"github.com/conn-castle/plugin-stage/internal/messages"
)

const (
	// LevelFlag is the persistent flag selecting the minimum log level.
	LevelFlag = "log-level"
	// FormatFlag is the persistent flag selecting the log encoding.
	FormatFlag = "log-format"

	FormatText = "text"
	FormatJSON = "json"

	DefaultLevel  = "warn"
	DefaultFormat = FormatText
)

// Levels lists the accepted --log-level values.
var Levels = []string{"debug", "info", "warn", "error"}

// Settings selects the level and encoding of a logger.
type Settings struct {
	Level  string `toml:"level" validate:"omitempty,oneof=debug info warn error"`
	Format string `toml:"format" validate:"omitempty,oneof=text json"`
}

// RegisterFlags adds --log-level and --log-format to cmd and its children.
func RegisterFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().String(LevelFlag, "", fmt.Sprintf(messages.LogFlagLevelFmt, strings.Join(Levels, ", ")))
	cmd.PersistentFlags().String(FormatFlag, "", messages.LogFlagFormat)
}

// SettingsFromFlags overlays explicitly set flags on base.
func SettingsFromFlags(cmd *cobra.Command, base Settings) Settings {
	out := base
	if flag := cmd.Flag(LevelFlag); flag != nil && flag.Changed {
		out.Level = flag.Value.String()
	}
	if flag := cmd.Flag(FormatFlag); flag != nil && flag.Changed {
		out.Format = flag.Value.String()
	}
	return out
}

// ParseLevel maps a level name to a slog.Level. Empty selects DefaultLevel.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "", DefaultLevel:
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelWarn, fmt.Errorf(messages.LogInvalidLevelFmt, name)
	}
}

// New returns a logger writing to w according to settings.
func New(w io.Writer, settings Settings) (*slog.Logger, error) {
	level, err := ParseLevel(settings.Level)
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	switch strings.ToLower(strings.TrimSpace(settings.Format)) {
	case "", FormatText:
		handler = slog.NewTextHandler(w, opts)
	case FormatJSON:
		handler = slog.NewJSONHandler(w, opts)
	default:
		return nil, fmt.Errorf(messages.LogInvalidFormatFmt, settings.Format)
	}
	return slog.New(handler), nil
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// WithLogger stores logger on ctx for slogcontext.FromCtx.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return slogcontext.NewCtx(ctx, logger)
}

// FromContext returns the logger stored on ctx, or slog.Default.
func FromContext(ctx context.Context) *slog.Logger {
	return slogcontext.FromCtx(ctx)
}

// WithAttrs returns a context whose logger carries args on every record.
func WithAttrs(ctx context.Context, args ...any) context.Context {
	return slogcontext.With(ctx, args...)
}
