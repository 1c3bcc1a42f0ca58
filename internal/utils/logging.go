package utils

import (
	"context"
	"log/slog"

	copilot "github.com/github/copilot-sdk/go"
)

// SessionLogger returns a session event handler that traces events of the
// named generator at debug level.
func SessionLogger(generator string) copilot.SessionEventHandler {
	return func(event copilot.SessionEvent) {
		if !slog.Default().Enabled(context.Background(), slog.LevelDebug) {
			return
		}

		attrs := []any{
			"generator", generator,
			"type", event.Type,
		}

		attrs = addIf(attrs, "content", event.Data.Content)
		attrs = addIf(attrs, "deltaContent", event.Data.DeltaContent)
		attrs = addIf(attrs, "message", event.Data.Message)

		slog.Debug("Event received", attrs...)
	}
}

func addIf[T any](attrs []any, name string, v *T) []any {
	if v != nil {
		attrs = append(attrs, name, *v)
	}

	return attrs
}
