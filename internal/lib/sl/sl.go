package sl

import (
	"log/slog"
)

// Err returns a uniform attribute for logging errors.
func Err(err error) slog.Attr {
	return slog.Attr{
		Key:   "error",
		Value: slog.StringValue(err.Error()),
	}
}

// Module tags log records with the emitting component name.
func Module(name string) slog.Attr {
	return slog.Attr{
		Key:   "module",
		Value: slog.StringValue(name),
	}
}

// Secret logs a sensitive value in redacted form, keeping only a short tail
// so operators can tell configured secrets apart.
func Secret(key, value string) slog.Attr {
	masked := "<empty>"
	if n := len(value); n > 4 {
		masked = "****" + value[n-4:]
	} else if n > 0 {
		masked = "****"
	}
	return slog.Attr{
		Key:   key,
		Value: slog.StringValue(masked),
	}
}
