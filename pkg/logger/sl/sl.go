// Package sl holds small helpers for log/slog attributes.
package sl

import "log/slog"

// Err wraps err into an "error" attribute. A nil error yields an empty string value.
func Err(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "")
	}

	return slog.String("error", err.Error())
}
