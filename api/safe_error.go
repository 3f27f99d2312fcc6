package api

import (
	"strings"

	"masha/config"
)

// SafeErrorMessage hides internal error details from clients in release
// mode; in development the real error text comes through.
func SafeErrorMessage(err error, fallback string) string {
	return config.SafeErrorMessage(err, fallback)
}

// escapeLikeValue escapes the LIKE wildcards % and _ so user input cannot
// change the match semantics.
func escapeLikeValue(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	s = strings.ReplaceAll(s, "_", `\_`)
	return s
}
