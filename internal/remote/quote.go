package remote

import "strings"

// QuoteArgument quotes a value for interpolation into a remote shell
// command line. The remote side sees the argument inside double
// quotes, so only the four characters the shell still interprets
// there need escaping. Backslash goes first to avoid double-escaping
// the backslashes the later passes introduce. Everything else
// (whitespace, globs, semicolons, redirection) is neutralized by the
// surrounding double quotes.
func QuoteArgument(arg string) string {
	arg = strings.ReplaceAll(arg, `\`, `\\`)
	arg = strings.ReplaceAll(arg, `"`, `\"`)
	arg = strings.ReplaceAll(arg, `$`, `\$`)
	arg = strings.ReplaceAll(arg, "`", "\\`")
	return `"` + arg + `"`
}
