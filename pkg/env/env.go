package env

import "os"

// Get returns the value of the given environment variable or a fallback.
// Only for knobs read before config.Load runs, like the logger's output
// format; everything else belongs in pkg/config.
func Get(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
