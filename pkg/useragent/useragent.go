package useragent

import "runtime"

// Browser identities sent to the reputation services, which expect a
// desktop Chrome client.
const (
	Windows = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/138.0.0.0 Safari/537.36"
	MacOS   = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/138.0.0.0 Safari/537.36"
	Linux   = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/138.0.0.0 Safari/537.36"
)

// ForOS maps a GOOS value to a user-agent. Anything other than windows or
// darwin gets the Linux string.
func ForOS(goos string) string {
	switch goos {
	case "windows":
		return Windows
	case "darwin":
		return MacOS
	default:
		return Linux
	}
}

// Current returns the user-agent for the running platform.
func Current() string {
	return ForOS(runtime.GOOS)
}
