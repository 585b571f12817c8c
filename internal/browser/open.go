// Package browser opens URLs in the user's default browser. The payment flow
// uses it to hand off to the hosted payment page.
package browser

import (
	"fmt"
	"os/exec"
	"runtime"
)

// Open launches the default browser at url without waiting for it to exit.
func Open(url string) error {
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", url).Start()
	case "linux":
		return exec.Command("xdg-open", url).Start()
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", url).Start()
	default:
		return fmt.Errorf("unsupported OS: %s", runtime.GOOS)
	}
}
