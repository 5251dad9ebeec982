package util

import (
	"os/exec"
	"runtime"
)

// OpenBrowser 用系统默认浏览器打开地址
func OpenBrowser(url string) error {
	return browserCommand(runtime.GOOS, url).Start()
}

func browserCommand(goos, url string) *exec.Cmd {
	switch goos {
	case "windows":
		// rundll32 比 cmd /c start 更稳定，且不会弹出控制台窗口
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	case "darwin":
		return exec.Command("open", url)
	default:
		return exec.Command("xdg-open", url)
	}
}

// OpenBrowserWithFallback 默认方式失败时依次尝试备选方式
func OpenBrowserWithFallback(url string) error {
	err := OpenBrowser(url)
	if err == nil {
		return nil
	}

	switch runtime.GOOS {
	case "windows":
		return exec.Command("explorer", url).Start()
	case "linux":
		for _, browser := range []string{"google-chrome", "firefox", "chromium-browser", "sensible-browser"} {
			if startErr := exec.Command(browser, url).Start(); startErr == nil {
				return nil
			}
		}
	}
	return err
}
