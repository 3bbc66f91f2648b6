package chromedisplay

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
)

// ResolveChromePath returns the Chrome executable to launch: explicitPath if
// set, then $CHROME_PATH, then the first installed browser from the platform
// candidates (Chromium before Chrome). It returns "" when nothing is found.
func ResolveChromePath(explicitPath string) string {
	if explicitPath != "" {
		return explicitPath
	}
	if envPath := os.Getenv("CHROME_PATH"); envPath != "" {
		return envPath
	}
	for _, candidate := range chromeCandidates(runtime.GOOS) {
		if path := resolveExecutable(candidate); path != "" {
			return path
		}
	}
	return ""
}

func chromeCandidates(goos string) []string {
	switch goos {
	case "darwin":
		return []string{
			"/Applications/Chromium.app/Contents/MacOS/Chromium",
			"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
		}
	case "windows":
		var candidates []string
		for _, env := range []string{"PROGRAMFILES", "PROGRAMFILES(X86)", "LOCALAPPDATA"} {
			root := os.Getenv(env)
			if root == "" {
				continue
			}
			candidates = append(candidates,
				filepath.Join(root, "Chromium", "Application", "chrome.exe"),
				filepath.Join(root, "Google", "Chrome", "Application", "chrome.exe"),
			)
		}
		return candidates
	default:
		return []string{"chromium", "chromium-browser", "google-chrome-stable", "google-chrome"}
	}
}

// resolveExecutable stats absolute paths and looks bare names up in PATH.
func resolveExecutable(nameOrPath string) string {
	if filepath.IsAbs(nameOrPath) {
		if _, err := os.Stat(nameOrPath); err == nil {
			return nameOrPath
		}
		return ""
	}
	if path, err := exec.LookPath(nameOrPath); err == nil {
		return path
	}
	return ""
}
