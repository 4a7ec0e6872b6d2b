// Package clipboard copies rendered prompt and form text to the system
// clipboard, shelling out to the platform's utility.
package clipboard

import (
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
)

// ClipboardError means no clipboard utility was found on this system.
type ClipboardError struct {
	OS      string
	Message string
}

func (e *ClipboardError) Error() string {
	return e.Message
}

// NewClipboardError creates a ClipboardError carrying installation
// instructions for the current platform.
func NewClipboardError() *ClipboardError {
	return &ClipboardError{
		OS:      runtime.GOOS,
		Message: "no clipboard utility found. " + GetInstallInstructions(),
	}
}

// linuxUtilities are tried in order; the first one present wins.
var linuxUtilities = []struct {
	name string
	args []string
}{
	{"xclip", []string{"-selection", "clipboard"}},
	{"xsel", []string{"--clipboard", "--input"}},
	{"wl-copy", nil},
}

// Copy copies text to the system clipboard
func Copy(text string) error {
	switch runtime.GOOS {
	case "darwin":
		return pipeTo(text, "pbcopy")
	case "linux":
		return copyLinux(text)
	case "windows":
		return pipeTo(text, "cmd", "/c", "clip")
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}
}

// copyLinux walks the known Linux clipboard utilities until one works.
func copyLinux(text string) error {
	var lastErr error
	for _, util := range linuxUtilities {
		if !isCommandAvailable(util.name) {
			continue
		}
		if err := pipeTo(text, util.name, util.args...); err != nil {
			lastErr = fmt.Errorf("%s failed: %w", util.name, err)
			continue
		}
		return nil
	}

	if lastErr != nil {
		return fmt.Errorf("clipboard utilities available but failed: %w", lastErr)
	}
	return NewClipboardError()
}

// pipeTo runs a command with the text on its stdin.
func pipeTo(text, name string, args ...string) error {
	cmd := exec.Command(name, args...)
	cmd.Stdin = strings.NewReader(text)
	return cmd.Run()
}

// isCommandAvailable checks if a command is available in PATH
func isCommandAvailable(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}

// CopyWithFallback copies text and returns a status message suitable for a
// status bar. Missing utilities surface as a ClipboardError with install
// instructions; anything else is wrapped.
func CopyWithFallback(text string) (string, error) {
	if err := Copy(text); err != nil {
		var clipErr *ClipboardError
		if errors.As(err, &clipErr) {
			return "", err
		}
		return "", fmt.Errorf("failed to copy to clipboard: %w", err)
	}
	return "Copied to clipboard!", nil
}

// IsClipboardAvailable checks if clipboard functionality is available
func IsClipboardAvailable() bool {
	switch runtime.GOOS {
	case "darwin":
		return isCommandAvailable("pbcopy")
	case "linux":
		for _, util := range linuxUtilities {
			if isCommandAvailable(util.name) {
				return true
			}
		}
		return false
	case "windows":
		return true // clip ships with Windows
	default:
		return false
	}
}

// GetInstallInstructions returns installation instructions for clipboard utilities
func GetInstallInstructions() string {
	switch runtime.GOOS {
	case "linux":
		return "Install a clipboard utility:\n" +
			"  • Ubuntu/Debian: sudo apt install xclip\n" +
			"  • Fedora/RHEL: sudo dnf install xclip\n" +
			"  • Arch: sudo pacman -S xclip\n" +
			"  • For Wayland: install wl-clipboard"
	case "darwin":
		return "pbcopy should be available by default on macOS"
	case "windows":
		return "clip should be available by default on Windows"
	default:
		return fmt.Sprintf("Clipboard not supported on %s", runtime.GOOS)
	}
}
