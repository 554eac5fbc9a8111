package sensehat

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// findDevice scans sysfs entries matching pattern for one whose name file
// (relative to the entry) equals want, and returns its /dev path under devDir.
func findDevice(sysRoot, pattern, nameFile, want, devDir string) (string, error) {
	entries, err := filepath.Glob(filepath.Join(sysRoot, pattern))
	if err != nil {
		return "", err
	}
	for _, entry := range entries {
		name, err := os.ReadFile(filepath.Join(entry, nameFile))
		if err != nil {
			continue
		}
		if strings.TrimSpace(string(name)) == want {
			return filepath.Join(devDir, filepath.Base(entry)), nil
		}
	}
	return "", fmt.Errorf("%w: no device named %q", ErrNotFound, want)
}

// FindFramebuffer returns the framebuffer device of the LED matrix.
func FindFramebuffer() (string, error) {
	return findDevice("/sys/class/graphics", "fb*", "name", FramebufferName, "/dev")
}

// FindJoystick returns the evdev device of the joystick.
func FindJoystick() (string, error) {
	return findDevice("/sys/class/input", "event*", "device/name", JoystickName, "/dev/input")
}
