package remote

import (
	"fmt"
	"io"
	"os/exec"
	"strings"
)

// AdbSession runs every operation as one adb invocation against a
// specific device. adb wraps shell arguments in double quotes without
// escaping anything itself, which is why callers must route every
// interpolated value through QuoteArgument.
type AdbSession struct {
	adbPath  string
	deviceID string
}

func NewAdbSession(deviceID string) *AdbSession {
	return &AdbSession{adbPath: "adb", deviceID: deviceID}
}

func (s *AdbSession) Run(cmd string) (string, error) {
	out, err := exec.Command(s.adbPath, "-s", s.deviceID, "shell", cmd).Output()
	if err != nil {
		if ee, ok := err.(*exec.ExitError); ok && len(ee.Stderr) > 0 {
			return "", fmt.Errorf("adb shell: %v: %s", err, strings.TrimSpace(string(ee.Stderr)))
		}
		return "", fmt.Errorf("adb shell: %v", err)
	}
	return string(out), nil
}

func (s *AdbSession) Push(localPath, remotePath string) error {
	cmd := exec.Command(s.adbPath, "-s", s.deviceID, "push", localPath, remotePath)
	cmd.Stdout = io.Discard
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("adb push %s: %v", localPath, err)
	}
	return nil
}

func (s *AdbSession) Close() error {
	// adb manages its own daemon connection; nothing to release.
	return nil
}
