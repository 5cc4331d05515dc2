package notify

import (
	"os/exec"
	"runtime"
)

// sender is the platform hook behind DesktopSink.
type sender interface {
	send(title, text string) error
	available() bool
}

func newSender() sender {
	switch runtime.GOOS {
	case "darwin":
		return newDarwinSender()
	case "linux":
		return newLinuxSender()
	case "windows":
		return newWindowsSender()
	default:
		return noopSender{}
	}
}

func toolAvailable(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}

type noopSender struct{}

func (noopSender) send(string, string) error { return nil }
func (noopSender) available() bool           { return false }
