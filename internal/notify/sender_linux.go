//go:build linux

package notify

import (
	"os"
	"os/exec"
)

// linuxSender shells out to notify-send.
type linuxSender struct {
	ok bool
}

func newLinuxSender() sender {
	return &linuxSender{ok: toolAvailable("notify-send") && hasDisplay()}
}

func newDarwinSender() sender  { return noopSender{} }
func newWindowsSender() sender { return noopSender{} }

func hasDisplay() bool {
	return os.Getenv("DISPLAY") != "" || os.Getenv("WAYLAND_DISPLAY") != ""
}

func (s *linuxSender) send(title, text string) error {
	if !s.ok {
		return nil
	}
	return exec.Command("notify-send", "-u", "critical", title, text).Run()
}

func (s *linuxSender) available() bool { return s.ok }
