//go:build darwin

package notify

import (
	"fmt"
	"os/exec"
)

// darwinSender shells out to osascript.
type darwinSender struct {
	ok bool
}

func newDarwinSender() sender {
	return &darwinSender{ok: toolAvailable("osascript")}
}

func newLinuxSender() sender   { return noopSender{} }
func newWindowsSender() sender { return noopSender{} }

func (s *darwinSender) send(title, text string) error {
	if !s.ok {
		return nil
	}
	script := fmt.Sprintf(`display notification %q with title %q`, text, title)
	return exec.Command("osascript", "-e", script).Run()
}

func (s *darwinSender) available() bool { return s.ok }
