//go:build windows

package notify

import (
	"fmt"
	"os/exec"
	"strings"
)

// windowsSender shells out to PowerShell's toast API.
type windowsSender struct {
	ok bool
}

func newWindowsSender() sender {
	return &windowsSender{ok: toolAvailable("powershell")}
}

func newDarwinSender() sender { return noopSender{} }
func newLinuxSender() sender  { return noopSender{} }

func (s *windowsSender) send(title, text string) error {
	if !s.ok {
		return nil
	}
	script := fmt.Sprintf(`
[Windows.UI.Notifications.ToastNotificationManager, Windows.UI.Notifications, ContentType = WindowsRuntime] | Out-Null
$template = [Windows.UI.Notifications.ToastNotificationManager]::GetTemplateContent([Windows.UI.Notifications.ToastTemplateType]::ToastText02)
$textNodes = $template.GetElementsByTagName('text')
$textNodes.Item(0).AppendChild($template.CreateTextNode('%s')) | Out-Null
$textNodes.Item(1).AppendChild($template.CreateTextNode('%s')) | Out-Null
$toast = [Windows.UI.Notifications.ToastNotification]::new($template)
[Windows.UI.Notifications.ToastNotificationManager]::CreateToastNotifier('glint').Show($toast)
`, escapeForPowerShell(title), escapeForPowerShell(text))

	return exec.Command("powershell", "-ExecutionPolicy", "Bypass", "-NoProfile", "-Command", script).Run()
}

func (s *windowsSender) available() bool { return s.ok }

// escapeForPowerShell doubles single quotes and backtick-escapes the
// characters PowerShell would otherwise interpolate.
func escapeForPowerShell(s string) string {
	var b strings.Builder
	for _, c := range s {
		switch c {
		case '\'':
			b.WriteString("''")
		case '`', '$':
			b.WriteByte('`')
			b.WriteRune(c)
		default:
			b.WriteRune(c)
		}
	}
	return b.String()
}
