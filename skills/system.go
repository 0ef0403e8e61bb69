package skills

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

const actuatorTimeout = 10 * time.Second

// CommandRunner executes one actuator command and returns its combined
// output. Injected so the control logic is testable without an OS.
type CommandRunner func(ctx context.Context, name string, args ...string) (string, error)

func execRunner(ctx context.Context, name string, args ...string) (string, error) {
	out, err := exec.CommandContext(ctx, name, args...).CombinedOutput()
	return strings.TrimSpace(string(out)), err
}

// startDetached launches a command without waiting for it. Used for things
// like settings panels that stay open.
func startDetached(name string, args ...string) error {
	return exec.Command(name, args...).Start()
}

var settingsPanels = map[string]string{
	"bluetooth": "bluetooth",
	"wifi":      "wifi",
	"network":   "network",
	"display":   "display",
	"sound":     "sound",
	"battery":   "power",
}

// SystemControl drives the OS-level actuators: audio, brightness, power,
// radios, theme and the settings panels.
type SystemControl struct {
	run    CommandRunner
	start  func(name string, args ...string) error
	logger *zap.Logger
}

func NewSystemControl() *SystemControl {
	return &SystemControl{
		run:    execRunner,
		start:  startDetached,
		logger: zap.L().Named("system"),
	}
}

// NewSystemControlWithRunner swaps the command execution out, for tests.
func NewSystemControlWithRunner(run CommandRunner, start func(name string, args ...string) error) *SystemControl {
	return &SystemControl{run: run, start: start, logger: zap.L().Named("system")}
}

func newActuatorContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), actuatorTimeout)
}

func (c *SystemControl) exec(name string, args ...string) (string, error) {
	ctx, cancel := newActuatorContext()
	defer cancel()
	return c.run(ctx, name, args...)
}

func clampLevel(level string) int {
	n, _ := strconv.Atoi(level)
	if n < 0 {
		return 0
	}
	if n > 100 {
		return 100
	}
	return n
}

func (c *SystemControl) SetBrightness(level string) string {
	n := clampLevel(level)
	if _, err := c.exec("brightnessctl", "set", fmt.Sprintf("%d%%", n)); err != nil {
		return fmt.Sprintf("Error setting brightness: %v", err)
	}
	return fmt.Sprintf("Brightness set to %d%%", n)
}

func (c *SystemControl) SetVolume(level string) string {
	n := clampLevel(level)
	if _, err := c.exec("pactl", "set-sink-volume", "@DEFAULT_SINK@", fmt.Sprintf("%d%%", n)); err != nil {
		return fmt.Sprintf("Error setting volume: %v", err)
	}
	return fmt.Sprintf("Volume set to %d%%", n)
}

func (c *SystemControl) StepVolume(delta int) string {
	arg := fmt.Sprintf("+%d%%", delta)
	direction := "up"
	if delta < 0 {
		arg = fmt.Sprintf("-%d%%", -delta)
		direction = "down"
	}
	if _, err := c.exec("pactl", "set-sink-volume", "@DEFAULT_SINK@", arg); err != nil {
		return fmt.Sprintf("Error changing volume: %v", err)
	}
	return fmt.Sprintf("Volume %s by %d%%.", direction, abs(delta))
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func (c *SystemControl) SetMuted(muted bool) string {
	state := "0"
	if muted {
		state = "1"
	}
	if _, err := c.exec("pactl", "set-sink-mute", "@DEFAULT_SINK@", state); err != nil {
		return fmt.Sprintf("Error changing mute state: %v", err)
	}
	if muted {
		return "Audio muted."
	}
	return "Audio unmuted."
}

func (c *SystemControl) SetPowerMode(mode string) string {
	profile := "balanced"
	target := "Balanced"
	switch {
	case strings.Contains(mode, "saver") || strings.Contains(mode, "battery"):
		profile = "power-saver"
		target = "Power Saver"
	case strings.Contains(mode, "high") || strings.Contains(mode, "performance"):
		profile = "performance"
		target = "High Performance"
	}
	if _, err := c.exec("powerprofilesctl", "set", profile); err != nil {
		return fmt.Sprintf("Failed to switch power mode: %v", err)
	}
	return fmt.Sprintf("Switched power mode to %s.", target)
}

func (c *SystemControl) Shutdown() string {
	// One minute delay so the user can still say "abort shutdown".
	if _, err := c.exec("shutdown", "+1"); err != nil {
		return fmt.Sprintf("Error executing shutdown: %v", err)
	}
	c.logger.Warn("Shutdown scheduled")
	return "PC will shutdown in 60 seconds. Say 'abort shutdown' to cancel."
}

func (c *SystemControl) AbortShutdown() string {
	if _, err := c.exec("shutdown", "-c"); err != nil {
		return fmt.Sprintf("Error aborting shutdown: %v", err)
	}
	return "Shutdown aborted."
}

func (c *SystemControl) Restart() string {
	if _, err := c.exec("shutdown", "-r", "+1"); err != nil {
		return fmt.Sprintf("Error executing restart: %v", err)
	}
	c.logger.Warn("Restart scheduled")
	return "PC will restart in 60 seconds. Say 'abort' to cancel."
}

func (c *SystemControl) LockScreen() string {
	if _, err := c.exec("loginctl", "lock-session"); err != nil {
		return fmt.Sprintf("Error locking screen: %v", err)
	}
	return "Screen locked."
}

func (c *SystemControl) Sleep() string {
	if _, err := c.exec("systemctl", "suspend"); err != nil {
		return fmt.Sprintf("Error executing sleep: %v", err)
	}
	return "Putting computer to sleep..."
}

func (c *SystemControl) SetTheme(mode string) string {
	if mode != "dark" && mode != "light" {
		return "Invalid theme mode. Use 'dark' or 'light'."
	}
	scheme := "prefer-light"
	if mode == "dark" {
		scheme = "prefer-dark"
	}
	if _, err := c.exec("gsettings", "set", "org.gnome.desktop.interface", "color-scheme", scheme); err != nil {
		return fmt.Sprintf("Error setting theme: %v", err)
	}
	return fmt.Sprintf("Theme set to %s mode. (You might need to restart some apps to see the effect)", mode)
}

func (c *SystemControl) SetRadioState(radio, state string) string {
	enabled := state == "on"
	word := "disabled"
	if enabled {
		word = "enabled"
	}

	switch radio {
	case "wifi":
		if _, err := c.exec("nmcli", "radio", "wifi", state); err != nil {
			// Direct toggle failed; fall back to the settings panel.
			fallback := c.OpenSettings("wifi")
			return fmt.Sprintf("Could not toggle Wi-Fi directly (%v). %s", err, fallback)
		}
		return fmt.Sprintf("Wi-Fi has been %s.", word)
	case "bluetooth":
		if _, err := c.exec("bluetoothctl", "power", state); err != nil {
			fallback := c.OpenSettings("bluetooth")
			return fmt.Sprintf("Could not toggle Bluetooth directly (%v). %s", err, fallback)
		}
		return fmt.Sprintf("Bluetooth has been %s.", word)
	}
	return fmt.Sprintf("I don't know how to control %s.", radio)
}

func (c *SystemControl) OpenSettings(panel string) string {
	target, ok := settingsPanels[strings.ToLower(panel)]
	if !ok {
		return fmt.Sprintf("I don't know the settings page for '%s'.", panel)
	}
	if err := c.start("gnome-control-center", target); err != nil {
		return fmt.Sprintf("Failed to open settings: %v", err)
	}
	return fmt.Sprintf("Opened %s settings.", panel)
}

// EnableGamingMode switches to the high performance profile, maxes
// brightness and silences notification banners, reporting each step like
// the individual commands would.
func (c *SystemControl) EnableGamingMode() string {
	actions := []string{}

	c.SetPowerMode("high")
	actions = append(actions, "Power Plan set to High Performance")

	c.SetBrightness("100")
	actions = append(actions, "Brightness set to 100%")

	if _, err := c.exec("gsettings", "set", "org.gnome.desktop.notifications", "show-banners", "false"); err == nil {
		actions = append(actions, "Notification banners disabled")
	}

	reply := "Gaming Mode Enabled:"
	for _, action := range actions {
		reply += "\n- " + action
	}
	return reply
}
