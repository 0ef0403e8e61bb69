package skills

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRunner records every actuator invocation as "name arg arg...".
type fakeRunner struct {
	commands []string
	started  []string
	err      error
	startErr error
}

func (f *fakeRunner) run(_ context.Context, name string, args ...string) (string, error) {
	f.commands = append(f.commands, strings.TrimSpace(name+" "+strings.Join(args, " ")))
	return "", f.err
}

func (f *fakeRunner) start(name string, args ...string) error {
	f.started = append(f.started, strings.TrimSpace(name+" "+strings.Join(args, " ")))
	return f.startErr
}

func newFakeSystem() (*SystemControl, *fakeRunner) {
	f := &fakeRunner{}
	return NewSystemControlWithRunner(f.run, f.start), f
}

func TestSetVolumeClampsLevel(t *testing.T) {
	c, f := newFakeSystem()

	reply := c.SetVolume("150")
	assert.Equal(t, "Volume set to 100%", reply)
	require.Equal(t, []string{"pactl set-sink-volume @DEFAULT_SINK@ 100%"}, f.commands)
}

func TestSetBrightness(t *testing.T) {
	c, f := newFakeSystem()

	reply := c.SetBrightness("40")
	assert.Equal(t, "Brightness set to 40%", reply)
	require.Equal(t, []string{"brightnessctl set 40%"}, f.commands)
}

func TestStepVolume(t *testing.T) {
	c, f := newFakeSystem()

	assert.Equal(t, "Volume up by 10%.", c.StepVolume(10))
	assert.Equal(t, "Volume down by 10%.", c.StepVolume(-10))
	require.Equal(t, []string{
		"pactl set-sink-volume @DEFAULT_SINK@ +10%",
		"pactl set-sink-volume @DEFAULT_SINK@ -10%",
	}, f.commands)
}

func TestSetMuted(t *testing.T) {
	c, f := newFakeSystem()

	assert.Equal(t, "Audio muted.", c.SetMuted(true))
	assert.Equal(t, "Audio unmuted.", c.SetMuted(false))
	require.Equal(t, []string{
		"pactl set-sink-mute @DEFAULT_SINK@ 1",
		"pactl set-sink-mute @DEFAULT_SINK@ 0",
	}, f.commands)
}

func TestShutdownIsDelayed(t *testing.T) {
	c, f := newFakeSystem()

	reply := c.Shutdown()
	assert.Contains(t, reply, "60 seconds")
	assert.Contains(t, reply, "abort shutdown")
	require.Equal(t, []string{"shutdown +1"}, f.commands)
}

func TestAbortShutdown(t *testing.T) {
	c, f := newFakeSystem()

	assert.Equal(t, "Shutdown aborted.", c.AbortShutdown())
	require.Equal(t, []string{"shutdown -c"}, f.commands)
}

func TestSetPowerMode(t *testing.T) {
	tests := []struct {
		mode    string
		command string
		reply   string
	}{
		{"saver", "powerprofilesctl set power-saver", "Switched power mode to Power Saver."},
		{"high", "powerprofilesctl set performance", "Switched power mode to High Performance."},
		{"balanced", "powerprofilesctl set balanced", "Switched power mode to Balanced."},
	}

	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			c, f := newFakeSystem()
			assert.Equal(t, tt.reply, c.SetPowerMode(tt.mode))
			require.Equal(t, []string{tt.command}, f.commands)
		})
	}
}

func TestSetThemeValidatesMode(t *testing.T) {
	c, f := newFakeSystem()

	reply := c.SetTheme("blue")
	assert.Equal(t, "Invalid theme mode. Use 'dark' or 'light'.", reply)
	assert.Empty(t, f.commands)

	c.SetTheme("dark")
	require.Equal(t, []string{"gsettings set org.gnome.desktop.interface color-scheme prefer-dark"}, f.commands)
}

func TestSetRadioState(t *testing.T) {
	c, f := newFakeSystem()

	assert.Equal(t, "Wi-Fi has been enabled.", c.SetRadioState("wifi", "on"))
	assert.Equal(t, "Bluetooth has been disabled.", c.SetRadioState("bluetooth", "off"))
	require.Equal(t, []string{
		"nmcli radio wifi on",
		"bluetoothctl power off",
	}, f.commands)
}

func TestSetRadioStateFallsBackToSettings(t *testing.T) {
	c, f := newFakeSystem()
	f.err = errors.New("nmcli not found")

	reply := c.SetRadioState("wifi", "off")
	assert.Contains(t, reply, "Could not toggle Wi-Fi directly")
	require.Equal(t, []string{"gnome-control-center wifi"}, f.started)
}

func TestOpenSettings(t *testing.T) {
	c, f := newFakeSystem()

	assert.Equal(t, "Opened battery settings.", c.OpenSettings("battery"))
	require.Equal(t, []string{"gnome-control-center power"}, f.started)

	assert.Equal(t, "I don't know the settings page for 'kitchen'.", c.OpenSettings("kitchen"))
}

func TestEnableGamingMode(t *testing.T) {
	c, f := newFakeSystem()

	reply := c.EnableGamingMode()
	assert.Contains(t, reply, "Gaming Mode Enabled:")
	assert.Contains(t, reply, "Power Plan set to High Performance")
	assert.Contains(t, reply, "Brightness set to 100%")
	assert.Contains(t, reply, "Notification banners disabled")
	require.Equal(t, []string{
		"powerprofilesctl set performance",
		"brightnessctl set 100%",
		"gsettings set org.gnome.desktop.notifications show-banners false",
	}, f.commands)
}

func TestActuatorErrorsAreReported(t *testing.T) {
	c, f := newFakeSystem()
	f.err = errors.New("boom")

	assert.Equal(t, "Error setting volume: boom", c.SetVolume("50"))
	assert.Equal(t, "Error executing shutdown: boom", c.Shutdown())
}
