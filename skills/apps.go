package skills

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// AppLauncher opens and closes desktop applications by name.
type AppLauncher struct {
	start  func(name string, args ...string) error
	run    CommandRunner
	logger *zap.Logger
}

func NewAppLauncher() *AppLauncher {
	return &AppLauncher{
		start:  startDetached,
		run:    execRunner,
		logger: zap.L().Named("apps"),
	}
}

func NewAppLauncherWithRunner(run CommandRunner, start func(name string, args ...string) error) *AppLauncher {
	return &AppLauncher{start: start, run: run, logger: zap.L().Named("apps")}
}

func (a *AppLauncher) Launch(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "Which application should I open?"
	}

	// gtk-launch resolves desktop entries by id; fuzzy matching is left to
	// the desktop environment.
	if err := a.start("gtk-launch", name); err != nil {
		a.logger.Warn("Failed to launch application", zap.String("app", name), zap.Error(err))
		return fmt.Sprintf("Failed to open %s: %v", name, err)
	}
	a.logger.Info("Application launched", zap.String("app", name))
	return fmt.Sprintf("Opening %s...", name)
}

func (a *AppLauncher) Close(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "Which application should I close?"
	}

	if _, err := a.exec("pkill", "-f", "-i", name); err != nil {
		return fmt.Sprintf("Failed to close %s: %v", name, err)
	}
	a.logger.Info("Application closed", zap.String("app", name))
	return fmt.Sprintf("Closed %s.", name)
}

func (a *AppLauncher) exec(cmd string, args ...string) (string, error) {
	ctx, cancel := newActuatorContext()
	defer cancel()
	return a.run(ctx, cmd, args...)
}
