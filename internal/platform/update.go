package platform

import (
	"context"
	"fmt"
	"os"
	"os/exec"

	"github.com/dasgefolge/sil/internal/core/model"
	"github.com/dasgefolge/sil/internal/core/update"
	"github.com/dasgefolge/sil/internal/errors"
)

// NixOSConfigDir is the flake updated by the nixos strategy.
const NixOSConfigDir = "/etc/nixos"

// UpdateStep is one external command of a self-update, shown with Message.
type UpdateStep struct {
	Message string
	Dir     string
	Name    string
	Args    []string
}

// Runner executes a command and returns its combined output.
type Runner func(ctx context.Context, dir, name string, args ...string) ([]byte, error)

// CommandUpdater installs a new build by running external commands in order.
type CommandUpdater struct {
	steps []UpdateStep
	run   Runner
}

// NewUpdater returns the updater for strategy, or nil for UpdateNone.
func NewUpdater(strategy model.UpdateStrategy, source, target string) (update.Updater, error) {
	steps, err := UpdateSteps(strategy, source, target)
	if err != nil || steps == nil {
		return nil, err
	}
	return &CommandUpdater{steps: steps, run: runCommand}, nil
}

// NewCommandUpdater returns an updater running steps with run.
func NewCommandUpdater(steps []UpdateStep, run Runner) *CommandUpdater {
	if run == nil {
		run = runCommand
	}
	return &CommandUpdater{steps: steps, run: run}
}

// UpdateSteps lists the commands of a strategy.
func UpdateSteps(strategy model.UpdateStrategy, source, target string) ([]UpdateStep, error) {
	switch strategy {
	case model.UpdateNone, "":
		return nil, nil
	case model.UpdateSCP:
		if source == "" {
			return nil, fmt.Errorf("scp update: no update source configured")
		}
		if target == "" {
			executable, err := os.Executable()
			if err != nil {
				return nil, fmt.Errorf("scp update: resolve executable: %w", err)
			}
			target = executable
		}
		return []UpdateStep{
			{Message: "downloading update", Name: "scp", Args: []string{source, target}},
		}, nil
	case model.UpdateNixOS:
		return []UpdateStep{
			{Message: "updating Nix dependencies", Dir: NixOSConfigDir, Name: "nix", Args: []string{"flake", "update"}},
			{Message: "switching NixOS config", Name: "sudo", Args: []string{"nixos-rebuild", "switch"}},
		}, nil
	default:
		return nil, fmt.Errorf("unknown update strategy %q", strategy)
	}
}

// Update runs every step, stopping at the first failure.
func (updater *CommandUpdater) Update(ctx context.Context, version string, progress func(message string) error) error {
	for _, step := range updater.steps {
		if err := progress(step.Message); err != nil {
			return err
		}
		output, err := updater.run(ctx, step.Dir, step.Name, step.Args...)
		if err != nil {
			return &errors.CommandError{Name: step.Name, Output: string(output), Err: err}
		}
	}
	return nil
}

func runCommand(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	command := exec.CommandContext(ctx, name, args...)
	command.Dir = dir
	return command.CombinedOutput()
}
