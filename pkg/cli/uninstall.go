/*
Copyright © 2025 iIT Distribution
SPDX-License-Identifier: Apache-2.0
*/

package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/iitd/falcon-deploy/pkg/clipboard"
	"github.com/iitd/falcon-deploy/pkg/component"
	"github.com/iitd/falcon-deploy/pkg/config"
	"github.com/iitd/falcon-deploy/pkg/executor"
	"github.com/iitd/falcon-deploy/pkg/plan"
	"github.com/iitd/falcon-deploy/pkg/runner"
	"github.com/iitd/falcon-deploy/pkg/wizard"
)

func uninstallCmd() *cli.Command {
	return &cli.Command{
		Name:                  "uninstall",
		EnableShellCompletion: true,
		Usage:                 "Remove Falcon components from the cluster",
		Description: `Remove the selected Falcon components.

Components without an active Helm release are skipped. After the
removal plan runs, the stored configuration file can optionally be
deleted as well.`,
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:    "component",
				Aliases: []string{"c"},
				Usage:   fmt.Sprintf("Component to remove (supported values: %v, can be repeated)", component.Keys()),
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			initLogger(cmd.String("log-level"))
			d := &deployer{
				logger: slog.Default(),
				sink:   executor.NewConsoleSink(nil),
				runner: runner.NewExecRunner(slog.Default()),
				wizard: wizard.New(wizard.NewHuhUI()),
			}
			return d.uninstall(ctx, cmd.StringSlice("component"))
		},
	}
}

func (d *deployer) uninstall(ctx context.Context, componentKeys []string) error {
	selected, err := d.selectComponents(componentKeys, "uninstall")
	if err != nil {
		return err
	}

	store, err := config.NewStore()
	if err != nil {
		return err
	}
	cfg, err := store.Load()
	if err != nil {
		return err
	}

	// Only components with an active release make it into the plan.
	var active []component.Component
	for _, c := range selected {
		namespace := c.DefaultNamespace()
		if cfg != nil {
			if cc := cfg.Component(c.Key()); cc != nil && cc.Namespace != "" {
				namespace = cc.Namespace
			}
		}
		installed, err := runner.ReleaseExists(ctx, d.runner, c.ReleaseName(), namespace)
		if err != nil {
			return err
		}
		if !installed {
			d.sink.Warnf("No active %q release found in namespace %q. Skipping.", c.ReleaseName(), namespace)
			continue
		}
		active = append(active, c)
	}

	exec := executor.New(d.runner, d.sink, executor.ConfirmFunc(func(prompt string) (bool, error) {
		return d.wizard.Confirm(prompt)
	}), clipboard.System(), d.logger)

	if _, err := exec.Execute(ctx, plan.BuildUninstall(active, cfg)); err != nil {
		return err
	}

	if cfg != nil {
		yes, err := d.wizard.Confirm("Remove the stored configuration file as well?")
		if err != nil {
			return err
		}
		if yes {
			if err := store.Remove(); err != nil {
				return err
			}
			d.sink.Successf("Configuration file removed.")
		}
	}
	return nil
}
