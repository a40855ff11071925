/*
Copyright © 2025 iIT Distribution
SPDX-License-Identifier: Apache-2.0
*/

// Package cli wires the falconctl command tree.
package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/urfave/cli/v3"

	"github.com/iitd/falcon-deploy/pkg/logging"
	"github.com/iitd/falcon-deploy/pkg/wizard"
)

const (
	name           = "falconctl"
	versionDefault = "dev"

	// Process exit codes.
	exitOK      = 0
	exitFailure = 1
	exitAborted = 130
)

var (
	// overridden during build with ldflags
	buildVersion = versionDefault
	commit       = "unknown"
	date         = "unknown"
)

func rootCmd() *cli.Command {
	return &cli.Command{
		Name:                  name,
		Version:               buildVersion,
		EnableShellCompletion: true,
		Usage:                 "Deploy CrowdStrike Falcon components to Kubernetes",
		Description: `falconctl stages Falcon container images into a local registry and
installs, upgrades, or removes the Falcon components on a Kubernetes
cluster via Helm:

  - Falcon Sensor (node daemonset)
  - Kubernetes Admission Controller
  - Image Assessment at Runtime

Configuration is collected interactively and persisted between runs.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "log level (debug, info, warn, error)",
				Sources: cli.EnvVars("LOG_LEVEL"),
				Value:   "info",
			},
		},
		Commands: []*cli.Command{
			deployCmd(),
			uninstallCmd(),
		},
	}
}

// Run executes the command tree and returns the process exit code. An
// interrupt (SIGINT/SIGTERM) or a cancelled wizard prompt maps to 130,
// every other failure to 1.
func Run(args []string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	printBanner()

	if err := rootCmd().Run(ctx, args); err != nil {
		if stderrors.Is(err, wizard.ErrAborted) || stderrors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, "Cancelled.")
			return exitAborted
		}
		fmt.Fprintln(os.Stderr, err)
		return exitFailure
	}
	return exitOK
}

func printBanner() {
	banner := color.New(color.FgCyan, color.Bold)
	banner.Fprintf(os.Stderr, "%s %s (%s, built %s) - Falcon deployment helper\n", name, buildVersion, commit, date)
}

func initLogger(level string) {
	logging.SetDefaultStructuredLoggerWithLevel(name, buildVersion, level)
}
