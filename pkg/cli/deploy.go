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
	"github.com/iitd/falcon-deploy/pkg/cloud"
	"github.com/iitd/falcon-deploy/pkg/component"
	"github.com/iitd/falcon-deploy/pkg/config"
	"github.com/iitd/falcon-deploy/pkg/errors"
	"github.com/iitd/falcon-deploy/pkg/executor"
	"github.com/iitd/falcon-deploy/pkg/plan"
	"github.com/iitd/falcon-deploy/pkg/preflight"
	"github.com/iitd/falcon-deploy/pkg/registry"
	"github.com/iitd/falcon-deploy/pkg/runner"
	"github.com/iitd/falcon-deploy/pkg/version"
	"github.com/iitd/falcon-deploy/pkg/wizard"
)

func deployCmd() *cli.Command {
	return &cli.Command{
		Name:                  "deploy",
		EnableShellCompletion: true,
		Usage:                 "Install or upgrade Falcon components",
		Description: `Install or upgrade the selected Falcon components.

The command verifies local tooling and cluster access, authenticates
against the Falcon cloud, stages the product images into the local
registry, renders per-component Helm values, and executes the resulting
plan after a single confirmation. Declining execution prints the Helm
commands for manual use and copies them to the clipboard.`,
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:    "component",
				Aliases: []string{"c"},
				Usage:   fmt.Sprintf("Component to deploy (supported values: %v, can be repeated)", component.Keys()),
			},
			&cli.BoolFlag{
				Name:  "no-sensitive",
				Usage: "Do not persist the API client secret in the configuration file",
			},
			&cli.BoolFlag{
				Name:  "skip-preflight",
				Usage: "Skip tooling and cluster connectivity checks",
			},
			&cli.StringFlag{
				Name:    "kubeconfig",
				Usage:   "Path to kubeconfig file",
				Sources: cli.EnvVars("KUBECONFIG"),
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
			return d.run(ctx, deployOptions{
				components:    cmd.StringSlice("component"),
				noSensitive:   cmd.Bool("no-sensitive"),
				skipPreflight: cmd.Bool("skip-preflight"),
				kubeconfig:    cmd.String("kubeconfig"),
			})
		},
	}
}

type deployOptions struct {
	components    []string
	noSensitive   bool
	skipPreflight bool
	kubeconfig    string
}

// deployer holds the collaborators for one deploy invocation so tests can
// substitute them. A nil stage falls back to registry.Stage.
type deployer struct {
	logger *slog.Logger
	sink   executor.Sink
	runner runner.Runner
	wizard *wizard.Wizard
	stage  func(context.Context, *slog.Logger, registry.StageRequest) (string, error)
}

// tagLister is the catalog surface needed for version resolution.
// Satisfied by cloud.Catalog.
type tagLister interface {
	ListTags(ctx context.Context, imagePath string) ([]string, error)
}

func (d *deployer) run(ctx context.Context, opts deployOptions) error {
	if !opts.skipPreflight {
		if err := d.preflight(ctx, opts.kubeconfig); err != nil {
			return err
		}
	}

	selected, err := d.selectComponents(opts.components, "deploy")
	if err != nil {
		return err
	}

	store, err := config.NewStore()
	if err != nil {
		return err
	}
	cfg, err := d.resolveConfig(store, selected)
	if err != nil {
		return err
	}
	if err := d.wizard.EnsureSecret(cfg); err != nil {
		return err
	}
	if err := registry.ValidateRegistry(cfg.LocalRegistry); err != nil {
		return err
	}

	region := cloud.GetRegion(cfg.CloudRegion)
	d.sink.Infof("Authenticating with the Falcon cloud (%s)...", region.Name)
	api := cloud.NewAPIClient(region)
	token, err := api.AccessToken(ctx, cfg.ClientID, cfg.ClientSecret)
	if err != nil {
		return err
	}
	regUser, regPass, err := api.RegistryCredentials(ctx, token, cfg.CID)
	if err != nil {
		return err
	}

	if err := store.Save(cfg, opts.noSensitive); err != nil {
		return err
	}
	d.sink.Infof("Configuration saved to %s", store.Path())

	if err := d.checkNetwork(ctx, region); err != nil {
		return err
	}

	d.setupChartRepo(ctx)

	pullToken, err := registry.PullToken(cfg.LocalRegistry)
	if err != nil {
		return err
	}
	if pullToken == "" {
		d.sink.Warnf("No docker auth entry for %s; the cluster may need a manually created pull secret.", cfg.LocalRegistry)
	}
	cfg.RegistryToken = pullToken

	catalog := cloud.NewCatalog(region, regUser, regPass)
	creds := registry.Credentials{Username: regUser, Password: regPass}
	inputs, err := d.prepareComponents(ctx, selected, cfg, store, region, catalog, creds, opts.noSensitive)
	if err != nil {
		return err
	}

	exec := executor.New(d.runner, d.sink, executor.ConfirmFunc(func(prompt string) (bool, error) {
		return d.wizard.Confirm(prompt)
	}), clipboard.System(), d.logger)

	_, err = exec.Execute(ctx, plan.Build(inputs))
	return err
}

func (d *deployer) preflight(ctx context.Context, kubeconfig string) error {
	d.sink.Infof("Checking prerequisites...")
	if err := preflight.CheckBinaries(ctx, d.runner, d.logger); err != nil {
		return err
	}
	client, err := preflight.BuildKubeClient(kubeconfig)
	if err != nil {
		return err
	}
	if err := preflight.CheckCluster(ctx, client); err != nil {
		return err
	}
	d.sink.Successf("Prerequisites look good.")
	return nil
}

func (d *deployer) selectComponents(keys []string, action string) ([]component.Component, error) {
	if len(keys) == 0 {
		return d.wizard.SelectComponents(action)
	}
	selected := make([]component.Component, 0, len(keys))
	for _, key := range keys {
		c, err := component.Parse(key)
		if err != nil {
			return nil, err
		}
		selected = append(selected, c)
	}
	return selected, nil
}

// resolveConfig reuses the stored configuration when present, offering a
// re-run of the wizard, and always collects settings for components not yet
// configured.
func (d *deployer) resolveConfig(store *config.Store, selected []component.Component) (*config.DeploymentConfig, error) {
	existing, err := store.Load()
	if err != nil {
		return nil, err
	}

	reconfigure := existing == nil
	if existing != nil {
		yes, err := d.wizard.Confirm("An existing configuration was found. Re-configure?")
		if err != nil {
			return nil, err
		}
		reconfigure = yes
	}

	if !reconfigure {
		var missing []component.Component
		for _, c := range selected {
			if existing.Component(c.Key()) == nil {
				missing = append(missing, c)
			}
		}
		if len(missing) == 0 {
			return existing, nil
		}
		return d.wizard.Collect(missing, existing)
	}
	return d.wizard.Collect(selected, existing)
}

func (d *deployer) checkNetwork(ctx context.Context, region cloud.Region) error {
	d.sink.Infof("Checking network connectivity for %s...", region.Name)
	results := preflight.ProbeEndpoints(ctx, cloud.RequiredEndpoints(region.Name))
	if preflight.AllReachable(results) {
		d.sink.Successf("All required endpoints are reachable.")
		return nil
	}
	for _, r := range results {
		if !r.Reachable {
			d.sink.Warnf("  %s unreachable: %s", r.Host, r.Detail)
		}
	}
	yes, err := d.wizard.Confirm("Network connectivity issues detected. Continue anyway?")
	if err != nil {
		return err
	}
	if !yes {
		return errors.New(errors.ErrCodeConnection, "required endpoints are unreachable")
	}
	return nil
}

// setupChartRepo registers the vendor chart repository. Failure is not
// fatal: the repository may already be configured.
func (d *deployer) setupChartRepo(ctx context.Context) {
	d.sink.Infof("Setting up the Helm chart repository...")
	if err := runner.SetupRepo(ctx, d.runner); err != nil {
		d.sink.Warnf("Helm repository setup failed (it may already exist): %v", err)
	}
}

// prepareComponents resolves the target version, stages the image, and
// writes the values file for each selected component. Components already at
// their target version are skipped. The resolved tags and staged
// repositories are persisted afterwards so a rerun after a failed execution
// picks up where this one left off.
func (d *deployer) prepareComponents(
	ctx context.Context,
	selected []component.Component,
	cfg *config.DeploymentConfig,
	store *config.Store,
	region cloud.Region,
	catalog tagLister,
	creds registry.Credentials,
	omitSecret bool,
) ([]plan.Input, error) {
	stage := d.stage
	if stage == nil {
		stage = registry.Stage
	}

	var inputs []plan.Input
	for _, c := range selected {
		cc := cfg.Component(c.Key())
		if cc == nil {
			return nil, errors.New(errors.ErrCodeInternal,
				fmt.Sprintf("no configuration collected for %s", c.Key()))
		}

		installed, err := runner.ReleaseExists(ctx, d.runner, c.ReleaseName(), cc.Namespace)
		if err != nil {
			return nil, err
		}

		var installedTag string
		if installed {
			installedTag, err = runner.InstalledImageTag(ctx, d.runner, c.ReleaseName(), cc.Namespace, c.InstalledTagPath())
			if err != nil {
				return nil, err
			}
		}

		d.sink.Infof("Resolving %s version (requested: %s)...", c.DisplayName(), cc.ImageTag)
		res, err := version.Resolve(cc.ImageTag, installedTag, func() ([]string, error) {
			return catalog.ListTags(ctx, c.ImagePath(region.CloudTag))
		})
		if err != nil {
			// Catalog failures (unreachable registry, rejected credentials)
			// are fatal; only a resolution dead-end offers the manual prompt.
			if !errors.IsCode(err, errors.ErrCodeVersionResolution) {
				return nil, err
			}
			d.sink.Warnf("Automatic version resolution failed: %v", err)
			tag, askErr := d.wizard.AskTag(c)
			if askErr != nil {
				return nil, askErr
			}
			if tag == "" {
				d.sink.Warnf("No tag provided; skipping %s.", c.DisplayName())
				continue
			}
			res = &version.Resolution{Tag: tag}
		}

		if res.AlreadyCurrent {
			d.sink.Successf("%s is already at %s. Nothing to do.", c.DisplayName(), installedTag)
			continue
		}

		if installed && installedTag != "" {
			yes, err := d.wizard.Confirm(fmt.Sprintf("Upgrade %s from %s to %s?", c.DisplayName(), installedTag, res.Tag))
			if err != nil {
				return nil, err
			}
			if !yes {
				continue
			}
		}

		localImage, err := stage(ctx, d.logger, registry.StageRequest{
			SourceRegistry: region.Registry,
			SourcePath:     c.ImagePath(region.CloudTag),
			SourceCreds:    creds,
			LocalRegistry:  cfg.LocalRegistry,
			Tag:            res.Tag,
		})
		if err != nil {
			return nil, err
		}
		d.sink.Successf("Image staged at %s:%s", localImage, res.Tag)

		cc.ImageTag = res.Tag
		cc.ImageRepo = localImage

		valuesPath, err := c.WriteValuesFile(store.Dir(), c.RenderValues(cc, cfg, omitSecret))
		if err != nil {
			return nil, err
		}
		d.sink.Infof("Helm values written to %s", valuesPath)

		inputs = append(inputs, plan.Input{
			Component:  c,
			Config:     cc,
			ValuesPath: valuesPath,
			NewInstall: !installed,
		})
	}

	if err := store.Save(cfg, omitSecret); err != nil {
		return nil, err
	}
	return inputs, nil
}
