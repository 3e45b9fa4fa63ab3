package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/dmitrijs2005/depositkeeper/internal/buildinfo"
	"github.com/dmitrijs2005/depositkeeper/internal/client/cli"
	"github.com/dmitrijs2005/depositkeeper/internal/client/config"
	"github.com/dmitrijs2005/depositkeeper/internal/logging"
)

// rootEnv is what PersistentPreRunE prepares for the subcommands.
type rootEnv struct {
	cfg    *config.Config
	logger logging.Logger
	sync   func()
}

func newRootCmd() *cobra.Command {
	rt := &rootEnv{}

	root := &cobra.Command{
		Use:           "depositkeeper",
		Short:         "Document a rental walkthrough and share the report with your landlord",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return rt.load(cmd)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if rt.sync != nil {
				rt.sync()
			}
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			buildinfo.PrintBuildData(cmd.OutOrStdout())

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			app, err := cli.NewApp(ctx, rt.cfg, rt.logger)
			if err != nil {
				return err
			}
			app.Run(ctx)
			return nil
		},
	}

	// The config package reads these from os.Args itself; declaring them
	// here keeps cobra from rejecting them and documents them in --help.
	pf := root.PersistentFlags()
	pf.StringP("config", "c", "", "JSON config file")
	pf.StringP("api-url", "a", "", "backend API base URL")
	pf.StringP("env", "e", "", "environment (production|development)")
	pf.StringP("origin", "o", "", "origin for shareable report links")
	pf.StringP("db", "d", "", "local database path")
	pf.StringP("log-level", "l", "", "log level")
	pf.IntP("online-interval", "i", 0, "online check interval (in seconds)")
	pf.IntP("public-timeout", "t", 0, "public request timeout (in seconds)")

	root.AddCommand(newSharedCmd(rt), newVersionCmd())
	return root
}

// load builds the config and logger. Long-form flags are applied on top of
// what config.LoadConfig read.
func (rt *rootEnv) load(cmd *cobra.Command) error {
	if cmd.Name() == "version" {
		return nil
	}
	cfg := config.LoadConfig()

	f := cmd.Flags()
	strs := map[string]*string{
		"api-url":   &cfg.APIURL,
		"env":       &cfg.Environment,
		"origin":    &cfg.ShareOrigin,
		"db":        &cfg.DatabasePath,
		"log-level": &cfg.LogLevel,
	}
	for name, dst := range strs {
		if f.Changed(name) {
			*dst, _ = f.GetString(name)
		}
	}
	durs := map[string]*time.Duration{
		"online-interval": &cfg.OnlineCheckInterval,
		"public-timeout":  &cfg.PublicRequestTimeout,
	}
	for name, dst := range durs {
		if f.Changed(name) {
			n, _ := f.GetInt(name)
			*dst = time.Duration(n) * time.Second
		}
	}

	logger, err := logging.New(logging.Options{
		Format:      cfg.LogFormat,
		Level:       cfg.LogLevel,
		Environment: cfg.Environment,
	})
	if err != nil {
		return err
	}
	if z, ok := logger.(interface{ Sync() error }); ok {
		rt.sync = func() { _ = z.Sync() }
	}
	rt.cfg, rt.logger = cfg, logger
	return nil
}

func newSharedCmd(rt *rootEnv) *cobra.Command {
	var (
		approve bool
		notify  bool
		reject  string
	)
	cmd := &cobra.Command{
		Use:   "shared <uuid>",
		Short: "Open a report shared with you, optionally approving or rejecting it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			decision := ""
			switch {
			case approve && reject != "":
				return errors.New("--approve and --reject are exclusive")
			case approve:
				decision = "approve"
			case reject != "":
				decision = "reject"
			case notify:
				decision = "notify"
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
			defer cancel()

			app, err := cli.NewApp(ctx, rt.cfg, rt.logger)
			if err != nil {
				return err
			}
			defer app.Close()
			return app.ShowShared(ctx, args[0], decision, reject)
		},
	}
	cmd.Flags().BoolVar(&approve, "approve", false, "approve the report")
	cmd.Flags().StringVar(&reject, "reject", "", "reject the report with this reason")
	cmd.Flags().BoolVar(&notify, "notify", false, "email the landlord the share link again")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			buildinfo.PrintBuildData(cmd.OutOrStdout())
			return nil
		},
	}
}
