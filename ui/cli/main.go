// Copyright (c) 2026 Keymaster Team
// Trustdesk - trust relationship client
// This source code is licensed under the MIT license found in the LICENSE file.

// main.go sets up the root command, the shared setup that runs before every
// subcommand, and the version helpers.

package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"
	"github.com/toeirei/trustdesk/buildvars"
	"github.com/toeirei/trustdesk/internal/api"
	"github.com/toeirei/trustdesk/internal/config"
	"github.com/toeirei/trustdesk/internal/i18n"
	"github.com/toeirei/trustdesk/internal/listing"
	"github.com/toeirei/trustdesk/internal/logging"
	"github.com/toeirei/trustdesk/internal/session"
	"github.com/toeirei/trustdesk/internal/storage"
	"github.com/toeirei/trustdesk/internal/token"
	"github.com/toeirei/trustdesk/ui/tui"
)

var version = "dev"   // this will be set by the linker
var gitCommit = "dev" // set at build time with the short commit SHA
var buildDate = ""    // set at build time (RFC3339)

const modulePath = "github.com/toeirei/trustdesk"

// Command annotations read by setup.
const (
	annotationSetup = "trustdesk/setup"
	// setupConfigOnly loads config, logging and i18n but opens no storage.
	setupConfigOnly = "config-only"
	// setupTUI additionally sends log output to the log file.
	setupTUI = "tui"
)

// app is what setup builds for the commands of one root.
type app struct {
	cfgFile     string
	verbose     bool
	showVersion bool

	cfg     config.Config
	store   storage.Storage
	session *session.Store
	client  *api.Client
	nav     *tui.ProgramNavigator
	logFile io.Closer

	// runTUI is replaced in tests.
	runTUI func(ctx context.Context, d tui.Deps) error
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	optionalConfigPath, err := getConfigPathFromCli(cmd)
	if err != nil {
		return err
	}

	a.cfg, err = config.LoadConfig[config.Config](cmd, config.Defaults(), optionalConfigPath)
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	logging.SetLevel(a.cfg.Log.Level)
	if a.verbose {
		logging.SetLevel("debug")
	}
	i18n.Init(a.cfg.Language)

	mode := annotation(cmd)
	if mode == setupTUI && a.cfg.Log.File != "" {
		f, err := logging.ToFile(a.cfg.Log.File)
		if err != nil {
			logging.Warnf("could not open log file, logging is disabled: %v", err)
			logging.SetOutput(io.Discard)
		} else {
			a.logFile = f
		}
	}
	if mode == setupConfigOnly {
		return nil
	}

	ctx := cmd.Context()
	a.store, err = storage.Open(ctx, a.cfg.Storage)
	if err != nil {
		return fmt.Errorf("could not open %s storage: %w", a.cfg.Storage.Type, err)
	}
	a.client = api.NewClient(a.cfg.API.BaseURL, a.cfg.API.Timeout)
	a.nav = tui.NewProgramNavigator()
	a.session = session.New(a.store, token.Decoder, a.nav)

	if err := a.session.Restore(ctx); err != nil {
		logging.Warnf("%s", i18n.T("session.restore_failed", err))
	}
	return nil
}

func (a *app) teardown(_ *cobra.Command, _ []string) error {
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			logging.Warnf("could not close storage: %v", err)
		}
		a.store = nil
	}
	if a.logFile != nil {
		logging.SetOutput(os.Stderr)
		_ = a.logFile.Close()
		a.logFile = nil
	}
	return nil
}

func annotation(cmd *cobra.Command) string {
	if cmd.Annotations == nil {
		return ""
	}
	return cmd.Annotations[annotationSetup]
}

// newListing builds a listing store over the API client that reads its
// token from the session.
func (a *app) newListing(opts ...listing.StoreOption) *listing.Store {
	base := []listing.StoreOption{listing.WithTimeout(a.cfg.API.Timeout)}
	return listing.New(a.client, a.session, append(base, opts...)...)
}

func (a *app) runRoot(cmd *cobra.Command, _ []string) error {
	p, err := pageSize(a.cfg.Listing.PageSize)
	if err != nil {
		return err
	}
	store := a.newListing(listing.WithPagination(p))
	defer store.Close()

	ctx := listing.WithStore(session.WithStore(cmd.Context(), a.session), store)
	return a.runTUI(ctx, tui.Deps{
		Session:   a.session,
		Listing:   store,
		Auth:      a.client,
		Navigator: a.nav,
	})
}

// Execute runs the CLI entrypoint. The main package should call this
// function and handle process exit.
func Execute() error {
	a := &app{runTUI: tui.Run}
	// PersistentPostRunE is skipped when a command fails.
	defer func() { _ = a.teardown(nil, nil) }()
	return newRootCmd(a).ExecuteContext(context.Background())
}

// getConfigPathFromCli returns the --config path when the user set one. The
// file must exist.
func getConfigPathFromCli(cmd *cobra.Command) (*string, error) {
	if !cmd.Flags().Changed("config") {
		return nil, nil
	}
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("could not read --config flag: %w", err)
	}
	if path == "" {
		return nil, nil
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config file specified via --config flag not found or is not accessible: %w", err)
	}
	return &path, nil
}

// applyDefaultFlags registers the persistent flags that map onto config keys.
func applyDefaultFlags(cmd *cobra.Command) {
	f := cmd.PersistentFlags()
	f.String("api-url", "", "Base URL of the wallet API")
	f.Duration("api-timeout", 0, "Timeout for a single API request")
	f.String("storage-type", "", `Client storage ("sqlite", "postgres", "mysql", "badger", "memory")`)
	f.String("storage-dsn", "", "Client storage DSN or directory")
	f.String("lang", "", `Language ("en", "de")`)
	f.Int("page-size", 0, "Rows per page")
	f.String("log-level", "", `Log level ("debug", "info", "warn", "error")`)
	f.String("log-file", "", "Log file used while the TUI runs")
}

// NewRootCmd creates and configures a new root cobra command. Every call
// returns an independent tree, which keeps tests isolated.
func NewRootCmd() *cobra.Command {
	a := &app{runTUI: tui.Run}
	return newRootCmd(a)
}

func newRootCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trustdesk",
		Short: "Trustdesk is a terminal client for wallet trust relationships.",
		Long: `Trustdesk logs in to a wallet service and lists the trust
relationships of the wallet, with paging and filters by state and type.

Running without a subcommand will launch the interactive TUI.`,
		Annotations:        map[string]string{annotationSetup: setupTUI},
		SilenceUsage:       true,
		PersistentPreRunE:  a.setup,
		PersistentPostRunE: a.teardown,
		RunE:               a.runRoot,
	}

	cmd.Version = compositeVersion(resolveBuildVersion(nil))
	cmd.SetVersionTemplate("{{.Version}}\n")

	cmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging")
	cmd.PersistentFlags().BoolVarP(&a.showVersion, "version", "V", false, "Print version and exit")
	cmd.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file")
	applyDefaultFlags(cmd)

	cmd.AddCommand(
		newLoginCmd(a),
		newLogoutCmd(a),
		newWhoamiCmd(a),
		newRelationshipsCmd(a),
		newMockServerCmd(a),
		newConfigCmd(a),
		newVersionCmd(),
	)
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "version",
		Short:       "Print version",
		Annotations: map[string]string{annotationSetup: setupConfigOnly},
		Run: func(cmd *cobra.Command, args []string) {
			v, c, d := resolveBuildVersion(nil)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "version: %s\n", v)
			fmt.Fprintf(out, "commit: %s\n", c)
			if d != "" {
				fmt.Fprintf(out, "built: %s\n", d)
			}
		},
	}
}

func compositeVersion(v, c, d string) string {
	out := v
	if c != "" && c != "dev" {
		out += " (" + c + ")"
	}
	if d != "" {
		out += " built: " + d
	}
	return out
}

// resolveBuildVersion computes the best-available version, commit and build
// date for the running binary. If `info` is nil, it reads build info from
// the runtime.
func resolveBuildVersion(info *debug.BuildInfo) (versionOut, commitOut, dateOut string) {
	resolvedVersion := buildvars.VersionOrDefault(version)
	resolvedCommit := gitCommit
	resolvedDate := buildDate

	if info == nil {
		if local, found := debug.ReadBuildInfo(); found {
			info = local
		}
	}

	if info != nil {
		if info.Main.Version != "" && info.Main.Version != "(devel)" {
			resolvedVersion = info.Main.Version
		}
		// Some build paths leave Main empty; look for this module among
		// the dependencies instead.
		if resolvedVersion == "dev" || resolvedVersion == "(devel)" {
			for _, dep := range info.Deps {
				if dep.Path == modulePath && dep.Version != "" {
					resolvedVersion = dep.Version
					break
				}
			}
		}

		for _, s := range info.Settings {
			switch s.Key {
			case "vcs.revision":
				if s.Value != "" {
					resolvedCommit = s.Value
				}
			case "vcs.time":
				if s.Value != "" {
					resolvedDate = s.Value
				}
			}
		}
	}

	if resolvedVersion == "dev" && gitCommit != "dev" && gitCommit != "" {
		resolvedVersion = gitCommit
	}

	return resolvedVersion, resolvedCommit, resolvedDate
}
