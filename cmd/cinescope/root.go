package main

import (
	"bufio"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/cinescope/internal/config"
	"github.com/mmcdole/cinescope/internal/tui"
	"github.com/spf13/cobra"
)

// globalOptions are the persistent flags shared by all commands
type globalOptions struct {
	configFile string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:   "cinescope",
		Short: "Browse movies, keep a watchlist and post reviews from the terminal",
		Long: `cinescope is a terminal client for discovering movies.

Run without arguments to open the interactive browser. Subcommands give
scriptable access to your session, watchlist and reviews.

Quick Start:
  cinescope                          # Open the browser
  cinescope login alice              # Log in
  cinescope movies search inception  # Search the catalog
  cinescope watchlist list           # Show your watchlist
  cinescope watchlist export -f yaml # Export it`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, opts)
		},
	}

	root.PersistentFlags().StringVarP(&opts.configFile, "config", "c", "", "Config file (default ~/.config/cinescope/config.yaml)")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")
	root.SetVersionTemplate(`{{printf "cinescope %s\n" .Version}}`)

	root.AddCommand(
		newLoginCmd(opts),
		newLogoutCmd(opts),
		newRegisterCmd(opts),
		newWhoamiCmd(opts),
		newMoviesCmd(opts),
		newWatchlistCmd(opts),
		newReviewsCmd(opts),
		newLanguageCmd(opts),
	)
	return root
}

// withApp builds the app for a command and closes it afterwards
func withApp(opts *globalOptions, fn func(a *app) error) error {
	a, err := newApp(opts)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(a)
}

func runTUI(cmd *cobra.Command, opts *globalOptions) error {
	return withApp(opts, func(a *app) error {
		if !a.cfg.IsConfigured() {
			return runSetupFlow(cmd.InOrStdin(), cmd.OutOrStdout(), a.cfg, opts.configFile)
		}

		observer := tui.NewChannelObserver(4)
		a.session.Subscribe(observer)

		model := tui.NewModel(tui.Options{
			Catalog:    a.catalog,
			Reviews:    a.reviews,
			Session:    a.session,
			Watchlist:  a.watchlist,
			Observer:   observer,
			DefaultTab: a.cfg.UI.DefaultTab,
			Timeout:    a.cfg.Catalog.Timeout,
			Logger:     a.logger,
		})

		p := tea.NewProgram(model, tea.WithAltScreen())

		a.logger.Info("starting TUI")
		if _, err := p.Run(); err != nil {
			a.logger.Error("TUI error", "error", err)
			return fmt.Errorf("TUI error: %w", err)
		}
		a.logger.Info("shutting down")
		return nil
	})
}

// runSetupFlow asks for the catalog API key and saves it
func runSetupFlow(in io.Reader, out io.Writer, cfg *config.Config, configFile string) error {
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Welcome to cinescope!")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "A catalog API key is required (https://www.themoviedb.org/settings/api).")

	reader := bufio.NewReader(in)
	var key string
	for key == "" {
		fmt.Fprint(out, "API key: ")
		line, err := reader.ReadString('\n')
		key = strings.TrimSpace(line)
		if err != nil && key == "" {
			return fmt.Errorf("failed to read input: %w", err)
		}
		if key == "" {
			fmt.Fprintln(out, "API key cannot be empty. Please try again.")
		}
	}
	cfg.Catalog.APIKey = key

	dir := ""
	if configFile != "" {
		dir = filepath.Dir(configFile)
	}
	if err := config.SaveConfig(cfg, dir); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "✓ Configuration saved!")
	fmt.Fprintln(out, "Run cinescope again to start browsing.")
	return nil
}
