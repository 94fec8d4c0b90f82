// Package cli wires configuration, logging and the service clients into the
// cardform commands.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/fang"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/idilsaglam/cardform/internal/cardapi"
	"github.com/idilsaglam/cardform/internal/config"
	"github.com/idilsaglam/cardform/internal/logging"
	"github.com/idilsaglam/cardform/internal/trello"
	"github.com/idilsaglam/cardform/internal/ui"
)

// Version is set at build time.
var Version = "dev"

// Exit codes returned by Run.
const (
	ExitOK    = 0
	ExitError = 1
	ExitUsage = 2
)

// usageError marks bad invocations.
type usageError struct{ err error }

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

// errReported is returned after a command already printed its failure.
var errReported = errors.New("reported")

type app struct {
	stdout     io.Writer
	stderr     io.Writer
	lookup     config.LookupFunc
	dotenvPath string
	runTUI     func(ctx context.Context, m tea.Model) error

	configPath string
	logLevel   string
	themeName  string

	cfg     config.Config
	sources config.CredentialSources
	log     *logging.Logger
	out     *ui.Printer
}

// Run executes the command line and returns the process exit code: 0 on success,
// 1 on failure and 2 on a usage error.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	a := &app{
		stdout:     stdout,
		stderr:     stderr,
		lookup:     os.LookupEnv,
		dotenvPath: ".env",
		runTUI:     runProgram,
	}
	return a.run(ctx, args)
}

func (a *app) run(ctx context.Context, args []string) int {
	root := a.rootCmd()
	root.SetArgs(args)
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)
	defer func() {
		if a.log != nil {
			_ = a.log.Close()
		}
	}()

	err := fang.Execute(ctx, root,
		fang.WithVersion(Version),
		fang.WithErrorHandler(func(w io.Writer, styles fang.Styles, err error) {
			if errors.Is(err, errReported) {
				return
			}
			fang.DefaultErrorHandler(w, styles, err)
		}),
	)
	return exitCode(err)
}

func exitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var ue usageError
	if errors.As(err, &ue) {
		return ExitUsage
	}
	msg := err.Error()
	if strings.HasPrefix(msg, "unknown command") || strings.HasPrefix(msg, "unknown flag") || strings.HasPrefix(msg, "unknown shorthand flag") {
		return ExitUsage
	}
	return ExitError
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   config.AppName,
		Short: "Create Trello cards from the terminal",
		Long: "cardform opens a form for a new Trello card: pick the board, list and label,\n" +
			"attach files and submit it to the card service.",
		Args:              noArgs,
		PersistentPreRunE: a.setup,
		RunE:              a.runForm,
	}
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error { return usageError{err} })

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "path to config TOML (env CARDFORM_CONFIG)")
	pf.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn or error")
	pf.StringVar(&a.themeName, "theme", "classic", "output theme: "+strings.Join(ui.ThemeNames, ", "))

	root.AddCommand(
		a.boardsCmd(),
		a.listsCmd(),
		a.labelsCmd(),
		a.submitCmd(),
		a.configCmd(),
	)
	return root
}

// setup resolves the configuration and logger shared by every command.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	theme, err := ui.ThemeByName(a.themeName)
	if err != nil {
		return usageError{err}
	}
	a.out = ui.NewPrinter(a.stdout, a.stderr, theme)

	if a.configPath == "" {
		if env, ok := a.env("CARDFORM_CONFIG"); ok {
			a.configPath = env
		} else if a.configPath, err = config.DefaultPath(); err != nil {
			return err
		}
	}

	cfg, err := config.Load(a.configPath, config.Default())
	if err != nil {
		return usageError{fmt.Errorf("config %s: %w", a.configPath, err)}
	}
	cfg, a.sources, err = config.ApplyEnv(cfg, a.lookup, a.dotenvPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Logging.Level = a.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return usageError{fmt.Errorf("config %s: %w", a.configPath, err)}
	}
	a.cfg = cfg

	a.log, err = logging.New(a.stderr, logging.Options{
		Level:  cfg.Logging.Level,
		File:   cfg.Logging.File,
		Prefix: config.AppName,
	})
	if err != nil {
		return err
	}
	a.log.Debug("config loaded", "path", a.configPath, "command", cmd.Name(),
		"api_key_source", a.sources.APIKey, "api_token_source", a.sources.APIToken)
	return nil
}

func (a *app) env(name string) (string, bool) {
	if a.lookup == nil {
		return "", false
	}
	v, ok := a.lookup(name)
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}

func (a *app) trelloClient() *trello.Client {
	return trello.New(a.cfg.Trello, a.cfg.Backend.Timeout.Duration)
}

func (a *app) cardClient() *cardapi.Client {
	return cardapi.New(a.cfg.Backend.Endpoint, a.cfg.Backend.Timeout.Duration)
}

func (a *app) requireCredentials() error {
	if a.cfg.HasCredentials() {
		return nil
	}
	return errors.New("missing Trello credentials: set TRELLO_API_KEY and TRELLO_API_TOKEN or [trello] api_key/api_token in " + a.configPath)
}

func noArgs(cmd *cobra.Command, args []string) error {
	if err := cobra.NoArgs(cmd, args); err != nil {
		return usageError{err}
	}
	return nil
}

func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			return usageError{err}
		}
		return nil
	}
}
