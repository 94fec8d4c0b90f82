package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/idilsaglam/cardform/internal/cardapi"
	"github.com/idilsaglam/cardform/internal/config"
	"github.com/idilsaglam/cardform/internal/form"
	"github.com/idilsaglam/cardform/internal/model"
	"github.com/idilsaglam/cardform/internal/store/cardfile"
	"github.com/idilsaglam/cardform/internal/tui"
)

func runProgram(ctx context.Context, m tea.Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}

func (a *app) runForm(cmd *cobra.Command, _ []string) error {
	if !a.cfg.HasCredentials() {
		a.log.Warn("Trello credentials are not set; boards will fail to load", "config", a.configPath)
	}
	ctx := cmd.Context()
	ctrl := form.New(ctx, a.trelloClient(), a.cardClient(), a.log)
	m := tui.NewModel(ctrl, tui.Options{AllowedTypes: a.cfg.Attachments.AllowedTypes})

	a.log.Info("starting form", "backend", a.cfg.Backend.Endpoint, "log_file", a.log.FilePath())
	a.log.SetConsoleEnabled(false)
	err := a.runTUI(ctx, m)
	a.log.SetConsoleEnabled(true)
	if err != nil {
		return fmt.Errorf("run form: %w", err)
	}
	return nil
}

func (a *app) boardsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "boards",
		Short: "List the boards the credentials can see",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.requireCredentials(); err != nil {
				return err
			}
			boards, err := a.trelloClient().Boards(cmd.Context())
			if err != nil {
				a.log.Error("fetch boards failed", "err", err)
				return errors.New(form.MsgBoardsError)
			}
			a.printOptions("Boards", model.OptionsOf(boards))
			return nil
		},
	}
}

func (a *app) listsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lists <board-id>",
		Short: "List the lists of a board",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireCredentials(); err != nil {
				return err
			}
			lists, err := a.trelloClient().Lists(cmd.Context(), args[0])
			if err != nil {
				a.log.Error("fetch lists failed", "board_id", args[0], "err", err)
				return errors.New(form.MsgListsError)
			}
			a.printOptions("Lists", model.OptionsOf(lists))
			return nil
		},
	}
}

func (a *app) labelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "labels <board-id>",
		Short: "List the labels of a board",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireCredentials(); err != nil {
				return err
			}
			labels, err := a.trelloClient().Labels(cmd.Context(), args[0])
			if err != nil {
				a.log.Error("fetch labels failed", "board_id", args[0], "err", err)
				return errors.New(form.MsgLabelsError)
			}
			a.printOptions("Labels", model.OptionsOf(labels))
			return nil
		},
	}
}

func (a *app) submitCmd() *cobra.Command {
	var (
		file    string
		attachs []string
	)
	cmd := &cobra.Command{
		Use:   "submit --file card.yaml [--attach path]...",
		Short: "Create a card from a YAML or JSON file",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(file) == "" {
				return usageError{errors.New("--file is required")}
			}
			card, files, err := cardfile.Load(file)
			if err != nil {
				return err
			}
			for _, p := range attachs {
				files = append(files, model.NewAttachment(p))
			}
			f := card.CardForm

			if err := f.Validate(); err != nil {
				var joined interface{ Unwrap() []error }
				if errors.As(err, &joined) {
					for _, e := range joined.Unwrap() {
						a.out.Fail(e.Error())
					}
				} else {
					a.out.Fail(err.Error())
				}
				return errReported
			}

			if f.ListID == "" && a.cfg.HasCredentials() {
				lists, err := a.trelloClient().Lists(cmd.Context(), f.BoardID)
				if err != nil {
					a.log.Warn("fetch lists for default failed", "board_id", f.BoardID, "err", err)
				} else if len(lists) > 0 {
					f.ListID = lists[0].ID
					a.log.Debug("defaulted list", "board_id", f.BoardID, "list_id", f.ListID)
				}
			}

			a.log.Info("submitting card", "board_id", f.BoardID, "list_id", f.ListID, "attachments", len(files))
			reqID, err := a.cardClient().CreateCardWithID(cmd.Context(), f, files)
			if err != nil {
				a.log.Error("create card failed", "request_id", reqID, "err", err)
				msg := form.MsgSubmitError
				if serverMsg, ok := cardapi.ServerMessage(err); ok {
					msg = serverMsg
				}
				a.out.Fail(msg)
				return errReported
			}
			a.out.OK(form.MsgSubmitSuccess)
			a.log.Debug("card created", "request_id", reqID)
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "card file (.yaml, .yml or .json)")
	cmd.Flags().StringArrayVarP(&attachs, "attach", "a", nil, "file to attach (repeatable)")
	return cmd
}

func (a *app) configCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show the resolved configuration",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			t := a.out.Theme()
			muted := func(s string) string { return a.out.Style(t.Muted, s) }
			types := strings.Join(a.cfg.Attachments.AllowedTypes, " ")
			if types == "" {
				types = "any"
			}
			logFile := a.cfg.Logging.File
			if logFile == "" {
				logFile = "-"
			}
			lines := []string{
				"path            " + a.configPath,
				"trello.base_url " + a.cfg.Trello.BaseURL,
				"trello.api_key  " + t.SymSecret + " " + config.Redact(a.cfg.Trello.APIKey) + " " + muted(sourceLabel(a.sources.APIKey)),
				"trello.token    " + t.SymSecret + " " + config.Redact(a.cfg.Trello.APIToken) + " " + muted(sourceLabel(a.sources.APIToken)),
				"backend         " + a.cfg.Backend.Endpoint,
				"timeout         " + a.cfg.Backend.Timeout.String(),
				"attachments     " + types,
				"log level       " + a.cfg.Logging.Level,
				"log file        " + logFile,
			}
			a.out.Panel("Config", lines)
			return nil
		},
	}
}

func sourceLabel(src string) string {
	if src == config.SourceMissing {
		return "(missing)"
	}
	return "(" + src + ")"
}

func (a *app) printOptions(title string, opts []model.Option) {
	t := a.out.Theme()
	if len(opts) == 0 {
		a.out.Panel(title, []string{a.out.Style(t.Muted, "(none)")})
		return
	}
	width := 0
	for _, o := range opts {
		if len(o.Value) > width {
			width = len(o.Value)
		}
	}
	lines := make([]string, 0, len(opts))
	for _, o := range opts {
		id := fmt.Sprintf("%-*s", width, o.Value)
		lines = append(lines, t.SymItem+" "+a.out.Style(t.Muted, id)+"  "+a.out.Style(t.Accent, o.Label))
	}
	a.out.Panel(fmt.Sprintf("%s (%d)", title, len(opts)), lines)
}
