// Package form owns the state of the card form: field values, attachments, the
// reference options offered by the selectors and the submit status.
//
// All methods must be called from the Bubble Tea update loop. Network work is
// returned as tea.Cmd values and its results come back through Update.
package form

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/cardform/internal/cardapi"
	"github.com/idilsaglam/cardform/internal/model"
)

// Banner texts.
const (
	MsgBoardsError   = "There was an error fetching boards."
	MsgListsError    = "There was an error fetching lists."
	MsgLabelsError   = "There was an error fetching labels."
	MsgSubmitError   = "There was an error creating the card."
	MsgSubmitSuccess = "Card created successfully!"
)

// ReferenceSource reads the selectable boards, lists and labels.
type ReferenceSource interface {
	Boards(ctx context.Context) ([]model.Board, error)
	Lists(ctx context.Context, boardID string) ([]model.List, error)
	Labels(ctx context.Context, boardID string) ([]model.Label, error)
}

// Submitter creates the card.
type Submitter interface {
	CreateCard(ctx context.Context, form model.CardForm, files []model.Attachment) error
}

// Logger is satisfied by *logging.Logger and *log.Logger.
type Logger interface {
	Debug(msg string, keyvals ...any)
	Info(msg string, keyvals ...any)
	Error(msg string, keyvals ...any)
}

// BoardsLoadedMsg carries the result of the boards fetch.
type BoardsLoadedMsg struct {
	Boards []model.Board
	Err    error
}

// ListsLoadedMsg carries the lists fetched for one board selection.
type ListsLoadedMsg struct {
	BoardID string
	Gen     uint64
	Lists   []model.List
	Err     error
}

// LabelsLoadedMsg carries the labels fetched for one board selection.
type LabelsLoadedMsg struct {
	BoardID string
	Gen     uint64
	Labels  []model.Label
	Err     error
}

// SubmittedMsg carries the outcome of a submission.
type SubmittedMsg struct {
	Err error
}

// Controller holds the form state.
type Controller struct {
	ctx  context.Context
	refs ReferenceSource
	sub  Submitter
	log  Logger

	form        model.CardForm
	attachments []model.Attachment
	boards      []model.Option
	lists       []model.Option
	labels      []model.Option
	status      model.Status

	// gen identifies the current board selection; results of older selections
	// are dropped.
	gen         uint64
	cancelBoard context.CancelFunc
}

// New builds a controller. ctx bounds every request it issues.
func New(ctx context.Context, refs ReferenceSource, sub Submitter, log Logger) *Controller {
	if ctx == nil {
		ctx = context.Background()
	}
	if log == nil {
		log = nopLogger{}
	}
	return &Controller{ctx: ctx, refs: refs, sub: sub, log: log}
}

func (c *Controller) Form() model.CardForm { return c.form }
func (c *Controller) Status() model.Status { return c.status }
func (c *Controller) Boards() []model.Option { return c.boards }
func (c *Controller) Lists() []model.Option  { return c.lists }
func (c *Controller) Labels() []model.Option { return c.labels }

// Attachments returns a copy of the attachment list.
func (c *Controller) Attachments() []model.Attachment {
	return append([]model.Attachment(nil), c.attachments...)
}

// Banner returns the message to show above the form and whether it reports an
// error. The notification wins over the error text.
func (c *Controller) Banner() (string, bool) {
	isErr := c.status.Err != ""
	if c.status.Notification != "" {
		return c.status.Notification, isErr
	}
	return c.status.Err, isErr
}

// Init fetches the boards.
func (c *Controller) Init() tea.Cmd {
	ctx, refs := c.ctx, c.refs
	return func() tea.Msg {
		boards, err := refs.Boards(ctx)
		return BoardsLoadedMsg{Boards: boards, Err: err}
	}
}

// SelectBoard switches the board, clears the list and label and fetches both for
// the new board concurrently.
func (c *Controller) SelectBoard(boardID string) tea.Cmd {
	if c.cancelBoard != nil {
		c.cancelBoard()
		c.cancelBoard = nil
	}
	c.gen++
	c.form.BoardID = boardID
	c.form.ListID = ""
	c.form.LabelID = ""
	c.lists = nil
	c.labels = nil
	if c.status.Err == MsgListsError || c.status.Err == MsgLabelsError {
		c.status.Err = ""
	}
	if boardID == "" {
		return nil
	}

	ctx, cancel := context.WithCancel(c.ctx)
	c.cancelBoard = cancel
	gen, refs := c.gen, c.refs
	c.log.Debug("board selected", "board_id", boardID, "gen", gen)

	fetchLists := func() tea.Msg {
		lists, err := refs.Lists(ctx, boardID)
		return ListsLoadedMsg{BoardID: boardID, Gen: gen, Lists: lists, Err: err}
	}
	fetchLabels := func() tea.Msg {
		labels, err := refs.Labels(ctx, boardID)
		return LabelsLoadedMsg{BoardID: boardID, Gen: gen, Labels: labels, Err: err}
	}
	return tea.Batch(fetchLists, fetchLabels)
}

func (c *Controller) SelectList(listID string)   { c.form.ListID = listID }
func (c *Controller) SelectLabel(labelID string) { c.form.LabelID = labelID }

// EditField sets one field. Selector fields go through their select operation, so
// editing the board returns the fetch command.
func (c *Controller) EditField(f model.Field, value string) tea.Cmd {
	switch f {
	case model.FieldBoardID:
		return c.SelectBoard(value)
	case model.FieldListID:
		c.SelectList(value)
	case model.FieldLabelID:
		c.SelectLabel(value)
	default:
		c.form.Set(f, value)
	}
	return nil
}

// AddAttachments appends files in the given order.
func (c *Controller) AddAttachments(files ...model.Attachment) {
	c.attachments = append(c.attachments, files...)
}

// Submit sends the form and attachments. It returns nil while a submission is in
// flight or when a required field is empty.
func (c *Controller) Submit() tea.Cmd {
	if c.status.Loading {
		return nil
	}
	if err := c.form.Validate(); err != nil {
		c.status.Err = joinLines(err)
		c.status.Notification = ""
		return nil
	}

	c.status.Loading = true
	c.status.Err = ""
	c.status.Notification = ""

	ctx, sub := c.ctx, c.sub
	form := c.form
	files := c.Attachments()
	c.log.Info("submitting card", "board_id", form.BoardID, "list_id", form.ListID, "attachments", len(files))
	return func() tea.Msg {
		return SubmittedMsg{Err: sub.CreateCard(ctx, form, files)}
	}
}

// DismissDialog hides the confirmation dialog.
func (c *Controller) DismissDialog() { c.status.ModalVisible = false }

// Update applies a result message. It reports whether msg was one of the
// controller's messages.
func (c *Controller) Update(msg tea.Msg) bool {
	switch msg := msg.(type) {
	case BoardsLoadedMsg:
		if msg.Err != nil {
			c.log.Error("fetch boards failed", "err", msg.Err)
			c.fail(MsgBoardsError)
			return true
		}
		c.boards = model.OptionsOf(msg.Boards)
		c.log.Debug("boards loaded", "count", len(c.boards))
		return true

	case ListsLoadedMsg:
		if !c.current(msg.BoardID, msg.Gen) {
			c.log.Debug("stale lists dropped", "board_id", msg.BoardID, "gen", msg.Gen)
			return true
		}
		if msg.Err != nil {
			c.log.Error("fetch lists failed", "board_id", msg.BoardID, "err", msg.Err)
			c.fail(MsgListsError)
			return true
		}
		c.lists = model.OptionsOf(msg.Lists)
		if len(c.lists) > 0 && c.form.ListID == "" {
			c.form.ListID = c.lists[0].Value
		}
		return true

	case LabelsLoadedMsg:
		if !c.current(msg.BoardID, msg.Gen) {
			c.log.Debug("stale labels dropped", "board_id", msg.BoardID, "gen", msg.Gen)
			return true
		}
		if msg.Err != nil {
			c.log.Error("fetch labels failed", "board_id", msg.BoardID, "err", msg.Err)
			c.fail(MsgLabelsError)
			return true
		}
		c.labels = model.OptionsOf(msg.Labels)
		return true

	case SubmittedMsg:
		c.status.Loading = false
		if msg.Err != nil {
			c.log.Error("create card failed", "err", msg.Err)
			c.status.Err = MsgSubmitError
			c.status.Notification = MsgSubmitError
			if serverMsg, ok := cardapi.ServerMessage(msg.Err); ok {
				c.status.Notification = serverMsg
			}
			return true
		}
		c.log.Info("card created")
		c.status.ModalVisible = true
		c.reset()
		c.status.Notification = MsgSubmitSuccess
		return true
	}
	return false
}

// fail shows a fetch error, replacing any earlier notification.
func (c *Controller) fail(msg string) {
	c.status.Err = msg
	c.status.Notification = ""
}

func (c *Controller) current(boardID string, gen uint64) bool {
	return gen == c.gen && boardID == c.form.BoardID
}

func (c *Controller) reset() {
	if c.cancelBoard != nil {
		c.cancelBoard()
		c.cancelBoard = nil
	}
	c.gen++
	c.form.Reset()
	c.attachments = nil
	c.lists = nil
	c.labels = nil
}

func joinLines(err error) string {
	var joined interface{ Unwrap() []error }
	if errors.As(err, &joined) {
		msg := ""
		for i, e := range joined.Unwrap() {
			if i > 0 {
				msg += "; "
			}
			msg += e.Error()
		}
		return msg
	}
	return err.Error()
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}
