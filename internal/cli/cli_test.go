package cli

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/cardform/internal/form"
	"github.com/idilsaglam/cardform/internal/model"
	"github.com/idilsaglam/cardform/internal/testutil"
	"github.com/idilsaglam/cardform/internal/tui"
)

type fixture struct {
	trello  *testutil.FakeTrello
	backend *testutil.FakeBackend
	dir     string
	config  string
	env     map[string]string
	stdout  bytes.Buffer
	stderr  bytes.Buffer
	ran     tea.Model
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		trello:  testutil.NewFakeTrello(t),
		backend: testutil.NewFakeBackend(t),
		dir:     t.TempDir(),
		env:     map[string]string{},
	}
	f.trello.AddBoard(model.Board{ID: "b1", Name: "Engineering"},
		[]model.List{{ID: "l1", Name: "Backlog"}, {ID: "l2", Name: "Doing"}},
		[]model.Label{{ID: "g1", Name: "Bug"}},
	)
	f.config = filepath.Join(f.dir, "config.toml")
	f.writeConfig(t, testutil.APIKey, testutil.APIToken)
	return f
}

func (f *fixture) writeConfig(t *testing.T, key, token string) {
	t.Helper()
	content := fmt.Sprintf(`
[trello]
base_url = %q
api_key = %q
api_token = %q

[backend]
endpoint = %q
timeout = "5s"

[logging]
level = "error"
`, f.trello.URL(), key, token, f.backend.Endpoint())
	if err := os.WriteFile(f.config, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
}

func (f *fixture) run(args ...string) int {
	f.stdout.Reset()
	f.stderr.Reset()
	a := &app{
		stdout: &f.stdout,
		stderr: &f.stderr,
		lookup: func(name string) (string, bool) {
			v, ok := f.env[name]
			return v, ok
		},
		runTUI: func(_ context.Context, m tea.Model) error {
			f.ran = m
			return nil
		},
	}
	return a.run(context.Background(), append([]string{"--config", f.config, "--theme", "mono"}, args...))
}

func TestBoardsListsLabels(t *testing.T) {
	f := newFixture(t)

	if code := f.run("boards"); code != ExitOK {
		t.Fatalf("boards exit = %d, stderr=%s", code, f.stderr.String())
	}
	if out := f.stdout.String(); !strings.Contains(out, "Boards (1)") || !strings.Contains(out, "- b1  Engineering") {
		t.Fatalf("unexpected boards output:\n%s", out)
	}

	if code := f.run("lists", "b1"); code != ExitOK {
		t.Fatalf("lists exit = %d, stderr=%s", code, f.stderr.String())
	}
	if out := f.stdout.String(); !strings.Contains(out, "l1  Backlog") || !strings.Contains(out, "l2  Doing") {
		t.Fatalf("unexpected lists output:\n%s", out)
	}

	if code := f.run("labels", "b1"); code != ExitOK {
		t.Fatalf("labels exit = %d, stderr=%s", code, f.stderr.String())
	}
	if !strings.Contains(f.stdout.String(), "g1  Bug") {
		t.Fatalf("unexpected labels output:\n%s", f.stdout.String())
	}
}

func TestFetchFailureUsesBannerText(t *testing.T) {
	f := newFixture(t)
	f.trello.BoardsStatus = http.StatusInternalServerError

	if code := f.run("boards"); code != ExitError {
		t.Fatalf("expected exit %d, got %d", ExitError, code)
	}
	if !strings.Contains(f.stderr.String(), form.MsgBoardsError) {
		t.Fatalf("expected banner text on stderr, got %q", f.stderr.String())
	}
}

func TestEnvCredentialsOverrideConfig(t *testing.T) {
	f := newFixture(t)
	f.writeConfig(t, "stale-key", "stale-token")
	if code := f.run("boards"); code != ExitError {
		t.Fatalf("stale credentials should fail, got %d", code)
	}

	f.env["TRELLO_API_KEY"] = testutil.APIKey
	f.env["VITE_TRELLO_API_TOKEN"] = testutil.APIToken
	if code := f.run("boards"); code != ExitOK {
		t.Fatalf("env credentials should win, got %d stderr=%s", code, f.stderr.String())
	}
}

func TestMissingCredentials(t *testing.T) {
	f := newFixture(t)
	f.writeConfig(t, "", "")
	if code := f.run("boards"); code != ExitError {
		t.Fatalf("expected exit %d, got %d", ExitError, code)
	}
	if !strings.Contains(f.stderr.String(), "TRELLO_API_KEY") {
		t.Fatalf("expected credentials hint, got %q", f.stderr.String())
	}
}

func TestUsageErrors(t *testing.T) {
	f := newFixture(t)
	cases := [][]string{
		{"lists"},
		{"labels", "b1", "b2"},
		{"nope"},
		{"boards", "--bogus"},
		{"submit"},
		{"--theme", "sepia", "config"},
	}
	for _, args := range cases {
		if code := f.run(args...); code != ExitUsage {
			t.Fatalf("%v: expected exit %d, got %d (stderr=%s)", args, ExitUsage, code, f.stderr.String())
		}
	}
}

func TestInvalidConfigIsUsageError(t *testing.T) {
	f := newFixture(t)
	if err := os.WriteFile(f.config, []byte("[backend]\nendpoint = \"ftp://x\"\n"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if code := f.run("config"); code != ExitUsage {
		t.Fatalf("expected exit %d, got %d", ExitUsage, code)
	}
}

func writeCard(t *testing.T, dir, content string) string {
	t.Helper()
	p := filepath.Join(dir, "card.yaml")
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return p
}

func TestSubmitDefaultsListAndAttaches(t *testing.T) {
	f := newFixture(t)
	shot := filepath.Join(f.dir, "screenshot.png")
	if err := os.WriteFile(shot, []byte("png"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	notes := filepath.Join(f.dir, "notes.pdf")
	if err := os.WriteFile(notes, []byte("pdf"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	card := writeCard(t, f.dir, `
userEmail: dev@example.com
cardName: Fix login bug
cardDescription: Users cannot log in with SSO
boardId: b1
labelId: g1
attachments: [screenshot.png]
`)

	if code := f.run("submit", "--file", card, "--attach", notes); code != ExitOK {
		t.Fatalf("submit exit = %d, stderr=%s", code, f.stderr.String())
	}
	if !strings.Contains(f.stdout.String(), form.MsgSubmitSuccess) {
		t.Fatalf("expected success line, got %q", f.stdout.String())
	}

	cards := f.backend.Cards()
	if len(cards) != 1 {
		t.Fatalf("expected one card, got %d", len(cards))
	}
	if got := cards[0].Fields["listId"]; len(got) != 1 || got[0] != "l1" {
		t.Fatalf("expected first list as default, got %v", got)
	}
	if len(cards[0].Files) != 2 || cards[0].Files[0].Filename != "screenshot.png" || cards[0].Files[1].Filename != "notes.pdf" {
		t.Fatalf("unexpected files %+v", cards[0].Files)
	}
	if cards[0].RequestID == "" {
		t.Fatal("expected request id header")
	}
}

func TestSubmitValidationFailure(t *testing.T) {
	f := newFixture(t)
	card := writeCard(t, f.dir, "cardName: only a title\n")

	if code := f.run("submit", "-f", card); code != ExitError {
		t.Fatalf("expected exit %d, got %d", ExitError, code)
	}
	for _, want := range []string{"Card Description is required", "Board is required", "Label is required"} {
		if !strings.Contains(f.stderr.String(), want) {
			t.Fatalf("missing %q in %q", want, f.stderr.String())
		}
	}
	if len(f.backend.Cards()) != 0 {
		t.Fatal("invalid card must not be sent")
	}
}

func TestSubmitServerMessage(t *testing.T) {
	f := newFixture(t)
	f.backend.Respond(http.StatusBadRequest, `{"error":{"message":"Invalid label"}}`)
	card := writeCard(t, f.dir, "cardName: t\ncardDescription: d\nboardId: b1\nlistId: l2\nlabelId: g1\n")

	if code := f.run("submit", "--file", card); code != ExitError {
		t.Fatalf("expected exit %d, got %d", ExitError, code)
	}
	if !strings.Contains(f.stderr.String(), "Invalid label") {
		t.Fatalf("expected server message, got %q", f.stderr.String())
	}
}

func TestConfigRedactsSecrets(t *testing.T) {
	f := newFixture(t)
	f.writeConfig(t, "abcdefgh1234", "tok-secret-9876")
	if code := f.run("config"); code != ExitOK {
		t.Fatalf("config exit = %d, stderr=%s", code, f.stderr.String())
	}
	out := f.stdout.String()
	if strings.Contains(out, "abcdefgh1234") || strings.Contains(out, "tok-secret-9876") {
		t.Fatalf("secrets leaked:\n%s", out)
	}
	for _, want := range []string{"* ********1234", "(file)", f.backend.Endpoint(), "5s"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
}

func TestRootLaunchesForm(t *testing.T) {
	f := newFixture(t)
	if code := f.run(); code != ExitOK {
		t.Fatalf("root exit = %d, stderr=%s", code, f.stderr.String())
	}
	if _, ok := f.ran.(tui.Model); !ok {
		t.Fatalf("expected the form model to run, got %T", f.ran)
	}
}
