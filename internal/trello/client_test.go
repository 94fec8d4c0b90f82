package trello

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/idilsaglam/cardform/internal/config"
	"github.com/idilsaglam/cardform/internal/model"
	"github.com/idilsaglam/cardform/internal/testutil"
)

func newClient(t *testing.T, fake *testutil.FakeTrello) *Client {
	t.Helper()
	return New(config.TrelloConfig{
		BaseURL:  fake.URL() + "/",
		APIKey:   testutil.APIKey,
		APIToken: testutil.APIToken,
	}, 2*time.Second)
}

func TestReferenceEndpoints(t *testing.T) {
	fake := testutil.NewFakeTrello(t)
	fake.AddBoard(model.Board{ID: "b1", Name: "Engineering"},
		[]model.List{{ID: "l1", Name: "Backlog"}, {ID: "l2", Name: "Doing"}},
		[]model.Label{{ID: "g1", Name: "Bug"}},
	)
	c := newClient(t, fake)
	ctx := context.Background()

	boards, err := c.Boards(ctx)
	if err != nil {
		t.Fatalf("Boards() error = %v", err)
	}
	if len(boards) != 1 || boards[0] != (model.Board{ID: "b1", Name: "Engineering"}) {
		t.Fatalf("unexpected boards %+v", boards)
	}

	lists, err := c.Lists(ctx, "b1")
	if err != nil {
		t.Fatalf("Lists() error = %v", err)
	}
	if len(lists) != 2 || lists[0].ID != "l1" || lists[1].Name != "Doing" {
		t.Fatalf("unexpected lists %+v", lists)
	}

	labels, err := c.Labels(ctx, "b1")
	if err != nil {
		t.Fatalf("Labels() error = %v", err)
	}
	if len(labels) != 1 || labels[0].Name != "Bug" {
		t.Fatalf("unexpected labels %+v", labels)
	}

	want := []string{"/1/members/me/boards", "/1/boards/b1/lists", "/1/boards/b1/labels"}
	got := fake.Requests()
	if strings.Join(got, " ") != strings.Join(want, " ") {
		t.Fatalf("expected requests %v, got %v", want, got)
	}
}

func TestNon2xxBecomesAPIError(t *testing.T) {
	fake := testutil.NewFakeTrello(t)
	fake.BoardsStatus = http.StatusInternalServerError
	_, err := newClient(t, fake).Boards(context.Background())
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T (%v)", err, err)
	}
	if apiErr.Status != http.StatusInternalServerError || apiErr.Op != "boards" {
		t.Fatalf("unexpected api error %+v", apiErr)
	}
}

func TestWrongCredentialsRejected(t *testing.T) {
	fake := testutil.NewFakeTrello(t)
	c := New(config.TrelloConfig{BaseURL: fake.URL(), APIKey: "nope", APIToken: "nope"}, time.Second)
	_, err := c.Boards(context.Background())
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusUnauthorized {
		t.Fatalf("expected 401 APIError, got %v", err)
	}
}

func TestTransportErrorHidesCredentials(t *testing.T) {
	fake := testutil.NewFakeTrello(t)
	c := newClient(t, fake)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.Lists(ctx, "b1")
	if err == nil {
		t.Fatal("expected error for cancelled context")
	}
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if strings.Contains(err.Error(), testutil.APIToken) {
		t.Fatalf("token leaked in error: %v", err)
	}
}
