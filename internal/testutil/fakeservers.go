// Package testutil provides in-process fakes of the Trello API and the card backend.
package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gorilla/mux"

	"github.com/idilsaglam/cardform/internal/model"
)

// Credentials the fakes accept unless overridden.
const (
	APIKey   = "test-key"
	APIToken = "test-token"
)

// FakeTrello serves the three read-only reference endpoints.
type FakeTrello struct {
	mu       sync.Mutex
	boards   []model.Board
	lists    map[string][]model.List
	labels   map[string][]model.Label
	requests []string

	// Status injection: a non-zero value answers that endpoint with the code.
	BoardsStatus int
	ListsStatus  int
	LabelsStatus int

	Key   string
	Token string

	server *httptest.Server
}

// NewFakeTrello starts a fake Trello API closed at test cleanup.
func NewFakeTrello(t testing.TB) *FakeTrello {
	t.Helper()
	f := &FakeTrello{
		lists:  map[string][]model.List{},
		labels: map[string][]model.Label{},
		Key:    APIKey,
		Token:  APIToken,
	}

	r := mux.NewRouter()
	r.Use(f.record, f.auth)
	r.HandleFunc("/1/members/me/boards", f.handleBoards).Methods(http.MethodGet)
	r.HandleFunc("/1/boards/{id}/lists", f.handleLists).Methods(http.MethodGet)
	r.HandleFunc("/1/boards/{id}/labels", f.handleLabels).Methods(http.MethodGet)

	f.server = httptest.NewServer(r)
	t.Cleanup(f.server.Close)
	return f
}

// URL is the base URL to configure the client with.
func (f *FakeTrello) URL() string { return f.server.URL }

// AddBoard registers a board with its lists and labels.
func (f *FakeTrello) AddBoard(b model.Board, lists []model.List, labels []model.Label) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.boards = append(f.boards, b)
	f.lists[b.ID] = lists
	f.labels[b.ID] = labels
}

// Requests returns the request paths seen so far.
func (f *FakeTrello) Requests() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.requests...)
}

func (f *FakeTrello) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.requests = append(f.requests, r.URL.Path)
		f.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (f *FakeTrello) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("key") != f.Key || q.Get("token") != f.Token {
			http.Error(w, "invalid key", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (f *FakeTrello) handleBoards(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	status, boards := f.BoardsStatus, append([]model.Board{}, f.boards...)
	f.mu.Unlock()
	if status != 0 {
		http.Error(w, http.StatusText(status), status)
		return
	}
	writeJSON(w, boards)
}

func (f *FakeTrello) handleLists(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	f.mu.Lock()
	status, lists, ok := f.ListsStatus, f.lists[id], f.hasBoard(id)
	f.mu.Unlock()
	if status != 0 {
		http.Error(w, http.StatusText(status), status)
		return
	}
	if !ok {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	if lists == nil {
		lists = []model.List{}
	}
	writeJSON(w, lists)
}

func (f *FakeTrello) handleLabels(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	f.mu.Lock()
	status, labels, ok := f.LabelsStatus, f.labels[id], f.hasBoard(id)
	f.mu.Unlock()
	if status != 0 {
		http.Error(w, http.StatusText(status), status)
		return
	}
	if !ok {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	if labels == nil {
		labels = []model.Label{}
	}
	writeJSON(w, labels)
}

func (f *FakeTrello) hasBoard(id string) bool {
	for _, b := range f.boards {
		if b.ID == id {
			return true
		}
	}
	return false
}

// RecordedFile is one file part received by the fake backend.
type RecordedFile struct {
	Field    string
	Filename string
	Content  []byte
}

// RecordedCard is one multipart request received by the fake backend.
type RecordedCard struct {
	ContentType string
	RequestID   string
	Fields      map[string][]string
	Files       []RecordedFile
}

// FakeBackend accepts card-creation requests and records them.
type FakeBackend struct {
	mu    sync.Mutex
	cards []RecordedCard

	// Status and Body override the default 200 {"ok":true} answer.
	Status int
	Body   string

	server *httptest.Server
}

// CreateCardPath is the route the fake backend serves.
const CreateCardPath = "/api/create-card"

// NewFakeBackend starts a fake card backend closed at test cleanup.
func NewFakeBackend(t testing.TB) *FakeBackend {
	t.Helper()
	f := &FakeBackend{}
	r := mux.NewRouter()
	r.HandleFunc(CreateCardPath, f.handleCreate).Methods(http.MethodPost)
	f.server = httptest.NewServer(r)
	t.Cleanup(f.server.Close)
	return f
}

// Endpoint is the full card-creation URL.
func (f *FakeBackend) Endpoint() string { return f.server.URL + CreateCardPath }

// Cards returns the requests received so far.
func (f *FakeBackend) Cards() []RecordedCard {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]RecordedCard(nil), f.cards...)
}

// Respond sets the answer for subsequent requests.
func (f *FakeBackend) Respond(status int, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Status = status
	f.Body = body
}

func (f *FakeBackend) handleCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		http.Error(w, "bad multipart: "+err.Error(), http.StatusBadRequest)
		return
	}
	card := RecordedCard{
		ContentType: r.Header.Get("Content-Type"),
		RequestID:   r.Header.Get("X-Request-ID"),
		Fields:      map[string][]string{},
	}
	for k, v := range r.MultipartForm.Value {
		card.Fields[k] = append([]string(nil), v...)
	}
	for field, headers := range r.MultipartForm.File {
		for _, h := range headers {
			fh, err := h.Open()
			if err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			b, err := io.ReadAll(fh)
			_ = fh.Close()
			if err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			card.Files = append(card.Files, RecordedFile{Field: field, Filename: h.Filename, Content: b})
		}
	}

	f.mu.Lock()
	f.cards = append(f.cards, card)
	status, body := f.Status, f.Body
	f.mu.Unlock()

	if status == 0 {
		status = http.StatusOK
	}
	if body == "" && status == http.StatusOK {
		body = `{"ok":true}`
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
