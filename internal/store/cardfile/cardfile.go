// Package cardfile reads card descriptions for headless submission.
//
// A card file is YAML (or JSON, picked by extension) using the same field names
// as the create-card request, plus an optional list of attachment paths:
//
//	userEmail: dev@example.com
//	cardName: Fix login bug
//	cardDescription: Users cannot log in with SSO
//	boardId: b1
//	listId: l1
//	labelId: g1
//	attachments:
//	  - screenshot.png
package cardfile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/idilsaglam/cardform/internal/model"
)

// File is a decoded card file.
type File struct {
	model.CardForm `yaml:",inline"`
	Attachments    []string `json:"attachments" yaml:"attachments"`
}

// Load reads path. Relative attachment paths are resolved against the file's
// directory.
func Load(path string) (File, []model.Attachment, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return File{}, nil, fmt.Errorf("read card file: %w", err)
	}
	if len(bytes.TrimSpace(b)) == 0 {
		return File{}, nil, fmt.Errorf("card file %s is empty", path)
	}

	var f File
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(b))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&f); err != nil {
			return File{}, nil, fmt.Errorf("json decode %s: %w", path, err)
		}
	default:
		dec := yaml.NewDecoder(bytes.NewReader(b))
		dec.KnownFields(true)
		if err := dec.Decode(&f); err != nil {
			return File{}, nil, fmt.Errorf("yaml decode %s: %w", path, err)
		}
	}

	base := filepath.Dir(path)
	files := make([]model.Attachment, 0, len(f.Attachments))
	for _, p := range f.Attachments {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if !filepath.IsAbs(p) {
			p = filepath.Join(base, p)
		}
		files = append(files, model.NewAttachment(p))
	}
	return f, files, nil
}
