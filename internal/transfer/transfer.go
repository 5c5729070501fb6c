// Package transfer exports the store to versioned JSON documents and imports
// such documents back, either replacing everything or merging into what is
// already there. It also performs the one-time seeding of a fresh database.
package transfer

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/scholarkeeper/internal/common"
	"github.com/dmitrijs2005/scholarkeeper/internal/logging"
	"github.com/dmitrijs2005/scholarkeeper/internal/models"
	"github.com/dmitrijs2005/scholarkeeper/internal/store"
	"github.com/dmitrijs2005/scholarkeeper/internal/timex"
)

// FormatVersion is written to regular exports and assumed for imports
// without a version.
const FormatVersion = "1.0"

// SeedFixedFileName is the name the bundled seed document ships under.
const SeedFixedFileName = "seedData.json"

type Data struct {
	Scholarships   []models.Scholarship   `json:"scholarships"`
	ChecklistItems []models.ChecklistItem `json:"checklistItems"`
	Documents      []models.Document      `json:"documents"`
}

// SeedData adds user templates to Data.
type SeedData struct {
	Data
	Templates []models.Template `json:"templates"`
}

// Export is a regular backup document.
type Export struct {
	Version    string    `json:"version"`
	ExportedAt time.Time `json:"exportedAt"`
	Data       Data      `json:"data"`
}

// Seed is a seed document; CreatedAt marks its freshness.
type Seed struct {
	CreatedAt time.Time `json:"createdAt"`
	Data      SeedData  `json:"data"`
}

type Stats struct {
	Scholarships   int `json:"scholarships"`
	ChecklistItems int `json:"checklistItems"`
	Documents      int `json:"documents"`
	Templates      int `json:"templates"`
}

type Strategy string

const (
	// Replace clears every collection before inserting.
	Replace Strategy = "replace"
	// Merge appends to existing data without deduplication.
	Merge Strategy = "merge"
)

// ParseStrategy accepts "replace" (or "replace-all") and "merge".
func ParseStrategy(s string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "replace", "replace-all":
		return Replace, nil
	case "merge":
		return Merge, nil
	default:
		return "", fmt.Errorf("unknown import strategy %q (want replace or merge)", s)
	}
}

// RawDocument is an import document decoded into generic JSON values.
type RawDocument map[string]any

// ParseImportFile decodes b and requires the top level to be a JSON object.
func ParseImportFile(b []byte) (RawDocument, error) {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return nil, common.NewValidation(fmt.Sprintf("invalid JSON: %v", err))
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, common.NewValidation("import file must be a JSON object")
	}
	return RawDocument(m), nil
}

// ToRaw converts a typed Export or Seed into the generic form Import takes.
func ToRaw(v any) (RawDocument, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return ParseImportFile(b)
}

// Marshal renders a document the way it is written to disk.
func Marshal(v any) ([]byte, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return append(b, '\n'), nil
}

// BackupFileName is scholarship-tracker-backup-YYYY-MM-DD.json for t's date.
func BackupFileName(t time.Time) string {
	return "scholarship-tracker-backup-" + timex.DateKey(t, t.Location()) + ".json"
}

// SeedFileName is seedData-YYYY-MM-DD.json for t's date.
func SeedFileName(t time.Time) string {
	return "seedData-" + timex.DateKey(t, t.Location()) + ".json"
}

type Service struct {
	store  *store.Store
	logger logging.Logger
	seed   []byte
}

type Option func(*Service)

// WithSeedData replaces the bundled seed document.
func WithSeedData(b []byte) Option {
	return func(s *Service) { s.seed = b }
}

func NewService(st *store.Store, logger logging.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = logging.Nop()
	}
	s := &Service{store: st, logger: logger, seed: bundledSeed}
	for _, opt := range opts {
		opt(s)
	}
	return s
}
