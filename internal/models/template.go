package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

type TemplateOrigin string

const (
	OriginSystem TemplateOrigin = "system"
	OriginUser   TemplateOrigin = "user"
)

func (o TemplateOrigin) IsValid() bool {
	return o == OriginSystem || o == OriginUser
}

// TemplateID is a fixed slug for built-in templates and the decimal form of
// the store-assigned number for user templates.
type TemplateID string

// UserTemplateID converts a store row id into a TemplateID.
func UserTemplateID(n int64) TemplateID {
	return TemplateID(strconv.FormatInt(n, 10))
}

// Numeric returns the store row id of a user template.
func (id TemplateID) Numeric() (int64, bool) {
	n, err := strconv.ParseInt(string(id), 10, 64)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// MarshalJSON writes user ids as numbers and slugs as strings.
func (id TemplateID) MarshalJSON() ([]byte, error) {
	if n, ok := id.Numeric(); ok {
		return json.Marshal(n)
	}
	return json.Marshal(string(id))
}

func (id *TemplateID) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch value := v.(type) {
	case string:
		*id = TemplateID(value)
	case float64:
		*id = TemplateID(strconv.FormatFloat(value, 'f', -1, 64))
	case nil:
		*id = ""
	default:
		return fmt.Errorf("invalid template id %s", string(b))
	}
	return nil
}

// TemplateItem is a blueprint line; it has no checked state or order.
type TemplateItem struct {
	Text string `json:"text"`
	Note string `json:"note"`
}

type Template struct {
	ID          TemplateID     `json:"id"`
	Name        string         `json:"name" validate:"notblank"`
	Description string         `json:"description"`
	Category    string         `json:"category"`
	Country     string         `json:"country"`
	Items       []TemplateItem `json:"items"`
	CreatedBy   TemplateOrigin `json:"createdBy" validate:"template_origin"`
	Version     int            `json:"version"`
	CreatedAt   time.Time      `json:"createdAt,omitzero"`
	UpdatedAt   time.Time      `json:"updatedAt,omitzero"`
}

// IsBuiltin reports whether t comes from the code-embedded catalog.
func (t *Template) IsBuiltin() bool {
	_, numeric := t.ID.Numeric()
	return t.CreatedBy == OriginSystem && !numeric
}

type TemplatePatch struct {
	Name        *string
	Description *string
	Category    *string
	Country     *string
	Items       *[]TemplateItem
	Version     *int
}

func (p TemplatePatch) Apply(t *Template) {
	if p.Name != nil {
		t.Name = *p.Name
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Category != nil {
		t.Category = *p.Category
	}
	if p.Country != nil {
		t.Country = *p.Country
	}
	if p.Items != nil {
		t.Items = *p.Items
	}
	if p.Version != nil {
		t.Version = *p.Version
	}
}
