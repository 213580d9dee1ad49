// Package dashboards persists dashboard configurations: named collections of
// widget specs arranged on a grid.
package dashboards

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"adboard/internal/widgets"
)

// Dashboard is a stored dashboard configuration. Widgets are embedded as a
// JSON document; they are specs, not data.
type Dashboard struct {
	ID          string               `gorm:"primaryKey" json:"id"`
	Name        string               `gorm:"not null" json:"name"`
	Description string               `json:"description"`
	OwnerID     string               `gorm:"index" json:"owner_id,omitempty"`
	Widgets     []widgets.WidgetSpec `gorm:"serializer:json" json:"widgets"`
	Layout      string               `gorm:"default:grid" json:"layout"`
	Theme       string               `gorm:"default:light" json:"theme"`
	Tags        []string             `gorm:"serializer:json" json:"tags,omitempty"`
	IsPublic    bool                 `json:"is_public"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
}

// NewID generates a dashboard identifier of the form dash_<12 hex chars>.
func NewID() string {
	return "dash_" + strings.ReplaceAll(uuid.New().String(), "-", "")[:12]
}

// Validate checks the dashboard and every embedded widget spec.
func (d *Dashboard) Validate() error {
	if d.Name == "" {
		return &widgets.ValidationError{Field: "name", Msg: "dashboard name is required"}
	}
	for i := range d.Widgets {
		if err := d.Widgets[i].Validate(); err != nil {
			return fmt.Errorf("widget %d (%s): %w", i, d.Widgets[i].ID, err)
		}
	}
	return nil
}

// Export serializes the dashboard configuration to indented JSON, suitable
// for sharing or versioning.
func (d *Dashboard) Export() ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}

// Import parses an exported dashboard configuration and validates it. The
// imported dashboard always receives a fresh identifier.
func Import(data []byte) (*Dashboard, error) {
	var d Dashboard
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("parsing dashboard config: %w", err)
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	d.ID = NewID()
	return &d, nil
}
