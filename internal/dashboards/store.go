package dashboards

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// ErrNotFound is returned when a dashboard id does not exist.
var ErrNotFound = errors.New("dashboard not found")

type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Create validates and persists a new dashboard, assigning it an id when the
// caller left it empty.
func (s *Store) Create(d *Dashboard) error {
	if err := d.Validate(); err != nil {
		return err
	}
	if d.ID == "" {
		d.ID = NewID()
	}
	if err := s.db.Create(d).Error; err != nil {
		return fmt.Errorf("creating dashboard: %w", err)
	}
	return nil
}

// Update replaces a stored dashboard's configuration wholesale.
func (s *Store) Update(id string, d *Dashboard) error {
	if err := d.Validate(); err != nil {
		return err
	}
	d.ID = id
	result := s.db.Model(&Dashboard{}).Where("id = ?", id).
		Select("name", "description", "widgets", "layout", "theme", "tags", "is_public").
		Updates(d)
	if result.Error != nil {
		return fmt.Errorf("updating dashboard %s: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) Get(id string) (*Dashboard, error) {
	var d Dashboard
	err := s.db.First(&d, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading dashboard %s: %w", id, err)
	}
	return &d, nil
}

func (s *Store) List() ([]Dashboard, error) {
	var all []Dashboard
	if err := s.db.Order("created_at DESC").Find(&all).Error; err != nil {
		return nil, fmt.Errorf("listing dashboards: %w", err)
	}
	return all, nil
}

func (s *Store) Delete(id string) error {
	result := s.db.Delete(&Dashboard{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("deleting dashboard %s: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
