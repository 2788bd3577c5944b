package sessionrepo

import (
	"context"
	"errors"
	"strings"
	"time"

	"logiflow/internal/core/ports"
	"logiflow/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var _ ports.SessionStore = (*GormSessionRepository)(nil)

// GormSessionRepository implements ports.SessionStore using GORM.
type GormSessionRepository struct {
	db *gorm.DB
}

// NewGormSessionRepository creates a new GORM session repository.
func NewGormSessionRepository(db *gorm.DB) *GormSessionRepository {
	return &GormSessionRepository{db: db}
}

// Migrate creates or updates the sessions table.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&SessionDTO{})
}

// Save stores the session of device, replacing any previous one.
func (r *GormSessionRepository) Save(ctx context.Context, device string, s ports.StoredSession) error {
	if strings.TrimSpace(device) == "" {
		return errs.NewValueIsRequiredError("device")
	}
	if s.Token == "" {
		return errs.NewValueIsRequiredError("token")
	}
	if s.UpdatedAt.IsZero() {
		s.UpdatedAt = time.Now().UTC()
	}

	dto := fromDomain(device, s)
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "device"}},
			DoUpdates: clause.AssignmentColumns([]string{"token", "role", "updated_at"}),
		}).
		Create(&dto).Error
}

// Load retrieves the session of device.
func (r *GormSessionRepository) Load(ctx context.Context, device string) (ports.StoredSession, error) {
	var dto SessionDTO
	if err := r.db.WithContext(ctx).First(&dto, "device = ?", device).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.StoredSession{}, errs.NewObjectNotFoundError("session", device)
		}
		return ports.StoredSession{}, err
	}

	return toDomain(dto), nil
}

// Delete removes the session of device.
func (r *GormSessionRepository) Delete(ctx context.Context, device string) error {
	result := r.db.WithContext(ctx).Where("device = ?", device).Delete(&SessionDTO{})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("session", device)
	}
	return nil
}

// DeleteOlderThan removes sessions not renewed since cutoff and returns how many
// were removed.
func (r *GormSessionRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Where("updated_at < ?", cutoff).Delete(&SessionDTO{})
	return result.RowsAffected, result.Error
}
