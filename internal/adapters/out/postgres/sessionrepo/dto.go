// Package sessionrepo persists the credential of each device so a BFF restart or a
// second BFF instance keeps viewers logged in.
package sessionrepo

import (
	"time"

	"logiflow/internal/core/ports"
)

// SessionDTO is one device's stored credential.
type SessionDTO struct {
	Device    string `gorm:"primaryKey;size:64"`
	Token     string `gorm:"type:text;not null"`
	Role      string `gorm:"size:32;index"`
	UpdatedAt time.Time
}

// TableName overrides GORM's default naming.
func (SessionDTO) TableName() string {
	return "device_sessions"
}

func fromDomain(device string, s ports.StoredSession) SessionDTO {
	return SessionDTO{
		Device:    device,
		Token:     s.Token,
		Role:      s.Role,
		UpdatedAt: s.UpdatedAt,
	}
}

func toDomain(dto SessionDTO) ports.StoredSession {
	return ports.StoredSession{
		Token:     dto.Token,
		Role:      dto.Role,
		UpdatedAt: dto.UpdatedAt,
	}
}
