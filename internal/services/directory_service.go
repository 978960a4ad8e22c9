// Package services – DirectoryService
//
// Read-only lookup of registered persons by Telegram identity. Used by the
// conversation flow to decide whether to offer the additional-departments
// branch and to pre-seed the form from the directory of record.
package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/timaholls/tg-info-S3Disk/internal/domain"
)

// DirectoryRepo defines the repository contract required by DirectoryService.
type DirectoryRepo interface {
	// FindDirectoryUser resolves a registered person with assigned departments.
	FindDirectoryUser(ctx context.Context, db *gorm.DB, telegramID string) (*domain.DirectoryUser, error)
}

// DirectoryService resolves requesters against the registered-user directory.
type DirectoryService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Repo is the directory repository used by this service.
	Repo DirectoryRepo
}

// NewDirectoryService constructs a DirectoryService.
func NewDirectoryService(db *gorm.DB, r DirectoryRepo) *DirectoryService {
	return &DirectoryService{DB: db, Repo: r}
}

// Lookup returns the registered person for the identity, or ErrUserNotFound.
func (s *DirectoryService) Lookup(ctx context.Context, telegramID string) (*domain.DirectoryUser, error) {
	u, err := s.Repo.FindDirectoryUser(ctx, s.DB, telegramID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}
