// Package services – CatalogService
//
// This file implements the CatalogService, the read side of the department
// directory. It returns the departments a requester may select, in display
// order. The SQL already orders by the bot_order hint; within equal hints
// the byte order of Cyrillic names is refined with a Russian collator so
// the numbered list the requester sees is alphabetized the way a human
// expects.
package services

import (
	"context"
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
	"gorm.io/gorm"

	"github.com/timaholls/tg-info-S3Disk/internal/domain"
)

// CatalogRepo defines the repository contract required by CatalogService.
type CatalogRepo interface {
	// ListDepartments returns the visible departments with order hints.
	ListDepartments(ctx context.Context, db *gorm.DB) ([]domain.CatalogEntry, error)
}

// CatalogService provides the selectable-department listing. It is pure
// read: no method has side effects.
type CatalogService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Repo is the catalog repository used by this service.
	Repo CatalogRepo
}

// NewCatalogService constructs a CatalogService.
func NewCatalogService(db *gorm.DB, r CatalogRepo) *CatalogService {
	return &CatalogService{DB: db, Repo: r}
}

// List returns the visible departments in display order. An empty slice
// means no departments are configured; the caller must distinguish that
// from an error (store unavailable).
func (s *CatalogService) List(ctx context.Context) ([]domain.CatalogEntry, error) {
	entries, err := s.Repo.ListDepartments(ctx, s.DB)
	if err != nil {
		return nil, err
	}

	// Collators keep internal buffers, so build one per call rather than
	// sharing across worker goroutines.
	coll := collate.New(language.Russian)
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].BotOrder != entries[j].BotOrder {
			return entries[i].BotOrder < entries[j].BotOrder
		}
		return coll.CompareString(entries[i].Name, entries[j].Name) < 0
	})
	return entries, nil
}
