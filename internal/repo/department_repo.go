// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides the department catalog query.
package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/timaholls/tg-info-S3Disk/internal/domain"
)

// ListDepartments returns the departments selectable from the bot, joined
// with their presentation hints. Departments without a settings row default
// to visible with order 0. Rows are ordered by the display-order hint, then
// by name; the service layer refines the name ordering with a collator.
//
// An empty result is not an error: it means no departments are configured.
func ListDepartments(ctx context.Context, db *gorm.DB) ([]domain.CatalogEntry, error) {
	var out []domain.CatalogEntry
	err := db.WithContext(ctx).
		Table("auth_group AS g").
		Select("g.id AS id, g.name AS name, COALESCE(gs.bot_order, 0) AS bot_order").
		Joins("LEFT JOIN s3app_groupsettings gs ON gs.group_id = g.id").
		Where("COALESCE(gs.show_in_bot, 1) = 1").
		Order("COALESCE(gs.bot_order, 0), g.name").
		Scan(&out).Error
	return out, err
}

// FindDepartmentByName resolves a department by case-insensitive exact name
// match. Returns ErrNotFound when no department matches.
func FindDepartmentByName(ctx context.Context, db *gorm.DB, name string) (*domain.Department, error) {
	var d domain.Department
	err := db.WithContext(ctx).
		Where("LOWER(name) = LOWER(?)", name).
		First(&d).Error
	if err != nil {
		return nil, err
	}
	return &d, nil
}
