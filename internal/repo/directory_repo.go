// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides the read-only registered-user
// directory lookup.
package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/timaholls/tg-info-S3Disk/internal/domain"
)

// FindDirectoryUser resolves a registered person by Telegram identity, with
// their currently assigned department names loaded and name-sorted.
// Returns ErrNotFound when the identity is not registered.
func FindDirectoryUser(ctx context.Context, db *gorm.DB, telegramID string) (*domain.DirectoryUser, error) {
	var u domain.DirectoryUser
	err := db.WithContext(ctx).
		Where("telegram_id = ?", telegramID).
		First(&u).Error
	if err != nil {
		return nil, err
	}

	err = db.WithContext(ctx).
		Table("auth_group AS g").
		Select("g.name").
		Joins("JOIN s3app_user_groups ug ON ug.group_id = g.id").
		Where("ug.user_id = ?", u.ID).
		Order("g.name").
		Scan(&u.Departments).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}
