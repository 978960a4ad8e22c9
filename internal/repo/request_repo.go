// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Request
// model and its department associations.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations. They
// follow the "thin repository" approach: persistence and query composition
// only, with the one exception of CreateRequest, which owns the
// check-then-insert sequence because its atomicity is a property of the
// store, not of any caller.
//
// Error semantics:
//   - When a request is not found, functions return gorm.ErrRecordNotFound
//     (also exported here as ErrNotFound for convenience).
//   - On DB errors (constraint violations, connectivity issues, etc.),
//     the raw gorm error is propagated.
package repo

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/timaholls/tg-info-S3Disk/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for consistency across the service
// layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// errActiveConflict aborts the create transaction when the active-key unique
// index rejects the insert (a concurrent create won the race).
var errActiveConflict = errors.New("active request exists")

// LatestRequest fetches the most recently created request for the identity,
// with both department name lists loaded and name-sorted. Deterministic
// single row: created_at descending, ties broken by highest id.
// Returns ErrNotFound when the identity has no requests.
func LatestRequest(ctx context.Context, db *gorm.DB, telegramID string) (*domain.Request, error) {
	var req domain.Request
	err := db.WithContext(ctx).
		Where("telegram_id = ?", telegramID).
		Order("created_at DESC, id DESC").
		First(&req).Error
	if err != nil {
		return nil, err
	}

	if req.Departments, err = requestDepartmentNames(ctx, db, req.ID, domain.RequestDepartment{}.TableName()); err != nil {
		return nil, err
	}
	if req.ProcessedDepartments, err = requestDepartmentNames(ctx, db, req.ID, domain.RequestProcessedDepartment{}.TableName()); err != nil {
		return nil, err
	}
	return &req, nil
}

// requestDepartmentNames loads the department names linked to a request
// through the given association table, ordered by name.
func requestDepartmentNames(ctx context.Context, db *gorm.DB, requestID int64, joinTable string) ([]string, error) {
	var names []string
	err := db.WithContext(ctx).
		Table("auth_group AS g").
		Select("g.name").
		Joins("JOIN "+joinTable+" j ON j.group_id = g.id").
		Where("j.userrequest_id = ?", requestID).
		Order("g.name").
		Scan(&names).Error
	return names, err
}

// CreateRequest performs the idempotent create operation:
//
//  1. Load the latest request for the identity.
//  2. An existing new/pending request short-circuits to OutcomeAlreadyActive.
//  3. A processed latest request short-circuits to OutcomeAlreadyProcessed
//     unless the attempt is flagged additional.
//  4. Release the active key from any finished request of the identity.
//     Status transitions belong to the admin system, which writes status,
//     processed_at and processed_by_id only and knows nothing about
//     active_key, so a processed or rejected row can still hold the key.
//  5. Insert a new row with status new and an active key.
//  6. Resolve each department name case-insensitively; unresolved names are
//     accumulated and reported, never fatal. Resolved names are linked
//     idempotently (a duplicate pair is a no-op).
//
// Steps 1-6 run in one transaction: either the request row and all of its
// links commit together, or none of them do. The unique index on active_key
// backstops the check in step 2 against concurrent creates; the loser of
// that race gets OutcomeAlreadyActive with the winner's id.
func CreateRequest(ctx context.Context, db *gorm.DB, in domain.CreateRequestInput) (domain.CreateResult, error) {
	var res domain.CreateResult

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var latest domain.Request
		err := tx.
			Where("telegram_id = ?", in.TelegramID).
			Order("created_at DESC, id DESC").
			First(&latest).Error
		switch {
		case err == nil:
			if latest.Status.Active() {
				res = domain.CreateResult{RequestID: latest.ID, Outcome: domain.OutcomeAlreadyActive}
				return nil
			}
			if latest.Status == domain.StatusProcessed && !in.IsAdditional {
				res = domain.CreateResult{RequestID: latest.ID, Outcome: domain.OutcomeAlreadyProcessed}
				return nil
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			// first request for this identity
		default:
			return err
		}

		// An inactive row left holding the key would make the unique
		// index veto this insert as a phantom active request.
		err = tx.Model(&domain.Request{}).
			Where("telegram_id = ? AND active_key IS NOT NULL AND status NOT IN ?",
				in.TelegramID, []domain.Status{domain.StatusNew, domain.StatusPending}).
			Update("active_key", nil).Error
		if err != nil {
			return err
		}

		key := in.TelegramID
		req := domain.Request{
			FullName:     in.FullName,
			TelegramID:   in.TelegramID,
			Region:       in.Region,
			IsAdditional: in.IsAdditional,
			TargetUserID: in.TargetUserID,
			Status:       domain.StatusNew,
			ActiveKey:    &key,
			CreatedAt:    time.Now().UTC(),
		}
		if err := tx.Create(&req).Error; err != nil {
			if isUniqueViolation(err) {
				return errActiveConflict
			}
			return err
		}

		var missing []string
		seen := make(map[int64]struct{}, len(in.Departments))
		for _, name := range in.Departments {
			var dept domain.Department
			err := tx.Where("LOWER(name) = LOWER(?)", name).First(&dept).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				missing = append(missing, name)
				continue
			}
			if err != nil {
				return err
			}
			if _, dup := seen[dept.ID]; dup {
				continue
			}
			seen[dept.ID] = struct{}{}
			link := domain.RequestDepartment{RequestID: req.ID, GroupID: dept.ID}
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&link).Error; err != nil {
				return err
			}
		}
		sort.Strings(missing)

		res = domain.CreateResult{RequestID: req.ID, Outcome: domain.OutcomeCreated, Missing: missing}
		return nil
	})

	if errors.Is(err, errActiveConflict) {
		// Lost the insert race; report the surviving active request.
		latest, lerr := LatestRequest(ctx, db, in.TelegramID)
		if lerr != nil {
			return domain.CreateResult{}, lerr
		}
		return domain.CreateResult{RequestID: latest.ID, Outcome: domain.OutcomeAlreadyActive}, nil
	}
	if err != nil {
		return domain.CreateResult{}, err
	}
	return res, nil
}

// isUniqueViolation reports whether err is a unique-constraint failure.
// glebarez/sqlite surfaces these as plain-text errors; MySQL as error 1062
// ("Duplicate entry"). gorm.ErrDuplicatedKey covers translated drivers.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	low := strings.ToLower(err.Error())
	return strings.Contains(low, "unique constraint failed") ||
		strings.Contains(low, "constraint failed: unique") ||
		strings.Contains(low, "duplicate entry")
}
