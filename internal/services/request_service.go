// Package services – RequestService
//
// This file implements the RequestService, which owns the request lifecycle
// from the bot's side: the idempotent create operation and the
// latest-request lookup. The hard invariants (one active request per
// identity, conflict outcomes, atomic request+links commit) live in the
// repository transaction; this layer adds validation, tracing, outcome
// metrics, and error mapping so callers never see raw gorm errors for the
// predictable cases.
package services

import (
	"context"
	"errors"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/timaholls/tg-info-S3Disk/internal/domain"
)

// intakeRequests counts create attempts by tagged outcome. Infrastructure
// failures are not an outcome and are not counted here.
var intakeRequests = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "intake_requests_total",
		Help: "Total request creation attempts by outcome.",
	},
	[]string{"outcome"},
)

func init() {
	prometheus.MustRegister(intakeRequests)
}

// RequestRepo defines the repository contract required by RequestService.
type RequestRepo interface {
	// CreateRequest runs the atomic check-then-insert sequence.
	CreateRequest(ctx context.Context, db *gorm.DB, in domain.CreateRequestInput) (domain.CreateResult, error)

	// LatestRequest fetches the newest request with department lists loaded.
	LatestRequest(ctx context.Context, db *gorm.DB, telegramID string) (*domain.Request, error)
}

// RequestService provides request creation and status lookup.
type RequestService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Repo is the request repository used by this service.
	Repo RequestRepo
}

// NewRequestService constructs a RequestService.
func NewRequestService(db *gorm.DB, r RequestRepo) *RequestService {
	return &RequestService{DB: db, Repo: r}
}

// Create submits an intake request and returns the tagged result. The
// missing-department list inside the result is informational; it never
// blocks creation. Infrastructure faults are returned as-is and mean
// nothing was committed.
func (s *RequestService) Create(ctx context.Context, in domain.CreateRequestInput) (domain.CreateResult, error) {
	tr := otel.Tracer("services/RequestService")
	ctx, span := tr.Start(ctx, "Create",
		trace.WithAttributes(
			attribute.String("requester.id", in.TelegramID),
			attribute.Bool("request.additional", in.IsAdditional),
		),
	)
	defer span.End()

	in.TelegramID = strings.TrimSpace(in.TelegramID)
	if in.TelegramID == "" {
		return domain.CreateResult{}, ErrMissingIdentity
	}
	in.FullName = strings.TrimSpace(in.FullName)
	if in.FullName == "" {
		in.FullName = "Не указано"
	}

	res, err := s.Repo.CreateRequest(ctx, s.DB, in)
	if err != nil {
		return domain.CreateResult{}, err
	}
	intakeRequests.WithLabelValues(res.Outcome.String()).Inc()
	span.SetAttributes(attribute.String("request.outcome", res.Outcome.String()))
	return res, nil
}

// Latest returns the newest request for the identity, or ErrRequestNotFound.
func (s *RequestService) Latest(ctx context.Context, telegramID string) (*domain.Request, error) {
	req, err := s.Repo.LatestRequest(ctx, s.DB, telegramID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}
	return req, nil
}
