package services

import (
	"context"
	"errors"
	"testing"

	"gorm.io/gorm"

	"github.com/timaholls/tg-info-S3Disk/internal/domain"
)

// ----- Fake repo -----

type fakeRequestRepo struct {
	createIn  domain.CreateRequestInput
	createRes domain.CreateResult
	createErr error

	latestID  string
	latestReq *domain.Request
	latestErr error
}

func (r *fakeRequestRepo) CreateRequest(ctx context.Context, db *gorm.DB, in domain.CreateRequestInput) (domain.CreateResult, error) {
	r.createIn = in
	return r.createRes, r.createErr
}

func (r *fakeRequestRepo) LatestRequest(ctx context.Context, db *gorm.DB, telegramID string) (*domain.Request, error) {
	r.latestID = telegramID
	return r.latestReq, r.latestErr
}

// ----- Tests -----

func TestRequestServiceCreate_PassesOutcomeThrough(t *testing.T) {
	repo := &fakeRequestRepo{createRes: domain.CreateResult{
		RequestID: 11,
		Outcome:   domain.OutcomeAlreadyActive,
	}}
	svc := NewRequestService(nil, repo)

	res, err := svc.Create(context.Background(), domain.CreateRequestInput{
		FullName:   "Иванов Иван",
		TelegramID: "100",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.RequestID != 11 || res.Outcome != domain.OutcomeAlreadyActive {
		t.Fatalf("result: %+v", res)
	}
}

func TestRequestServiceCreate_RequiresIdentity(t *testing.T) {
	svc := NewRequestService(nil, &fakeRequestRepo{})
	_, err := svc.Create(context.Background(), domain.CreateRequestInput{TelegramID: "   "})
	if !errors.Is(err, ErrMissingIdentity) {
		t.Fatalf("got %v, want ErrMissingIdentity", err)
	}
}

func TestRequestServiceCreate_NormalizesInput(t *testing.T) {
	repo := &fakeRequestRepo{createRes: domain.CreateResult{RequestID: 1}}
	svc := NewRequestService(nil, repo)

	if _, err := svc.Create(context.Background(), domain.CreateRequestInput{
		FullName:   "   ",
		TelegramID: " 100 ",
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.createIn.TelegramID != "100" {
		t.Fatalf("identity not trimmed: %q", repo.createIn.TelegramID)
	}
	if repo.createIn.FullName != "Не указано" {
		t.Fatalf("blank name fallback: %q", repo.createIn.FullName)
	}
}

func TestRequestServiceCreate_PropagatesRepoError(t *testing.T) {
	boom := errors.New("db down")
	svc := NewRequestService(nil, &fakeRequestRepo{createErr: boom})
	_, err := svc.Create(context.Background(), domain.CreateRequestInput{TelegramID: "100"})
	if !errors.Is(err, boom) {
		t.Fatalf("got %v, want repo error", err)
	}
}

func TestRequestServiceLatest_MapsNotFound(t *testing.T) {
	svc := NewRequestService(nil, &fakeRequestRepo{latestErr: gorm.ErrRecordNotFound})
	_, err := svc.Latest(context.Background(), "100")
	if !errors.Is(err, ErrRequestNotFound) {
		t.Fatalf("got %v, want ErrRequestNotFound", err)
	}
}

func TestRequestServiceLatest_ReturnsRequest(t *testing.T) {
	repo := &fakeRequestRepo{latestReq: &domain.Request{ID: 2, TelegramID: "100"}}
	svc := NewRequestService(nil, repo)

	req, err := svc.Latest(context.Background(), "100")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.ID != 2 || repo.latestID != "100" {
		t.Fatalf("req %+v, queried %q", req, repo.latestID)
	}
}
