package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/timaholls/tg-info-S3Disk/internal/domain"
	"github.com/timaholls/tg-info-S3Disk/internal/services"
)

// RequestService is the slice of the request service the ops API uses.
type RequestService interface {
	Latest(ctx context.Context, identity string) (*domain.Request, error)
}

// Handlers bundles the service dependencies of the ops endpoints.
type Handlers struct {
	Requests RequestService
}

// New constructs the handler set.
func New(reqSvc RequestService) *Handlers {
	return &Handlers{Requests: reqSvc}
}

// RequestView is the wire shape of one intake request.
type RequestView struct {
	ID           int64      `json:"id"`
	FullName     string     `json:"full_name"`
	TelegramID   string     `json:"telegram_id"`
	Region       string     `json:"region,omitempty"`
	IsAdditional bool       `json:"is_additional"`
	Status       string     `json:"status"`
	Departments  []string   `json:"departments"`
	Confirmed    []string   `json:"confirmed_departments"`
	CreatedAt    time.Time  `json:"created_at"`
	ProcessedAt  *time.Time `json:"processed_at,omitempty"`
}

// GetLatestRequest returns the newest intake request for the requester
// identity in the path.
//
// GET /api/v1/requests/:identity
func (h *Handlers) GetLatestRequest(c *gin.Context) {
	identity := strings.TrimSpace(c.Param("identity"))
	if identity == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "identity is required")
		return
	}

	req, err := h.Requests.Latest(c.Request.Context(), identity)
	switch {
	case errors.Is(err, services.ErrRequestNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "no requests for identity")
		return
	case err != nil:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "lookup failed")
		return
	}

	ok(c, http.StatusOK, viewOf(req))
}

func viewOf(r *domain.Request) RequestView {
	v := RequestView{
		ID:           r.ID,
		FullName:     r.FullName,
		TelegramID:   r.TelegramID,
		Region:       r.Region,
		IsAdditional: r.IsAdditional,
		Status:       string(r.Status),
		Departments:  r.Departments,
		Confirmed:    r.ProcessedDepartments,
		CreatedAt:    r.CreatedAt,
		ProcessedAt:  r.ProcessedAt,
	}
	if v.Departments == nil {
		v.Departments = []string{}
	}
	if v.Confirmed == nil {
		v.Confirmed = []string{}
	}
	return v
}
