// Package handlers exposes the link lifecycle over HTTP via huma.
package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/tatavachnadze/URL-Shortener/internal/link"
	"go.uber.org/zap"
)

// LinkHandler handles the link lifecycle endpoints.
type LinkHandler struct {
	service *link.Service
	baseURL string
	logger  *zap.Logger
}

// NewLinkHandler creates a handler around the lifecycle service.
func NewLinkHandler(service *link.Service, baseURL string, logger *zap.Logger) *LinkHandler {
	return &LinkHandler{
		service: service,
		baseURL: baseURL,
		logger:  logger,
	}
}

type requestMetaKey struct{}

// RequestMeta holds the HTTP request metadata used to stamp click events.
type RequestMeta struct {
	ClientIP  string
	UserAgent string
}

// ContextWithRequestMeta adds request metadata to a context.
func ContextWithRequestMeta(ctx context.Context, meta RequestMeta) context.Context {
	return context.WithValue(ctx, requestMetaKey{}, meta)
}

// RequestMetaFromContext extracts request metadata, zero when absent.
func RequestMetaFromContext(ctx context.Context) RequestMeta {
	if v, ok := ctx.Value(requestMetaKey{}).(RequestMeta); ok {
		return v
	}

	return RequestMeta{}
}

// CreateLink creates a short link from a target URL, optional expiry and
// optional custom alias.
func (h *LinkHandler) CreateLink(ctx context.Context, req *CreateLinkRequest) (*CreateLinkResponse, error) {
	if req.Body.ExpiresAt != nil && !req.Body.ExpiresAt.After(time.Now()) {
		return nil, huma.Error422UnprocessableEntity("expiration must be in the future")
	}

	created, err := h.service.Create(ctx, link.CreateParams{
		TargetURL:   req.Body.URL,
		ExpiresAt:   req.Body.ExpiresAt,
		CustomAlias: req.Body.CustomAlias,
	})
	if err != nil {
		switch {
		case errors.Is(err, link.ErrInvalidURL):
			return nil, huma.Error422UnprocessableEntity("url must be an absolute http(s) URL")
		case errors.Is(err, link.ErrAliasTaken):
			return nil, huma.Error409Conflict("custom alias already taken")
		default:
			h.logger.Error("failed to create link", zap.Error(err))

			return nil, huma.Error500InternalServerError("failed to create link")
		}
	}

	resp := &CreateLinkResponse{}
	resp.Body = linkBody(created, h.baseURL, time.Now())
	resp.Headers.Location = resp.Body.ShortURL

	return resp, nil
}

// Redirect resolves a short code to its target URL. Inactive and expired
// links are indistinguishable from missing ones.
func (h *LinkHandler) Redirect(ctx context.Context, req *RedirectRequest) (*RedirectResponse, error) {
	meta := RequestMetaFromContext(ctx)

	target, err := h.service.Resolve(ctx, req.Code, link.ClickMeta{
		UserAgent: meta.UserAgent,
		IPAddress: meta.ClientIP,
	})
	if err != nil {
		if errors.Is(err, link.ErrNotFound) {
			return nil, huma.Error404NotFound("short link not found")
		}

		h.logger.Error("failed to resolve link", zap.String("code", req.Code), zap.Error(err))

		return nil, huma.Error500InternalServerError("failed to resolve link")
	}

	resp := &RedirectResponse{Status: http.StatusMovedPermanently}
	resp.Headers.Location = target

	return resp, nil
}

// LinkDetails returns a link and its recent clicks, including for inactive
// or expired links.
func (h *LinkHandler) LinkDetails(ctx context.Context, req *LinkDetailsRequest) (*LinkDetailsResponse, error) {
	details, err := h.service.Details(ctx, req.Code)
	if err != nil {
		if errors.Is(err, link.ErrNotFound) {
			return nil, huma.Error404NotFound("short link not found")
		}

		h.logger.Error("failed to load link details", zap.String("code", req.Code), zap.Error(err))

		return nil, huma.Error500InternalServerError("failed to load link details")
	}

	resp := &LinkDetailsResponse{}
	resp.Body.LinkBody = linkBody(&details.Link, h.baseURL, time.Now())
	resp.Body.RecentClicks = make([]ClickBody, 0, len(details.RecentClicks))

	for i := range details.RecentClicks {
		resp.Body.RecentClicks = append(resp.Body.RecentClicks, clickBody(&details.RecentClicks[i]))
	}

	return resp, nil
}

// UpdateLink partially updates a link's target URL and/or expiry.
func (h *LinkHandler) UpdateLink(ctx context.Context, req *UpdateLinkRequest) (*struct{}, error) {
	err := h.service.Update(ctx, req.Code, link.UpdateFields{
		TargetURL: req.Body.TargetURL,
		ExpiresAt: req.Body.ExpiresAt,
	})
	if err != nil {
		switch {
		case errors.Is(err, link.ErrNoOpUpdate):
			return nil, huma.Error422UnprocessableEntity("at least one of targetUrl, expiresAt is required")
		case errors.Is(err, link.ErrInvalidURL):
			return nil, huma.Error422UnprocessableEntity("targetUrl must be an absolute http(s) URL")
		case errors.Is(err, link.ErrNotFound):
			return nil, huma.Error404NotFound("short link not found")
		default:
			h.logger.Error("failed to update link", zap.String("code", req.Code), zap.Error(err))

			return nil, huma.Error500InternalServerError("failed to update link")
		}
	}

	return nil, nil
}

// DeleteLink removes a link and all of its analytics.
func (h *LinkHandler) DeleteLink(ctx context.Context, req *DeleteLinkRequest) (*struct{}, error) {
	if err := h.service.Delete(ctx, req.Code); err != nil {
		if errors.Is(err, link.ErrNotFound) {
			return nil, huma.Error404NotFound("short link not found")
		}

		h.logger.Error("failed to delete link", zap.String("code", req.Code), zap.Error(err))

		return nil, huma.Error500InternalServerError("failed to delete link")
	}

	return nil, nil
}
