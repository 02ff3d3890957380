package handlers

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

// RegisterRoutes registers the link lifecycle endpoints.
func RegisterRoutes(api huma.API, linkHandler *LinkHandler, healthHandler *HealthHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "create-link",
		Method:      http.MethodPost,
		Path:        "/api/links",
		Summary:     "Create short link",
		Description: "Shortens a URL, optionally under a caller-chosen alias and with an expiry.",
		Tags:        []string{"Links"},
	}, linkHandler.CreateLink)

	huma.Register(api, huma.Operation{
		OperationID: "redirect",
		Method:      http.MethodGet,
		Path:        "/{code}",
		Summary:     "Redirect to target URL",
		Description: "Resolves an accessible short link and records the click asynchronously.",
		Tags:        []string{"Links"},
	}, linkHandler.Redirect)

	huma.Register(api, huma.Operation{
		OperationID: "get-link-details",
		Method:      http.MethodGet,
		Path:        "/api/links/{code}",
		Summary:     "Get link details",
		Description: "Returns the link and its most recent clicks, newest first.",
		Tags:        []string{"Links"},
	}, linkHandler.LinkDetails)

	huma.Register(api, huma.Operation{
		OperationID:   "update-link",
		Method:        http.MethodPatch,
		Path:          "/api/links/{code}",
		Summary:       "Update link",
		Description:   "Partially updates the target URL and/or expiry.",
		Tags:          []string{"Links"},
		DefaultStatus: http.StatusNoContent,
	}, linkHandler.UpdateLink)

	huma.Register(api, huma.Operation{
		OperationID:   "delete-link",
		Method:        http.MethodDelete,
		Path:          "/api/links/{code}",
		Summary:       "Delete link",
		Description:   "Hard-deletes the link and all of its click analytics.",
		Tags:          []string{"Links"},
		DefaultStatus: http.StatusNoContent,
	}, linkHandler.DeleteLink)

	huma.Register(api, huma.Operation{
		OperationID: "health",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
		Tags:        []string{"Health"},
	}, healthHandler.Check)
}
