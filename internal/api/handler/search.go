package handler

import (
	"net/http"

	"github.com/monther20/bassita/internal/api/middleware"
	"github.com/monther20/bassita/internal/api/response"
	"github.com/monther20/bassita/internal/service"
)

// SearchHandler handles search endpoints
type SearchHandler struct {
	searchService *service.SearchService
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(searchService *service.SearchService) *SearchHandler {
	return &SearchHandler{searchService: searchService}
}

// Search runs a query over the user's accessible entities in one
// organization. An optional kind parameter restricts the result to
// organizations, workspaces or boards.
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	orgID, ok := pathID(w, r, "organizationID")
	if !ok {
		return
	}

	query := r.URL.Query().Get("q")
	if query == "" {
		response.BadRequest(w, "missing query parameter q")
		return
	}

	switch r.URL.Query().Get("kind") {
	case "":
		results, err := h.searchService.Search(r.Context(), userID, orgID, query)
		if err != nil {
			respondError(w, err)
			return
		}
		response.OK(w, results)
	case "organization":
		results, err := h.searchService.SearchOrganizations(r.Context(), userID, orgID, query)
		if err != nil {
			respondError(w, err)
			return
		}
		response.OK(w, results)
	case "workspace":
		results, err := h.searchService.SearchWorkspaces(r.Context(), userID, orgID, query)
		if err != nil {
			respondError(w, err)
			return
		}
		response.OK(w, results)
	case "board":
		results, err := h.searchService.SearchBoards(r.Context(), userID, orgID, query)
		if err != nil {
			respondError(w, err)
			return
		}
		response.OK(w, results)
	default:
		response.BadRequest(w, "unknown kind; expected organization, workspace or board")
	}
}
