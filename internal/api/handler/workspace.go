package handler

import (
	"net/http"

	"github.com/monther20/bassita/internal/api/middleware"
	"github.com/monther20/bassita/internal/api/response"
	"github.com/monther20/bassita/internal/domain"
	"github.com/monther20/bassita/internal/service"
)

// WorkspaceHandler handles workspace endpoints
type WorkspaceHandler struct {
	workspaceService *service.WorkspaceService
}

// NewWorkspaceHandler creates a new workspace handler
func NewWorkspaceHandler(workspaceService *service.WorkspaceService) *WorkspaceHandler {
	return &WorkspaceHandler{workspaceService: workspaceService}
}

// Create handles workspace creation
func (h *WorkspaceHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	var input domain.WorkspaceCreate
	if !decode(w, r, &input) {
		return
	}

	workspace, err := h.workspaceService.Create(r.Context(), userID, input)
	if err != nil {
		respondError(w, err)
		return
	}

	response.Created(w, workspace)
}

// List handles listing the user's workspaces. With an organization_id query
// parameter the list is scoped to that organization.
func (h *WorkspaceHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	if raw := r.URL.Query().Get("organization_id"); raw != "" {
		orgID, err := parseBodyID(w, raw)
		if err != nil {
			return
		}
		workspaces, err := h.workspaceService.ListForOrganization(r.Context(), userID, orgID)
		if err != nil {
			respondError(w, err)
			return
		}
		response.OK(w, workspaces)
		return
	}

	workspaces, err := h.workspaceService.ListForUser(r.Context(), userID)
	if err != nil {
		respondError(w, err)
		return
	}

	response.OK(w, workspaces)
}

// Get handles getting a workspace by ID
func (h *WorkspaceHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	workspaceID, ok := pathID(w, r, "workspaceID")
	if !ok {
		return
	}

	workspace, err := h.workspaceService.Get(r.Context(), userID, workspaceID)
	if err != nil {
		respondError(w, err)
		return
	}

	response.OK(w, workspace)
}

// Dashboard handles the aggregated organization dashboard
func (h *WorkspaceHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	orgID, ok := pathID(w, r, "organizationID")
	if !ok {
		return
	}

	dashboard, err := h.workspaceService.GetDashboard(r.Context(), userID, orgID)
	if err != nil {
		respondError(w, err)
		return
	}

	response.OK(w, dashboard)
}

// Update handles updating a workspace
func (h *WorkspaceHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	workspaceID, ok := pathID(w, r, "workspaceID")
	if !ok {
		return
	}

	var input domain.WorkspaceUpdate
	if !decode(w, r, &input) {
		return
	}

	workspace, err := h.workspaceService.Update(r.Context(), userID, workspaceID, input)
	if err != nil {
		respondError(w, err)
		return
	}

	response.OK(w, workspace)
}

// Delete handles deleting a workspace
func (h *WorkspaceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	workspaceID, ok := pathID(w, r, "workspaceID")
	if !ok {
		return
	}

	if err := h.workspaceService.Delete(r.Context(), userID, workspaceID); err != nil {
		respondError(w, err)
		return
	}

	response.NoContent(w)
}

// AddMember handles adding a member to a workspace
func (h *WorkspaceHandler) AddMember(w http.ResponseWriter, r *http.Request) {
	requesterID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	workspaceID, ok := pathID(w, r, "workspaceID")
	if !ok {
		return
	}

	var input memberInput
	if !decode(w, r, &input) {
		return
	}

	userID, err := parseBodyID(w, input.UserID)
	if err != nil {
		return
	}

	if err := h.workspaceService.AddMember(r.Context(), requesterID, workspaceID, userID, input.Role); err != nil {
		respondError(w, err)
		return
	}

	response.NoContent(w)
}

// RemoveMember handles removing a member from a workspace
func (h *WorkspaceHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	requesterID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	workspaceID, ok := pathID(w, r, "workspaceID")
	if !ok {
		return
	}

	userID, ok := pathID(w, r, "userID")
	if !ok {
		return
	}

	if err := h.workspaceService.RemoveMember(r.Context(), requesterID, workspaceID, userID); err != nil {
		respondError(w, err)
		return
	}

	response.NoContent(w)
}
