package handler

import (
	"net/http"

	"github.com/monther20/bassita/internal/api/middleware"
	"github.com/monther20/bassita/internal/api/response"
	"github.com/monther20/bassita/internal/domain"
	"github.com/monther20/bassita/internal/service"
)

// OrganizationHandler handles organization endpoints
type OrganizationHandler struct {
	orgService *service.OrganizationService
}

// NewOrganizationHandler creates a new organization handler
func NewOrganizationHandler(orgService *service.OrganizationService) *OrganizationHandler {
	return &OrganizationHandler{orgService: orgService}
}

// Create handles organization creation
func (h *OrganizationHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	var input domain.OrganizationCreate
	if !decode(w, r, &input) {
		return
	}

	org, err := h.orgService.Create(r.Context(), userID, input)
	if err != nil {
		respondError(w, err)
		return
	}

	response.Created(w, org)
}

// List handles listing the user's organizations
func (h *OrganizationHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	orgs, err := h.orgService.ListForUser(r.Context(), userID)
	if err != nil {
		respondError(w, err)
		return
	}

	response.OK(w, orgs)
}

// Get handles getting an organization by ID
func (h *OrganizationHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	orgID, ok := pathID(w, r, "organizationID")
	if !ok {
		return
	}

	org, err := h.orgService.Get(r.Context(), userID, orgID)
	if err != nil {
		respondError(w, err)
		return
	}

	response.OK(w, org)
}

// Update handles updating an organization
func (h *OrganizationHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	orgID, ok := pathID(w, r, "organizationID")
	if !ok {
		return
	}

	var input domain.OrganizationUpdate
	if !decode(w, r, &input) {
		return
	}

	org, err := h.orgService.Update(r.Context(), userID, orgID, input)
	if err != nil {
		respondError(w, err)
		return
	}

	response.OK(w, org)
}

// Delete handles deleting an organization
func (h *OrganizationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	orgID, ok := pathID(w, r, "organizationID")
	if !ok {
		return
	}

	if err := h.orgService.Delete(r.Context(), userID, orgID); err != nil {
		respondError(w, err)
		return
	}

	response.NoContent(w)
}

type memberInput struct {
	UserID string `json:"user_id" validate:"required"`
	Role   string `json:"role" validate:"required"`
}

// AddMember handles adding a member to an organization
func (h *OrganizationHandler) AddMember(w http.ResponseWriter, r *http.Request) {
	requesterID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	orgID, ok := pathID(w, r, "organizationID")
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

	if err := h.orgService.AddMember(r.Context(), requesterID, orgID, userID, input.Role); err != nil {
		respondError(w, err)
		return
	}

	response.NoContent(w)
}

// RemoveMember handles removing a member from an organization
func (h *OrganizationHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	requesterID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	orgID, ok := pathID(w, r, "organizationID")
	if !ok {
		return
	}

	userID, ok := pathID(w, r, "userID")
	if !ok {
		return
	}

	if err := h.orgService.RemoveMember(r.Context(), requesterID, orgID, userID); err != nil {
		respondError(w, err)
		return
	}

	response.NoContent(w)
}

// Switch handles a tenant switch: caches scoped to the previous
// organization are evicted
func (h *OrganizationHandler) Switch(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	var input struct {
		PreviousOrganizationID string `json:"previous_organization_id" validate:"required"`
	}
	if !decode(w, r, &input) {
		return
	}

	prevOrgID, err := parseBodyID(w, input.PreviousOrganizationID)
	if err != nil {
		return
	}

	if err := h.orgService.Switch(r.Context(), userID, prevOrgID); err != nil {
		respondError(w, err)
		return
	}

	response.NoContent(w)
}
