package handler

import (
	"net/http"

	"github.com/monther20/bassita/internal/api/response"
	"github.com/monther20/bassita/internal/service"
)

// TemplateHandler handles board template endpoints
type TemplateHandler struct {
	templateService *service.TemplateService
}

// NewTemplateHandler creates a new template handler
func NewTemplateHandler(templateService *service.TemplateService) *TemplateHandler {
	return &TemplateHandler{templateService: templateService}
}

// List handles listing the active templates
func (h *TemplateHandler) List(w http.ResponseWriter, r *http.Request) {
	templates, err := h.templateService.List(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}

	response.OK(w, templates)
}

// Get handles getting a template by ID
func (h *TemplateHandler) Get(w http.ResponseWriter, r *http.Request) {
	templateID, ok := pathID(w, r, "templateID")
	if !ok {
		return
	}

	template, err := h.templateService.Get(r.Context(), templateID)
	if err != nil {
		respondError(w, err)
		return
	}

	response.OK(w, template)
}
