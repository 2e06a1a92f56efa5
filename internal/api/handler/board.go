package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/monther20/bassita/internal/api/middleware"
	"github.com/monther20/bassita/internal/api/response"
	"github.com/monther20/bassita/internal/domain"
	"github.com/monther20/bassita/internal/service"
)

// BoardHandler handles board, column and label endpoints
type BoardHandler struct {
	boardService *service.BoardService
}

// NewBoardHandler creates a new board handler
func NewBoardHandler(boardService *service.BoardService) *BoardHandler {
	return &BoardHandler{boardService: boardService}
}

// Create handles board creation, optionally from a template
func (h *BoardHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	var input domain.BoardCreate
	if !decode(w, r, &input) {
		return
	}

	board, err := h.boardService.Create(r.Context(), userID, input)
	if err != nil {
		respondError(w, err)
		return
	}

	response.Created(w, board)
}

// Get handles getting a board by ID
func (h *BoardHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	boardID, ok := pathID(w, r, "boardID")
	if !ok {
		return
	}

	board, err := h.boardService.Get(r.Context(), userID, boardID)
	if err != nil {
		respondError(w, err)
		return
	}

	response.OK(w, board)
}

// ListByWorkspace handles listing a workspace's boards
func (h *BoardHandler) ListByWorkspace(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	workspaceID, ok := pathID(w, r, "workspaceID")
	if !ok {
		return
	}

	boards, err := h.boardService.ListByWorkspace(r.Context(), userID, workspaceID)
	if err != nil {
		respondError(w, err)
		return
	}

	response.OK(w, boards)
}

// Sidebar handles the navigation board list for one organization
func (h *BoardHandler) Sidebar(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	orgID, ok := pathID(w, r, "organizationID")
	if !ok {
		return
	}

	boards, err := h.boardService.Sidebar(r.Context(), userID, orgID)
	if err != nil {
		respondError(w, err)
		return
	}

	response.OK(w, boards)
}

// Update handles updating a board's name or icon
func (h *BoardHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	boardID, ok := pathID(w, r, "boardID")
	if !ok {
		return
	}

	var input domain.BoardUpdate
	if !decode(w, r, &input) {
		return
	}

	board, err := h.boardService.Update(r.Context(), userID, boardID, input)
	if err != nil {
		respondError(w, err)
		return
	}

	response.OK(w, board)
}

// Delete handles deleting a board and its tasks
func (h *BoardHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	boardID, ok := pathID(w, r, "boardID")
	if !ok {
		return
	}

	if err := h.boardService.Delete(r.Context(), userID, boardID); err != nil {
		respondError(w, err)
		return
	}

	response.NoContent(w)
}

// AddColumn handles appending a column to a board
func (h *BoardHandler) AddColumn(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	boardID, ok := pathID(w, r, "boardID")
	if !ok {
		return
	}

	var input domain.ColumnCreate
	if !decode(w, r, &input) {
		return
	}

	board, err := h.boardService.AddColumn(r.Context(), userID, boardID, input)
	if err != nil {
		respondError(w, err)
		return
	}

	response.Created(w, board)
}

// UpdateColumn handles editing a column's title or badge color
func (h *BoardHandler) UpdateColumn(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	boardID, ok := pathID(w, r, "boardID")
	if !ok {
		return
	}

	columnID := chi.URLParam(r, "columnID")
	if columnID == "" {
		response.BadRequest(w, "missing columnID")
		return
	}

	var input domain.ColumnUpdate
	if !decode(w, r, &input) {
		return
	}

	board, err := h.boardService.UpdateColumn(r.Context(), userID, boardID, columnID, input)
	if err != nil {
		respondError(w, err)
		return
	}

	response.OK(w, board)
}

// ReorderColumns handles rewriting the column order
func (h *BoardHandler) ReorderColumns(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	boardID, ok := pathID(w, r, "boardID")
	if !ok {
		return
	}

	var input struct {
		ColumnIDs []string `json:"column_ids" validate:"required,min=1"`
	}
	if !decode(w, r, &input) {
		return
	}

	board, err := h.boardService.ReorderColumns(r.Context(), userID, boardID, input.ColumnIDs)
	if err != nil {
		respondError(w, err)
		return
	}

	response.OK(w, board)
}

// DeleteColumn handles removing a column
func (h *BoardHandler) DeleteColumn(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	boardID, ok := pathID(w, r, "boardID")
	if !ok {
		return
	}

	columnID := chi.URLParam(r, "columnID")
	if columnID == "" {
		response.BadRequest(w, "missing columnID")
		return
	}

	board, err := h.boardService.DeleteColumn(r.Context(), userID, boardID, columnID)
	if err != nil {
		respondError(w, err)
		return
	}

	response.OK(w, board)
}

// ReplaceLabels handles rewriting the board's label palette
func (h *BoardHandler) ReplaceLabels(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	boardID, ok := pathID(w, r, "boardID")
	if !ok {
		return
	}

	var input struct {
		Labels []domain.Label `json:"labels" validate:"required"`
	}
	if !decode(w, r, &input) {
		return
	}

	board, err := h.boardService.ReplaceLabels(r.Context(), userID, boardID, input.Labels)
	if err != nil {
		respondError(w, err)
		return
	}

	response.OK(w, board)
}

// AddMember handles adding a member to a board
func (h *BoardHandler) AddMember(w http.ResponseWriter, r *http.Request) {
	requesterID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	boardID, ok := pathID(w, r, "boardID")
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

	if err := h.boardService.AddMember(r.Context(), requesterID, boardID, userID, input.Role); err != nil {
		respondError(w, err)
		return
	}

	response.NoContent(w)
}

// RemoveMember handles removing a member from a board
func (h *BoardHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	requesterID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	boardID, ok := pathID(w, r, "boardID")
	if !ok {
		return
	}

	userID, ok := pathID(w, r, "userID")
	if !ok {
		return
	}

	if err := h.boardService.RemoveMember(r.Context(), requesterID, boardID, userID); err != nil {
		respondError(w, err)
		return
	}

	response.NoContent(w)
}
