package handler

import (
	"net/http"

	"github.com/monther20/bassita/internal/api/middleware"
	"github.com/monther20/bassita/internal/api/response"
	"github.com/monther20/bassita/internal/domain"
	"github.com/monther20/bassita/internal/service"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TaskHandler handles task endpoints
type TaskHandler struct {
	taskService *service.TaskService
}

// NewTaskHandler creates a new task handler
func NewTaskHandler(taskService *service.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

// Create handles task creation; the task is appended to its column
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	var input domain.TaskCreate
	if !decode(w, r, &input) {
		return
	}

	task, err := h.taskService.Create(r.Context(), userID, input)
	if err != nil {
		respondError(w, err)
		return
	}

	response.Created(w, task)
}

// Get handles getting a task by ID
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	taskID, ok := pathID(w, r, "taskID")
	if !ok {
		return
	}

	task, err := h.taskService.Get(r.Context(), userID, taskID)
	if err != nil {
		respondError(w, err)
		return
	}

	response.OK(w, task)
}

// ListByBoard handles listing a board's tasks in display order
func (h *TaskHandler) ListByBoard(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	boardID, ok := pathID(w, r, "boardID")
	if !ok {
		return
	}

	tasks, err := h.taskService.ListByBoard(r.Context(), userID, boardID)
	if err != nil {
		respondError(w, err)
		return
	}

	response.OK(w, tasks)
}

// Update handles editing a task
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	taskID, ok := pathID(w, r, "taskID")
	if !ok {
		return
	}

	var input domain.TaskUpdate
	if !decode(w, r, &input) {
		return
	}

	task, err := h.taskService.Update(r.Context(), userID, taskID, input)
	if err != nil {
		respondError(w, err)
		return
	}

	response.OK(w, task)
}

// Move handles a drag-and-drop move
func (h *TaskHandler) Move(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	taskID, ok := pathID(w, r, "taskID")
	if !ok {
		return
	}

	var input domain.TaskMove
	if !decode(w, r, &input) {
		return
	}

	task, err := h.taskService.Move(r.Context(), userID, taskID, input)
	if err != nil {
		respondError(w, err)
		return
	}

	response.OK(w, task)
}

// Reorder handles a batched position rewrite after a multi-task drag
func (h *TaskHandler) Reorder(w http.ResponseWriter, r *http.Request) {
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
		Tasks []struct {
			ID       string `json:"id" validate:"required"`
			Position int    `json:"position"`
			ColumnID string `json:"column_id,omitempty"`
		} `json:"tasks" validate:"required,min=1,dive"`
	}
	if !decode(w, r, &input) {
		return
	}

	updates := make([]domain.TaskPositionUpdate, 0, len(input.Tasks))
	for _, t := range input.Tasks {
		id, err := primitive.ObjectIDFromHex(t.ID)
		if err != nil {
			response.BadRequest(w, "invalid task id")
			return
		}
		updates = append(updates, domain.TaskPositionUpdate{ID: id, Position: t.Position, ColumnID: t.ColumnID})
	}

	if err := h.taskService.Reorder(r.Context(), userID, boardID, updates); err != nil {
		respondError(w, err)
		return
	}

	response.NoContent(w)
}

// Delete handles deleting a task
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	taskID, ok := pathID(w, r, "taskID")
	if !ok {
		return
	}

	if err := h.taskService.Delete(r.Context(), userID, taskID); err != nil {
		respondError(w, err)
		return
	}

	response.NoContent(w)
}
