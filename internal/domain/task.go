package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Task is a unit of work with a position within a column. Position is
// strictly orderable but not required to be dense; display order is
// position ascending with createdAt then id as tie-breaks.
type Task struct {
	ID          primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	Title       string               `json:"title" bson:"title"`
	Description string               `json:"description,omitempty" bson:"description,omitempty"`
	BoardID     primitive.ObjectID   `json:"board_id" bson:"boardId"`
	ColumnID    string               `json:"column_id" bson:"columnId"`
	Position    int                  `json:"position" bson:"position"`
	AssigneeIDs []primitive.ObjectID `json:"assignee_ids" bson:"assigneeIds"`
	Labels      []Label              `json:"labels" bson:"labels"`
	Icon        string               `json:"icon,omitempty" bson:"icon,omitempty"`
	CreatorID   primitive.ObjectID   `json:"creator_id" bson:"creatorId"`
	CreatedAt   time.Time            `json:"created_at" bson:"createdAt"`
	UpdatedAt   time.Time            `json:"updated_at" bson:"updatedAt"`
}

// TaskCreate represents task creation data. The task is appended to the
// target column; position is assigned by the service.
type TaskCreate struct {
	Title       string   `json:"title" validate:"required,max=500"`
	Description string   `json:"description,omitempty"`
	BoardID     string   `json:"board_id" validate:"required"`
	ColumnID    string   `json:"column_id" validate:"required"`
	LabelIDs    []string `json:"label_ids,omitempty"`
	AssigneeIDs []string `json:"assignee_ids,omitempty"`
	Icon        string   `json:"icon,omitempty"`
}

// TaskUpdate represents task update data (merge-patch semantics)
type TaskUpdate struct {
	Title       *string   `json:"title,omitempty" validate:"omitempty,max=500"`
	Description *string   `json:"description,omitempty"`
	LabelIDs    *[]string `json:"label_ids,omitempty"`
	AssigneeIDs *[]string `json:"assignee_ids,omitempty"`
	Icon        *string   `json:"icon,omitempty"`
}

// TaskMove represents a drag-and-drop move. A nil Position means append to
// the destination column.
type TaskMove struct {
	ColumnID string `json:"column_id" validate:"required"`
	Position *int   `json:"position,omitempty"`
}

// TaskPositionUpdate is one entry of a batched reorder.
type TaskPositionUpdate struct {
	ID       primitive.ObjectID `json:"id"`
	Position int                `json:"position"`
	ColumnID string             `json:"column_id,omitempty"`
}
