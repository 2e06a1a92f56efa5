package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TemplateTask is a sample task inside a template. ColumnID and LabelIDs
// reference the template's own columns and labels.
type TemplateTask struct {
	Title       string   `json:"title" bson:"title"`
	Description string   `json:"description,omitempty" bson:"description,omitempty"`
	ColumnID    string   `json:"column_id" bson:"columnId"`
	Position    int      `json:"position" bson:"position"`
	LabelIDs    []string `json:"label_ids,omitempty" bson:"labelIds,omitempty"`
	Icon        string   `json:"icon,omitempty" bson:"icon,omitempty"`
}

// Template is a reusable board blueprint.
type Template struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name        string             `json:"name" bson:"name"`
	Description string             `json:"description,omitempty" bson:"description,omitempty"`
	Icon        string             `json:"icon,omitempty" bson:"icon,omitempty"`
	Category    string             `json:"category,omitempty" bson:"category,omitempty"`
	Columns     []Column           `json:"columns" bson:"columns"`
	Labels      []Label            `json:"labels" bson:"labels"`
	SampleTasks []TemplateTask     `json:"sample_tasks,omitempty" bson:"sampleTasks,omitempty"`
	Active      bool               `json:"active" bson:"active"`
	CreatedAt   time.Time          `json:"created_at" bson:"createdAt"`
	UpdatedAt   time.Time          `json:"updated_at" bson:"updatedAt"`
}
