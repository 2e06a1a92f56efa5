package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Column is a named, ordered lane on a board. Order is a dense integer,
// unique within the board, defining left-to-right display.
type Column struct {
	ID         string `json:"id" bson:"id"`
	Title      string `json:"title" bson:"title"`
	BadgeColor string `json:"badge_color" bson:"badgeColor"`
	Order      int    `json:"order" bson:"order"`
}

// Label is a named, colored tag defined per board. Tasks carry copies of
// labels, not references.
type Label struct {
	ID    string `json:"id" bson:"id"`
	Name  string `json:"name" bson:"name"`
	Color string `json:"color" bson:"color"`
}

// Board is a kanban board: ordered columns containing ordered tasks.
// Columns and labels are embedded; their ids are client-constructed.
type Board struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name        string             `json:"name" bson:"name"`
	Icon        string             `json:"icon,omitempty" bson:"icon,omitempty"`
	WorkspaceID primitive.ObjectID `json:"workspace_id" bson:"workspaceId"`
	OwnerID     primitive.ObjectID `json:"owner_id" bson:"ownerId"`
	Members     []Member           `json:"members" bson:"members"`
	Columns     []Column           `json:"columns" bson:"columns"`
	Labels      []Label            `json:"labels" bson:"availableLabels"`
	CreatedAt   time.Time          `json:"created_at" bson:"createdAt"`
	UpdatedAt   time.Time          `json:"updated_at" bson:"updatedAt"`
}

// ColumnByID returns the column with the given id, or nil.
func (b *Board) ColumnByID(id string) *Column {
	for i := range b.Columns {
		if b.Columns[i].ID == id {
			return &b.Columns[i]
		}
	}
	return nil
}

// LabelByID returns the label with the given id, or nil.
func (b *Board) LabelByID(id string) *Label {
	for i := range b.Labels {
		if b.Labels[i].ID == id {
			return &b.Labels[i]
		}
	}
	return nil
}

// BoardCreate represents board creation data
type BoardCreate struct {
	Name        string `json:"name" validate:"required,max=255"`
	Icon        string `json:"icon,omitempty"`
	WorkspaceID string `json:"workspace_id" validate:"required"`
	TemplateID  string `json:"template_id,omitempty"`
}

// BoardUpdate represents board update data
type BoardUpdate struct {
	Name *string `json:"name,omitempty" validate:"omitempty,max=255"`
	Icon *string `json:"icon,omitempty"`
}

// ColumnCreate represents a new column appended to a board
type ColumnCreate struct {
	Title      string `json:"title" validate:"required,max=255"`
	BadgeColor string `json:"badge_color,omitempty"`
}

// ColumnUpdate represents a column title/color edit
type ColumnUpdate struct {
	Title      *string `json:"title,omitempty" validate:"omitempty,max=255"`
	BadgeColor *string `json:"badge_color,omitempty"`
}
