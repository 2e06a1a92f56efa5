package mongo

import (
	"context"
	"errors"
	"fmt"

	"github.com/monther20/bassita/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// TemplateRepository handles the board template catalog
type TemplateRepository struct {
	db *DB
}

// NewTemplateRepository creates a new template repository
func NewTemplateRepository(db *DB) *TemplateRepository {
	return &TemplateRepository{db: db}
}

// List retrieves templates, optionally only active ones
func (r *TemplateRepository) List(ctx context.Context, activeOnly bool) ([]domain.Template, error) {
	filter := bson.M{}
	if activeOnly {
		filter["active"] = true
	}

	opts := options.Find().SetSort(bson.D{{Key: "category", Value: 1}, {Key: "name", Value: 1}})
	cursor, err := r.db.Collection(collTemplates).Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	defer cursor.Close(ctx)

	var templates []domain.Template
	if err := cursor.All(ctx, &templates); err != nil {
		return nil, fmt.Errorf("failed to decode templates: %w", err)
	}
	return templates, nil
}

// GetByID retrieves a template by id, or (nil, nil) when absent
func (r *TemplateRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Template, error) {
	var template domain.Template
	err := r.db.Collection(collTemplates).FindOne(ctx, bson.M{"_id": id}).Decode(&template)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get template: %w", err)
	}
	return &template, nil
}

// Create inserts a template into the catalog
func (r *TemplateRepository) Create(ctx context.Context, template *domain.Template) error {
	ts := now()
	template.CreatedAt = ts
	template.UpdatedAt = ts

	res, err := r.db.Collection(collTemplates).InsertOne(ctx, template)
	if err != nil {
		return fmt.Errorf("failed to create template: %w", err)
	}
	template.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}
