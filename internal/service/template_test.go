package service

import (
	"context"
	"testing"

	"github.com/monther20/bassita/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestTemplateList_CachedAfterFirstRead(t *testing.T) {
	templates := []domain.Template{
		{ID: primitive.NewObjectID(), Name: "Kanban", Active: true},
		{ID: primitive.NewObjectID(), Name: "Scrum", Active: true},
	}

	templateRepo := new(MockTemplateRepository)
	svc := NewTemplateService(templateRepo, newMemCache())

	templateRepo.On("List", mock.Anything, true).Return(templates, nil).Once()

	first, err := svc.List(context.Background())
	require.NoError(t, err)
	second, err := svc.List(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	templateRepo.AssertNumberOfCalls(t, "List", 1)
}

func TestTemplateGet_UnknownIDFails(t *testing.T) {
	templateRepo := new(MockTemplateRepository)
	svc := NewTemplateService(templateRepo, newMemCache())

	id := primitive.NewObjectID()
	templateRepo.On("GetByID", mock.Anything, id).Return(nil, nil)

	_, err := svc.Get(context.Background(), id)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
