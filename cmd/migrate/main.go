package main

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/monther20/bassita/internal/config"
	"github.com/monther20/bassita/internal/domain"
	"github.com/monther20/bassita/internal/repository/mongo"
)

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	fmt.Printf("Connecting to MongoDB at %s...\n", cfg.Mongo.URI)

	ctx := context.Background()
	db, err := mongo.NewDB(ctx, cfg.Mongo)
	if err != nil {
		panic(fmt.Sprintf("Failed to connect to MongoDB: %v", err))
	}
	defer db.Close()

	fmt.Println("Ensuring indexes...")
	if err := db.EnsureIndexes(ctx); err != nil {
		panic(fmt.Sprintf("Failed to ensure indexes: %v", err))
	}
	fmt.Println("Indexes ensured")

	templateRepo := mongo.NewTemplateRepository(db)
	existing, err := templateRepo.List(ctx, false)
	if err != nil {
		panic(fmt.Sprintf("Failed to list templates: %v", err))
	}
	if len(existing) > 0 {
		fmt.Printf("Template catalog already seeded (%d templates), skipping\n", len(existing))
		return
	}

	fmt.Println("Seeding template catalog...")
	for _, template := range builtinTemplates() {
		t := template
		if err := templateRepo.Create(ctx, &t); err != nil {
			panic(fmt.Sprintf("Failed to seed template %q: %v", t.Name, err))
		}
		fmt.Printf("Seeded template: %s\n", t.Name)
	}
	fmt.Println("Done")
}

// builtinTemplates returns the starter catalog. Column and label ids are
// generated fresh on every run; sample tasks reference them by value so the
// blueprint stays internally consistent.
func builtinTemplates() []domain.Template {
	sprintTodo := uuid.NewString()
	sprintProgress := uuid.NewString()
	sprintReview := uuid.NewString()
	sprintDone := uuid.NewString()
	sprintBug := uuid.NewString()
	sprintFeature := uuid.NewString()

	contentIdeas := uuid.NewString()
	contentDrafting := uuid.NewString()
	contentPublished := uuid.NewString()

	return []domain.Template{
		{
			Name:        "Sprint Board",
			Description: "Track a development sprint from backlog to done",
			Icon:        "🏃",
			Category:    "engineering",
			Active:      true,
			Columns: []domain.Column{
				{ID: sprintTodo, Title: "To Do", BadgeColor: "#6B7280", Order: 0},
				{ID: sprintProgress, Title: "In Progress", BadgeColor: "#3B82F6", Order: 1},
				{ID: sprintReview, Title: "In Review", BadgeColor: "#F59E0B", Order: 2},
				{ID: sprintDone, Title: "Done", BadgeColor: "#10B981", Order: 3},
			},
			Labels: []domain.Label{
				{ID: sprintBug, Name: "Bug", Color: "#EF4444"},
				{ID: sprintFeature, Name: "Feature", Color: "#3B82F6"},
			},
			SampleTasks: []domain.TemplateTask{
				{
					Title:    "Set up the project board",
					ColumnID: sprintTodo,
					Position: 0,
					LabelIDs: []string{sprintFeature},
				},
				{
					Title:    "Triage open bugs",
					ColumnID: sprintTodo,
					Position: 1,
					LabelIDs: []string{sprintBug},
				},
			},
		},
		{
			Name:        "Content Calendar",
			Description: "Plan content from idea to publication",
			Icon:        "📝",
			Category:    "marketing",
			Active:      true,
			Columns: []domain.Column{
				{ID: contentIdeas, Title: "Ideas", BadgeColor: "#8B5CF6", Order: 0},
				{ID: contentDrafting, Title: "Drafting", BadgeColor: "#3B82F6", Order: 1},
				{ID: contentPublished, Title: "Published", BadgeColor: "#10B981", Order: 2},
			},
			Labels: []domain.Label{
				{ID: uuid.NewString(), Name: "Blog", Color: "#3B82F6"},
				{ID: uuid.NewString(), Name: "Social", Color: "#EC4899"},
			},
			SampleTasks: []domain.TemplateTask{
				{
					Title:    "Brainstorm next month's topics",
					ColumnID: contentIdeas,
					Position: 0,
				},
			},
		},
	}
}
