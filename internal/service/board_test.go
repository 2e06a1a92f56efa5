package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/monther20/bassita/internal/domain"
	"github.com/monther20/bassita/internal/watch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func testWorkspace(memberID primitive.ObjectID) *domain.Workspace {
	ws := &domain.Workspace{
		ID:             primitive.NewObjectID(),
		Name:           "Engineering",
		OrganizationID: primitive.NewObjectID(),
		OwnerID:        memberID,
		Members:        []domain.Member{{UserID: memberID, Role: domain.RoleOwner}},
	}
	ws.SyncMemberIDs()
	return ws
}

func newBoardServiceForTest(boardRepo *MockBoardRepository, workspaceRepo *MockWorkspaceRepository, templateRepo *MockTemplateRepository, cache Cache) *BoardService {
	return NewBoardService(boardRepo, workspaceRepo, templateRepo, cache, watch.NewHub())
}

func TestBoardCreate_BlankBoardGetsDefaults(t *testing.T) {
	userID := primitive.NewObjectID()
	ws := testWorkspace(userID)

	boardRepo := new(MockBoardRepository)
	workspaceRepo := new(MockWorkspaceRepository)
	svc := newBoardServiceForTest(boardRepo, workspaceRepo, new(MockTemplateRepository), newMemCache())

	workspaceRepo.On("GetByID", mock.Anything, ws.ID).Return(ws, nil)
	boardRepo.On("CreateWithTasks", mock.Anything, mock.AnythingOfType("*domain.Board"), mock.Anything).Run(func(args mock.Arguments) {
		args.Get(1).(*domain.Board).ID = primitive.NewObjectID()
	}).Return(nil)

	board, err := svc.Create(context.Background(), userID, domain.BoardCreate{
		Name:        "Roadmap",
		WorkspaceID: ws.ID.Hex(),
	})

	require.NoError(t, err)
	require.Len(t, board.Columns, 3)
	assert.Equal(t, "To Do", board.Columns[0].Title)
	assert.Equal(t, "In Progress", board.Columns[1].Title)
	assert.Equal(t, "Done", board.Columns[2].Title)
	for i, col := range board.Columns {
		assert.Equal(t, i, col.Order)
		assert.NotEmpty(t, col.ID)
	}
	require.Len(t, board.Labels, 6)
	for _, label := range board.Labels {
		assert.NotEmpty(t, label.ID)
	}
	assert.Equal(t, domain.RoleOwner, board.Members[0].Role)
}

func TestBoardCreate_FromTemplateCopiesBlueprint(t *testing.T) {
	userID := primitive.NewObjectID()
	ws := testWorkspace(userID)

	labelID := uuid.NewString()
	columnID := uuid.NewString()
	template := &domain.Template{
		ID:     primitive.NewObjectID(),
		Name:   "Scrum",
		Icon:   "🏃",
		Active: true,
		Columns: []domain.Column{
			{ID: columnID, Title: "Backlog", Order: 0},
			{ID: uuid.NewString(), Title: "Sprint", Order: 1},
		},
		Labels: []domain.Label{{ID: labelID, Name: "Story", Color: "#3B82F6"}},
		SampleTasks: []domain.TemplateTask{
			{Title: "Groom backlog", ColumnID: columnID, Position: 0, LabelIDs: []string{labelID, "dangling"}},
		},
	}

	boardRepo := new(MockBoardRepository)
	workspaceRepo := new(MockWorkspaceRepository)
	templateRepo := new(MockTemplateRepository)
	svc := newBoardServiceForTest(boardRepo, workspaceRepo, templateRepo, newMemCache())

	workspaceRepo.On("GetByID", mock.Anything, ws.ID).Return(ws, nil)
	templateRepo.On("GetByID", mock.Anything, template.ID).Return(template, nil)

	var seeded []domain.Task
	boardRepo.On("CreateWithTasks", mock.Anything, mock.AnythingOfType("*domain.Board"), mock.Anything).Run(func(args mock.Arguments) {
		args.Get(1).(*domain.Board).ID = primitive.NewObjectID()
		seeded = args.Get(2).([]domain.Task)
	}).Return(nil)

	board, err := svc.Create(context.Background(), userID, domain.BoardCreate{
		Name:        "Team Alpha",
		WorkspaceID: ws.ID.Hex(),
		TemplateID:  template.ID.Hex(),
	})

	require.NoError(t, err)
	assert.Equal(t, template.Columns, board.Columns, "template column ids carry over verbatim")
	assert.Equal(t, template.Labels, board.Labels)
	assert.Equal(t, "🏃", board.Icon)

	require.Len(t, seeded, 1)
	assert.Equal(t, columnID, seeded[0].ColumnID)
	require.Len(t, seeded[0].Labels, 1, "dangling label ids are dropped")
	assert.Equal(t, "Story", seeded[0].Labels[0].Name)
	assert.Equal(t, userID, seeded[0].CreatorID)
}

func TestBoardCreate_InactiveTemplateRejected(t *testing.T) {
	userID := primitive.NewObjectID()
	ws := testWorkspace(userID)
	template := &domain.Template{ID: primitive.NewObjectID(), Name: "Retired", Active: false}

	boardRepo := new(MockBoardRepository)
	workspaceRepo := new(MockWorkspaceRepository)
	templateRepo := new(MockTemplateRepository)
	svc := newBoardServiceForTest(boardRepo, workspaceRepo, templateRepo, newMemCache())

	workspaceRepo.On("GetByID", mock.Anything, ws.ID).Return(ws, nil)
	templateRepo.On("GetByID", mock.Anything, template.ID).Return(template, nil)

	_, err := svc.Create(context.Background(), userID, domain.BoardCreate{
		Name:        "Too late",
		WorkspaceID: ws.ID.Hex(),
		TemplateID:  template.ID.Hex(),
	})

	assert.ErrorIs(t, err, domain.ErrTemplateInactive)
	boardRepo.AssertNotCalled(t, "CreateWithTasks", mock.Anything, mock.Anything, mock.Anything)
}

func TestBoardAddColumn_AppendsWithDenseOrder(t *testing.T) {
	userID := primitive.NewObjectID()
	board := testBoard(userID)

	boardRepo := new(MockBoardRepository)
	workspaceRepo := new(MockWorkspaceRepository)
	svc := newBoardServiceForTest(boardRepo, workspaceRepo, new(MockTemplateRepository), newMemCache())

	boardRepo.On("GetByID", mock.Anything, board.ID).Return(board, nil)
	workspaceRepo.On("GetByID", mock.Anything, board.WorkspaceID).Return(testWorkspace(userID), nil)

	var written []domain.Column
	boardRepo.On("ReplaceColumns", mock.Anything, board.ID, mock.Anything).Run(func(args mock.Arguments) {
		written = args.Get(2).([]domain.Column)
	}).Return(nil)

	_, err := svc.AddColumn(context.Background(), userID, board.ID, domain.ColumnCreate{Title: "Review"})
	require.NoError(t, err)

	require.Len(t, written, 4)
	assert.Equal(t, "Review", written[3].Title)
	assertDenseOrders(t, written)
}

func TestBoardReorderColumns_RenumbersDensely(t *testing.T) {
	userID := primitive.NewObjectID()
	board := testBoard(userID)

	boardRepo := new(MockBoardRepository)
	workspaceRepo := new(MockWorkspaceRepository)
	svc := newBoardServiceForTest(boardRepo, workspaceRepo, new(MockTemplateRepository), newMemCache())

	boardRepo.On("GetByID", mock.Anything, board.ID).Return(board, nil)
	workspaceRepo.On("GetByID", mock.Anything, board.WorkspaceID).Return(testWorkspace(userID), nil)

	var written []domain.Column
	boardRepo.On("ReplaceColumns", mock.Anything, board.ID, mock.Anything).Run(func(args mock.Arguments) {
		written = args.Get(2).([]domain.Column)
	}).Return(nil)

	reversed := []string{board.Columns[2].ID, board.Columns[1].ID, board.Columns[0].ID}
	_, err := svc.ReorderColumns(context.Background(), userID, board.ID, reversed)
	require.NoError(t, err)

	require.Len(t, written, 3)
	assert.Equal(t, "Done", written[0].Title)
	assert.Equal(t, "To Do", written[2].Title)
	assertDenseOrders(t, written)
}

func TestBoardReorderColumns_RejectsPartialOrDuplicateSets(t *testing.T) {
	userID := primitive.NewObjectID()
	board := testBoard(userID)

	boardRepo := new(MockBoardRepository)
	workspaceRepo := new(MockWorkspaceRepository)
	svc := newBoardServiceForTest(boardRepo, workspaceRepo, new(MockTemplateRepository), newMemCache())

	boardRepo.On("GetByID", mock.Anything, board.ID).Return(board, nil)

	_, err := svc.ReorderColumns(context.Background(), userID, board.ID, []string{board.Columns[0].ID})
	assert.ErrorIs(t, err, domain.ErrColumnNotFound)

	dup := []string{board.Columns[0].ID, board.Columns[0].ID, board.Columns[1].ID}
	_, err = svc.ReorderColumns(context.Background(), userID, board.ID, dup)
	assert.ErrorIs(t, err, domain.ErrColumnNotFound)
	boardRepo.AssertNotCalled(t, "ReplaceColumns", mock.Anything, mock.Anything, mock.Anything)
}

func TestBoardDeleteColumn_ClosesOrderGap(t *testing.T) {
	userID := primitive.NewObjectID()
	board := testBoard(userID)

	boardRepo := new(MockBoardRepository)
	workspaceRepo := new(MockWorkspaceRepository)
	svc := newBoardServiceForTest(boardRepo, workspaceRepo, new(MockTemplateRepository), newMemCache())

	boardRepo.On("GetByID", mock.Anything, board.ID).Return(board, nil)
	workspaceRepo.On("GetByID", mock.Anything, board.WorkspaceID).Return(testWorkspace(userID), nil)

	var written []domain.Column
	boardRepo.On("ReplaceColumns", mock.Anything, board.ID, mock.Anything).Run(func(args mock.Arguments) {
		written = args.Get(2).([]domain.Column)
	}).Return(nil)

	_, err := svc.DeleteColumn(context.Background(), userID, board.ID, board.Columns[1].ID)
	require.NoError(t, err)

	require.Len(t, written, 2)
	assert.Equal(t, "To Do", written[0].Title)
	assert.Equal(t, "Done", written[1].Title)
	assertDenseOrders(t, written)
}

func TestBoardDelete_RequiresOwner(t *testing.T) {
	owner := primitive.NewObjectID()
	admin := primitive.NewObjectID()
	board := testBoard(owner)
	board.Members = append(board.Members, domain.Member{UserID: admin, Role: domain.RoleAdmin})

	boardRepo := new(MockBoardRepository)
	svc := newBoardServiceForTest(boardRepo, new(MockWorkspaceRepository), new(MockTemplateRepository), newMemCache())

	boardRepo.On("GetByID", mock.Anything, board.ID).Return(board, nil)

	err := svc.Delete(context.Background(), admin, board.ID)
	assert.ErrorIs(t, err, domain.ErrOwnerRequired)
	boardRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func assertDenseOrders(t *testing.T, columns []domain.Column) {
	t.Helper()
	seen := make(map[string]bool, len(columns))
	for i, col := range columns {
		assert.Equal(t, i, col.Order, "orders must be dense 0..n-1")
		assert.False(t, seen[col.ID], "column ids must be unique")
		seen[col.ID] = true
	}
}
