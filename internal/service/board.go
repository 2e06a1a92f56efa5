package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/monther20/bassita/internal/domain"
	"github.com/monther20/bassita/internal/metrics"
	"github.com/monther20/bassita/internal/repository/redis"
	"github.com/monther20/bassita/internal/watch"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BoardService handles board, column and label operations
type BoardService struct {
	boardRepo     BoardRepository
	workspaceRepo WorkspaceRepository
	templateRepo  TemplateRepository
	cache         Cache
	hub           *watch.Hub
}

// NewBoardService creates a new board service
func NewBoardService(boardRepo BoardRepository, workspaceRepo WorkspaceRepository, templateRepo TemplateRepository, cache Cache, hub *watch.Hub) *BoardService {
	return &BoardService{
		boardRepo:     boardRepo,
		workspaceRepo: workspaceRepo,
		templateRepo:  templateRepo,
		cache:         cache,
		hub:           hub,
	}
}

// defaultColumns returns the three starting lanes of a blank board.
func defaultColumns() []domain.Column {
	return []domain.Column{
		{ID: uuid.NewString(), Title: "To Do", BadgeColor: "#6B7280", Order: 0},
		{ID: uuid.NewString(), Title: "In Progress", BadgeColor: "#3B82F6", Order: 1},
		{ID: uuid.NewString(), Title: "Done", BadgeColor: "#10B981", Order: 2},
	}
}

// defaultLabels returns the starting label palette of a blank board.
func defaultLabels() []domain.Label {
	return []domain.Label{
		{ID: uuid.NewString(), Name: "Bug", Color: "#EF4444"},
		{ID: uuid.NewString(), Name: "Feature", Color: "#3B82F6"},
		{ID: uuid.NewString(), Name: "Enhancement", Color: "#8B5CF6"},
		{ID: uuid.NewString(), Name: "Documentation", Color: "#10B981"},
		{ID: uuid.NewString(), Name: "Design", Color: "#F59E0B"},
		{ID: uuid.NewString(), Name: "Urgent", Color: "#DC2626"},
	}
}

// Create creates a board in a workspace. With a template id the board copies
// the template's columns, labels and sample tasks; otherwise it starts with
// the default columns and labels. Template instantiation is atomic: the
// board and its seed tasks land together or not at all.
func (s *BoardService) Create(ctx context.Context, userID primitive.ObjectID, input domain.BoardCreate) (*domain.Board, error) {
	workspaceID, err := parseID(input.WorkspaceID)
	if err != nil {
		return nil, err
	}

	workspace, err := s.workspaceRepo.GetByID(ctx, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to get workspace: %w", err)
	}
	if workspace == nil {
		return nil, domain.ErrNotFound
	}
	if err := requireMember(workspace.Members, userID); err != nil {
		return nil, err
	}

	board := &domain.Board{
		Name:        input.Name,
		Icon:        input.Icon,
		WorkspaceID: workspaceID,
		OwnerID:     userID,
		Members:     []domain.Member{{UserID: userID, Role: domain.RoleOwner, JoinedAt: time.Now().UTC()}},
	}

	var seedTasks []domain.Task
	if input.TemplateID != "" {
		templateID, err := parseID(input.TemplateID)
		if err != nil {
			return nil, err
		}
		template, err := s.templateRepo.GetByID(ctx, templateID)
		if err != nil {
			return nil, fmt.Errorf("failed to get template: %w", err)
		}
		if template == nil {
			return nil, domain.ErrNotFound
		}
		if !template.Active {
			return nil, domain.ErrTemplateInactive
		}
		board.Columns = append([]domain.Column(nil), template.Columns...)
		board.Labels = append([]domain.Label(nil), template.Labels...)
		if input.Icon == "" {
			board.Icon = template.Icon
		}
		seedTasks = templateTasks(template, userID)
	} else {
		board.Columns = defaultColumns()
		board.Labels = defaultLabels()
	}

	m := &redis.Mutation{
		Kind:        redis.MutationBoardCreated,
		UserID:      userID.Hex(),
		WorkspaceID: workspaceID.Hex(),
	}
	if !workspace.OrganizationID.IsZero() {
		m.OrganizationID = workspace.OrganizationID.Hex()
	}
	err = mutate(ctx, s.cache, m, func(cctx context.Context) error {
		if err := s.boardRepo.CreateWithTasks(cctx, board, seedTasks); err != nil {
			return err
		}
		m.BoardID = board.ID.Hex()
		return nil
	})
	if err != nil {
		return nil, err
	}

	return board, nil
}

// templateTasks materializes a template's sample tasks for a new board.
// Column ids carry over verbatim (the board copied the template's columns)
// and label ids resolve against the template's own label set.
func templateTasks(template *domain.Template, creatorID primitive.ObjectID) []domain.Task {
	labelsByID := make(map[string]domain.Label, len(template.Labels))
	for _, l := range template.Labels {
		labelsByID[l.ID] = l
	}

	tasks := make([]domain.Task, 0, len(template.SampleTasks))
	for _, st := range template.SampleTasks {
		task := domain.Task{
			Title:       st.Title,
			Description: st.Description,
			ColumnID:    st.ColumnID,
			Position:    st.Position,
			Icon:        st.Icon,
			CreatorID:   creatorID,
			AssigneeIDs: []primitive.ObjectID{},
		}
		for _, id := range st.LabelIDs {
			if label, ok := labelsByID[id]; ok {
				task.Labels = append(task.Labels, label)
			}
		}
		tasks = append(tasks, task)
	}
	return tasks
}

// Get retrieves a board with access check, reading through the cache
func (s *BoardService) Get(ctx context.Context, userID, boardID primitive.ObjectID) (*domain.Board, error) {
	key := redis.BoardKey(boardID.Hex())

	var cached domain.Board
	hit, err := s.cache.Get(ctx, key, &cached)
	if err == nil && hit {
		metrics.CacheHits.WithLabelValues("boards").Inc()
		if err := s.authorize(ctx, &cached, userID); err != nil {
			return nil, err
		}
		return &cached, nil
	}
	metrics.CacheMisses.WithLabelValues("boards").Inc()

	board, err := s.getChecked(ctx, boardID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, board, userID); err != nil {
		return nil, err
	}

	_ = s.cache.Set(ctx, key, board, s.cache.EntityTTL())
	return board, nil
}

// ListByWorkspace retrieves the boards of a workspace, reading through the
// cache. Access is checked against the workspace.
func (s *BoardService) ListByWorkspace(ctx context.Context, userID, workspaceID primitive.ObjectID) ([]domain.Board, error) {
	workspace, err := s.workspaceRepo.GetByID(ctx, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to get workspace: %w", err)
	}
	if workspace == nil {
		return nil, domain.ErrNotFound
	}
	if err := requireMember(workspace.Members, userID); err != nil {
		return nil, err
	}

	key := redis.BoardListByWorkspaceKey(workspaceID.Hex())

	var cached []domain.Board
	hit, err := s.cache.Get(ctx, key, &cached)
	if err == nil && hit {
		metrics.CacheHits.WithLabelValues("boards").Inc()
		return cached, nil
	}
	metrics.CacheMisses.WithLabelValues("boards").Inc()

	boards, err := s.boardRepo.ListByWorkspace(ctx, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list boards: %w", err)
	}

	_ = s.cache.Set(ctx, key, boards, s.cache.ListTTL())
	return boards, nil
}

// Sidebar retrieves the boards shown in the user's navigation for one
// organization: every board in the organization's workspaces the user can
// reach, cached per user and organization.
func (s *BoardService) Sidebar(ctx context.Context, userID, orgID primitive.ObjectID) ([]domain.Board, error) {
	key := redis.SidebarKey(userID.Hex(), orgID.Hex())

	var cached []domain.Board
	hit, err := s.cache.Get(ctx, key, &cached)
	if err == nil && hit {
		metrics.CacheHits.WithLabelValues("sidebar").Inc()
		return cached, nil
	}
	metrics.CacheMisses.WithLabelValues("sidebar").Inc()

	workspaces, err := s.workspaceRepo.ListByOrganization(ctx, orgID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list workspaces: %w", err)
	}
	workspaceIDs := make([]primitive.ObjectID, len(workspaces))
	for i, ws := range workspaces {
		workspaceIDs[i] = ws.ID
	}

	boards, err := s.boardRepo.ListByWorkspaces(ctx, workspaceIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list boards: %w", err)
	}

	_ = s.cache.Set(ctx, key, boards, s.cache.ListTTL())
	return boards, nil
}

// Update updates a board's name or icon (admin or owner only)
func (s *BoardService) Update(ctx context.Context, userID, boardID primitive.ObjectID, input domain.BoardUpdate) (*domain.Board, error) {
	board, err := s.getChecked(ctx, boardID)
	if err != nil {
		return nil, err
	}
	if err := requireAdmin(board.Members, userID); err != nil {
		return nil, err
	}

	restore := patchCached(ctx, s.cache, redis.BoardKey(boardID.Hex()), func(b domain.Board) domain.Board {
		if input.Name != nil {
			b.Name = *input.Name
		}
		if input.Icon != nil {
			b.Icon = *input.Icon
		}
		return b
	})

	err = mutate(ctx, s.cache, s.mutation(ctx, redis.MutationBoardUpdated, userID, board), func(cctx context.Context) error {
		return s.boardRepo.Update(cctx, boardID, &input)
	}, restore)
	if err != nil {
		return nil, err
	}

	return s.getChecked(ctx, boardID)
}

// Delete deletes a board and all of its tasks (owner only)
func (s *BoardService) Delete(ctx context.Context, userID, boardID primitive.ObjectID) error {
	board, err := s.getChecked(ctx, boardID)
	if err != nil {
		return err
	}
	if err := requireOwner(board.Members, userID); err != nil {
		return err
	}

	return mutate(ctx, s.cache, s.mutation(ctx, redis.MutationBoardDeleted, userID, board), func(cctx context.Context) error {
		return s.boardRepo.Delete(cctx, boardID)
	})
}

// AddColumn appends a column to the board. The whole column array is
// rewritten so orders stay dense.
func (s *BoardService) AddColumn(ctx context.Context, userID, boardID primitive.ObjectID, input domain.ColumnCreate) (*domain.Board, error) {
	board, err := s.getChecked(ctx, boardID)
	if err != nil {
		return nil, err
	}
	if err := requireMember(board.Members, userID); err != nil {
		return nil, err
	}

	columns := append(append([]domain.Column(nil), board.Columns...), domain.Column{
		ID:         uuid.NewString(),
		Title:      input.Title,
		BadgeColor: input.BadgeColor,
	})
	renumberColumns(columns)

	return s.replaceColumns(ctx, userID, board, columns)
}

// UpdateColumn edits a column's title or badge color.
func (s *BoardService) UpdateColumn(ctx context.Context, userID, boardID primitive.ObjectID, columnID string, input domain.ColumnUpdate) (*domain.Board, error) {
	board, err := s.getChecked(ctx, boardID)
	if err != nil {
		return nil, err
	}
	if err := requireMember(board.Members, userID); err != nil {
		return nil, err
	}
	if board.ColumnByID(columnID) == nil {
		return nil, domain.ErrColumnNotFound
	}

	columns := append([]domain.Column(nil), board.Columns...)
	for i := range columns {
		if columns[i].ID == columnID {
			if input.Title != nil {
				columns[i].Title = *input.Title
			}
			if input.BadgeColor != nil {
				columns[i].BadgeColor = *input.BadgeColor
			}
		}
	}

	return s.replaceColumns(ctx, userID, board, columns)
}

// ReorderColumns rewrites the column array in the given order. Every column
// id of the board must appear exactly once; orders are reassigned densely.
func (s *BoardService) ReorderColumns(ctx context.Context, userID, boardID primitive.ObjectID, columnIDs []string) (*domain.Board, error) {
	board, err := s.getChecked(ctx, boardID)
	if err != nil {
		return nil, err
	}
	if err := requireMember(board.Members, userID); err != nil {
		return nil, err
	}
	if len(columnIDs) != len(board.Columns) {
		return nil, domain.ErrColumnNotFound
	}

	columns := make([]domain.Column, 0, len(columnIDs))
	seen := make(map[string]bool, len(columnIDs))
	for _, id := range columnIDs {
		col := board.ColumnByID(id)
		if col == nil || seen[id] {
			return nil, domain.ErrColumnNotFound
		}
		seen[id] = true
		columns = append(columns, *col)
	}
	renumberColumns(columns)

	return s.replaceColumns(ctx, userID, board, columns)
}

// DeleteColumn removes a column. Tasks still referencing the removed column
// keep their columnId and simply stop rendering; they come back if a column
// with the same id is ever restored.
func (s *BoardService) DeleteColumn(ctx context.Context, userID, boardID primitive.ObjectID, columnID string) (*domain.Board, error) {
	board, err := s.getChecked(ctx, boardID)
	if err != nil {
		return nil, err
	}
	if err := requireMember(board.Members, userID); err != nil {
		return nil, err
	}
	if board.ColumnByID(columnID) == nil {
		return nil, domain.ErrColumnNotFound
	}

	columns := make([]domain.Column, 0, len(board.Columns)-1)
	for _, col := range board.Columns {
		if col.ID != columnID {
			columns = append(columns, col)
		}
	}
	renumberColumns(columns)

	return s.replaceColumns(ctx, userID, board, columns)
}

// ReplaceLabels rewrites the board's label palette (admin or owner only).
// Labels without an id get one assigned.
func (s *BoardService) ReplaceLabels(ctx context.Context, userID, boardID primitive.ObjectID, labels []domain.Label) (*domain.Board, error) {
	board, err := s.getChecked(ctx, boardID)
	if err != nil {
		return nil, err
	}
	if err := requireAdmin(board.Members, userID); err != nil {
		return nil, err
	}

	out := append([]domain.Label(nil), labels...)
	for i := range out {
		if out[i].ID == "" {
			out[i].ID = uuid.NewString()
		}
	}

	restore := patchCached(ctx, s.cache, redis.BoardKey(boardID.Hex()), func(b domain.Board) domain.Board {
		b.Labels = out
		return b
	})

	err = mutate(ctx, s.cache, s.mutation(ctx, redis.MutationBoardUpdated, userID, board), func(cctx context.Context) error {
		return s.boardRepo.ReplaceLabels(cctx, boardID, out)
	}, restore)
	if err != nil {
		return nil, err
	}

	return s.getChecked(ctx, boardID)
}

// AddMember adds a member to a board (admin or owner only)
func (s *BoardService) AddMember(ctx context.Context, requesterID, boardID, userID primitive.ObjectID, role string) error {
	if !domain.ValidRole(role) {
		return domain.ErrInvalidRole
	}

	board, err := s.getChecked(ctx, boardID)
	if err != nil {
		return err
	}
	if err := requireAdmin(board.Members, requesterID); err != nil {
		return err
	}

	members := upsertMember(board.Members, userID, role)

	return mutate(ctx, s.cache, s.mutation(ctx, redis.MutationBoardUpdated, requesterID, board), func(cctx context.Context) error {
		return s.boardRepo.ReplaceMembers(cctx, boardID, members)
	})
}

// RemoveMember removes a member from a board (admin or owner only)
func (s *BoardService) RemoveMember(ctx context.Context, requesterID, boardID, userID primitive.ObjectID) error {
	board, err := s.getChecked(ctx, boardID)
	if err != nil {
		return err
	}
	if err := requireAdmin(board.Members, requesterID); err != nil {
		return err
	}
	if roleOf(board.Members, userID) == domain.RoleOwner {
		return domain.ErrCannotRemoveOwner
	}

	members := removeMember(board.Members, userID)

	return mutate(ctx, s.cache, s.mutation(ctx, redis.MutationBoardUpdated, requesterID, board), func(cctx context.Context) error {
		return s.boardRepo.ReplaceMembers(cctx, boardID, members)
	})
}

// Subscribe registers a callback invoked with a fresh board snapshot after
// every board-level change. The returned function cancels the subscription.
func (s *BoardService) Subscribe(boardID primitive.ObjectID, cb func(*domain.Board)) func() {
	metrics.ActiveSubscriptions.Inc()
	unsub := s.hub.Subscribe(watch.BoardTopic(boardID.Hex()), func() {
		board, err := s.boardRepo.GetByID(context.Background(), boardID)
		if err != nil {
			log.Warn().Err(err).Str("board", boardID.Hex()).Msg("board snapshot failed")
			return
		}
		cb(board)
	})
	return func() {
		unsub()
		metrics.ActiveSubscriptions.Dec()
	}
}

// replaceColumns is the shared tail of every column edit: optimistic patch
// of the cached board, whole-array replace in the store, column-scoped
// invalidation, then a fresh read.
func (s *BoardService) replaceColumns(ctx context.Context, userID primitive.ObjectID, board *domain.Board, columns []domain.Column) (*domain.Board, error) {
	restore := patchCached(ctx, s.cache, redis.BoardKey(board.ID.Hex()), func(b domain.Board) domain.Board {
		b.Columns = columns
		return b
	})

	err := mutate(ctx, s.cache, s.mutation(ctx, redis.MutationColumnChanged, userID, board), func(cctx context.Context) error {
		return s.boardRepo.ReplaceColumns(cctx, board.ID, columns)
	}, restore)
	if err != nil {
		return nil, err
	}

	return s.getChecked(ctx, board.ID)
}

// renumberColumns reassigns dense orders 0..n-1 in slice order.
func renumberColumns(columns []domain.Column) {
	for i := range columns {
		columns[i].Order = i
	}
}

func (s *BoardService) mutation(ctx context.Context, kind redis.MutationKind, userID primitive.ObjectID, board *domain.Board) *redis.Mutation {
	m := &redis.Mutation{
		Kind:        kind,
		UserID:      userID.Hex(),
		WorkspaceID: board.WorkspaceID.Hex(),
		BoardID:     board.ID.Hex(),
	}
	if workspace, err := s.workspaceRepo.GetByID(ctx, board.WorkspaceID); err == nil && workspace != nil {
		m.OrganizationID = workspace.OrganizationID.Hex()
	}
	return m
}

// authorize grants access to board members and to members of the board's
// workspace.
func (s *BoardService) authorize(ctx context.Context, board *domain.Board, userID primitive.ObjectID) error {
	if roleOf(board.Members, userID) != "" {
		return nil
	}
	workspace, err := s.workspaceRepo.GetByID(ctx, board.WorkspaceID)
	if err != nil {
		return fmt.Errorf("failed to get workspace: %w", err)
	}
	if workspace == nil {
		return domain.ErrAccessDenied
	}
	return requireMember(workspace.Members, userID)
}

func (s *BoardService) getChecked(ctx context.Context, boardID primitive.ObjectID) (*domain.Board, error) {
	board, err := s.boardRepo.GetByID(ctx, boardID)
	if err != nil {
		return nil, fmt.Errorf("failed to get board: %w", err)
	}
	if board == nil {
		return nil, domain.ErrNotFound
	}
	return board, nil
}
