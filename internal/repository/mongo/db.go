package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/monther20/bassita/internal/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names
const (
	collUsers         = "users"
	collOrganizations = "organizations"
	collWorkspaces    = "workspaces"
	collBoards        = "boards"
	collTasks         = "tasks"
	collTemplates     = "templates"
)

// DB wraps the MongoDB client and database handle
type DB struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewDB connects to MongoDB and verifies the connection
func NewDB(ctx context.Context, cfg config.MongoConfig) (*DB, error) {
	opts := options.Client().ApplyURI(cfg.URI)
	if cfg.ConnectTimeout > 0 {
		opts.SetConnectTimeout(cfg.ConnectTimeout)
	}

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping: %w", err)
	}

	return &DB{client: client, db: client.Database(cfg.Database)}, nil
}

// Ping checks connectivity
func (d *DB) Ping(ctx context.Context) error {
	return d.client.Ping(ctx, nil)
}

// Close disconnects from MongoDB
func (d *DB) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return d.client.Disconnect(ctx)
}

// Collection returns a handle on a named collection
func (d *DB) Collection(name string) *mongo.Collection {
	return d.db.Collection(name)
}

// WithTransaction runs fn inside a single transaction; all writes commit
// or none do.
func (d *DB) WithTransaction(ctx context.Context, fn func(ctx mongo.SessionContext) error) error {
	session, err := d.client.StartSession()
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}

// now returns the server-side write timestamp. Entity timestamps always
// come from this clock, never from a client, so updatedAt-sorted views
// are immune to client clock skew.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}
