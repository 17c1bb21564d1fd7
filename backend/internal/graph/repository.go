package graph

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	"chirp/backend/pkg/logger"
)

// Repository handles all Neo4j database operations. Every guarded mutation
// (like, retweet, follow and their inverses) runs its uniqueness check and
// its write inside a single Cypher statement, so the guard and the counter
// update commit atomically.
type Repository struct {
	driver           neo4j.DriverWithContext
	logger           *zap.Logger
	defaultPageLimit int
}

// NewRepository creates a new graph repository. defaultPageLimit backstops
// traversals called without an explicit limit; pass the configured value so
// the repository and the engine agree.
func NewRepository(driver neo4j.DriverWithContext, defaultPageLimit int) *Repository {
	if defaultPageLimit < 1 {
		defaultPageLimit = 100
	}
	return &Repository{
		driver:           driver,
		logger:           logger.Get(),
		defaultPageLimit: defaultPageLimit,
	}
}

// Close closes the Neo4j driver connection
func (r *Repository) Close() error {
	return r.driver.Close(context.Background())
}

func (r *Repository) readSession(ctx context.Context) neo4j.SessionWithContext {
	return r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
}

func (r *Repository) writeSession(ctx context.Context) neo4j.SessionWithContext {
	return r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
}

// EnsureConstraints creates the uniqueness constraints the content graph
// relies on. Safe to call repeatedly.
func (r *Repository) EnsureConstraints(ctx context.Context) error {
	session := r.writeSession(ctx)
	defer session.Close(ctx)

	statements := []string{
		"CREATE CONSTRAINT user_uid IF NOT EXISTS FOR (u:User) REQUIRE u.uid IS UNIQUE",
		"CREATE CONSTRAINT tweet_uid IF NOT EXISTS FOR (t:Tweet) REQUIRE t.uid IS UNIQUE",
		"CREATE CONSTRAINT retweet_uid IF NOT EXISTS FOR (rt:ReTweet) REQUIRE rt.uid IS UNIQUE",
		"CREATE CONSTRAINT comment_uid IF NOT EXISTS FOR (c:Comment) REQUIRE c.uid IS UNIQUE",
		"CREATE CONSTRAINT hashtag_tag IF NOT EXISTS FOR (h:Hashtag) REQUIRE h.tag IS UNIQUE",
	}

	for _, stmt := range statements {
		if _, err := session.Run(ctx, stmt, nil); err != nil {
			return err
		}
	}

	r.logger.Info("Graph constraints ensured")
	return nil
}
