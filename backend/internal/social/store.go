package social

import (
	"context"

	"chirp/backend/internal/model"
)

// Store is the graph persistence surface the engine operates on. The Neo4j
// repository in internal/graph is the production implementation; tests supply
// an in-memory one.
//
// Guarded mutations (ConnectLike, CreateRetweet, ConnectFollow and their
// inverses) perform their uniqueness check and write atomically and surface
// guard violations as the conflict errors from pkg/errors.
type Store interface {
	// Users
	EnsureUser(ctx context.Context, uid string) (*model.User, error)
	GetUser(ctx context.Context, uid string) (*model.User, error)
	ConnectFollow(ctx context.Context, followerUID, targetUID string) (*model.User, error)
	DisconnectFollow(ctx context.Context, followerUID, targetUID string) (*model.User, error)
	FollowersOf(ctx context.Context, uid string) ([]*model.User, error)
	FollowingOf(ctx context.Context, uid string) ([]*model.User, error)

	// Content
	CreateTweet(ctx context.Context, authorUID, content string, hashtags []string) (*model.Tweet, error)
	CreateRetweet(ctx context.Context, authorUID, tweetUID string) (*model.ReTweet, error)
	HasRetweeted(ctx context.Context, userUID, tweetUID string) (bool, error)
	ConnectLike(ctx context.Context, userUID, targetUID string, kind model.Kind) (model.Content, error)
	DisconnectLike(ctx context.Context, userUID, targetUID string, kind model.Kind) (model.Content, error)
	CreateComment(ctx context.Context, authorUID, targetUID string, kind model.Kind, content string) (*model.Comment, error)
	CommentsOf(ctx context.Context, targetUID string, kind model.Kind) ([]*model.Comment, error)

	// Traversals
	ProfileContent(ctx context.Context, uid string, skip, limit int) ([]model.Content, error)
	Feed(ctx context.Context, uid string, skip, limit int) ([]model.Content, error)
	SearchByHashtag(ctx context.Context, tag string, skip, limit int) ([]*model.Tweet, error)
	GetHashtag(ctx context.Context, tag string) (*model.Hashtag, error)
}
