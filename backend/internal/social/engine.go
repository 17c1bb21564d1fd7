package social

import (
	"context"

	"chirp/backend/internal/model"
	"chirp/backend/pkg/errors"
)

// Policy carries the tunable behavior of the engine. Retweet and follow
// verification gating varies by deployment; tweeting and commenting always
// require a verified account.
type Policy struct {
	RetweetRequiresVerified bool
	FollowRequiresVerified  bool
	DefaultPageLimit        int
	MaxPageLimit            int
}

// DefaultPolicy mirrors the production defaults
func DefaultPolicy() Policy {
	return Policy{
		RetweetRequiresVerified: false,
		FollowRequiresVerified:  false,
		DefaultPageLimit:        100,
		MaxPageLimit:            500,
	}
}

// Engine implements the content-graph mutations and traversal queries. It is
// stateless between calls; every operation is a request-scoped read/mutate
// cycle against the store.
type Engine struct {
	store    Store
	policy   Policy
	registry *model.TypeRegistry
}

// NewEngine creates a new engine over a graph store
func NewEngine(store Store, policy Policy) *Engine {
	if policy.DefaultPageLimit < 1 {
		policy.DefaultPageLimit = DefaultPolicy().DefaultPageLimit
	}
	if policy.MaxPageLimit < policy.DefaultPageLimit {
		policy.MaxPageLimit = policy.DefaultPageLimit
	}
	return &Engine{
		store:    store,
		policy:   policy,
		registry: model.NewTypeRegistry(),
	}
}

func requireAuth(p Principal) error {
	if !p.IsAuthenticated {
		return errors.ErrLoginRequired
	}
	return nil
}

func requireVerified(p Principal) error {
	if err := requireAuth(p); err != nil {
		return err
	}
	if !p.IsVerified {
		return errors.ErrNotVerified
	}
	return nil
}

func (e *Engine) clampPage(skip, limit int) (int, int) {
	if skip < 0 {
		skip = 0
	}
	if limit < 1 {
		limit = e.policy.DefaultPageLimit
	}
	if limit > e.policy.MaxPageLimit {
		limit = e.policy.MaxPageLimit
	}
	return skip, limit
}

// ============================================================================
// Identity Replication
// ============================================================================

// EnsureUser is the synchronous replication hook the identity store calls on
// registration. Idempotent by uid.
func (e *Engine) EnsureUser(ctx context.Context, uid string) (*model.User, error) {
	return e.store.EnsureUser(ctx, uid)
}

// ============================================================================
// Mutations
// ============================================================================

// CreateTweet validates content, then creates the tweet with its authorship
// edge and hashtag connections. Requires a verified account.
func (e *Engine) CreateTweet(ctx context.Context, p Principal, content string, hashtags []string) (*model.Tweet, error) {
	if err := requireVerified(p); err != nil {
		return nil, err
	}
	if content == "" {
		return nil, errors.ErrTweetEmpty
	}
	if !model.ValidTweetContent(content) {
		return nil, errors.ErrTweetTooLong
	}

	return e.store.CreateTweet(ctx, p.UserUID, content, normalizeTags(hashtags))
}

// CreateRetweet retweets an existing tweet. One retweet per (user, tweet)
// pair; verification gating follows policy.
func (e *Engine) CreateRetweet(ctx context.Context, p Principal, tweetUID string) (*model.ReTweet, error) {
	if err := e.gate(p, e.policy.RetweetRequiresVerified); err != nil {
		return nil, err
	}
	return e.store.CreateRetweet(ctx, p.UserUID, tweetUID)
}

// Like connects a LIKES edge to a likeable target. An unknown type tag, a
// kind that is not likeable and a missing target all surface ErrNotLikeable.
func (e *Engine) Like(ctx context.Context, p Principal, targetUID, typeTag string) (model.Content, error) {
	if err := requireAuth(p); err != nil {
		return nil, err
	}
	kind, ok := e.registry.ResolveCapable(typeTag, model.Likeable)
	if !ok {
		return nil, errors.ErrNotLikeable
	}
	return e.store.ConnectLike(ctx, p.UserUID, targetUID, kind)
}

// Unlike removes a previously created LIKES edge. Failures fold into
// ErrUnliked, mirroring Like.
func (e *Engine) Unlike(ctx context.Context, p Principal, targetUID, typeTag string) (model.Content, error) {
	if err := requireAuth(p); err != nil {
		return nil, err
	}
	kind, ok := e.registry.ResolveCapable(typeTag, model.Likeable)
	if !ok {
		return nil, errors.ErrUnliked
	}
	return e.store.DisconnectLike(ctx, p.UserUID, targetUID, kind)
}

// Comment attaches a comment to a commentable target. Requires a verified
// account.
func (e *Engine) Comment(ctx context.Context, p Principal, targetUID, typeTag, content string) (*model.Comment, error) {
	if err := requireVerified(p); err != nil {
		return nil, err
	}
	if content == "" {
		return nil, errors.ErrCommentEmpty
	}
	kind, ok := e.registry.ResolveCapable(typeTag, model.Commentable)
	if !ok {
		return nil, errors.ErrNotCommentable
	}
	return e.store.CreateComment(ctx, p.UserUID, targetUID, kind, content)
}

// Follow connects a FOLLOWS edge to another user. Self-follow is rejected.
func (e *Engine) Follow(ctx context.Context, p Principal, targetUID string) (*model.User, error) {
	if err := e.gate(p, e.policy.FollowRequiresVerified); err != nil {
		return nil, err
	}
	if p.UserUID == targetUID {
		return nil, errors.ErrSelfFollow
	}
	return e.store.ConnectFollow(ctx, p.UserUID, targetUID)
}

// Unfollow removes a previously created FOLLOWS edge
func (e *Engine) Unfollow(ctx context.Context, p Principal, targetUID string) (*model.User, error) {
	if err := e.gate(p, e.policy.FollowRequiresVerified); err != nil {
		return nil, err
	}
	return e.store.DisconnectFollow(ctx, p.UserUID, targetUID)
}

func (e *Engine) gate(p Principal, verified bool) error {
	if verified {
		return requireVerified(p)
	}
	return requireAuth(p)
}

// ============================================================================
// Queries
// ============================================================================

// Profile fetches a user node snapshot by uid
func (e *Engine) Profile(ctx context.Context, uid string) (*model.User, error) {
	return e.store.GetUser(ctx, uid)
}

// ProfileContent lists everything the user authored, newest first
func (e *Engine) ProfileContent(ctx context.Context, uid string, skip, limit int) ([]model.Content, error) {
	skip, limit = e.clampPage(skip, limit)
	return e.store.ProfileContent(ctx, uid, skip, limit)
}

// Feed lists the caller's aggregated followee content, newest first.
// Requires authentication; the feed is always the principal's own.
func (e *Engine) Feed(ctx context.Context, p Principal, skip, limit int) ([]model.Content, error) {
	if err := requireAuth(p); err != nil {
		return nil, err
	}
	skip, limit = e.clampPage(skip, limit)
	return e.store.Feed(ctx, p.UserUID, skip, limit)
}

// SearchByHashtag lists tweets carrying the tag, newest first. The tag is
// normalized before lookup so any case/whitespace variant matches.
func (e *Engine) SearchByHashtag(ctx context.Context, tag string, skip, limit int) ([]*model.Tweet, error) {
	skip, limit = e.clampPage(skip, limit)
	return e.store.SearchByHashtag(ctx, model.NormalizeTag(tag), skip, limit)
}

// Hashtag fetches a hashtag node snapshot, with its usage counter, by any
// case/whitespace variant of its tag
func (e *Engine) Hashtag(ctx context.Context, tag string) (*model.Hashtag, error) {
	return e.store.GetHashtag(ctx, model.NormalizeTag(tag))
}

// HasRetweeted reports whether the user already retweeted the tweet
func (e *Engine) HasRetweeted(ctx context.Context, userUID, tweetUID string) (bool, error) {
	return e.store.HasRetweeted(ctx, userUID, tweetUID)
}

// Followers lists the users following uid
func (e *Engine) Followers(ctx context.Context, uid string) ([]*model.User, error) {
	return e.store.FollowersOf(ctx, uid)
}

// Following lists the users uid follows
func (e *Engine) Following(ctx context.Context, uid string) ([]*model.User, error) {
	return e.store.FollowingOf(ctx, uid)
}

// CommentsOf lists the comments attached to a commentable target
func (e *Engine) CommentsOf(ctx context.Context, targetUID, typeTag string) ([]*model.Comment, error) {
	kind, ok := e.registry.ResolveCapable(typeTag, model.Commentable)
	if !ok {
		return nil, errors.ErrNotCommentable
	}
	return e.store.CommentsOf(ctx, targetUID, kind)
}

// normalizeTags normalizes hashtags and drops empties and duplicates,
// preserving first-seen order
func normalizeTags(hashtags []string) []string {
	seen := make(map[string]bool, len(hashtags))
	normalized := make([]string, 0, len(hashtags))
	for _, tag := range hashtags {
		tag = model.NormalizeTag(tag)
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		normalized = append(normalized, tag)
	}
	return normalized
}
