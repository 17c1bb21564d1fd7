package graph

import (
	"context"

	"go.uber.org/zap"

	"chirp/backend/internal/model"
	"chirp/backend/pkg/errors"
)

// ============================================================================
// User Operations
// ============================================================================

// EnsureUser upserts the graph-side user node for an externally registered
// identity. Idempotent: calling twice with the same uid leaves exactly one
// node.
func (r *Repository) EnsureUser(ctx context.Context, uid string) (*model.User, error) {
	session := r.writeSession(ctx)
	defer session.Close(ctx)

	query := `
		MERGE (u:User {uid: $uid})
		ON CREATE SET
			u.followers_count = 0,
			u.created = datetime($now)
		RETURN u.uid as uid, u.followers_count as followers_count, u.created as created
	`

	result, err := session.Run(ctx, query, map[string]interface{}{
		"uid": uid,
		"now": nowParam(),
	})
	if err != nil {
		return nil, errors.NewGraphQueryFailed("ensure user", err)
	}

	record, err := result.Single(ctx)
	if err != nil {
		return nil, errors.NewGraphQueryFailed("ensure user", err)
	}

	r.logger.Info("User node ensured", zap.String("uid", uid))

	return &model.User{
		UID:            getStringFromRecord(record, "uid"),
		FollowersCount: getIntFromRecord(record, "followers_count"),
		Created:        getTimeFromRecord(record, "created"),
	}, nil
}

// GetUser fetches a user node snapshot by uid
func (r *Repository) GetUser(ctx context.Context, uid string) (*model.User, error) {
	session := r.readSession(ctx)
	defer session.Close(ctx)

	query := `
		MATCH (u:User {uid: $uid})
		RETURN u.uid as uid, u.followers_count as followers_count, u.created as created
	`

	result, err := session.Run(ctx, query, map[string]interface{}{
		"uid": uid,
	})
	if err != nil {
		return nil, errors.NewGraphQueryFailed("get user", err)
	}

	if !result.Next(ctx) {
		if err := result.Err(); err != nil {
			return nil, errors.NewGraphQueryFailed("get user", err)
		}
		return nil, errors.NewUserNotFound(uid)
	}

	record := result.Record()
	return &model.User{
		UID:            getStringFromRecord(record, "uid"),
		FollowersCount: getIntFromRecord(record, "followers_count"),
		Created:        getTimeFromRecord(record, "created"),
	}, nil
}

// ConnectFollow creates the FOLLOWS edge and bumps the target's follower
// counter in one statement. The WHERE NOT guard makes duplicate follows
// surface as ErrAlreadyFollowed without a separate read.
func (r *Repository) ConnectFollow(ctx context.Context, followerUID, targetUID string) (*model.User, error) {
	if _, err := r.GetUser(ctx, targetUID); err != nil {
		return nil, err
	}
	// Check the follower separately; otherwise a never-replicated uid
	// would fall out of the guarded write as ErrAlreadyFollowed
	if _, err := r.GetUser(ctx, followerUID); err != nil {
		return nil, err
	}

	session := r.writeSession(ctx)
	defer session.Close(ctx)

	query := `
		MATCH (f:User {uid: $followerUID})
		MATCH (t:User {uid: $targetUID})
		WHERE NOT (f)-[:FOLLOWS]->(t)
		CREATE (f)-[:FOLLOWS {date: datetime($now)}]->(t)
		SET t.followers_count = t.followers_count + 1
		RETURN t.uid as uid, t.followers_count as followers_count, t.created as created
	`

	result, err := session.Run(ctx, query, map[string]interface{}{
		"followerUID": followerUID,
		"targetUID":   targetUID,
		"now":         nowParam(),
	})
	if err != nil {
		return nil, errors.NewGraphQueryFailed("connect follow", err)
	}

	if !result.Next(ctx) {
		if err := result.Err(); err != nil {
			return nil, errors.NewGraphQueryFailed("connect follow", err)
		}
		return nil, errors.ErrAlreadyFollowed
	}

	record := result.Record()
	r.logger.Info("Follow created",
		zap.String("follower_uid", followerUID),
		zap.String("target_uid", targetUID),
	)

	return &model.User{
		UID:            getStringFromRecord(record, "uid"),
		FollowersCount: getIntFromRecord(record, "followers_count"),
		Created:        getTimeFromRecord(record, "created"),
	}, nil
}

// DisconnectFollow removes the FOLLOWS edge and decrements the follower
// counter. Absent edge surfaces as ErrNotFollowing; a missing follower has
// no edge, so it folds into the same error.
func (r *Repository) DisconnectFollow(ctx context.Context, followerUID, targetUID string) (*model.User, error) {
	if _, err := r.GetUser(ctx, targetUID); err != nil {
		return nil, err
	}

	session := r.writeSession(ctx)
	defer session.Close(ctx)

	query := `
		MATCH (f:User {uid: $followerUID})-[rel:FOLLOWS]->(t:User {uid: $targetUID})
		DELETE rel
		SET t.followers_count = t.followers_count - 1
		RETURN t.uid as uid, t.followers_count as followers_count, t.created as created
	`

	result, err := session.Run(ctx, query, map[string]interface{}{
		"followerUID": followerUID,
		"targetUID":   targetUID,
	})
	if err != nil {
		return nil, errors.NewGraphQueryFailed("disconnect follow", err)
	}

	if !result.Next(ctx) {
		if err := result.Err(); err != nil {
			return nil, errors.NewGraphQueryFailed("disconnect follow", err)
		}
		return nil, errors.ErrNotFollowing
	}

	record := result.Record()
	return &model.User{
		UID:            getStringFromRecord(record, "uid"),
		FollowersCount: getIntFromRecord(record, "followers_count"),
		Created:        getTimeFromRecord(record, "created"),
	}, nil
}

// FollowersOf lists the users following uid, most recent first
func (r *Repository) FollowersOf(ctx context.Context, uid string) ([]*model.User, error) {
	return r.listRelatedUsers(ctx, uid, `
		MATCH (u:User {uid: $uid})<-[rel:FOLLOWS]-(f:User)
		RETURN f as user
		ORDER BY rel.date DESC
	`, "followers of")
}

// FollowingOf lists the users uid follows, most recent first
func (r *Repository) FollowingOf(ctx context.Context, uid string) ([]*model.User, error) {
	return r.listRelatedUsers(ctx, uid, `
		MATCH (u:User {uid: $uid})-[rel:FOLLOWS]->(f:User)
		RETURN f as user
		ORDER BY rel.date DESC
	`, "following of")
}

func (r *Repository) listRelatedUsers(ctx context.Context, uid, query, operation string) ([]*model.User, error) {
	session := r.readSession(ctx)
	defer session.Close(ctx)

	result, err := session.Run(ctx, query, map[string]interface{}{
		"uid": uid,
	})
	if err != nil {
		return nil, errors.NewGraphQueryFailed(operation, err)
	}

	var users []*model.User
	for result.Next(ctx) {
		if node, ok := getNodeFromRecord(result.Record(), "user"); ok {
			users = append(users, nodeToUser(node))
		}
	}
	if err := result.Err(); err != nil {
		return nil, errors.NewGraphQueryFailed(operation, err)
	}

	return users, nil
}
