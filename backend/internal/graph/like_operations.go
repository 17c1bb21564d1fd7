package graph

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"chirp/backend/internal/model"
	"chirp/backend/pkg/errors"
)

// ============================================================================
// Like Operations
// ============================================================================

// likeableExists checks that a node of the given kind exists under the uid.
// A miss folds into the capability error so callers cannot probe kinds.
func (r *Repository) likeableExists(ctx context.Context, uid string, kind model.Kind, missErr error) error {
	session := r.readSession(ctx)
	defer session.Close(ctx)

	// Node labels cannot be parameterized; kind is a closed enum, never
	// caller input.
	query := fmt.Sprintf(`
		MATCH (n:%s {uid: $uid})
		RETURN count(n) as count
	`, kind)

	result, err := session.Run(ctx, query, map[string]interface{}{
		"uid": uid,
	})
	if err != nil {
		return errors.NewGraphQueryFailed("likeable exists", err)
	}

	record, err := result.Single(ctx)
	if err != nil {
		return errors.NewGraphQueryFailed("likeable exists", err)
	}

	if getIntFromRecord(record, "count") == 0 {
		return missErr
	}
	return nil
}

// ConnectLike creates the LIKES edge and bumps the target's like counter in
// one statement. The WHERE NOT guard enforces edge uniqueness per (user,
// content) pair atomically.
func (r *Repository) ConnectLike(ctx context.Context, userUID, targetUID string, kind model.Kind) (model.Content, error) {
	// Check the acting user separately; otherwise a never-replicated uid
	// would fall out of the guarded write as ErrAlreadyLiked
	if _, err := r.GetUser(ctx, userUID); err != nil {
		return nil, err
	}
	if err := r.likeableExists(ctx, targetUID, kind, errors.ErrNotLikeable); err != nil {
		return nil, err
	}

	session := r.writeSession(ctx)
	defer session.Close(ctx)

	query := fmt.Sprintf(`
		MATCH (u:User {uid: $userUID})
		MATCH (n:%s {uid: $targetUID})
		WHERE NOT (u)-[:LIKES]->(n)
		CREATE (u)-[:LIKES {date: datetime($now)}]->(n)
		SET n.likes = n.likes + 1
		WITH n
		OPTIONAL MATCH (n)-[:ORIGINAL]->(orig:Tweet)
		RETURN n as target, orig.uid as original_uid
	`, kind)

	result, err := session.Run(ctx, query, map[string]interface{}{
		"userUID":   userUID,
		"targetUID": targetUID,
		"now":       nowParam(),
	})
	if err != nil {
		return nil, errors.NewGraphQueryFailed("connect like", err)
	}

	if !result.Next(ctx) {
		if err := result.Err(); err != nil {
			return nil, errors.NewGraphQueryFailed("connect like", err)
		}
		return nil, errors.ErrAlreadyLiked
	}

	record := result.Record()
	node, ok := getNodeFromRecord(record, "target")
	if !ok {
		return nil, errors.NewGraphQueryFailed("connect like", nil)
	}

	content, ok := nodeToContent(node, getStringFromRecord(record, "original_uid"))
	if !ok {
		return nil, errors.NewGraphQueryFailed("connect like", nil)
	}

	r.logger.Info("Like created",
		zap.String("user_uid", userUID),
		zap.String("target_uid", targetUID),
		zap.String("kind", string(kind)),
	)

	return content, nil
}

// DisconnectLike removes the LIKES edge and decrements the like counter.
// Absent edge surfaces as ErrUnliked; a missing acting user has no edge, so
// it folds into the same error.
func (r *Repository) DisconnectLike(ctx context.Context, userUID, targetUID string, kind model.Kind) (model.Content, error) {
	if err := r.likeableExists(ctx, targetUID, kind, errors.ErrUnliked); err != nil {
		return nil, err
	}

	session := r.writeSession(ctx)
	defer session.Close(ctx)

	query := fmt.Sprintf(`
		MATCH (u:User {uid: $userUID})-[rel:LIKES]->(n:%s {uid: $targetUID})
		DELETE rel
		SET n.likes = n.likes - 1
		WITH n
		OPTIONAL MATCH (n)-[:ORIGINAL]->(orig:Tweet)
		RETURN n as target, orig.uid as original_uid
	`, kind)

	result, err := session.Run(ctx, query, map[string]interface{}{
		"userUID":   userUID,
		"targetUID": targetUID,
	})
	if err != nil {
		return nil, errors.NewGraphQueryFailed("disconnect like", err)
	}

	if !result.Next(ctx) {
		if err := result.Err(); err != nil {
			return nil, errors.NewGraphQueryFailed("disconnect like", err)
		}
		return nil, errors.ErrUnliked
	}

	record := result.Record()
	node, ok := getNodeFromRecord(record, "target")
	if !ok {
		return nil, errors.NewGraphQueryFailed("disconnect like", nil)
	}

	content, ok := nodeToContent(node, getStringFromRecord(record, "original_uid"))
	if !ok {
		return nil, errors.NewGraphQueryFailed("disconnect like", nil)
	}

	return content, nil
}
