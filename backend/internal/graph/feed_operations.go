package graph

import (
	"context"

	"chirp/backend/internal/model"
	"chirp/backend/pkg/errors"
)

// ============================================================================
// Feed and Profile Traversals
// ============================================================================

// ProfileContent returns everything the user authored — tweets, retweets and
// comments — ordered by authorship-edge timestamp descending.
func (r *Repository) ProfileContent(ctx context.Context, uid string, skip, limit int) ([]model.Content, error) {
	return r.contentTraversal(ctx, `
		MATCH (u:User {uid: $uid})-[rel:TWEETS|RETWEETS|COMMENTS]->(n)
		OPTIONAL MATCH (n)-[:ORIGINAL]->(orig:Tweet)
		RETURN n as node, orig.uid as original_uid
		ORDER BY rel.date DESC
		SKIP $skip
		LIMIT $limit
	`, uid, skip, limit, "profile content")
}

// Feed returns the one-hop fan-out: tweets and retweets authored by every
// followee, ordered by authorship-edge timestamp descending. Recomputed per
// call; nothing is materialized.
func (r *Repository) Feed(ctx context.Context, uid string, skip, limit int) ([]model.Content, error) {
	return r.contentTraversal(ctx, `
		MATCH (u:User {uid: $uid})-[:FOLLOWS]->(:User)-[rel:TWEETS|RETWEETS]->(n)
		OPTIONAL MATCH (n)-[:ORIGINAL]->(orig:Tweet)
		RETURN n as node, orig.uid as original_uid
		ORDER BY rel.date DESC
		SKIP $skip
		LIMIT $limit
	`, uid, skip, limit, "feed")
}

func (r *Repository) contentTraversal(ctx context.Context, query, uid string, skip, limit int, operation string) ([]model.Content, error) {
	session := r.readSession(ctx)
	defer session.Close(ctx)

	skip, limit = r.normalizePage(skip, limit)

	result, err := session.Run(ctx, query, map[string]interface{}{
		"uid":   uid,
		"skip":  skip,
		"limit": limit,
	})
	if err != nil {
		return nil, errors.NewGraphQueryFailed(operation, err)
	}

	var items []model.Content
	for result.Next(ctx) {
		record := result.Record()
		node, ok := getNodeFromRecord(record, "node")
		if !ok {
			continue
		}
		if content, ok := nodeToContent(node, getStringFromRecord(record, "original_uid")); ok {
			items = append(items, content)
		}
	}
	if err := result.Err(); err != nil {
		return nil, errors.NewGraphQueryFailed(operation, err)
	}

	return items, nil
}
