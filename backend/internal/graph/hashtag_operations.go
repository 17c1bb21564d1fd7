package graph

import (
	"context"

	"chirp/backend/internal/model"
	"chirp/backend/pkg/errors"
)

// ============================================================================
// Hashtag Operations
// ============================================================================

// SearchByHashtag returns the tweets carrying the exact normalized tag,
// newest first. Callers normalize the tag before the lookup.
func (r *Repository) SearchByHashtag(ctx context.Context, tag string, skip, limit int) ([]*model.Tweet, error) {
	session := r.readSession(ctx)
	defer session.Close(ctx)

	skip, limit = r.normalizePage(skip, limit)

	query := `
		MATCH (h:Hashtag {tag: $tag})<-[:HASHTAG]-(t:Tweet)
		RETURN t as tweet
		ORDER BY t.created DESC
		SKIP $skip
		LIMIT $limit
	`

	result, err := session.Run(ctx, query, map[string]interface{}{
		"tag":   tag,
		"skip":  skip,
		"limit": limit,
	})
	if err != nil {
		return nil, errors.NewGraphQueryFailed("search by hashtag", err)
	}

	var tweets []*model.Tweet
	for result.Next(ctx) {
		if node, ok := getNodeFromRecord(result.Record(), "tweet"); ok {
			tweets = append(tweets, nodeToTweet(node))
		}
	}
	if err := result.Err(); err != nil {
		return nil, errors.NewGraphQueryFailed("search by hashtag", err)
	}

	return tweets, nil
}

// GetHashtag fetches a hashtag node snapshot by its normalized tag
func (r *Repository) GetHashtag(ctx context.Context, tag string) (*model.Hashtag, error) {
	session := r.readSession(ctx)
	defer session.Close(ctx)

	query := `
		MATCH (h:Hashtag {tag: $tag})
		RETURN h.uid as uid, h.tag as tag, h.tags as tags, h.created as created
	`

	result, err := session.Run(ctx, query, map[string]interface{}{
		"tag": tag,
	})
	if err != nil {
		return nil, errors.NewGraphQueryFailed("get hashtag", err)
	}

	if !result.Next(ctx) {
		if err := result.Err(); err != nil {
			return nil, errors.NewGraphQueryFailed("get hashtag", err)
		}
		return nil, errors.NewHashtagNotFound(tag)
	}

	record := result.Record()
	return &model.Hashtag{
		UID:     getStringFromRecord(record, "uid"),
		Tag:     getStringFromRecord(record, "tag"),
		Tags:    getIntFromRecord(record, "tags"),
		Created: getTimeFromRecord(record, "created"),
	}, nil
}
