package graph

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"chirp/backend/internal/model"
	"chirp/backend/pkg/errors"
)

// ============================================================================
// Retweet Operations
// ============================================================================

// HasRetweeted reports whether the user already authored a retweet of the
// tweet, via the two-hop RETWEETS/ORIGINAL path.
func (r *Repository) HasRetweeted(ctx context.Context, userUID, tweetUID string) (bool, error) {
	session := r.readSession(ctx)
	defer session.Close(ctx)

	query := `
		MATCH (u:User {uid: $userUID})-[:RETWEETS]->(rt:ReTweet)-[:ORIGINAL]->(t:Tweet {uid: $tweetUID})
		RETURN count(rt) as count
	`

	result, err := session.Run(ctx, query, map[string]interface{}{
		"userUID":  userUID,
		"tweetUID": tweetUID,
	})
	if err != nil {
		return false, errors.NewGraphQueryFailed("has retweeted", err)
	}

	record, err := result.Single(ctx)
	if err != nil {
		return false, errors.NewGraphQueryFailed("has retweeted", err)
	}

	return getIntFromRecord(record, "count") > 0, nil
}

// CreateRetweet creates the retweet node, its ORIGINAL and authorship edges
// and bumps the original's retweet counter in one statement. The WHERE NOT
// guard enforces one retweet per (user, tweet) pair atomically.
func (r *Repository) CreateRetweet(ctx context.Context, authorUID, tweetUID string) (*model.ReTweet, error) {
	if _, err := r.GetTweet(ctx, tweetUID); err != nil {
		return nil, err
	}

	session := r.writeSession(ctx)
	defer session.Close(ctx)

	query := `
		MATCH (u:User {uid: $authorUID})
		MATCH (t:Tweet {uid: $tweetUID})
		WHERE NOT (u)-[:RETWEETS]->(:ReTweet)-[:ORIGINAL]->(t)
		SET t.retweets = t.retweets + 1
		CREATE (rt:ReTweet {
			uid: $retweetUID,
			likes: 0,
			comments: 0,
			created: datetime($now)
		})
		CREATE (rt)-[:ORIGINAL]->(t)
		CREATE (u)-[:RETWEETS {date: datetime($now)}]->(rt)
		RETURN rt as retweet, t.uid as original_uid
	`

	result, err := session.Run(ctx, query, map[string]interface{}{
		"authorUID":  authorUID,
		"tweetUID":   tweetUID,
		"retweetUID": uuid.NewString(),
		"now":        nowParam(),
	})
	if err != nil {
		return nil, errors.NewGraphQueryFailed("create retweet", err)
	}

	if !result.Next(ctx) {
		if err := result.Err(); err != nil {
			return nil, errors.NewGraphQueryFailed("create retweet", err)
		}
		return nil, errors.ErrAlreadyRetweeted
	}

	record := result.Record()
	node, ok := getNodeFromRecord(record, "retweet")
	if !ok {
		return nil, errors.NewGraphQueryFailed("create retweet", nil)
	}

	retweet := &model.ReTweet{
		UID:         getStringProp(node, "uid"),
		Likes:       getIntProp(node, "likes"),
		Comments:    getIntProp(node, "comments"),
		OriginalUID: getStringFromRecord(record, "original_uid"),
		Created:     getTimeProp(node, "created"),
	}

	r.logger.Info("Retweet created",
		zap.String("uid", retweet.UID),
		zap.String("author_uid", authorUID),
		zap.String("original_uid", tweetUID),
	)

	return retweet, nil
}
