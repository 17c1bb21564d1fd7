package graph

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"chirp/backend/internal/model"
	"chirp/backend/pkg/errors"
)

// ============================================================================
// Tweet Operations
// ============================================================================

// CreateTweet creates the tweet node, its authorship edge and all hashtag
// connections in one statement. Hashtag nodes are get-or-created by their
// normalized tag and their usage counter is bumped per tagging.
func (r *Repository) CreateTweet(ctx context.Context, authorUID, content string, hashtags []string) (*model.Tweet, error) {
	session := r.writeSession(ctx)
	defer session.Close(ctx)

	// uid per hashtag is only consumed ON CREATE
	tagParams := make([]map[string]interface{}, 0, len(hashtags))
	for _, tag := range hashtags {
		tagParams = append(tagParams, map[string]interface{}{
			"tag": tag,
			"uid": uuid.NewString(),
		})
	}

	query := `
		MATCH (u:User {uid: $authorUID})
		CREATE (t:Tweet {
			uid: $tweetUID,
			content: $content,
			likes: 0,
			comments: 0,
			retweets: 0,
			created: datetime($now)
		})
		CREATE (u)-[:TWEETS {date: datetime($now)}]->(t)
		WITH t
		UNWIND $tags as tagEntry
		MERGE (h:Hashtag {tag: tagEntry.tag})
		ON CREATE SET
			h.uid = tagEntry.uid,
			h.tags = 0,
			h.created = datetime($now)
		SET h.tags = h.tags + 1
		MERGE (t)-[:HASHTAG {date: datetime($now)}]->(h)
		RETURN t as tweet
	`

	// UNWIND over an empty list yields no rows, which would drop the RETURN.
	// Tweets without hashtags take the short form instead.
	if len(tagParams) == 0 {
		query = `
			MATCH (u:User {uid: $authorUID})
			CREATE (t:Tweet {
				uid: $tweetUID,
				content: $content,
				likes: 0,
				comments: 0,
				retweets: 0,
				created: datetime($now)
			})
			CREATE (u)-[:TWEETS {date: datetime($now)}]->(t)
			RETURN t as tweet
		`
	}

	result, err := session.Run(ctx, query, map[string]interface{}{
		"authorUID": authorUID,
		"tweetUID":  uuid.NewString(),
		"content":   content,
		"tags":      tagParams,
		"now":       nowParam(),
	})
	if err != nil {
		return nil, errors.NewGraphQueryFailed("create tweet", err)
	}

	if !result.Next(ctx) {
		if err := result.Err(); err != nil {
			return nil, errors.NewGraphQueryFailed("create tweet", err)
		}
		// The author node is missing; identity replication never saw this uid
		return nil, errors.NewUserNotFound(authorUID)
	}

	node, ok := getNodeFromRecord(result.Record(), "tweet")
	if !ok {
		return nil, errors.NewGraphQueryFailed("create tweet", nil)
	}

	tweet := nodeToTweet(node)
	r.logger.Info("Tweet created",
		zap.String("uid", tweet.UID),
		zap.String("author_uid", authorUID),
		zap.Int("hashtags", len(hashtags)),
	)

	return tweet, nil
}

// GetTweet fetches a tweet node snapshot by uid
func (r *Repository) GetTweet(ctx context.Context, uid string) (*model.Tweet, error) {
	session := r.readSession(ctx)
	defer session.Close(ctx)

	query := `
		MATCH (t:Tweet {uid: $uid})
		RETURN t as tweet
	`

	result, err := session.Run(ctx, query, map[string]interface{}{
		"uid": uid,
	})
	if err != nil {
		return nil, errors.NewGraphQueryFailed("get tweet", err)
	}

	if !result.Next(ctx) {
		if err := result.Err(); err != nil {
			return nil, errors.NewGraphQueryFailed("get tweet", err)
		}
		return nil, errors.NewTweetNotFound(uid)
	}

	node, ok := getNodeFromRecord(result.Record(), "tweet")
	if !ok {
		return nil, errors.NewGraphQueryFailed("get tweet", nil)
	}

	return nodeToTweet(node), nil
}
