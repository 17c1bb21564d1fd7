package graph

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"chirp/backend/internal/model"
	"chirp/backend/pkg/errors"
)

// ============================================================================
// Comment Operations
// ============================================================================

// CreateComment creates the comment node, its authorship and ABOUT edges and
// bumps the target's comment counter in one statement.
func (r *Repository) CreateComment(ctx context.Context, authorUID, targetUID string, kind model.Kind, content string) (*model.Comment, error) {
	if err := r.likeableExists(ctx, targetUID, kind, errors.ErrNotCommentable); err != nil {
		return nil, err
	}

	session := r.writeSession(ctx)
	defer session.Close(ctx)

	query := fmt.Sprintf(`
		MATCH (u:User {uid: $authorUID})
		MATCH (n:%s {uid: $targetUID})
		CREATE (c:Comment {
			uid: $commentUID,
			content: $content,
			likes: 0,
			created: datetime($now)
		})
		CREATE (u)-[:COMMENTS {date: datetime($now)}]->(c)
		CREATE (c)-[:ABOUT]->(n)
		SET n.comments = n.comments + 1
		RETURN c as comment
	`, kind)

	result, err := session.Run(ctx, query, map[string]interface{}{
		"authorUID":  authorUID,
		"targetUID":  targetUID,
		"commentUID": uuid.NewString(),
		"content":    content,
		"now":        nowParam(),
	})
	if err != nil {
		return nil, errors.NewGraphQueryFailed("create comment", err)
	}

	if !result.Next(ctx) {
		if err := result.Err(); err != nil {
			return nil, errors.NewGraphQueryFailed("create comment", err)
		}
		// The author node is missing; identity replication never saw this uid
		return nil, errors.NewUserNotFound(authorUID)
	}

	node, ok := getNodeFromRecord(result.Record(), "comment")
	if !ok {
		return nil, errors.NewGraphQueryFailed("create comment", nil)
	}

	comment := nodeToComment(node)
	r.logger.Info("Comment created",
		zap.String("uid", comment.UID),
		zap.String("author_uid", authorUID),
		zap.String("target_uid", targetUID),
	)

	return comment, nil
}

// CommentsOf lists the inbound comments of a commentable node, newest first
func (r *Repository) CommentsOf(ctx context.Context, targetUID string, kind model.Kind) ([]*model.Comment, error) {
	session := r.readSession(ctx)
	defer session.Close(ctx)

	query := fmt.Sprintf(`
		MATCH (n:%s {uid: $targetUID})<-[:ABOUT]-(c:Comment)
		RETURN c as comment
		ORDER BY c.created DESC
	`, kind)

	result, err := session.Run(ctx, query, map[string]interface{}{
		"targetUID": targetUID,
	})
	if err != nil {
		return nil, errors.NewGraphQueryFailed("comments of", err)
	}

	var comments []*model.Comment
	for result.Next(ctx) {
		if node, ok := getNodeFromRecord(result.Record(), "comment"); ok {
			comments = append(comments, nodeToComment(node))
		}
	}
	if err := result.Err(); err != nil {
		return nil, errors.NewGraphQueryFailed("comments of", err)
	}

	return comments, nil
}
