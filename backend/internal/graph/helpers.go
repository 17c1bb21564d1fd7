package graph

import (
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"chirp/backend/internal/model"
)

// ============================================================================
// Helper Functions
// ============================================================================

func getStringFromRecord(record *neo4j.Record, key string) string {
	val, ok := record.Get(key)
	if !ok || val == nil {
		return ""
	}
	if str, ok := val.(string); ok {
		return str
	}
	return ""
}

func getIntFromRecord(record *neo4j.Record, key string) int {
	val, ok := record.Get(key)
	if !ok || val == nil {
		return 0
	}
	if i, ok := val.(int64); ok {
		return int(i)
	}
	if i, ok := val.(int); ok {
		return i
	}
	return 0
}

func getTimeFromRecord(record *neo4j.Record, key string) time.Time {
	val, ok := record.Get(key)
	if !ok || val == nil {
		return time.Time{}
	}
	// Neo4j datetime values come back as time.Time
	if t, ok := val.(time.Time); ok {
		return t
	}
	return time.Time{}
}

func getNodeFromRecord(record *neo4j.Record, key string) (neo4j.Node, bool) {
	val, ok := record.Get(key)
	if !ok || val == nil {
		return neo4j.Node{}, false
	}
	node, ok := val.(neo4j.Node)
	return node, ok
}

func getStringProp(node neo4j.Node, key string) string {
	if str, ok := node.Props[key].(string); ok {
		return str
	}
	return ""
}

func getIntProp(node neo4j.Node, key string) int {
	if i, ok := node.Props[key].(int64); ok {
		return int(i)
	}
	return 0
}

func getTimeProp(node neo4j.Node, key string) time.Time {
	if t, ok := node.Props[key].(time.Time); ok {
		return t
	}
	return time.Time{}
}

// nodeKind maps a node's labels onto a content kind
func nodeKind(node neo4j.Node) (model.Kind, bool) {
	for _, label := range node.Labels {
		switch model.Kind(label) {
		case model.KindTweet, model.KindReTweet, model.KindComment:
			return model.Kind(label), true
		}
	}
	return "", false
}

// nodeToContent materializes a content node snapshot from a Neo4j node.
// originalUID carries the ORIGINAL target for retweets and is ignored for
// other kinds.
func nodeToContent(node neo4j.Node, originalUID string) (model.Content, bool) {
	kind, ok := nodeKind(node)
	if !ok {
		return nil, false
	}

	switch kind {
	case model.KindTweet:
		return &model.Tweet{
			UID:      getStringProp(node, "uid"),
			Content:  getStringProp(node, "content"),
			Likes:    getIntProp(node, "likes"),
			Comments: getIntProp(node, "comments"),
			Retweets: getIntProp(node, "retweets"),
			Created:  getTimeProp(node, "created"),
		}, true
	case model.KindReTweet:
		return &model.ReTweet{
			UID:         getStringProp(node, "uid"),
			Likes:       getIntProp(node, "likes"),
			Comments:    getIntProp(node, "comments"),
			OriginalUID: originalUID,
			Created:     getTimeProp(node, "created"),
		}, true
	case model.KindComment:
		return &model.Comment{
			UID:     getStringProp(node, "uid"),
			Content: getStringProp(node, "content"),
			Likes:   getIntProp(node, "likes"),
			Created: getTimeProp(node, "created"),
		}, true
	}
	return nil, false
}

func nodeToUser(node neo4j.Node) *model.User {
	return &model.User{
		UID:            getStringProp(node, "uid"),
		FollowersCount: getIntProp(node, "followers_count"),
		Created:        getTimeProp(node, "created"),
	}
}

func nodeToTweet(node neo4j.Node) *model.Tweet {
	return &model.Tweet{
		UID:      getStringProp(node, "uid"),
		Content:  getStringProp(node, "content"),
		Likes:    getIntProp(node, "likes"),
		Comments: getIntProp(node, "comments"),
		Retweets: getIntProp(node, "retweets"),
		Created:  getTimeProp(node, "created"),
	}
}

func nodeToComment(node neo4j.Node) *model.Comment {
	return &model.Comment{
		UID:     getStringProp(node, "uid"),
		Content: getStringProp(node, "content"),
		Likes:   getIntProp(node, "likes"),
		Created: getTimeProp(node, "created"),
	}
}

func (r *Repository) normalizePage(skip, limit int) (int, int) {
	if skip < 0 {
		skip = 0
	}
	if limit < 1 {
		limit = r.defaultPageLimit
	}
	return skip, limit
}

// formatTimestamp renders a Cypher datetime() parameter at nanosecond
// precision. Edge timestamps are the feed and profile ordering key, so
// whole-second resolution would make burst writes within one second tie.
func formatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func nowParam() string {
	return formatTimestamp(time.Now())
}
