package model

import (
	"strings"
	"time"
	"unicode/utf8"
)

// MaxTweetLength is the exclusive ceiling for tweet content, measured in
// runes. Content of this length or longer is rejected.
const MaxTweetLength = 150

// Kind identifies a node kind in the content graph. It doubles as the Neo4j
// node label.
type Kind string

const (
	KindUser    Kind = "User"
	KindTweet   Kind = "Tweet"
	KindReTweet Kind = "ReTweet"
	KindComment Kind = "Comment"
	KindHashtag Kind = "Hashtag"
)

// Capability is a structural tag a node kind may carry. Capabilities are
// looked up in an explicit table, never derived from type names.
type Capability string

const (
	// Likeable kinds carry a likes counter and accept LIKES edges
	Likeable Capability = "likeable"
	// Commentable kinds carry a comments counter and accept ABOUT edges
	Commentable Capability = "commentable"
)

// ============================================================================
// Node Snapshots
// ============================================================================

// User represents a user node. Identity attributes (name, email, verification)
// live in the external identity store; the graph mirrors users by uid only.
type User struct {
	UID            string    `json:"uid"`
	FollowersCount int       `json:"followers_count"`
	Created        time.Time `json:"created"`
}

// Tweet represents a tweet node
type Tweet struct {
	UID      string    `json:"uid"`
	Content  string    `json:"content"`
	Likes    int       `json:"likes"`
	Comments int       `json:"comments"`
	Retweets int       `json:"retweets"`
	Created  time.Time `json:"created"`
}

// ReTweet represents a retweet node referencing exactly one original tweet
type ReTweet struct {
	UID         string    `json:"uid"`
	Likes       int       `json:"likes"`
	Comments    int       `json:"comments"`
	OriginalUID string    `json:"original_uid"`
	Created     time.Time `json:"created"`
}

// Comment represents a comment node
type Comment struct {
	UID     string    `json:"uid"`
	Content string    `json:"content"`
	Likes   int       `json:"likes"`
	Created time.Time `json:"created"`
}

// Hashtag represents a hashtag node with its usage counter
type Hashtag struct {
	UID     string    `json:"uid"`
	Tag     string    `json:"tag"`
	Tags    int       `json:"tags"`
	Created time.Time `json:"created"`
}

// ============================================================================
// Content Union
// ============================================================================

// Content is the closed union of content nodes returned by feed, profile and
// like operations. Callers discriminate by ContentKind.
type Content interface {
	ContentKind() Kind
	ContentUID() string
}

func (t *Tweet) ContentKind() Kind    { return KindTweet }
func (t *Tweet) ContentUID() string   { return t.UID }
func (r *ReTweet) ContentKind() Kind  { return KindReTweet }
func (r *ReTweet) ContentUID() string { return r.UID }
func (c *Comment) ContentKind() Kind  { return KindComment }
func (c *Comment) ContentUID() string { return c.UID }

// capabilities is the kind → capability table. Tweet and ReTweet are likeable
// and commentable; Comment is likeable only.
var capabilities = map[Kind]map[Capability]bool{
	KindTweet:   {Likeable: true, Commentable: true},
	KindReTweet: {Likeable: true, Commentable: true},
	KindComment: {Likeable: true},
}

// Supports reports whether a node kind carries the given capability
func Supports(kind Kind, capability Capability) bool {
	return capabilities[kind][capability]
}

// ============================================================================
// Hashtag Normalization
// ============================================================================

// NormalizeTag lowercases and trims a hashtag, stripping a leading '#'.
// The normalized form is the Hashtag node's unique key.
func NormalizeTag(tag string) string {
	tag = strings.ToLower(strings.TrimSpace(tag))
	return strings.TrimPrefix(tag, "#")
}

// ValidTweetContent reports whether tweet content satisfies the length
// invariant: non-empty and strictly under MaxTweetLength runes.
func ValidTweetContent(content string) bool {
	return content != "" && utf8.RuneCountInString(content) < MaxTweetLength
}
