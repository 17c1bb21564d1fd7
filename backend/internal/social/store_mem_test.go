package social

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"chirp/backend/internal/model"
	"chirp/backend/pkg/errors"
)

// memStore is an in-memory Store honoring the same guard and counter
// semantics as the Neo4j repository. Edge order uses a logical clock so
// ordering assertions are strict even within one wall-clock tick.
type memStore struct {
	mu  sync.Mutex
	seq int64

	users    map[string]*model.User
	tweets   map[string]*model.Tweet
	retweets map[string]*model.ReTweet
	comments map[string]*model.Comment
	hashtags map[string]*model.Hashtag

	authored    map[string][]authoredEdge          // authorUID -> authorship edges
	likes       map[string]map[string]bool         // userUID -> content uid
	follows     map[string]map[string]bool         // followerUID -> target uid
	followSeq   map[string]map[string]int64        // follow edge order
	retweetedBy map[string]map[string]bool         // userUID -> original tweet uid
	tagged      map[string][]string                // tag -> tweet uids
	commentsOn  map[string][]string                // target uid -> comment uids
	getUserCnt  map[string]int                     // instrumentation for loader tests
}

type authoredEdge struct {
	rel  string // TWEETS, RETWEETS, COMMENTS
	uid  string
	kind model.Kind
	seq  int64
}

func newMemStore() *memStore {
	return &memStore{
		users:       make(map[string]*model.User),
		tweets:      make(map[string]*model.Tweet),
		retweets:    make(map[string]*model.ReTweet),
		comments:    make(map[string]*model.Comment),
		hashtags:    make(map[string]*model.Hashtag),
		authored:    make(map[string][]authoredEdge),
		likes:       make(map[string]map[string]bool),
		follows:     make(map[string]map[string]bool),
		followSeq:   make(map[string]map[string]int64),
		retweetedBy: make(map[string]map[string]bool),
		tagged:      make(map[string][]string),
		commentsOn:  make(map[string][]string),
		getUserCnt:  make(map[string]int),
	}
}

func (s *memStore) tick() int64 {
	s.seq++
	return s.seq
}

func (s *memStore) stamp(seq int64) time.Time {
	return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(seq) * time.Second)
}

func (s *memStore) EnsureUser(_ context.Context, uid string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if user, ok := s.users[uid]; ok {
		copied := *user
		return &copied, nil
	}
	user := &model.User{UID: uid, Created: s.stamp(s.tick())}
	s.users[uid] = user
	copied := *user
	return &copied, nil
}

func (s *memStore) GetUser(_ context.Context, uid string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.getUserCnt[uid]++
	user, ok := s.users[uid]
	if !ok {
		return nil, errors.NewUserNotFound(uid)
	}
	copied := *user
	return &copied, nil
}

func (s *memStore) ConnectFollow(_ context.Context, followerUID, targetUID string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	target, ok := s.users[targetUID]
	if !ok {
		return nil, errors.NewUserNotFound(targetUID)
	}
	if _, ok := s.users[followerUID]; !ok {
		return nil, errors.NewUserNotFound(followerUID)
	}
	if s.follows[followerUID][targetUID] {
		return nil, errors.ErrAlreadyFollowed
	}
	if s.follows[followerUID] == nil {
		s.follows[followerUID] = make(map[string]bool)
		s.followSeq[followerUID] = make(map[string]int64)
	}
	s.follows[followerUID][targetUID] = true
	s.followSeq[followerUID][targetUID] = s.tick()
	target.FollowersCount++
	copied := *target
	return &copied, nil
}

func (s *memStore) DisconnectFollow(_ context.Context, followerUID, targetUID string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	target, ok := s.users[targetUID]
	if !ok {
		return nil, errors.NewUserNotFound(targetUID)
	}
	if !s.follows[followerUID][targetUID] {
		return nil, errors.ErrNotFollowing
	}
	delete(s.follows[followerUID], targetUID)
	delete(s.followSeq[followerUID], targetUID)
	target.FollowersCount--
	copied := *target
	return &copied, nil
}

func (s *memStore) FollowersOf(_ context.Context, uid string) ([]*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var users []*model.User
	for follower, targets := range s.follows {
		if targets[uid] {
			copied := *s.users[follower]
			users = append(users, &copied)
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i].UID < users[j].UID })
	return users, nil
}

func (s *memStore) FollowingOf(_ context.Context, uid string) ([]*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var users []*model.User
	for target := range s.follows[uid] {
		copied := *s.users[target]
		users = append(users, &copied)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].UID < users[j].UID })
	return users, nil
}

func (s *memStore) CreateTweet(_ context.Context, authorUID, content string, hashtags []string) (*model.Tweet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[authorUID]; !ok {
		return nil, errors.NewUserNotFound(authorUID)
	}
	seq := s.tick()
	tweet := &model.Tweet{
		UID:     uuid.NewString(),
		Content: content,
		Created: s.stamp(seq),
	}
	s.tweets[tweet.UID] = tweet
	s.authored[authorUID] = append(s.authored[authorUID], authoredEdge{rel: "TWEETS", uid: tweet.UID, kind: model.KindTweet, seq: seq})

	for _, tag := range hashtags {
		hashtag, ok := s.hashtags[tag]
		if !ok {
			hashtag = &model.Hashtag{UID: uuid.NewString(), Tag: tag, Created: s.stamp(seq)}
			s.hashtags[tag] = hashtag
		}
		hashtag.Tags++
		s.tagged[tag] = append(s.tagged[tag], tweet.UID)
	}

	copied := *tweet
	return &copied, nil
}

func (s *memStore) CreateRetweet(_ context.Context, authorUID, tweetUID string) (*model.ReTweet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tweet, ok := s.tweets[tweetUID]
	if !ok {
		return nil, errors.NewTweetNotFound(tweetUID)
	}
	if s.retweetedBy[authorUID][tweetUID] {
		return nil, errors.ErrAlreadyRetweeted
	}
	if s.retweetedBy[authorUID] == nil {
		s.retweetedBy[authorUID] = make(map[string]bool)
	}
	s.retweetedBy[authorUID][tweetUID] = true
	tweet.Retweets++

	seq := s.tick()
	retweet := &model.ReTweet{
		UID:         uuid.NewString(),
		OriginalUID: tweetUID,
		Created:     s.stamp(seq),
	}
	s.retweets[retweet.UID] = retweet
	s.authored[authorUID] = append(s.authored[authorUID], authoredEdge{rel: "RETWEETS", uid: retweet.UID, kind: model.KindReTweet, seq: seq})

	copied := *retweet
	return &copied, nil
}

func (s *memStore) HasRetweeted(_ context.Context, userUID, tweetUID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.retweetedBy[userUID][tweetUID], nil
}

func (s *memStore) likeable(uid string, kind model.Kind) (model.Content, bool) {
	switch kind {
	case model.KindTweet:
		if t, ok := s.tweets[uid]; ok {
			return t, true
		}
	case model.KindReTweet:
		if rt, ok := s.retweets[uid]; ok {
			return rt, true
		}
	case model.KindComment:
		if c, ok := s.comments[uid]; ok {
			return c, true
		}
	}
	return nil, false
}

func addLikes(content model.Content, delta int) {
	switch node := content.(type) {
	case *model.Tweet:
		node.Likes += delta
	case *model.ReTweet:
		node.Likes += delta
	case *model.Comment:
		node.Likes += delta
	}
}

func snapshot(content model.Content) model.Content {
	switch node := content.(type) {
	case *model.Tweet:
		copied := *node
		return &copied
	case *model.ReTweet:
		copied := *node
		return &copied
	case *model.Comment:
		copied := *node
		return &copied
	}
	return content
}

func (s *memStore) ConnectLike(_ context.Context, userUID, targetUID string, kind model.Kind) (model.Content, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[userUID]; !ok {
		return nil, errors.NewUserNotFound(userUID)
	}
	target, ok := s.likeable(targetUID, kind)
	if !ok {
		return nil, errors.ErrNotLikeable
	}
	if s.likes[userUID][targetUID] {
		return nil, errors.ErrAlreadyLiked
	}
	if s.likes[userUID] == nil {
		s.likes[userUID] = make(map[string]bool)
	}
	s.likes[userUID][targetUID] = true
	addLikes(target, 1)
	return snapshot(target), nil
}

func (s *memStore) DisconnectLike(_ context.Context, userUID, targetUID string, kind model.Kind) (model.Content, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	target, ok := s.likeable(targetUID, kind)
	if !ok {
		return nil, errors.ErrUnliked
	}
	if !s.likes[userUID][targetUID] {
		return nil, errors.ErrUnliked
	}
	delete(s.likes[userUID], targetUID)
	addLikes(target, -1)
	return snapshot(target), nil
}

func (s *memStore) CreateComment(_ context.Context, authorUID, targetUID string, kind model.Kind, content string) (*model.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[authorUID]; !ok {
		return nil, errors.NewUserNotFound(authorUID)
	}
	target, ok := s.likeable(targetUID, kind)
	if !ok {
		return nil, errors.ErrNotCommentable
	}

	seq := s.tick()
	comment := &model.Comment{
		UID:     uuid.NewString(),
		Content: content,
		Created: s.stamp(seq),
	}
	s.comments[comment.UID] = comment
	s.authored[authorUID] = append(s.authored[authorUID], authoredEdge{rel: "COMMENTS", uid: comment.UID, kind: model.KindComment, seq: seq})
	s.commentsOn[targetUID] = append(s.commentsOn[targetUID], comment.UID)

	switch node := target.(type) {
	case *model.Tweet:
		node.Comments++
	case *model.ReTweet:
		node.Comments++
	}

	copied := *comment
	return &copied, nil
}

func (s *memStore) CommentsOf(_ context.Context, targetUID string, _ model.Kind) ([]*model.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	uids := s.commentsOn[targetUID]
	comments := make([]*model.Comment, 0, len(uids))
	for i := len(uids) - 1; i >= 0; i-- {
		copied := *s.comments[uids[i]]
		comments = append(comments, &copied)
	}
	return comments, nil
}

func (s *memStore) contentOf(edge authoredEdge) model.Content {
	switch edge.kind {
	case model.KindTweet:
		return snapshot(s.tweets[edge.uid])
	case model.KindReTweet:
		return snapshot(s.retweets[edge.uid])
	case model.KindComment:
		return snapshot(s.comments[edge.uid])
	}
	return nil
}

func page[T any](items []T, skip, limit int) []T {
	if skip >= len(items) {
		return nil
	}
	items = items[skip:]
	if limit < len(items) {
		items = items[:limit]
	}
	return items
}

func (s *memStore) ProfileContent(_ context.Context, uid string, skip, limit int) ([]model.Content, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	edges := append([]authoredEdge(nil), s.authored[uid]...)
	sort.Slice(edges, func(i, j int) bool { return edges[i].seq > edges[j].seq })
	edges = page(edges, skip, limit)

	items := make([]model.Content, 0, len(edges))
	for _, edge := range edges {
		items = append(items, s.contentOf(edge))
	}
	return items, nil
}

func (s *memStore) Feed(_ context.Context, uid string, skip, limit int) ([]model.Content, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var edges []authoredEdge
	for followee := range s.follows[uid] {
		for _, edge := range s.authored[followee] {
			if edge.rel == "TWEETS" || edge.rel == "RETWEETS" {
				edges = append(edges, edge)
			}
		}
	}
	sort.Slice(edges, func(i, j int) bool { return edges[i].seq > edges[j].seq })
	edges = page(edges, skip, limit)

	items := make([]model.Content, 0, len(edges))
	for _, edge := range edges {
		items = append(items, s.contentOf(edge))
	}
	return items, nil
}

func (s *memStore) SearchByHashtag(_ context.Context, tag string, skip, limit int) ([]*model.Tweet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	uids := s.tagged[tag]
	tweets := make([]*model.Tweet, 0, len(uids))
	for i := len(uids) - 1; i >= 0; i-- {
		copied := *s.tweets[uids[i]]
		tweets = append(tweets, &copied)
	}
	tweets = page(tweets, skip, limit)
	return tweets, nil
}

func (s *memStore) GetHashtag(_ context.Context, tag string) (*model.Hashtag, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	hashtag, ok := s.hashtags[tag]
	if !ok {
		return nil, errors.NewHashtagNotFound(tag)
	}
	copied := *hashtag
	return &copied, nil
}

var _ Store = (*memStore)(nil)
