package model

// TypeRegistry maps client-supplied type tags (the external layer's published
// type names, e.g. "TweetType") to concrete node kinds. Tags are an
// enumerated set; unknown tags are a first-class lookup miss, never a
// reflection failure.
type TypeRegistry struct {
	tags map[string]Kind
}

// NewTypeRegistry returns a registry holding the published content type tags
func NewTypeRegistry() *TypeRegistry {
	return &TypeRegistry{
		tags: map[string]Kind{
			"TweetType":   KindTweet,
			"ReTweetType": KindReTweet,
			"CommentType": KindComment,
		},
	}
}

// Resolve maps a type tag to its node kind. The second return is false for
// unknown tags.
func (r *TypeRegistry) Resolve(tag string) (Kind, bool) {
	kind, ok := r.tags[tag]
	return kind, ok
}

// ResolveCapable resolves a tag and checks the capability table in one step.
// An unknown tag and a kind lacking the capability are indistinguishable to
// the caller.
func (r *TypeRegistry) ResolveCapable(tag string, capability Capability) (Kind, bool) {
	kind, ok := r.Resolve(tag)
	if !ok || !Supports(kind, capability) {
		return "", false
	}
	return kind, true
}
