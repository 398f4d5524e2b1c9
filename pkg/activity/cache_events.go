package activity

import (
	"strings"
	"time"
)

// CacheEventInput describes the common fields for cache lifecycle events.
type CacheEventInput struct {
	ActorID    string
	UserID     string
	TenantID   string
	ObjectID   string
	Channel    string
	Metadata   map[string]any
	Generation string
	Path       string
	Paths      []string
	OccurredAt time.Time
}

// BuildCacheRebuiltEvent constructs a normalized event for a shaped-output rebuild.
func BuildCacheRebuiltEvent(input CacheEventInput) Event {
	return buildCacheEvent("options.cache.rebuilt", input)
}

// BuildCacheReusedEvent constructs a normalized event for a reference-stable update.
func BuildCacheReusedEvent(input CacheEventInput) Event {
	return buildCacheEvent("options.cache.reused", input)
}

// BuildCacheDriftEvent constructs a normalized event for a wrapper call whose
// path no longer resolves to a callable.
func BuildCacheDriftEvent(input CacheEventInput) Event {
	return buildCacheEvent("options.cache.drift", input)
}

func buildCacheEvent(verb string, input CacheEventInput) Event {
	const objectType = "options.cache"

	metadata := cloneMap(input.Metadata)
	if input.Generation != "" {
		metadata = ensureMetadata(metadata)
		metadata["generation"] = input.Generation
	}
	if input.Path != "" {
		metadata = ensureMetadata(metadata)
		metadata["path"] = input.Path
	}
	if len(input.Paths) > 0 {
		metadata = ensureMetadata(metadata)
		metadata["wrapper_paths"] = append([]string{}, input.Paths...)
	}

	objectID := strings.TrimSpace(input.ObjectID)
	if objectID == "" {
		objectID = strings.TrimSpace(input.Generation)
	}
	if objectID == "" {
		objectID = strings.TrimSpace(input.Path)
	}
	if objectID == "" {
		objectID = objectType
	}

	return Event{
		Verb:       verb,
		ActorID:    strings.TrimSpace(input.ActorID),
		UserID:     strings.TrimSpace(input.UserID),
		TenantID:   strings.TrimSpace(input.TenantID),
		ObjectType: objectType,
		ObjectID:   objectID,
		Channel:    strings.TrimSpace(input.Channel),
		Metadata:   metadata,
		OccurredAt: input.OccurredAt,
	}
}

func ensureMetadata(meta map[string]any) map[string]any {
	if meta == nil {
		return map[string]any{}
	}
	return meta
}
