// Package cache provides a byte-bounded LRU of immutable blobs.
//
// Cached values are shared with callers and must be treated as read-only.
// When a resource.Controller is supplied, every cached byte is reserved
// against its memory limit, and a value that cannot be reserved is simply
// not cached.
package cache
