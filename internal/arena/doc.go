// Package arena provides the append-only store that owns a collection's photos.
//
// Entries live in fixed-size chunks that are allocated once and never grown
// or copied, so a pointer returned by Get stays valid for the arena's whole
// lifetime no matter how many entries are appended later. Handles are dense,
// start at 0 and follow insertion order.
//
// # Concurrency
//
// Arena is not synchronized. The owner serializes Append against every other
// call; concurrent Get/Len calls are safe among themselves.
package arena
