// Package fs abstracts the file system calls used to commit blobs.
//
// LocalFS forwards to the os package. FaultyFS wraps another FileSystem and
// injects write, sync, close and rename failures so tests can prove that a
// failed commit leaves neither the target nor a temporary file behind.
package fs
