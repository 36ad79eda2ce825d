package archive

import "context"

// Archiver uploads a completed match's video to long-term storage.
// This is a port that can be implemented by different infrastructure adapters
type Archiver interface {
	// Upload stores the file under the given display name and returns a
	// shareable link.
	Upload(ctx context.Context, localPath, name string) (string, error)
}
