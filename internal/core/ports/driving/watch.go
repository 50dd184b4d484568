package driving

import "context"

// WatchService keeps the registry in sync with a documents directory.
type WatchService interface {
	// Run watches until the context is cancelled, ingesting files as
	// they appear and removing documents whose files disappear.
	Run(ctx context.Context) error
}
