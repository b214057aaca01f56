package utils

import (
	"context"
	"os"
	"path"
	"path/filepath"
	"time"
)

// PruneOrphanMedia deletes uploaded post images that no post references.
// keep holds referenced paths relative to mediaRoot (e.g. "posts/<name>");
// files younger than grace are left alone so in-flight uploads survive.
func PruneOrphanMedia(mediaRoot string, keep map[string]bool, grace time.Duration) (int, error) {
	dir := filepath.Join(mediaRoot, ImageUploadDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}
	cutoff := time.Now().Add(-grace)
	removed := 0
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if keep[path.Join(ImageUploadDir, e.Name())] {
			continue
		}
		info, err := e.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(dir, e.Name())); err != nil {
			Sugar.Warnf("media cleaner remove failed name=%s err=%v", e.Name(), err)
			continue
		}
		removed++
	}
	return removed, nil
}

// StartMediaCleaner runs sweep every interval until ctx is cancelled. It is
// best-effort and logs failures.
func StartMediaCleaner(ctx context.Context, interval time.Duration, sweep func(context.Context) error) {
	if interval <= 0 {
		interval = time.Hour
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := sweep(ctx); err != nil {
					Sugar.Warnf("media cleaner sweep failed: %v", err)
				}
			}
		}
	}()
}
