package processor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// moveToArchived moves the processed media into the user's archive folder.
func (p *implProcessor) moveToArchived(ctx context.Context, user, mediaPath string) error {
	destDir := filepath.Join(p.cfg.Paths.Archived, user)
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return fmt.Errorf("create archived dir: %w", err)
	}
	destPath := filepath.Join(destDir, filepath.Base(mediaPath))

	p.logger.Info(ctx, "Archiving: %s -> %s", mediaPath, destPath)

	if err := os.Rename(mediaPath, destPath); err != nil {
		return fmt.Errorf("move to archived: %w", err)
	}
	return nil
}

// cleanupTempDir removes a work directory, logs warning if fails
func (p *implProcessor) cleanupTempDir(ctx context.Context, dir string) {
	if err := os.RemoveAll(dir); err != nil {
		p.logger.Warn(ctx, "Failed to cleanup temp dir %s: %v", dir, err)
	} else {
		p.logger.Debug(ctx, "Cleaned up temp dir: %s", dir)
	}
}
