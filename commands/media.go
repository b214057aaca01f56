package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/yatube-go/yatube/models"
	"github.com/yatube-go/yatube/utils"
)

const mediaGrace = 10 * time.Minute

// pruneMedia removes stored images that no post references any more.
func pruneMedia(ctx context.Context, db *gorm.DB, mediaRoot string) (int, error) {
	var images []string
	if err := db.WithContext(ctx).Model(&models.Post{}).Where("image <> ''").Pluck("image", &images).Error; err != nil {
		return 0, fmt.Errorf("list post images: %w", err)
	}
	keep := make(map[string]bool, len(images))
	for _, img := range images {
		keep[img] = true
	}
	return utils.PruneOrphanMedia(mediaRoot, keep, mediaGrace)
}

// MediaCmd groups uploaded media maintenance.
func MediaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "media",
		Short: "Manage uploaded images",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "prune",
		Short: "Delete images no post references",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := bootstrap()
			if err != nil {
				return err
			}
			db, err := openDB(cfg)
			if err != nil {
				return err
			}
			n, err := pruneMedia(cmd.Context(), db, cfg.MediaRoot)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d orphaned file(s)\n", n)
			return nil
		},
	})
	return cmd
}
