package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yatube-go/yatube/utils"
)

// CacheCmd groups cache maintenance commands.
func CacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the page cache",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Drop the cached front page",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := bootstrap()
			if err != nil {
				return err
			}
			if cfg.CacheBackend != "redis" {
				fmt.Fprintln(cmd.OutOrStdout(), "Memory cache lives inside the server process; use POST /admin/cache/clear/ instead")
				return nil
			}
			defer utils.CloseRedis()
			utils.NewCache(cfg, pageCachePrefix).Clear(cmd.Context())
			fmt.Fprintln(cmd.OutOrStdout(), "Page cache cleared")
			return nil
		},
	})
	return cmd
}
