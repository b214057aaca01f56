package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/yatube-go/yatube/routes"
	"github.com/yatube-go/yatube/utils"
)

const (
	pageCachePrefix = "cache:page:"
	blacklistPrefix = "jwt:blacklist:"
)

// ServeCmd starts the HTTP server.
func ServeCmd() *cobra.Command {
	var port string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the web server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := bootstrap()
			if err != nil {
				return err
			}
			if port != "" {
				cfg.AppPort = port
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			db, err := openDB(cfg)
			if err != nil {
				return err
			}
			defer utils.CloseRedis()

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			utils.StartMediaCleaner(ctx, time.Hour, func(ctx context.Context) error {
				n, err := pruneMedia(ctx, db, cfg.MediaRoot)
				if n > 0 {
					utils.Sugar.Infof("media cleaner removed %d orphaned file(s)", n)
				}
				return err
			})

			r := routes.SetupRouter(db, routes.Options{
				PageCache: utils.NewCache(cfg, pageCachePrefix),
				Blacklist: utils.NewTokenBlacklist(utils.NewCache(cfg, blacklistPrefix)),
			})

			utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
			if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
				return fmt.Errorf("server stopped with error: %w", err)
			}
			_ = utils.Logger.Sync()
			return nil
		},
	}
	cmd.Flags().StringVarP(&port, "port", "p", "", "listen port, overrides APP_PORT")
	return cmd
}
