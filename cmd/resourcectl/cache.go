package main

import (
	"context"
	"fmt"
	"io"

	"github.com/go-redis/redis/v8"
	"github.com/renderdragon/backend/internal/cache"
	"github.com/renderdragon/backend/internal/config"
	"github.com/renderdragon/backend/internal/logger"
	"github.com/spf13/cobra"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "inspect and clear the shared JSON cache",
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "remove every cached catalog and API response",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if cfg.RedisAddr() == "" {
			fmt.Fprintln(cmd.OutOrStdout(), "REDIS_HOST is not set: the API keeps its cache in process memory, restart it to clear")
			return nil
		}

		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()
		if err := rdb.Ping(cmd.Context()).Err(); err != nil {
			return fmt.Errorf("failed to connect to Redis: %w", err)
		}

		backend := cache.NewRedisBackend(rdb)
		stores := []*cache.Store{
			cache.NewStore(backend, cache.ResourcePrefix, cfg.Cache.ResourceTTL, logger.Logger),
			cache.NewStore(backend, cache.APIPrefix, cfg.Cache.APITTL, logger.Logger),
		}
		return runCacheClear(cmd.Context(), stores, cmd.OutOrStdout())
	},
}

func init() {
	cacheCmd.AddCommand(cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}

func runCacheClear(ctx context.Context, stores []*cache.Store, w io.Writer) error {
	total := 0
	for _, s := range stores {
		total += s.ClearAll(ctx)
	}
	fmt.Fprintf(w, "cleared %d cache entries\n", total)
	return nil
}
