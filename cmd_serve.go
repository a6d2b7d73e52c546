package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ddmoney420/moji/cache"
	"github.com/ddmoney420/moji/share"
	"github.com/ddmoney420/moji/system"
)

const shutdownTimeout = 10 * time.Second

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("conf", "config.json", "config file")
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web server",
	RunE: func(cmd *cobra.Command, args []string) error {
		confPath, _ := cmd.Flags().GetString("conf")
		config, err := loadConfig(confPath)
		if err != nil {
			return fmt.Errorf("loadConfig: %w", err)
		}
		if level, _ := cmd.Flags().GetString("log-level"); level == "" {
			if err := system.SetLevel(config.LogLevel); err != nil {
				return err
			}
		}

		s, err := newServer(config, newRenderCache(config), newShareStore(config))
		if err != nil {
			return err
		}

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()
		return serve(ctx, config.Bind, s)
	},
}

func newRenderCache(config *MojiwebConfig) cache.Cache {
	if config.Memcache.Address == "" {
		system.Logger.Info("no memcached configured, caching in process")
		return cache.NewMemory()
	}
	return cache.NewMemcached(config.Memcache.Address, config.Memcache.MaxConn)
}

func newShareStore(config *MojiwebConfig) share.Store {
	if config.Redis.Addr == "" {
		system.Logger.Warn("no redis configured, shares are kept in memory only")
		return share.NewMemoryStore(config.Share.MaxRecent)
	}
	return share.NewRedisStore(config.Redis, config.ShareExpire(), config.Share.MaxRecent)
}

// serve listens on every bind address, given as "network:address" (for
// example "tcp::8080" or "unix:/run/mojiweb.sock"), until ctx is done.
func serve(ctx context.Context, binds []string, h http.Handler) error {
	var servers []*http.Server
	errc := make(chan error, len(binds))
	for _, addr := range binds {
		part := strings.SplitN(addr, ":", 2)
		if len(part) != 2 {
			return fmt.Errorf("invalid bind address: %v", addr)
		}
		listener, err := net.Listen(part[0], part[1])
		if err != nil {
			return fmt.Errorf("listen failed for address %v: %w", addr, err)
		}
		if part[0] == "unix" {
			// Ignores errors, we can't do anything to those.
			os.Chmod(part[1], 0777)
		}
		svr := &http.Server{
			Handler:        h,
			MaxHeaderBytes: 64 * 1024,
		}
		servers = append(servers, svr)
		system.Logger.Info("listening", "addr", addr)
		go func() {
			if err := svr.Serve(listener); !errors.Is(err, http.ErrServerClosed) {
				errc <- err
			}
		}()
	}

	var err error
	select {
	case <-ctx.Done():
	case err = <-errc:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	for _, svr := range servers {
		if serr := svr.Shutdown(shutdownCtx); serr != nil {
			system.Logger.Warn("shutdown", "err", serr)
		}
	}
	return err
}
