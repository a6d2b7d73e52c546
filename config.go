package main

import (
	"encoding/json"
	"errors"
	"os"
	"time"

	"github.com/ddmoney420/moji/raster"
	"github.com/ddmoney420/moji/share"
)

type MojiwebConfig struct {
	Bind              []string
	SitePrefix        string
	TemplateDirectory string
	FeedTitle         string
	LogLevel          string

	Memcache MemcacheConfig
	Redis    share.RedisConfig
	Render   RenderConfig
	Share    ShareConfig
}

// An empty Address keeps the render cache in process.
type MemcacheConfig struct {
	Address string
	MaxConn int
}

type RenderConfig struct {
	// Inputs longer than this are truncated before rendering.
	MaxInputBytes int
	// Upper bound on a request body, including JSON framing.
	MaxRequestBytes int64
	MaxConcurrent   int
	MaxWaiting      int
	CacheSecs       int
	// Largest PNG grid served, in character cells.
	PNGMaxCols int
	PNGMaxRows int
}

type ShareConfig struct {
	ExpireSecs int
	MaxRecent  int
	FeedSize   int
}

const (
	DefaultMemcachedMaxConn = 16
	DefaultMaxInputBytes    = 1048576
	DefaultMaxConcurrent    = 8
	DefaultMaxWaiting       = 64
	DefaultRenderCacheSecs  = 600
	DefaultShareExpireSecs  = 30 * 24 * 3600
	DefaultShareMaxRecent   = 100
	DefaultFeedSize         = 20
	DefaultFeedTitle        = "moji - recent art"
)

func (c *MojiwebConfig) CheckAndFillDefaults() error {
	if len(c.Bind) == 0 {
		return errors.New("no bind addresses specified")
	}

	if c.Memcache.MaxConn <= 0 {
		c.Memcache.MaxConn = DefaultMemcachedMaxConn
	}

	if c.Render.MaxInputBytes <= 0 {
		c.Render.MaxInputBytes = DefaultMaxInputBytes
	}

	if c.Render.MaxRequestBytes < int64(c.Render.MaxInputBytes) {
		// Room for JSON escaping of every byte.
		c.Render.MaxRequestBytes = int64(c.Render.MaxInputBytes)*6 + 4096
	}

	if c.Render.MaxConcurrent <= 0 {
		c.Render.MaxConcurrent = DefaultMaxConcurrent
	}

	if c.Render.MaxWaiting < 0 {
		return errors.New("render max waiting must not be negative")
	} else if c.Render.MaxWaiting == 0 {
		c.Render.MaxWaiting = DefaultMaxWaiting
	}

	if c.Render.CacheSecs <= 0 {
		c.Render.CacheSecs = DefaultRenderCacheSecs
	}

	if c.Render.PNGMaxCols <= 0 {
		c.Render.PNGMaxCols = raster.DefaultMaxCols
	}
	if c.Render.PNGMaxRows <= 0 {
		c.Render.PNGMaxRows = raster.DefaultMaxRows
	}

	if c.Share.ExpireSecs <= 0 {
		c.Share.ExpireSecs = DefaultShareExpireSecs
	}

	if c.Share.MaxRecent <= 0 {
		c.Share.MaxRecent = DefaultShareMaxRecent
	}

	if c.Share.FeedSize <= 0 {
		c.Share.FeedSize = DefaultFeedSize
	}
	if c.Share.FeedSize > c.Share.MaxRecent {
		c.Share.FeedSize = c.Share.MaxRecent
	}

	if c.FeedTitle == "" {
		c.FeedTitle = DefaultFeedTitle
	}

	return nil
}

func (c *MojiwebConfig) RenderCacheTimeout() time.Duration {
	return time.Duration(c.Render.CacheSecs) * time.Second
}

func (c *MojiwebConfig) PNGOptions() raster.Options {
	opt := raster.DefaultOptions()
	opt.MaxCols = c.Render.PNGMaxCols
	opt.MaxRows = c.Render.PNGMaxRows
	return opt
}

func (c *MojiwebConfig) ShareExpire() time.Duration {
	return time.Duration(c.Share.ExpireSecs) * time.Second
}

func loadConfig(path string) (*MojiwebConfig, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var config MojiwebConfig
	if err := json.NewDecoder(f).Decode(&config); err != nil {
		return nil, err
	}

	if err := config.CheckAndFillDefaults(); err != nil {
		return nil, err
	}
	return &config, nil
}
