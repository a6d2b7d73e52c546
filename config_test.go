package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ddmoney420/moji/raster"
)

func TestCheckAndFillDefaults(t *testing.T) {
	c := &MojiwebConfig{Bind: []string{"tcp::8080"}}
	require.NoError(t, c.CheckAndFillDefaults())

	assert.Equal(t, DefaultMemcachedMaxConn, c.Memcache.MaxConn)
	assert.Equal(t, DefaultMaxInputBytes, c.Render.MaxInputBytes)
	assert.GreaterOrEqual(t, c.Render.MaxRequestBytes, int64(c.Render.MaxInputBytes))
	assert.Equal(t, DefaultMaxConcurrent, c.Render.MaxConcurrent)
	assert.Equal(t, DefaultMaxWaiting, c.Render.MaxWaiting)
	assert.Equal(t, DefaultShareMaxRecent, c.Share.MaxRecent)
	assert.Equal(t, DefaultFeedSize, c.Share.FeedSize)
	assert.Equal(t, DefaultFeedTitle, c.FeedTitle)
	assert.Equal(t, raster.DefaultMaxCols, c.Render.PNGMaxCols)
	assert.Equal(t, raster.DefaultMaxRows, c.Render.PNGMaxRows)
}

func TestPNGOptions(t *testing.T) {
	c := &MojiwebConfig{
		Bind:   []string{"tcp::8080"},
		Render: RenderConfig{PNGMaxCols: 80, PNGMaxRows: 25},
	}
	require.NoError(t, c.CheckAndFillDefaults())

	opt := c.PNGOptions()
	assert.Equal(t, 80, opt.MaxCols)
	assert.Equal(t, 25, opt.MaxRows)
	assert.Equal(t, raster.DefaultOptions().Background, opt.Background)
}

func TestCheckAndFillDefaultsErrors(t *testing.T) {
	for _, test := range []struct {
		desc   string
		config MojiwebConfig
	}{
		{
			desc: "no bind address",
		},
		{
			desc: "negative waiting",
			config: MojiwebConfig{
				Bind:   []string{"tcp::8080"},
				Render: RenderConfig{MaxWaiting: -1},
			},
		},
	} {
		t.Run(test.desc, func(t *testing.T) {
			assert.Error(t, test.config.CheckAndFillDefaults())
		})
	}
}

func TestFeedSizeCappedByRecent(t *testing.T) {
	c := &MojiwebConfig{
		Bind:  []string{"tcp::8080"},
		Share: ShareConfig{MaxRecent: 5, FeedSize: 50},
	}
	require.NoError(t, c.CheckAndFillDefaults())
	assert.Equal(t, 5, c.Share.FeedSize)
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"Bind": ["tcp:127.0.0.1:8080"],
		"SitePrefix": "https://moji.example",
		"Redis": {"Addr": "localhost:6379"},
		"Render": {"MaxInputBytes": 4096}
	}`), 0644))

	c, err := loadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "https://moji.example", c.SitePrefix)
	assert.Equal(t, "localhost:6379", c.Redis.Addr)
	assert.Equal(t, 4096, c.Render.MaxInputBytes)
	assert.Equal(t, DefaultShareExpireSecs, c.Share.ExpireSecs)

	_, err = loadConfig(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}
