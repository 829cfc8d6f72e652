package site

import (
	"bytes"
	"encoding/xml"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteSitemap(t *testing.T) {
	var buf bytes.Buffer
	lastmod := time.Date(2026, 10, 19, 23, 59, 0, 0, time.UTC)

	err := WriteSitemap(&buf, "https://yields.example.com", []string{"a-slug", "b-slug", "a-slug"}, lastmod)
	require.NoError(t, err)

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, xml.Header))

	var set urlSet
	require.NoError(t, xml.Unmarshal(buf.Bytes(), &set))
	require.Len(t, set.URLs, 3, "home plus one entry per distinct slug")

	assert.Equal(t, "https://yields.example.com/", set.URLs[0].Loc)
	assert.Equal(t, "1.0", set.URLs[0].Priority)
	assert.Equal(t, "https://yields.example.com/pools/a-slug.html", set.URLs[1].Loc)
	assert.Equal(t, "https://yields.example.com/pools/b-slug.html", set.URLs[2].Loc)
	for _, u := range set.URLs[1:] {
		assert.Equal(t, "0.8", u.Priority)
	}
	for _, u := range set.URLs {
		assert.Equal(t, "2026-10-19", u.LastMod)
	}
	assert.Contains(t, out, `xmlns="http://www.sitemaps.org/schemas/sitemap/0.9"`)
}

func TestWriteSitemap_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSitemap(&buf, "https://yields.example.com", nil, time.Now()))

	var set urlSet
	require.NoError(t, xml.Unmarshal(buf.Bytes(), &set))
	require.Len(t, set.URLs, 1)
	assert.Equal(t, "https://yields.example.com/", set.URLs[0].Loc)
}

func TestWriteRobots(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteRobots(&buf, "https://yields.example.com"))
	assert.Equal(t, "User-agent: *\nAllow: /\n\nSitemap: https://yields.example.com/sitemap.xml\n", buf.String())
}
