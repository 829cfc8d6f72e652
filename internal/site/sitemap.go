package site

import (
	"encoding/xml"
	"fmt"
	"io"
	"time"
)

const (
	sitemapNS       = "http://www.sitemaps.org/schemas/sitemap/0.9"
	homePriority    = "1.0"
	detailPriority  = "0.8"
	sitemapDateForm = "2006-01-02"
)

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc      string `xml:"loc"`
	LastMod  string `xml:"lastmod"`
	Priority string `xml:"priority"`
}

// WriteSitemap escribe sitemap.xml: la home con prioridad 1.0 y un detalle por slug con 0.8.
// lastmod es la fecha del build para todas las entradas. Los slugs repetidos aparecen una vez.
func WriteSitemap(w io.Writer, baseURL string, slugs []string, lastmod time.Time) error {
	date := lastmod.Format(sitemapDateForm)

	set := urlSet{
		XMLNS: sitemapNS,
		URLs:  make([]sitemapURL, 0, len(slugs)+1),
	}
	set.URLs = append(set.URLs, sitemapURL{Loc: baseURL + "/", LastMod: date, Priority: homePriority})

	seen := make(map[string]struct{}, len(slugs))
	for _, slug := range slugs {
		if _, dup := seen[slug]; dup {
			continue
		}
		seen[slug] = struct{}{}
		set.URLs = append(set.URLs, sitemapURL{Loc: poolURL(baseURL, slug), LastMod: date, Priority: detailPriority})
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return fmt.Errorf("site.WriteSitemap: %w", err)
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(set); err != nil {
		return fmt.Errorf("site.WriteSitemap: encode: %w", err)
	}
	if _, err := io.WriteString(w, "\n"); err != nil {
		return fmt.Errorf("site.WriteSitemap: %w", err)
	}
	return nil
}

// WriteRobots escribe robots.txt: todo permitido y el puntero al sitemap.
func WriteRobots(w io.Writer, baseURL string) error {
	_, err := fmt.Fprintf(w, "User-agent: *\nAllow: /\n\nSitemap: %s/sitemap.xml\n", baseURL)
	if err != nil {
		return fmt.Errorf("site.WriteRobots: %w", err)
	}
	return nil
}
