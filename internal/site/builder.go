package site

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alejandrodnm/yieldsite/internal/domain"
	"github.com/alejandrodnm/yieldsite/internal/ports"
)

const (
	buildTimeLayout = "2006-01-02 15:04:05"
	poolsDir        = "pools"
	pageExt         = ".html"
	lastRunTop      = 3 // pools del último fetch citados en el footer
)

// Config contiene la configuración del build del sitio.
type Config struct {
	OutputDir string
	BaseURL   string // sin barra final

	// RecentStart/RecentEnd definen la ventana [start, end) del ranking que se
	// lista aparte en la home para que los crawlers lleguen a más páginas.
	RecentStart int
	RecentEnd   int
	Neighbors   int
}

// DefaultConfig devuelve la configuración de producción.
func DefaultConfig() Config {
	return Config{
		OutputDir:   "output",
		BaseURL:     "https://defi-yields.example.com",
		RecentStart: 20,
		RecentEnd:   70,
		Neighbors:   DefaultNeighbors,
	}
}

// Builder genera el árbol estático completo a partir del dataset.
type Builder struct {
	cfg       Config
	store     ports.PoolStore
	referrals ports.ReferralSource
	history   ports.History
	renderer  *Renderer
	now       func() time.Time
}

// NewBuilder crea un Builder. history puede ser nil.
func NewBuilder(
	cfg Config,
	store ports.PoolStore,
	referrals ports.ReferralSource,
	history ports.History,
	renderer *Renderer,
) *Builder {
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Neighbors <= 0 {
		cfg.Neighbors = DefaultNeighbors
	}
	return &Builder{
		cfg:       cfg,
		store:     store,
		referrals: referrals,
		history:   history,
		renderer:  renderer,
		now:       time.Now,
	}
}

// WithClock reemplaza el reloj para obtener un build reproducible.
func (b *Builder) WithClock(now func() time.Time) *Builder {
	b.now = now
	return b
}

// Build carga el dataset y escribe index, detalles, sitemap, robots y assets.
// Si el dataset no existe devuelve storage.ErrNoData sin escribir nada.
func (b *Builder) Build(ctx context.Context) (domain.BuildStats, error) {
	slog.Info("starting site build", "output", b.cfg.OutputDir)

	pools, err := b.store.LoadPools(ctx)
	if err != nil {
		return domain.BuildStats{}, fmt.Errorf("site.Build: load pools: %w", err)
	}
	refs, err := b.referrals.LoadReferrals(ctx)
	if err != nil {
		return domain.BuildStats{}, fmt.Errorf("site.Build: load referrals: %w", err)
	}

	builtAt := b.now()
	buildTime := builtAt.Format(buildTimeLayout)
	sitePools := Annotate(pools, refs)
	neighbors := Neighbors(sitePools, b.cfg.Neighbors)

	stats := domain.BuildStats{BuiltAt: builtAt, Pools: len(sitePools)}

	pagesDir := filepath.Join(b.cfg.OutputDir, poolsDir)
	if err := os.MkdirAll(pagesDir, 0o755); err != nil {
		return stats, fmt.Errorf("site.Build: create %q: %w", pagesDir, err)
	}

	slog.Info("generating index page")
	index := IndexPage{
		Pools:     sitePools,
		Recent:    RecentWindow(sitePools, b.cfg.RecentStart, b.cfg.RecentEnd),
		BuildTime: buildTime,
		BaseURL:   b.cfg.BaseURL,
	}
	index.LastRun, index.LastRunTop = b.lastRun(ctx)
	if err := b.writePage(filepath.Join(b.cfg.OutputDir, "index.html"), func(buf *bytes.Buffer) error {
		return b.renderer.RenderIndex(buf, index)
	}); err != nil {
		return stats, fmt.Errorf("site.Build: %w", err)
	}

	slog.Info("generating detail pages", "count", len(sitePools))
	written := make(map[string]string, len(sitePools)) // slug → pool id
	slugs := make([]string, 0, len(sitePools))
	for _, p := range sitePools {
		if prev, dup := written[p.Slug]; dup {
			stats.Collisions++
			slog.Warn("slug collision, page overwritten",
				"slug", p.Slug,
				"previous_pool", prev,
				"pool", p.Pool.Pool,
			)
		}
		page := DetailPage{
			Pool:      p,
			Neighbors: neighbors[p.Slug],
			BaseURL:   b.cfg.BaseURL,
			BuildTime: buildTime,
		}
		path := filepath.Join(pagesDir, p.Slug+pageExt)
		if err := b.writePage(path, func(buf *bytes.Buffer) error {
			return b.renderer.RenderDetail(buf, page)
		}); err != nil {
			return stats, fmt.Errorf("site.Build: %w", err)
		}
		written[p.Slug] = p.Pool.Pool
		slugs = append(slugs, p.Slug)
	}
	stats.DetailPages = len(written)

	if err := b.writePage(filepath.Join(b.cfg.OutputDir, "sitemap.xml"), func(buf *bytes.Buffer) error {
		return WriteSitemap(buf, b.cfg.BaseURL, slugs, builtAt)
	}); err != nil {
		return stats, fmt.Errorf("site.Build: %w", err)
	}
	if err := b.writePage(filepath.Join(b.cfg.OutputDir, "robots.txt"), func(buf *bytes.Buffer) error {
		return WriteRobots(buf, b.cfg.BaseURL)
	}); err != nil {
		return stats, fmt.Errorf("site.Build: %w", err)
	}
	if err := copyStatic(b.cfg.OutputDir); err != nil {
		return stats, fmt.Errorf("site.Build: %w", err)
	}

	slog.Info("build complete",
		"pools", stats.Pools,
		"detail_pages", stats.DetailPages,
		"collisions", stats.Collisions,
	)
	return stats, nil
}

// Annotate deriva slug y link de referido de cada pool, sin modificar los originales.
func Annotate(pools []domain.Pool, refs domain.Referrals) []domain.SitePool {
	out := make([]domain.SitePool, len(pools))
	for i, p := range pools {
		out[i] = domain.SitePool{
			Pool:         p,
			Slug:         PoolSlug(p),
			ReferralLink: refs.Link(p.Project),
		}
	}
	return out
}

// RecentWindow devuelve pools[start:end] recortado a los límites de la lista.
// Es una ventana fija del ranking por score, no un orden por fecha.
func RecentWindow(pools []domain.SitePool, start, end int) []domain.SitePool {
	start = max(0, min(start, len(pools)))
	end = max(start, min(end, len(pools)))
	return pools[start:end]
}

// lastRun lee el último fetch del histórico y sus top pools (hasta lastRunTop).
// Sin histórico, o si falla la lectura, devuelve nil.
func (b *Builder) lastRun(ctx context.Context) (*domain.FetchStats, []domain.Pool) {
	if b.history == nil {
		return nil, nil
	}
	run, ok, err := b.history.LastRun(ctx)
	if err != nil {
		slog.Warn("history error", "err", err)
		return nil, nil
	}
	if !ok {
		return nil, nil
	}
	top, err := b.history.RunPools(ctx, run.RunID)
	if err != nil {
		slog.Warn("history error", "err", err, "run_id", run.RunID)
		return &run, nil
	}
	if len(top) > lastRunTop {
		top = top[:lastRunTop]
	}
	return &run, top
}

// writePage renderiza a memoria y después escribe, para no dejar archivos a medias
// si el template falla.
func (b *Builder) writePage(path string, render func(*bytes.Buffer) error) error {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		return fmt.Errorf("render %q: %w", path, err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %q: %w", path, err)
	}
	return nil
}

// copyStatic copia los assets embebidos (sorting.js) bajo outputDir/static.
func copyStatic(outputDir string) error {
	return fs.WalkDir(staticFS, "static", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		dst := filepath.Join(outputDir, filepath.FromSlash(path))
		if d.IsDir() {
			return os.MkdirAll(dst, 0o755)
		}
		data, err := staticFS.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read asset %q: %w", path, err)
		}
		if err := os.WriteFile(dst, data, 0o644); err != nil {
			return fmt.Errorf("write asset %q: %w", dst, err)
		}
		return nil
	})
}
