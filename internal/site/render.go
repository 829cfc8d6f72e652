package site

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"os"

	"github.com/alejandrodnm/yieldsite/internal/domain"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

//go:embed templates/*.html
var templatesFS embed.FS

//go:embed static
var staticFS embed.FS

const (
	baseTemplate   = "base.html"
	indexTemplate  = "index.html"
	detailTemplate = "detail.html"
)

// IndexPage son los datos de la página principal.
type IndexPage struct {
	Pools     []domain.SitePool
	Recent    []domain.SitePool // ventana fija del ranking, no un orden por fecha
	BuildTime string
	BaseURL   string
	LastRun   *domain.FetchStats // nil si no hay histórico
	// LastRunTop son los primeros pools de LastRun según el histórico.
	LastRunTop []domain.Pool
}

// DetailPage son los datos de la página de un pool.
type DetailPage struct {
	Pool      domain.SitePool
	Neighbors []domain.SitePool
	BaseURL   string
	BuildTime string
}

// Renderer renderiza las páginas HTML a partir del set de templates.
type Renderer struct {
	index  *template.Template
	detail *template.Template
}

// NewRenderer parsea los templates embebidos, o los de dir si no está vacío.
func NewRenderer(dir string) (*Renderer, error) {
	var fsys fs.FS
	if dir != "" {
		fsys = os.DirFS(dir)
	} else {
		sub, err := fs.Sub(templatesFS, "templates")
		if err != nil {
			return nil, fmt.Errorf("site.NewRenderer: %w", err)
		}
		fsys = sub
	}

	index, err := parsePage(fsys, indexTemplate)
	if err != nil {
		return nil, fmt.Errorf("site.NewRenderer: %w", err)
	}
	detail, err := parsePage(fsys, detailTemplate)
	if err != nil {
		return nil, fmt.Errorf("site.NewRenderer: %w", err)
	}
	return &Renderer{index: index, detail: detail}, nil
}

// RenderIndex escribe index.html.
func (r *Renderer) RenderIndex(w io.Writer, page IndexPage) error {
	if err := r.index.ExecuteTemplate(w, baseTemplate, page); err != nil {
		return fmt.Errorf("site.RenderIndex: %w", err)
	}
	return nil
}

// RenderDetail escribe la página de un pool.
func (r *Renderer) RenderDetail(w io.Writer, page DetailPage) error {
	if err := r.detail.ExecuteTemplate(w, baseTemplate, page); err != nil {
		return fmt.Errorf("site.RenderDetail: %w", err)
	}
	return nil
}

// parsePage arma un set base + página: cada página redefine los bloques del layout.
func parsePage(fsys fs.FS, page string) (*template.Template, error) {
	t, err := template.New(page).Funcs(templateFuncs()).ParseFS(fsys, baseTemplate, page)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", page, err)
	}
	return t, nil
}

func templateFuncs() template.FuncMap {
	p := message.NewPrinter(language.English)
	return template.FuncMap{
		"usd":        func(v float64) string { return p.Sprintf("$%.0f", v) },
		"pct":        func(v float64) string { return p.Sprintf("%.2f%%", v) },
		"num":        func(v float64) string { return p.Sprintf("%.2f", v) },
		"optPct":     func(v *float64) string { return optional(p, "%.2f%%", v) },
		"optNum":     func(v *float64) string { return optional(p, "%.3f", v) },
		"inc":        func(i int) int { return i + 1 },
		"compactUSD": domain.CompactUSD,
		"poolURL":    poolURL,
	}
}

func optional(p *message.Printer, format string, v *float64) string {
	if v == nil {
		return "-"
	}
	return p.Sprintf(format, *v)
}

func poolURL(base, slug string) string {
	return base + "/pools/" + slug + ".html"
}
