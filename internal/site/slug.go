package site

import (
	"strings"
	"unicode"

	"github.com/alejandrodnm/yieldsite/internal/domain"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Letras que NFD no descompone en base + marca y que hay que transliterar a mano.
var asciiFold = strings.NewReplacer(
	"ß", "ss", "ẞ", "ss",
	"æ", "ae", "Æ", "ae",
	"œ", "oe", "Œ", "oe",
	"ø", "o", "Ø", "o",
	"ł", "l", "Ł", "l",
	"đ", "d", "Đ", "d",
	"ð", "d", "Ð", "d",
	"þ", "th", "Þ", "th",
	"ı", "i",
)

// Slugify normaliza s a un slug: ASCII en minúsculas, cada tramo no alfanumérico
// colapsado a un único guion, sin guiones al principio ni al final.
// Los caracteres sin equivalente ASCII se tratan como separadores.
func Slugify(s string) string {
	s = asciiFold.Replace(s)
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if folded, _, err := transform.String(t, s); err == nil {
		s = folded
	}
	s = strings.ToLower(s)

	var sb strings.Builder
	sb.Grow(len(s))
	pendingSep := false
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingSep && sb.Len() > 0 {
				sb.WriteByte('-')
			}
			pendingSep = false
			sb.WriteRune(r)
			continue
		}
		pendingSep = true
	}
	return sb.String()
}

// PoolSlug deriva el slug de un pool: chain-project-symbol-<primeros 8 del id>.
// Es determinista pero no garantiza unicidad: depende de que los ids no compartan prefijo.
func PoolSlug(p domain.Pool) string {
	return Slugify(strings.Join([]string{p.Chain, p.Project, p.Symbol, p.ShortID()}, "-"))
}
