package engine

import (
	"regexp"
	"strings"
)

// suffixPattern describe una convención de renombrado de copias.
// strip localiza el sufijo al final de un nombre (sin extensión);
// rest valida que un resto de cadena sea exactamente ese sufijo.
type suffixPattern struct {
	strip *regexp.Regexp
	rest  *regexp.Regexp
	desc  string
}

// suffixPatterns es la tabla cerrada de convenciones de copia reconocidas.
// El orden importa: gana el PRIMER patrón que coincide, y se elimina como
// máximo un sufijo. Listar ` (N)` antes que `(N)` es lo que garantiza que el
// patrón sin espacio solo aplique cuando no hay espacio previo (RE2 no tiene
// lookbehind). Los nombres que ya terminan en dígitos ("File2_1") se resuelven
// por este mismo orden; es comportamiento aceptado, no un defecto.
var suffixPatterns = []suffixPattern{
	{regexp.MustCompile(` \(\d+\)$`), regexp.MustCompile(`^ \(\d+\)$`), `espacio + "(N)"`},
	{regexp.MustCompile(`\(\d+\)$`), regexp.MustCompile(`^\(\d+\)$`), `"(N)" sin espacio previo`},
	{regexp.MustCompile(` - Copy(\(\d+\))?$`), regexp.MustCompile(`^ - Copy(\(\d+\))?$`), `" - Copy" opcionalmente "(N)"`},
	{regexp.MustCompile(`_\d+$`), regexp.MustCompile(`^_\d+$`), `"_N"`},
	{regexp.MustCompile(`_copy\d*$`), regexp.MustCompile(`^_copy\d*$`), `"_copy" opcionalmente N`},
}

// CanonicalBase devuelve el nombre (sin extensión) con un sufijo de copia
// eliminado, si lo hay. Un solo strip: "Foto (1)_2" -> "Foto (1)", no "Foto".
func CanonicalBase(stem string) string {
	for _, p := range suffixPatterns {
		if loc := p.strip.FindStringIndex(stem); loc != nil {
			return stem[:loc[0]]
		}
	}
	return stem
}

// matchesAsSuffix indica si raw es exactamente canon más uno de los sufijos
// de la tabla (p.ej. canon="Foto", raw="Foto (3)").
func matchesAsSuffix(canon, raw string) bool {
	if !strings.HasPrefix(raw, canon) {
		return false
	}
	rest := raw[len(canon):]
	if rest == "" {
		return false
	}
	for _, p := range suffixPatterns {
		if p.rest.MatchString(rest) {
			return true
		}
	}
	return false
}
