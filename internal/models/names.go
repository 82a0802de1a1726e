package models

// greek maps the notation used in lecture notes onto the ASCII variable names.
var greek = map[string]string{
	"κ":     "kappa",
	"δ":     "delta",
	"α":     "alpha",
	"α1":    "alpha1",
	"β":     "beta",
	"ϕ":     "phi",
	"φ":     "phi",
	"γ":     "gamma",
	"mal_κ": "mal_kappa",
}

// Canonical maps a Greek alias onto the ASCII name models use; other names pass
// through unchanged.
func Canonical(name string) string {
	if c, ok := greek[name]; ok {
		return c
	}
	return name
}
