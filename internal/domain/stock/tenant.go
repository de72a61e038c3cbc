package stock

import "strings"

// DefaultTenant es la clave usada cuando no se indica shop (despliegues de
// tienda única).
const DefaultTenant = "default"

// NormalizeTenant convierte un identificador de shop en una clave de
// almacenamiento segura: minúsculas, sin espacios y con el juego de caracteres
// restringido a [a-z0-9._-]. Vacío se convierte en DefaultTenant.
func NormalizeTenant(shop string) string {
	s := strings.ToLower(strings.TrimSpace(shop))
	if s == "" {
		return DefaultTenant
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '.', r == '_', r == '-':
			return r
		default:
			return '_'
		}
	}, s)
}
