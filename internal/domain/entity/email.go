package entity

import (
	"strings"

	"golang.org/x/text/cases"
)

// NormalizarEmail recorta espacios y aplica case folding Unicode para que la
// unicidad de email sea insensible a mayúsculas. Todo punto de entrada
// (registro, login, recuperación) debe normalizar antes de consultar el almacén.
func NormalizarEmail(email string) string {
	// cases.Caser mantiene estado interno: no compartir entre goroutines.
	return cases.Fold().String(strings.TrimSpace(email))
}
