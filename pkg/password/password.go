// Package password encapsula el hash de credenciales (bcrypt, con sal) y la
// política de fortaleza de contraseñas de la plataforma.
package password

import (
	"unicode"

	"github.com/labsalud/laboratorio-api/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

// LongitudMinima mínimo de caracteres aceptado por la política.
const LongitudMinima = 8

// Hash genera el hash bcrypt de la contraseña en texto plano.
func Hash(plano string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(plano), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// Comparar verifica la contraseña contra el hash almacenado.
// bcrypt hace la comparación en tiempo constante.
func Comparar(plano, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plano)) == nil
}

// ValidarFortaleza aplica la política: longitud mínima, mayúscula, minúscula,
// dígito y carácter especial. Devuelve domain.ErrPasswordDebil si no cumple.
func ValidarFortaleza(plano string) error {
	if len(plano) < LongitudMinima {
		return domain.ErrPasswordDebil
	}
	var mayuscula, minuscula, digito, especial bool
	for _, r := range plano {
		switch {
		case unicode.IsUpper(r):
			mayuscula = true
		case unicode.IsLower(r):
			minuscula = true
		case unicode.IsDigit(r):
			digito = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			especial = true
		}
	}
	if !mayuscula || !minuscula || !digito || !especial {
		return domain.ErrPasswordDebil
	}
	return nil
}
