// Package nit normaliza el NIT colombiano de las empresas y valida su dígito de verificación (módulo 11).
package nit

import (
	"errors"
	"fmt"
	"unicode"
)

// ErrInvalid el NIT no tiene 9 dígitos base o su dígito de verificación no corresponde.
var ErrInvalid = errors.New("nit inválido")

// pesos de los 9 dígitos base, de izquierda a derecha.
var weights = [9]int{41, 37, 29, 23, 19, 17, 13, 7, 3}

// CheckDigit calcula el dígito de verificación de los 9 dígitos base.
func CheckDigit(base string) (byte, error) {
	if len(base) != 9 {
		return 0, fmt.Errorf("%w: se esperan 9 dígitos base, hay %d", ErrInvalid, len(base))
	}
	var sum int
	for i := 0; i < 9; i++ {
		c := base[i]
		if c < '0' || c > '9' {
			return 0, fmt.Errorf("%w: %q no es un dígito", ErrInvalid, c)
		}
		sum += int(c-'0') * weights[i]
	}
	r := sum % 11
	if r > 1 {
		r = 11 - r
	}
	return byte('0' + r), nil
}

// Normalize acepta "900123456", "900.123.456-8" o "9001234568" y devuelve "900123456-8".
// Sin dígito de verificación lo calcula; si viene, lo valida.
func Normalize(raw string) (string, error) {
	var digits []byte
	for _, r := range raw {
		switch {
		case unicode.IsDigit(r):
			digits = append(digits, byte(r))
		case r == '.' || r == '-' || r == ' ':
		default:
			return "", fmt.Errorf("%w: carácter %q", ErrInvalid, r)
		}
	}
	if len(digits) != 9 && len(digits) != 10 {
		return "", fmt.Errorf("%w: se esperan 9 o 10 dígitos, hay %d", ErrInvalid, len(digits))
	}
	base := string(digits[:9])
	dv, err := CheckDigit(base)
	if err != nil {
		return "", err
	}
	if len(digits) == 10 && digits[9] != dv {
		return "", fmt.Errorf("%w: dígito de verificación %c, se esperaba %c", ErrInvalid, digits[9], dv)
	}
	return base + "-" + string(dv), nil
}
