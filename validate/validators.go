// Validaciones de formularios: locales, síncronas, por campo.
// Bloquean el envío sin hacer ninguna llamada de red.
package validate

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

var (
	reNombre = regexp.MustCompile(`^[A-Za-zÁÉÍÓÚÑáéíóúñ ]+$`)
	reRut    = regexp.MustCompile(`^[0-9]{7,8}-[0-9Kk]$`)
	reCorreo = regexp.MustCompile(`^[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}$`)
)

func Nombre(nombre string) error {
	if strings.TrimSpace(nombre) == "" {
		return errors.New("El nombre es obligatorio")
	}
	if len([]rune(nombre)) < 3 {
		return errors.New("El nombre ingresado es demasiado corto")
	}
	if !reNombre.MatchString(nombre) {
		return errors.New("Solo letras y espacios")
	}
	return nil
}

func Rut(rut string) error {
	if strings.TrimSpace(rut) == "" {
		return errors.New("El RUT es obligatorio")
	}
	if len(rut) < 7 || len(rut) > 12 {
		return errors.New("El RUT ingresado es invalido")
	}
	clean := strings.NewReplacer(".", "", " ", "").Replace(rut)
	if !reRut.MatchString(clean) {
		return errors.New("El RUT ingresado es inválido")
	}
	return nil
}

func Correo(correo string) error {
	if strings.TrimSpace(correo) == "" {
		return errors.New("El correo es obligatorio")
	}
	if !reCorreo.MatchString(correo) {
		return errors.New("El correo ingresado es inválido")
	}
	return nil
}

func Contrasena(contrasena string) error {
	if contrasena == "" {
		return errors.New("La contraseña es obligatoria")
	}
	if len([]rune(contrasena)) < 8 {
		return errors.New("La contraseña debe tener al menos 8 caracteres")
	}
	for _, r := range contrasena {
		if unicode.IsUpper(r) {
			return nil
		}
	}
	return errors.New("La contraseña debe tener al menos una letra mayúscula")
}

func ConfirmarContrasena(contrasena, confirmacion string) error {
	if confirmacion == "" {
		return errors.New("La confirmación es obligatoria")
	}
	if contrasena != confirmacion {
		return errors.New("Las contraseñas no coinciden")
	}
	return nil
}

func Cantidad(valor string) error {
	if strings.TrimSpace(valor) == "" {
		return errors.New("La cantidad es obligatoria")
	}
	for _, r := range valor {
		if !unicode.IsDigit(r) {
			return errors.New("La cantidad debe ser numérica")
		}
	}
	n, err := strconv.Atoi(valor)
	if err != nil {
		return errors.New("Cantidad inválida")
	}
	if n <= 0 {
		return errors.New("La cantidad debe ser mayor a 0")
	}
	return nil
}

// FormatearPesos agrega separador de miles y el signo peso: "12345" -> "$12.345".
func FormatearPesos(valor string) string {
	if valor == "" {
		return ""
	}
	var b strings.Builder
	n := len(valor)
	for i, r := range valor {
		if i > 0 && (n-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	return "$" + b.String()
}
