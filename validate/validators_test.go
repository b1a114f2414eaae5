package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNombre(t *testing.T) {
	assert.NoError(t, Nombre("Ana María"))
	assert.NoError(t, Nombre("Ñandú Pérez"))

	assert.EqualError(t, Nombre(""), "El nombre es obligatorio")
	assert.EqualError(t, Nombre("  "), "El nombre es obligatorio")
	assert.EqualError(t, Nombre("Al"), "El nombre ingresado es demasiado corto")
	assert.EqualError(t, Nombre("Ana3"), "Solo letras y espacios")
}

func TestRut(t *testing.T) {
	assert.NoError(t, Rut("12345678-9"))
	assert.NoError(t, Rut("1234567-K"))
	assert.NoError(t, Rut("12.345.678-9")) // los puntos se limpian

	assert.EqualError(t, Rut(""), "El RUT es obligatorio")
	assert.Error(t, Rut("123-9"))
	assert.Error(t, Rut("12345678"))
	assert.Error(t, Rut("abcdefgh-9"))
}

func TestCorreo(t *testing.T) {
	assert.NoError(t, Correo("ana@mail.com"))
	assert.NoError(t, Correo("a.b+c@sub.dominio.cl"))

	assert.EqualError(t, Correo(""), "El correo es obligatorio")
	assert.EqualError(t, Correo("sin-arroba"), "El correo ingresado es inválido")
	assert.Error(t, Correo("ana@mail"))
}

func TestContrasena(t *testing.T) {
	assert.NoError(t, Contrasena("Secreta1"))

	assert.EqualError(t, Contrasena(""), "La contraseña es obligatoria")
	assert.EqualError(t, Contrasena("Corta1"), "La contraseña debe tener al menos 8 caracteres")
	assert.EqualError(t, Contrasena("sinmayuscula"), "La contraseña debe tener al menos una letra mayúscula")
}

func TestConfirmarContrasena(t *testing.T) {
	assert.NoError(t, ConfirmarContrasena("Secreta1", "Secreta1"))

	assert.EqualError(t, ConfirmarContrasena("Secreta1", ""), "La confirmación es obligatoria")
	assert.EqualError(t, ConfirmarContrasena("Secreta1", "Secreta2"), "Las contraseñas no coinciden")
}

func TestCantidad(t *testing.T) {
	assert.NoError(t, Cantidad("1"))
	assert.NoError(t, Cantidad("35"))

	assert.EqualError(t, Cantidad(""), "La cantidad es obligatoria")
	assert.EqualError(t, Cantidad("dos"), "La cantidad debe ser numérica")
	assert.EqualError(t, Cantidad("-1"), "La cantidad debe ser numérica")
	assert.EqualError(t, Cantidad("0"), "La cantidad debe ser mayor a 0")
}

func TestFormatearPesos(t *testing.T) {
	assert.Equal(t, "", FormatearPesos(""))
	assert.Equal(t, "$5", FormatearPesos("5"))
	assert.Equal(t, "$999", FormatearPesos("999"))
	assert.Equal(t, "$1.000", FormatearPesos("1000"))
	assert.Equal(t, "$12.345", FormatearPesos("12345"))
	assert.Equal(t, "$1.234.567", FormatearPesos("1234567"))
}
