package state

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/avergara/comicstore/domain"
	"github.com/avergara/comicstore/prefs"
	"github.com/avergara/comicstore/repository"
	"github.com/avergara/comicstore/validate"
)

// AuthState: sesión vigente más los errores de campo del formulario.
// Los errores de campo bloquean el envío sin ninguna llamada de red.
type AuthState struct {
	Session domain.UserSession
	Loading bool
	Error   string
	Success string

	NombreError    string
	RutError       string
	EmailError     string
	PasswordError  string
	ConfirmarError string
}

type AuthHolder struct {
	mu    sync.Mutex
	state AuthState
	pub   publisher[AuthState]

	usuarios *repository.UsuarioRepository
	prefs    *prefs.UserPreferences
}

func NewAuthHolder(usuarios *repository.UsuarioRepository, p *prefs.UserPreferences) *AuthHolder {
	return &AuthHolder{pub: newPublisher[AuthState](), usuarios: usuarios, prefs: p}
}

func (h *AuthHolder) State() AuthState {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}

func (h *AuthHolder) Updates() <-chan AuthState { return h.pub.updates() }

func (h *AuthHolder) set(s AuthState) {
	h.state = s
	h.pub.publish(s)
}

// Restore carga la sesión persistida al arrancar el proceso.
func (h *AuthHolder) Restore(ctx context.Context) AuthState {
	sess, err := h.prefs.Session(ctx)
	h.mu.Lock()
	defer h.mu.Unlock()
	if err != nil {
		h.set(AuthState{Error: "No se pudo restaurar la sesión"})
		return h.state
	}
	h.set(AuthState{Session: sess})
	return h.state
}

func (h *AuthHolder) Login(ctx context.Context, email, password string) AuthState {
	emailErr := validate.Correo(email)
	var passErr error
	if password == "" {
		passErr = domain.NewError(domain.KindValidation, "La contraseña es obligatoria", nil)
	}
	if emailErr != nil || passErr != nil {
		h.mu.Lock()
		defer h.mu.Unlock()
		s := AuthState{}
		if emailErr != nil {
			s.EmailError = emailErr.Error()
		}
		if passErr != nil {
			s.PasswordError = passErr.Error()
		}
		h.set(s)
		return h.state
	}

	h.mu.Lock()
	h.set(AuthState{Loading: true})
	h.mu.Unlock()

	u, err := h.usuarios.Login(ctx, email, password)

	h.mu.Lock()
	defer h.mu.Unlock()
	if err != nil {
		h.set(AuthState{Error: domain.Mensaje(err, "invalid credentials")})
		return h.state
	}

	if err := h.prefs.SaveUser(ctx, u.ID, u.Nombre, u.Email, u.Rut, u.Rol); err != nil {
		log.Error().Err(err).Msg("guardar sesión")
	}
	h.set(AuthState{Session: domain.UserSession{
		ID:       u.ID,
		Nombre:   u.Nombre,
		Email:    u.Email,
		Rut:      u.Rut,
		Rol:      u.Rol,
		LoggedIn: true,
	}})
	return h.state
}

func (h *AuthHolder) Register(ctx context.Context, nombre, rut, email, password, confirmacion string) AuthState {
	s := AuthState{}
	if err := validate.Nombre(nombre); err != nil {
		s.NombreError = err.Error()
	}
	if err := validate.Rut(rut); err != nil {
		s.RutError = err.Error()
	}
	if err := validate.Correo(email); err != nil {
		s.EmailError = err.Error()
	}
	if err := validate.Contrasena(password); err != nil {
		s.PasswordError = err.Error()
	}
	if err := validate.ConfirmarContrasena(password, confirmacion); err != nil {
		s.ConfirmarError = err.Error()
	}
	if s.NombreError != "" || s.RutError != "" || s.EmailError != "" ||
		s.PasswordError != "" || s.ConfirmarError != "" {
		h.mu.Lock()
		defer h.mu.Unlock()
		h.set(s)
		return h.state
	}

	h.mu.Lock()
	h.set(AuthState{Loading: true})
	h.mu.Unlock()

	_, err := h.usuarios.Register(ctx, nombre, rut, email, password)

	h.mu.Lock()
	defer h.mu.Unlock()
	if err != nil {
		h.set(AuthState{Error: domain.Mensaje(err, "Error al registrar usuario")})
		return h.state
	}
	h.set(AuthState{Success: "Usuario registrado correctamente"})
	return h.state
}

// ActualizarEmailPassword cambia las credenciales del usuario vigente y
// refresca la sesión persistida.
func (h *AuthHolder) ActualizarEmailPassword(ctx context.Context, email, password string) AuthState {
	s := AuthState{Session: h.State().Session}
	if err := validate.Correo(email); err != nil {
		s.EmailError = err.Error()
	}
	if err := validate.Contrasena(password); err != nil {
		s.PasswordError = err.Error()
	}
	if s.EmailError != "" || s.PasswordError != "" {
		h.mu.Lock()
		defer h.mu.Unlock()
		h.set(s)
		return h.state
	}

	sess := s.Session
	h.mu.Lock()
	h.set(AuthState{Session: sess, Loading: true})
	h.mu.Unlock()

	u, err := h.usuarios.ActualizarEmailPassword(ctx, sess.ID, email, password)

	h.mu.Lock()
	defer h.mu.Unlock()
	if err != nil {
		h.set(AuthState{Session: sess, Error: domain.Mensaje(err, "Error al actualizar datos")})
		return h.state
	}

	sess.Email = u.Email
	if err := h.prefs.SaveUser(ctx, sess.ID, sess.Nombre, sess.Email, sess.Rut, sess.Rol); err != nil {
		log.Error().Err(err).Msg("actualizar sesión")
	}
	h.set(AuthState{Session: sess, Success: "Datos actualizados correctamente"})
	return h.state
}

// Logout destruye la sesión persistida.
func (h *AuthHolder) Logout(ctx context.Context) AuthState {
	if err := h.prefs.Clear(ctx); err != nil {
		log.Error().Err(err).Msg("cerrar sesión")
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.set(AuthState{})
	return h.state
}
