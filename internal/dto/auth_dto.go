package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type LoginRequest struct {
	Username string `json:"username" validate:"required,min=1"`
	Password string `json:"password" validate:"required,min=4"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type CrearUsuarioRequest struct {
	Username     string `json:"username"      validate:"required,min=1,max=150"`
	Nombre       string `json:"nombre"        validate:"required,min=2,max=100"`
	Password     string `json:"password"      validate:"required,min=6"`
	Rol          string `json:"rol"           validate:"required,oneof=admin trabajador"`
	SubalmacenID *uint  `json:"subalmacen_id"`
}

type ActualizarUsuarioRequest struct {
	Nombre       string `json:"nombre"        validate:"omitempty,min=2,max=100"`
	Rol          string `json:"rol"           validate:"omitempty,oneof=admin trabajador"`
	SubalmacenID *uint  `json:"subalmacen_id"`
	// QuitarSubalmacen clears the assignment (SubalmacenID nil means "unchanged").
	QuitarSubalmacen bool   `json:"quitar_subalmacen"`
	Password         string `json:"password" validate:"omitempty,min=6"`
}

type CambiarPasswordRequest struct {
	PasswordActual string `json:"password_actual" validate:"required"`
	PasswordNueva  string `json:"password_nueva"  validate:"required,min=6"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type UsuarioResponse struct {
	ID           uint   `json:"id"`
	Username     string `json:"username"`
	Nombre       string `json:"nombre"`
	Rol          string `json:"rol"`
	SubalmacenID *uint  `json:"subalmacen_id"`
}

type LoginResponse struct {
	AccessToken  string          `json:"access_token"`
	RefreshToken string          `json:"refresh_token"`
	TokenType    string          `json:"token_type"`
	ExpiresIn    int             `json:"expires_in"` // seconds
	User         UsuarioResponse `json:"user"`
}
