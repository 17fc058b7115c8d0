package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Ysanit2020/sistema-de-gestion-de-inventario-y-pos/internal/config"
	"github.com/Ysanit2020/sistema-de-gestion-de-inventario-y-pos/internal/dto"
	"github.com/Ysanit2020/sistema-de-gestion-de-inventario-y-pos/internal/model"
	"github.com/Ysanit2020/sistema-de-gestion-de-inventario-y-pos/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Token types carried in the "typ" claim.
const (
	TokenAccess  = "access"
	TokenRefresh = "refresh"
)

// BcryptCost is used for every stored password hash.
const BcryptCost = 12

type AuthService interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error)
	CambiarPassword(ctx context.Context, usuarioID uint, req dto.CambiarPasswordRequest) error

	CrearUsuario(ctx context.Context, req dto.CrearUsuarioRequest) (*dto.UsuarioResponse, error)
	ListarUsuarios(ctx context.Context) ([]dto.UsuarioResponse, error)
	ObtenerUsuario(ctx context.Context, id uint) (*model.Usuario, error)
	ActualizarUsuario(ctx context.Context, id uint, req dto.ActualizarUsuarioRequest) (*dto.UsuarioResponse, error)
	EliminarUsuario(ctx context.Context, id uint) error
}

type authService struct {
	repo           repository.UsuarioRepository
	subalmacenRepo repository.SubalmacenRepository
	cfg            *config.Config
}

func NewAuthService(repo repository.UsuarioRepository, subalmacenRepo repository.SubalmacenRepository, cfg *config.Config) AuthService {
	return &authService{repo: repo, subalmacenRepo: subalmacenRepo, cfg: cfg}
}

// HashPassword returns the bcrypt hash stored in usuarios.password_hash.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.repo.FindByUsername(ctx, strings.TrimSpace(req.Username))
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("buscar usuario: %w", err)
		}
		return nil, ErrCredenciales
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrCredenciales
	}
	return s.issueTokens(user)
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error) {
	token, err := jwt.Parse(refreshToken, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: refresh token inválido o expirado", ErrCredenciales)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || claims["typ"] != TokenRefresh {
		return nil, fmt.Errorf("%w: token mal formado", ErrCredenciales)
	}
	// JSON numbers decode as float64
	rawID, ok := claims["user_id"].(float64)
	if !ok || rawID <= 0 {
		return nil, fmt.Errorf("%w: token mal formado", ErrCredenciales)
	}

	user, err := s.repo.FindByID(ctx, uint(rawID))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: usuario no encontrado", ErrCredenciales)
		}
		return nil, fmt.Errorf("buscar usuario: %w", err)
	}
	return s.issueTokens(user)
}

func (s *authService) CambiarPassword(ctx context.Context, usuarioID uint, req dto.CambiarPasswordRequest) error {
	user, err := s.repo.FindByID(ctx, usuarioID)
	if err != nil {
		return notFoundOr(err, "usuario", usuarioID, "buscar usuario")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.PasswordActual)); err != nil {
		return fmt.Errorf("%w: la contraseña actual no coincide", ErrCredenciales)
	}
	hash, err := HashPassword(req.PasswordNueva)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	if err := s.repo.Update(ctx, user); err != nil {
		return fmt.Errorf("actualizar usuario: %w", err)
	}
	return nil
}

func (s *authService) CrearUsuario(ctx context.Context, req dto.CrearUsuarioRequest) (*dto.UsuarioResponse, error) {
	if err := validarRol(req.Rol); err != nil {
		return nil, err
	}
	if err := s.validarSubalmacen(ctx, req.SubalmacenID); err != nil {
		return nil, err
	}
	hash, err := HashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	user := &model.Usuario{
		Username:     strings.TrimSpace(req.Username),
		Nombre:       req.Nombre,
		PasswordHash: hash,
		Rol:          req.Rol,
		SubalmacenID: req.SubalmacenID,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if esDuplicado(err) {
			return nil, errConflicto("el usuario %s ya existe", user.Username)
		}
		return nil, fmt.Errorf("crear usuario: %w", err)
	}
	return usuarioToResponse(user), nil
}

func (s *authService) ListarUsuarios(ctx context.Context) ([]dto.UsuarioResponse, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listar usuarios: %w", err)
	}
	resp := make([]dto.UsuarioResponse, len(users))
	for i := range users {
		resp[i] = *usuarioToResponse(&users[i])
	}
	return resp, nil
}

func (s *authService) ObtenerUsuario(ctx context.Context, id uint) (*model.Usuario, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "usuario", id, "buscar usuario")
	}
	return user, nil
}

func (s *authService) ActualizarUsuario(ctx context.Context, id uint, req dto.ActualizarUsuarioRequest) (*dto.UsuarioResponse, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "usuario", id, "buscar usuario")
	}
	if req.Nombre != "" {
		user.Nombre = req.Nombre
	}
	if req.Rol != "" {
		if err := validarRol(req.Rol); err != nil {
			return nil, err
		}
		user.Rol = req.Rol
	}
	switch {
	case req.QuitarSubalmacen:
		user.SubalmacenID = nil
	case req.SubalmacenID != nil:
		if err := s.validarSubalmacen(ctx, req.SubalmacenID); err != nil {
			return nil, err
		}
		user.SubalmacenID = req.SubalmacenID
	}
	if req.Password != "" {
		hash, err := HashPassword(req.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("actualizar usuario: %w", err)
	}
	return usuarioToResponse(user), nil
}

func (s *authService) EliminarUsuario(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return notFoundOr(err, "usuario", id, "eliminar usuario")
	}
	return nil
}

func (s *authService) validarSubalmacen(ctx context.Context, id *uint) error {
	if id == nil {
		return nil
	}
	if _, err := s.subalmacenRepo.FindByID(ctx, *id); err != nil {
		return notFoundOr(err, "subalmacén", *id, "buscar subalmacén")
	}
	return nil
}

func validarRol(rol string) error {
	if rol != model.RolAdmin && rol != model.RolTrabajador {
		return errValidacion("rol inválido: %q", rol)
	}
	return nil
}

func (s *authService) issueTokens(user *model.Usuario) (*dto.LoginResponse, error) {
	accessToken, err := s.generateToken(user, TokenAccess, time.Duration(s.cfg.JWTExpirationHours)*time.Hour)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.generateToken(user, TokenRefresh, time.Duration(s.cfg.JWTRefreshHours)*time.Hour)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
		ExpiresIn:    s.cfg.JWTExpirationHours * 3600,
		User:         *usuarioToResponse(user),
	}, nil
}

func (s *authService) generateToken(user *model.Usuario, typ string, duration time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id":       user.ID,
		"username":      user.Username,
		"rol":           user.Rol,
		"subalmacen_id": user.SubalmacenID,
		"typ":           typ,
		"exp":           now.Add(duration).Unix(),
		"iat":           now.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

func usuarioToResponse(u *model.Usuario) *dto.UsuarioResponse {
	return &dto.UsuarioResponse{
		ID:           u.ID,
		Username:     u.Username,
		Nombre:       u.Nombre,
		Rol:          u.Rol,
		SubalmacenID: u.SubalmacenID,
	}
}
