package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/Ysanit2020/sistema-de-gestion-de-inventario-y-pos/internal/config"
	"github.com/Ysanit2020/sistema-de-gestion-de-inventario-y-pos/internal/dto"
	"github.com/Ysanit2020/sistema-de-gestion-de-inventario-y-pos/internal/model"
	"github.com/Ysanit2020/sistema-de-gestion-de-inventario-y-pos/internal/service"
	"github.com/Ysanit2020/sistema-de-gestion-de-inventario-y-pos/internal/testutil"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestLogin(t *testing.T) {
	env := newEnv(t, config.PoliticaAtomica)
	ctx := context.Background()
	testutil.Usuario(t, env.db, "vendedor", "secreto", model.RolTrabajador, &env.punto.ID)

	resp, err := env.auth.Login(ctx, dto.LoginRequest{Username: "vendedor", Password: "secreto"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "bearer", resp.TokenType)
	assert.Equal(t, 8*3600, resp.ExpiresIn)
	require.NotNil(t, resp.User.SubalmacenID)
	assert.Equal(t, env.punto.ID, *resp.User.SubalmacenID)

	claims := jwt.MapClaims{}
	_, err = jwt.ParseWithClaims(resp.AccessToken, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(env.cfg.JWTSecret), nil
	})
	require.NoError(t, err)
	assert.Equal(t, service.TokenAccess, claims["typ"])
	assert.Equal(t, model.RolTrabajador, claims["rol"])

	_, err = env.auth.Login(ctx, dto.LoginRequest{Username: "vendedor", Password: "otra"})
	assert.ErrorIs(t, err, service.ErrCredenciales)
	_, err = env.auth.Login(ctx, dto.LoginRequest{Username: "nadie", Password: "secreto"})
	assert.ErrorIs(t, err, service.ErrCredenciales)
}

func TestRefresh_RequiresRefreshToken(t *testing.T) {
	env := newEnv(t, config.PoliticaAtomica)
	ctx := context.Background()
	testutil.Usuario(t, env.db, "admin", "secreto", model.RolAdmin, nil)

	login, err := env.auth.Login(ctx, dto.LoginRequest{Username: "admin", Password: "secreto"})
	require.NoError(t, err)

	resp, err := env.auth.Refresh(ctx, login.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)

	_, err = env.auth.Refresh(ctx, login.AccessToken)
	assert.ErrorIs(t, err, service.ErrCredenciales, "an access token is not a refresh token")

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": 1, "typ": service.TokenRefresh, "exp": time.Now().Add(-time.Minute).Unix(),
	})
	signed, err := expired.SignedString([]byte(env.cfg.JWTSecret))
	require.NoError(t, err)
	_, err = env.auth.Refresh(ctx, signed)
	assert.ErrorIs(t, err, service.ErrCredenciales)
}

func TestCrearUsuario_HashesPassword(t *testing.T) {
	env := newEnv(t, config.PoliticaAtomica)
	ctx := context.Background()

	resp, err := env.auth.CrearUsuario(ctx, dto.CrearUsuarioRequest{
		Username: "cajero1", Nombre: "Cajero Uno", Password: "clave123", Rol: model.RolTrabajador,
		SubalmacenID: &env.punto.ID,
	})
	require.NoError(t, err)

	u, err := env.auth.ObtenerUsuario(ctx, resp.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "clave123", u.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("clave123")))

	_, err = env.auth.CrearUsuario(ctx, dto.CrearUsuarioRequest{
		Username: "cajero1", Nombre: "Repetido", Password: "clave123", Rol: model.RolTrabajador,
	})
	assert.ErrorIs(t, err, service.ErrConflicto)

	_, err = env.auth.CrearUsuario(ctx, dto.CrearUsuarioRequest{
		Username: "cajero2", Nombre: "Sin bodega", Password: "clave123", Rol: model.RolTrabajador,
		SubalmacenID: uintPtr(999),
	})
	assert.ErrorIs(t, err, service.ErrNoEncontrado)
}

func TestActualizarUsuario_And_CambiarPassword(t *testing.T) {
	env := newEnv(t, config.PoliticaAtomica)
	ctx := context.Background()
	u := testutil.Usuario(t, env.db, "vendedor", "secreto", model.RolTrabajador, &env.punto.ID)

	resp, err := env.auth.ActualizarUsuario(ctx, u.ID, dto.ActualizarUsuarioRequest{QuitarSubalmacen: true})
	require.NoError(t, err)
	assert.Nil(t, resp.SubalmacenID)

	err = env.auth.CambiarPassword(ctx, u.ID, dto.CambiarPasswordRequest{PasswordActual: "mal", PasswordNueva: "nueva123"})
	assert.ErrorIs(t, err, service.ErrCredenciales)

	require.NoError(t, env.auth.CambiarPassword(ctx, u.ID, dto.CambiarPasswordRequest{PasswordActual: "secreto", PasswordNueva: "nueva123"}))
	_, err = env.auth.Login(ctx, dto.LoginRequest{Username: "vendedor", Password: "nueva123"})
	assert.NoError(t, err)

	require.NoError(t, env.auth.EliminarUsuario(ctx, u.ID))
	assert.ErrorIs(t, env.auth.EliminarUsuario(ctx, u.ID), service.ErrNoEncontrado)
}
