package service_test

import (
	"testing"

	"github.com/dmilosevic/boardflow/internal/log"
	"github.com/dmilosevic/boardflow/pkg/service"
	"github.com/dmilosevic/boardflow/pkg/storage"
	"github.com/stretchr/testify/assert"
)

func newAuthService() *service.AuthService {
	return service.NewAuthService(storage.NewMockStore(), []byte("test-secret"), log.GetLogger())
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newAuthService()

	email := "mira@example.com"
	user, err := svc.Register(service.RegisterInput{
		Username: "mira",
		Password: "hunter22",
		Email:    &email,
	})
	assert.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "mira", user.Username)
	// the stored password is a bcrypt hash, not the plaintext
	assert.NotEqual(t, "hunter22", user.Password)

	loggedIn, err := svc.Login("mira", "hunter22")
	assert.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)
}

func TestRegisterValidation(t *testing.T) {
	svc := newAuthService()

	var validationErr *service.ValidationError

	_, err := svc.Register(service.RegisterInput{Username: "ab", Password: "longenough"})
	assert.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "username", validationErr.Field)

	_, err = svc.Register(service.RegisterInput{Username: "valid", Password: "short"})
	assert.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "password", validationErr.Field)

	badEmail := "not-an-email"
	_, err = svc.Register(service.RegisterInput{Username: "valid", Password: "longenough", Email: &badEmail})
	assert.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "email", validationErr.Field)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	svc := newAuthService()

	_, err := svc.Register(service.RegisterInput{Username: "taken", Password: "hunter22"})
	assert.NoError(t, err)

	_, err = svc.Register(service.RegisterInput{Username: "taken", Password: "hunter22"})
	var validationErr *service.ValidationError
	assert.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "username", validationErr.Field)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc := newAuthService()

	_, err := svc.Register(service.RegisterInput{Username: "mira", Password: "hunter22"})
	assert.NoError(t, err)

	_, err = svc.Login("mira", "wrong-password")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)

	_, err = svc.Login("nobody", "hunter22")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestTokenRoundTrip(t *testing.T) {
	svc := newAuthService()

	token, err := svc.CreateToken("user-42")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	userID, err := svc.VerifyToken(token)
	assert.NoError(t, err)
	assert.Equal(t, "user-42", userID)

	_, err = svc.VerifyToken("not-a-token")
	assert.Error(t, err)
}

func TestTokenRejectsWrongSecret(t *testing.T) {
	issuer := service.NewAuthService(storage.NewMockStore(), []byte("secret-a"), log.GetLogger())
	verifier := service.NewAuthService(storage.NewMockStore(), []byte("secret-b"), log.GetLogger())

	token, err := issuer.CreateToken("user-42")
	assert.NoError(t, err)

	_, err = verifier.VerifyToken(token)
	assert.Error(t, err)
}
