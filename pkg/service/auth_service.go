package service

import (
	"strings"
	"time"

	"github.com/dmilosevic/boardflow/pkg/models"
	"github.com/dmilosevic/boardflow/pkg/storage"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
)

const sessionTTL = 7 * 24 * time.Hour

// AuthService handles registration, login and session tokens. Sessions are
// signed JWTs whose subject is the user id.
type AuthService struct {
	store     storage.Store
	jwtSecret []byte
	logger    Logger
}

func NewAuthService(store storage.Store, jwtSecret []byte, logger Logger) *AuthService {
	return &AuthService{store: store, jwtSecret: jwtSecret, logger: logger}
}

// RegisterInput is the request body of POST /api/register.
type RegisterInput struct {
	Username  string  `json:"username"`
	Password  string  `json:"password"`
	FirstName *string `json:"firstName,omitempty"`
	LastName  *string `json:"lastName,omitempty"`
	Email     *string `json:"email,omitempty"`
}

func (s *AuthService) Register(in RegisterInput) (models.User, error) {
	if len(strings.TrimSpace(in.Username)) < 3 {
		return models.User{}, invalid("username must be at least 3 characters", "username")
	}
	if len(in.Password) < 6 {
		return models.User{}, invalid("password must be at least 6 characters", "password")
	}
	if in.Email != nil && !strings.Contains(*in.Email, "@") {
		return models.User{}, invalid("invalid email address", "email")
	}

	if _, err := s.store.GetUserByUsername(in.Username); err == nil {
		return models.User{}, invalid("username already taken", "username")
	} else if !errors.Is(err, storage.ErrNotFound) {
		return models.User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, errors.Wrap(err, "hash password")
	}

	user := models.User{
		ID:        uuid.NewString(),
		Username:  in.Username,
		Password:  string(hash),
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     in.Email,
	}
	if err := s.store.SaveUser(user); err != nil {
		return models.User{}, err
	}
	saved, err := s.store.GetUser(user.ID)
	if err != nil {
		return models.User{}, err
	}
	s.logger.Infof("Registered user '%s' with ID %s", saved.Username, saved.ID)
	return saved, nil
}

func (s *AuthService) Login(username, password string) (models.User, error) {
	user, err := s.store.GetUserByUsername(username)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return models.User{}, ErrInvalidCredentials
		}
		return models.User{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return models.User{}, ErrInvalidCredentials
	}
	return user, nil
}

// CreateToken issues a signed session token for the given user id.
func (s *AuthService) CreateToken(userID string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(sessionTTL)),
	})
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", errors.Wrap(err, "sign token")
	}
	return signed, nil
}

// VerifyToken validates a session token and returns the user id it carries.
func (s *AuthService) VerifyToken(tokenStr string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return "", errors.New("invalid token")
	}
	if claims.Subject == "" {
		return "", errors.New("token has no subject")
	}
	return claims.Subject, nil
}
