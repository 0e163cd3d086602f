package auth

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"

	"smartoffice/internal/models"
	"smartoffice/internal/utils"
)

const tokenTTL = 24 * time.Hour

var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrRoleMismatch = errors.New("selected role does not match user role")

type demoUser struct {
	passwordHash []byte
	role         string
	name         string
	email        string
}

type AuthModule struct {
	redis     *redis.Client
	JWTSecret string
	users     map[string]demoUser
}

// NewAuthModule builds the auth module with the built-in demo accounts.
// All demo accounts share the password "pass123".
func NewAuthModule(redisClient *redis.Client, JWTSecret string) *AuthModule {
	users := map[string]demoUser{
		"admin":   {role: "admin", name: "System Administrator", email: "admin@smartoffice.local"},
		"staff":   {role: "staff", name: "John Staff", email: "staff@smartoffice.local"},
		"manager": {role: "manager", name: "Sarah Manager", email: "manager@smartoffice.local"},
	}
	for username, u := range users {
		hash, err := bcrypt.GenerateFromPassword([]byte("pass123"), bcrypt.DefaultCost)
		if err != nil {
			log.Fatalf("AUTH: failed to hash demo password: %v", err)
		}
		u.passwordHash = hash
		users[username] = u
	}
	return &AuthModule{
		redis:     redisClient,
		JWTSecret: JWTSecret,
		users:     users,
	}
}

func (a *AuthModule) generateJWT(username, role string) (string, error) {
	claims := jwt.MapClaims{
		"username": username,
		"role":     role,
		"jti":      utils.NewID(),
		"exp":      time.Now().Add(tokenTTL).Unix(),
		"iat":      time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(a.JWTSecret))
}

// Login verifies the credentials and the selected role, returning a signed
// token and the user profile.
func (a *AuthModule) Login(ctx context.Context, username, password, role string) (string, models.User, error) {
	u, ok := a.users[username]
	if !ok {
		return "", models.User{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(u.passwordHash, []byte(password)); err != nil {
		return "", models.User{}, ErrInvalidCredentials
	}
	if role != "" && role != u.role {
		return "", models.User{}, ErrRoleMismatch
	}
	token, err := a.generateJWT(username, u.role)
	if err != nil {
		return "", models.User{}, err
	}
	return token, models.User{Username: username, Role: u.role, Name: u.name, Email: u.email}, nil
}

func (a *AuthModule) parse(token string) (jwt.MapClaims, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(a.JWTSecret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// ValidateToken checks the signature, expiry and the logout denylist, and
// returns the embedded user identity.
func (a *AuthModule) ValidateToken(ctx context.Context, token string) (models.User, error) {
	claims, err := a.parse(token)
	if err != nil {
		return models.User{}, err
	}
	username, _ := claims["username"].(string)
	role, _ := claims["role"].(string)
	jti, _ := claims["jti"].(string)
	if username == "" || jti == "" {
		return models.User{}, errors.New("invalid token")
	}
	revoked, err := a.redis.Exists(ctx, "denylist:"+jti).Result()
	if err != nil {
		return models.User{}, err
	}
	if revoked > 0 {
		return models.User{}, errors.New("token revoked")
	}
	u := a.users[username]
	return models.User{Username: username, Role: role, Name: u.name, Email: u.email}, nil
}

// Logout denylists the token's ID until its natural expiry.
func (a *AuthModule) Logout(ctx context.Context, token string) error {
	claims, err := a.parse(token)
	if err != nil {
		return err
	}
	jti, _ := claims["jti"].(string)
	if jti == "" {
		return errors.New("invalid token")
	}
	ttl := tokenTTL
	if exp, ok := claims["exp"].(float64); ok {
		if until := time.Until(time.Unix(int64(exp), 0)); until > 0 {
			ttl = until
		}
	}
	return a.redis.Set(ctx, "denylist:"+jti, "1", ttl).Err()
}
