package jwt

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/khoa-hris/chamcong-backend-go/internal/domain/user"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

const (
	tokenTypeAccess = "access"
	tokenTypeSSE    = "sse"
)

var ErrInvalidClaims = errors.New("token claims do not describe a valid principal")

type Service interface {
	GenerateAccessToken(p user.Principal) (token string, expiresAt int64, err error)
	GenerateSSEToken(p user.Principal) (token string, expiresIn int, err error)
	ValidateSSEToken(tokenString string) (user.Principal, error)
	JWTAuth() *jwtauth.JWTAuth
}

type JWTService struct {
	accessTTL time.Duration
	sseTTL    time.Duration
	tokenAuth *jwtauth.JWTAuth
	now       func() time.Time
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func NewJWTService(secretKey string, accessTTL, sseTTL time.Duration) Service {
	if sseTTL <= 0 {
		sseTTL = 5 * time.Minute
	}
	return &JWTService{
		accessTTL: accessTTL,
		sseTTL:    sseTTL,
		tokenAuth: jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
		now:       time.Now,
	}
}

func (j *JWTService) GenerateAccessToken(p user.Principal) (token string, expiresAt int64, err error) {
	if err := validatePrincipal(p); err != nil {
		return "", 0, err
	}
	expiresAt = j.now().Add(j.accessTTL).Unix()

	_, tokenString, err := j.tokenAuth.Encode(principalClaims(p, tokenTypeAccess, expiresAt))
	return tokenString, expiresAt, err
}

// GenerateSSEToken generates a short-lived token for SSE connections
func (j *JWTService) GenerateSSEToken(p user.Principal) (token string, expiresIn int, err error) {
	if err := validatePrincipal(p); err != nil {
		return "", 0, err
	}
	expiresAt := j.now().Add(j.sseTTL).Unix()

	_, tokenString, err := j.tokenAuth.Encode(principalClaims(p, tokenTypeSSE, expiresAt))
	if err != nil {
		return "", 0, err
	}
	return tokenString, int(j.sseTTL.Seconds()), nil
}

// ValidateSSEToken validates an SSE token and returns the principal it was issued for
func (j *JWTService) ValidateSSEToken(tokenString string) (user.Principal, error) {
	token, err := j.tokenAuth.Decode(tokenString)
	if err != nil {
		return user.Principal{}, err
	}

	tokenType, ok := token.Get("type")
	if !ok || tokenType != tokenTypeSSE {
		return user.Principal{}, jwt.ErrInvalidJWT()
	}

	claims, err := token.AsMap(context.Background())
	if err != nil {
		return user.Principal{}, err
	}
	return PrincipalFromClaims(claims)
}

// PrincipalFromClaims rebuilds the caller identity from verified token claims
func PrincipalFromClaims(claims map[string]interface{}) (user.Principal, error) {
	userID, _ := claims["user_id"].(string)
	role, _ := claims["role"].(string)
	department, _ := claims["department"].(string)

	p := user.Principal{UserID: userID, Role: user.Role(role), Department: department}
	if err := validatePrincipal(p); err != nil {
		return user.Principal{}, err
	}
	return p, nil
}

func validatePrincipal(p user.Principal) error {
	if p.UserID == "" {
		return fmt.Errorf("%w: user_id missing", ErrInvalidClaims)
	}
	if !p.Role.IsValid() {
		return user.ErrInvalidRole
	}
	if p.Role == user.RoleDepartment && p.Department == "" {
		return user.ErrDepartmentRequired
	}
	return nil
}

func principalClaims(p user.Principal, tokenType string, expiresAt int64) map[string]interface{} {
	return map[string]interface{}{
		"user_id":    p.UserID,
		"role":       string(p.Role),
		"department": p.Department,
		"type":       tokenType,
		"exp":        expiresAt,
	}
}
