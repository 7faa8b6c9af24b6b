package services

import (
	"fmt"
	"sync"
	"time"

	"shopsphere/internal/models"

	"github.com/dgrijalva/jwt-go"
	"github.com/sirupsen/logrus"
)

// AuthService holds the identity of the session's user. Tokens are issued
// by the backend; this service only validates them and remembers who is
// signed in.
type AuthService struct {
	jwtSecret []byte
	log       logrus.FieldLogger
	now       func() time.Time

	mu       sync.RWMutex
	identity *models.Identity
}

// NewAuthService creates a new AuthService. An empty secret skips signature
// verification, for backends whose signing key the client does not hold.
func NewAuthService(jwtSecret string, log logrus.FieldLogger) *AuthService {
	return &AuthService{
		jwtSecret: []byte(jwtSecret),
		log:       log,
		now:       time.Now,
	}
}

// SignIn validates tokenString and makes its subject the current identity.
func (s *AuthService) SignIn(tokenString string) (models.Identity, error) {
	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		return models.Identity{}, err
	}

	identity := models.Identity{
		UserID:   claimString(claims, "user_id", "id", "_id", "sub"),
		Username: claimString(claims, "username", "name"),
		Token:    tokenString,
	}
	if identity.UserID == "" {
		return models.Identity{}, fmt.Errorf("invalid token: no user id claim")
	}
	if admin, ok := claims["isAdmin"].(bool); ok {
		identity.IsAdmin = admin
	}
	if exp, ok := claims["exp"].(float64); ok {
		identity.ExpiresAt = time.Unix(int64(exp), 0)
	}

	s.mu.Lock()
	s.identity = &identity
	s.mu.Unlock()

	s.log.WithField("user_id", identity.UserID).Info("Signed in")
	return identity, nil
}

// SignOut forgets the current identity.
func (s *AuthService) SignOut() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.identity = nil
}

// Identity returns the signed-in user. An expired token counts as signed
// out.
func (s *AuthService) Identity() (models.Identity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.identity == nil || s.identity.Expired(s.now()) {
		return models.Identity{}, false
	}
	return *s.identity, true
}

// ValidateToken parses and validates a JWT token, returning the claims if valid.
func (s *AuthService) ValidateToken(tokenString string) (jwt.MapClaims, error) {
	if len(s.jwtSecret) == 0 {
		return s.parseUnverified(tokenString)
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		s.log.WithError(err).Debug("Token validation error")
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, fmt.Errorf("invalid token")
}

// parseUnverified decodes the claims without checking the signature but
// still enforces exp.
func (s *AuthService) parseUnverified(tokenString string) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	if _, _, err := new(jwt.Parser).ParseUnverified(tokenString, claims); err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	if !claims.VerifyExpiresAt(s.now().Unix(), false) {
		return nil, fmt.Errorf("invalid token: token is expired")
	}
	return claims, nil
}

func claimString(claims jwt.MapClaims, keys ...string) string {
	for _, key := range keys {
		if v, ok := claims[key].(string); ok && v != "" {
			return v
		}
	}
	return ""
}
