package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/Domenick1991/slotbooking/internal/domain"
	"github.com/gin-gonic/gin"
	jwt "github.com/golang-jwt/jwt/v5"
)

const callerKey = "caller"

var errUnauthorized = errors.New("unauthorized")

// Claims is the identity carried by a bearer token. The subject is the caller id.
type Claims struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

type TokenVerifier struct {
	secret []byte
	issuer string
}

func NewTokenVerifier(secret, issuer string) *TokenVerifier {
	return &TokenVerifier{secret: []byte(secret), issuer: issuer}
}

// Issue signs a token for caller. Tokens are normally minted by the identity
// provider; this exists for tooling and tests.
func (v *TokenVerifier) Issue(caller domain.Caller, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Name:  caller.Name,
		Email: caller.Email,
		Role:  caller.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   caller.ID,
			Issuer:    v.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
}

func (v *TokenVerifier) Parse(tokenStr string) (domain.Caller, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, opts...)
	if err != nil {
		return domain.Caller{}, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Subject == "" {
		return domain.Caller{}, errors.New("invalid token")
	}
	return domain.Caller{ID: claims.Subject, Name: claims.Name, Email: claims.Email, Role: claims.Role}, nil
}

// Authenticate resolves the bearer token into a domain.Caller.
func Authenticate(v *TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		caller, err := v.Parse(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		c.Set(callerKey, caller)
		c.Next()
	}
}

func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := callerFrom(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errUnauthorized.Error()})
			return
		}
		if !caller.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin role required"})
			return
		}
		c.Next()
	}
}

func callerFrom(c *gin.Context) (domain.Caller, bool) {
	v, ok := c.Get(callerKey)
	if !ok {
		return domain.Caller{}, false
	}
	caller, ok := v.(domain.Caller)
	return caller, ok
}

// mustCaller writes 401 and returns false when no caller is attached.
func mustCaller(c *gin.Context) (domain.Caller, bool) {
	caller, ok := callerFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": errUnauthorized.Error()})
	}
	return caller, ok
}
