// server/internal/auth/auth.go
package auth

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// JWTClaims defines the payload for the JWT.
type JWTClaims struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// Hashing
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), 14)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

var (
	jwtSecret  []byte
	expiration = 24 * time.Hour
)

// Init nạp secret và thời hạn token từ config, gọi một lần lúc khởi động.
func Init(secret string, expiry string) {
	jwtSecret = []byte(secret)
	if d, err := time.ParseDuration(expiry); err == nil && d > 0 {
		expiration = d
	}
}

// Secret trả về key ký JWT cho middleware.
func Secret() []byte {
	return jwtSecret
}

func GenerateJWT(email, name, role string) (string, error) {
	expirationTime := time.Now().Add(expiration)
	claims := &JWTClaims{
		Email: email,
		Name:  name,
		Role:  role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret)
}

// AllowedEmailDomain kiểm tra email thuộc domain của trường.
// Mọi tài khoản của hệ thống đều phải là email tổ chức.
func AllowedEmailDomain(email, domain string) bool {
	return domain != "" && strings.HasSuffix(strings.ToLower(email), "@"+strings.ToLower(domain))
}
