package server

import (
	"net/http"
	"strings"

	"github.com/anicoll/nem-integration/pkg/hasher"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

func LoggingMiddleware(next http.Handler) http.Handler {
	logger := zap.L()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.Info(r.RequestURI)
		origin := r.Header.Get("Origin")
		if origin != "" {
			w.Header().Set("Access-Control-Allow-Origin", origin)
		}
		next.ServeHTTP(w, r)
	})
}

// AuthMiddleware accepts either an HS256 JWT bearer signed with jwtSecret or
// an X-Api-Key matching the bcrypt apiKeyHash. With neither configured the
// surface is open.
func AuthMiddleware(jwtSecret []byte, apiKeyHash string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(jwtSecret) == 0 && apiKeyHash == "" {
				next.ServeHTTP(w, r)
				return
			}

			if key := r.Header.Get("X-Api-Key"); key != "" && apiKeyHash != "" {
				if hasher.PasswordCorrect(key, apiKeyHash) {
					next.ServeHTTP(w, r)
					return
				}
			}

			if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") && len(jwtSecret) > 0 {
				tokenString := strings.TrimPrefix(auth, "Bearer ")
				token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
					return jwtSecret, nil
				}, jwt.WithValidMethods([]string{"HS256"}))
				if err == nil && token.Valid {
					next.ServeHTTP(w, r)
					return
				}
				zap.L().Warn("rejected bearer token", zap.Error(err))
			}

			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte("unauthorized"))
		})
	}
}
