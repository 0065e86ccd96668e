package models

import "github.com/golang-jwt/jwt/v5"

// TokenClaims, JWT token'ın içindeki veriler (payload).
//
// JWT (JSON Web Token) nedir?
// Kullanıcı kimliğini doğrulamak için kullanılan, imzalanmış bir token.
// 3 parçadan oluşur: header.payload.signature
//
// SessionID, token'ın bağlı olduğu sunucu tarafı oturumu işaret eder.
// Token tek başına yeterli DEĞİLDİR — auth middleware her istekte
// oturum kaydını da kontrol eder (bkz. middleware/auth.go). Böylece
// süresi dolmamış ama eskimiş (yenisi basılmış) bir token reddedilir.
//
// Bu struct models paketinde tanımlanır çünkü birden fazla katman
// (pkg/token, middleware, ws) tarafından kullanılır — circular
// dependency'yi önler.
type TokenClaims struct {
	Name      string `json:"name"`
	Role      Role   `json:"role"`
	SessionID string `json:"session_id"`
	jwt.RegisteredClaims
}
