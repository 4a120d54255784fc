package directus

import (
	jwt "github.com/golang-jwt/jwt/v5"

	apperrors "github.com/campus-union/engage-auth/pkg/util"
)

// UserClaims are the fields this service needs from the backend's access token.
type UserClaims struct {
	ID   string
	Role string
}

// DecodeAccessToken extracts the user id and role from the backend's access
// token WITHOUT verifying its signature. The token arrives over a direct
// authenticated call to the backend's login endpoint, so the transport itself
// is the trust boundary; this must never be used on a token supplied by the
// browser or any other untrusted source.
func DecodeAccessToken(token string) (UserClaims, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return UserClaims{}, apperrors.NewUnauthorized("malformed upstream token")
	}

	role, _ := claims["role"].(string)
	if role == "" {
		return UserClaims{}, apperrors.NewUnauthorized("malformed upstream token")
	}
	id, _ := claims["id"].(string)

	return UserClaims{ID: id, Role: role}, nil
}
