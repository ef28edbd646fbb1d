package rest

import (
	"errors"
	"net/http"
	"strings"

	"github.com/Gunvolt24/wc_order_export/pkg/ctxmeta"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
)

// DefaultCapability — право администратора магазина, необходимое для выгрузки.
const DefaultCapability = "manage_woocommerce"

// AuthConfig — параметры проверки прав доступа к /api.
type AuthConfig struct {
	Disabled   bool
	Secret     string
	Capability string
}

// CapabilityClaims — JWT с перечнем прав пользователя.
type CapabilityClaims struct {
	Caps []string `json:"caps"`
	jwt.RegisteredClaims
}

// Has — есть ли у пользователя право.
func (c *CapabilityClaims) Has(capability string) bool {
	for _, v := range c.Caps {
		if v == capability {
			return true
		}
	}
	return false
}

var errNoToken = errors.New("missing access token")

// CapabilityGate — middleware: HS256 JWT (Bearer или access_token) с нужным правом в claim caps.
// Без токена или с неверной подписью — 401, без права — 403.
func CapabilityGate(cfg AuthConfig) gin.HandlerFunc {
	capability := cfg.Capability
	if capability == "" {
		capability = DefaultCapability
	}
	secret := []byte(cfg.Secret)

	return func(c *gin.Context) {
		if cfg.Disabled {
			c.Next()
			return
		}

		raw, err := accessToken(c)
		if err != nil {
			writeFail(c, http.StatusUnauthorized, "Authentication required.")
			return
		}

		claims := &CapabilityClaims{}
		token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
			if t.Method != jwt.SigningMethodHS256 {
				return nil, errors.New("unexpected signing method")
			}
			return secret, nil
		})
		if err != nil || token == nil || !token.Valid {
			writeFail(c, http.StatusUnauthorized, "Authentication required.")
			return
		}

		if !claims.Has(capability) {
			writeFail(c, http.StatusForbidden, "You do not have permission to export orders.")
			return
		}

		if claims.Subject != "" {
			c.Request = c.Request.WithContext(ctxmeta.WithSubject(c.Request.Context(), claims.Subject))
		}
		c.Next()
	}
}

// accessToken — токен из Authorization: Bearer или параметра access_token (ссылка на скачивание).
func accessToken(c *gin.Context) (string, error) {
	if authz := c.GetHeader("Authorization"); authz != "" {
		parts := strings.SplitN(authz, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return "", errNoToken
		}
		if raw := strings.TrimSpace(parts[1]); raw != "" {
			return raw, nil
		}
		return "", errNoToken
	}
	if raw := strings.TrimSpace(c.Query("access_token")); raw != "" {
		return raw, nil
	}
	return "", errNoToken
}
