package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"

	"moltpedia/models"
	"moltpedia/services"
)

type Claims struct {
	BotID uint   `json:"bot_id"`
	Name  string `json:"name"`
	Tier  string `json:"tier"`
	jwt.RegisteredClaims
}

// AuthMiddleware resolves the calling bot from the Authorization header.
// Bots authenticate with their mp_live_ API key directly, or with a JWT
// previously issued for that key. The bot is always re-read so tier and
// counters are current, not whatever they were when the token was minted.
func AuthMiddleware(authService services.AuthService, jwtSecret string) gin.HandlerFunc {
	secret := []byte(jwtSecret)

	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization header required"})
			return
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		if token == authHeader {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "bearer token required"})
			return
		}

		var bot *models.Bot
		var err error
		if strings.HasPrefix(token, "mp_live_") {
			bot, err = authService.AuthenticateKey(token)
		} else {
			bot, err = botFromJWT(authService, secret, token)
		}
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}

		c.Set("bot", bot)
		c.Set("bot_id", bot.ID)
		c.Set("tier", bot.Tier)
		c.Next()
	}
}

func botFromJWT(authService services.AuthService, secret []byte, tokenString string) (*models.Bot, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.ErrSignatureInvalid
	}
	return authService.GetBot(claims.BotID)
}

// CurrentBot pulls the authenticated bot out of the request context.
func CurrentBot(c *gin.Context) (*models.Bot, bool) {
	value, exists := c.Get("bot")
	if !exists {
		return nil, false
	}
	bot, ok := value.(*models.Bot)
	return bot, ok
}

// RequireAdmin gates administrative routes.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		bot, ok := CurrentBot(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		if bot.Tier != models.TierAdmin && bot.Tier != models.TierOwner {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": models.ErrorForbidden{Message: "admin access required"}.Error()})
			return
		}
		c.Next()
	}
}
