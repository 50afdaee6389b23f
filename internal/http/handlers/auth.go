package handlers

import (
	"net/http"

	intconfig "busbooking/internal/config"
	"busbooking/internal/domain/models"
	"busbooking/internal/http/middleware"
	"busbooking/internal/repositories"
	"busbooking/internal/services"

	"github.com/gin-gonic/gin"
)

type authUser struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

func identityService(c *gin.Context) services.IdentityService {
	return services.IdentityService{
		Users:           repositories.UserRepository{DB: intconfig.DB},
		FederatedSecret: env.FederatedSecret,
		FederatedIssuer: env.FederatedIssuer,
		RequestID:       middleware.GetRequestID(c),
	}
}

func sessionService() services.SessionService {
	return services.SessionService{Secret: []byte(env.JWTSecret), TTL: env.SessionTTL}
}

func authResponse(c *gin.Context, status int, user models.User) {
	token, err := sessionService().Mint(user)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(status, gin.H{
		"token": token,
		"user":  authUser{ID: user.ID, Username: user.Username, Role: user.Role},
	})
}

type signupRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// POST /api/auth/signup
func Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	user, err := identityService(c).Register(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	authResponse(c, http.StatusCreated, user)
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// POST /api/auth/login
func Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	user, err := identityService(c).ResolveIdentity(c.Request.Context(), models.CredentialPassword, services.PasswordPayload{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	authResponse(c, http.StatusOK, user)
}

type federatedRequest struct {
	Assertion string `json:"assertion"`
}

// POST /api/auth/federated
//
// The provider handshake (Google OAuth) runs on the auth gateway; this
// endpoint only accepts the gateway's signed email assertion.
func FederatedLogin(c *gin.Context) {
	var req federatedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	user, err := identityService(c).ResolveIdentity(c.Request.Context(), models.CredentialFederated, services.FederatedPayload{
		Assertion: req.Assertion,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	authResponse(c, http.StatusOK, user)
}
