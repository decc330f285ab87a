package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/CS-Kiran/Manana/internal/server/services"
)

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.renderBindError(c)
		return
	}

	user, err := s.users.Signup(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		s.renderError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"user": user})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenPairResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

func (s *Server) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.renderBindError(c)
		return
	}

	pair, err := s.users.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		s.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, tokenPairResponse{AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken})
}

type googleSignInRequest struct {
	Email     string `json:"email"`
	Name      string `json:"name"`
	SubjectID string `json:"subjectId"`
}

// googleSignIn accepts the profile the front end obtained from the provider
// and reconciles it with the user store.
func (s *Server) googleSignIn(c *gin.Context) {
	var req googleSignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.renderBindError(c)
		return
	}

	pair, err := s.users.ExternalSignIn(c.Request.Context(), services.ExternalProfile{
		Email:     req.Email,
		Name:      req.Name,
		SubjectID: req.SubjectID,
	})
	if err != nil {
		s.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, tokenPairResponse{AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken})
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

func (s *Server) refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.renderBindError(c)
		return
	}

	pair, err := s.users.RefreshToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		s.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, tokenPairResponse{AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken})
}

func (s *Server) me(c *gin.Context) {
	user, err := s.users.GetUser(c.Request.Context(), currentUserID(c))
	if err != nil {
		s.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

type setPasswordRequest struct {
	Password string `json:"password"`
}

func (s *Server) setPassword(c *gin.Context) {
	var req setPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.renderBindError(c)
		return
	}

	if err := s.users.SetPassword(c.Request.Context(), currentUserID(c), req.Password); err != nil {
		s.renderError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
