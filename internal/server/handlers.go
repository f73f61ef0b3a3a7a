package server

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rgehrsitz/itrgo/internal/auth"
	"github.com/rgehrsitz/itrgo/internal/calculation"
	"github.com/rgehrsitz/itrgo/internal/config"
	"github.com/rgehrsitz/itrgo/internal/domain"
	"github.com/rgehrsitz/itrgo/internal/extract"
	"github.com/rgehrsitz/itrgo/pkg/response"
)

const maxDocumentSize = 5 << 20

type credentials struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type tokenResponse struct {
	Token    string      `json:"token"`
	Username string      `json:"username"`
	Role     domain.Role `json:"role"`
}

type chatRequest struct {
	Query string `json:"query" binding:"required"`
}

type extractResponse struct {
	Extraction extract.Extraction `json:"extraction"`
	Prefill    domain.RawProfile  `json:"prefill"`
}

func (s *Server) registerAuthRoutes(api *gin.RouterGroup) {
	group := api.Group("/auth")
	group.POST("/register", s.Register)
	group.POST("/login", s.Login)
}

func (s *Server) Register(c *gin.Context) {
	var req credentials
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}
	if !s.Auth.Register(c.Request.Context(), req.Username, req.Password) {
		c.JSON(http.StatusConflict, response.Error(http.StatusConflict, "Username already taken"))
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, gin.H{"username": req.Username}))
}

func (s *Server) Login(c *gin.Context) {
	var req credentials
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}
	id, ok := s.Auth.Login(c.Request.Context(), req.Username, req.Password)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Incorrect username or password"))
		return
	}
	token, err := s.Tokens.Issue(id)
	if err != nil {
		s.Logger.Error("token issue failed", "user", id.Username, "error", err)
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to generate token"))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, tokenResponse{Token: token, Username: id.Username, Role: id.Role}))
}

// CreateAssessment runs the pipeline on a submitted profile.
func (s *Server) CreateAssessment(c *gin.Context) {
	assessment, ok := s.assess(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, assessment))
}

// CreateFiling returns only the filing payload, 403 when the audit blocks
// filing, or 500 with the computed summary when no payload could be built.
func (s *Server) CreateFiling(c *gin.Context) {
	assessment, ok := s.assess(c)
	if !ok {
		return
	}
	if assessment.Blocked {
		c.JSON(http.StatusForbidden, response.ErrorWithDetails(http.StatusForbidden,
			calculation.ErrFilingBlocked.Error(), assessment.Report))
		return
	}
	if assessment.Filing == nil {
		c.JSON(http.StatusInternalServerError, response.ErrorWithDetails(http.StatusInternalServerError,
			"Filing payload unavailable", assessment.Summary))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, assessment.Filing))
}

func (s *Server) assess(c *gin.Context) (*domain.Assessment, bool) {
	var raw domain.RawProfile
	if err := c.ShouldBindJSON(&raw); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return nil, false
	}

	assessment, err := s.Engine.Process(c.Request.Context(), raw)
	var verr *config.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusUnprocessableEntity, response.ErrorWithDetails(http.StatusUnprocessableEntity,
			"Profile validation failed", verr.Violations))
		return nil, false
	case err != nil:
		s.Logger.Error("assessment failed", "user", identity(c).Username, "error", err)
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Calculation failed"))
		return nil, false
	}

	s.Logger.Info("assessment",
		"user", identity(c).Username,
		"regime", assessment.Summary.SelectedRegime,
		"risk_score", assessment.Report.RiskScore,
		"saved", assessment.Saved,
	)
	return assessment, true
}

// ListRecords returns the filing history, newest first. Admin only.
func (s *Server) ListRecords(c *gin.Context) {
	records, err := s.Records.ListAll(c.Request.Context())
	if err != nil {
		s.Logger.Error("list records failed", "error", err)
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to load records"))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, records))
}

// ExtractDocument accepts either a multipart "document" upload or a JSON
// {filename, text} body.
func (s *Server) ExtractDocument(c *gin.Context) {
	var doc extract.Document
	if c.ContentType() == "multipart/form-data" {
		file, err := c.FormFile("document")
		if err != nil {
			c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Missing document upload"))
			return
		}
		if file.Size > maxDocumentSize {
			c.JSON(http.StatusRequestEntityTooLarge, response.Error(http.StatusRequestEntityTooLarge, "Document too large"))
			return
		}
		f, err := file.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Unreadable upload"))
			return
		}
		defer f.Close()
		data, err := io.ReadAll(io.LimitReader(f, maxDocumentSize))
		if err != nil {
			c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Unreadable upload"))
			return
		}
		doc = extract.Document{Filename: file.Filename, Text: string(data)}
	} else if err := c.ShouldBindJSON(&doc); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	result := s.Extractor.Extract(c.Request.Context(), doc)
	if result.Err != "" {
		s.Logger.Warn("extraction failed", "file", doc.Filename, "error", result.Err)
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, extractResponse{Extraction: result, Prefill: result.Prefill()}))
}

func (s *Server) Chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"answer": s.Assistant.Answer(req.Query)}))
}

// Me reports the caller's identity.
func (s *Server) Me(c *gin.Context) {
	id, _ := auth.IdentityFrom(c.Request.Context())
	c.JSON(http.StatusOK, response.Success(http.StatusOK, id))
}
