package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hnam209/studypilot/internal/dto"
	"github.com/hnam209/studypilot/internal/service"
	"github.com/rs/zerolog/log"
)

type Controller struct {
	documentSvc *service.DocumentService
	quizSvc     *service.QuizService
	notesSvc    *service.NotesService
}

func NewController(docSvc *service.DocumentService, quizSvc *service.QuizService, notesSvc *service.NotesService) *Controller {
	return &Controller{
		documentSvc: docSvc,
		quizSvc:     quizSvc,
		notesSvc:    notesSvc,
	}
}

func (ctrl *Controller) RegisterRoutes(router *gin.Engine) {
	apiV1 := router.Group("/api/v1")
	{
		documents := apiV1.Group("/documents")
		documents.POST("", ctrl.CreateDocumentHandler)
		documents.GET("", ctrl.ListDocumentsHandler)
		documents.GET("/:id", ctrl.GetDocumentHandler)
		documents.GET("/:id/notes", ctrl.ListDocumentNotesHandler)

		quizzes := apiV1.Group("/quizzes")
		quizzes.POST("/generate", ctrl.GenerateQuizHandler)
		quizzes.GET("", ctrl.ListQuizzesHandler)
		quizzes.GET("/:id", ctrl.GetQuizHandler)
		quizzes.POST("/:id/submit", ctrl.SubmitAttemptHandler)
		quizzes.GET("/:id/attempts", ctrl.ListAttemptsHandler)

		notes := apiV1.Group("/notes")
		notes.POST("/generate", ctrl.GenerateNotesHandler)
		notes.GET("", ctrl.ListNotesHandler)
		notes.GET("/:id", ctrl.GetNotesHandler)
		notes.POST("/:id/regenerate", ctrl.RegenerateNotesHandler)

		apiV1.GET("/analytics/performance", ctrl.GetPerformanceAnalyticsHandler)
	}
}

// userID resolves the caller identity. Authentication happens upstream; this
// service trusts the forwarded identity.
func userID(c *gin.Context) (string, bool) {
	id := c.GetHeader("X-User-ID")
	if id == "" {
		id = c.Query("user_id")
	}
	if id == "" {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "missing user identity: set the X-User-ID header or user_id query parameter"})
		return "", false
	}
	return id, true
}

// respondServiceError maps the service error taxonomy onto HTTP statuses.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, service.ErrOwnership):
		c.JSON(http.StatusForbidden, dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, service.ErrQuizEmpty):
		c.JSON(http.StatusUnprocessableEntity, dto.ErrorResponse{Error: err.Error()})
	default:
		log.Error().Err(err).Msg("Request failed")
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: err.Error()})
	}
}

// --- Document Handlers ---

// CreateDocumentHandler godoc
// @Summary Register a document
// @Description Store a pre-chunked document and index its chunks for semantic search
// @Tags documents
// @Accept json
// @Produce json
// @Param X-User-ID header string true "Caller identity"
// @Param document body dto.CreateDocumentRequest true "Document title and content chunks"
// @Success 201 {object} dto.DocumentResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /documents [post]
func (ctrl *Controller) CreateDocumentHandler(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	var req dto.CreateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("Failed to bind CreateDocumentRequest")
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	resp, err := ctrl.documentSvc.CreateDocument(c.Request.Context(), req, uid)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ListDocumentsHandler godoc
// @Summary List the caller's documents
// @Tags documents
// @Produce json
// @Param X-User-ID header string true "Caller identity"
// @Success 200 {array} dto.DocumentResponse
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /documents [get]
func (ctrl *Controller) ListDocumentsHandler(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	resp, err := ctrl.documentSvc.ListDocuments(uid)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetDocumentHandler godoc
// @Summary Get a document
// @Tags documents
// @Produce json
// @Param X-User-ID header string true "Caller identity"
// @Param id path string true "Document ID"
// @Success 200 {object} dto.DocumentResponse
// @Failure 403 {object} dto.ErrorResponse "Document belongs to another user"
// @Failure 404 {object} dto.ErrorResponse "Document not found"
// @Router /documents/{id} [get]
func (ctrl *Controller) GetDocumentHandler(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	resp, err := ctrl.documentSvc.GetDocument(c.Param("id"), uid)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListDocumentNotesHandler godoc
// @Summary List study notes generated for a document
// @Tags documents
// @Produce json
// @Param X-User-ID header string true "Caller identity"
// @Param id path string true "Document ID"
// @Success 200 {array} dto.StudyNotesResponse
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /documents/{id}/notes [get]
func (ctrl *Controller) ListDocumentNotesHandler(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	resp, err := ctrl.notesSvc.ListNotesForDocument(c.Param("id"), uid)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// --- Quiz Handlers ---

// GenerateQuizHandler godoc
// @Summary Generate a quiz from a document
// @Description Build quiz questions from the document's content; falls back to comprehension questions when generation is unavailable
// @Tags quizzes
// @Accept json
// @Produce json
// @Param X-User-ID header string true "Caller identity"
// @Param request body dto.GenerateQuizRequest true "Document id and question count"
// @Success 201 {object} dto.QuizResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Failure 403 {object} dto.ErrorResponse "Document belongs to another user"
// @Failure 404 {object} dto.ErrorResponse "Document not found"
// @Router /quizzes/generate [post]
func (ctrl *Controller) GenerateQuizHandler(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	var req dto.GenerateQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("Failed to bind GenerateQuizRequest")
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	resp, err := ctrl.quizSvc.GenerateQuiz(c.Request.Context(), req, uid)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ListQuizzesHandler godoc
// @Summary List the caller's quizzes
// @Tags quizzes
// @Produce json
// @Param X-User-ID header string true "Caller identity"
// @Success 200 {array} dto.QuizResponse
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /quizzes [get]
func (ctrl *Controller) ListQuizzesHandler(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	resp, err := ctrl.quizSvc.ListQuizzes(uid)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetQuizHandler godoc
// @Summary Get a quiz with its questions
// @Description Correct answers and explanations are not included
// @Tags quizzes
// @Produce json
// @Param X-User-ID header string true "Caller identity"
// @Param id path string true "Quiz ID"
// @Success 200 {object} dto.QuizResponse
// @Failure 403 {object} dto.ErrorResponse "Quiz belongs to another user"
// @Failure 404 {object} dto.ErrorResponse "Quiz not found"
// @Router /quizzes/{id} [get]
func (ctrl *Controller) GetQuizHandler(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	resp, err := ctrl.quizSvc.GetQuiz(c.Param("id"), uid)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// SubmitAttemptHandler godoc
// @Summary Submit quiz answers
// @Description Grades the answers, stores the attempt and returns per-question results
// @Tags quizzes
// @Accept json
// @Produce json
// @Param X-User-ID header string true "Caller identity"
// @Param id path string true "Quiz ID"
// @Param answers body dto.SubmitAttemptRequest true "Answers keyed by question id"
// @Success 201 {object} dto.AttemptResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Failure 404 {object} dto.ErrorResponse "Quiz not found"
// @Failure 422 {object} dto.ErrorResponse "Quiz has no questions"
// @Router /quizzes/{id}/submit [post]
func (ctrl *Controller) SubmitAttemptHandler(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	var req dto.SubmitAttemptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("Failed to bind SubmitAttemptRequest")
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	resp, err := ctrl.quizSvc.SubmitAttempt(c.Request.Context(), c.Param("id"), uid, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ListAttemptsHandler godoc
// @Summary List the caller's attempts for a quiz
// @Tags quizzes
// @Produce json
// @Param X-User-ID header string true "Caller identity"
// @Param id path string true "Quiz ID"
// @Success 200 {array} dto.AttemptResponse
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /quizzes/{id}/attempts [get]
func (ctrl *Controller) ListAttemptsHandler(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	resp, err := ctrl.quizSvc.ListAttempts(c.Param("id"), uid)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// --- Notes Handlers ---

// GenerateNotesHandler godoc
// @Summary Generate personalized study notes from a quiz attempt
// @Description Analyzes the attempt, retrieves relevant document content and synthesizes study notes
// @Tags notes
// @Accept json
// @Produce json
// @Param X-User-ID header string true "Caller identity"
// @Param request body dto.GenerateNotesRequest true "Quiz attempt id"
// @Success 201 {object} dto.NotesResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Failure 403 {object} dto.ErrorResponse "Attempt belongs to another user"
// @Failure 404 {object} dto.ErrorResponse "Attempt, quiz or document not found"
// @Failure 422 {object} dto.ErrorResponse "Quiz has no questions"
// @Router /notes/generate [post]
func (ctrl *Controller) GenerateNotesHandler(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	var req dto.GenerateNotesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("Failed to bind GenerateNotesRequest")
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	resp, err := ctrl.notesSvc.CreateNotes(c.Request.Context(), req.QuizAttemptID, uid)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ListNotesHandler godoc
// @Summary List the caller's study notes
// @Tags notes
// @Produce json
// @Param X-User-ID header string true "Caller identity"
// @Success 200 {array} dto.StudyNotesResponse
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /notes [get]
func (ctrl *Controller) ListNotesHandler(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	resp, err := ctrl.notesSvc.ListNotes(uid)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetNotesHandler godoc
// @Summary Get a study-notes artifact
// @Tags notes
// @Produce json
// @Param X-User-ID header string true "Caller identity"
// @Param id path string true "Study notes ID"
// @Success 200 {object} dto.StudyNotesResponse
// @Failure 403 {object} dto.ErrorResponse "Notes belong to another user"
// @Failure 404 {object} dto.ErrorResponse "Notes not found"
// @Router /notes/{id} [get]
func (ctrl *Controller) GetNotesHandler(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	resp, err := ctrl.notesSvc.GetNotes(c.Param("id"), uid)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// RegenerateNotesHandler godoc
// @Summary Regenerate study notes
// @Description Re-runs the pipeline from the original attempt; returns a new artifact with a fresh id
// @Tags notes
// @Produce json
// @Param X-User-ID header string true "Caller identity"
// @Param id path string true "Study notes ID"
// @Success 201 {object} dto.NotesResponse
// @Failure 403 {object} dto.ErrorResponse "Notes belong to another user"
// @Failure 404 {object} dto.ErrorResponse "Notes not found"
// @Router /notes/{id}/regenerate [post]
func (ctrl *Controller) RegenerateNotesHandler(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	resp, err := ctrl.notesSvc.RegenerateNotes(c.Request.Context(), c.Param("id"), uid)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// GetPerformanceAnalyticsHandler godoc
// @Summary Performance analytics across all study notes
// @Description Aggregates the caller's study-notes artifacts into score trends, recurring weak areas and overall recommendations
// @Tags analytics
// @Produce json
// @Param X-User-ID header string true "Caller identity"
// @Success 200 {object} dto.PerformanceAnalyticsResponse
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /analytics/performance [get]
func (ctrl *Controller) GetPerformanceAnalyticsHandler(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	resp, err := ctrl.notesSvc.GetPerformanceAnalytics(uid)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
