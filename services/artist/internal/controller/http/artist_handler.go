package http

import (
	"context"
	"net/http"
	"time"

	"fanvault-console/pkg/apiclient"
	"fanvault-console/pkg/logger"
	"fanvault-console/pkg/models"
	"fanvault-console/pkg/search"
	"fanvault-console/pkg/staging"
	"fanvault-console/services/artist/internal/usecase"

	"github.com/gin-gonic/gin"
)

// PreviewFiles resolves a preview id to a local file. Only the directory
// preview store serves files itself.
type PreviewFiles interface {
	Path(id string) (string, error)
}

type ArtistHandler struct {
	artistUseCase usecase.ArtistUseCase
	previews      PreviewFiles
	debounce      time.Duration
	logger        *logger.Logger
}

func NewArtistHandler(artistUseCase usecase.ArtistUseCase, previews PreviewFiles, debounce time.Duration, logger *logger.Logger) *ArtistHandler {
	return &ArtistHandler{
		artistUseCase: artistUseCase,
		previews:      previews,
		debounce:      debounce,
		logger:        logger,
	}
}

type ProfileUpdateRequest struct {
	models.ProfileUpdate
	SocialLinksJSON *string `json:"social_links_json,omitempty"`
}

type DraftDetailsRequest struct {
	Title string `json:"title"`
	Genre string `json:"genre"`
}

// RequireAccess keeps suspended and unverified artists out of every page.
func (h *ArtistHandler) RequireAccess() gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := h.artistUseCase.CheckAccess(c.Request.Context()); err != nil {
			h.fail(c, err, "Failed to load your account")
			c.Abort()
			return
		}
		c.Next()
	}
}

// Login godoc
// @Summary      Log in
// @Description  Exchange artist credentials for a console session
// @Tags         session
// @Accept       json
// @Produce      json
// @Param        request  body      models.LoginRequest  true  "Credentials"
// @Success      200      {object}  entity.Session
// @Failure      400      {object}  map[string]string
// @Failure      403      {object}  map[string]string
// @Router       /login [post]
func (h *ArtistHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := h.artistUseCase.Login(c.Request.Context(), req)
	if err != nil {
		if apiclient.IsUnauthorized(err) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": apiclient.Message(err, "Invalid email or password")})
			return
		}
		h.fail(c, err, "Login failed")
		return
	}

	c.JSON(http.StatusOK, session)
}

// Logout godoc
// @Summary      Log out
// @Description  Ends the session and discards the upload draft
// @Tags         session
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /logout [post]
func (h *ArtistHandler) Logout(c *gin.Context) {
	if err := h.artistUseCase.Logout(c.Request.Context()); err != nil {
		h.logger.Error("Failed to clear session: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to log out"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out", "redirect": "/login"})
}

// Session godoc
// @Summary      Current session
// @Tags         session
// @Produce      json
// @Success      200  {object}  entity.Session
// @Router       /session [get]
func (h *ArtistHandler) Session(c *gin.Context) {
	session, err := h.artistUseCase.Session(c.Request.Context())
	if err != nil {
		h.fail(c, err, "Session unavailable")
		return
	}
	c.JSON(http.StatusOK, session)
}

// Me godoc
// @Summary      Own profile
// @Tags         profile
// @Produce      json
// @Success      200  {object}  models.Artist
// @Router       /me [get]
func (h *ArtistHandler) Me(c *gin.Context) {
	me, err := h.artistUseCase.Me(c.Request.Context())
	if err != nil {
		h.fail(c, err, "Failed to load profile")
		return
	}
	c.JSON(http.StatusOK, me)
}

// UpdateProfile godoc
// @Summary      Update own profile
// @Description  social_links_json is validated before anything is sent
// @Tags         profile
// @Accept       json
// @Produce      json
// @Param        request  body      ProfileUpdateRequest  true  "Changes"
// @Success      200      {object}  models.Artist
// @Failure      400      {object}  map[string]string
// @Router       /me [patch]
func (h *ArtistHandler) UpdateProfile(c *gin.Context) {
	var req ProfileUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.SocialLinksJSON != nil {
		links, err := models.ParseSocialLinks(*req.SocialLinksJSON)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		req.ProfileUpdate.SocialLinks = links
	}

	artist, err := h.artistUseCase.UpdateProfile(c.Request.Context(), req.ProfileUpdate)
	if err != nil {
		h.fail(c, err, "Failed to update profile")
		return
	}
	c.JSON(http.StatusOK, artist)
}

// Pricing godoc
// @Summary      Subscription pricing
// @Tags         profile
// @Produce      json
// @Success      200  {object}  models.Pricing
// @Router       /pricing [get]
func (h *ArtistHandler) Pricing(c *gin.Context) {
	p, err := h.artistUseCase.Pricing(c.Request.Context())
	if err != nil {
		h.fail(c, err, "Failed to load pricing")
		return
	}
	c.JSON(http.StatusOK, p)
}

// UpdatePricing godoc
// @Summary      Change subscription price
// @Tags         profile
// @Accept       json
// @Produce      json
// @Param        request  body      models.PricingUpdate  true  "Price"
// @Success      200      {object}  models.Pricing
// @Failure      400      {object}  map[string]string
// @Router       /pricing [patch]
func (h *ArtistHandler) UpdatePricing(c *gin.Context) {
	var req models.PricingUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p, err := h.artistUseCase.UpdatePricing(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err, "Failed to update pricing")
		return
	}
	c.JSON(http.StatusOK, p)
}

// Dashboard godoc
// @Summary      Artist dashboard
// @Tags         dashboard
// @Produce      json
// @Success      200  {object}  models.ArtistDashboard
// @Router       /dashboard [get]
func (h *ArtistHandler) Dashboard(c *gin.Context) {
	d, err := h.artistUseCase.Dashboard(c.Request.Context())
	if err != nil {
		h.fail(c, err, "Failed to load dashboard")
		return
	}
	c.JSON(http.StatusOK, d)
}

// Analytics godoc
// @Summary      Analytics series
// @Tags         dashboard
// @Produce      json
// @Param        metric  path      string  true   "plays, revenue or subscribers"
// @Param        range   query     string  false  "7d, 30d, 90d or 1y"
// @Success      200     {object}  models.AnalyticsSeries
// @Failure      400     {object}  map[string]string
// @Router       /analytics/{metric} [get]
func (h *ArtistHandler) Analytics(c *gin.Context) {
	s, err := h.artistUseCase.Analytics(c.Request.Context(), c.Param("metric"), c.Query("range"))
	if err != nil {
		h.fail(c, err, "Failed to load analytics")
		return
	}
	c.JSON(http.StatusOK, s)
}

// ChannelPreview godoc
// @Summary      Channel as fans see it
// @Tags         dashboard
// @Produce      json
// @Success      200  {object}  models.ChannelPreview
// @Router       /channel-preview [get]
func (h *ArtistHandler) ChannelPreview(c *gin.Context) {
	p, err := h.artistUseCase.ChannelPreview(c.Request.Context())
	if err != nil {
		h.fail(c, err, "Failed to load channel preview")
		return
	}
	c.JSON(http.StatusOK, p)
}

// ListContent godoc
// @Summary      Content history
// @Tags         content
// @Produce      json
// @Param        page    query     int     false  "Page number"
// @Param        filter  query     string  false  "PENDING, PUBLISHED or REJECTED"
// @Param        q       query     string  false  "Search term"
// @Success      200     {object}  entity.ContentList
// @Router       /content [get]
func (h *ArtistHandler) ListContent(c *gin.Context) {
	view := search.ParseViewState(c.Request.URL.Query())
	list, err := h.artistUseCase.ListContent(c.Request.Context(), view)
	if err != nil {
		h.fail(c, err, "Failed to load content")
		return
	}
	c.JSON(http.StatusOK, list)
}

// GetContent godoc
// @Summary      Content detail
// @Tags         content
// @Produce      json
// @Param        id   path      string  true  "Content ID"
// @Success      200  {object}  entity.ContentDetail
// @Failure      404  {object}  map[string]string
// @Router       /content/{id} [get]
func (h *ArtistHandler) GetContent(c *gin.Context) {
	detail, err := h.artistUseCase.GetContent(c.Request.Context(), c.Param("id"))
	if err != nil {
		if apiclient.IsNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Content not found", "redirect": "/content"})
			return
		}
		h.fail(c, err, "Failed to load content")
		return
	}
	c.JSON(http.StatusOK, detail)
}

// DeleteContent godoc
// @Summary      Delete own content
// @Tags         content
// @Produce      json
// @Param        id   path      string  true  "Content ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      409  {object}  map[string]string
// @Failure      502  {object}  map[string]interface{}
// @Router       /content/{id} [delete]
func (h *ArtistHandler) DeleteContent(c *gin.Context) {
	rec, err := h.artistUseCase.DeleteContent(c.Request.Context(), c.Param("id"))
	h.respondMutation(c, rec, err, "Content deleted")
}

// Draft godoc
// @Summary      Upload draft
// @Tags         upload
// @Produce      json
// @Success      200  {object}  staging.DraftView
// @Router       /upload [get]
func (h *ArtistHandler) Draft(c *gin.Context) {
	c.JSON(http.StatusOK, h.artistUseCase.Draft())
}

// UpdateDraft godoc
// @Summary      Set draft title and genre
// @Tags         upload
// @Accept       json
// @Produce      json
// @Param        request  body      DraftDetailsRequest  true  "Details"
// @Success      200      {object}  staging.DraftView
// @Router       /upload [patch]
func (h *ArtistHandler) UpdateDraft(c *gin.Context) {
	var req DraftDetailsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, h.artistUseCase.SetDraftDetails(req.Title, req.Genre))
}

// StageFile godoc
// @Summary      Stage a file
// @Description  A rejected file leaves the current selection as it was
// @Tags         upload
// @Accept       multipart/form-data
// @Produce      json
// @Param        kind    path      string  true   "audio, video or thumbnail"
// @Param        file    formData  file    true   "File"
// @Param        source  formData  string  false  "picker, drop or paste"
// @Success      200     {object}  map[string]interface{}
// @Failure      400     {object}  map[string]interface{}
// @Router       /upload/{kind} [post]
func (h *ArtistHandler) StageFile(c *gin.Context) {
	kind, err := staging.ParseKind(c.Param("kind"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file provided"})
		return
	}
	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read file"})
		return
	}
	defer f.Close()

	staged, err := h.artistUseCase.StageFile(c.Request.Context(), kind, staging.ParseSource(c.PostForm("source")), fh.Filename, f)
	if err != nil {
		status := statusFor(err)
		if status == http.StatusBadGateway {
			h.logger.Error("Failed to stage %s: %v", kind, err)
			status = http.StatusInternalServerError
		}
		c.JSON(status, gin.H{"error": err.Error(), "draft": h.artistUseCase.Draft()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"file": staged, "draft": h.artistUseCase.Draft()})
}

// UnstageFile godoc
// @Summary      Remove a staged file
// @Tags         upload
// @Produce      json
// @Param        kind  path      string  true  "audio, video or thumbnail"
// @Success      200   {object}  staging.DraftView
// @Router       /upload/{kind} [delete]
func (h *ArtistHandler) UnstageFile(c *gin.Context) {
	kind, err := staging.ParseKind(c.Param("kind"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, h.artistUseCase.UnstageFile(c.Request.Context(), kind))
}

// DiscardDraft godoc
// @Summary      Discard the draft
// @Tags         upload
// @Produce      json
// @Success      200  {object}  staging.DraftView
// @Router       /upload [delete]
func (h *ArtistHandler) DiscardDraft(c *gin.Context) {
	c.JSON(http.StatusOK, h.artistUseCase.DiscardDraft(c.Request.Context()))
}

// SubmitDraft godoc
// @Summary      Submit the draft
// @Description  Sends title, genre, thumbnail and media file as one upload
// @Tags         upload
// @Produce      json
// @Success      201  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]interface{}
// @Failure      502  {object}  map[string]interface{}
// @Router       /upload/submit [post]
func (h *ArtistHandler) SubmitDraft(c *gin.Context) {
	content, err := h.artistUseCase.SubmitDraft(c.Request.Context())
	draft := h.artistUseCase.Draft()
	if err != nil {
		status := statusFor(err)
		if status == http.StatusUnauthorized {
			h.fail(c, err, "")
			return
		}
		msg := draft.Error
		if msg == "" {
			msg = apiclient.Message(err, "Upload failed")
		}
		c.JSON(status, gin.H{"error": msg, "draft": draft})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"content": content, "draft": draft})
}

// Preview godoc
// @Summary      Staged file preview
// @Tags         upload
// @Param        id   path  string  true  "Preview ID"
// @Success      200
// @Failure      404  {object}  map[string]string
// @Router       /previews/{id} [get]
func (h *ArtistHandler) Preview(c *gin.Context) {
	if h.previews == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Preview not found"})
		return
	}
	id := c.Param("id")
	staged := stagedPreview(h.artistUseCase.Draft(), id)
	if staged == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Preview not found"})
		return
	}
	path, err := h.previews.Path(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Preview not found"})
		return
	}
	c.Header("Content-Type", staged.ContentType)
	c.Header("X-Content-Type-Options", "nosniff")
	c.Header("Cache-Control", "no-store")
	c.File(path)
}

// stagedPreview finds the draft file behind a preview id. Only files of the
// current draft are served.
func stagedPreview(draft staging.DraftView, id string) *staging.StagedFile {
	for _, f := range draft.Files {
		if f != nil && f.PreviewID == id {
			return f
		}
	}
	return nil
}

// SearchContent godoc
// @Summary      Live content search
// @Description  Websocket; send {"q": "..."} per keystroke, receive the history once typing pauses
// @Tags         content
// @Router       /ws/content/search [get]
func (h *ArtistHandler) SearchContent(c *gin.Context) {
	conn, err := search.Upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	load := func(ctx context.Context, view search.ViewState) (interface{}, search.ViewState, error) {
		list, err := h.artistUseCase.ListContent(ctx, view)
		if err != nil {
			return nil, view, err
		}
		return list, list.View, nil
	}
	search.NewLive(conn, search.ParseViewState(c.Request.URL.Query()), load, h.logger).
		Watch(h.artistUseCase.ContentWatch()).
		Serve(c.Request.Context(), h.debounce)
}
