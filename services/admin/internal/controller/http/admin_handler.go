package http

import (
	"context"
	"net/http"
	"time"

	"fanvault-console/pkg/apiclient"
	"fanvault-console/pkg/logger"
	"fanvault-console/pkg/models"
	"fanvault-console/pkg/search"
	"fanvault-console/services/admin/internal/usecase"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	adminUseCase usecase.AdminUseCase
	debounce     time.Duration
	logger       *logger.Logger
}

func NewAdminHandler(adminUseCase usecase.AdminUseCase, debounce time.Duration, logger *logger.Logger) *AdminHandler {
	return &AdminHandler{
		adminUseCase: adminUseCase,
		debounce:     debounce,
		logger:       logger,
	}
}

type ArtistCreateRequest struct {
	models.ArtistCreate
	SocialLinksJSON *string `json:"social_links_json,omitempty"`
}

type ArtistUpdateRequest struct {
	models.ArtistUpdate
	SocialLinksJSON *string `json:"social_links_json,omitempty"`
}

type VerifiedRequest struct {
	Verified *bool `json:"is_verified" binding:"required"`
}

type RejectContentRequest struct {
	Reason string `json:"reason"`
}

// socialLinks parses the free text social links field when it was sent.
func socialLinks(raw *string, current *models.SocialLinks) (*models.SocialLinks, error) {
	if raw == nil {
		return current, nil
	}
	return models.ParseSocialLinks(*raw)
}

// Login godoc
// @Summary      Log in
// @Description  Exchange admin credentials for a console session
// @Tags         session
// @Accept       json
// @Produce      json
// @Param        request  body      models.LoginRequest  true  "Credentials"
// @Success      200      {object}  entity.Session
// @Failure      400      {object}  map[string]string
// @Failure      403      {object}  map[string]string
// @Router       /login [post]
func (h *AdminHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := h.adminUseCase.Login(c.Request.Context(), req)
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
// @Tags         session
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /logout [post]
func (h *AdminHandler) Logout(c *gin.Context) {
	if err := h.adminUseCase.Logout(c.Request.Context()); err != nil {
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
// @Failure      401  {object}  map[string]string
// @Router       /session [get]
func (h *AdminHandler) Session(c *gin.Context) {
	session, err := h.adminUseCase.Session(c.Request.Context())
	if err != nil {
		h.fail(c, err, "Session unavailable")
		return
	}
	c.JSON(http.StatusOK, session)
}

// Dashboard godoc
// @Summary      Admin dashboard
// @Description  Platform aggregates and the head of the moderation queue
// @Tags         dashboard
// @Produce      json
// @Success      200  {object}  models.AdminDashboard
// @Failure      502  {object}  map[string]string
// @Router       /dashboard [get]
func (h *AdminHandler) Dashboard(c *gin.Context) {
	d, err := h.adminUseCase.Dashboard(c.Request.Context())
	if err != nil {
		h.fail(c, err, "Failed to load dashboard")
		return
	}
	c.JSON(http.StatusOK, d)
}

// Revenue godoc
// @Summary      Revenue analytics
// @Tags         analytics
// @Produce      json
// @Param        period  query     string  false  "week, month or year"
// @Success      200     {object}  models.RevenueReport
// @Failure      400     {object}  map[string]string
// @Router       /analytics/revenue [get]
func (h *AdminHandler) Revenue(c *gin.Context) {
	report, err := h.adminUseCase.Revenue(c.Request.Context(), c.Query("period"))
	if err != nil {
		h.fail(c, err, "Failed to load revenue")
		return
	}
	c.JSON(http.StatusOK, report)
}

// ListArtists godoc
// @Summary      List artists
// @Description  One page of artists for the view encoded in the query string
// @Tags         artists
// @Produce      json
// @Param        page    query     int     false  "Page number"
// @Param        filter  query     string  false  "ACTIVE or SUSPENDED"
// @Param        q       query     string  false  "Search term"
// @Success      200     {object}  entity.ArtistList
// @Router       /artists [get]
func (h *AdminHandler) ListArtists(c *gin.Context) {
	view := search.ParseViewState(c.Request.URL.Query())
	list, err := h.adminUseCase.ListArtists(c.Request.Context(), view)
	if err != nil {
		h.fail(c, err, "Failed to load artists")
		return
	}
	c.JSON(http.StatusOK, list)
}

// GetArtist godoc
// @Summary      Artist detail
// @Tags         artists
// @Produce      json
// @Param        id   path      string  true  "Artist ID"
// @Success      200  {object}  entity.ArtistDetail
// @Failure      404  {object}  map[string]string
// @Router       /artists/{id} [get]
func (h *AdminHandler) GetArtist(c *gin.Context) {
	detail, err := h.adminUseCase.GetArtist(c.Request.Context(), c.Param("id"))
	if err != nil {
		if apiclient.IsNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Artist not found", "redirect": "/artists"})
			return
		}
		h.fail(c, err, "Failed to load artist")
		return
	}
	c.JSON(http.StatusOK, detail)
}

// CreateArtist godoc
// @Summary      Create artist
// @Tags         artists
// @Accept       json
// @Produce      json
// @Param        request  body      ArtistCreateRequest  true  "Artist"
// @Success      201      {object}  models.Artist
// @Failure      400      {object}  map[string]string
// @Router       /artists [post]
func (h *AdminHandler) CreateArtist(c *gin.Context) {
	var req ArtistCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	links, err := socialLinks(req.SocialLinksJSON, req.SocialLinks)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	req.ArtistCreate.SocialLinks = links

	artist, err := h.adminUseCase.CreateArtist(c.Request.Context(), req.ArtistCreate)
	if err != nil {
		h.fail(c, err, "Failed to create artist")
		return
	}
	c.JSON(http.StatusCreated, artist)
}

// UpdateArtist godoc
// @Summary      Update artist
// @Description  Partial update; social_links_json is validated before anything is sent
// @Tags         artists
// @Accept       json
// @Produce      json
// @Param        id       path      string               true  "Artist ID"
// @Param        request  body      ArtistUpdateRequest  true  "Changes"
// @Success      200      {object}  models.Artist
// @Failure      400      {object}  map[string]string
// @Router       /artists/{id} [patch]
func (h *AdminHandler) UpdateArtist(c *gin.Context) {
	var req ArtistUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	links, err := socialLinks(req.SocialLinksJSON, req.SocialLinks)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	req.ArtistUpdate.SocialLinks = links

	artist, err := h.adminUseCase.UpdateArtist(c.Request.Context(), c.Param("id"), req.ArtistUpdate)
	if err != nil {
		h.fail(c, err, "Failed to update artist")
		return
	}
	c.JSON(http.StatusOK, artist)
}

// ToggleStatus godoc
// @Summary      Suspend or activate artist
// @Tags         artists
// @Produce      json
// @Param        id   path      string  true  "Artist ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      409  {object}  map[string]string
// @Failure      502  {object}  map[string]interface{}
// @Router       /artists/{id}/status [patch]
func (h *AdminHandler) ToggleStatus(c *gin.Context) {
	rec, err := h.adminUseCase.ToggleStatus(c.Request.Context(), c.Param("id"))
	h.respondMutation(c, rec, err, "Artist status updated")
}

// SetVerified godoc
// @Summary      Set artist verification
// @Tags         artists
// @Accept       json
// @Produce      json
// @Param        id       path      string           true  "Artist ID"
// @Param        request  body      VerifiedRequest  true  "Verification"
// @Success      200      {object}  map[string]interface{}
// @Router       /artists/{id}/verified [patch]
func (h *AdminHandler) SetVerified(c *gin.Context) {
	var req VerifiedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "is_verified is required"})
		return
	}
	rec, err := h.adminUseCase.SetVerified(c.Request.Context(), c.Param("id"), *req.Verified)
	h.respondMutation(c, rec, err, "Verification updated")
}

// ListPending godoc
// @Summary      Moderation queue
// @Tags         moderation
// @Produce      json
// @Param        page    query     int     false  "Page number"
// @Param        filter  query     string  false  "AUDIO or VIDEO"
// @Param        q       query     string  false  "Search term"
// @Success      200     {object}  entity.PendingList
// @Router       /content/pending [get]
func (h *AdminHandler) ListPending(c *gin.Context) {
	view := search.ParseViewState(c.Request.URL.Query())
	list, err := h.adminUseCase.ListPending(c.Request.Context(), view)
	if err != nil {
		h.fail(c, err, "Failed to load pending content")
		return
	}
	c.JSON(http.StatusOK, list)
}

// Approve godoc
// @Summary      Approve content
// @Tags         moderation
// @Produce      json
// @Param        id   path      string  true  "Content ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      409  {object}  map[string]string
// @Router       /content/{id}/approve [patch]
func (h *AdminHandler) Approve(c *gin.Context) {
	rec, err := h.adminUseCase.Approve(c.Request.Context(), c.Param("id"))
	h.respondMutation(c, rec, err, "Content approved")
}

// Reject godoc
// @Summary      Reject content
// @Tags         moderation
// @Accept       json
// @Produce      json
// @Param        id       path      string                true   "Content ID"
// @Param        request  body      RejectContentRequest  false  "Reason"
// @Success      200      {object}  map[string]interface{}
// @Router       /content/{id}/reject [patch]
func (h *AdminHandler) Reject(c *gin.Context) {
	var req RejectContentRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	rec, err := h.adminUseCase.Reject(c.Request.Context(), c.Param("id"), req.Reason)
	h.respondMutation(c, rec, err, "Content rejected")
}

// DeleteContent godoc
// @Summary      Delete an artist's content
// @Tags         artists
// @Produce      json
// @Param        id          path      string  true  "Artist ID"
// @Param        content_id  path      string  true  "Content ID"
// @Success      200         {object}  map[string]interface{}
// @Router       /artists/{id}/content/{content_id} [delete]
func (h *AdminHandler) DeleteContent(c *gin.Context) {
	rec, err := h.adminUseCase.DeleteContent(c.Request.Context(), c.Param("id"), c.Param("content_id"))
	h.respondMutation(c, rec, err, "Content deleted")
}

// SearchArtists godoc
// @Summary      Live artist search
// @Description  Websocket; send {"q": "..."} per keystroke, receive the list once typing pauses
// @Tags         artists
// @Router       /ws/artists/search [get]
func (h *AdminHandler) SearchArtists(c *gin.Context) {
	conn, err := search.Upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	load := func(ctx context.Context, view search.ViewState) (interface{}, search.ViewState, error) {
		list, err := h.adminUseCase.ListArtists(ctx, view)
		if err != nil {
			return nil, view, err
		}
		return list, list.View, nil
	}
	search.NewLive(conn, search.ParseViewState(c.Request.URL.Query()), load, h.logger).
		Watch(h.adminUseCase.ArtistsWatch()).
		Serve(c.Request.Context(), h.debounce)
}
