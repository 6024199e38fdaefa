package handler

import (
	"net/http"
	"time"

	"fleetadmin/internal/middleware"
	"fleetadmin/internal/model"
	"fleetadmin/internal/service"
	"fleetadmin/pkg/response"

	"github.com/gin-gonic/gin"
)

type TeamHandler struct {
	teamService service.TeamService
}

// NewTeamHandler sets up the routing dependencies for auth and team endpoints
func NewTeamHandler(teamService service.TeamService) *TeamHandler {
	return &TeamHandler{teamService: teamService}
}

// RegisterRoutes binds the endpoints to the gin Engine or RouterGroup
func (h *TeamHandler) RegisterRoutes(router *gin.RouterGroup) {
	auth := router.Group("/auth")
	{
		auth.POST("/login", h.Login)
		auth.POST("/logout", h.Logout)
		auth.GET("/me", middleware.RequireAuth(), h.GetMe)
	}

	team := router.Group("/team", middleware.RequirePermission("team"))
	{
		team.GET("/permissions", h.ListPermissions)
		team.GET("", h.ListMembers)
		team.POST("", h.CreateMember)
		team.GET("/:id", h.GetMember)
		team.PUT("/:id", h.UpdateMember)
		team.DELETE("/:id", h.DeleteMember)
	}
}

// Login authenticates a team member and returns a JWT token
// @Summary      Login
// @Description  Accepts a username or an email address
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.LoginRequest  true  "Login Credentials"
// @Success      200      {object}  response.Response{data=service.TokenResponse}
// @Failure      400      {object}  response.Response
// @Failure      401      {object}  response.Response
// @Router       /api/auth/login [post]
func (h *TeamHandler) Login(c *gin.Context) {
	var req service.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Username and password are required"))
		return
	}

	tokenRes, err := h.teamService.Login(c.Request.Context(), req)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	middleware.SetTokenCookie(c, tokenRes.Token, int(time.Until(tokenRes.ExpiresAt).Seconds()))
	c.JSON(http.StatusOK, response.Success(http.StatusOK, tokenRes))
}

// Logout clears the token cookie
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /api/auth/logout [post]
func (h *TeamHandler) Logout(c *gin.Context) {
	middleware.ClearTokenCookie(c)
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "Logged out"}))
}

// GetMe returns the authenticated team member
// @Summary      Get current user
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=model.TeamMember}
// @Failure      401  {object}  response.Response
// @Router       /api/auth/me [get]
func (h *TeamHandler) GetMe(c *gin.Context) {
	actor := actorFrom(c)
	if actor.ID == "" {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "User ID not found in context"))
		return
	}
	member, err := h.teamService.Get(c.Request.Context(), actor.ID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, member))
}

// ListPermissions returns the grantable feature areas
// @Summary      Permission catalog
// @Tags         team
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=[]model.Permission}
// @Router       /api/team/permissions [get]
func (h *TeamHandler) ListPermissions(c *gin.Context) {
	c.JSON(http.StatusOK, response.Success(http.StatusOK, h.teamService.Permissions()))
}

// ListMembers returns every team member matching the filters
// @Summary      List team members
// @Tags         team
// @Produce      json
// @Security     BearerAuth
// @Param        search  query     string  false  "Search name, email or username"
// @Param        role    query     string  false  "owner, admin or employee"
// @Success      200     {object}  response.Response{data=[]model.TeamMember}
// @Router       /api/team [get]
func (h *TeamHandler) ListMembers(c *gin.Context) {
	q, params, paged := listRequest(c)
	if role := c.Query("role"); role != "" {
		q.Category = role
	}
	members, total, err := h.teamService.List(c.Request.Context(), q)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondList(c, members, total, params, paged)
}

// GetMember returns one team member
// @Summary      Get team member
// @Tags         team
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Member ID"
// @Success      200  {object}  response.Response{data=model.TeamMember}
// @Failure      404  {object}  response.Response
// @Router       /api/team/{id} [get]
func (h *TeamHandler) GetMember(c *gin.Context) {
	member, err := h.teamService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, member))
}

// CreateMember creates a login for a new team member
// @Summary      Create team member
// @Description  The password is only accepted here and is stored hashed
// @Tags         team
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateMemberRequest  true  "Member"
// @Success      201      {object}  response.Response{data=model.TeamMember}
// @Failure      400      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /api/team [post]
func (h *TeamHandler) CreateMember(c *gin.Context) {
	var req service.CreateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	member, err := h.teamService.Create(c.Request.Context(), actorFrom(c), req)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, member))
}

// UpdateMember replaces a member's profile, role and permissions
// @Summary      Update team member
// @Tags         team
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string            true  "Member ID"
// @Param        payload  body      model.TeamMember  true  "Member"
// @Success      200      {object}  response.Response{data=model.TeamMember}
// @Failure      400      {object}  response.Response
// @Router       /api/team/{id} [put]
func (h *TeamHandler) UpdateMember(c *gin.Context) {
	var req model.TeamMember
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	member, err := h.teamService.Update(c.Request.Context(), actorFrom(c), c.Param("id"), req)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, member))
}

// DeleteMember removes a team member
// @Summary      Delete team member
// @Tags         team
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Member ID"
// @Success      200  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /api/team/{id} [delete]
func (h *TeamHandler) DeleteMember(c *gin.Context) {
	if err := h.teamService.Delete(c.Request.Context(), actorFrom(c), c.Param("id")); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "Team member deleted"}))
}
