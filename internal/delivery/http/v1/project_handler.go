package v1

import (
	"net/http"
	"strconv"

	"github.com/Negibkaya/Mias-sema/internal/delivery/http/middleware"
	"github.com/Negibkaya/Mias-sema/internal/delivery/http/response"
	"github.com/Negibkaya/Mias-sema/internal/domain"
	"github.com/Negibkaya/Mias-sema/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type ProjectHandler struct {
	projectUC domain.ProjectUsecase
}

func NewProjectHandler(public *gin.RouterGroup, protected *gin.RouterGroup, projectUC domain.ProjectUsecase) {
	handler := &ProjectHandler{projectUC: projectUC}

	publicProjects := public.Group("/projects")
	{
		publicProjects.GET("", handler.List)
		publicProjects.GET("/:id", handler.Get)
		publicProjects.GET("/:id/members", handler.ListMembers)
	}

	projects := protected.Group("/projects")
	{
		projects.POST("", handler.Create)
		projects.PATCH("/:id", handler.Update)
		projects.DELETE("/:id", handler.Delete)
		projects.POST("/:id/members/:user_id", handler.AddMember)
		projects.DELETE("/:id/members/:user_id", handler.RemoveMember)
	}
}

type CreateProjectRequest struct {
	Name        string        `json:"name" binding:"required"`
	Description *string       `json:"description"`
	Roles       []domain.Role `json:"roles" binding:"omitempty,dive"`
}

type UpdateProjectRequest struct {
	Name        *string       `json:"name"`
	Description *string       `json:"description"`
	Roles       []domain.Role `json:"roles" binding:"omitempty,dive"`
}

// Create godoc
// @Summary      Create a project
// @Tags         projects
// @Accept       json
// @Produce      json
// @Param        project  body      CreateProjectRequest  true  "Project JSON"
// @Success      201      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Router       /projects [post]
// @Security     BearerAuth
func (h *ProjectHandler) Create(c *gin.Context) {
	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	project := &domain.Project{
		Name:        req.Name,
		Description: req.Description,
		Roles:       req.Roles,
	}
	if err := h.projectUC.CreateProject(c.Request.Context(), middleware.CurrentUserID(c), project); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Project created", project)
}

// List godoc
// @Summary      List projects
// @Tags         projects
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /projects [get]
func (h *ProjectHandler) List(c *gin.Context) {
	projects, err := h.projectUC.ListProjects(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "OK", projects)
}

// Get godoc
// @Summary      Get a project by id
// @Tags         projects
// @Produce      json
// @Param        id   path      int  true  "Project ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /projects/{id} [get]
func (h *ProjectHandler) Get(c *gin.Context) {
	id, ok := h.projectID(c)
	if !ok {
		return
	}
	project, err := h.projectUC.GetProject(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "OK", project)
}

// Update godoc
// @Summary      Update a project (owner only)
// @Tags         projects
// @Accept       json
// @Produce      json
// @Param        id       path      int                   true  "Project ID"
// @Param        project  body      UpdateProjectRequest  true  "Fields to change"
// @Success      200      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /projects/{id} [patch]
// @Security     BearerAuth
func (h *ProjectHandler) Update(c *gin.Context) {
	id, ok := h.projectID(c)
	if !ok {
		return
	}

	var req UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	project, err := h.projectUC.UpdateProject(c.Request.Context(), middleware.CurrentUserID(c), id, domain.ProjectPatch{
		Name:        req.Name,
		Description: req.Description,
		Roles:       req.Roles,
	})
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Project updated", project)
}

// Delete godoc
// @Summary      Delete a project (owner only)
// @Tags         projects
// @Produce      json
// @Param        id   path      int  true  "Project ID"
// @Success      200  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /projects/{id} [delete]
// @Security     BearerAuth
func (h *ProjectHandler) Delete(c *gin.Context) {
	id, ok := h.projectID(c)
	if !ok {
		return
	}
	if err := h.projectUC.DeleteProject(c.Request.Context(), middleware.CurrentUserID(c), id); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Project deleted", nil)
}

// ListMembers godoc
// @Summary      List project members with their assigned roles
// @Tags         projects
// @Produce      json
// @Param        id   path      int  true  "Project ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /projects/{id}/members [get]
func (h *ProjectHandler) ListMembers(c *gin.Context) {
	id, ok := h.projectID(c)
	if !ok {
		return
	}
	members, err := h.projectUC.ListMembers(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "OK", members)
}

// AddMember godoc
// @Summary      Add a user to a project (owner only)
// @Tags         projects
// @Produce      json
// @Param        id         path      int     true   "Project ID"
// @Param        user_id    path      int     true   "User ID"
// @Param        role_name  query     string  false  "Role to assign"
// @Success      200        {object}  response.Response
// @Failure      403        {object}  response.Response
// @Failure      404        {object}  response.Response
// @Router       /projects/{id}/members/{user_id} [post]
// @Security     BearerAuth
func (h *ProjectHandler) AddMember(c *gin.Context) {
	projectID, ok := h.projectID(c)
	if !ok {
		return
	}
	userID, err := strconv.ParseInt(c.Param("user_id"), 10, 64)
	if err != nil {
		c.Error(apperror.BadRequest("invalid user id"))
		return
	}

	var roleName *string
	if v := c.Query("role_name"); v != "" {
		roleName = &v
	}

	already, err := h.projectUC.AddMember(c.Request.Context(), middleware.CurrentUserID(c), projectID, userID, roleName)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Member added", gin.H{"already": already})
}

// RemoveMember godoc
// @Summary      Remove a user from a project (owner only)
// @Tags         projects
// @Produce      json
// @Param        id       path      int  true  "Project ID"
// @Param        user_id  path      int  true  "User ID"
// @Success      200      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /projects/{id}/members/{user_id} [delete]
// @Security     BearerAuth
func (h *ProjectHandler) RemoveMember(c *gin.Context) {
	projectID, ok := h.projectID(c)
	if !ok {
		return
	}
	userID, err := strconv.ParseInt(c.Param("user_id"), 10, 64)
	if err != nil {
		c.Error(apperror.BadRequest("invalid user id"))
		return
	}

	if err := h.projectUC.RemoveMember(c.Request.Context(), middleware.CurrentUserID(c), projectID, userID); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Member removed", nil)
}

func (h *ProjectHandler) projectID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.Error(apperror.BadRequest("invalid project id"))
		return 0, false
	}
	return id, true
}
