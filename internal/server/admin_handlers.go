package server

import (
	"atrium/internal/models"
	"atrium/internal/service"
	"atrium/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// CreateAdmin handles POST /api/admins
// @Summary Provision an admin account
// @Tags admins
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{username=string,email=string,phone=string,password=string,is_superuser=bool,country_id=int} true "New admin"
// @Success 201 {object} models.Admin
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Router /admins [post]
func (s *Server) CreateAdmin(c *fiber.Ctx) error {
	var req struct {
		Username    string `json:"username"`
		Email       string `json:"email"`
		Phone       string `json:"phone"`
		Password    string `json:"password"`
		IsSuperuser *bool  `json:"is_superuser"`
		CountryID   *uint  `json:"country_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	in := service.CreateAdminInput{
		Username:  req.Username,
		Email:     req.Email,
		Phone:     req.Phone,
		Password:  req.Password,
		Superuser: req.IsSuperuser,
		CountryID: req.CountryID,
	}

	var (
		admin *models.Admin
		err   error
	)
	// Creating a superuser through the API additionally requires the actor
	// itself to be a superuser, not just admins.manage.
	if req.IsSuperuser != nil && *req.IsSuperuser {
		actor, actorErr := s.actor(c)
		if actorErr != nil {
			return respondServiceError(c, actorErr)
		}
		if !actor.IsSuperuser {
			return models.RespondWithError(c, fiber.StatusForbidden,
				models.NewForbiddenError("Only superusers may create superusers"))
		}
		admin, err = s.provision.CreateSuperuser(c.UserContext(), in)
	} else {
		admin, err = s.provision.CreateAdmin(c.UserContext(), in)
	}
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(admin)
}

// ListAdmins handles GET /api/admins
func (s *Server) ListAdmins(c *fiber.Ctx) error {
	p := parsePagination(c, 20)
	admins, err := s.adminRepo.List(c.UserContext(), p.Limit, p.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"admins": admins})
}

// GetAdmin handles GET /api/admins/:id
func (s *Server) GetAdmin(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	admin, err := s.adminRepo.GetByID(c.UserContext(), id)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(admin)
}

// ActivateAdmin handles POST /api/admins/:id/activate
func (s *Server) ActivateAdmin(c *fiber.Ctx) error {
	return s.setAdminActive(c, true)
}

// DeactivateAdmin handles POST /api/admins/:id/deactivate
func (s *Server) DeactivateAdmin(c *fiber.Ctx) error {
	return s.setAdminActive(c, false)
}

func (s *Server) setAdminActive(c *fiber.Ctx, active bool) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	admin, err := s.provision.SetActive(c.UserContext(), id, active)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(admin)
}

// GetMyPermissions handles GET /api/admins/me/permissions?taxonomy=standard
// @Summary Enumerate the caller's resolved permissions in one taxonomy
// @Tags admins
// @Produce json
// @Security BearerAuth
// @Param taxonomy query string false "standard or developer" default(standard)
// @Success 200 {object} object{taxonomy=string,permissions=[]string}
// @Router /admins/me/permissions [get]
func (s *Server) GetMyPermissions(c *fiber.Ctx) error {
	actor, err := s.actor(c)
	if err != nil {
		return respondServiceError(c, err)
	}
	taxonomy, err := s.parseTaxonomy(c)
	if err != nil {
		return nil
	}

	codenames, err := s.authz.AllPermissions(c.UserContext(), actor.ID, taxonomy)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{
		"taxonomy":    taxonomy,
		"permissions": codenames,
	})
}

// CheckMyPermission handles GET /api/admins/me/permissions/check?codename=x
func (s *Server) CheckMyPermission(c *fiber.Ctx) error {
	codename := c.Query("codename")
	if codename == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("codename query parameter is required"))
	}

	actor, err := s.actor(c)
	if err != nil {
		return respondServiceError(c, err)
	}

	allowed, err := s.authz.HasPerm(c.UserContext(), actor, codename)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{
		"codename": codename,
		"allowed":  allowed,
	})
}

// GrantPermission handles POST /api/admins/:id/permissions/:permissionId
func (s *Server) GrantPermission(c *fiber.Ctx) error {
	adminID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	permID, err := s.parseID(c, "permissionId")
	if err != nil {
		return nil
	}

	if _, err := s.adminRepo.GetByID(c.UserContext(), adminID); err != nil {
		return respondServiceError(c, err)
	}
	if err := s.adminRepo.GrantPermission(c.UserContext(), adminID, permID); err != nil {
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// RevokePermission handles DELETE /api/admins/:id/permissions/:permissionId
func (s *Server) RevokePermission(c *fiber.Ctx) error {
	adminID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	permID, err := s.parseID(c, "permissionId")
	if err != nil {
		return nil
	}
	if err := s.adminRepo.RevokePermission(c.UserContext(), adminID, permID); err != nil {
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// AddAdminToGroup handles POST /api/admins/:id/groups/:groupId
func (s *Server) AddAdminToGroup(c *fiber.Ctx) error {
	adminID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	groupID, err := s.parseID(c, "groupId")
	if err != nil {
		return nil
	}

	if _, err := s.adminRepo.GetByID(c.UserContext(), adminID); err != nil {
		return respondServiceError(c, err)
	}
	if _, err := s.permRepo.GetGroupByID(c.UserContext(), groupID); err != nil {
		return respondServiceError(c, err)
	}
	if err := s.adminRepo.AddToGroup(c.UserContext(), adminID, groupID); err != nil {
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// RemoveAdminFromGroup handles DELETE /api/admins/:id/groups/:groupId
func (s *Server) RemoveAdminFromGroup(c *fiber.Ctx) error {
	adminID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	groupID, err := s.parseID(c, "groupId")
	if err != nil {
		return nil
	}
	if err := s.adminRepo.RemoveFromGroup(c.UserContext(), adminID, groupID); err != nil {
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListPermissions handles GET /api/permissions?taxonomy=standard
func (s *Server) ListPermissions(c *fiber.Ctx) error {
	taxonomy, err := s.parseTaxonomy(c)
	if err != nil {
		return nil
	}
	perms, err := s.permRepo.ListPermissions(c.UserContext(), taxonomy)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"permissions": perms})
}

// CreatePermission handles POST /api/permissions
func (s *Server) CreatePermission(c *fiber.Ctx) error {
	var req struct {
		Codename    string          `json:"codename"`
		Taxonomy    models.Taxonomy `json:"taxonomy"`
		Description string          `json:"description"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.Taxonomy == "" {
		req.Taxonomy = models.TaxonomyStandard
	}
	if !req.Taxonomy.Valid() {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Unknown taxonomy"))
	}
	if err := validation.ValidateCodename(req.Codename); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(err.Error()))
	}

	perm := &models.Permission{
		Codename:    req.Codename,
		Taxonomy:    req.Taxonomy,
		Description: req.Description,
	}
	if err := s.permRepo.CreatePermission(c.UserContext(), perm); err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(perm)
}

// ListGroups handles GET /api/groups?taxonomy=standard
func (s *Server) ListGroups(c *fiber.Ctx) error {
	taxonomy, err := s.parseTaxonomy(c)
	if err != nil {
		return nil
	}
	groups, err := s.permRepo.ListGroups(c.UserContext(), taxonomy)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"groups": groups})
}

// CreateGroup handles POST /api/groups
func (s *Server) CreateGroup(c *fiber.Ctx) error {
	var req struct {
		Name     string          `json:"name"`
		Taxonomy models.Taxonomy `json:"taxonomy"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.Name == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Group name is required"))
	}
	if req.Taxonomy == "" {
		req.Taxonomy = models.TaxonomyStandard
	}
	if !req.Taxonomy.Valid() {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Unknown taxonomy"))
	}

	group := &models.Group{Name: req.Name, Taxonomy: req.Taxonomy}
	if err := s.permRepo.CreateGroup(c.UserContext(), group); err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(group)
}

// AddPermissionToGroup handles POST /api/groups/:groupId/permissions/:permissionId
func (s *Server) AddPermissionToGroup(c *fiber.Ctx) error {
	groupID, err := s.parseID(c, "groupId")
	if err != nil {
		return nil
	}
	permID, err := s.parseID(c, "permissionId")
	if err != nil {
		return nil
	}
	if err := s.permRepo.AddPermissionToGroup(c.UserContext(), groupID, permID); err != nil {
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// RemovePermissionFromGroup handles DELETE /api/groups/:groupId/permissions/:permissionId
func (s *Server) RemovePermissionFromGroup(c *fiber.Ctx) error {
	groupID, err := s.parseID(c, "groupId")
	if err != nil {
		return nil
	}
	permID, err := s.parseID(c, "permissionId")
	if err != nil {
		return nil
	}
	if err := s.permRepo.RemovePermissionFromGroup(c.UserContext(), groupID, permID); err != nil {
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
