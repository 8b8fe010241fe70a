package server

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"atrium/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAdminHandler(t *testing.T) {
	db := setupHandlerTestDB(t)
	s := newTestServer(t, db)

	super := createTestAdmin(t, db, "root", true)
	manager := createTestAdmin(t, db, "manager", false)
	grantTestPermission(t, db, manager, models.TaxonomyStandard, PermAdminsManage)

	actor := super.ID
	app := newTestApp(func() uint { return actor })
	app.Post("/admins", s.PermissionRequired(PermAdminsManage), s.CreateAdmin)

	post := func(body string) *http.Response {
		req := httptest.NewRequest(http.MethodPost, "/admins", bytes.NewReader([]byte(body)))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		require.NoError(t, err)
		return resp
	}

	t.Run("create regular admin", func(t *testing.T) {
		resp := post(`{"username":"NewMod","email":"mod@Example.COM","password":"Str0ng&Secure!pass"}`)
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		var created models.Admin
		decodeBody(t, resp, &created)
		assert.Equal(t, "newmod", created.Username)
		assert.Equal(t, "mod@example.com", created.Email)
		assert.False(t, created.IsSuperuser)
	})

	t.Run("weak password rejected", func(t *testing.T) {
		resp := post(`{"username":"weakpw","password":"short"}`)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("empty username rejected", func(t *testing.T) {
		resp := post(`{"username":"   ","password":"Str0ng&Secure!pass"}`)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("superuser created by superuser", func(t *testing.T) {
		resp := post(`{"username":"root_two","password":"Str0ng&Secure!pass","is_superuser":true}`)
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		var created models.Admin
		decodeBody(t, resp, &created)
		assert.True(t, created.IsSuperuser)
	})

	t.Run("superuser creation denied for non-superuser", func(t *testing.T) {
		actor = manager.ID
		defer func() { actor = super.ID }()

		resp := post(`{"username":"sneaky","password":"Str0ng&Secure!pass","is_superuser":true}`)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)

		var count int64
		require.NoError(t, db.Model(&models.Admin{}).Where("username = ?", "sneaky").Count(&count).Error)
		assert.Zero(t, count)
	})
}

func TestPermissionRequiredGate(t *testing.T) {
	db := setupHandlerTestDB(t)
	s := newTestServer(t, db)

	granted := createTestAdmin(t, db, "granted", false)
	grantTestPermission(t, db, granted, models.TaxonomyStandard, PermAdminsManage)
	denied := createTestAdmin(t, db, "denied", false)
	inactiveSuper := createTestAdmin(t, db, "oldroot", true)
	inactiveSuper.IsActive = false
	require.NoError(t, db.Save(inactiveSuper).Error)

	actor := granted.ID
	app := newTestApp(func() uint { return actor })
	app.Get("/admins", s.PermissionRequired(PermAdminsManage), s.ListAdmins)

	get := func() *http.Response {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/admins", nil))
		require.NoError(t, err)
		return resp
	}

	t.Run("granted admin passes", func(t *testing.T) {
		resp := get()
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("admin without grant is forbidden", func(t *testing.T) {
		actor = denied.ID
		resp := get()
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("inactive superuser does not bypass", func(t *testing.T) {
		actor = inactiveSuper.ID
		resp := get()
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})
}

func TestMyPermissionsHandlers(t *testing.T) {
	db := setupHandlerTestDB(t)
	s := newTestServer(t, db)

	admin := createTestAdmin(t, db, "mixed", false)
	grantTestPermission(t, db, admin, models.TaxonomyStandard, "customers.block")
	grantTestPermission(t, db, admin, models.TaxonomyDeveloper, "migrations.run")

	// rooms.manage arrives through a group, not a direct grant.
	group := &models.Group{Name: "Moderators", Taxonomy: models.TaxonomyStandard}
	require.NoError(t, db.Create(group).Error)
	perm := &models.Permission{Codename: "rooms.manage", Taxonomy: models.TaxonomyStandard}
	require.NoError(t, db.Create(perm).Error)
	require.NoError(t, db.Model(group).Association("Permissions").Append(perm))
	require.NoError(t, db.Model(admin).Association("Groups").Append(group))

	app := newTestApp(func() uint { return admin.ID })
	app.Get("/admins/me/permissions", s.GetMyPermissions)
	app.Get("/admins/me/permissions/check", s.CheckMyPermission)

	t.Run("standard taxonomy is the default", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/admins/me/permissions", nil))
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var body struct {
			Taxonomy    string   `json:"taxonomy"`
			Permissions []string `json:"permissions"`
		}
		decodeBody(t, resp, &body)
		assert.Equal(t, "standard", body.Taxonomy)
		assert.Equal(t, []string{"customers.block", "rooms.manage"}, body.Permissions)
	})

	t.Run("developer taxonomy enumerates separately", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/admins/me/permissions?taxonomy=developer", nil))
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var body struct {
			Permissions []string `json:"permissions"`
		}
		decodeBody(t, resp, &body)
		assert.Equal(t, []string{"migrations.run"}, body.Permissions)
	})

	t.Run("unknown taxonomy rejected", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/admins/me/permissions?taxonomy=bogus", nil))
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("check reports allow and deny", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/admins/me/permissions/check?codename=rooms.manage", nil))
		require.NoError(t, err)
		var body struct {
			Allowed bool `json:"allowed"`
		}
		decodeBody(t, resp, &body)
		assert.True(t, body.Allowed)

		resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/admins/me/permissions/check?codename=admins.manage", nil))
		require.NoError(t, err)
		decodeBody(t, resp, &body)
		assert.False(t, body.Allowed)
	})

	t.Run("check requires codename", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/admins/me/permissions/check", nil))
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestGrantHandlers(t *testing.T) {
	db := setupHandlerTestDB(t)
	s := newTestServer(t, db)

	super := createTestAdmin(t, db, "root", true)
	target := createTestAdmin(t, db, "target", false)

	perm := &models.Permission{Codename: "customers.block", Taxonomy: models.TaxonomyStandard}
	require.NoError(t, db.Create(perm).Error)
	group := &models.Group{Name: "Moderators", Taxonomy: models.TaxonomyStandard}
	require.NoError(t, db.Create(group).Error)

	app := newTestApp(func() uint { return super.ID })
	app.Post("/admins/:id/permissions/:permissionId", s.GrantPermission)
	app.Delete("/admins/:id/permissions/:permissionId", s.RevokePermission)
	app.Post("/admins/:id/groups/:groupId", s.AddAdminToGroup)
	app.Delete("/admins/:id/groups/:groupId", s.RemoveAdminFromGroup)

	do := func(method, path string) *http.Response {
		resp, err := app.Test(httptest.NewRequest(method, path, nil))
		require.NoError(t, err)
		return resp
	}

	t.Run("grant then revoke direct permission", func(t *testing.T) {
		resp := do(http.MethodPost, "/admins/2/permissions/1")
		defer func() { _ = resp.Body.Close() }()
		require.Equal(t, http.StatusNoContent, resp.StatusCode)

		count := db.Model(target).Association("Permissions").Count()
		assert.Equal(t, int64(1), count)

		resp = do(http.MethodDelete, "/admins/2/permissions/1")
		defer func() { _ = resp.Body.Close() }()
		require.Equal(t, http.StatusNoContent, resp.StatusCode)
		assert.Zero(t, db.Model(target).Association("Permissions").Count())
	})

	t.Run("group membership round trip", func(t *testing.T) {
		resp := do(http.MethodPost, "/admins/2/groups/1")
		defer func() { _ = resp.Body.Close() }()
		require.Equal(t, http.StatusNoContent, resp.StatusCode)
		assert.Equal(t, int64(1), db.Model(target).Association("Groups").Count())

		resp = do(http.MethodDelete, "/admins/2/groups/1")
		defer func() { _ = resp.Body.Close() }()
		require.Equal(t, http.StatusNoContent, resp.StatusCode)
		assert.Zero(t, db.Model(target).Association("Groups").Count())
	})

	t.Run("grant to unknown admin fails", func(t *testing.T) {
		resp := do(http.MethodPost, "/admins/999/permissions/1")
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("invalid id rejected", func(t *testing.T) {
		resp := do(http.MethodPost, "/admins/abc/permissions/1")
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestPermissionCatalogHandlers(t *testing.T) {
	db := setupHandlerTestDB(t)
	s := newTestServer(t, db)

	super := createTestAdmin(t, db, "root", true)
	app := newTestApp(func() uint { return super.ID })
	app.Post("/permissions", s.CreatePermission)
	app.Get("/permissions", s.ListPermissions)
	app.Post("/groups", s.CreateGroup)
	app.Post("/groups/:groupId/permissions/:permissionId", s.AddPermissionToGroup)

	post := func(path, body string) *http.Response {
		req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader([]byte(body)))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		require.NoError(t, err)
		return resp
	}

	t.Run("create permission defaults to standard", func(t *testing.T) {
		resp := post("/permissions", `{"codename":"reports.view"}`)
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		var created models.Permission
		decodeBody(t, resp, &created)
		assert.Equal(t, models.TaxonomyStandard, created.Taxonomy)
	})

	t.Run("bad codename rejected", func(t *testing.T) {
		resp := post("/permissions", `{"codename":"Bad Codename!"}`)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("unknown taxonomy rejected", func(t *testing.T) {
		resp := post("/permissions", `{"codename":"reports.edit","taxonomy":"bogus"}`)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("cross-taxonomy group attach rejected", func(t *testing.T) {
		resp := post("/groups", `{"name":"Platform Engineers","taxonomy":"developer"}`)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		var group models.Group
		decodeBody(t, resp, &group)

		// reports.view lives in the standard taxonomy.
		var perm models.Permission
		require.NoError(t, db.Where("codename = ?", "reports.view").First(&perm).Error)

		resp = post(fmt.Sprintf("/groups/%d/permissions/%d", group.ID, perm.ID), "")
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("list filters by taxonomy", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/permissions?taxonomy=developer", nil))
		require.NoError(t, err)
		var body struct {
			Permissions []models.Permission `json:"permissions"`
		}
		decodeBody(t, resp, &body)
		assert.Empty(t, body.Permissions)
	})
}
