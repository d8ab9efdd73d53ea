package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/lingoscene/lingoscene-api/auth"
	"github.com/lingoscene/lingoscene-api/schema"
)

var (
	idParam           = schema.Param{Name: "id", Kind: schema.PositiveInt}
	uuidParam         = schema.Param{Name: "uuid", Kind: schema.UUID}
	objectIDParam     = schema.Param{Name: "objectId", Kind: schema.PositiveInt}
	vocabularyIDParam = schema.Param{Name: "vocabularyId", Kind: schema.PositiveInt}
	themeIDQuery      = schema.Param{Name: "themeId", Kind: schema.PositiveInt, Optional: true}

	adminOnly   = []auth.Role{auth.RoleAdmin}
	anyUserRole = []auth.Role{auth.RoleUser, auth.RoleAdmin}
)

// Routes is the route table. Paths are relative to the API prefix.
func Routes(s Services, contextKey string) []Route {
	users := &userController{users: s.Users, contextKey: contextKey}
	sessions := &sessionController{sessions: s.Sessions, contextKey: contextKey}
	themes := &themeController{themes: s.Themes}
	objects := &objectController{objects: s.Objects}
	vocabulary := &vocabularyController{vocabulary: s.Vocabulary}
	progress := &progressController{progress: s.Progress, contextKey: contextKey}

	return []Route{
		{Name: "health", Method: fiber.MethodGet, Path: "/health", Handler: health},

		{Name: "users.register", Method: fiber.MethodPost, Path: "/users/register",
			Rules: schema.RuleSet{Body: schema.NewUserCreate}, Handler: users.Register},
		{Name: "users.create", Method: fiber.MethodPost, Path: "/users",
			Rules: schema.RuleSet{Body: schema.NewUserCreate}, Roles: adminOnly, Handler: users.Create},
		{Name: "users.list", Method: fiber.MethodGet, Path: "/users",
			Roles: adminOnly, Handler: users.List},
		{Name: "users.get", Method: fiber.MethodGet, Path: "/users/:uuid",
			Rules: schema.RuleSet{Params: []schema.Param{uuidParam}}, Roles: adminOnly, Handler: users.Get},
		{Name: "users.update", Method: fiber.MethodPatch, Path: "/users/:uuid",
			Rules: schema.RuleSet{Params: []schema.Param{uuidParam}, Body: schema.NewUserUpdate}, Roles: anyUserRole, Handler: users.Update},
		{Name: "users.delete", Method: fiber.MethodDelete, Path: "/users/:uuid",
			Rules: schema.RuleSet{Params: []schema.Param{uuidParam}}, Roles: adminOnly, Handler: users.Delete},

		{Name: "auth.login", Method: fiber.MethodPost, Path: "/auth/login",
			Rules: schema.RuleSet{Body: schema.NewLogin}, Handler: sessions.Login},
		{Name: "auth.profile", Method: fiber.MethodGet, Path: "/auth/profile",
			Auth: true, Handler: sessions.Profile},
		{Name: "auth.admin-only", Method: fiber.MethodGet, Path: "/auth/admin-only",
			Roles: adminOnly, Handler: sessions.AdminOnly},

		{Name: "themes.create", Method: fiber.MethodPost, Path: "/theme",
			Rules: schema.RuleSet{Body: schema.NewThemeCreate}, Roles: adminOnly, Handler: themes.Create},
		{Name: "themes.list", Method: fiber.MethodGet, Path: "/theme",
			Auth: true, Handler: themes.List},
		{Name: "themes.get", Method: fiber.MethodGet, Path: "/theme/:id",
			Rules: schema.RuleSet{Params: []schema.Param{idParam}}, Auth: true, Handler: themes.Get},
		{Name: "themes.update", Method: fiber.MethodPatch, Path: "/theme/:id",
			Rules: schema.RuleSet{Params: []schema.Param{idParam}, Body: schema.NewThemeUpdate}, Roles: adminOnly, Handler: themes.Update},
		{Name: "themes.delete", Method: fiber.MethodDelete, Path: "/theme/:id",
			Rules: schema.RuleSet{Params: []schema.Param{idParam}}, Roles: adminOnly, Handler: themes.Delete},

		{Name: "objects.list", Method: fiber.MethodGet, Path: "/objects",
			Rules: schema.RuleSet{Query: []schema.Param{themeIDQuery}}, Handler: objects.List},
		{Name: "objects.get", Method: fiber.MethodGet, Path: "/objects/:id",
			Rules: schema.RuleSet{Params: []schema.Param{idParam}}, Handler: objects.Get},
		{Name: "objects.create", Method: fiber.MethodPost, Path: "/objects",
			Rules: schema.RuleSet{Body: schema.NewObjectCreate}, Roles: adminOnly, Handler: objects.Create},
		{Name: "objects.update", Method: fiber.MethodPatch, Path: "/objects/:id",
			Rules: schema.RuleSet{Params: []schema.Param{idParam}, Body: schema.NewObjectUpdate}, Roles: adminOnly, Handler: objects.Update},
		{Name: "objects.delete", Method: fiber.MethodDelete, Path: "/objects/:id",
			Rules: schema.RuleSet{Params: []schema.Param{idParam}}, Roles: adminOnly, Handler: objects.Delete},

		{Name: "vocabulary.list", Method: fiber.MethodGet, Path: "/vocabulary/object/:objectId",
			Rules: schema.RuleSet{Params: []schema.Param{objectIDParam}}, Handler: vocabulary.List},
		{Name: "vocabulary.create", Method: fiber.MethodPost, Path: "/vocabulary/object/:objectId",
			Rules: schema.RuleSet{Params: []schema.Param{objectIDParam}, Body: schema.NewVocabularyCreate}, Roles: adminOnly, Handler: vocabulary.Create},
		{Name: "vocabulary.update", Method: fiber.MethodPatch, Path: "/vocabulary/object/:objectId/vocabulary/:id",
			Rules: schema.RuleSet{Params: []schema.Param{objectIDParam, idParam}, Body: schema.NewVocabularyUpdate}, Roles: adminOnly, Handler: vocabulary.Update},
		{Name: "vocabulary.delete", Method: fiber.MethodDelete, Path: "/vocabulary/object/:objectId/vocabulary/:id",
			Rules: schema.RuleSet{Params: []schema.Param{objectIDParam, idParam}}, Roles: adminOnly, Handler: vocabulary.Delete},
		{Name: "vocabulary.backfill", Method: fiber.MethodPost, Path: "/vocabulary/audio/backfill",
			Roles: adminOnly, Handler: vocabulary.Backfill},

		{Name: "progress.list", Method: fiber.MethodGet, Path: "/progress",
			Roles: anyUserRole, Handler: progress.List},
		{Name: "progress.record", Method: fiber.MethodPut, Path: "/progress/:vocabularyId",
			Rules: schema.RuleSet{Params: []schema.Param{vocabularyIDParam}, Body: schema.NewProgress}, Roles: anyUserRole, Handler: progress.Record},
	}
}

func health(c *fiber.Ctx, _ *schema.Result) error {
	return c.JSON(fiber.Map{"status": "ok"})
}
