package api

import (
	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"github.com/lingoscene/lingoscene-api/auth"
	"github.com/lingoscene/lingoscene-api/schema"
	"github.com/lingoscene/lingoscene-api/service"
)

func created(c *fiber.Ctx, v any) error {
	return c.Status(fiber.StatusCreated).JSON(v)
}

// body returns the validated payload as T. A mismatch means the route
// table wires the wrong rule set.
func body[T any](in *schema.Result) (T, error) {
	payload, ok := in.Body.(T)
	if !ok {
		var zero T
		return zero, goerrors.New("unexpected request payload", goerrors.CategoryInternal)
	}
	return payload, nil
}

func claims(c *fiber.Ctx, key string) (auth.AuthClaims, error) {
	cl, ok := auth.GetFiberClaims(c, key)
	if !ok {
		return nil, goerrors.Wrap(auth.ErrTokenMissing, goerrors.CategoryAuth, UnauthorizedMessage)
	}
	return cl, nil
}

type userController struct {
	users      *service.Users
	contextKey string
}

func (u *userController) Register(c *fiber.Ctx, in *schema.Result) error {
	p, err := body[*schema.User](in)
	if err != nil {
		return err
	}
	user, err := u.users.Register(c.UserContext(), p)
	if err != nil {
		return err
	}
	return created(c, user)
}

func (u *userController) Create(c *fiber.Ctx, in *schema.Result) error {
	p, err := body[*schema.User](in)
	if err != nil {
		return err
	}
	user, err := u.users.Create(c.UserContext(), p)
	if err != nil {
		return err
	}
	return created(c, user)
}

func (u *userController) List(c *fiber.Ctx, _ *schema.Result) error {
	users, err := u.users.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(users)
}

func (u *userController) Get(c *fiber.Ctx, in *schema.Result) error {
	user, err := u.users.Get(c.UserContext(), in.Params.UUID("uuid"))
	if err != nil {
		return err
	}
	return c.JSON(user)
}

func (u *userController) Update(c *fiber.Ctx, in *schema.Result) error {
	p, err := body[*schema.User](in)
	if err != nil {
		return err
	}
	actor, err := claims(c, u.contextKey)
	if err != nil {
		return err
	}
	user, err := u.users.Update(c.UserContext(), actor, in.Params.UUID("uuid"), p)
	if err != nil {
		return err
	}
	return c.JSON(user)
}

func (u *userController) Delete(c *fiber.Ctx, in *schema.Result) error {
	user, err := u.users.Delete(c.UserContext(), in.Params.UUID("uuid"))
	if err != nil {
		return err
	}
	return c.JSON(user)
}

type sessionController struct {
	sessions   *service.Sessions
	contextKey string
}

func (s *sessionController) Login(c *fiber.Ctx, in *schema.Result) error {
	p, err := body[*schema.Login](in)
	if err != nil {
		return err
	}
	res, err := s.sessions.Login(c.UserContext(), p)
	if err != nil {
		return err
	}
	return c.JSON(res)
}

func (s *sessionController) Profile(c *fiber.Ctx, _ *schema.Result) error {
	cl, err := claims(c, s.contextKey)
	if err != nil {
		return err
	}
	return c.JSON(service.ProfileFromClaims(cl))
}

func (s *sessionController) AdminOnly(c *fiber.Ctx, _ *schema.Result) error {
	return c.JSON(fiber.Map{"message": "Admin access granted"})
}

type themeController struct {
	themes *service.Themes
}

func (t *themeController) Create(c *fiber.Ctx, in *schema.Result) error {
	p, err := body[*schema.Theme](in)
	if err != nil {
		return err
	}
	theme, err := t.themes.Create(c.UserContext(), p)
	if err != nil {
		return err
	}
	return created(c, theme)
}

func (t *themeController) List(c *fiber.Ctx, _ *schema.Result) error {
	themes, err := t.themes.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(themes)
}

func (t *themeController) Get(c *fiber.Ctx, in *schema.Result) error {
	theme, err := t.themes.Get(c.UserContext(), in.Params.Int("id"))
	if err != nil {
		return err
	}
	return c.JSON(theme)
}

func (t *themeController) Update(c *fiber.Ctx, in *schema.Result) error {
	p, err := body[*schema.Theme](in)
	if err != nil {
		return err
	}
	theme, err := t.themes.Update(c.UserContext(), in.Params.Int("id"), p)
	if err != nil {
		return err
	}
	return c.JSON(theme)
}

func (t *themeController) Delete(c *fiber.Ctx, in *schema.Result) error {
	theme, err := t.themes.Delete(c.UserContext(), in.Params.Int("id"))
	if err != nil {
		return err
	}
	return c.JSON(theme)
}

type objectController struct {
	objects *service.Objects
}

func (o *objectController) List(c *fiber.Ctx, in *schema.Result) error {
	objects, err := o.objects.List(c.UserContext(), in.Query.IntPtr("themeId"))
	if err != nil {
		return err
	}
	return c.JSON(objects)
}

func (o *objectController) Get(c *fiber.Ctx, in *schema.Result) error {
	object, err := o.objects.Get(c.UserContext(), in.Params.Int("id"))
	if err != nil {
		return err
	}
	return c.JSON(object)
}

func (o *objectController) Create(c *fiber.Ctx, in *schema.Result) error {
	p, err := body[*schema.Object](in)
	if err != nil {
		return err
	}
	object, err := o.objects.Create(c.UserContext(), p)
	if err != nil {
		return err
	}
	return created(c, object)
}

func (o *objectController) Update(c *fiber.Ctx, in *schema.Result) error {
	p, err := body[*schema.Object](in)
	if err != nil {
		return err
	}
	object, err := o.objects.Update(c.UserContext(), in.Params.Int("id"), p)
	if err != nil {
		return err
	}
	return c.JSON(object)
}

func (o *objectController) Delete(c *fiber.Ctx, in *schema.Result) error {
	object, err := o.objects.Delete(c.UserContext(), in.Params.Int("id"))
	if err != nil {
		return err
	}
	return c.JSON(object)
}

type vocabularyController struct {
	vocabulary *service.Vocabulary
}

func (v *vocabularyController) List(c *fiber.Ctx, in *schema.Result) error {
	items, err := v.vocabulary.ListByObject(c.UserContext(), in.Params.Int("objectId"))
	if err != nil {
		return err
	}
	return c.JSON(items)
}

func (v *vocabularyController) Create(c *fiber.Ctx, in *schema.Result) error {
	p, err := body[*schema.Vocabulary](in)
	if err != nil {
		return err
	}
	item, err := v.vocabulary.Create(c.UserContext(), in.Params.Int("objectId"), p)
	if err != nil {
		return err
	}
	return created(c, item)
}

func (v *vocabularyController) Update(c *fiber.Ctx, in *schema.Result) error {
	p, err := body[*schema.Vocabulary](in)
	if err != nil {
		return err
	}
	item, err := v.vocabulary.Update(c.UserContext(), in.Params.Int("objectId"), in.Params.Int("id"), p)
	if err != nil {
		return err
	}
	return c.JSON(item)
}

func (v *vocabularyController) Delete(c *fiber.Ctx, in *schema.Result) error {
	item, err := v.vocabulary.Delete(c.UserContext(), in.Params.Int("objectId"), in.Params.Int("id"))
	if err != nil {
		return err
	}
	return c.JSON(item)
}

func (v *vocabularyController) Backfill(c *fiber.Ctx, _ *schema.Result) error {
	n, err := v.vocabulary.BackfillAudio(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"updated": n})
}

type progressController struct {
	progress   *service.Progress
	contextKey string
}

func (p *progressController) List(c *fiber.Ctx, _ *schema.Result) error {
	userID, err := p.caller(c)
	if err != nil {
		return err
	}
	entries, err := p.progress.List(c.UserContext(), userID)
	if err != nil {
		return err
	}
	return c.JSON(entries)
}

func (p *progressController) Record(c *fiber.Ctx, in *schema.Result) error {
	payload, err := body[*schema.Progress](in)
	if err != nil {
		return err
	}
	userID, err := p.caller(c)
	if err != nil {
		return err
	}
	entry, err := p.progress.Record(c.UserContext(), userID, in.Params.Int("vocabularyId"), payload)
	if err != nil {
		return err
	}
	return c.JSON(entry)
}

func (p *progressController) caller(c *fiber.Ctx) (uuid.UUID, error) {
	cl, err := claims(c, p.contextKey)
	if err != nil {
		return uuid.Nil, err
	}
	id, err := uuid.Parse(cl.UserID())
	if err != nil {
		return uuid.Nil, goerrors.Wrap(err, goerrors.CategoryAuth, UnauthorizedMessage)
	}
	return id, nil
}
