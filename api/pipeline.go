package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	goerrors "github.com/goliatone/go-errors"
	"github.com/lingoscene/lingoscene-api/apierr"
	"github.com/lingoscene/lingoscene-api/auth"
	"github.com/lingoscene/lingoscene-api/schema"
)

const inputKey = "request.input"

// Handler serves a request whose input already passed its rule set.
type Handler func(c *fiber.Ctx, in *schema.Result) error

// Route declares one endpoint and the stages guarding it. Declaring Roles
// implies Auth.
type Route struct {
	Name    string
	Method  string
	Path    string
	Rules   schema.RuleSet
	Auth    bool
	Roles   []auth.Role
	Handler Handler
}

// RequiresAuth reports whether the authenticate stage runs for the route
func (r Route) RequiresAuth() bool {
	return r.Auth || len(r.Roles) > 0
}

// Pipeline turns route declarations into fiber handler chains.
type Pipeline struct {
	authenticate fiber.Handler
	contextKey   string
	routes       []Route
}

func NewPipeline(authenticate fiber.Handler, contextKey string) *Pipeline {
	if contextKey == "" {
		contextKey = auth.DefaultContextKey
	}
	return &Pipeline{
		authenticate: authenticate,
		contextKey:   contextKey,
	}
}

// Register mounts every route on r.
func (p *Pipeline) Register(r fiber.Router, routes ...Route) {
	for _, route := range routes {
		r.Add(route.Method, route.Path, p.Handlers(route)...).Name(route.Name)
		p.routes = append(p.routes, route)
	}
}

// Routes returns the registered route declarations
func (p *Pipeline) Routes() []Route {
	return p.routes
}

// Handlers returns the ordered stage chain for route.
func (p *Pipeline) Handlers(route Route) []fiber.Handler {
	handlers := []fiber.Handler{validateStage(route.Rules)}

	if route.RequiresAuth() {
		handlers = append(handlers, p.authenticate)
	}

	if len(route.Roles) > 0 {
		handlers = append(handlers, authorizeStage(route.Roles, p.contextKey))
	}

	return append(handlers, dispatch(route.Handler))
}

func validateStage(rules schema.RuleSet) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if rules.IsZero() {
			c.Locals(inputKey, &schema.Result{Params: schema.Values{}, Query: schema.Values{}})
			return c.Next()
		}

		res, err := rules.Validate(schema.Input{
			Param: func(name string) string { return utils.CopyString(c.Params(name)) },
			Query: func(name string) string { return utils.CopyString(c.Query(name)) },
			Body:  c.Body(),
		})
		if err != nil {
			return err
		}

		c.Locals(inputKey, res)
		return c.Next()
	}
}

func authorizeStage(roles []auth.Role, contextKey string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, _ := auth.GetFiberClaims(c, contextKey)
		if err := auth.Authorize(claims, roles); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryAuthz, apierr.ForbiddenMessage).
				WithTextCode("FORBIDDEN")
		}
		return c.Next()
	}
}

func dispatch(h Handler) fiber.Handler {
	return func(c *fiber.Ctx) error {
		in, ok := c.Locals(inputKey).(*schema.Result)
		if !ok || in == nil {
			in = &schema.Result{Params: schema.Values{}, Query: schema.Values{}}
		}
		return h(c, in)
	}
}
