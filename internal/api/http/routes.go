package httpapi

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/weathernow/internal/store"
	"github.com/i474232898/weathernow/internal/weather"
)

var validate = validator.New()

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, sessions *store.SessionStore) {
	v1 := app.Group("/api/v1")

	v1.Post("/sessions", func(c *fiber.Ctx) error {
		id, l := sessions.Create()
		return c.Status(fiber.StatusCreated).JSON(newSessionView(id, l.State()))
	})

	v1.Get("/sessions/:id", func(c *fiber.Ctx) error {
		id, l, err := lookupFor(c, sessions)
		if err != nil {
			return err
		}
		return c.JSON(newSessionView(id, l.State()))
	})

	v1.Delete("/sessions/:id", func(c *fiber.Ctx) error {
		id, err := parseSessionID(c)
		if err != nil {
			return err
		}
		if err := sessions.Delete(id); err != nil {
			return sessionError(err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	v1.Put("/sessions/:id/query", func(c *fiber.Ctx) error {
		id, l, err := lookupFor(c, sessions)
		if err != nil {
			return err
		}

		var req queryRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if req.Query == nil {
			return fiber.NewError(fiber.StatusBadRequest, "query is required")
		}

		l.SetQuery(*req.Query)
		return c.JSON(newSessionView(id, l.State()))
	})

	v1.Post("/sessions/:id/weather", func(c *fiber.Ctx) error {
		id, l, err := lookupFor(c, sessions)
		if err != nil {
			return err
		}

		query := l.Query()
		if len(c.Body()) > 0 {
			var req queryRequest
			if err := c.BodyParser(&req); err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
			}
			if req.Query != nil {
				query = *req.Query
			}
		}

		fetchErr := l.FetchWeather(c.UserContext(), query)
		return c.Status(fetchStatus(fetchErr)).JSON(newSessionView(id, l.State()))
	})

	v1.Post("/sessions/:id/units/toggle", func(c *fiber.Ctx) error {
		id, l, err := lookupFor(c, sessions)
		if err != nil {
			return err
		}
		l.ToggleUnits()
		return c.JSON(newSessionView(id, l.State()))
	})

	v1.Post("/sessions/:id/theme/toggle", func(c *fiber.Ctx) error {
		id, l, err := lookupFor(c, sessions)
		if err != nil {
			return err
		}
		l.ToggleTheme()
		return c.JSON(newSessionView(id, l.State()))
	})
}

// queryRequest is the body of the query and weather endpoints.
// A nil Query means the field was absent.
type queryRequest struct {
	Query *string `json:"query"`
}

// sessionParam holds the path parameter identifying a session.
type sessionParam struct {
	ID string `validate:"required,uuid4"`
}

func parseSessionID(c *fiber.Ctx) (string, error) {
	p := sessionParam{ID: c.Params("id")}
	if err := validate.Struct(p); err != nil {
		return "", fiber.NewError(fiber.StatusBadRequest, "invalid session id")
	}
	return p.ID, nil
}

func lookupFor(c *fiber.Ctx, sessions *store.SessionStore) (string, *weather.Lookup, error) {
	id, err := parseSessionID(c)
	if err != nil {
		return "", nil, err
	}
	l, err := sessions.Get(id)
	if err != nil {
		return "", nil, sessionError(err)
	}
	return id, l, nil
}

func sessionError(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "session not found")
	}
	return fiber.NewError(fiber.StatusInternalServerError, "failed to load session")
}

// fetchStatus maps a FetchWeather outcome to the response status.
// The body is the session view in every case.
func fetchStatus(err error) int {
	switch {
	case err == nil:
		return fiber.StatusOK
	case errors.Is(err, weather.ErrEmptyQuery):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, weather.ErrStaleResponse):
		return fiber.StatusConflict
	default:
		return fiber.StatusNotFound
	}
}
