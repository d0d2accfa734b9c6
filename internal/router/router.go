package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	errs "authbase/internal/errors"
	"authbase/internal/handler"
	"authbase/internal/service"
)

// Register wires routes and middleware.
func Register(e *echo.Echo, userHandler *handler.UserHandler, sessions service.SessionService) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	users := e.Group("/users")

	// Public routes
	users.POST("/signup", userHandler.SignUp)
	users.POST("/login", userHandler.Login)
	users.GET("/logout", userHandler.Logout)

	// Session-gated routes. The guard verifies the cookie token through
	// the session service, which is the single verification path, and
	// stashes the resulting profile in the request context.
	sessionGuard := echojwt.WithConfig(echojwt.Config{
		TokenLookup: "cookie:" + handler.SessionCookieName,
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			return sessions.Identify(c.Request().Context(), token)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			// Absent cookie, expired or tampered token, vanished user:
			// to the client these are all the same authentication failure.
			he := errs.MapToHTTP(errs.ErrUnauthenticated)
			return c.JSON(he.StatusCode, he.ToErrorResponse())
		},
	})
	users.GET("/me", userHandler.Me, sessionGuard)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
