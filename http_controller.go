package auth

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
)

// AuthController exposes the signup and login operations as a JSON API for
// the outer routing layer. It owns the cookie contract: on success the
// session token is set as an HttpOnly cookie with the configured lifetime.
type AuthController struct {
	Debug  bool
	Logger Logger
	Auther Authenticator
	cfg    Config
}

type AuthControllerOption func(*AuthController) *AuthController

func WithControllerLogger(l Logger) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		if l != nil {
			c.Logger = l
		}
		return c
	}
}

func WithControllerDebug(debug bool) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Debug = debug
		return c
	}
}

// NewAuthController creates a controller over an Authenticator.
func NewAuthController(auther Authenticator, cfg Config, opts ...AuthControllerOption) *AuthController {
	c := &AuthController{
		Logger: defLogger{},
		Auther: auther,
		cfg:    cfg,
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Auther == nil {
		panic("Missing Authenticator in auth controller...")
	}

	return c
}

// RegisterAuthRoutes mounts the two auth endpoints. Fiber answers other
// methods on these paths with 405.
func RegisterAuthRoutes(app *fiber.App, controller *AuthController) {
	app.Post("/api/auth/signup", controller.SignupPost).Name("auth.signup")
	app.Post("/api/auth/login", controller.LoginPost).Name("auth.login")
}

// SignupRequest is the signup payload.
type SignupRequest struct {
	Email     string `json:"email" form:"email"`
	FirstName string `json:"firstname" form:"firstname"`
	LastName  string `json:"lastname" form:"lastname"`
	Password  string `json:"password" form:"password"`
	Birthday  string `json:"birthday" form:"birthday"`
}

// Validate will run validation rules
func (r SignupRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.FirstName, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.LastName, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Password, validation.Required),
		validation.Field(&r.Birthday, validation.Required),
	)
}

// LoginRequest is the login payload.
type LoginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// Validate will run validation rules
func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required),
	)
}

func (a *AuthController) SignupPost(ctx *fiber.Ctx) error {
	payload := new(SignupRequest)

	if err := ctx.BodyParser(payload); err != nil {
		a.Logger.Error("signup parse payload: %s", err)
		return a.renderError(ctx, NewValidationError("failed to parse request body", TextCodeMissingField, nil))
	}

	if err := payload.Validate(); err != nil {
		a.Logger.Error("signup validate payload: %s", err)
		return a.renderValidation(ctx, err)
	}

	if a.Debug {
		a.Logger.Debug("signup payload: %s", print.MaybePrettyJSON(payload))
	}

	result, err := a.Auther.Signup(ctx.Context(), SignupInput{
		Email:     payload.Email,
		FirstName: payload.FirstName,
		LastName:  payload.LastName,
		Password:  payload.Password,
		Birthday:  payload.Birthday,
	})
	if err != nil {
		return a.renderError(ctx, err)
	}

	a.setTokenCookie(ctx, result.Token)

	return ctx.Status(fiber.StatusOK).JSON(result.User)
}

func (a *AuthController) LoginPost(ctx *fiber.Ctx) error {
	payload := new(LoginRequest)

	if err := ctx.BodyParser(payload); err != nil {
		a.Logger.Error("login parse payload: %s", err)
		return a.renderError(ctx, NewValidationError("failed to parse request body", TextCodeMissingField, nil))
	}

	if err := payload.Validate(); err != nil {
		a.Logger.Error("login validate payload: %s", err)
		return a.renderValidation(ctx, err)
	}

	result, err := a.Auther.Login(ctx.Context(), payload.Email, payload.Password)
	if err != nil {
		return a.renderError(ctx, err)
	}

	a.setTokenCookie(ctx, result.Token)

	return ctx.Status(fiber.StatusOK).JSON(result.User)
}

func (a *AuthController) setTokenCookie(ctx *fiber.Ctx, token string) {
	duration := time.Duration(a.cfg.GetTokenExpiration()) * time.Hour

	ctx.Cookie(&fiber.Cookie{
		Name:     a.cfg.GetCookieName(),
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(duration),
		HTTPOnly: true,
		SameSite: "Lax",
	})
}

// errorBody is the wire shape of every failure response.
type errorBody struct {
	Message  string         `json:"message"`
	TextCode string         `json:"text_code,omitempty"`
	Fields   map[string]any `json:"fields,omitempty"`
}

func (a *AuthController) renderValidation(ctx *fiber.Ctx, err error) error {
	fields := map[string]any{}
	if verrs, ok := err.(validation.Errors); ok {
		for name, ferr := range verrs {
			fields[name] = ferr.Error()
		}
	}

	return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": errorBody{
			Message:  "invalid request payload",
			TextCode: TextCodeMissingField,
			Fields:   fields,
		},
	})
}

func (a *AuthController) renderError(ctx *fiber.Ctx, err error) error {
	var rich *errors.Error
	if !errors.As(err, &rich) {
		rich = errors.Wrap(err, errors.CategoryInternal, "An unexpected server error occurred").
			WithCode(errors.CodeInternal)
	}

	status := rich.Code
	if status < fiber.StatusBadRequest {
		status = fiber.StatusInternalServerError
	}

	if status >= fiber.StatusInternalServerError {
		a.Logger.Error("auth request failed [%s]: %s", rich.Category, rich.Message)
	}

	body := errorBody{
		Message:  rich.Message,
		TextCode: rich.TextCode,
	}
	if len(rich.Metadata) > 0 {
		body.Fields = rich.Metadata
	}

	return ctx.Status(status).JSON(fiber.Map{"error": body})
}
