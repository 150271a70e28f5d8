package identity

import (
	"fmt"
	"net/url"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-router"
)

// RegisterIdentityRoutes mounts the identity endpoints on app.
func RegisterIdentityRoutes[T any](app router.Router[T], opts ...IdentityControllerOption) {
	controller := NewIdentityController(opts...)

	app.Post(controller.Routes.Signup, controller.SignupPost).
		SetName("identity.signup")

	app.Post(controller.Routes.Confirm, controller.ConfirmPost).
		SetName("identity.confirm")

	app.Post(controller.Routes.Login, controller.LoginPost).
		SetName("identity.login")

	app.Post(controller.Routes.Forgot, controller.ForgotPost).
		SetName("identity.forgot")

	app.Post(controller.Routes.Reset, controller.ResetPost).
		SetName("identity.reset")

	app.Get(fmt.Sprintf("%s/:provider/callback", controller.Routes.Federation), controller.FederationCallback).
		SetName("identity.federation.callback")

	app.Get(fmt.Sprintf("%s/:provider", controller.Routes.Federation), controller.FederationStart).
		SetName("identity.federation.start")

	app.Get(controller.Routes.Me, controller.MeGet).
		SetName("identity.me")
}

type IdentityControllerRoutes struct {
	Signup     string
	Confirm    string
	Login      string
	Forgot     string
	Reset      string
	Federation string
	Me         string
}

type IdentityController struct {
	Debug    bool
	Logger   Logger
	Repo     RepositoryManager
	Auther   *Auther
	Notifier Notifier
	Config   Config
	Routes   *IdentityControllerRoutes
}

type IdentityControllerOption func(*IdentityController) *IdentityController

func NewIdentityController(opts ...IdentityControllerOption) *IdentityController {
	c := &IdentityController{
		Logger: defLogger{},
		Routes: &IdentityControllerRoutes{
			Signup:     "/signup",
			Confirm:    "/confirm-email",
			Login:      "/login",
			Forgot:     "/forgot-password",
			Reset:      "/reset-password",
			Federation: "/federation",
			Me:         "/me",
		},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Repo == nil {
		panic("Missing RepositoryManager in identity controller...")
	}

	if c.Auther == nil {
		panic("Missing Authenticator in identity controller...")
	}

	if c.Config == nil {
		panic("Missing Config in identity controller...")
	}

	if c.Notifier == nil {
		c.Notifier = LogNotifier{}
	}

	return c
}

// SignupPayload is the registration body
type SignupPayload struct {
	Email       string `form:"email" json:"email"`
	Password    string `form:"password" json:"password"`
	DisplayName string `form:"display_name" json:"display_name"`
}

// Validate will run validation rules
func (r SignupPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, validation.Length(6, 100), is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(8, 100)),
		validation.Field(&r.DisplayName, validation.Length(0, 200)),
	)
}

func (a *IdentityController) SignupPost(ctx router.Context) error {
	payload := new(SignupPayload)

	if err := ctx.Bind(payload); err != nil {
		a.Logger.Error("signup parse payload: %v", err)
		return a.badPayload(ctx, err)
	}

	if err := payload.Validate(); err != nil {
		return a.invalidPayload(ctx, err)
	}

	if a.Debug {
		fmt.Println("======= IDENTITY SIGNUP ======")
		fmt.Println(print.MaybePrettyJSON(payload))
		fmt.Println("==============================")
	}

	var res *SignupResponse

	msg := SignupMessage{
		Email:       payload.Email,
		Password:    payload.Password,
		DisplayName: payload.DisplayName,
		OnResponse: func(resp *SignupResponse) {
			res = resp
		},
	}

	handler := NewSignupHandler(a.Repo, a.Notifier, a.Config).WithLogger(a.Logger)
	if err := handler.Execute(ctx.Context(), msg); err != nil {
		a.Logger.Error("signup error: %v", err)
		return WriteError(ctx, err)
	}

	return ctx.JSON(router.StatusCreated, map[string]any{
		"ok":    true,
		"email": res.Email,
	})
}

// ConfirmPayload carries the emailed confirmation token
type ConfirmPayload struct {
	Token string `form:"token" json:"token"`
}

// Validate will run validation rules
func (r ConfirmPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Token, validation.Required),
	)
}

func (a *IdentityController) ConfirmPost(ctx router.Context) error {
	payload := new(ConfirmPayload)

	if err := ctx.Bind(payload); err != nil {
		a.Logger.Error("confirm parse payload: %v", err)
		return a.badPayload(ctx, err)
	}

	if err := payload.Validate(); err != nil {
		return a.invalidPayload(ctx, err)
	}

	var session *SessionTokens

	msg := ConfirmSignupMessage{
		Token: payload.Token,
		OnResponse: func(resp *SessionTokens) {
			session = resp
		},
	}

	handler := NewConfirmSignupHandler(a.Repo, a.Auther.TokenService()).WithLogger(a.Logger)
	if err := handler.Execute(ctx.Context(), msg); err != nil {
		a.Logger.Error("confirm error: %v", err)
		return WriteError(ctx, err)
	}

	return ctx.JSON(router.StatusOK, session)
}

// LoginPayload is the credential body
type LoginPayload struct {
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
}

// Validate will run validation rules
func (r LoginPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required),
	)
}

func (a *IdentityController) LoginPost(ctx router.Context) error {
	payload := new(LoginPayload)

	if err := ctx.Bind(payload); err != nil {
		a.Logger.Error("login parse payload: %v", err)
		return a.badPayload(ctx, err)
	}

	if err := payload.Validate(); err != nil {
		return a.invalidPayload(ctx, err)
	}

	session, err := a.Auther.Login(ctx.Context(), payload.Email, payload.Password)
	if err != nil {
		return WriteError(ctx, err)
	}

	return ctx.JSON(router.StatusOK, session)
}

// ForgotPayload starts a password reset
type ForgotPayload struct {
	Email string `form:"email" json:"email"`
}

// Validate will run validation rules
func (r ForgotPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
	)
}

func (a *IdentityController) ForgotPost(ctx router.Context) error {
	payload := new(ForgotPayload)

	if err := ctx.Bind(payload); err != nil {
		a.Logger.Error("forgot parse payload: %v", err)
		return a.badPayload(ctx, err)
	}

	if err := payload.Validate(); err != nil {
		return a.invalidPayload(ctx, err)
	}

	var res *InitializePasswordResetResponse

	msg := InitializePasswordResetMessage{
		Email: payload.Email,
		OnResponse: func(resp *InitializePasswordResetResponse) {
			res = resp
		},
	}

	handler := NewInitializePasswordResetHandler(a.Repo, a.Notifier, a.Config).WithLogger(a.Logger)
	if err := handler.Execute(ctx.Context(), msg); err != nil {
		a.Logger.Error("forgot error: %v", err)
		return WriteError(ctx, err)
	}

	return ctx.JSON(router.StatusOK, res)
}

// ResetPayload finalizes a password reset
type ResetPayload struct {
	Token    string `form:"token" json:"token"`
	Password string `form:"password" json:"password"`
}

// Validate will run validation rules
func (r ResetPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Token, validation.Required),
		validation.Field(&r.Password, validation.Required, validation.Length(8, 100)),
	)
}

func (a *IdentityController) ResetPost(ctx router.Context) error {
	payload := new(ResetPayload)

	if err := ctx.Bind(payload); err != nil {
		a.Logger.Error("reset parse payload: %v", err)
		return a.badPayload(ctx, err)
	}

	if err := payload.Validate(); err != nil {
		return a.invalidPayload(ctx, err)
	}

	msg := FinalizePasswordResetMessage{
		Token:    payload.Token,
		Password: payload.Password,
	}

	handler := NewFinalizePasswordResetHandler(a.Repo).WithLogger(a.Logger)
	if err := handler.Execute(ctx.Context(), msg); err != nil {
		a.Logger.Error("reset error: %v", err)
		return WriteError(ctx, err)
	}

	return ctx.JSON(router.StatusOK, map[string]bool{"ok": true})
}

// FederationStart hands the browser to the named external provider.
func (a *IdentityController) FederationStart(ctx router.Context) error {
	providerName := ctx.Param("provider")

	provider, ok := a.Auther.Provider(providerName)
	if !ok {
		return WriteError(ctx, ErrNotFound)
	}

	state := ctx.Query("state")

	return ctx.Redirect(provider.AuthCodeURL(state), router.StatusTemporaryRedirect)
}

// FederationCallback completes the provider round trip and redirects to the
// frontend with the issued tokens in the fragment-free query string.
func (a *IdentityController) FederationCallback(ctx router.Context) error {
	providerName := ctx.Param("provider")

	if errCode := ctx.Query("error"); errCode != "" {
		return ctx.Redirect(
			appendQueryParam(a.frontendCallbackURL(), "error", errCode),
			router.StatusTemporaryRedirect,
		)
	}

	code := ctx.Query("code")
	if code == "" {
		return WriteError(ctx, ErrFederationFailed)
	}

	session, err := a.Auther.FederatedLogin(ctx.Context(), providerName, code)
	if err != nil {
		a.Logger.Error("federation callback error: %v", err)
		return WriteError(ctx, err)
	}

	redirect := appendQueryParam(a.frontendCallbackURL(), "access_token", session.AccessToken)
	redirect = appendQueryParam(redirect, "refresh_token", session.RefreshToken)

	return ctx.Redirect(redirect, router.StatusTemporaryRedirect)
}

// MeGet resolves the bearer token to the current account.
func (a *IdentityController) MeGet(ctx router.Context) error {
	raw := bearerToken(ctx.Header("Authorization"))
	if raw == "" {
		return WriteError(ctx, ErrUnauthorized)
	}

	current, err := a.Auther.CurrentUser(ctx.Context(), raw)
	if err != nil {
		return WriteError(ctx, err)
	}

	return ctx.JSON(router.StatusOK, current)
}

func (a *IdentityController) frontendCallbackURL() string {
	return strings.TrimSuffix(a.Config.GetFrontendBaseURL(), "/") + "/auth/callback"
}

func (a *IdentityController) badPayload(ctx router.Context, err error) error {
	return ctx.JSON(router.StatusBadRequest, map[string]string{
		"error": "failed to parse request body",
	})
}

func (a *IdentityController) invalidPayload(ctx router.Context, err error) error {
	return ctx.JSON(router.StatusBadRequest, map[string]any{
		"error":  "validation failed",
		"fields": err,
	})
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}

func appendQueryParam(rawURL, key, value string) string {
	if rawURL == "" {
		return ""
	}

	parsed, err := url.Parse(rawURL)
	if err == nil {
		query := parsed.Query()
		query.Set(key, value)
		parsed.RawQuery = query.Encode()
		return parsed.String()
	}

	sep := "?"
	if strings.Contains(rawURL, "?") {
		sep = "&"
	}
	return rawURL + sep + url.QueryEscape(key) + "=" + url.QueryEscape(value)
}
