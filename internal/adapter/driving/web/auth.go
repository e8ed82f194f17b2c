package web

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/ericfisherdev/blogpanel/internal/adapter/driving/web/templates/pages"
	vm "github.com/ericfisherdev/blogpanel/internal/adapter/driving/web/viewmodel"
	"github.com/ericfisherdev/blogpanel/internal/application"
	"github.com/ericfisherdev/blogpanel/internal/domain/model"
)

const (
	msgResetFailed      = "An error occurred."
	msgPasswordMismatch = "Passwords do not match."
)

// LoginPage renders the sign-in form.
func (h *Handler) LoginPage(w http.ResponseWriter, r *http.Request, cs *application.ClientSession) {
	if cs.Store.IsAuthenticated() {
		seeOther(w, r, "/dashboard")
		return
	}
	h.render(w, r, cs, "Login", http.StatusOK, pages.Login(""))
}

// Login signs the session in under a fresh session id and redirects home. A
// rejected login re-renders the form with the session's notification.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request, cs *application.ClientSession) {
	creds := model.Credentials{
		Username: strings.TrimSpace(r.PostFormValue("username")),
		Password: r.PostFormValue("password"),
	}

	if err := cs.Store.Login(r.Context(), creds); err != nil {
		h.logger.Info("login rejected", "username", creds.Username, "error", err)
		h.render(w, r, cs, "Login", http.StatusUnprocessableEntity, pages.Login(creds.Username))
		return
	}
	h.rotateSession(w, r, cs)
	seeOther(w, r, "/dashboard")
}

// RegisterPage renders the sign-up form.
func (h *Handler) RegisterPage(w http.ResponseWriter, r *http.Request, cs *application.ClientSession) {
	h.render(w, r, cs, "Register", http.StatusOK, pages.Register())
}

// Register creates an account and sends the user to the login page.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request, cs *application.ClientSession) {
	picture, err := formUpload(r, "profile_picture")
	if err != nil {
		h.logger.Warn("reading registration upload failed", "error", err)
		notify(r.Context(), cs, model.NotificationError, application.MsgRegistrationFailed+"!")
		seeOther(w, r, "/register")
		return
	}

	reg := model.Registration{
		Username:       strings.TrimSpace(r.PostFormValue("username")),
		Email:          strings.TrimSpace(r.PostFormValue("email")),
		Password:       r.PostFormValue("password"),
		DateOfBirth:    strings.TrimSpace(r.PostFormValue("date_of_birth")),
		Bio:            strings.TrimSpace(r.PostFormValue("bio")),
		ProfilePicture: picture,
	}

	if err := cs.Store.Register(r.Context(), reg); err != nil {
		h.logger.Info("registration rejected", "username", reg.Username, "error", err)
		seeOther(w, r, "/register")
		return
	}
	seeOther(w, r, "/login")
}

// LogoutPage asks for confirmation; signing out always goes through POST.
func (h *Handler) LogoutPage(w http.ResponseWriter, r *http.Request, cs *application.ClientSession) {
	if !cs.Store.IsAuthenticated() {
		seeOther(w, r, "/login")
		return
	}
	h.render(w, r, cs, "Logout", http.StatusOK, pages.Logout())
}

// Logout signs the session out.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request, cs *application.ClientSession) {
	cs.Store.Logout(r.Context())
	seeOther(w, r, "/login")
}

// PasswordResetPage renders the first reset step.
func (h *Handler) PasswordResetPage(w http.ResponseWriter, r *http.Request, cs *application.ClientSession) {
	h.render(w, r, cs, "Reset password", http.StatusOK, pages.PasswordReset(vm.PasswordResetViewModel{Step: 1}))
}

// RequestPasswordReset asks the API for a reset ticket and moves to the
// confirmation step.
func (h *Handler) RequestPasswordReset(w http.ResponseWriter, r *http.Request, cs *application.ClientSession) {
	email := strings.TrimSpace(r.PostFormValue("email"))

	ticket, err := h.api.RequestPasswordReset(r.Context(), email)
	if err != nil {
		h.logger.Info("password reset request rejected", "error", err)
		m := vm.PasswordResetViewModel{Step: 1, Email: email, Message: detailOr(err, msgResetFailed)}
		h.render(w, r, cs, "Reset password", http.StatusUnprocessableEntity, pages.PasswordReset(m))
		return
	}

	m := vm.PasswordResetViewModel{Step: 2, Message: ticket.Detail, UserID: ticket.UserID, Token: ticket.Token}
	h.render(w, r, cs, "Reset password", http.StatusOK, pages.PasswordReset(m))
}

// ConfirmPasswordReset sets the new password.
func (h *Handler) ConfirmPasswordReset(w http.ResponseWriter, r *http.Request, cs *application.ClientSession) {
	userID, _ := strconv.ParseInt(r.PostFormValue("user_id"), 10, 64)
	reset := model.PasswordReset{
		UserID:          userID,
		Token:           r.PostFormValue("token"),
		NewPassword:     r.PostFormValue("new_password"),
		ConfirmPassword: r.PostFormValue("confirm_password"),
	}
	step2 := vm.PasswordResetViewModel{Step: 2, UserID: reset.UserID, Token: reset.Token}

	if reset.NewPassword != reset.ConfirmPassword {
		step2.Message = msgPasswordMismatch
		h.render(w, r, cs, "Reset password", http.StatusUnprocessableEntity, pages.PasswordReset(step2))
		return
	}

	detail, err := h.api.ConfirmPasswordReset(r.Context(), reset)
	if err != nil {
		h.logger.Info("password reset rejected", "user_id", reset.UserID, "error", err)
		step2.Message = detailOr(err, msgResetFailed)
		h.render(w, r, cs, "Reset password", http.StatusUnprocessableEntity, pages.PasswordReset(step2))
		return
	}

	h.render(w, r, cs, "Reset password", http.StatusOK, pages.PasswordReset(vm.PasswordResetViewModel{Step: 3, Message: detail}))
}
