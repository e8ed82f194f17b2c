// Package pages holds one templ component per GUI page.
package pages

import (
	"context"
	"fmt"

	"github.com/a-h/templ"

	"github.com/ericfisherdev/blogpanel/internal/adapter/driving/web/templates"
	vm "github.com/ericfisherdev/blogpanel/internal/adapter/driving/web/viewmodel"
)

// Login renders the sign-in form.
func Login(username string) templ.Component {
	return templates.Component(func(ctx context.Context, hw *templates.Writer) {
		hw.Raw(`<section class="card auth-card"><h1>Login</h1>`)
		templates.FormStart(ctx, hw, "/login", false)
		templates.Input(hw, "Username", "text", "username", username, true)
		templates.Input(hw, "Password", "password", "password", "", true)
		hw.Raw(`<button type="submit" class="button button-primary">Login</button></form>`)
		hw.Raw(`<p class="muted"><a href="/password-reset">Forgot password?</a></p>`)
		hw.Raw(`<p class="muted">No account yet? <a href="/register">Register</a></p></section>`)
	})
}

// Register renders the sign-up form.
func Register() templ.Component {
	return templates.Component(func(ctx context.Context, hw *templates.Writer) {
		hw.Raw(`<section class="card auth-card"><h1>Register</h1>`)
		templates.FormStart(ctx, hw, "/register", true)
		templates.Input(hw, "Username", "text", "username", "", true)
		templates.Input(hw, "Email", "email", "email", "", true)
		templates.Input(hw, "Password", "password", "password", "", true)
		templates.Input(hw, "Date of birth", "date", "date_of_birth", "", false)
		templates.TextArea(hw, "Bio", "bio", "", 3, false)
		templates.Input(hw, "Profile picture", "file", "profile_picture", "", false)
		hw.Raw(`<button type="submit" class="button button-primary">Register</button></form>`)
		hw.Raw(`<p class="muted">Already registered? <a href="/login">Login</a></p></section>`)
	})
}

// Logout renders the sign-out confirmation for direct visits to /logout.
func Logout() templ.Component {
	return templates.Component(func(ctx context.Context, hw *templates.Writer) {
		hw.Raw(`<section class="card auth-card"><h1>Logout</h1><p>Sign out of this browser?</p>`)
		templates.ActionButton(ctx, hw, "/logout", "Logout", "button button-primary", "")
		hw.Raw(`</section>`)
	})
}

// PasswordReset renders the current step of the reset flow.
func PasswordReset(m vm.PasswordResetViewModel) templ.Component {
	return templates.Component(func(ctx context.Context, hw *templates.Writer) {
		hw.Raw(`<section class="card auth-card"><h1>Reset password</h1>`)
		if m.Message != "" {
			hw.Raw(`<p class="notice">`)
			hw.Text(m.Message)
			hw.Raw(`</p>`)
		}
		switch m.Step {
		case 1:
			templates.FormStart(ctx, hw, "/password-reset", false)
			templates.Input(hw, "Email", "email", "email", m.Email, true)
			hw.Raw(`<button type="submit" class="button button-primary">Request reset</button></form>`)
		case 2:
			templates.FormStart(ctx, hw, "/password-reset/confirm", false)
			hw.Raw(`<input type="hidden" name="user_id"`)
			hw.Attr("value", fmt.Sprint(m.UserID))
			hw.Raw(`><input type="hidden" name="token"`)
			hw.Attr("value", m.Token)
			hw.Raw(`>`)
			templates.Input(hw, "New password", "password", "new_password", "", true)
			templates.Input(hw, "Confirm password", "password", "confirm_password", "", true)
			hw.Raw(`<button type="submit" class="button button-primary">Reset password</button></form>`)
		default:
			hw.Raw(`<p><a class="button button-primary" href="/login">Back to login</a></p>`)
		}
		hw.Raw(`</section>`)
	})
}

// Error renders a full-page error.
func Error(m vm.ErrorViewModel) templ.Component {
	return templates.Component(func(_ context.Context, hw *templates.Writer) {
		hw.Raw(`<section class="card error-card"><h1>`)
		hw.Textf("%d", m.Status)
		hw.Raw(`</h1><p>`)
		hw.Text(m.Message)
		hw.Raw(`</p><p><a href="/dashboard">Back to posts</a></p></section>`)
	})
}
