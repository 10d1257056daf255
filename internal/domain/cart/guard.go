// internal/domain/cart/guard.go
package cart

import "github.com/your-org/grocery-storefront/internal/domain/session"

// PromptAction is a recovery option offered when a guest hits a gated operation
type PromptAction string

const (
	ActionCancel PromptAction = "cancel"
	ActionLogin  PromptAction = "login"
	ActionSignup PromptAction = "signup"
)

// LoginPrompt is what the UI shows when a guest tries to use the cart
type LoginPrompt struct {
	Title   string
	Message string
	Actions []PromptAction
}

// Prompter displays the login prompt. It must not block on the user's answer;
// the chosen action is handled by the UI.
type Prompter interface {
	PromptLogin(prompt LoginPrompt)
}

// PrompterFunc adapts a function to Prompter
type PrompterFunc func(prompt LoginPrompt)

func (f PrompterFunc) PromptLogin(prompt LoginPrompt) {
	f(prompt)
}

func loginPrompt() LoginPrompt {
	return LoginPrompt{
		Title:   "Login required",
		Message: "Please log in or create an account to add items to your cart.",
		Actions: []PromptAction{ActionCancel, ActionLogin, ActionSignup},
	}
}

// RequireLogin returns true, after prompting, when there is no session.
// Gated operations abort without any network call when it does.
func (m *Manager) RequireLogin() bool {
	return m.guard(m.session.Current())
}

// guard prompts when user is nil. Callers pass the identity they will act as.
func (m *Manager) guard(user *session.Identity) bool {
	if user != nil {
		return false
	}
	if m.prompter != nil {
		m.prompter.PromptLogin(loginPrompt())
	}
	return true
}
