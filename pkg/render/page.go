package render

import (
	"github.com/goliatone/go-formclient/pkg/engine"
	"github.com/goliatone/go-formclient/pkg/field"
	"github.com/goliatone/go-formclient/pkg/section"
)

// Copy shown on the screens around the form.
const (
	TextLoginTitle    = "Student Login"
	TextLoginSubtitle = "Enter your details to continue"
	TextRollNumber    = "Roll Number"
	TextFullName      = "Full Name"
	TextLoading       = "Loading form..."
	TextRetry         = "Try Again"
	TextSuccessTitle  = "Form Submitted Successfully!"
	TextSuccessBody   = "Thank you for completing the form."
	TextReturnToLogin = "Return to Login"
	TextPrevious      = "Previous"
	TextNext          = "Next"
	TextSubmit        = "Submit"
)

// PageKind names the screen a Page describes.
type PageKind string

const (
	PageLogin     PageKind = "login"
	PageLoading   PageKind = "loading"
	PageError     PageKind = "error"
	PageForm      PageKind = "form"
	PageSubmitted PageKind = "submitted"
)

// Page is the renderer-neutral view model of one screen. Exactly one of
// Login, Form or Submitted is set, depending on Kind; error and loading pages
// only carry Message.
type Page struct {
	Kind      PageKind       `json:"kind"`
	Title     string         `json:"title"`
	Message   string         `json:"message,omitempty"`
	Login     *LoginView     `json:"login,omitempty"`
	Form      *FormView      `json:"form,omitempty"`
	Submitted *SubmittedView `json:"submitted,omitempty"`
}

// LoginView carries the login inputs back to the page so a failed attempt
// keeps them.
type LoginView struct {
	RollNumber string `json:"rollNumber"`
	Name       string `json:"name"`
	Error      string `json:"error,omitempty"`
}

// FormView is the header, progress, active section and navigation of the
// form screen.
type FormView struct {
	FormID     string          `json:"formId"`
	FormTitle  string          `json:"formTitle"`
	Progress   engine.Progress `json:"progress"`
	Section    section.View    `json:"section"`
	CanRetreat bool            `json:"canRetreat"`
	IsLast     bool            `json:"isLast"`
	NextLabel  string          `json:"nextLabel"`
}

// SubmittedView is the success screen.
type SubmittedView struct {
	Heading     string `json:"heading"`
	Body        string `json:"body"`
	ReturnLabel string `json:"returnLabel"`
}

// LoginPage describes the login screen, prefilled with view.
func LoginPage(view LoginView) Page {
	return Page{
		Kind:  PageLogin,
		Title: TextLoginTitle,
		Login: &view,
	}
}

// FromSnapshot describes the screen for the engine state in snap. local holds
// the per-change errors of the visible fields and may be nil.
func FromSnapshot(snap engine.Snapshot, local field.LocalErrors) Page {
	switch snap.Status {
	case engine.StatusLoading:
		return Page{Kind: PageLoading, Title: TextLoading, Message: TextLoading}
	case engine.StatusError:
		return Page{Kind: PageError, Title: snap.LoadError, Message: snap.LoadError}
	case engine.StatusSubmitted:
		return Page{
			Kind:  PageSubmitted,
			Title: TextSuccessTitle,
			Submitted: &SubmittedView{
				Heading:     TextSuccessTitle,
				Body:        TextSuccessBody,
				ReturnLabel: TextReturnToLogin,
			},
		}
	case engine.StatusInSection:
		sec, _ := snap.CurrentSection()
		next := TextNext
		if snap.IsLastSection() {
			next = TextSubmit
		}
		return Page{
			Kind:  PageForm,
			Title: snap.Schema.FormTitle,
			Form: &FormView{
				FormID:     snap.Schema.FormID,
				FormTitle:  snap.Schema.FormTitle,
				Progress:   snap.Progress(),
				Section:    section.Render(sec, snap.Values, snap.Errors, local),
				CanRetreat: snap.CanRetreat(),
				IsLast:     snap.IsLastSection(),
				NextLabel:  next,
			},
		}
	default:
		return LoginPage(LoginView{})
	}
}
