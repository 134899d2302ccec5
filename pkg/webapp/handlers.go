package webapp

import (
	"errors"
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"github.com/goliatone/go-formclient/pkg/client"
	"github.com/goliatone/go-formclient/pkg/engine"
	"github.com/goliatone/go-formclient/pkg/field"
	"github.com/goliatone/go-formclient/pkg/model"
	"github.com/goliatone/go-formclient/pkg/render"
	"github.com/goliatone/go-formclient/pkg/section"
	"github.com/goliatone/go-formclient/pkg/session"
)

func (a *App) showLogin(w http.ResponseWriter, r *http.Request, sess *browserSession) {
	a.render(w, r, http.StatusOK, render.LoginPage(render.LoginView{}))
}

func (a *App) submitLogin(w http.ResponseWriter, r *http.Request, sess *browserSession) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form body", http.StatusBadRequest)
		return
	}
	user := model.User{
		RollNumber: strings.TrimSpace(r.PostForm.Get("rollNumber")),
		Name:       strings.TrimSpace(r.PostForm.Get("name")),
	}
	if user.RollNumber == "" || user.Name == "" {
		a.render(w, r, http.StatusUnprocessableEntity, render.LoginPage(render.LoginView{
			RollNumber: user.RollNumber,
			Name:       user.Name,
			Error:      "Roll number and name are required.",
		}))
		return
	}

	if err := session.Login(r.Context(), a.backend, sess.store, user); err != nil {
		a.logger.WarnContext(r.Context(), "login failed", slog.Any("error", err))
		a.render(w, r, http.StatusBadGateway, render.LoginPage(render.LoginView{
			RollNumber: user.RollNumber,
			Name:       user.Name,
			Error:      client.MessageCreateUser,
		}))
		return
	}

	sess.engine = nil
	sess.local.Reset()
	http.Redirect(w, r, "/form", http.StatusSeeOther)
}

// showForm loads the form on first visit and renders the current screen.
// Without a stored roll number it sends the browser to the login page.
func (a *App) showForm(w http.ResponseWriter, r *http.Request, sess *browserSession) {
	if sess.engine == nil || sess.engine.Status() == engine.StatusExited {
		sess.engine = engine.New(a.backend, sess.store,
			engine.WithSubmitter(a.submitter),
			engine.WithLogger(a.logger),
		)
		sess.local.Reset()
		if err := sess.engine.Load(r.Context()); err != nil {
			if errors.Is(err, session.ErrNoSession) {
				sess.engine = nil
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}
			a.logger.WarnContext(r.Context(), "form load failed", slog.Any("error", err))
		}
	}
	a.renderEngine(w, r, sess)
}

// navigate feeds the posted values of the active section to the engine, then
// moves back or forward according to the action field.
func (a *App) navigate(w http.ResponseWriter, r *http.Request, sess *browserSession) {
	if sess.engine == nil {
		http.Redirect(w, r, "/form", http.StatusSeeOther)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form body", http.StatusBadRequest)
		return
	}
	if sess.engine.Status() != engine.StatusInSection {
		http.Redirect(w, r, "/form", http.StatusSeeOther)
		return
	}

	if err := a.applyPosted(sess, r); err != nil {
		a.logger.WarnContext(r.Context(), "ignored posted value", slog.Any("error", err))
	}

	before := sess.engine.Snapshot().SectionIndex
	switch r.PostForm.Get("action") {
	case "prev":
		sess.engine.Retreat()
	case "next":
		if _, err := sess.engine.Advance(r.Context()); err != nil {
			a.logger.WarnContext(r.Context(), "advance rejected", slog.Any("error", err))
		}
	}
	if snap := sess.engine.Snapshot(); snap.Status != engine.StatusInSection || snap.SectionIndex != before {
		sess.local.Reset()
	}
	http.Redirect(w, r, "/form", http.StatusSeeOther)
}

// applyPosted converts the posted section values into field events. Only
// fields whose value differs from the engine's are fed, so unchanged fields
// keep their errors. Checkbox sets become one toggle per option that changed.
func (a *App) applyPosted(sess *browserSession, r *http.Request) error {
	snap := sess.engine.Snapshot()
	sec, ok := snap.CurrentSection()
	if !ok {
		return nil
	}
	values := snap.Values

	var errs []error
	for _, f := range sec.Fields {
		for _, ev := range postedEvents(f, values.ValueFor(f), r) {
			change, err := section.Dispatch(sec, values, f.FieldID, ev)
			if err != nil {
				errs = append(errs, err)
				break
			}
			if err := sess.engine.FieldChange(change.FieldID, change.Value); err != nil {
				errs = append(errs, err)
				break
			}
			values[change.FieldID] = change.Value
			sess.local.Record(change)
		}
	}
	return errors.Join(errs...)
}

func postedEvents(f model.FormField, current model.Value, r *http.Request) []field.Event {
	if f.Type.Kind() == model.KindCheckbox {
		posted := r.PostForm[f.FieldID]
		var events []field.Event
		for _, item := range current.Items() {
			if !slices.Contains(posted, item) {
				events = append(events, field.Toggle{Option: item, Checked: false})
			}
		}
		for _, item := range posted {
			if !hasOption(f, item) {
				continue
			}
			if !current.Contains(item) {
				events = append(events, field.Toggle{Option: item, Checked: true})
			}
		}
		return events
	}

	if !r.PostForm.Has(f.FieldID) {
		return nil
	}
	text := r.PostForm.Get(f.FieldID)
	if text == current.String() {
		return nil
	}
	return []field.Event{field.Input{Text: text}}
}

// hasOption reports whether value is one of the options declared on f.
func hasOption(f model.FormField, value string) bool {
	return slices.ContainsFunc(f.Options, func(opt model.Option) bool {
		return opt.Value == value
	})
}

func (a *App) retry(w http.ResponseWriter, r *http.Request, sess *browserSession) {
	if sess.engine != nil && sess.engine.Status() == engine.StatusError {
		if err := sess.engine.Reload(r.Context()); err != nil && errors.Is(err, session.ErrNoSession) {
			sess.engine = nil
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
	}
	http.Redirect(w, r, "/form", http.StatusSeeOther)
}

func (a *App) returnToLogin(w http.ResponseWriter, r *http.Request, sess *browserSession) {
	if sess.engine != nil {
		if err := sess.engine.ReturnToLogin(); err != nil {
			a.logger.WarnContext(r.Context(), "return to login rejected", slog.Any("error", err))
			http.Redirect(w, r, "/form", http.StatusSeeOther)
			return
		}
	}
	sess.engine = nil
	sess.local.Reset()
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (a *App) renderEngine(w http.ResponseWriter, r *http.Request, sess *browserSession) {
	status := http.StatusOK
	if sess.engine.Status() == engine.StatusError {
		status = http.StatusBadGateway
	}
	a.render(w, r, status, render.FromSnapshot(sess.engine.Snapshot(), sess.local))
}

func (a *App) render(w http.ResponseWriter, r *http.Request, status int, page render.Page) {
	renderer, err := a.renderers.Negotiate(r.Header.Get("Accept"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	body, err := renderer.Render(r.Context(), page)
	if err != nil {
		a.logger.ErrorContext(r.Context(), "render failed", slog.Any("error", err))
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", renderer.ContentType())
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}
