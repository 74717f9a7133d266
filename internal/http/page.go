package http

import (
	"bytes"
	"net/http"

	"deposits/internal/log"
	"deposits/internal/ui"
)

// pageData is what index.html renders: all four screens, one active.
type pageData struct {
	Active ui.Screen
	List   ui.ListView
	Create formView
	View   formView
	Error  string
}

// IsActive is called from the template with a screen id.
func (p pageData) IsActive(id string) bool {
	return p.Active == ui.Screen(id)
}

type formView struct {
	Action           string
	ID               string
	Name             string
	Date             string
	Rows             []ui.EntryRow
	Total            string
	ConfirmingDelete bool
	DeletePrompt     string
}

func newFormView(action string, f *ui.EventForm) formView {
	return formView{
		Action:           action,
		ID:               f.ID,
		Name:             f.Name,
		Date:             f.Date,
		Rows:             f.Table.Rows(),
		Total:            f.Total(),
		ConfirmingDelete: f.ConfirmingDelete,
		DeletePrompt:     ui.DeletePrompt,
	}
}

func newPageData(c *ui.Controller) pageData {
	viewAction := ""
	if c.ViewForm.ID != "" {
		viewAction = "/events/" + c.ViewForm.ID
	}
	return pageData{
		Active: c.Screens.Active(),
		List:   c.List,
		Create: newFormView("/events", c.CreateForm),
		View:   newFormView(viewAction, c.ViewForm),
	}
}

// renderPage writes the page for the controller's current state.
func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, c *ui.Controller) {
	s.renderPageStatus(w, r, c, http.StatusOK, "")
}

// renderPageStatus writes the page with status and an optional error banner.
// The template is executed into a buffer so a failure still yields a clean 500.
func (s *Server) renderPageStatus(w http.ResponseWriter, r *http.Request, c *ui.Controller, status int, errMsg string) {
	if s.templates == nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Templates not loaded",
			log.FieldPath, r.URL.Path,
			log.FieldComponent, log.ComponentTemplate,
			log.FieldErrorType, log.ErrorTypeConfiguration)
		InternalServerError("templates not loaded").Write(w)
		return
	}

	var buf bytes.Buffer
	data := newPageData(c)
	data.Error = errMsg
	if err := s.templates.ExecuteTemplate(&buf, "index.html", data); err != nil {
		s.events.LogError(r.Context(), "Index template execution failed", err, log.ComponentTemplate, log.OpRender,
			log.NewFields().WithRequestID(requestID(r)).WithErrorType(log.ErrorTypeInternal))
		InternalServerError("Could not render the page").Write(w)
		return
	}
	NewResponse().Status(status).BodyHTML(buf.Bytes()).Write(w)
}
