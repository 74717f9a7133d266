package http

import (
	"errors"
	"net/http"

	"deposits/internal/core"
	"deposits/internal/log"
	"deposits/internal/ui"
)

const listPath = "/events"

// storageErrorType tells a rejected duplicate id apart from a failed write.
func storageErrorType(err error) string {
	if errors.Is(err, core.ErrDuplicateID) {
		return log.ErrorTypeConflict
	}
	return log.ErrorTypeDatabase
}

// handleCreateForm handles every button of the create form.
func (s *Server) handleCreateForm(w http.ResponseWriter, r *http.Request) {
	in, ok := s.parseForm(w, r)
	if !ok {
		return
	}

	ctx := r.Context()
	c := s.newController()
	c.Screens.Show(ui.ScreenCreate)
	in.Bind(c.CreateForm)
	logger := log.FromContext(ctx).WithComponent(log.ComponentEvents)
	logger.DebugContext(ctx, "Event form posted",
		log.FieldScreen, c.Screens.Active().String(),
		log.FieldAction, string(in.Action))

	if in.ApplyTableAction(c.CreateForm) {
		s.renderPage(w, r, c)
		return
	}
	if in.Action != ActionSave {
		logger.WarnContext(ctx, "Action not available on the create form",
			log.FieldScreen, c.Screens.Active().String(),
			log.FieldAction, string(in.Action),
			log.FieldErrorType, log.ErrorTypeValidation)
		BadRequestError("This action is not available on a new event").Write(w)
		return
	}
	if !s.allowWrite(w, r, c, in.Action) {
		return
	}

	ev, err := c.SubmitCreate(ctx)
	if err != nil {
		s.events.LogError(ctx, "Event create failed", err, log.ComponentEvents, log.OpCreate,
			log.NewFields().WithRequestID(requestID(r)).
				WithEvent("", c.CreateForm.Name, c.CreateForm.Date, c.CreateForm.Table.Len()).
				WithErrorType(storageErrorType(err)))
		InternalServerError("Could not save the event").Write(w)
		return
	}
	s.appMetrics.eventsCreated.Add(1)
	s.events.LogEventSaved(ctx, log.OpCreate, ev.ID, ev.Name, ev.Date, len(ev.Entries))
	SeeOther(listPath).Write(w)
}

// handleEditForm handles every button of the view form. The event id comes
// from the URL.
func (s *Server) handleEditForm(w http.ResponseWriter, r *http.Request) {
	in, ok := s.parseForm(w, r)
	if !ok {
		return
	}

	ctx := r.Context()
	id := r.PathValue("id")
	c := s.newController()
	c.Screens.Show(ui.ScreenView)
	in.Bind(c.ViewForm)
	c.ViewForm.ID = id
	logger := log.FromContext(ctx).WithComponent(log.ComponentEvents)
	logger.DebugContext(ctx, "Event form posted",
		log.FieldScreen, c.Screens.Active().String(),
		log.FieldAction, string(in.Action),
		log.FieldEventID, id)

	if in.ApplyTableAction(c.ViewForm) {
		s.renderPage(w, r, c)
		return
	}

	switch in.Action {
	case ActionSave:
		if !s.allowWrite(w, r, c, in.Action) {
			return
		}
		updated, err := c.SubmitEdit(ctx)
		if err != nil {
			s.events.LogError(ctx, "Event update failed", err, log.ComponentEvents, log.OpUpdate,
				log.NewFields().WithRequestID(requestID(r)).
					WithEvent(id, c.ViewForm.Name, c.ViewForm.Date, c.ViewForm.Table.Len()).
					WithErrorType(log.ErrorTypeDatabase))
			InternalServerError("Could not save the event").Write(w)
			return
		}
		if updated {
			s.appMetrics.eventsUpdated.Add(1)
			ev := c.ViewForm.Event(id)
			s.events.LogEventSaved(ctx, log.OpUpdate, id, ev.Name, ev.Date, len(ev.Entries))
		} else {
			logger.DebugContext(ctx, "Update dropped",
				log.FieldEventID, id,
				log.FieldError, core.ErrEventNotFound,
				log.FieldErrorType, log.ErrorTypeNotFound)
		}
		SeeOther(listPath).Write(w)

	case ActionDelete:
		c.RequestDelete()
		s.renderPage(w, r, c)

	case ActionDeleteConfirm, ActionDeleteCancel:
		if in.Action == ActionDeleteConfirm {
			c.RequestDelete()
			if !s.allowWrite(w, r, c, in.Action) {
				return
			}
		}
		deleted, err := c.Delete(ctx, ui.Answer(in.Action == ActionDeleteConfirm))
		if err != nil {
			s.events.LogError(ctx, "Event delete failed", err, log.ComponentEvents, log.OpDelete,
				log.NewFields().WithRequestID(requestID(r)).
					WithEvent(id, "", "", 0).
					WithErrorType(log.ErrorTypeDatabase))
			InternalServerError("Could not delete the event").Write(w)
			return
		}
		if !deleted {
			s.renderPage(w, r, c)
			return
		}
		s.appMetrics.eventsDeleted.Add(1)
		logger.InfoContext(ctx, "Event deleted", log.FieldEventID, id, log.FieldOperation, log.OpDelete)
		SeeOther(listPath).Write(w)

	default:
		logger.WarnContext(ctx, "Action not available on the view form",
			log.FieldScreen, c.Screens.Active().String(),
			log.FieldAction, string(in.Action),
			log.FieldErrorType, log.ErrorTypeValidation)
		BadRequestError("Unknown action").Write(w)
	}
}

func (s *Server) parseForm(w http.ResponseWriter, r *http.Request) (EventFormInput, bool) {
	in, err := ParseEventForm(r)
	if err == nil {
		return in, true
	}
	log.FromContext(r.Context()).WarnContext(r.Context(), "Rejected event form",
		log.FieldError, err,
		log.FieldPath, r.URL.Path,
		log.FieldOperation, log.OpParse,
		log.FieldErrorType, log.ErrorTypeValidation)
	if errors.Is(err, ErrUnknownAction) {
		BadRequestError("Unknown action").Write(w)
	} else {
		BadRequestError("Invalid form submission").Write(w)
	}
	return EventFormInput{}, false
}
