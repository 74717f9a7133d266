package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestResponseBuilder_Basic(t *testing.T) {
	w := httptest.NewRecorder()

	NewResponse().
		Status(http.StatusOK).
		Body([]byte("test")).
		Write(w)

	if w.Code != http.StatusOK {
		t.Errorf("Status code = %d, want %d", w.Code, http.StatusOK)
	}
	if w.Body.String() != "test" {
		t.Errorf("Body = %q, want %q", w.Body.String(), "test")
	}
}

func TestResponseBuilder_CustomHeader(t *testing.T) {
	w := httptest.NewRecorder()

	NewResponse().
		Header("X-Custom", "value").
		BodyHTML([]byte("<p>hi</p>")).
		Write(w)

	if got := w.Header().Get("X-Custom"); got != "value" {
		t.Errorf("X-Custom = %q, want value", got)
	}
	if got := w.Header().Get("Content-Type"); got != "text/html; charset=utf-8" {
		t.Errorf("Content-Type = %q", got)
	}
}

func TestErrorResponses(t *testing.T) {
	tests := []struct {
		name     string
		builder  *ResponseBuilder
		wantCode int
	}{
		{"bad request", BadRequestError("bad <input>"), http.StatusBadRequest},
		{"internal", InternalServerError("bad <input>"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			tt.builder.Write(w)

			if w.Code != tt.wantCode {
				t.Errorf("Status code = %d, want %d", w.Code, tt.wantCode)
			}
			body := w.Body.String()
			if !strings.Contains(body, `class="error"`) {
				t.Errorf("Body missing error class: %s", body)
			}
			if strings.Contains(body, "<input>") {
				t.Errorf("Message was not escaped: %s", body)
			}
		})
	}
}

func TestNoContentAndSeeOther(t *testing.T) {
	w := httptest.NewRecorder()
	NoContent().Write(w)
	if w.Code != http.StatusNoContent || w.Body.Len() != 0 {
		t.Errorf("NoContent wrote %d with %d body bytes", w.Code, w.Body.Len())
	}

	w = httptest.NewRecorder()
	SeeOther("/events").Write(w)
	if w.Code != http.StatusSeeOther {
		t.Errorf("Status code = %d, want %d", w.Code, http.StatusSeeOther)
	}
	if got := w.Header().Get("Location"); got != "/events" {
		t.Errorf("Location = %q, want /events", got)
	}
}
