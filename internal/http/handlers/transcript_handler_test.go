package handlers

import (
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func newTranscriptRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	h := New(stubLinkSvc{})
	r := gin.New()
	r.GET("/chat", h.ShowTranscript)
	return r
}

func getChat(r *gin.Engine, query string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/chat"+query, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestShowTranscript(t *testing.T) {
	r := newTranscriptRouter(t)

	payload := `[
	  {"timestamp":"2024-05-01T10:00:00Z","userType":"Support","author":"agent","content":"hello there"},
	  {"timestamp":"2024-05-01T10:00:10Z","userType":"Support","author":"agent","content":"second line"}
	]`
	data := base64.RawURLEncoding.EncodeToString([]byte(payload))

	w := getChat(r, "?data="+data)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Fatalf("Content-Type = %q", ct)
	}

	body := w.Body.String()
	if !strings.Contains(body, "hello there") || !strings.Contains(body, "second line") {
		t.Error("message content missing")
	}
	// Same author within the window: one shared header.
	if got := strings.Count(body, ">agent</span>"); got != 1 {
		t.Errorf("author header rendered %d times, want 1", got)
	}
}

func TestShowTranscriptNoData(t *testing.T) {
	r := newTranscriptRouter(t)

	w := getChat(r, "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want in-page error", w.Code)
	}
	if !strings.Contains(w.Body.String(), "No data provided in URL") {
		t.Fatalf("body = %s", w.Body.String())
	}
}

func TestShowTranscriptWrongShape(t *testing.T) {
	r := newTranscriptRouter(t)

	data := base64.RawURLEncoding.EncodeToString([]byte("{}"))
	w := getChat(r, "?data="+data)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Invalid data format. Expected an array of messages.") {
		t.Fatalf("body = %s", w.Body.String())
	}
}

func TestShowTranscriptInvalidBase64(t *testing.T) {
	r := newTranscriptRouter(t)

	w := getChat(r, "?data=%21%21%21")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Failed to decode or parse data") {
		t.Fatalf("body = %s", w.Body.String())
	}
}

func TestShowTranscriptEscapesUntrustedText(t *testing.T) {
	r := newTranscriptRouter(t)

	payload := `[{"timestamp":"2024-05-01T10:00:00Z","userType":"x","author":"<img src=x>","content":"<script>alert(1)</script>"}]`
	data := base64.RawURLEncoding.EncodeToString([]byte(payload))

	w := getChat(r, "?data="+data)
	body := w.Body.String()
	if strings.Contains(body, "<script>alert(1)</script>") || strings.Contains(body, "<img src=x>") {
		t.Fatal("untrusted text rendered as raw markup")
	}
	if !strings.Contains(body, "&lt;script&gt;") {
		t.Error("escaped content missing")
	}
}
