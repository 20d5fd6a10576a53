package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/mind-engage/mocktest-admin/internal/catalog"
	"github.com/mind-engage/mocktest-admin/internal/quiz"
	syncx "github.com/mind-engage/mocktest-admin/internal/sync"
)

// EventRecorder receives one event per successful upload. May be nil.
type EventRecorder interface {
	Record(ctx context.Context, typ, ref string, data any) error
}

// Mount registers the upload and read-back routes on r.
func Mount(r chi.Router, store catalog.Store, ev EventRecorder) {
	r.Post("/upload-test", UploadTestHandler(store, ev))
	r.Post("/upload-notification", UploadNotificationHandler(store, ev))
	r.Post("/upload-practice", UploadPracticeHandler(store, ev))
	r.Get("/tests/{testID}", GetTestHandler(store))
	r.Get("/practice/{topic}/{subtopic}", ListPracticeHandler(store))
}

// flexInt accepts 45 or "45".
type flexInt int

func (f *flexInt) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return err
		}
		*f = flexInt(n)
		return nil
	}
	var n int
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = flexInt(n)
	return nil
}

type uploadTestReq struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Duration    flexInt         `json:"duration"`
	Questions   []quiz.Question `json:"questions"`
}

func UploadTestHandler(store catalog.Store, ev EventRecorder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req uploadTestReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeErr(w, http.StatusBadRequest, "Invalid input")
			return
		}
		t := quiz.MockTest{
			Title:       strings.TrimSpace(req.Title),
			Description: strings.TrimSpace(req.Description),
			Duration:    int(req.Duration),
			Questions:   req.Questions,
		}
		if !t.Complete() || quiz.ValidateAll(t.Questions) != nil {
			writeErr(w, http.StatusBadRequest, "Invalid input")
			return
		}

		saved, err := store.PutMockTest(r.Context(), t)
		if err != nil {
			log.Printf("upload-test: %v", err)
			writeErr(w, http.StatusInternalServerError, "Failed to upload test.")
			return
		}
		record(r.Context(), ev, syncx.TypeMockTestUploaded, saved.ID, map[string]any{
			"title": saved.Title, "questions": len(saved.Questions),
		})
		writeJSON(w, http.StatusOK, map[string]any{"message": "Test uploaded successfully!", "id": saved.ID})
	}
}

func UploadNotificationHandler(store catalog.Store, ev EventRecorder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var n quiz.Notification
		if err := json.NewDecoder(r.Body).Decode(&n); err != nil || !n.Complete() {
			writeErr(w, http.StatusBadRequest, "Please fill all fields")
			return
		}
		n.ID, n.CreatedAt = "", 0

		saved, err := store.PutNotification(r.Context(), n)
		if err != nil {
			log.Printf("Error uploading notification: %v", err)
			writeErr(w, http.StatusInternalServerError, "Server error while uploading notification.")
			return
		}
		record(r.Context(), ev, syncx.TypeNotificationUploaded, saved.ID, map[string]any{
			"title": saved.Title, "subject": saved.Subject,
		})
		writeJSON(w, http.StatusOK, map[string]any{"message": "Notification uploaded successfully!", "id": saved.ID})
	}
}

func UploadPracticeHandler(store catalog.Store, ev EventRecorder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req quiz.PracticeUpload
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeErr(w, http.StatusBadRequest, "Invalid input")
			return
		}
		req.Topic = strings.TrimSpace(req.Topic)
		req.Subtopic = strings.TrimSpace(req.Subtopic)
		if req.Topic == "" || req.Subtopic == "" || len(req.Questions) == 0 || quiz.ValidateAll(req.Questions) != nil {
			writeErr(w, http.StatusBadRequest, "Invalid input")
			return
		}

		res, err := store.AppendPractice(r.Context(), req.Topic, req.Subtopic, req.Questions)
		if err != nil {
			log.Printf("upload-practice %s/%s: %v", req.Topic, req.Subtopic, err)
			writeErr(w, http.StatusInternalServerError, "Failed to upload practice questions.")
			return
		}
		record(r.Context(), ev, syncx.TypePracticeUploaded, req.Topic+"/"+req.Subtopic, res)
		writeJSON(w, http.StatusOK, map[string]any{
			"message":  "Uploaded " + strconv.Itoa(res.Uploaded) + " questions in " + strconv.Itoa(res.Groups) + " document(s)!",
			"uploaded": res.Uploaded,
			"groups":   res.Groups,
			"doc_ids":  res.DocIDs,
		})
	}
}

func GetTestHandler(store catalog.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t, err := store.GetMockTest(r.Context(), chi.URLParam(r, "testID"))
		if errors.Is(err, catalog.ErrNotFound) {
			writeErr(w, http.StatusNotFound, "test not found")
			return
		}
		if err != nil {
			writeErr(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, t)
	}
}

func ListPracticeHandler(store catalog.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		groups, err := store.ListPractice(r.Context(), chi.URLParam(r, "topic"), chi.URLParam(r, "subtopic"))
		if err != nil {
			writeErr(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"groups": groups})
	}
}

func record(ctx context.Context, ev EventRecorder, typ, ref string, data any) {
	if ev == nil {
		return
	}
	if err := ev.Record(ctx, typ, ref, data); err != nil {
		log.Printf("event log %s %s: %v", typ, ref, err)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errResp struct {
	Error string `json:"error"`
}

func writeErr(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errResp{Error: msg})
}
