package handlers

import (
	"log"
	"net/http"

	"interviewprep/models"
	"interviewprep/services"

	"github.com/gorilla/mux"
)

type SessionHandler struct {
	store *services.SessionStoreService
	prep  *services.PrepService
}

func NewSessionHandler(store *services.SessionStoreService, prep *services.PrepService) *SessionHandler {
	return &SessionHandler{store: store, prep: prep}
}

func (h *SessionHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/sessions", h.CreateSession).Methods("POST")
	router.HandleFunc("/sessions", h.ListSessions).Methods("GET")
	router.HandleFunc("/sessions/generate", h.GenerateSession).Methods("POST")
	router.HandleFunc("/sessions/{id}", h.GetSession).Methods("GET")
	router.HandleFunc("/sessions/{id}", h.DeleteSession).Methods("DELETE")
	router.HandleFunc("/sessions/{id}/questions", h.AppendQuestions).Methods("POST")
	router.HandleFunc("/sessions/{id}/generate", h.GenerateMoreQuestions).Methods("POST")
}

func (h *SessionHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req models.CreateSessionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeServiceError(w, err)
		return
	}

	session, err := h.store.CreateSession(r.Context(), userID, &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusCreated, models.SessionResponse{Session: session})
}

func (h *SessionHandler) ListSessions(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	sessions, err := h.store.ListSessions(r.Context(), userID, r.URL.Query().Get("q"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, sessions)
}

func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	session, err := h.store.GetSession(r.Context(), userID, mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, models.SessionResponse{Session: session})
}

func (h *SessionHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	if err := h.store.DeleteSession(r.Context(), userID, mux.Vars(r)["id"]); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, messageResponse{Message: "session deleted"})
}

func (h *SessionHandler) AppendQuestions(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req models.AppendQuestionsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeServiceError(w, err)
		return
	}

	session, err := h.store.AppendQuestions(r.Context(), userID, mux.Vars(r)["id"], req.Questions)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, models.SessionResponse{Session: session})
}

func (h *SessionHandler) GenerateSession(w http.ResponseWriter, r *http.Request) {
	log.Printf("[INFO] Received generated session request")

	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req models.GenerateSessionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeServiceError(w, err)
		return
	}

	resp, err := h.prep.GenerateSession(r.Context(), userID, &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusCreated, resp)
}

func (h *SessionHandler) GenerateMoreQuestions(w http.ResponseWriter, r *http.Request) {
	log.Printf("[INFO] Received generate more questions request")

	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req models.GenerateMoreRequest
	if err := decodeOptionalJSON(w, r, &req); err != nil {
		writeServiceError(w, err)
		return
	}

	resp, err := h.prep.GenerateMoreQuestions(r.Context(), userID, mux.Vars(r)["id"], &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, resp)
}
