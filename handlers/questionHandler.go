package handlers

import (
	"net/http"

	"interviewprep/models"
	"interviewprep/services"

	"github.com/gorilla/mux"
)

type QuestionHandler struct {
	store *services.SessionStoreService
	prep  *services.PrepService
}

func NewQuestionHandler(store *services.SessionStoreService, prep *services.PrepService) *QuestionHandler {
	return &QuestionHandler{store: store, prep: prep}
}

func (h *QuestionHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/questions/add", h.AddQuestions).Methods("POST")
	router.HandleFunc("/questions/{id}", h.UpdateQuestion).Methods("PATCH")
	router.HandleFunc("/questions/{id}/pin", h.TogglePin).Methods("POST")
	router.HandleFunc("/questions/{id}/note", h.UpdateNote).Methods("POST")
	router.HandleFunc("/questions/{id}/explain", h.ExplainQuestion).Methods("POST")
}

type noteRequest struct {
	Note string `json:"note"`
}

// AddQuestions appends to the session named in the body.
func (h *QuestionHandler) AddQuestions(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req models.AppendQuestionsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeServiceError(w, err)
		return
	}

	session, err := h.store.AppendQuestions(r.Context(), userID, req.SessionID, req.Questions)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusCreated, models.SessionResponse{Session: session})
}

func (h *QuestionHandler) UpdateQuestion(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req models.UpdateQuestionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeServiceError(w, err)
		return
	}

	question, err := h.store.UpdateQuestion(r.Context(), userID, "", mux.Vars(r)["id"], &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, models.QuestionResponse{Question: question})
}

func (h *QuestionHandler) TogglePin(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	question, err := h.store.TogglePinned(r.Context(), userID, mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, models.QuestionResponse{Question: question})
}

func (h *QuestionHandler) UpdateNote(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req noteRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeServiceError(w, err)
		return
	}

	question, err := h.store.SetNote(r.Context(), userID, "", mux.Vars(r)["id"], req.Note)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, models.QuestionResponse{Question: question})
}

func (h *QuestionHandler) ExplainQuestion(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	resp, err := h.prep.ExplainQuestion(r.Context(), userID, mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, resp)
}
