package handlers

import (
	"log"
	"net/http"
	"strconv"

	"interviewprep/models"
	"interviewprep/services/ai"

	"github.com/gorilla/mux"
)

// AIHandler exposes stateless generation; nothing is persisted.
type AIHandler struct {
	service *ai.Service
}

func NewAIHandler(service *ai.Service) *AIHandler {
	return &AIHandler{service: service}
}

func (h *AIHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/ai/generate-questions", h.GenerateQuestions).Methods("POST")
	router.HandleFunc("/ai/generate-explanation", h.GenerateExplanation).Methods("POST")
}

// GenerateQuestions returns the generated pairs. The number actually produced
// is reported in the X-Question-Count header.
func (h *AIHandler) GenerateQuestions(w http.ResponseWriter, r *http.Request) {
	log.Printf("[INFO] Received question generation request")

	var req models.GenerateQuestionsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeServiceError(w, err)
		return
	}

	batch, err := h.service.GenerateQuestions(r.Context(), &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("X-Question-Count", strconv.Itoa(batch.Count))
	writeJSONResponse(w, http.StatusOK, batch.Questions)
}

func (h *AIHandler) GenerateExplanation(w http.ResponseWriter, r *http.Request) {
	log.Printf("[INFO] Received explanation generation request")

	var req models.GenerateExplanationRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeServiceError(w, err)
		return
	}

	explanation, err := h.service.GenerateExplanation(r.Context(), &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, explanation)
}
