package handler

import (
	"net/http"

	"github.com/steadyapp/steady/internal/ctxkeys"
	"github.com/steadyapp/steady/internal/model"
	"github.com/steadyapp/steady/internal/service"
)

// DayHandler serves the dashboard view of one calendar day: the goal list,
// that day's completions, and the derived progress percent.
type DayHandler struct {
	goalService       *service.GoalService
	completionService *service.CompletionService
}

func NewDayHandler(goalService *service.GoalService, completionService *service.CompletionService) *DayHandler {
	return &DayHandler{
		goalService:       goalService,
		completionService: completionService,
	}
}

type dayResponse struct {
	Day             string              `json:"day"`
	Goals           []*model.Goal       `json:"goals"`
	Completions     []*model.Completion `json:"completions"`
	ProgressPercent float64             `json:"progressPercent"`
}

func (h *DayHandler) Show(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	day := r.PathValue("date")

	goals, err := h.goalService.Goals(user.ID)
	if err != nil {
		respondError(w, err)
		return
	}

	completions, err := h.completionService.ByDay(user.ID, day)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dayResponse{
		Day:             day,
		Goals:           goals,
		Completions:     completions,
		ProgressPercent: service.Progress(goals, completions),
	})
}

func (h *DayHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	day := r.PathValue("date")
	goalID := r.PathValue("goalID")

	err := h.completionService.Toggle(user.ID, day, goalID)
	if err != nil {
		respondError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
