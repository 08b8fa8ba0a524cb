package handler

import (
	"net/http"

	"github.com/steadyapp/steady/internal/ctxkeys"
	"github.com/steadyapp/steady/internal/service"
)

type AccountHandler struct {
	authService *service.AuthService
	userService *service.UserService
}

func NewAccountHandler(authService *service.AuthService, userService *service.UserService) *AccountHandler {
	return &AccountHandler{
		authService: authService,
		userService: userService,
	}
}

// Delete removes the account and everything under it (goals, completions,
// tokens cascade in the database), then ends the session.
func (h *AccountHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	err := h.userService.DeleteAccount(user.ID)
	if err != nil {
		respondError(w, err)
		return
	}

	h.authService.SignOut(user.ID)
	h.authService.ClearJWTCookie(w)
	w.WriteHeader(http.StatusNoContent)
}
