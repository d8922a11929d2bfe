package users

import (
	"net/http"

	"dealfinder/internal/domain/models"
	"dealfinder/internal/http-server/respond"
)

func NewMeHandler(user models.User) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respond.WriteJSON(w, http.StatusOK, user)
	}
}
