package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/harshitnarang21/Khushi-Semitronics/internal/models"
	"github.com/harshitnarang21/Khushi-Semitronics/internal/services"
	"github.com/harshitnarang21/Khushi-Semitronics/pkg/utils"
)

type AuthHandler struct {
	Service *services.UserService
}

func NewAuthHandler(s *services.UserService) *AuthHandler {
	return &AuthHandler{Service: s}
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req models.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := h.Service.Signup(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrSignupFieldsRequired):
			utils.Error(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, services.ErrEmailTaken):
			utils.Error(w, http.StatusConflict, err.Error())
		default:
			utils.Error(w, http.StatusInternalServerError, "Signup failed")
		}
		return
	}
	utils.JSON(w, http.StatusCreated, resp)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := h.Service.Login(r.Context(), &req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			utils.Error(w, http.StatusUnauthorized, err.Error())
			return
		}
		utils.Error(w, http.StatusInternalServerError, "Login failed")
		return
	}
	utils.JSON(w, http.StatusOK, resp)
}
