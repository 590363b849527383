package handlers

import (
	"net/http"

	"github.com/harshitnarang21/Khushi-Semitronics/internal/health"
	"github.com/harshitnarang21/Khushi-Semitronics/pkg/utils"
)

// HealthChecker reports liveness. Satisfied by *health.HealthChecker.
type HealthChecker interface {
	CheckBasic() health.Status
}

type HealthHandler struct {
	Checker HealthChecker
}

func NewHealthHandler(checker HealthChecker) *HealthHandler {
	return &HealthHandler{Checker: checker}
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	status := h.Checker.CheckBasic()
	code := http.StatusOK
	if status.Status != "healthy" {
		code = http.StatusServiceUnavailable
	}
	utils.JSON(w, code, status)
}
