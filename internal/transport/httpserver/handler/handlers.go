package handler

import (
	"net/http"

	familydomain "family-tasks-go/internal/domain/family"
	listsdomain "family-tasks-go/internal/domain/lists"
	tasksdomain "family-tasks-go/internal/domain/tasks"
	userdomain "family-tasks-go/internal/domain/user"
	"family-tasks-go/pkg/logger"
)

type Handlers struct {
	Users    *userdomain.Service
	Families *familydomain.Service
	Lists    *listsdomain.Service
	Tasks    *tasksdomain.Service
	log      logger.Logger
}

func New(users *userdomain.Service, families *familydomain.Service, lists *listsdomain.Service, tasks *tasksdomain.Service, log logger.Logger) *Handlers {
	return &Handlers{
		Users:    users,
		Families: families,
		Lists:    lists,
		Tasks:    tasks,
		log:      log,
	}
}

// requestLog prefers the logger the router scoped to this request.
func (h *Handlers) requestLog(r *http.Request) logger.Logger {
	return logger.FromContext(r.Context(), h.log)
}
