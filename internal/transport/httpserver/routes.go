package httpserver

import (
	"net/http"
	"time"

	"family-tasks-go/internal/config"
	"family-tasks-go/internal/transport/httpserver/handler"
	authmw "family-tasks-go/internal/transport/httpserver/middleware"
	"family-tasks-go/pkg/logger"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

func NewRouter(cfg config.Config, handlers *handler.Handlers, resolver authmw.PrincipalResolver, log logger.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(authmw.RequestLogger(log))
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(authmw.NewCORS(cfg.CORSOrigins))

	r.Route("/api", func(r chi.Router) {
		r.Get("/ping", handlers.Ping)
		r.Post("/users/signup", handlers.Signup)
		r.Post("/login/access-token", handlers.Login)

		auth := authmw.NewBearerAuth(cfg.Auth, resolver, log)
		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware)

			r.Get("/users/me", handlers.Me)
			r.Post("/users/promote/{user_id}", handlers.PromoteMember)

			r.Post("/families", handlers.CreateFamily)
			r.Post("/families/join", handlers.JoinFamily)
			r.Post("/families/leave", handlers.LeaveFamily)
			r.Get("/families/me", handlers.GetMyFamily)
			r.Get("/families/{family_id}", handlers.GetFamily)
			r.Patch("/families/{family_id}", handlers.RenameFamily)
			r.Delete("/families/{family_id}", handlers.DeleteFamily)
			r.Get("/families/{family_id}/members", handlers.ListFamilyMembers)
			r.Get("/families/{family_id}/invite-code", handlers.GetInviteCode)
			r.Delete("/families/{family_id}/members/{user_id}", handlers.RemoveFamilyMember)

			r.Get("/lists/personal", handlers.ListPersonalLists)
			r.Get("/lists/family", handlers.ListFamilyLists)
			r.Post("/lists", handlers.CreateList)
			r.Get("/lists/{list_id}", handlers.GetList)
			r.Patch("/lists/{list_id}", handlers.UpdateList)
			r.Delete("/lists/{list_id}", handlers.DeleteList)
			r.Get("/lists/{list_id}/tasks", handlers.ListListTasks)
			r.Post("/lists/{list_id}/clear", handlers.ClearCompleted)

			r.Get("/tasks", handlers.ListMyTasks)
			r.Get("/tasks/family", handlers.ListFamilyTasks)
			r.Post("/tasks", handlers.CreateTask)
			r.Get("/tasks/{task_id}", handlers.GetTask)
			r.Patch("/tasks/{task_id}", handlers.UpdateTask)
			r.Patch("/tasks/{task_id}/status", handlers.SetTaskStatus)
			r.Delete("/tasks/{task_id}", handlers.DeleteTask)
		})
	})

	return r
}
