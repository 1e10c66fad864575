package routes

import (
	"github.com/courtline/league-system/handlers"
	"github.com/courtline/league-system/middleware"
	"github.com/courtline/league-system/models"
	"github.com/courtline/league-system/services"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type Handlers struct {
	Auth      *handlers.AuthHandler
	User      *handlers.UserHandler
	Team      *handlers.TeamHandler
	League    *handlers.LeagueHandler
	Match     *handlers.MatchHandler
	Invite    *handlers.InviteHandler
	WebSocket *handlers.WebSocketHandler
}

func Setup(h Handlers, authService services.AuthService) *chi.Mux {
	router := chi.NewRouter()

	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	authenticate := middleware.Authenticate(authService)
	organizerOnly := middleware.Authorize(models.RoleOrganizer, models.RoleAdmin)

	router.Post("/auth/register", h.Auth.Register)
	router.Post("/auth/login", h.Auth.Login)

	router.Route("/users", func(r chi.Router) {
		r.Get("/{userID}", h.User.GetUser)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Put("/{userID}", h.User.UpdateUser)
			r.Post("/{userID}/avatar", h.User.UploadAvatar)
		})
	})

	router.Route("/teams", func(r chi.Router) {
		r.Get("/{teamID}", h.Team.GetTeam)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Post("/", h.Team.CreateTeam)
			r.Put("/{teamID}", h.Team.RenameTeam)
			r.Post("/{teamID}/logo", h.Team.UploadLogo)
			r.Delete("/{teamID}/members/{userID}", h.Team.RemoveMember)
			r.Post("/{teamID}/leave", h.Team.LeaveTeam)
			r.Post("/{teamID}/invites", h.Invite.CreateInvite)
		})
	})

	router.Route("/invites", func(r chi.Router) {
		r.Get("/{token}", h.Invite.GetInvite)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Post("/{token}/accept", h.Invite.AcceptInvite)
		})
	})

	router.Route("/leagues", func(r chi.Router) {
		r.Get("/", h.League.ListLeagues)
		r.Get("/{leagueID}", h.League.GetLeague)
		r.Get("/{leagueID}/participants", h.League.ListParticipants)
		r.Get("/{leagueID}/matches", h.League.ListMatches)
		r.Get("/{leagueID}/standings", h.League.GetStandings)
		r.Get("/{leagueID}/export", h.League.ExportLeague)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Post("/{leagueID}/participants", h.League.RegisterParticipant)

			r.Group(func(r chi.Router) {
				r.Use(organizerOnly)
				r.Post("/", h.League.CreateLeague)
				r.Put("/{leagueID}", h.League.UpdateLeague)
				r.Patch("/{leagueID}/status", h.League.UpdateLeagueStatus)
				r.Post("/{leagueID}/logo", h.League.UploadLogo)
				r.Post("/{leagueID}/schedule", h.League.GenerateSchedule)
			})
		})
	})

	router.Route("/participants", func(r chi.Router) {
		r.Use(authenticate)
		r.Patch("/{participantID}/status", h.League.SetParticipantStatus)
		r.Delete("/{participantID}", h.League.WithdrawParticipant)
	})

	router.Route("/matches", func(r chi.Router) {
		r.Use(authenticate)
		r.Post("/{matchID}/reports", h.Match.SubmitReport)
		r.Get("/{matchID}/reports", h.Match.ListReports)
		r.Post("/{matchID}/reports/{reportID}/approve", h.Match.ApproveReport)
		r.Post("/{matchID}/score", h.Match.EnterScore)
		r.Put("/{matchID}/score", h.Match.EditFinalScore)
	})

	router.Route("/ws", func(r chi.Router) {
		r.Use(authenticate)
		r.Get("/leagues/{leagueID}", h.WebSocket.ServeLeague)
	})

	return router
}
