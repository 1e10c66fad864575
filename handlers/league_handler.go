package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/courtline/league-system/middleware"
	"github.com/courtline/league-system/models"
	"github.com/courtline/league-system/services"
)

type LeagueHandler struct {
	leagueService      services.LeagueService
	participantService services.ParticipantService
	scheduleService    services.ScheduleService
	standingsService   services.StandingsService
	exportService      services.ExportService
}

func NewLeagueHandler(
	leagueService services.LeagueService,
	participantService services.ParticipantService,
	scheduleService services.ScheduleService,
	standingsService services.StandingsService,
	exportService services.ExportService,
) *LeagueHandler {
	return &LeagueHandler{
		leagueService:      leagueService,
		participantService: participantService,
		scheduleService:    scheduleService,
		standingsService:   standingsService,
		exportService:      exportService,
	}
}

func (h *LeagueHandler) CreateLeague(w http.ResponseWriter, r *http.Request) {
	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "failed to identify current user")
		return
	}

	var input services.CreateLeagueInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	league, err := h.leagueService.Create(r.Context(), currentUserID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"league": league}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *LeagueHandler) GetLeague(w http.ResponseWriter, r *http.Request) {
	leagueID, err := getIDFromURL(r, "leagueID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	league, err := h.leagueService.GetDetails(r.Context(), leagueID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"league": league}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *LeagueHandler) ListLeagues(w http.ResponseWriter, r *http.Request) {
	var statusFilter *models.LeagueStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		status := models.LeagueStatus(raw)
		statusFilter = &status
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	leagues, err := h.leagueService.List(r.Context(), statusFilter, limit, offset)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"leagues": leagues}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *LeagueHandler) UpdateLeague(w http.ResponseWriter, r *http.Request) {
	leagueID, err := getIDFromURL(r, "leagueID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "failed to identify current user")
		return
	}

	var input services.UpdateLeagueInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	league, err := h.leagueService.Update(r.Context(), leagueID, currentUserID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"league": league}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *LeagueHandler) UpdateLeagueStatus(w http.ResponseWriter, r *http.Request) {
	leagueID, err := getIDFromURL(r, "leagueID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "failed to identify current user")
		return
	}

	var input struct {
		Status models.LeagueStatus `json:"status"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	league, err := h.leagueService.UpdateStatus(r.Context(), leagueID, currentUserID, input.Status)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"league": league}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *LeagueHandler) UploadLogo(w http.ResponseWriter, r *http.Request) {
	leagueID, err := getIDFromURL(r, "leagueID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "failed to identify current user")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	file, header, err := r.FormFile("logo")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	defer file.Close()

	league, err := h.leagueService.UploadLogo(r.Context(), leagueID, currentUserID, header.Header.Get("Content-Type"), file)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"league": league}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *LeagueHandler) RegisterParticipant(w http.ResponseWriter, r *http.Request) {
	leagueID, err := getIDFromURL(r, "leagueID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "failed to identify current user")
		return
	}

	participant, err := h.participantService.Register(r.Context(), leagueID, currentUserID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"participant": participant}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *LeagueHandler) ListParticipants(w http.ResponseWriter, r *http.Request) {
	leagueID, err := getIDFromURL(r, "leagueID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var statusFilter *models.ParticipantStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		status := models.ParticipantStatus(raw)
		statusFilter = &status
	}

	participants, err := h.participantService.List(r.Context(), leagueID, statusFilter)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"participants": participants}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *LeagueHandler) SetParticipantStatus(w http.ResponseWriter, r *http.Request) {
	participantID, err := getIDFromURL(r, "participantID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "failed to identify current user")
		return
	}

	var input struct {
		Status models.ParticipantStatus `json:"status"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	participant, err := h.participantService.SetStatus(r.Context(), participantID, currentUserID, input.Status)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"participant": participant}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *LeagueHandler) WithdrawParticipant(w http.ResponseWriter, r *http.Request) {
	participantID, err := getIDFromURL(r, "participantID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "failed to identify current user")
		return
	}

	if err := h.participantService.Withdraw(r.Context(), participantID, currentUserID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *LeagueHandler) GenerateSchedule(w http.ResponseWriter, r *http.Request) {
	leagueID, err := getIDFromURL(r, "leagueID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "failed to identify current user")
		return
	}

	matches, err := h.scheduleService.Generate(r.Context(), leagueID, currentUserID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"matches": matches}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *LeagueHandler) ListMatches(w http.ResponseWriter, r *http.Request) {
	leagueID, err := getIDFromURL(r, "leagueID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var roundFilter *int
	if raw := r.URL.Query().Get("round"); raw != "" {
		round, convErr := strconv.Atoi(raw)
		if convErr != nil || round <= 0 {
			badRequestResponse(w, r, fmt.Errorf("invalid round filter: %q", raw))
			return
		}
		roundFilter = &round
	}

	matches, err := h.scheduleService.ListMatches(r.Context(), leagueID, roundFilter)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"matches": matches}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *LeagueHandler) GetStandings(w http.ResponseWriter, r *http.Request) {
	leagueID, err := getIDFromURL(r, "leagueID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	standings, err := h.standingsService.BuildStandings(r.Context(), leagueID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"standings": standings}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *LeagueHandler) ExportLeague(w http.ResponseWriter, r *http.Request) {
	leagueID, err := getIDFromURL(r, "leagueID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	workbook, filename, err := h.exportService.ExportLeague(r.Context(), leagueID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(workbook)
}
