package server

import (
	"encoding/json"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/campuspulse/wellbeing-cli/internal/auth"
	"github.com/campuspulse/wellbeing-cli/internal/dashboard"
	"github.com/campuspulse/wellbeing-cli/internal/ingest"
	"github.com/campuspulse/wellbeing-cli/internal/report"
	"github.com/campuspulse/wellbeing-cli/internal/tabular"
)

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleWebhook accepts forwarded form submissions. The payload is
// logged and acknowledged; mapping webhook field names onto the survey
// schema happens upstream.
func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	var payload map[string]any
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	zap.L().Info("webhook received", zap.Int("fields", len(payload)))
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	university := chi.URLParam(r, "university")

	var resp ingest.Response
	if err := json.NewDecoder(r.Body).Decode(&resp); err != nil {
		writeError(w, http.StatusBadRequest, "invalid questionnaire payload")
		return
	}

	if err := s.ingest.Submit(r.Context(), resp, university); err != nil {
		zap.L().Error("submit failed",
			zap.String("university", university),
			zap.Error(err))
		writeError(w, http.StatusBadRequest, eris.ToString(err, false))
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "success",
		"message": "Survey submitted successfully",
	})
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	university := r.URL.Query().Get("university")

	records, err := dashboard.Query(s.cfg.Data, s.schema, university)
	if err != nil {
		if eris.Is(err, tabular.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Data file not found")
			return
		}
		zap.L().Error("dashboard query failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to fetch dashboard data")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"data": records})
}

type reportRequest struct {
	Data   []dashboard.Record `json:"data"`
	Charts map[string]string  `json:"charts"`
}

func (s *Server) handleGenerateReport(w http.ResponseWriter, r *http.Request) {
	var req reportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid report payload")
		return
	}

	res, err := s.reports.Generate(r.Context(), req.Data, req.Charts)
	if err != nil {
		if eris.Is(err, report.ErrBadChart) {
			writeError(w, http.StatusBadRequest, eris.ToString(err, false))
			return
		}
		zap.L().Error("report generation failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to generate report")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message":    "Report generated",
		"report_url": "/api/reports/view/" + res.Timestamp,
	})
}

// reportPath resolves a timestamp URL parameter to a PDF path. The
// timestamp must round-trip through the filename layout, which also
// keeps traversal sequences out of the path.
func (s *Server) reportPath(timestamp string) (string, bool) {
	if _, err := time.Parse(report.TimestampLayout, timestamp); err != nil {
		return "", false
	}
	return report.PathFor(s.cfg.Data, timestamp), true
}

func (s *Server) handleViewReport(w http.ResponseWriter, r *http.Request) {
	timestamp := chi.URLParam(r, "timestamp")
	path, ok := s.reportPath(timestamp)
	if !ok {
		writeError(w, http.StatusNotFound, "Report not found")
		return
	}
	if _, err := os.Stat(path); err != nil {
		writeError(w, http.StatusNotFound, "Report not found")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `inline; filename="`+report.Filename(timestamp)+`"`)
	http.ServeFile(w, r, path)
}

func (s *Server) handleDeleteReport(w http.ResponseWriter, r *http.Request) {
	timestamp := chi.URLParam(r, "timestamp")
	path, ok := s.reportPath(timestamp)
	if !ok {
		writeError(w, http.StatusNotFound, "Report not found")
		return
	}

	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			writeError(w, http.StatusNotFound, "Report not found")
			return
		}
		zap.L().Error("report delete failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to delete report")
		return
	}

	if s.db != nil {
		if err := s.db.DeleteReport(r.Context(), timestamp); err != nil {
			zap.L().Warn("report index delete failed", zap.Error(err))
		}
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Report deleted"})
}

func (s *Server) handleCourses(w http.ResponseWriter, r *http.Request) {
	university := chi.URLParam(r, "university")
	path := s.cfg.Data.CourseCatalog(university)

	if _, err := os.Stat(path); err != nil {
		writeError(w, http.StatusNotFound, "Course file not found for "+university)
		return
	}

	entries, err := loadCatalog(path)
	if err != nil {
		zap.L().Error("course catalog read failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to read course catalog")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"university": university,
		"courses":    uniqueCourses(entries),
	})
}

func (s *Server) handleDepartments(w http.ResponseWriter, r *http.Request) {
	university := chi.URLParam(r, "university")
	path := s.cfg.Data.CourseCatalog(university)

	if _, err := os.Stat(path); err != nil {
		writeError(w, http.StatusNotFound, "Course file not found for "+university)
		return
	}

	entries, err := loadCatalog(path)
	if err != nil {
		zap.L().Error("course catalog read failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to read course catalog")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"university":  university,
		"departments": departmentCourses(entries),
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid login payload")
		return
	}

	u, err := s.creds.Login(req.Email, req.Password)
	if err != nil {
		if eris.Is(err, auth.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		zap.L().Error("login failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Login error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message":    "Login successful",
		"isAdmin":    u.IsAdmin,
		"university": u.University,
	})
}

type registerRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	IsAdmin    bool   `json:"isAdmin"`
	University string `json:"university"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid register payload")
		return
	}
	if strings.TrimSpace(req.Email) == "" || strings.TrimSpace(req.Password) == "" {
		writeError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	err := s.creds.Register(auth.User{
		Email:      req.Email,
		Password:   req.Password,
		IsAdmin:    req.IsAdmin,
		University: req.University,
	})
	if err != nil {
		if eris.Is(err, auth.ErrUserExists) {
			writeError(w, http.StatusBadRequest, "User already exists")
			return
		}
		zap.L().Error("register failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Registration error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "User registered successfully"})
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		writeError(w, http.StatusBadRequest, "email is required")
		return
	}

	if err := s.creds.Delete(email); err != nil {
		if eris.Is(err, auth.ErrUserNotFound) {
			writeError(w, http.StatusNotFound, "User not found")
			return
		}
		zap.L().Error("user delete failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Delete error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "User deleted successfully"})
}
