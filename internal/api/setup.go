// ABOUTME: First-run setup handlers: status probe and one-shot completion
// ABOUTME: Completion creates the first admin and stores branding, SMTP, and analytics

package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/cortexui/cortex-api/internal/auth"
	"github.com/cortexui/cortex-api/internal/store"
)

func (s *Server) handleSetupStatus(w http.ResponseWriter, r *http.Request) {
	done, err := s.store.IsSetupCompleted(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeOK(w, "Setup status retrieved.", map[string]any{
		"setupCompleted": done,
	})
}

type setupRequest struct {
	License struct {
		Accepted bool `json:"accepted"`
	} `json:"license"`
	Admin struct {
		Email     string `json:"email"`
		Password  string `json:"password"`
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
	} `json:"admin"`
	Branding   *store.WhiteLabel `json:"branding"`
	SMTP       *setupSMTP        `json:"smtp"`
	Analytics  *setupAnalytics   `json:"analytics"`
	SelfSignup bool              `json:"selfSignup"`
}

type setupSMTP struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Username string `json:"username"`
	Password string `json:"password"`
	Sender   string `json:"sender"`
	UseTLS   bool   `json:"useTls"`
}

type setupAnalytics struct {
	Provider string `json:"provider"`
	SiteID   string `json:"siteId"`
	APIKey   string `json:"apiKey"`
	Enabled  bool   `json:"enabled"`
}

func (s *Server) handleSetupComplete(w http.ResponseWriter, r *http.Request) {
	done, err := s.store.IsSetupCompleted(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if done {
		writeError(w, store.ErrSetupAlreadyCompleted)
		return
	}

	var req setupRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if !req.License.Accepted {
		writeFail(w, http.StatusBadRequest, "LICENSE_NOT_ACCEPTED", "The license must be accepted to complete setup.")
		return
	}

	req.Admin.Email = strings.TrimSpace(strings.ToLower(req.Admin.Email))
	if req.Admin.Email == "" || req.Admin.Password == "" {
		writeFail(w, http.StatusBadRequest, "BAD_REQUEST", "Admin email and password are required.")
		return
	}

	admins, err := s.store.CountAdmins(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if admins > 0 {
		writeFail(w, http.StatusConflict, "ADMIN_EXISTS", "An administrator account already exists.")
		return
	}

	hash, err := auth.HashPassword(req.Admin.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	now := time.Now().UTC()
	admin := &store.User{
		UID:          newUID(),
		Email:        req.Admin.Email,
		PasswordHash: hash,
		FirstName:    req.Admin.FirstName,
		LastName:     req.Admin.LastName,
		Role:         auth.RoleAdmin.String(),
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.store.CreateUser(r.Context(), admin); err != nil {
		writeError(w, err)
		return
	}

	if req.Branding != nil {
		if err := s.store.SetConfigRecord(r.Context(), store.ConfigWhiteLabel, req.Branding); err != nil {
			writeError(w, err)
			return
		}
	}

	if req.SMTP != nil {
		encrypted, err := s.secrets.Encrypt(req.SMTP.Password)
		if err != nil {
			writeError(w, err)
			return
		}
		smtp := store.SMTPConfig{
			Host:     req.SMTP.Host,
			Port:     req.SMTP.Port,
			Username: req.SMTP.Username,
			Password: encrypted,
			Sender:   req.SMTP.Sender,
			UseTLS:   req.SMTP.UseTLS,
		}
		if err := s.store.SetConfigRecord(r.Context(), store.ConfigSMTP, smtp); err != nil {
			writeError(w, err)
			return
		}
	}

	if req.Analytics != nil {
		encrypted, err := s.secrets.Encrypt(req.Analytics.APIKey)
		if err != nil {
			writeError(w, err)
			return
		}
		analytics := store.AnalyticsConfig{
			Provider: req.Analytics.Provider,
			SiteID:   req.Analytics.SiteID,
			APIKey:   encrypted,
			Enabled:  req.Analytics.Enabled,
		}
		if err := s.store.SetConfigRecord(r.Context(), store.ConfigAnalytics, analytics); err != nil {
			writeError(w, err)
			return
		}
	}

	selfSignup := "false"
	if req.SelfSignup {
		selfSignup = "true"
	}
	if err := s.store.SetSetting(r.Context(), store.SettingSelfSignup, selfSignup); err != nil {
		writeError(w, err)
		return
	}

	if err := s.store.CompleteSetup(r.Context()); err != nil {
		writeError(w, err)
		return
	}

	s.logger.Info("setup completed", "admin", admin.UID)
	writeOK(w, "Setup completed.", map[string]any{
		"user": userJSON(admin),
	})
}
