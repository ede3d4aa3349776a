package server

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"

	"github.com/Zachkp/cs-journey/internal/analytics"
	"github.com/Zachkp/cs-journey/internal/portfolio"
	"github.com/Zachkp/cs-journey/internal/resume"
	"github.com/Zachkp/cs-journey/internal/session"
	"github.com/Zachkp/cs-journey/internal/view"
)

// loadSession binds the request to its dashboard state, creating a fresh
// seeded state when the cookie is missing, tampered with or expired.
func (s *Server) loadSession(c *gin.Context) (*session.State, *sessions.Session) {
	cookie, err := s.cookies.Get(c.Request, cookieName)
	if err != nil {
		s.logger.Debug("Discarding unreadable session cookie", zap.Error(err))
	}

	id, _ := cookie.Values[keySessionID].(string)
	st, created := s.store.GetOrCreate(id)
	if created {
		cookie.Values[keySessionID] = st.ID
	}
	return st, cookie
}

func (s *Server) saveSession(c *gin.Context, cookie *sessions.Session) bool {
	if err := cookie.Save(c.Request, c.Writer); err != nil {
		s.logger.Error("Failed to save session cookie", zap.Error(err))
		_ = c.Error(err)
		c.String(http.StatusInternalServerError, "session error")
		return false
	}
	return true
}

// handleIndex is the render pass: read state, build the page, print it.
func (s *Server) handleIndex(c *gin.Context) {
	st, cookie := s.loadSession(c)

	var notices []session.Notification
	for _, f := range cookie.Flashes() {
		if n, ok := f.(session.Notification); ok {
			notices = append(notices, n)
		}
	}
	if !s.saveSession(c, cookie) {
		return
	}

	page := view.Render(st.Snapshot(), s.content)
	c.HTML(http.StatusOK, "index.html", gin.H{
		"Page":    page,
		"Notices": notices,
	})
}

func (s *Server) handleSelectProject(c *gin.Context) {
	key := c.PostForm("project")
	s.dispatch(c, session.ProjectSelected{Key: key}, "projects", analytics.KindSelect, key)
}

func (s *Server) handleBoost(c *gin.Context) {
	lang := c.PostForm("language")
	s.dispatch(c, session.BoostRequested{Language: lang}, "booster", analytics.KindBoost, lang)
}

func (s *Server) handleLogStudy(c *gin.Context) {
	lang := c.PostForm("language")
	hours, err := strconv.ParseFloat(strings.TrimSpace(c.PostForm("duration")), 64)
	if err != nil {
		s.badRequest(c, "Study duration must be a number of hours.", err)
		return
	}
	s.dispatch(c, session.LogSubmitted{Language: lang, Hours: hours}, "study-log", analytics.KindLog, lang)
}

// dispatch runs one event against the caller's session and redirects back
// to the page, which re-renders from the mutated state.
func (s *Server) dispatch(c *gin.Context, ev session.Event, anchor, kind, subject string) {
	st, cookie := s.loadSession(c)

	notice, err := session.Dispatch(st, ev)
	if err != nil {
		if !s.saveSession(c, cookie) {
			return
		}
		s.badRequest(c, rejectionMessage(err), err)
		return
	}

	s.logger.Info("Dashboard event",
		zap.String("session_id", shortID(st.ID)),
		zap.String("kind", kind),
		zap.String("subject", subject),
		zap.String("notice", string(notice.Kind)),
	)
	if s.tracker != nil {
		if err := s.tracker.RecordInteraction(c.Request.Context(), kind, subject); err != nil {
			s.logger.Warn("Error recording interaction", zap.Error(err))
		}
	}

	if notice.Message != "" {
		cookie.AddFlash(notice)
	}
	if !s.saveSession(c, cookie) {
		return
	}
	c.Redirect(http.StatusSeeOther, "/#"+anchor)
}

func (s *Server) badRequest(c *gin.Context, message string, err error) {
	_ = c.Error(err)
	c.HTML(http.StatusBadRequest, "error.html", gin.H{
		"title":   "Request rejected",
		"message": message,
	})
}

func rejectionMessage(err error) string {
	switch {
	case errors.Is(err, session.ErrUnknownLanguage):
		return "That language is not part of the skill set."
	case errors.Is(err, session.ErrDurationOutOfRange):
		return "Study duration must be between 0.1 and 10 hours."
	case errors.Is(err, portfolio.ErrUnknownProject):
		return "That project does not exist."
	default:
		return "The request could not be applied."
	}
}

func (s *Server) handleResume(c *gin.Context) {
	c.Header("Content-Disposition", `attachment; filename="`+resume.Filename+`"`)
	c.Data(http.StatusOK, resume.ContentType, []byte(resume.Text(s.content)))
}

func (s *Server) handleStudyLogExport(c *gin.Context) {
	st, cookie := s.loadSession(c)
	if !s.saveSession(c, cookie) {
		return
	}

	var b strings.Builder
	if err := resume.WriteStudyLog(&b, st.Snapshot().Log); err != nil {
		_ = c.Error(err)
		c.String(http.StatusInternalServerError, "failed to export study log")
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+resume.StudyLogFile+`"`)
	c.Data(http.StatusOK, resume.ContentType, []byte(b.String()))
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
