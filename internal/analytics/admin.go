package analytics

import (
	"crypto/subtle"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const adminCookie = "admin_token"

// Admin serves the token-protected analytics pages.
type Admin struct {
	tracker  *Tracker
	username string
	password string
	token    string
	secure   bool
	logger   *zap.Logger
}

// NewAdmin creates the admin pages. The token set on login is random per
// process, so restarting the server logs the admin out.
func NewAdmin(tracker *Tracker, username, password string, secureCookie bool, logger *zap.Logger) (*Admin, error) {
	if password == "" {
		return nil, fmt.Errorf("admin password is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	token, err := randomToken()
	if err != nil {
		return nil, err
	}
	return &Admin{
		tracker:  tracker,
		username: username,
		password: password,
		token:    token,
		secure:   secureCookie,
		logger:   logger,
	}, nil
}

func (a *Admin) requireToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(adminCookie)
		if err != nil || subtle.ConstantTimeCompare([]byte(token), []byte(a.token)) != 1 {
			c.Redirect(http.StatusFound, "/admin/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

func (a *Admin) validCredentials(username, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(a.username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(a.password)) == 1
	return userOK && passOK
}

// RegisterRoutes mounts /admin/* on r.
func (a *Admin) RegisterRoutes(r *gin.Engine) {
	r.GET("/admin/login", func(c *gin.Context) {
		c.HTML(http.StatusOK, "admin-login.html", gin.H{"title": "Admin Login"})
	})

	r.POST("/admin/login", func(c *gin.Context) {
		if !a.validCredentials(c.PostForm("username"), c.PostForm("password")) {
			a.logger.Warn("Failed admin login attempt", zap.String("client", a.tracker.HashIP(c.ClientIP())))
			c.HTML(http.StatusUnauthorized, "admin-login.html", gin.H{
				"title": "Admin Login",
				"error": "Invalid credentials",
			})
			return
		}

		c.SetSameSite(http.SameSiteStrictMode)
		c.SetCookie(adminCookie, a.token, 3600*24, "/admin", "", a.secure, true)
		a.logger.Info("Admin login successful", zap.String("client", a.tracker.HashIP(c.ClientIP())))
		c.Redirect(http.StatusFound, "/admin/dashboard")
	})

	r.GET("/admin/logout", func(c *gin.Context) {
		c.SetCookie(adminCookie, "", -1, "/admin", "", a.secure, true)
		c.Redirect(http.StatusFound, "/admin/login")
	})

	group := r.Group("/admin")
	group.Use(a.requireToken())

	group.GET("/dashboard", func(c *gin.Context) {
		stats, err := a.tracker.Stats(c.Request.Context())
		if err != nil {
			a.logger.Error("Error loading admin stats", zap.Error(err))
			_ = c.Error(err)
			c.HTML(http.StatusInternalServerError, "error.html", gin.H{
				"title":   "Admin",
				"message": "Failed to load statistics",
			})
			return
		}
		c.HTML(http.StatusOK, "admin-dashboard.html", gin.H{
			"title": "Analytics",
			"stats": stats,
		})
	})

	group.GET("/api/stats", func(c *gin.Context) {
		stats, err := a.tracker.Stats(c.Request.Context())
		if err != nil {
			_ = c.Error(err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load statistics"})
			return
		}
		c.JSON(http.StatusOK, stats)
	})

	group.GET("/export/stats", func(c *gin.Context) {
		stats, err := a.tracker.Stats(c.Request.Context())
		if err != nil {
			_ = c.Error(err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load statistics"})
			return
		}
		c.Header("Content-Disposition", "attachment; filename=analytics-stats.json")
		c.JSON(http.StatusOK, stats)
	})
}
