// Package web serves the admin console as server-rendered HTML over gin.
package web

import (
	"embed"
	"errors"
	"html/template"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"fleetadmin/internal/apiclient"
	"fleetadmin/internal/console"
	"fleetadmin/internal/console/ui"
	"fleetadmin/internal/middleware"
	"fleetadmin/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	sessionCookie = "fleet_console"
	sessionKey    = "session"
	fieldPrefix   = "f:"
)

// Config wires the console server.
type Config struct {
	APIURL     string
	SessionTTL time.Duration
	HTTPClient *http.Client
	Pages      console.PageBuilder
}

// Server renders the console and forwards user actions to sessions.
type Server struct {
	cfg      Config
	sessions *SessionStore
	tmpl     *template.Template
}

func New(cfg Config) (*Server, error) {
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: apiclient.DefaultTimeout}
	}
	tmpl, err := template.New("").Funcs(templateFuncs()).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	s := &Server{cfg: cfg, tmpl: tmpl}
	s.sessions = NewSessionStore(cfg.SessionTTL, func() *console.Session {
		return console.NewSession(apiclient.New(cfg.APIURL, cfg.HTTPClient), cfg.Pages)
	})
	return s, nil
}

func (s *Server) Sessions() *SessionStore { return s.sessions }

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"button": func(variant, size string) string { return ui.Button(ui.Variant(variant), ui.Size(size)) },
		"badge":  func(variant string) string { return ui.Badge(ui.BadgeVariant(variant)) },
		"input":  ui.Input,
		"card":   func() string { return ui.CardClass },
		"fname":  func(key string) string { return fieldPrefix + key },
		"fmtTime": func(t time.Time) string {
			return t.Format("02 Jan 15:04")
		},
	}
}

// Router builds the gin engine of the console.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestID(), middleware.Logger(), middleware.Metrics())
	router.SetHTMLTemplate(s.tmpl)
	router.MaxMultipartMemory = service.MaxDocumentSize + 1<<20

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK", "sessions": s.sessions.Len()})
	})

	r := router.Group("/", s.withSession())
	r.GET("/login", s.loginPage)
	r.POST("/login", s.login)
	r.POST("/logout", s.logout)

	authed := r.Group("/", s.requireLogin())
	authed.GET("/", s.index)
	authed.POST("/nav", s.navigate)
	authed.POST("/action", s.action)
	authed.POST("/sidebar", s.toggleSidebar)
	authed.POST("/notifications/dismiss", s.dismiss)
	authed.GET("/reports/pdf", s.reportPDF)
	authed.GET("/payments/:id/pdf", s.proxy(func(c *gin.Context) string {
		return "/api/payments/" + url.PathEscape(c.Param("id")) + "/pdf"
	}))
	authed.GET("/documents/:id/file", s.proxy(func(c *gin.Context) string {
		return "/api/documents/" + url.PathEscape(c.Param("id")) + "/file"
	}))
	return router
}

// withSession attaches the session named by the cookie, if it is still live.
// Sessions are only created by a successful login.
func (s *Server) withSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if id, err := c.Cookie(sessionCookie); err == nil {
			if sess, ok := s.sessions.Get(id); ok {
				c.Set(sessionKey, sess)
				if u := sess.Auth.User(); u != nil {
					c.Set("username", u.Username)
				}
			}
		}
		c.Next()
	}
}

// session returns the request's session or nil.
func session(c *gin.Context) *console.Session {
	v, ok := c.Get(sessionKey)
	if !ok {
		return nil
	}
	sess, _ := v.(*console.Session)
	return sess
}

func (s *Server) requireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if sess := session(c); sess == nil || !sess.Auth.Authenticated() {
			c.Redirect(http.StatusSeeOther, "/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

func (s *Server) loginPage(c *gin.Context) {
	sess := session(c)
	if sess == nil {
		c.HTML(http.StatusOK, "login.html", gin.H{})
		return
	}
	if sess.Auth.Authenticated() {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}
	c.HTML(http.StatusOK, "login.html", gin.H{"Error": sess.TakeFlash()})
}

func (s *Server) login(c *gin.Context) {
	username := strings.TrimSpace(c.PostForm("username"))
	password := c.PostForm("password")
	if username == "" || password == "" {
		c.HTML(http.StatusBadRequest, "login.html", gin.H{"Error": "Username and password are required", "Username": username})
		return
	}
	sess := session(c)
	if sess == nil {
		sess = s.sessions.Build()
	}
	u, err := sess.Auth.Login(c.Request.Context(), username, password)
	if err != nil {
		logrus.WithField("username", username).WithError(err).Warn("Console login failed")
		c.HTML(http.StatusUnauthorized, "login.html", gin.H{"Error": apiclient.ErrorMessage(err), "Username": username})
		return
	}
	logrus.WithField("username", u.Username).Info("Console login")
	s.sessions.Add(sess)
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookie, sess.ID, 0, "/", "", gin.Mode() == gin.ReleaseMode, true)
	if err := sess.Navigate(c.Request.Context(), console.PageDashboard); err != nil {
		sess.SetFlash(apiclient.ErrorMessage(err))
	}
	c.Redirect(http.StatusSeeOther, "/")
}

func (s *Server) logout(c *gin.Context) {
	if sess := session(c); sess != nil {
		if err := sess.Auth.Logout(c.Request.Context()); err != nil {
			logrus.WithError(err).Warn("API logout failed")
		}
		s.sessions.Delete(sess.ID)
	}
	c.SetCookie(sessionCookie, "", -1, "/", "", gin.Mode() == gin.ReleaseMode, true)
	c.Redirect(http.StatusSeeOther, "/login")
}

type menuItem struct {
	Key    string
	Label  string
	Active bool
}

func (s *Server) index(c *gin.Context) {
	sess := session(c)
	key, page := sess.Shell.Current()
	menu := make([]menuItem, 0, len(console.AllPages))
	for _, k := range sess.Menu() {
		menu = append(menu, menuItem{Key: k.String(), Label: k.Label(), Active: k == key})
	}
	c.HTML(http.StatusOK, "layout.html", gin.H{
		"User":          sess.Auth.User(),
		"Menu":          menu,
		"SidebarOpen":   sess.Chrome.SidebarOpen(),
		"Notifications": sess.Chrome.Notifications(),
		"Flash":         sess.TakeFlash(),
		"Page":          page.View(),
	})
}

func (s *Server) navigate(c *gin.Context) {
	sess := session(c)
	key, err := console.ParsePageKey(c.PostForm("page"))
	if err == nil {
		err = sess.Navigate(c.Request.Context(), key)
	}
	s.afterAction(c, err)
}

// formValues collects "f:" fields. A repeated key keeps its last value so a
// checked box overrides its hidden "false".
func formValues(form url.Values) console.Values {
	var out console.Values
	for k, vals := range form {
		if !strings.HasPrefix(k, fieldPrefix) || len(vals) == 0 {
			continue
		}
		if out == nil {
			out = console.Values{}
		}
		out[strings.TrimPrefix(k, fieldPrefix)] = vals[len(vals)-1]
	}
	return out
}

func readAttachment(c *gin.Context) (*console.Attachment, error) {
	if c.Request.MultipartForm == nil {
		return nil, nil
	}
	fh, err := c.FormFile("file")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil
		}
		return nil, err
	}
	if fh.Size == 0 {
		return nil, nil
	}
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, service.MaxDocumentSize+1))
	if err != nil {
		return nil, err
	}
	return &console.Attachment{Name: fh.Filename, Data: data}, nil
}

func (s *Server) action(c *gin.Context) {
	sess := session(c)
	if err := c.Request.ParseMultipartForm(service.MaxDocumentSize + 1<<20); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		s.afterAction(c, err)
		return
	}
	file, err := readAttachment(c)
	if err != nil {
		s.afterAction(c, err)
		return
	}
	a := console.Action{
		Name:   c.PostForm("act"),
		ID:     c.PostForm("id"),
		Key:    c.PostForm("key"),
		Value:  c.PostForm("value"),
		Values: formValues(c.Request.PostForm),
		File:   file,
	}
	_, page := sess.Shell.Current()
	s.afterAction(c, page.Handle(c.Request.Context(), a))
}

// afterAction redirects back to the console. Errors the page already shows
// inline are not repeated as a flash. An expired token ends the session.
func (s *Server) afterAction(c *gin.Context, err error) {
	sess := session(c)
	if apiclient.IsUnauthorized(err) {
		_ = sess.Auth.Logout(c.Request.Context())
		sess.SetFlash("Your session has expired, please sign in again")
		c.Redirect(http.StatusSeeOther, "/login")
		return
	}
	var verrs console.ValidationErrors
	var apiErr *apiclient.APIError
	if err != nil && !errors.As(err, &verrs) && !errors.As(err, &apiErr) {
		sess.SetFlash(err.Error())
	}
	c.Redirect(http.StatusSeeOther, "/")
}

func (s *Server) toggleSidebar(c *gin.Context) {
	session(c).Chrome.ToggleSidebar()
	c.Redirect(http.StatusSeeOther, "/")
}

func (s *Server) dismiss(c *gin.Context) {
	session(c).Chrome.Dismiss(c.PostForm("id"))
	c.Redirect(http.StatusSeeOther, "/")
}

func (s *Server) reportPDF(c *gin.Context) {
	q := url.Values{"format": {"pdf"}}
	for _, k := range []string{"start", "end"} {
		if v := c.Query(k); v != "" {
			q.Set(k, v)
		}
	}
	path := "/api/reports/" + url.PathEscape(c.DefaultQuery("kind", "bookings"))
	s.sendRaw(c, path, q)
}

func (s *Server) proxy(path func(*gin.Context) string) gin.HandlerFunc {
	return func(c *gin.Context) {
		s.sendRaw(c, path(c), nil)
	}
}

func (s *Server) sendRaw(c *gin.Context, path string, q url.Values) {
	data, contentType, err := session(c).Client.Raw(c.Request.Context(), path, q)
	if err != nil {
		status := http.StatusBadGateway
		var apiErr *apiclient.APIError
		if errors.As(err, &apiErr) {
			status = apiErr.StatusCode
		}
		c.String(status, apiclient.ErrorMessage(err))
		return
	}
	c.Data(http.StatusOK, contentType, data)
}
