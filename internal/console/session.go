package console

import (
	"context"
	"errors"
	"sync"
	"time"

	"fleetadmin/internal/apiclient"
	"fleetadmin/internal/middleware"
	"fleetadmin/internal/model"

	"github.com/google/uuid"
)

// ErrForbidden is returned when the user may not open a page.
var ErrForbidden = errors.New("you do not have access to this page")

// User is the signed-in team member.
type User struct {
	ID          string
	Name        string
	Username    string
	Role        string
	Permissions []string
}

// Can reports whether the user may use a feature area. An empty feature is
// open to everyone.
func (u *User) Can(feature string) bool {
	if u == nil {
		return false
	}
	if feature == "" {
		return true
	}
	return middleware.HasPermission(u.Role, u.Permissions, feature)
}

// Auth holds the identity of one console session.
type Auth struct {
	client *apiclient.Client

	mu   sync.RWMutex
	user *User
}

func NewAuth(client *apiclient.Client) *Auth {
	return &Auth{client: client}
}

func (a *Auth) Login(ctx context.Context, username, password string) (*User, error) {
	res, err := a.client.Login(ctx, username, password)
	if err != nil {
		return nil, err
	}
	u := userFrom(res.User)
	a.mu.Lock()
	a.user = u
	a.mu.Unlock()
	return u, nil
}

func userFrom(m model.TeamMember) *User {
	return &User{
		ID:          m.ID.String(),
		Name:        m.Name,
		Username:    m.Username,
		Role:        m.Role,
		Permissions: append([]string(nil), m.Permissions...),
	}
}

// Logout forgets the user even when the API call fails.
func (a *Auth) Logout(ctx context.Context) error {
	err := a.client.Logout(ctx)
	a.mu.Lock()
	a.user = nil
	a.mu.Unlock()
	a.client.SetToken("")
	return err
}

func (a *Auth) User() *User {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.user
}

func (a *Auth) Authenticated() bool { return a.User() != nil }

// Notification is one entry of the in-memory notification list.
type Notification struct {
	ID      string
	Type    string
	Message string
	Time    time.Time
}

var nowFunc = time.Now

// Chrome is the sidebar state and the notification list.
type Chrome struct {
	mu            sync.Mutex
	sidebarOpen   bool
	notifications []Notification
}

// NewChrome starts with the sidebar open and three placeholder
// notifications.
func NewChrome() *Chrome {
	c := &Chrome{sidebarOpen: true}
	c.Notify("vehicle", "Vehicle insurance expiring soon")
	c.Notify("booking", "New booking request received")
	c.Notify("payment", "3 payments pending approval")
	return c
}

func (c *Chrome) ToggleSidebar() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sidebarOpen = !c.sidebarOpen
	return c.sidebarOpen
}

func (c *Chrome) SidebarOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sidebarOpen
}

// Notify puts a notification at the top of the list.
func (c *Chrome) Notify(kind, message string) {
	n := Notification{ID: uuid.NewString(), Type: kind, Message: message, Time: nowFunc()}
	c.mu.Lock()
	c.notifications = append([]Notification{n}, c.notifications...)
	c.mu.Unlock()
}

func (c *Chrome) Dismiss(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := c.notifications[:0:0]
	for _, n := range c.notifications {
		if n.ID != id {
			out = append(out, n)
		}
	}
	c.notifications = out
}

func (c *Chrome) Notifications() []Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Notification(nil), c.notifications...)
}

// Session is the console state of one browser.
type Session struct {
	ID     string
	Client *apiclient.Client
	Auth   *Auth
	Chrome *Chrome
	Shell  *Shell

	mu       sync.Mutex
	lastSeen time.Time
	flash    string
}

// PageBuilder creates the pages of a session.
type PageBuilder func(client *apiclient.Client, chrome *Chrome) Pages

// NewSession creates a signed-out session with its own API client.
func NewSession(client *apiclient.Client, build PageBuilder) *Session {
	chrome := NewChrome()
	return &Session{
		ID:       uuid.NewString(),
		Client:   client,
		Auth:     NewAuth(client),
		Chrome:   chrome,
		Shell:    NewShell(build(client, chrome)),
		lastSeen: nowFunc(),
	}
}

// Navigate opens a page the user has access to.
func (s *Session) Navigate(ctx context.Context, k PageKey) error {
	if !s.Auth.User().Can(k.Permission()) {
		return ErrForbidden
	}
	return s.Shell.Navigate(ctx, k)
}

// Menu lists the pages the user may open.
func (s *Session) Menu() []PageKey {
	u := s.Auth.User()
	out := make([]PageKey, 0, len(AllPages))
	for _, k := range AllPages {
		if u.Can(k.Permission()) {
			out = append(out, k)
		}
	}
	return out
}

func (s *Session) Touch() {
	s.mu.Lock()
	s.lastSeen = nowFunc()
	s.mu.Unlock()
}

func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// SetFlash stores a one-shot message shown on the next render.
func (s *Session) SetFlash(msg string) {
	s.mu.Lock()
	s.flash = msg
	s.mu.Unlock()
}

func (s *Session) TakeFlash() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	msg := s.flash
	s.flash = ""
	return msg
}
