package services

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"go-happyhour/models"
	apierrors "go-happyhour/utils/errors"
	"go-happyhour/utils/validate"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

const tokenTTL = 24 * time.Hour

// SessionState is what subscribers are told after every change.
type SessionState struct {
	User      *models.User `json:"user"`
	Token     string       `json:"token,omitempty"`
	IsLoading bool         `json:"is_loading"`
	Error     string       `json:"error,omitempty"`
}

type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Session owns the signed-in user and the callbacks listening for changes.
// It is created once and handed to whoever needs it.
type Session struct {
	jwtSecret []byte
	logger    *zap.SugaredLogger
	now       func() time.Time

	mu        sync.Mutex
	state     SessionState
	listeners map[int]func(SessionState)
	nextID    int
}

func NewSession(jwtSecret string, logger *zap.SugaredLogger) *Session {
	return &Session{
		jwtSecret: []byte(jwtSecret),
		logger:    logger,
		now:       time.Now,
		listeners: make(map[int]func(SessionState)),
	}
}

// Subscribe registers fn and returns the function that removes it.
func (s *Session) Subscribe(fn func(SessionState)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

func (s *Session) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Login signs in with a mock account chosen by the email: addresses
// containing "admin" get the admin role, "business" a business owner of
// business-1, anything else a customer. There is no password check.
func (s *Session) Login(ctx context.Context, creds Credentials) (SessionState, error) {
	if err := validate.Struct(creds); err != nil {
		return s.State(), apierrors.WithDetails(apierrors.ErrInvalidInput, err)
	}

	s.update(func(st *SessionState) {
		st.IsLoading = true
		st.Error = ""
	})

	user := mockUser(creds.Email)
	token, err := s.sign(user)
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		s.logger.Errorw("login failed", "email", creds.Email, "error", err)
		state := s.update(func(st *SessionState) {
			st.IsLoading = false
			st.Error = "Login failed"
		})
		return state, apierrors.Wrap(err, "LOGIN_ERROR", "Login failed", http.StatusInternalServerError)
	}

	state := s.update(func(st *SessionState) {
		*st = SessionState{User: &user, Token: token}
	})
	s.logger.Infow("user logged in", "user_id", user.ID, "role", user.Role)
	return state, nil
}

func (s *Session) Logout() SessionState {
	return s.update(func(st *SessionState) {
		*st = SessionState{}
	})
}

func (s *Session) IsAdmin() bool {
	st := s.State()
	return st.User != nil && st.User.Role == models.RoleAdmin
}

func (s *Session) IsBusiness() bool {
	st := s.State()
	return st.User != nil && st.User.Role == models.RoleBusiness
}

// update applies fn under the lock and notifies listeners outside it.
func (s *Session) update(fn func(*SessionState)) SessionState {
	s.mu.Lock()
	fn(&s.state)
	state := s.state
	listeners := make([]func(SessionState), 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.mu.Unlock()

	for _, l := range listeners {
		l(state)
	}
	return state
}

func (s *Session) sign(user models.User) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"userID": user.ID,
		"email":  user.Email,
		"role":   string(user.Role),
		"exp":    s.now().Add(tokenTTL).Unix(),
	})
	return token.SignedString(s.jwtSecret)
}

func mockUser(email string) models.User {
	switch {
	case strings.Contains(email, "admin"):
		return models.User{ID: "1", Email: email, Name: "Admin User", Role: models.RoleAdmin}
	case strings.Contains(email, "business"):
		return models.User{ID: "2", Email: email, Name: "Business Owner", Role: models.RoleBusiness, BusinessID: "business-1"}
	}
	return models.User{ID: "3", Email: email, Name: "Customer", Role: models.RoleCustomer}
}
