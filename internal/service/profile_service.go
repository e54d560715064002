package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.uber.org/zap"

	"github.com/nexus-suite/helpdesk/internal/auth"
	"github.com/nexus-suite/helpdesk/internal/domain"
	"github.com/nexus-suite/helpdesk/internal/view"
)

// ErrNotEmployeeDashboard is returned for chat actions outside the employee dashboard.
var ErrNotEmployeeDashboard = errors.New("profile: employee dashboard required")

// TicketSnapshot exposes the tickets the admin dashboard shows.
type TicketSnapshot interface {
	Snapshot() []domain.Ticket
}

type profileState struct {
	router *view.Router
	chat   *ChatSession
}

// Profile cache defaults.
const (
	DefaultProfileCacheSize = 10000
	DefaultProfileIdleTTL   = 24 * time.Hour
)

// ProfileService holds the per-browser-profile state: the current view
// and, on the employee dashboard, the chat session. Profiles live in a
// bounded LRU; an evicted profile is rebuilt from its persisted session
// with a fresh chat. Anonymous profiles on the landing view are never
// cached.
type ProfileService struct {
	auth      *AuthService
	completer Completer
	snapshot  TicketSnapshot
	observer  ChatObserver
	logger    *zap.Logger

	profiles *expirable.LRU[string, *profileState]
	// mu guards profileState.chat and serializes cache inserts.
	mu sync.Mutex
}

// ProfileDependencies bundles collaborators for the profile service.
// Zero CacheSize and IdleTTL take the defaults.
type ProfileDependencies struct {
	Auth      *AuthService
	Completer Completer
	Snapshot  TicketSnapshot
	Observer  ChatObserver
	Logger    *zap.Logger
	CacheSize int
	IdleTTL   time.Duration
}

// NewProfileService constructs the service.
func NewProfileService(deps ProfileDependencies) *ProfileService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	size := deps.CacheSize
	if size <= 0 {
		size = DefaultProfileCacheSize
	}
	ttl := deps.IdleTTL
	if ttl <= 0 {
		ttl = DefaultProfileIdleTTL
	}
	return &ProfileService{
		auth:      deps.Auth,
		completer: deps.Completer,
		snapshot:  deps.Snapshot,
		observer:  deps.Observer,
		logger:    logger,
		profiles:  expirable.NewLRU[string, *profileState](size, nil, ttl),
	}
}

// profile returns the cached state for id or builds it from the persisted
// session. The store read happens outside any lock. With keep false, a
// profile with no session is returned without being cached.
func (s *ProfileService) profile(ctx context.Context, id string, keep bool) (*profileState, error) {
	if st, ok := s.profiles.Get(id); ok {
		s.profiles.Add(id, st)
		return st, nil
	}

	restored, err := s.auth.Restore(ctx, id)
	if err != nil {
		return nil, err
	}
	st := &profileState{router: view.NewRouter(restored)}
	if restored == nil && !keep {
		return st, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.profiles.Get(id); ok {
		return existing, nil
	}
	s.mountLocked(st)
	s.profiles.Add(id, st)
	return st, nil
}

// mountLocked resets the chat when the current view is the employee
// dashboard, and drops it otherwise.
func (s *ProfileService) mountLocked(st *profileState) {
	if v, ok := st.router.Current().(view.EmployeeDashboard); ok {
		st.chat = NewChatSession(v.Session, s.completer, s.logger, s.observer)
		return
	}
	st.chat = nil
}

// CurrentSession returns the live session of profileID, nil when logged out.
func (s *ProfileService) CurrentSession(ctx context.Context, profileID string) (*domain.Session, error) {
	st, err := s.profile(ctx, profileID, false)
	if err != nil {
		return nil, err
	}
	switch v := st.router.Current().(type) {
	case view.EmployeeDashboard:
		return &v.Session, nil
	case view.AdminDashboard:
		return &v.Session, nil
	default:
		return nil, nil
	}
}

// Page renders the current view of profileID.
func (s *ProfileService) Page(ctx context.Context, profileID string) (view.Page, error) {
	st, err := s.profile(ctx, profileID, false)
	if err != nil {
		return view.Page{}, err
	}
	return view.Render(st.router.Current(), &profileSource{state: st, snapshot: s.snapshot, mu: &s.mu})
}

// OpenLogin moves profileID from the landing view to the login view.
func (s *ProfileService) OpenLogin(ctx context.Context, profileID string) (view.View, error) {
	st, err := s.profile(ctx, profileID, true)
	if err != nil {
		return nil, err
	}
	return st.router.OpenLogin()
}

// Back returns profileID from the login view to the landing view.
func (s *ProfileService) Back(ctx context.Context, profileID string) (view.View, error) {
	st, err := s.profile(ctx, profileID, false)
	if err != nil {
		return nil, err
	}
	return st.router.Back()
}

// Login checks credentials. It is only accepted on the login view. On
// success the profile enters its dashboard; on rejection it stays on the
// login view with the generic message.
func (s *ProfileService) Login(ctx context.Context, profileID string, role domain.Role, identifier, secret string) (view.View, error) {
	st, err := s.profile(ctx, profileID, false)
	if err != nil {
		return nil, err
	}
	if _, ok := st.router.Current().(view.Login); !ok {
		return st.router.Current(), view.ErrInvalidTransition
	}
	session, err := s.auth.Login(ctx, profileID, role, identifier, secret)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return st.router.Rejected(auth.RejectionMessage), err
		}
		return st.router.Current(), err
	}

	current := st.router.Authenticated(*session)
	s.mu.Lock()
	s.mountLocked(st)
	s.mu.Unlock()
	return current, nil
}

// Logout clears the session and returns the profile to the landing view.
func (s *ProfileService) Logout(ctx context.Context, profileID string) (view.View, error) {
	st, err := s.profile(ctx, profileID, false)
	if err != nil {
		return nil, err
	}
	if err := s.auth.Logout(ctx, profileID); err != nil {
		return st.router.Current(), err
	}
	current := st.router.LoggedOut()
	s.mu.Lock()
	st.chat = nil
	s.mu.Unlock()
	return current, nil
}

// MountChat remounts the employee dashboard, resetting the transcript to
// the greeting.
func (s *ProfileService) MountChat(ctx context.Context, profileID string) (*ChatSession, error) {
	st, err := s.profile(ctx, profileID, false)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mountLocked(st)
	if st.chat == nil {
		return nil, ErrNotEmployeeDashboard
	}
	return st.chat, nil
}

// Chat returns the chat session of the mounted employee dashboard.
func (s *ProfileService) Chat(ctx context.Context, profileID string) (*ChatSession, error) {
	st, err := s.profile(ctx, profileID, false)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if st.chat == nil {
		return nil, ErrNotEmployeeDashboard
	}
	return st.chat, nil
}

type profileSource struct {
	state    *profileState
	snapshot TicketSnapshot
	mu       *sync.Mutex
}

func (p *profileSource) Chat() view.ChatState {
	p.mu.Lock()
	chat := p.state.chat
	p.mu.Unlock()
	if chat == nil {
		return view.ChatState{}
	}
	return view.ChatState{Messages: chat.Transcript(), Pending: chat.Pending()}
}

func (p *profileSource) Tickets() []domain.Ticket {
	if p.snapshot == nil {
		return []domain.Ticket{}
	}
	return p.snapshot.Snapshot()
}
