package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/yungbote/workbook-backend/internal/data/repos"
	types "github.com/yungbote/workbook-backend/internal/domain"
	"github.com/yungbote/workbook-backend/internal/platform/ctxutil"
	"github.com/yungbote/workbook-backend/internal/platform/dbctx"
	"github.com/yungbote/workbook-backend/internal/platform/logger"
	"github.com/yungbote/workbook-backend/internal/session"
)

// ErrInvalidSession covers a missing, forged, expired or logged-out cookie.
var ErrInvalidSession = errors.New("Invalid session.")

// SessionEvents receives login/logout counters. *observability.Metrics
// satisfies it; nil is allowed.
type SessionEvents interface {
	IncSessionEvent(event string)
}

type Login struct {
	Session session.Session
	Token   string
	User    *types.User
}

type SessionService interface {
	Login(ctx context.Context, username string) (*Login, error)
	// Resolve maps a cookie token to the acting user.
	Resolve(ctx context.Context, token string) (*ctxutil.ActorData, error)
	Logout(ctx context.Context, token string) error
	Codec() *session.CookieCodec
}

type sessionService struct {
	log    *logger.Logger
	users  repos.UserRepo
	store  session.Store
	codec  *session.CookieCodec
	events SessionEvents
}

func NewSessionService(log *logger.Logger, users repos.UserRepo, store session.Store, codec *session.CookieCodec, events SessionEvents) SessionService {
	return &sessionService{
		log:    log.With("service", "SessionService"),
		users:  users,
		store:  store,
		codec:  codec,
		events: events,
	}
}

func (s *sessionService) Codec() *session.CookieCodec { return s.codec }

func (s *sessionService) event(name string) {
	if s.events != nil {
		s.events.IncSessionEvent(name)
	}
}

func (s *sessionService) Login(ctx context.Context, username string) (*Login, error) {
	const op = "Session.Login"
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, invalid(op, "user name is required")
	}
	u, err := s.users.GetByName(dbctx.Of(ctx), username)
	if err != nil {
		return nil, internal(op, err)
	}
	if u == nil {
		s.event("login_rejected")
		return nil, notFound(op, "User with name %s does not exist.", username)
	}
	sess, err := s.store.Create(ctx, u.ID)
	if err != nil {
		return nil, internal(op, err)
	}
	token, err := s.codec.Encode(sess)
	if err != nil {
		_ = s.store.Delete(ctx, sess.ID)
		return nil, internal(op, err)
	}
	s.event("login")
	s.log.Info("session created", "actor_id", u.ID.String(), "session_id", sess.ID)
	return &Login{Session: sess, Token: token, User: u}, nil
}

func (s *sessionService) Resolve(ctx context.Context, token string) (*ctxutil.ActorData, error) {
	sid, err := s.codec.Decode(token)
	if err != nil {
		s.event("lookup_rejected")
		return nil, ErrInvalidSession
	}
	actorID, err := s.store.Lookup(ctx, sid)
	if errors.Is(err, session.ErrNotFound) {
		s.event("lookup_rejected")
		return nil, ErrInvalidSession
	}
	if err != nil {
		return nil, err
	}
	if actorID == uuid.Nil {
		return nil, ErrInvalidSession
	}
	return &ctxutil.ActorData{ActorID: actorID, SessionID: sid}, nil
}

func (s *sessionService) Logout(ctx context.Context, token string) error {
	sid, err := s.codec.Decode(token)
	if err != nil {
		return ErrInvalidSession
	}
	if err := s.store.Delete(ctx, sid); err != nil {
		return internal("Session.Logout", err)
	}
	s.event("logout")
	return nil
}
