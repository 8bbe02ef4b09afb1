package uaservices

import (
	"context"

	"github.com/rob-gra/go-opcua/ua"
	"github.com/rob-gra/go-opcua/uasession"
)

// SessionService implements CloseSession and then tears down the
// underlying uasession.Session, whether or not the server answered
// (spec.md §4's session lifecycle).
type SessionService struct{ Facade }

func NewSessionService(session *uasession.Session) SessionService {
	return SessionService{New(session)}
}

// Close sends CloseSessionRequest, then closes the secure channel
// regardless of whether the server answered in time — a session with
// no channel underneath it is closed either way.
func (s SessionService) Close(ctx context.Context, deleteSubscriptions bool) error {
	req := &CloseSessionRequest{DeleteSubscriptions: deleteSubscriptions}
	resp := &CloseSessionResponse{}
	sendErr := s.sendSync(ctx, ua.CloseSessionService.Request, ua.CloseSessionService.Response, req, resp)
	if closeErr := s.session.Close(); closeErr != nil {
		return closeErr
	}
	return sendErr
}
