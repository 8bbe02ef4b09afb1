package uaservices

import (
	"context"

	"github.com/rob-gra/go-opcua/ua"
	"github.com/rob-gra/go-opcua/uasession"
)

// PublishService implements Publish/Republish (spec.md §4's
// Subscription family). Publish is unusual among services in that a
// client typically keeps several outstanding at once so the server
// always has a slot to answer into; callers that want this pattern
// drive PublishAsync in a loop rather than calling the blocking form.
type PublishService struct{ Facade }

func NewPublishService(session *uasession.Session) PublishService {
	return PublishService{New(session)}
}

func (p PublishService) Publish(ctx context.Context, req *PublishRequest) (*PublishResponse, error) {
	resp := &PublishResponse{}
	if err := p.sendSync(ctx, ua.PublishService.Request, ua.PublishService.Response, req, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (p PublishService) PublishAsync(req *PublishRequest, resp *PublishResponse) (*uasession.ServiceTransaction, error) {
	return p.send(ua.PublishService.Request, ua.PublishService.Response, req, resp)
}

func (p PublishService) Republish(ctx context.Context, req *RepublishRequest) (*RepublishResponse, error) {
	resp := &RepublishResponse{}
	if err := p.sendSync(ctx, ua.RepublishService.Request, ua.RepublishService.Response, req, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (p PublishService) RepublishAsync(req *RepublishRequest, resp *RepublishResponse) (*uasession.ServiceTransaction, error) {
	return p.send(ua.RepublishService.Request, ua.RepublishService.Response, req, resp)
}
