package uaservices

import (
	"context"

	"github.com/rob-gra/go-opcua/ua"
	"github.com/rob-gra/go-opcua/uasession"
)

// SubscriptionService implements CreateSubscription (spec.md §4's
// MonitoredItem/Subscription family). Modify/Delete/SetPublishingMode
// are not named by any scenario and are left for a future family
// member; CreateSubscription alone is enough to host MonitoredItems.
type SubscriptionService struct{ Facade }

func NewSubscriptionService(session *uasession.Session) SubscriptionService {
	return SubscriptionService{New(session)}
}

func (s SubscriptionService) Create(ctx context.Context, req *CreateSubscriptionRequest) (*CreateSubscriptionResponse, error) {
	resp := &CreateSubscriptionResponse{}
	if err := s.sendSync(ctx, ua.CreateSubscriptionService.Request, ua.CreateSubscriptionService.Response, req, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (s SubscriptionService) CreateAsync(req *CreateSubscriptionRequest, resp *CreateSubscriptionResponse) (*uasession.ServiceTransaction, error) {
	return s.send(ua.CreateSubscriptionService.Request, ua.CreateSubscriptionService.Response, req, resp)
}
