package uaservices

import (
	"context"

	"github.com/rob-gra/go-opcua/ua"
	"github.com/rob-gra/go-opcua/uasession"
)

// ViewService implements Browse/BrowseNext/TranslateBrowsePaths
// (spec.md §4.7). uabrowse's frontier-expansion orchestrator is its
// only caller.
type ViewService struct{ Facade }

func NewViewService(session *uasession.Session) ViewService {
	return ViewService{New(session)}
}

func (v ViewService) Browse(ctx context.Context, req *BrowseRequest) (*BrowseResponse, error) {
	resp := &BrowseResponse{}
	if err := v.sendSync(ctx, ua.BrowseService.Request, ua.BrowseService.Response, req, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (v ViewService) BrowseAsync(req *BrowseRequest, resp *BrowseResponse) (*uasession.ServiceTransaction, error) {
	return v.send(ua.BrowseService.Request, ua.BrowseService.Response, req, resp)
}

// OnBrowseResponse registers handler to be invoked whenever a
// BrowseAsync transaction completes without a caller blocked on it
// (spec.md §4.5). A stale registration is simply overwritten.
func (v ViewService) OnBrowseResponse(handler func(resp *BrowseResponse, err error)) {
	v.onResponse(ua.BrowseService.Response, func(t *uasession.ServiceTransaction) {
		resp, _ := t.Response.(*BrowseResponse)
		handler(resp, t.Err())
	})
}

func (v ViewService) BrowseNext(ctx context.Context, req *BrowseNextRequest) (*BrowseNextResponse, error) {
	resp := &BrowseNextResponse{}
	if err := v.sendSync(ctx, ua.BrowseNextService.Request, ua.BrowseNextService.Response, req, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (v ViewService) BrowseNextAsync(req *BrowseNextRequest, resp *BrowseNextResponse) (*uasession.ServiceTransaction, error) {
	return v.send(ua.BrowseNextService.Request, ua.BrowseNextService.Response, req, resp)
}

func (v ViewService) TranslateBrowsePaths(ctx context.Context, req *TranslateBrowsePathsToNodeIdsRequest) (*TranslateBrowsePathsToNodeIdsResponse, error) {
	resp := &TranslateBrowsePathsToNodeIdsResponse{}
	if err := v.sendSync(ctx, ua.TranslateBrowsePathsService.Request, ua.TranslateBrowsePathsService.Response, req, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (v ViewService) TranslateBrowsePathsAsync(req *TranslateBrowsePathsToNodeIdsRequest, resp *TranslateBrowsePathsToNodeIdsResponse) (*uasession.ServiceTransaction, error) {
	return v.send(ua.TranslateBrowsePathsService.Request, ua.TranslateBrowsePathsService.Response, req, resp)
}
