package uaservices

import (
	"context"

	"github.com/rob-gra/go-opcua/ua"
	"github.com/rob-gra/go-opcua/uasession"
)

// AttributeService implements Read/Write (spec.md §4.5, §6).
type AttributeService struct{ Facade }

func NewAttributeService(session *uasession.Session) AttributeService {
	return AttributeService{New(session)}
}

// Read blocks until the server answers or ctx is done.
func (a AttributeService) Read(ctx context.Context, req *ReadRequest) (*ReadResponse, error) {
	resp := &ReadResponse{}
	if err := a.sendSync(ctx, ua.ReadService.Request, ua.ReadService.Response, req, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// ReadAsync queues req and returns immediately; the caller observes
// completion either through the returned transaction's Done()/Err(), or
// asynchronously through the callback registered with OnReadResponse
// (spec.md §4.5's receive() dispatch).
func (a AttributeService) ReadAsync(req *ReadRequest, resp *ReadResponse) (*uasession.ServiceTransaction, error) {
	return a.send(ua.ReadService.Request, ua.ReadService.Response, req, resp)
}

// OnReadResponse registers handler to be invoked whenever a ReadAsync
// transaction completes without a caller blocked on it (spec.md §4.5):
// the Session decodes the response body into the transaction's Response
// and routes it back to this façade, which hands that *ReadResponse and
// t.Err() to handler. A stale registration is simply overwritten by the
// next call.
func (a AttributeService) OnReadResponse(handler func(resp *ReadResponse, err error)) {
	a.onResponse(ua.ReadService.Response, func(t *uasession.ServiceTransaction) {
		resp, _ := t.Response.(*ReadResponse)
		handler(resp, t.Err())
	})
}

// Write blocks until the server answers or ctx is done.
func (a AttributeService) Write(ctx context.Context, req *WriteRequest) (*WriteResponse, error) {
	resp := &WriteResponse{}
	if err := a.sendSync(ctx, ua.WriteService.Request, ua.WriteService.Response, req, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (a AttributeService) WriteAsync(req *WriteRequest, resp *WriteResponse) (*uasession.ServiceTransaction, error) {
	return a.send(ua.WriteService.Request, ua.WriteService.Response, req, resp)
}
