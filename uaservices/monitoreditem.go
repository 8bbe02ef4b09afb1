package uaservices

import (
	"context"

	"github.com/rob-gra/go-opcua/ua"
	"github.com/rob-gra/go-opcua/uasession"
)

// MonitoredItemService implements Create/Modify/Delete/SetMonitoringMode/
// SetTriggering (spec.md §4's MonitoredItem family).
type MonitoredItemService struct{ Facade }

func NewMonitoredItemService(session *uasession.Session) MonitoredItemService {
	return MonitoredItemService{New(session)}
}

func (m MonitoredItemService) Create(ctx context.Context, req *CreateMonitoredItemsRequest) (*CreateMonitoredItemsResponse, error) {
	resp := &CreateMonitoredItemsResponse{}
	if err := m.sendSync(ctx, ua.CreateMonitoredItemsService.Request, ua.CreateMonitoredItemsService.Response, req, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (m MonitoredItemService) CreateAsync(req *CreateMonitoredItemsRequest, resp *CreateMonitoredItemsResponse) (*uasession.ServiceTransaction, error) {
	return m.send(ua.CreateMonitoredItemsService.Request, ua.CreateMonitoredItemsService.Response, req, resp)
}

func (m MonitoredItemService) Modify(ctx context.Context, req *ModifyMonitoredItemsRequest) (*ModifyMonitoredItemsResponse, error) {
	resp := &ModifyMonitoredItemsResponse{}
	if err := m.sendSync(ctx, ua.ModifyMonitoredItemsService.Request, ua.ModifyMonitoredItemsService.Response, req, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (m MonitoredItemService) ModifyAsync(req *ModifyMonitoredItemsRequest, resp *ModifyMonitoredItemsResponse) (*uasession.ServiceTransaction, error) {
	return m.send(ua.ModifyMonitoredItemsService.Request, ua.ModifyMonitoredItemsService.Response, req, resp)
}

func (m MonitoredItemService) Delete(ctx context.Context, req *DeleteMonitoredItemsRequest) (*DeleteMonitoredItemsResponse, error) {
	resp := &DeleteMonitoredItemsResponse{}
	if err := m.sendSync(ctx, ua.DeleteMonitoredItemsService.Request, ua.DeleteMonitoredItemsService.Response, req, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (m MonitoredItemService) DeleteAsync(req *DeleteMonitoredItemsRequest, resp *DeleteMonitoredItemsResponse) (*uasession.ServiceTransaction, error) {
	return m.send(ua.DeleteMonitoredItemsService.Request, ua.DeleteMonitoredItemsService.Response, req, resp)
}

func (m MonitoredItemService) SetMonitoringMode(ctx context.Context, req *SetMonitoringModeRequest) (*SetMonitoringModeResponse, error) {
	resp := &SetMonitoringModeResponse{}
	if err := m.sendSync(ctx, ua.SetMonitoringModeService.Request, ua.SetMonitoringModeService.Response, req, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (m MonitoredItemService) SetMonitoringModeAsync(req *SetMonitoringModeRequest, resp *SetMonitoringModeResponse) (*uasession.ServiceTransaction, error) {
	return m.send(ua.SetMonitoringModeService.Request, ua.SetMonitoringModeService.Response, req, resp)
}

func (m MonitoredItemService) SetTriggering(ctx context.Context, req *SetTriggeringRequest) (*SetTriggeringResponse, error) {
	resp := &SetTriggeringResponse{}
	if err := m.sendSync(ctx, ua.SetTriggeringService.Request, ua.SetTriggeringService.Response, req, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (m MonitoredItemService) SetTriggeringAsync(req *SetTriggeringRequest, resp *SetTriggeringResponse) (*uasession.ServiceTransaction, error) {
	return m.send(ua.SetTriggeringService.Request, ua.SetTriggeringService.Response, req, resp)
}
