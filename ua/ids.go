package ua

// Well-known NodeIds in namespace 0, the standard OPC UA address space
// (companion spec part 5).
const (
	RootFolderID   uint32 = 84
	ObjectsFolderID uint32 = 85
	TypesFolderID   uint32 = 86
	ViewsFolderID   uint32 = 87
)

// RootNodeId, ObjectsNodeId, TypesNodeId and ViewsNodeId are the four
// folders the node-set builder expects under Root (spec.md §8, S3).
var (
	RootNodeId    = NewNumericNodeId(0, RootFolderID)
	ObjectsNodeId = NewNumericNodeId(0, ObjectsFolderID)
	TypesNodeId   = NewNumericNodeId(0, TypesFolderID)
	ViewsNodeId   = NewNumericNodeId(0, ViewsFolderID)
)

// Standard reference type ids (companion spec part 3, subclass 8.3x), the
// minimum set the node-set builder and InformationModel need to
// distinguish hierarchy from typing.
const (
	ReferenceTypeOrganizes        uint32 = 35
	ReferenceTypeHasComponent     uint32 = 47
	ReferenceTypeHasProperty      uint32 = 46
	ReferenceTypeHasTypeDefinition uint32 = 40
	ReferenceTypeHasSubtype       uint32 = 45
	ReferenceTypeHasModellingRule uint32 = 37
)

// NodeClass discriminates the eight node kinds of the information model
// (spec.md §3). The numeric values match the standard NodeClass bitmask
// encoding used on the wire (companion spec part 3, subclass 8.30), even
// though this stack only ever sets one bit at a time.
type NodeClass uint32

const (
	NodeClassUnspecified NodeClass = 0
	NodeClassObject       NodeClass = 1
	NodeClassVariable     NodeClass = 2
	NodeClassMethod       NodeClass = 4
	NodeClassObjectType   NodeClass = 8
	NodeClassVariableType NodeClass = 16
	NodeClassReferenceType NodeClass = 32
	NodeClassDataType     NodeClass = 64
	NodeClassView         NodeClass = 128
)

func (c NodeClass) String() string {
	switch c {
	case NodeClassObject:
		return "Object"
	case NodeClassVariable:
		return "Variable"
	case NodeClassMethod:
		return "Method"
	case NodeClassObjectType:
		return "ObjectType"
	case NodeClassVariableType:
		return "VariableType"
	case NodeClassReferenceType:
		return "ReferenceType"
	case NodeClassDataType:
		return "DataType"
	case NodeClassView:
		return "View"
	default:
		return "Unspecified"
	}
}

// AttributeId enumerates the readable/writable node attributes (spec.md
// §4.7's per-nodeClass attribute lists; companion spec part 4, table
// "Attributes").
type AttributeId uint32

const (
	AttributeNodeId AttributeId = iota + 1
	AttributeNodeClass
	AttributeBrowseName
	AttributeDisplayName
	AttributeDescription
	AttributeWriteMask
	AttributeUserWriteMask
	AttributeIsAbstract
	AttributeSymmetric
	AttributeInverseName
	AttributeContainsNoLoops
	AttributeEventNotifier
	AttributeValue
	AttributeDataType
	AttributeValueRank
	AttributeArrayDimensions
	AttributeAccessLevel
	AttributeUserAccessLevel
	AttributeMinimumSamplingInterval
	AttributeHistorizing
	AttributeExecutable
	AttributeUserExecutable
)

// ServiceID tabulates the Request/Response NodeId of every service family
// this core names (spec.md §6). Two values (CreateSessionRequest,
// BrowseResponse) are given literally by spec.md; the rest follow the same
// companion spec part 6 numbering scheme for representative purposes;
// this table is illustrative, not a byte-for-byte transcription of the
// official NodeIds.csv.
type ServiceID struct {
	Request  NodeId
	Response NodeId
}

func svc(req, resp uint32) ServiceID {
	return ServiceID{Request: NewNumericNodeId(0, req), Response: NewNumericNodeId(0, resp)}
}

var (
	OpenSecureChannelService     = svc(446, 449)
	CloseSecureChannelService    = svc(452, 455)
	CreateSessionService         = svc(461, 464)
	ActivateSessionService       = svc(467, 470)
	CloseSessionService          = svc(473, 476)
	ReadService                  = svc(631, 634)
	WriteService                 = svc(673, 676)
	BrowseService                = svc(527, 528)
	BrowseNextService            = svc(533, 536)
	TranslateBrowsePathsService  = svc(554, 557)
	CreateSubscriptionService    = svc(787, 790)
	CreateMonitoredItemsService  = svc(751, 754)
	ModifyMonitoredItemsService  = svc(763, 766)
	DeleteMonitoredItemsService  = svc(781, 784)
	SetMonitoringModeService     = svc(767, 770)
	SetTriggeringService         = svc(773, 776)
	PublishService               = svc(826, 829)
	RepublishService             = svc(832, 835)
)

// serviceNames supports logging/diagnostics without a reverse map per
// call site.
var serviceNames = map[NodeId]string{
	OpenSecureChannelService.Request:    "OpenSecureChannelRequest",
	OpenSecureChannelService.Response:   "OpenSecureChannelResponse",
	CloseSecureChannelService.Request:   "CloseSecureChannelRequest",
	CloseSecureChannelService.Response:  "CloseSecureChannelResponse",
	CreateSessionService.Request:        "CreateSessionRequest",
	CreateSessionService.Response:       "CreateSessionResponse",
	ActivateSessionService.Request:      "ActivateSessionRequest",
	ActivateSessionService.Response:     "ActivateSessionResponse",
	CloseSessionService.Request:         "CloseSessionRequest",
	CloseSessionService.Response:        "CloseSessionResponse",
	ReadService.Request:                 "ReadRequest",
	ReadService.Response:                "ReadResponse",
	WriteService.Request:                "WriteRequest",
	WriteService.Response:               "WriteResponse",
	BrowseService.Request:                "BrowseRequest",
	BrowseService.Response:               "BrowseResponse",
	BrowseNextService.Request:           "BrowseNextRequest",
	BrowseNextService.Response:          "BrowseNextResponse",
	TranslateBrowsePathsService.Request: "TranslateBrowsePathsToNodeIdsRequest",
	TranslateBrowsePathsService.Response: "TranslateBrowsePathsToNodeIdsResponse",
	CreateSubscriptionService.Request:   "CreateSubscriptionRequest",
	CreateSubscriptionService.Response:  "CreateSubscriptionResponse",
	CreateMonitoredItemsService.Request: "CreateMonitoredItemsRequest",
	CreateMonitoredItemsService.Response: "CreateMonitoredItemsResponse",
	ModifyMonitoredItemsService.Request: "ModifyMonitoredItemsRequest",
	ModifyMonitoredItemsService.Response: "ModifyMonitoredItemsResponse",
	DeleteMonitoredItemsService.Request: "DeleteMonitoredItemsRequest",
	DeleteMonitoredItemsService.Response: "DeleteMonitoredItemsResponse",
	SetMonitoringModeService.Request:    "SetMonitoringModeRequest",
	SetMonitoringModeService.Response:   "SetMonitoringModeResponse",
	SetTriggeringService.Request:        "SetTriggeringRequest",
	SetTriggeringService.Response:       "SetTriggeringResponse",
	PublishService.Request:              "PublishRequest",
	PublishService.Response:             "PublishResponse",
	RepublishService.Request:            "RepublishRequest",
	RepublishService.Response:           "RepublishResponse",
}

// ServiceName returns a human-readable name for a known service type id,
// or "" if typeId is not tabulated.
func ServiceName(typeId NodeId) string { return serviceNames[typeId] }
