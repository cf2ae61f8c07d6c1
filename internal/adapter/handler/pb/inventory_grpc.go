package pb

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	InventoryService_CreateItem_FullMethodName   = "/inventory.v1.InventoryService/CreateItem"
	InventoryService_ListItems_FullMethodName    = "/inventory.v1.InventoryService/ListItems"
	InventoryService_UpdateItem_FullMethodName   = "/inventory.v1.InventoryService/UpdateItem"
	InventoryService_DeleteItem_FullMethodName   = "/inventory.v1.InventoryService/DeleteItem"
	InventoryService_PurchaseItem_FullMethodName = "/inventory.v1.InventoryService/PurchaseItem"
	InventoryService_GetPrice_FullMethodName     = "/inventory.v1.InventoryService/GetPrice"
)

type InventoryServiceClient interface {
	CreateItem(ctx context.Context, in *CreateItemRequest, opts ...grpc.CallOption) (*CreateItemResponse, error)
	ListItems(ctx context.Context, in *ListItemsRequest, opts ...grpc.CallOption) (*ListItemsResponse, error)
	UpdateItem(ctx context.Context, in *UpdateItemRequest, opts ...grpc.CallOption) (*UpdateItemResponse, error)
	DeleteItem(ctx context.Context, in *DeleteItemRequest, opts ...grpc.CallOption) (*DeleteItemResponse, error)
	PurchaseItem(ctx context.Context, in *PurchaseItemRequest, opts ...grpc.CallOption) (*PurchaseItemResponse, error)
	GetPrice(ctx context.Context, in *GetPriceRequest, opts ...grpc.CallOption) (*GetPriceResponse, error)
}

type inventoryServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewInventoryServiceClient returns a client that sends every call with the JSON codec.
func NewInventoryServiceClient(cc grpc.ClientConnInterface) InventoryServiceClient {
	return &inventoryServiceClient{cc}
}

func (c *inventoryServiceClient) invoke(ctx context.Context, method string, in, out any, opts []grpc.CallOption) error {
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	return c.cc.Invoke(ctx, method, in, out, opts...)
}

func (c *inventoryServiceClient) CreateItem(ctx context.Context, in *CreateItemRequest, opts ...grpc.CallOption) (*CreateItemResponse, error) {
	out := new(CreateItemResponse)
	if err := c.invoke(ctx, InventoryService_CreateItem_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *inventoryServiceClient) ListItems(ctx context.Context, in *ListItemsRequest, opts ...grpc.CallOption) (*ListItemsResponse, error) {
	out := new(ListItemsResponse)
	if err := c.invoke(ctx, InventoryService_ListItems_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *inventoryServiceClient) UpdateItem(ctx context.Context, in *UpdateItemRequest, opts ...grpc.CallOption) (*UpdateItemResponse, error) {
	out := new(UpdateItemResponse)
	if err := c.invoke(ctx, InventoryService_UpdateItem_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *inventoryServiceClient) DeleteItem(ctx context.Context, in *DeleteItemRequest, opts ...grpc.CallOption) (*DeleteItemResponse, error) {
	out := new(DeleteItemResponse)
	if err := c.invoke(ctx, InventoryService_DeleteItem_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *inventoryServiceClient) PurchaseItem(ctx context.Context, in *PurchaseItemRequest, opts ...grpc.CallOption) (*PurchaseItemResponse, error) {
	out := new(PurchaseItemResponse)
	if err := c.invoke(ctx, InventoryService_PurchaseItem_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *inventoryServiceClient) GetPrice(ctx context.Context, in *GetPriceRequest, opts ...grpc.CallOption) (*GetPriceResponse, error) {
	out := new(GetPriceResponse)
	if err := c.invoke(ctx, InventoryService_GetPrice_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

type InventoryServiceServer interface {
	CreateItem(context.Context, *CreateItemRequest) (*CreateItemResponse, error)
	ListItems(context.Context, *ListItemsRequest) (*ListItemsResponse, error)
	UpdateItem(context.Context, *UpdateItemRequest) (*UpdateItemResponse, error)
	DeleteItem(context.Context, *DeleteItemRequest) (*DeleteItemResponse, error)
	PurchaseItem(context.Context, *PurchaseItemRequest) (*PurchaseItemResponse, error)
	GetPrice(context.Context, *GetPriceRequest) (*GetPriceResponse, error)
}

// UnimplementedInventoryServiceServer can be embedded to keep servers forward compatible.
type UnimplementedInventoryServiceServer struct{}

func (UnimplementedInventoryServiceServer) CreateItem(context.Context, *CreateItemRequest) (*CreateItemResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method CreateItem not implemented")
}
func (UnimplementedInventoryServiceServer) ListItems(context.Context, *ListItemsRequest) (*ListItemsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListItems not implemented")
}
func (UnimplementedInventoryServiceServer) UpdateItem(context.Context, *UpdateItemRequest) (*UpdateItemResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method UpdateItem not implemented")
}
func (UnimplementedInventoryServiceServer) DeleteItem(context.Context, *DeleteItemRequest) (*DeleteItemResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method DeleteItem not implemented")
}
func (UnimplementedInventoryServiceServer) PurchaseItem(context.Context, *PurchaseItemRequest) (*PurchaseItemResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method PurchaseItem not implemented")
}
func (UnimplementedInventoryServiceServer) GetPrice(context.Context, *GetPriceRequest) (*GetPriceResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetPrice not implemented")
}

func RegisterInventoryServiceServer(s grpc.ServiceRegistrar, srv InventoryServiceServer) {
	s.RegisterService(&InventoryService_ServiceDesc, srv)
}

// unaryHandler adapts a typed method to grpc.MethodHandler.
func unaryHandler[Req any, Resp any](fullMethod string, call func(InventoryServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(InventoryServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(InventoryServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

var InventoryService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "inventory.v1.InventoryService",
	HandlerType: (*InventoryServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "CreateItem",
			Handler:    unaryHandler(InventoryService_CreateItem_FullMethodName, InventoryServiceServer.CreateItem),
		},
		{
			MethodName: "ListItems",
			Handler:    unaryHandler(InventoryService_ListItems_FullMethodName, InventoryServiceServer.ListItems),
		},
		{
			MethodName: "UpdateItem",
			Handler:    unaryHandler(InventoryService_UpdateItem_FullMethodName, InventoryServiceServer.UpdateItem),
		},
		{
			MethodName: "DeleteItem",
			Handler:    unaryHandler(InventoryService_DeleteItem_FullMethodName, InventoryServiceServer.DeleteItem),
		},
		{
			MethodName: "PurchaseItem",
			Handler:    unaryHandler(InventoryService_PurchaseItem_FullMethodName, InventoryServiceServer.PurchaseItem),
		},
		{
			MethodName: "GetPrice",
			Handler:    unaryHandler(InventoryService_GetPrice_FullMethodName, InventoryServiceServer.GetPrice),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "inventory/v1/inventory.proto",
}
