package handler

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/rl1809/stock-service/internal/adapter/handler/pb"
	"github.com/rl1809/stock-service/internal/core/domain"
	"github.com/rl1809/stock-service/internal/core/service"
)

type GRPCHandler struct {
	pb.UnimplementedInventoryServiceServer
	inventory *service.InventoryService
	log       logrus.FieldLogger
}

func NewGRPCHandler(inventory *service.InventoryService, log logrus.FieldLogger) *GRPCHandler {
	return &GRPCHandler{inventory: inventory, log: log}
}

func (h *GRPCHandler) CreateItem(ctx context.Context, req *pb.CreateItemRequest) (*pb.CreateItemResponse, error) {
	item, err := h.inventory.CreateItem(ctx, req.Name, int(req.Quantity))
	if err != nil {
		return nil, h.toStatus(err)
	}
	return &pb.CreateItemResponse{Item: toPBItem(item)}, nil
}

func (h *GRPCHandler) ListItems(ctx context.Context, _ *pb.ListItemsRequest) (*pb.ListItemsResponse, error) {
	items, err := h.inventory.ListItems(ctx)
	if err != nil {
		return nil, h.toStatus(err)
	}

	resp := &pb.ListItemsResponse{Items: make([]*pb.Item, 0, len(items))}
	for _, item := range items {
		resp.Items = append(resp.Items, toPBItem(item))
	}
	return resp, nil
}

func (h *GRPCHandler) UpdateItem(ctx context.Context, req *pb.UpdateItemRequest) (*pb.UpdateItemResponse, error) {
	item, err := h.inventory.UpdateItem(ctx, req.Id, req.Name, int(req.Quantity))
	if err != nil {
		return nil, h.toStatus(err)
	}
	return &pb.UpdateItemResponse{Item: toPBItem(item)}, nil
}

func (h *GRPCHandler) DeleteItem(ctx context.Context, req *pb.DeleteItemRequest) (*pb.DeleteItemResponse, error) {
	if err := h.inventory.DeleteItem(ctx, req.Id); err != nil {
		return nil, h.toStatus(err)
	}
	return &pb.DeleteItemResponse{}, nil
}

func (h *GRPCHandler) PurchaseItem(ctx context.Context, req *pb.PurchaseItemRequest) (*pb.PurchaseItemResponse, error) {
	sale, err := h.inventory.Purchase(ctx, req.Id, strings.TrimSpace(req.RequestId))
	if err != nil {
		return nil, h.toStatus(err)
	}

	return &pb.PurchaseItemResponse{
		SaleId:  sale.ID,
		Message: "item purchased successfully",
	}, nil
}

func (h *GRPCHandler) GetPrice(ctx context.Context, req *pb.GetPriceRequest) (*pb.GetPriceResponse, error) {
	quote, err := h.inventory.Quote(ctx, req.Id)
	if err != nil {
		return nil, h.toStatus(err)
	}

	perSale, perUnit := h.inventory.Pricer().Sensitivity(quote.Demand, quote.Item.Quantity)
	return &pb.GetPriceResponse{
		Name:              quote.Item.Name,
		Demand:            int32(quote.Demand),
		Quantity:          int32(quote.Item.Quantity),
		Price:             quote.Price.InexactFloat64(),
		DemandSensitivity: perSale.InexactFloat64(),
		StockSensitivity:  perUnit.InexactFloat64(),
	}, nil
}

func (h *GRPCHandler) toStatus(err error) error {
	switch {
	case errors.Is(err, domain.ErrItemNotFound):
		return status.Error(codes.NotFound, "item not found")
	case errors.Is(err, domain.ErrInsufficientStock):
		return status.Error(codes.FailedPrecondition, "sold out")
	case errors.Is(err, domain.ErrDuplicateRequest):
		return status.Error(codes.AlreadyExists, "duplicate request")
	case errors.Is(err, domain.ErrInvalidItem):
		return status.Error(codes.InvalidArgument, err.Error())
	}

	h.log.WithError(err).Error("grpc request failed")
	return status.Error(codes.Internal, "internal error")
}

func toPBItem(item domain.Item) *pb.Item {
	return &pb.Item{
		Id:       item.ID,
		Name:     item.Name,
		Quantity: int32(item.Quantity),
	}
}
