package grpctransport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/corray333/backend-labs/meatshop/internal/service/errs"
	"github.com/corray333/backend-labs/meatshop/internal/service/models/order"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// OrderTrackingServiceName is the fully qualified gRPC service name.
const OrderTrackingServiceName = "meatshop.v1.OrderTracking"

// Full method names, usable with grpc.ClientConn.Invoke.
const (
	GetOrderMethod    = "/" + OrderTrackingServiceName + "/GetOrder"
	TrackOrdersMethod = "/" + OrderTrackingServiceName + "/TrackOrders"
)

type orderTrackingServer interface {
	GetOrder(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	TrackOrders(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

// OrderTrackingServer exposes public order lookups over gRPC.
// Requests and responses are google.protobuf.Struct documents with the same
// field names as the HTTP API.
type OrderTrackingServer struct {
	service service
}

// NewOrderTrackingServer creates a new OrderTrackingServer.
func NewOrderTrackingServer(service service) *OrderTrackingServer {
	return &OrderTrackingServer{service: service}
}

// RegisterOrderTrackingServer registers srv on s.
func RegisterOrderTrackingServer(s grpc.ServiceRegistrar, srv *OrderTrackingServer) {
	s.RegisterService(&orderTrackingServiceDesc, srv)
}

// GetOrder expects {"orderId": "<code>"} and returns the order document.
func (s *OrderTrackingServer) GetOrder(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	code := req.GetFields()["orderId"].GetStringValue()
	if code == "" {
		return nil, status.Error(codes.InvalidArgument, "orderId is required")
	}

	o, err := s.service.GetByCode(ctx, code)
	if err != nil {
		return nil, toStatus(err)
	}

	return toStruct(o)
}

// TrackOrders expects {"phone": "<phone>"} and returns {"orders": [...], "count": n}.
func (s *OrderTrackingServer) TrackOrders(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	phone := req.GetFields()["phone"].GetStringValue()
	if phone == "" {
		return nil, status.Error(codes.InvalidArgument, "phone is required")
	}

	orders, err := s.service.ListByPhone(ctx, phone)
	if err != nil {
		return nil, toStatus(err)
	}

	return toStruct(struct {
		Orders []order.Order `json:"orders"`
		Count  int           `json:"count"`
	}{Orders: orders, Count: len(orders)})
}

// toStruct goes through JSON so the document matches the HTTP representation.
func toStruct(v any) (*structpb.Struct, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode response: %v", err)
	}

	fields := map[string]any{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode response: %v", err)
	}

	doc, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode response: %v", err)
	}

	return doc, nil
}

func toStatus(err error) error {
	message := errs.MessageOf(err)
	if message == "" {
		message = err.Error()
	}

	switch {
	case errors.Is(err, errs.ErrValidation):
		return status.Error(codes.InvalidArgument, message)
	case errors.Is(err, errs.ErrNotFound):
		return status.Error(codes.NotFound, message)
	case errors.Is(err, errs.ErrUnauthorized):
		return status.Error(codes.Unauthenticated, message)
	case errors.Is(err, errs.ErrForbidden):
		return status.Error(codes.PermissionDenied, message)
	case errors.Is(err, errs.ErrConflict):
		return status.Error(codes.AlreadyExists, message)
	case errors.Is(err, errs.ErrUnavailable):
		return status.Error(codes.Unavailable, message)
	default:
		return status.Error(codes.Internal, fmt.Sprintf("internal error: %v", err))
	}
}

func getOrderHandler(
	srv any,
	ctx context.Context,
	dec func(any) error,
	interceptor grpc.UnaryServerInterceptor,
) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(orderTrackingServer).GetOrder(ctx, in)
	}

	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: GetOrderMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(orderTrackingServer).GetOrder(ctx, req.(*structpb.Struct))
	}

	return interceptor(ctx, in, info, handler)
}

func trackOrdersHandler(
	srv any,
	ctx context.Context,
	dec func(any) error,
	interceptor grpc.UnaryServerInterceptor,
) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(orderTrackingServer).TrackOrders(ctx, in)
	}

	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: TrackOrdersMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(orderTrackingServer).TrackOrders(ctx, req.(*structpb.Struct))
	}

	return interceptor(ctx, in, info, handler)
}

var orderTrackingServiceDesc = grpc.ServiceDesc{
	ServiceName: OrderTrackingServiceName,
	HandlerType: (*orderTrackingServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetOrder", Handler: getOrderHandler},
		{MethodName: "TrackOrders", Handler: trackOrdersHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "meatshop/v1/order_tracking.proto",
}
