package grpctransport_test

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/corray333/backend-labs/meatshop/internal/service/errs"
	"github.com/corray333/backend-labs/meatshop/internal/service/models/order"
	grpctransport "github.com/corray333/backend-labs/meatshop/internal/transport/grpc"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"
)

type stubService struct {
	orders map[string]order.Order
}

func (s stubService) GetByCode(_ context.Context, code string) (order.Order, error) {
	o, ok := s.orders[code]
	if !ok {
		return order.Order{}, errs.New(errs.ErrNotFound, "ORDER_NOT_FOUND", "Order not found")
	}

	return o, nil
}

func (s stubService) ListByPhone(_ context.Context, phone string) ([]order.Order, error) {
	result := []order.Order{}
	for _, o := range s.orders {
		if o.Phone == phone {
			result = append(result, o)
		}
	}

	return result, nil
}

func dial(t *testing.T, svc stubService) *grpc.ClientConn {
	t.Helper()

	listener := bufconn.Listen(1 << 20)
	server := grpc.NewServer()
	grpctransport.RegisterOrderTrackingServer(server, grpctransport.NewOrderTrackingServer(svc))

	go func() {
		_ = server.Serve(listener)
	}()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return listener.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = conn.Close()
		server.Stop()
	})

	return conn
}

func TestOrderTracking(t *testing.T) {
	defer goleak.VerifyNone(t)

	placed := order.Order{
		ID:          1,
		Code:        "MS2610190042",
		Phone:       "9876543210",
		TotalAmount: decimal.NewFromInt(700),
		Status:      order.StatusPending,
		CreatedAt:   time.Date(2026, time.October, 19, 10, 0, 0, 0, time.UTC),
	}
	svc := stubService{orders: map[string]order.Order{placed.Code: placed}}

	t.Run("grpc: get order", func(t *testing.T) {
		conn := dial(t, svc)
		req, err := structpb.NewStruct(map[string]any{"orderId": placed.Code})
		require.NoError(t, err)

		resp := &structpb.Struct{}
		require.NoError(t, conn.Invoke(t.Context(), grpctransport.GetOrderMethod, req, resp))
		assert.Equal(t, placed.Code, resp.GetFields()["orderId"].GetStringValue())
		assert.Equal(t, "pending", resp.GetFields()["status"].GetStringValue())
	})

	t.Run("grpc: unknown order", func(t *testing.T) {
		conn := dial(t, svc)
		req, err := structpb.NewStruct(map[string]any{"orderId": "MS0000000000"})
		require.NoError(t, err)

		err = conn.Invoke(t.Context(), grpctransport.GetOrderMethod, req, &structpb.Struct{})
		assert.Equal(t, codes.NotFound, status.Code(err))
		assert.Equal(t, "Order not found", status.Convert(err).Message())
	})

	t.Run("grpc: missing phone", func(t *testing.T) {
		conn := dial(t, svc)

		err := conn.Invoke(t.Context(), grpctransport.TrackOrdersMethod, &structpb.Struct{}, &structpb.Struct{})
		assert.Equal(t, codes.InvalidArgument, status.Code(err))
	})

	t.Run("grpc: track orders", func(t *testing.T) {
		conn := dial(t, svc)
		req, err := structpb.NewStruct(map[string]any{"phone": placed.Phone})
		require.NoError(t, err)

		resp := &structpb.Struct{}
		require.NoError(t, conn.Invoke(t.Context(), grpctransport.TrackOrdersMethod, req, resp))
		assert.InDelta(t, 1, resp.GetFields()["count"].GetNumberValue(), 0)
		assert.Len(t, resp.GetFields()["orders"].GetListValue().GetValues(), 1)
	})
}
