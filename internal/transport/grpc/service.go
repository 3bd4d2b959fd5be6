package grpcserver

import (
	"context"
	"encoding/json"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// The reader service exchanges google.protobuf.Struct messages whose fields
// mirror the JSON shape of the domain types.
const (
	ServiceName = "dwreader.v1.WarehouseReader"

	GetMeasurementsMethod = "/" + ServiceName + "/GetMeasurements"
	GetAgreementsMethod   = "/" + ServiceName + "/GetAgreements"
	GetCustomersMethod    = "/" + ServiceName + "/GetCustomers"
	GetInvoicesMethod     = "/" + ServiceName + "/GetInvoices"
)

// WarehouseReaderServer is the server API for the reader service.
type WarehouseReaderServer interface {
	GetMeasurements(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetAgreements(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetCustomers(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetInvoices(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*WarehouseReaderServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetMeasurements", Handler: unaryHandler(GetMeasurementsMethod, WarehouseReaderServer.GetMeasurements)},
		{MethodName: "GetAgreements", Handler: unaryHandler(GetAgreementsMethod, WarehouseReaderServer.GetAgreements)},
		{MethodName: "GetCustomers", Handler: unaryHandler(GetCustomersMethod, WarehouseReaderServer.GetCustomers)},
		{MethodName: "GetInvoices", Handler: unaryHandler(GetInvoicesMethod, WarehouseReaderServer.GetInvoices)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "dwreader/v1/reader.proto",
}

func RegisterWarehouseReaderServer(s grpc.ServiceRegistrar, srv WarehouseReaderServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// unaryHandler adapts one WarehouseReaderServer method to a grpc.MethodDesc
// handler.
func unaryHandler(
	fullMethod string,
	call func(WarehouseReaderServer, context.Context, *structpb.Struct) (*structpb.Struct, error),
) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(WarehouseReaderServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(WarehouseReaderServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// toStruct converts v through its JSON form. Decimals and timestamps travel as
// strings, so no precision is lost.
func toStruct(v any) (*structpb.Struct, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode message: %w", err)
	}
	s := &structpb.Struct{}
	if err := protojson.Unmarshal(b, s); err != nil {
		return nil, fmt.Errorf("encode message: %w", err)
	}
	return s, nil
}

func fromStruct(s *structpb.Struct, v any) error {
	b, err := protojson.Marshal(s)
	if err != nil {
		return fmt.Errorf("decode message: %w", err)
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("decode message: %w", err)
	}
	return nil
}
