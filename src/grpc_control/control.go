package grpc_control

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

// Messages are protobuf well-known types: requests and replies that carry
// data travel as google.protobuf.Struct holding the JSON form of the models.

const ServiceName = "analyst.control.v1.AnalystControl"

const (
	AnalystControl_Refresh_FullMethodName     = "/" + ServiceName + "/Refresh"
	AnalystControl_GetReport_FullMethodName   = "/" + ServiceName + "/GetReport"
	AnalystControl_ListSources_FullMethodName = "/" + ServiceName + "/ListSources"
	AnalystControl_SetSource_FullMethodName   = "/" + ServiceName + "/SetSource"
	AnalystControl_Health_FullMethodName      = "/" + ServiceName + "/Health"
)

// -----------------------------------------------------------------------------
// Server API
// -----------------------------------------------------------------------------

type AnalystControlServer interface {
	Refresh(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetReport(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	ListSources(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	SetSource(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Health(context.Context, *emptypb.Empty) (*structpb.Struct, error)
}

func RegisterAnalystControlServer(s grpc.ServiceRegistrar, srv AnalystControlServer) {
	s.RegisterService(&AnalystControl_ServiceDesc, srv)
}

// -----------------------------------------------------------------------------

func unaryHandler[Req any](method string, call func(AnalystControlServer, context.Context, *Req) (*structpb.Struct, error)) grpc.MethodHandler {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(AnalystControlServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: method,
		}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(srv.(AnalystControlServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

var AnalystControl_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*AnalystControlServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Refresh",
			Handler:    unaryHandler(AnalystControl_Refresh_FullMethodName, AnalystControlServer.Refresh),
		},
		{
			MethodName: "GetReport",
			Handler:    unaryHandler(AnalystControl_GetReport_FullMethodName, AnalystControlServer.GetReport),
		},
		{
			MethodName: "ListSources",
			Handler:    unaryHandler(AnalystControl_ListSources_FullMethodName, AnalystControlServer.ListSources),
		},
		{
			MethodName: "SetSource",
			Handler:    unaryHandler(AnalystControl_SetSource_FullMethodName, AnalystControlServer.SetSource),
		},
		{
			MethodName: "Health",
			Handler:    unaryHandler(AnalystControl_Health_FullMethodName, AnalystControlServer.Health),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "analyst/control/v1/control.proto",
}

// -----------------------------------------------------------------------------
// Client API
// -----------------------------------------------------------------------------

type AnalystControlClient struct {
	cc grpc.ClientConnInterface
}

func NewAnalystControlClient(cc grpc.ClientConnInterface) *AnalystControlClient {
	return &AnalystControlClient{cc: cc}
}

func (c *AnalystControlClient) invoke(ctx context.Context, method string, in interface{}, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *AnalystControlClient) Refresh(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, AnalystControl_Refresh_FullMethodName, in, opts...)
}

func (c *AnalystControlClient) GetReport(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, AnalystControl_GetReport_FullMethodName, in, opts...)
}

func (c *AnalystControlClient) ListSources(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, AnalystControl_ListSources_FullMethodName, in, opts...)
}

func (c *AnalystControlClient) SetSource(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, AnalystControl_SetSource_FullMethodName, in, opts...)
}

func (c *AnalystControlClient) Health(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, AnalystControl_Health_FullMethodName, in, opts...)
}
