package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// ExecuteMethod is the full method name of CommandService.Execute.
const ExecuteMethod = "/geoloc.v1.CommandService/Execute"

// CommandServer is the server API for the geoloc.v1.CommandService service.
type CommandServer interface {
	Execute(context.Context, *wrapperspb.StringValue) (*wrapperspb.StringValue, error)
}

// RegisterCommandServer registers srv on s.
func RegisterCommandServer(s grpc.ServiceRegistrar, srv CommandServer) {
	s.RegisterService(&CommandServiceDesc, srv)
}

func executeHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CommandServer).Execute(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: ExecuteMethod,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(CommandServer).Execute(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

// CommandServiceDesc describes geoloc.v1.CommandService. Requests and
// responses are protocol lines carried in google.protobuf.StringValue.
var CommandServiceDesc = grpc.ServiceDesc{
	ServiceName: "geoloc.v1.CommandService",
	HandlerType: (*CommandServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Execute",
			Handler:    executeHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "geoloc/v1/command.proto",
}

// CommandClient calls geoloc.v1.CommandService.
type CommandClient struct {
	cc grpc.ClientConnInterface
}

// NewCommandClient returns a client over cc.
func NewCommandClient(cc grpc.ClientConnInterface) *CommandClient {
	return &CommandClient{cc: cc}
}

// Execute sends one protocol line and returns the response line.
func (c *CommandClient) Execute(ctx context.Context, line string, opts ...grpc.CallOption) (string, error) {
	out := new(wrapperspb.StringValue)
	if err := c.cc.Invoke(ctx, ExecuteMethod, wrapperspb.String(line), out, opts...); err != nil {
		return "", err
	}
	return out.GetValue(), nil
}
