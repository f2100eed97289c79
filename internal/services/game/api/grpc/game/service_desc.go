package game

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "mathic.game.v1.DuelService"

// Method names.
const (
	MethodCreateSession  = "CreateSession"
	MethodConnect        = "Connect"
	MethodConnectRandom  = "ConnectRandom"
	MethodAttack         = "Attack"
	MethodLeavePlayer1   = "LeavePlayer1"
	MethodLeavePlayer2   = "LeavePlayer2"
	MethodSurrender      = "Surrender"
	MethodAnnounceStart  = "AnnounceStart"
	MethodListSessions   = "ListSessions"
	MethodListPlayers    = "ListPlayers"
	MethodGetSession     = "GetSession"
	MethodGetSessionFull = "GetSessionFull"
	MethodListEvents     = "ListEvents"
	MethodWatch          = "Watch"
)

// FullMethod returns the gRPC path of method.
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

// DuelServiceServer is the server API for DuelService.
type DuelServiceServer interface {
	CreateSession(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Connect(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ConnectRandom(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Attack(context.Context, *structpb.Struct) (*structpb.Struct, error)
	LeavePlayer1(context.Context, *structpb.Struct) (*structpb.Struct, error)
	LeavePlayer2(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Surrender(context.Context, *structpb.Struct) (*structpb.Struct, error)
	AnnounceStart(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListSessions(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListPlayers(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetSession(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetSessionFull(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListEvents(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Watch(*structpb.Struct, DuelService_WatchServer) error
}

// DuelService_WatchServer is the server side of the Watch stream.
type DuelService_WatchServer interface {
	Send(*structpb.Struct) error
	grpc.ServerStream
}

type unaryCall func(DuelServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(method string, call unaryCall) grpc.MethodDesc {
	fullMethod := FullMethod(method)
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(DuelServiceServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(DuelServiceServer), ctx, req.(*structpb.Struct))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

func watchHandler(srv any, stream grpc.ServerStream) error {
	in := new(structpb.Struct)
	if err := stream.RecvMsg(in); err != nil {
		return err
	}
	return srv.(DuelServiceServer).Watch(in, &duelServiceWatchServer{ServerStream: stream})
}

type duelServiceWatchServer struct {
	grpc.ServerStream
}

func (x *duelServiceWatchServer) Send(m *structpb.Struct) error {
	return x.ServerStream.SendMsg(m)
}

// DuelService_ServiceDesc is the grpc.ServiceDesc for DuelService.
var DuelService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*DuelServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unaryHandler(MethodCreateSession, DuelServiceServer.CreateSession),
		unaryHandler(MethodConnect, DuelServiceServer.Connect),
		unaryHandler(MethodConnectRandom, DuelServiceServer.ConnectRandom),
		unaryHandler(MethodAttack, DuelServiceServer.Attack),
		unaryHandler(MethodLeavePlayer1, DuelServiceServer.LeavePlayer1),
		unaryHandler(MethodLeavePlayer2, DuelServiceServer.LeavePlayer2),
		unaryHandler(MethodSurrender, DuelServiceServer.Surrender),
		unaryHandler(MethodAnnounceStart, DuelServiceServer.AnnounceStart),
		unaryHandler(MethodListSessions, DuelServiceServer.ListSessions),
		unaryHandler(MethodListPlayers, DuelServiceServer.ListPlayers),
		unaryHandler(MethodGetSession, DuelServiceServer.GetSession),
		unaryHandler(MethodGetSessionFull, DuelServiceServer.GetSessionFull),
		unaryHandler(MethodListEvents, DuelServiceServer.ListEvents),
	},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    MethodWatch,
			Handler:       watchHandler,
			ServerStreams: true,
		},
	},
	Metadata: "mathic/game/v1/duel.proto",
}

// RegisterDuelServiceServer registers srv on s.
func RegisterDuelServiceServer(s grpc.ServiceRegistrar, srv DuelServiceServer) {
	s.RegisterService(&DuelService_ServiceDesc, srv)
}
