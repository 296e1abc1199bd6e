package apiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/groupcal/pkg/api"
)

// FriendServiceName is the fully-qualified name of the FriendService service.
const FriendServiceName = "groupcal.v1.FriendService"

// Procedure paths for FriendService.
const (
	FriendServiceAddFriendProcedure    = "/groupcal.v1.FriendService/AddFriend"
	FriendServiceRemoveFriendProcedure = "/groupcal.v1.FriendService/RemoveFriend"
	FriendServiceListFriendsProcedure  = "/groupcal.v1.FriendService/ListFriends"
)

// FriendServiceHandler is implemented by the server side of FriendService.
type FriendServiceHandler interface {
	AddFriend(context.Context, *connect.Request[api.AddFriendRequest]) (*connect.Response[api.AddFriendResponse], error)
	RemoveFriend(context.Context, *connect.Request[api.RemoveFriendRequest]) (*connect.Response[api.RemoveFriendResponse], error)
	ListFriends(context.Context, *connect.Request[api.ListFriendsRequest]) (*connect.Response[api.ListFriendsResponse], error)
}

// NewFriendServiceHandler builds an HTTP handler for svc. It returns the path
// to mount it on.
func NewFriendServiceHandler(svc FriendServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = withCodec(opts)
	routes := map[string]http.Handler{
		FriendServiceAddFriendProcedure:    connect.NewUnaryHandler(FriendServiceAddFriendProcedure, svc.AddFriend, opts...),
		FriendServiceRemoveFriendProcedure: connect.NewUnaryHandler(FriendServiceRemoveFriendProcedure, svc.RemoveFriend, opts...),
		FriendServiceListFriendsProcedure:  connect.NewUnaryHandler(FriendServiceListFriendsProcedure, svc.ListFriends, opts...),
	}
	return "/" + FriendServiceName + "/", route(routes)
}

// FriendServiceClient is a client for FriendService.
type FriendServiceClient interface {
	AddFriend(context.Context, *connect.Request[api.AddFriendRequest]) (*connect.Response[api.AddFriendResponse], error)
	RemoveFriend(context.Context, *connect.Request[api.RemoveFriendRequest]) (*connect.Response[api.RemoveFriendResponse], error)
	ListFriends(context.Context, *connect.Request[api.ListFriendsRequest]) (*connect.Response[api.ListFriendsResponse], error)
}

// NewFriendServiceClient constructs a client for the FriendService at baseURL.
func NewFriendServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) FriendServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = withClientCodec(opts)
	return &friendServiceClient{
		addFriend:    connect.NewClient[api.AddFriendRequest, api.AddFriendResponse](httpClient, baseURL+FriendServiceAddFriendProcedure, opts...),
		removeFriend: connect.NewClient[api.RemoveFriendRequest, api.RemoveFriendResponse](httpClient, baseURL+FriendServiceRemoveFriendProcedure, opts...),
		listFriends:  connect.NewClient[api.ListFriendsRequest, api.ListFriendsResponse](httpClient, baseURL+FriendServiceListFriendsProcedure, opts...),
	}
}

type friendServiceClient struct {
	addFriend    *connect.Client[api.AddFriendRequest, api.AddFriendResponse]
	removeFriend *connect.Client[api.RemoveFriendRequest, api.RemoveFriendResponse]
	listFriends  *connect.Client[api.ListFriendsRequest, api.ListFriendsResponse]
}

func (c *friendServiceClient) AddFriend(ctx context.Context, req *connect.Request[api.AddFriendRequest]) (*connect.Response[api.AddFriendResponse], error) {
	return c.addFriend.CallUnary(ctx, req)
}

func (c *friendServiceClient) RemoveFriend(ctx context.Context, req *connect.Request[api.RemoveFriendRequest]) (*connect.Response[api.RemoveFriendResponse], error) {
	return c.removeFriend.CallUnary(ctx, req)
}

func (c *friendServiceClient) ListFriends(ctx context.Context, req *connect.Request[api.ListFriendsRequest]) (*connect.Response[api.ListFriendsResponse], error) {
	return c.listFriends.CallUnary(ctx, req)
}

// UnimplementedFriendServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedFriendServiceHandler struct{}

func (UnimplementedFriendServiceHandler) AddFriend(context.Context, *connect.Request[api.AddFriendRequest]) (*connect.Response[api.AddFriendResponse], error) {
	return nil, unimplemented(FriendServiceAddFriendProcedure)
}

func (UnimplementedFriendServiceHandler) RemoveFriend(context.Context, *connect.Request[api.RemoveFriendRequest]) (*connect.Response[api.RemoveFriendResponse], error) {
	return nil, unimplemented(FriendServiceRemoveFriendProcedure)
}

func (UnimplementedFriendServiceHandler) ListFriends(context.Context, *connect.Request[api.ListFriendsRequest]) (*connect.Response[api.ListFriendsResponse], error) {
	return nil, unimplemented(FriendServiceListFriendsProcedure)
}
