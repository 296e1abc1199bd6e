package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/groupcal/internal/friends"
	"github.com/mmynk/groupcal/internal/middleware"
	"github.com/mmynk/groupcal/pkg/api"
	"github.com/mmynk/groupcal/pkg/api/apiconnect"
)

// FriendService implements the Connect FriendService for the caller's own
// friendships.
type FriendService struct {
	apiconnect.UnimplementedFriendServiceHandler
	friends *friends.Service
}

func NewFriendService(svc *friends.Service) *FriendService {
	return &FriendService{friends: svc}
}

func (s *FriendService) AddFriend(ctx context.Context, req *connect.Request[api.AddFriendRequest]) (*connect.Response[api.AddFriendResponse], error) {
	uid, err := userOrCaller("", middleware.GetUserID(ctx))
	if err != nil {
		return nil, err
	}
	slog.Info("AddFriend request received", "user_id", uid, "friend_id", req.Msg.FriendId)

	f, created, err := s.friends.AddFriend(ctx, uid, req.Msg.FriendId)
	if err != nil {
		slog.Error("AddFriend failed", "user_id", uid, "friend_id", req.Msg.FriendId, "error", err)
		return nil, connectError(err)
	}

	return connect.NewResponse(&api.AddFriendResponse{
		Friendship: toAPIFriendship(f),
		Created:    created,
	}), nil
}

func (s *FriendService) RemoveFriend(ctx context.Context, req *connect.Request[api.RemoveFriendRequest]) (*connect.Response[api.RemoveFriendResponse], error) {
	uid, err := userOrCaller("", middleware.GetUserID(ctx))
	if err != nil {
		return nil, err
	}
	slog.Info("RemoveFriend request received", "user_id", uid, "friend_id", req.Msg.FriendId)

	n, err := s.friends.RemoveFriend(ctx, uid, req.Msg.FriendId)
	if err != nil {
		slog.Error("RemoveFriend failed", "user_id", uid, "friend_id", req.Msg.FriendId, "error", err)
		return nil, connectError(err)
	}

	return connect.NewResponse(&api.RemoveFriendResponse{Removed: int32(n)}), nil
}

func (s *FriendService) ListFriends(ctx context.Context, req *connect.Request[api.ListFriendsRequest]) (*connect.Response[api.ListFriendsResponse], error) {
	uid, err := userOrCaller("", middleware.GetUserID(ctx))
	if err != nil {
		return nil, err
	}

	list, err := s.friends.ListFriends(ctx, uid)
	if err != nil {
		slog.Error("ListFriends failed", "user_id", uid, "error", err)
		return nil, connectError(err)
	}

	out := make([]*api.FriendProfile, len(list))
	for i, f := range list {
		out[i] = &api.FriendProfile{Uid: f.UID, Username: f.Username, ProfilePic: f.ProfilePic}
	}
	return connect.NewResponse(&api.ListFriendsResponse{Friends: out}), nil
}
