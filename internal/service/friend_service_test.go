package service

import (
	"context"
	"testing"

	"connectrpc.com/connect"
	"github.com/google/go-cmp/cmp"

	"github.com/mmynk/groupcal/internal/friends"
	"github.com/mmynk/groupcal/internal/models"
	"github.com/mmynk/groupcal/pkg/api"
)

func TestFriends(t *testing.T) {
	srv := setupTestServer(t)
	alice := srv.friendClient(t, "alice")
	bob := srv.friendClient(t, "bob")
	ctx := context.Background()

	resp, err := alice.AddFriend(ctx, connect.NewRequest(&api.AddFriendRequest{FriendId: "bob"}))
	if err != nil {
		t.Fatalf("AddFriend failed: %v", err)
	}
	if !resp.Msg.Created {
		t.Error("expected created=true")
	}
	if resp.Msg.Friendship.Id != friends.PairID("alice", "bob") {
		t.Errorf("unexpected friendship id %q", resp.Msg.Friendship.Id)
	}

	// The pair is unordered.
	again, err := bob.AddFriend(ctx, connect.NewRequest(&api.AddFriendRequest{FriendId: "alice"}))
	if err != nil {
		t.Fatalf("AddFriend failed: %v", err)
	}
	if again.Msg.Created || again.Msg.Friendship.Id != resp.Msg.Friendship.Id {
		t.Errorf("expected existing friendship, got %+v", again.Msg.Friendship)
	}

	if _, err := alice.AddFriend(ctx, connect.NewRequest(&api.AddFriendRequest{FriendId: "carol"})); err != nil {
		t.Fatalf("AddFriend failed: %v", err)
	}

	list, err := alice.ListFriends(ctx, connect.NewRequest(&api.ListFriendsRequest{}))
	if err != nil {
		t.Fatalf("ListFriends failed: %v", err)
	}
	want := []*api.FriendProfile{
		{Uid: "bob", Username: "Bob", ProfilePic: models.DefaultProfilePic},
		{Uid: "carol", Username: "Carol", ProfilePic: models.DefaultProfilePic},
	}
	if diff := cmp.Diff(want, list.Msg.Friends); diff != "" {
		t.Errorf("friends mismatch (-want +got):\n%s", diff)
	}

	removed, err := bob.RemoveFriend(ctx, connect.NewRequest(&api.RemoveFriendRequest{FriendId: "alice"}))
	if err != nil {
		t.Fatalf("RemoveFriend failed: %v", err)
	}
	if removed.Msg.Removed != 1 {
		t.Errorf("expected 1 removed, got %d", removed.Msg.Removed)
	}

	_, err = alice.AddFriend(ctx, connect.NewRequest(&api.AddFriendRequest{FriendId: "alice"}))
	wantCode(t, err, connect.CodeInvalidArgument)
}
