package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/google/go-cmp/cmp"

	"github.com/mmynk/groupcal/internal/auth"
	"github.com/mmynk/groupcal/internal/friends"
	"github.com/mmynk/groupcal/internal/groups"
	"github.com/mmynk/groupcal/internal/metrics"
	"github.com/mmynk/groupcal/internal/middleware"
	"github.com/mmynk/groupcal/internal/models"
	"github.com/mmynk/groupcal/internal/profiles"
	"github.com/mmynk/groupcal/internal/storage/sqlite"
	"github.com/mmynk/groupcal/pkg/api"
	"github.com/mmynk/groupcal/pkg/api/apiconnect"
)

const testSecret = "test-secret"

type testServer struct {
	url     string
	jwt     *auth.JWTManager
	metrics *metrics.Metrics
}

// setupTestServer serves both services over httptest with the production
// interceptor chain. Users alice, bob and carol have profiles.
func setupTestServer(t *testing.T, opts ...groups.Option) *testServer {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "service.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	lookup := profiles.NewLookup(store)
	for _, u := range []*models.User{
		{ID: "alice", Username: "Alice", Email: "alice@example.com", ProfilePic: "/img/alice.png"},
		{ID: "bob", Username: "Bob", Email: "bob@example.com"},
		{ID: "carol", Username: "Carol"},
	} {
		if err := lookup.Set(context.Background(), u); err != nil {
			t.Fatalf("failed to seed user: %v", err)
		}
	}

	m := metrics.New()
	jwtManager := auth.NewJWTManager(testSecret, time.Hour)
	interceptors := connect.WithInterceptors(
		middleware.MetricsInterceptor(m),
		middleware.RequireAuth(jwtManager),
		middleware.LoggingInterceptor(),
	)

	groupSvc := groups.NewService(store, append([]groups.Option{groups.WithMetrics(m)}, opts...)...)
	groupPath, groupHandler := apiconnect.NewGroupServiceHandler(NewGroupService(groupSvc), interceptors)
	friendPath, friendHandler := apiconnect.NewFriendServiceHandler(NewFriendService(friends.NewService(store)), interceptors)

	mux := http.NewServeMux()
	mux.Handle(groupPath, groupHandler)
	mux.Handle(friendPath, friendHandler)

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return &testServer{url: server.URL, jwt: jwtManager, metrics: m}
}

// bearer attaches a token for uid to outgoing requests.
func bearer(t *testing.T, jwtManager *auth.JWTManager, uid string) connect.ClientOption {
	t.Helper()
	token, err := jwtManager.Generate(uid, uid+"@example.com")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	return connect.WithInterceptors(connect.UnaryInterceptorFunc(func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			req.Header().Set("Authorization", "Bearer "+token)
			return next(ctx, req)
		}
	}))
}

func (s *testServer) groupClient(t *testing.T, uid string) apiconnect.GroupServiceClient {
	return apiconnect.NewGroupServiceClient(http.DefaultClient, s.url, bearer(t, s.jwt, uid))
}

func (s *testServer) friendClient(t *testing.T, uid string) apiconnect.FriendServiceClient {
	return apiconnect.NewFriendServiceClient(http.DefaultClient, s.url, bearer(t, s.jwt, uid))
}

func wantCode(t *testing.T, err error, code connect.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %v error, got nil", code)
	}
	if got := connect.CodeOf(err); got != code {
		t.Fatalf("expected code %v, got %v (%v)", code, got, err)
	}
}

func TestCreateGroup(t *testing.T) {
	srv := setupTestServer(t)
	client := srv.groupClient(t, "alice")
	ctx := context.Background()

	resp, err := client.CreateGroup(ctx, connect.NewRequest(&api.CreateGroupRequest{
		Name:         "Roommates",
		JoinAsMember: true,
	}))
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	if !resp.Msg.Created {
		t.Error("expected created=true")
	}

	g := resp.Msg.Group
	if g.Id != "Roommates" {
		t.Errorf("expected id Roommates, got %q", g.Id)
	}
	if g.CoverPhoto != models.DefaultCoverPhoto {
		t.Errorf("expected default cover photo, got %q", g.CoverPhoto)
	}
	if g.CreatedAt.AsTime().IsZero() {
		t.Error("expected createdAt to be set")
	}
	want := []*api.Member{{Uid: "alice", Username: "Alice", ProfilePic: "/img/alice.png"}}
	if diff := cmp.Diff(want, g.Members); diff != "" {
		t.Errorf("members mismatch (-want +got):\n%s", diff)
	}

	// Same name again reuses the group.
	again, err := srv.groupClient(t, "bob").CreateGroup(ctx, connect.NewRequest(&api.CreateGroupRequest{Name: "Roommates"}))
	if err != nil {
		t.Fatalf("second CreateGroup failed: %v", err)
	}
	if again.Msg.Created || again.Msg.Group.Id != "Roommates" {
		t.Errorf("expected existing group, got created=%v id=%q", again.Msg.Created, again.Msg.Group.Id)
	}
}

func TestCreateGroup_InvalidName(t *testing.T) {
	srv := setupTestServer(t)

	_, err := srv.groupClient(t, "alice").CreateGroup(context.Background(), connect.NewRequest(&api.CreateGroupRequest{Name: "a/b"}))
	wantCode(t, err, connect.CodeInvalidArgument)
}

func TestUnauthenticated(t *testing.T) {
	srv := setupTestServer(t)
	client := apiconnect.NewGroupServiceClient(http.DefaultClient, srv.url)

	_, err := client.GroupExists(context.Background(), connect.NewRequest(&api.GroupExistsRequest{GroupId: "x"}))
	wantCode(t, err, connect.CodeUnauthenticated)
}

func TestGroupExistsAndGetGroup(t *testing.T) {
	srv := setupTestServer(t)
	client := srv.groupClient(t, "alice")
	ctx := context.Background()

	exists, err := client.GroupExists(ctx, connect.NewRequest(&api.GroupExistsRequest{GroupId: "Chores"}))
	if err != nil {
		t.Fatalf("GroupExists failed: %v", err)
	}
	if exists.Msg.Exists {
		t.Error("group should not exist yet")
	}

	_, err = client.GetGroup(ctx, connect.NewRequest(&api.GetGroupRequest{GroupId: "Chores"}))
	wantCode(t, err, connect.CodeNotFound)

	if _, err := client.CreateGroup(ctx, connect.NewRequest(&api.CreateGroupRequest{Name: "Chores"})); err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	exists, err = client.GroupExists(ctx, connect.NewRequest(&api.GroupExistsRequest{GroupId: "Chores"}))
	if err != nil {
		t.Fatalf("GroupExists failed: %v", err)
	}
	if !exists.Msg.Exists {
		t.Error("group should exist")
	}
}

func TestMembership(t *testing.T) {
	srv := setupTestServer(t)
	alice := srv.groupClient(t, "alice")
	ctx := context.Background()

	if _, err := alice.CreateGroup(ctx, connect.NewRequest(&api.CreateGroupRequest{Name: "Chores", JoinAsMember: true})); err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}

	added, err := alice.AddMembers(ctx, connect.NewRequest(&api.AddMembersRequest{
		GroupId: "Chores",
		UserIds: []string{"bob", "alice", "bob", "carol"},
	}))
	if err != nil {
		t.Fatalf("AddMembers failed: %v", err)
	}
	if diff := cmp.Diff([]string{"bob", "carol"}, added.Msg.Added); diff != "" {
		t.Errorf("added mismatch (-want +got):\n%s", diff)
	}

	// bob adding himself again is a no-op.
	again, err := srv.groupClient(t, "bob").AddMember(ctx, connect.NewRequest(&api.AddMemberRequest{GroupId: "Chores"}))
	if err != nil {
		t.Fatalf("AddMember failed: %v", err)
	}
	if again.Msg.Added {
		t.Error("expected added=false for existing member")
	}

	members, err := alice.GetMembers(ctx, connect.NewRequest(&api.GetMembersRequest{GroupId: "Chores"}))
	if err != nil {
		t.Fatalf("GetMembers failed: %v", err)
	}
	want := []*api.MemberProfile{
		{Uid: "alice", Username: "Alice", Email: "alice@example.com", ProfilePic: "/img/alice.png"},
		{Uid: "bob", Username: "Bob", Email: "bob@example.com", ProfilePic: models.DefaultProfilePic},
		{Uid: "carol", Username: "Carol", ProfilePic: models.DefaultProfilePic},
	}
	if diff := cmp.Diff(want, members.Msg.Members); diff != "" {
		t.Errorf("members mismatch (-want +got):\n%s", diff)
	}

	mine, err := srv.groupClient(t, "carol").ListMyGroups(ctx, connect.NewRequest(&api.ListMyGroupsRequest{}))
	if err != nil {
		t.Fatalf("ListMyGroups failed: %v", err)
	}
	wantSummary := []*api.GroupSummary{{Name: "Chores", CoverPhoto: models.DefaultCoverPhoto, MemberCount: 3}}
	if diff := cmp.Diff(wantSummary, mine.Msg.Groups); diff != "" {
		t.Errorf("groups mismatch (-want +got):\n%s", diff)
	}

	_, err = alice.AddMember(ctx, connect.NewRequest(&api.AddMemberRequest{GroupId: "Nowhere", UserId: "bob"}))
	wantCode(t, err, connect.CodeNotFound)
}

func TestRemoveMember_LastMemberDeletesGroup(t *testing.T) {
	srv := setupTestServer(t)
	alice := srv.groupClient(t, "alice")
	bob := srv.groupClient(t, "bob")
	ctx := context.Background()

	if _, err := alice.CreateGroup(ctx, connect.NewRequest(&api.CreateGroupRequest{Name: "Duo", JoinAsMember: true})); err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	if _, err := bob.AddMember(ctx, connect.NewRequest(&api.AddMemberRequest{GroupId: "Duo"})); err != nil {
		t.Fatalf("AddMember failed: %v", err)
	}

	resp, err := alice.RemoveMember(ctx, connect.NewRequest(&api.RemoveMemberRequest{GroupId: "Duo"}))
	if err != nil {
		t.Fatalf("RemoveMember failed: %v", err)
	}
	if !resp.Msg.Removed || resp.Msg.GroupDeleted {
		t.Errorf("got removed=%v deleted=%v, want true/false", resp.Msg.Removed, resp.Msg.GroupDeleted)
	}

	resp, err = bob.RemoveMember(ctx, connect.NewRequest(&api.RemoveMemberRequest{GroupId: "Duo"}))
	if err != nil {
		t.Fatalf("RemoveMember failed: %v", err)
	}
	if !resp.Msg.Removed || !resp.Msg.GroupDeleted {
		t.Errorf("got removed=%v deleted=%v, want true/true", resp.Msg.Removed, resp.Msg.GroupDeleted)
	}

	exists, err := alice.GroupExists(ctx, connect.NewRequest(&api.GroupExistsRequest{GroupId: "Duo"}))
	if err != nil {
		t.Fatalf("GroupExists failed: %v", err)
	}
	if exists.Msg.Exists {
		t.Error("group should be gone after its last member left")
	}
}

func TestTasks(t *testing.T) {
	srv := setupTestServer(t)
	alice := srv.groupClient(t, "alice")
	bob := srv.groupClient(t, "bob")
	ctx := context.Background()

	if _, err := alice.CreateGroup(ctx, connect.NewRequest(&api.CreateGroupRequest{Name: "Flat", JoinAsMember: true})); err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	if _, err := bob.AddMember(ctx, connect.NewRequest(&api.AddMemberRequest{GroupId: "Flat"})); err != nil {
		t.Fatalf("AddMember failed: %v", err)
	}

	for _, in := range []*api.TaskInput{
		{Title: "Trash", Desc: "take it out", DateIso: "2024-03-05"},
		{Title: "Dishes", Desc: "wash them", DateIso: "2024-03-01", Priority: models.PriorityHigh},
	} {
		if _, err := alice.AddTask(ctx, connect.NewRequest(&api.AddTaskRequest{GroupId: "Flat", Task: in})); err != nil {
			t.Fatalf("AddTask(%s) failed: %v", in.Title, err)
		}
	}

	_, err := alice.AddTask(ctx, connect.NewRequest(&api.AddTaskRequest{GroupId: "Flat", Task: &api.TaskInput{Title: "No date", Desc: "x"}}))
	wantCode(t, err, connect.CodeInvalidArgument)

	list, err := alice.ListTasks(ctx, connect.NewRequest(&api.ListTasksRequest{GroupId: "Flat"}))
	if err != nil {
		t.Fatalf("ListTasks failed: %v", err)
	}
	var ids []string
	for _, task := range list.Msg.Tasks {
		ids = append(ids, task.Id)
	}
	wantIDs := []string{"2024-03-01\u00a0Dishes", "2024-03-05\u00a0Trash"}
	if diff := cmp.Diff(wantIDs, ids); diff != "" {
		t.Errorf("task order mismatch (-want +got):\n%s", diff)
	}

	dishesID := wantIDs[0]
	first, err := alice.CompleteTask(ctx, connect.NewRequest(&api.CompleteTaskRequest{GroupId: "Flat", TaskId: dishesID}))
	if err != nil {
		t.Fatalf("CompleteTask failed: %v", err)
	}
	if first.Msg.Cleared {
		t.Error("task should not clear until bob completes it")
	}
	if diff := cmp.Diff([]string{"bob"}, first.Msg.Remaining); diff != "" {
		t.Errorf("remaining mismatch (-want +got):\n%s", diff)
	}

	second, err := bob.CompleteTask(ctx, connect.NewRequest(&api.CompleteTaskRequest{GroupId: "Flat", TaskId: dishesID}))
	if err != nil {
		t.Fatalf("CompleteTask failed: %v", err)
	}
	if !second.Msg.Cleared || len(second.Msg.Remaining) != 0 {
		t.Errorf("expected cleared with nothing remaining, got %+v", second.Msg)
	}

	_, err = alice.GetTask(ctx, connect.NewRequest(&api.GetTaskRequest{GroupId: "Flat", TaskId: dishesID}))
	wantCode(t, err, connect.CodeNotFound)

	g, err := alice.GetGroup(ctx, connect.NewRequest(&api.GetGroupRequest{GroupId: "Flat"}))
	if err != nil {
		t.Fatalf("GetGroup failed: %v", err)
	}
	if g.Msg.Group.Completions != 1 {
		t.Errorf("expected 1 completion, got %d", g.Msg.Group.Completions)
	}

	// Removing a task does not count as a completion.
	if _, err := alice.RemoveTask(ctx, connect.NewRequest(&api.RemoveTaskRequest{GroupId: "Flat", TaskId: wantIDs[1]})); err != nil {
		t.Fatalf("RemoveTask failed: %v", err)
	}
	g, err = alice.GetGroup(ctx, connect.NewRequest(&api.GetGroupRequest{GroupId: "Flat"}))
	if err != nil {
		t.Fatalf("GetGroup failed: %v", err)
	}
	if g.Msg.Group.Completions != 1 {
		t.Errorf("expected completions to stay 1, got %d", g.Msg.Group.Completions)
	}
}

func TestSearchGroups(t *testing.T) {
	srv := setupTestServer(t)
	client := srv.groupClient(t, "alice")
	ctx := context.Background()

	for _, name := range []string{"Book Club", "Climbing", "bookkeeping"} {
		if _, err := client.CreateGroup(ctx, connect.NewRequest(&api.CreateGroupRequest{Name: name})); err != nil {
			t.Fatalf("CreateGroup(%q) failed: %v", name, err)
		}
	}

	resp, err := client.SearchGroups(ctx, connect.NewRequest(&api.SearchGroupsRequest{Pattern: "^book"}))
	if err != nil {
		t.Fatalf("SearchGroups failed: %v", err)
	}
	var names []string
	for _, g := range resp.Msg.Groups {
		names = append(names, g.Name)
	}
	if diff := cmp.Diff([]string{"Book Club", "bookkeeping"}, names); diff != "" {
		t.Errorf("search mismatch (-want +got):\n%s", diff)
	}

	_, err = client.SearchGroups(ctx, connect.NewRequest(&api.SearchGroupsRequest{Pattern: "("}))
	wantCode(t, err, connect.CodeInvalidArgument)
}

func TestMetricsInterceptor(t *testing.T) {
	srv := setupTestServer(t)
	client := srv.groupClient(t, "alice")

	if _, err := client.GroupExists(context.Background(), connect.NewRequest(&api.GroupExistsRequest{GroupId: "x"})); err != nil {
		t.Fatalf("GroupExists failed: %v", err)
	}

	rec := httptest.NewRecorder()
	srv.metrics.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	want := `groupcal_rpc_requests_total{code="ok",procedure="/groupcal.v1.GroupService/GroupExists"} 1`
	if !strings.Contains(rec.Body.String(), want) {
		t.Errorf("metrics output missing %q", want)
	}
}
