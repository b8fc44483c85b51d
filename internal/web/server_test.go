package web

import (
	"bytes"
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/alexanderramin/arbor/internal/contract"
	"github.com/alexanderramin/arbor/internal/domain"
	"github.com/alexanderramin/arbor/internal/logging"
	"github.com/alexanderramin/arbor/internal/repository"
	"github.com/alexanderramin/arbor/internal/service"
	"github.com/alexanderramin/arbor/internal/testutil"
	"github.com/alexanderramin/arbor/internal/tree"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	ts     *httptest.Server
	repo   *repository.MemoryListRepo
	listID string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	repo := repository.NewMemoryListRepo()
	l := testutil.NewTestList("Leisure", testutil.WithItems(tree.NormalizeTree(testutil.LeisureForest())...))
	require.NoError(t, repo.Create(context.Background(), l))

	srv, err := NewServer(ServerConfig{
		Addr:   "127.0.0.1:0",
		Lists:  service.NewListService(repo),
		Logger: logging.Discard(),
	})
	require.NoError(t, err)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return &fixture{ts: ts, repo: repo, listID: l.ID}
}

func (f *fixture) items(t *testing.T) domain.Forest {
	t.Helper()
	l, err := f.repo.GetByID(context.Background(), f.listID)
	require.NoError(t, err)
	return l.Items
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var v T
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(body, &v), "body: %s", body)
	return v
}

func (f *fixture) post(t *testing.T, listID string, req contract.MutationRequest) *http.Response {
	t.Helper()
	body, err := json.Marshal(req)
	require.NoError(t, err)
	resp, err := http.Post(f.ts.URL+"/api/lists/"+listID+"/actions", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	return resp
}

func (f *fixture) redirect(t *testing.T, req contract.MutationRequest) string {
	t.Helper()
	resp := f.post(t, f.listID, req)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	return decode[contract.MutationResponse](t, resp).RedirectTo
}

func TestHealthz(t *testing.T) {
	f := newFixture(t)
	resp, err := http.Get(f.ts.URL + "/healthz")
	require.NoError(t, err)
	assert.Equal(t, "ok", decode[contract.HealthResponse](t, resp).Status)
}

func TestListRead(t *testing.T) {
	f := newFixture(t)

	resp, err := http.Get(f.ts.URL + "/api/lists/" + f.listID + "?openCompleted=true")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	got := decode[contract.ListReadResponse](t, resp)

	require.Len(t, got.Lists, 1)
	require.NotNil(t, got.ActiveList)
	assert.Equal(t, f.listID, got.ActiveList.ID)
	assert.True(t, tree.Equal(f.items(t), got.ActiveList.Items))
	assert.Equal(t, 3, got.PendingCount)
	assert.Equal(t, 5, got.CompletedCount)
	assert.Len(t, got.ParentOptions, 8)
	assert.True(t, got.Query.OpenCompleted)
}

func TestListRead_InvalidQuery(t *testing.T) {
	f := newFixture(t)

	resp, err := http.Get(f.ts.URL + "/api/lists/" + f.listID + "?zzz=1&openCompleted=maybe&zzz=2")
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	got := decode[contract.ErrorResponse](t, resp)
	assert.Equal(t, "invalid query", got.Error)
	assert.Equal(t, "unsupported or malformed parameters: openCompleted, zzz", got.Details)
}

func TestListRead_UnknownList(t *testing.T) {
	f := newFixture(t)
	resp, err := http.Get(f.ts.URL + "/api/lists/missing")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "list not found", decode[contract.ErrorResponse](t, resp).Error)
}

func TestDefaultList(t *testing.T) {
	f := newFixture(t)
	resp, err := http.Get(f.ts.URL + "/api/lists/default")
	require.NoError(t, err)
	assert.Equal(t, f.listID, decode[contract.DefaultListResponse](t, resp).ID)

	_, err = f.repo.Delete(context.Background(), f.listID)
	require.NoError(t, err)
	resp, err = http.Get(f.ts.URL + "/api/lists/default")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAction_ToggleLeaf(t *testing.T) {
	f := newFixture(t)

	to := f.redirect(t, contract.NewMutationRequest(contract.ActionToggleItem,
		contract.KeyItemID, "book", contract.KeyCompleted, "true"))

	assert.Equal(t, contract.ListPath(f.listID), to)
	ent, _ := tree.FindNode(f.items(t), "entertainment")
	assert.True(t, ent.Completed)
}

func TestAction_ToggleParentNeedsConfirmation(t *testing.T) {
	f := newFixture(t)
	before := f.items(t)

	to := f.redirect(t, contract.NewMutationRequest(contract.ActionToggleItem,
		contract.KeyItemID, "entertainment", contract.KeyCompleted, "true"))
	assert.Equal(t, contract.ConfirmRedirect(f.listID, "entertainment"), to)

	to = f.redirect(t, contract.NewMutationRequest(contract.ActionToggleItem,
		contract.KeyItemID, "shopping", contract.KeyCompleted, "false"))
	assert.Equal(t, contract.ConfirmUncheckRedirect(f.listID, "shopping"), to)

	assert.True(t, tree.Equal(before, f.items(t)), "deferred toggles must not mutate")

	to = f.redirect(t, contract.NewMutationRequest(contract.ActionConfirmParent, contract.KeyItemID, "entertainment"))
	assert.Equal(t, contract.ListPath(f.listID), to)
	book, _ := tree.FindNode(f.items(t), "book")
	assert.True(t, book.Completed)
}

func TestAction_ErrorRedirects(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name string
		req  contract.MutationRequest
		code contract.ErrorCode
	}{
		{"toggle missing", contract.NewMutationRequest(contract.ActionToggleItem, contract.KeyItemID, "x", contract.KeyCompleted, "true"), contract.ErrCodeAction},
		{"confirm missing", contract.NewMutationRequest(contract.ActionConfirmParent, contract.KeyItemID, "x"), contract.ErrCodeAction},
		{"uncheck missing", contract.NewMutationRequest(contract.ActionConfirmUncheckParent, contract.KeyItemID, "x"), contract.ErrCodeAction},
		{"create under missing", contract.NewMutationRequest(contract.ActionCreateItem, contract.KeyTitle, "New", contract.KeyParentID, "missing-parent-id"), contract.ErrCodeAdd},
		{"delete missing", contract.NewMutationRequest(contract.ActionDeleteItem, contract.KeyItemID, "x"), contract.ErrCodeDelete},
		{"edit missing", contract.NewMutationRequest(contract.ActionEditItemTitle, contract.KeyItemID, "x", contract.KeyTitle, "T"), contract.ErrCodeEdit},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			to := f.redirect(t, tt.req)
			assert.Equal(t, contract.ErrorRedirect(f.listID, tt.code), to)
		})
	}

	resp := f.post(t, "missing", contract.NewMutationRequest(contract.ActionEditListTitle, contract.KeyTitle, "x"))
	assert.Equal(t, contract.ErrorRedirect("missing", contract.ErrCodeListEdit), decode[contract.MutationResponse](t, resp).RedirectTo)

	resp = f.post(t, "missing", contract.NewMutationRequest(contract.ActionDeleteList))
	assert.Equal(t, contract.ErrorRedirect("missing", contract.ErrCodeListDelete), decode[contract.MutationResponse](t, resp).RedirectTo)

	resp = f.post(t, "missing", contract.NewMutationRequest(contract.ActionResetCompleted))
	assert.Equal(t, contract.ErrorRedirect("missing", contract.ErrCodeAction), decode[contract.MutationResponse](t, resp).RedirectTo)
}

func TestAction_ItemLifecycle(t *testing.T) {
	f := newFixture(t)

	f.redirect(t, contract.NewMutationRequest(contract.ActionCreateItem, contract.KeyTitle, "Eggs", contract.KeyParentID, "food"))
	food, _ := tree.FindNode(f.items(t), "food")
	require.Len(t, food.Children, 3)
	eggs := food.Children[0]
	assert.Equal(t, "Eggs", eggs.Title)

	f.redirect(t, contract.NewMutationRequest(contract.ActionEditItemTitle, contract.KeyItemID, eggs.ID, contract.KeyTitle, "Free-range eggs"))
	got, _ := tree.FindNode(f.items(t), eggs.ID)
	assert.Equal(t, "Free-range eggs", got.Title)

	f.redirect(t, contract.NewMutationRequest(contract.ActionDeleteItem, contract.KeyItemID, "shopping"))
	assert.Equal(t, 4, tree.CountNodes(f.items(t)))

	f.redirect(t, contract.NewMutationRequest(contract.ActionResetCompleted))
	assert.Equal(t, 0, tree.CountByStatus(f.items(t), true))
}

func TestAction_ListLifecycle(t *testing.T) {
	f := newFixture(t)

	to := f.redirect(t, contract.NewMutationRequest(contract.ActionCreateList))
	r, err := contract.ParseRedirect(to)
	require.NoError(t, err)
	created, err := f.repo.GetByID(context.Background(), r.ListID)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultListTitle, created.Title)

	resp := f.post(t, created.ID, contract.NewMutationRequest(contract.ActionEditListTitle, contract.KeyTitle, "Errands"))
	assert.Equal(t, contract.ListPath(created.ID), decode[contract.MutationResponse](t, resp).RedirectTo)

	resp = f.post(t, created.ID, contract.NewMutationRequest(contract.ActionDeleteList))
	assert.Equal(t, contract.ListPath(f.listID), decode[contract.MutationResponse](t, resp).RedirectTo, "falls back to the first remaining list")

	resp = f.post(t, f.listID, contract.NewMutationRequest(contract.ActionDeleteList))
	assert.Equal(t, contract.ListsPath, decode[contract.MutationResponse](t, resp).RedirectTo)
}

func TestAction_FormEncoded(t *testing.T) {
	f := newFixture(t)

	form := url.Values{"action": {"createItem"}, "title": {"Water plants"}}
	resp, err := http.PostForm(f.ts.URL+"/api/lists/"+f.listID+"/actions", form)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, contract.ListPath(f.listID), decode[contract.MutationResponse](t, resp).RedirectTo)
	assert.Equal(t, "Water plants", f.items(t)[0].Title)
}

func TestAction_ValidationRejectsBeforeTouchingState(t *testing.T) {
	f := newFixture(t)
	before := f.items(t)

	bad := []string{
		`{"action":"toggleItem","payload":{"itemId":"book","completed":"yes"}}`,
		`{"action":"createItem","payload":{"title":"   "}}`,
		`{"action":"launch","payload":{}}`,
		`not json`,
		``,
	}
	for _, body := range bad {
		resp, err := http.Post(f.ts.URL+"/api/lists/"+f.listID+"/actions", "application/json", strings.NewReader(body))
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, body)
		assert.Equal(t, "invalid request", decode[contract.ErrorResponse](t, resp).Error)
	}
	assert.True(t, tree.Equal(before, f.items(t)))
}

func TestRecoverPanics(t *testing.T) {
	srv, err := NewServer(ServerConfig{Addr: ":0", Lists: service.NewListService(repository.NewMemoryListRepo()), Logger: logging.Discard()})
	require.NoError(t, err)

	h := srv.recoverPanics(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("boom") }))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "internal error")
}

func TestCORS(t *testing.T) {
	srv, err := NewServer(ServerConfig{
		Addr:           ":0",
		AllowedOrigins: []string{"http://localhost:5173"},
		Lists:          service.NewListService(repository.NewMemoryListRepo()),
		Logger:         logging.Discard(),
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/lists", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/api/lists", nil)
	req.Header.Set("Origin", "http://evil.example")
	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestNewServer_Validation(t *testing.T) {
	_, err := NewServer(ServerConfig{Lists: service.NewListService(repository.NewMemoryListRepo())})
	assert.Error(t, err)
	_, err = NewServer(ServerConfig{Addr: ":0"})
	assert.Error(t, err)
}

func TestServe_ShutsDownOnCancel(t *testing.T) {
	srv, err := NewServer(ServerConfig{Addr: "127.0.0.1:0", Lists: service.NewListService(repository.NewMemoryListRepo()), Logger: logging.Discard()})
	require.NoError(t, err)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + ln.Addr().String() + "/healthz")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
