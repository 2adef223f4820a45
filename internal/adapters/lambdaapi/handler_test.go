package lambdaapi

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jose-valero/spinboard/internal/app/service"
	"github.com/jose-valero/spinboard/internal/domain"
	"github.com/jose-valero/spinboard/internal/infra/storage"
)

func request(method, path, body string) events.APIGatewayV2HTTPRequest {
	var req events.APIGatewayV2HTTPRequest
	req.RawPath = path
	req.Body = body
	req.RequestContext.HTTP.Method = method
	req.RequestContext.HTTP.Path = path
	return req
}

func newHandler(t *testing.T, seed ...domain.NewEmployee) (*Handler, []domain.Employee) {
	t.Helper()
	st := storage.NewMemoryStore()
	var emps []domain.Employee
	for _, in := range seed {
		e, err := st.Create(context.Background(), in)
		require.NoError(t, err)
		emps = append(emps, e)
	}
	return New(service.NewSpinService(st), nil), emps
}

func TestRoutes(t *testing.T) {
	h, emps := newHandler(t, domain.NewEmployee{Name: "A", Wins: 2}, domain.NewEmployee{Name: "B", Wins: 7})
	ctx := context.Background()

	resp, err := h.Handle(ctx, request(http.MethodGet, "/leaderboard", ""))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var board []domain.LeaderboardEntry
	require.NoError(t, json.Unmarshal([]byte(resp.Body), &board))
	require.Len(t, board, 2)
	assert.Equal(t, "B", board[0].Name)
	assert.Equal(t, "application/json", resp.Headers["Content-Type"])

	resp, err = h.Handle(ctx, request(http.MethodGet, "/employees", ""))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = h.Handle(ctx, request(http.MethodGet, "/employees/random", ""))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = h.Handle(ctx, request(http.MethodPost, "/wins", `{"employeeId":"`+emps[0].ID+`"}`))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode, resp.Body)
	require.NoError(t, json.Unmarshal([]byte(resp.Body), &board))
	assert.Equal(t, 3, board[1].Wins)

	resp, err = h.Handle(ctx, request(http.MethodPost, "/spin", ""))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = h.Handle(ctx, request(http.MethodDelete, "/employees", ""))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRecordWinBodies(t *testing.T) {
	h, emps := newHandler(t, domain.NewEmployee{Name: "A"})
	ctx := context.Background()

	req := request(http.MethodPost, "/wins", base64.StdEncoding.EncodeToString([]byte(`{"employeeId":"`+emps[0].ID+`"}`)))
	req.IsBase64Encoded = true
	resp, err := h.Handle(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode, resp.Body)

	resp, err = h.Handle(ctx, request(http.MethodPost, "/wins", `{"employeeId":""}`))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, err = h.Handle(ctx, request(http.MethodPost, "/wins", `{"employeeId":"nope"}`))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestEmptyRosterRandomIs404(t *testing.T) {
	h, _ := newHandler(t)
	resp, err := h.Handle(context.Background(), request(http.MethodGet, "/employees/random", ""))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, resp.Body, `"error"`)
}

func TestRoutePathStripsStage(t *testing.T) {
	req := request(http.MethodGet, "/prod/leaderboard/", "")
	req.RequestContext.Stage = "prod"
	assert.Equal(t, "/leaderboard", routePath(req))

	req = request(http.MethodGet, "/leaderboard", "")
	req.RequestContext.Stage = "$default"
	assert.Equal(t, "/leaderboard", routePath(req))
}
