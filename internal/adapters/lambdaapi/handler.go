package lambdaapi

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"go.uber.org/zap"

	"github.com/jose-valero/spinboard/internal/adapters/apierr"
	"github.com/jose-valero/spinboard/internal/app/service"
	"github.com/jose-valero/spinboard/internal/domain"
)

// SpinAPI es lo mismo que usa httpapi; lo implementa service.SpinService.
type SpinAPI interface {
	GetRoster(ctx context.Context) ([]domain.Employee, error)
	GetLeaderboard(ctx context.Context) ([]domain.LeaderboardEntry, error)
	GetRandomParticipant(ctx context.Context) (domain.Employee, error)
	RecordWin(ctx context.Context, id string) ([]domain.LeaderboardEntry, error)
	Spin(ctx context.Context) (service.SpinResult, error)
}

type Handler struct {
	spin SpinAPI
	log  *zap.Logger
}

func New(spin SpinAPI, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{spin: spin, log: log.With(zap.String("component", "lambda"))}
}

type recordWinReq struct {
	EmployeeID string `json:"employeeId"`
}

// Handle es el entrypoint para lambda.Start (API Gateway HTTP API, payload v2).
func (h *Handler) Handle(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	method := req.RequestContext.HTTP.Method
	path := routePath(req)
	h.log.Info("lambda hit",
		zap.String("method", method),
		zap.String("path", path),
		zap.String("ip", req.RequestContext.HTTP.SourceIP),
	)

	switch {
	case method == http.MethodGet && path == "/employees":
		roster, err := h.spin.GetRoster(ctx)
		return h.reply(http.StatusOK, roster, err)

	case method == http.MethodGet && path == "/employees/random":
		e, err := h.spin.GetRandomParticipant(ctx)
		return h.reply(http.StatusOK, e, err)

	case method == http.MethodGet && path == "/leaderboard":
		board, err := h.spin.GetLeaderboard(ctx)
		return h.reply(http.StatusOK, board, err)

	case method == http.MethodPost && path == "/wins":
		id, err := parseRecordWin(req)
		if err != nil {
			return h.reply(0, nil, err)
		}
		board, err := h.spin.RecordWin(ctx, id)
		return h.reply(http.StatusOK, board, err)

	case method == http.MethodPost && path == "/spin":
		res, err := h.spin.Spin(ctx)
		return h.reply(http.StatusOK, res, err)

	case method == http.MethodOptions:
		return events.APIGatewayV2HTTPResponse{StatusCode: http.StatusNoContent, Headers: headers()}, nil
	}

	return jsonResponse(http.StatusNotFound, map[string]string{"error": "route not found"})
}

// routePath: RawPath sin el stage ("/prod/leaderboard" → "/leaderboard").
func routePath(req events.APIGatewayV2HTTPRequest) string {
	p := req.RawPath
	if p == "" {
		p = req.RequestContext.HTTP.Path
	}
	if st := req.RequestContext.Stage; st != "" && st != "$default" {
		p = strings.TrimPrefix(p, "/"+st)
	}
	p = strings.TrimSuffix(p, "/")
	if p == "" {
		return "/"
	}
	return p
}

func parseRecordWin(req events.APIGatewayV2HTTPRequest) (string, error) {
	body := req.Body
	if req.IsBase64Encoded {
		dec, err := base64.StdEncoding.DecodeString(req.Body)
		if err != nil {
			return "", fmt.Errorf("invalid base64 body: %w", domain.ErrInvalidInput)
		}
		body = string(dec)
	}
	var in recordWinReq
	if err := json.Unmarshal([]byte(body), &in); err != nil {
		return "", fmt.Errorf("bad body: %v: %w", err, domain.ErrInvalidInput)
	}
	id := strings.TrimSpace(in.EmployeeID)
	if id == "" {
		return "", fmt.Errorf("employeeId is required: %w", domain.ErrInvalidInput)
	}
	return id, nil
}

func (h *Handler) reply(ok int, v any, err error) (events.APIGatewayV2HTTPResponse, error) {
	if err != nil {
		code, msg := apierr.Status(err)
		if code >= http.StatusInternalServerError {
			h.log.Error("request failed", zap.Error(err))
		}
		return jsonResponse(code, map[string]string{"error": msg})
	}
	return jsonResponse(ok, v)
}

func jsonResponse(code int, v any) (events.APIGatewayV2HTTPResponse, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return events.APIGatewayV2HTTPResponse{}, fmt.Errorf("marshal response: %w", err)
	}
	return events.APIGatewayV2HTTPResponse{StatusCode: code, Headers: headers(), Body: string(b)}, nil
}

func headers() map[string]string {
	return map[string]string{
		"Content-Type":                 "application/json",
		"Access-Control-Allow-Origin":  "*",
		"Access-Control-Allow-Methods": "GET,POST,OPTIONS",
		"Access-Control-Allow-Headers": "Content-Type",
	}
}
