package ai

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"

	"github.com/ekycid/gateway/internal/apierror"
	"github.com/ekycid/gateway/model"
)

const rpcServicePath = "/ekyc.v1.EkycSupportService/"

// GRPCProvider talks to the AI support service over its gRPC endpoint. Each
// operation is a single outbound call: no retry, no caching, so a transient
// downstream failure surfaces immediately through the error mapper.
type GRPCProvider struct {
	conn *grpc.ClientConn
}

// NewGRPCProvider dials the AI support target lazily; the first RPC triggers
// the actual connection. Accepts "host:port" or an http(s) URL form.
func NewGRPCProvider(target string) (*GRPCProvider, error) {
	conn, err := grpc.NewClient(
		normalizeTarget(target),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.CallContentSubtype(jsonCodecName)),
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create ai support client")
	}
	return &GRPCProvider{conn: conn}, nil
}

func (p *GRPCProvider) Name() string {
	return "ai_support_grpc"
}

func (p *GRPCProvider) Close() error {
	return p.conn.Close()
}

func (p *GRPCProvider) PerformKtpOcr(ctx context.Context, image model.BinaryImage, locale string) (*model.KtpOcrResult, error) {
	req := &ktpOcrRequest{
		Image:  toImagePayload(image),
		Locale: locale,
	}
	var resp ktpOcrResponse
	if err := p.invoke(ctx, "PerformKtpOcr", req, &resp); err != nil {
		return nil, err
	}
	return fromWireOcrResult(resp.Result), nil
}

func (p *GRPCProvider) StartFaceMatchJob(ctx context.Context, payload FaceMatchJobPayload) (*model.AsyncJobHandle, error) {
	req := &startFaceMatchRequest{
		SessionID:          payload.SessionID,
		KtpImage:           toImagePayload(payload.KtpImage),
		SelfieImage:        toImagePayload(payload.SelfieImage),
		FaceMatchThreshold: payload.Threshold,
	}
	var resp startFaceMatchResponse
	if err := p.invoke(ctx, "StartFaceMatchJob", req, &resp); err != nil {
		return nil, err
	}
	return fromWireJobHandle(resp.Job), nil
}

func (p *GRPCProvider) StartLivenessJob(ctx context.Context, payload LivenessJobPayload) (*model.AsyncJobHandle, error) {
	frames := make([]imagePayload, 0, len(payload.Frames))
	for _, frame := range payload.Frames {
		frames = append(frames, toImagePayload(frame))
	}
	req := &startLivenessRequest{
		SessionID:      payload.SessionID,
		LivenessFrames: frames,
		Gestures:       payload.Gestures,
	}
	var resp startLivenessResponse
	if err := p.invoke(ctx, "StartLivenessJob", req, &resp); err != nil {
		return nil, err
	}
	return fromWireJobHandle(resp.Job), nil
}

func (p *GRPCProvider) invoke(ctx context.Context, method string, req, resp interface{}) error {
	if err := p.conn.Invoke(ctx, rpcServicePath+method, req, resp); err != nil {
		return mapStatus(err)
	}
	return nil
}

// mapStatus translates gRPC failures into the gateway error taxonomy:
// InvalidArgument carries a caller-correctable message through verbatim,
// everything else (other codes, transport failures) stays internal.
func mapStatus(err error) error {
	if st, ok := status.FromError(err); ok && st.Code() == codes.InvalidArgument {
		return apierror.BadRequest(st.Message())
	}
	return apierror.Internal(errors.Wrap(err, "ai support rpc failed"))
}

func normalizeTarget(target string) string {
	target = strings.TrimPrefix(target, "http://")
	target = strings.TrimPrefix(target, "https://")
	return strings.TrimSuffix(target, "/")
}
