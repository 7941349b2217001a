package service

import (
	"context"
	"log/slog"
	"strconv"

	"connectrpc.com/connect"
	"google.golang.org/protobuf/types/known/emptypb"

	"github.com/mmynk/splitzytip/internal/calculator"
	"github.com/mmynk/splitzytip/pkg/api"
	"github.com/mmynk/splitzytip/pkg/api/apiconnect"
)

// TipRecorder observes every computation, for metrics.
type TipRecorder interface {
	RecordTip(valid, complete bool)
}

// TipService implements the Connect TipService.
type TipService struct {
	recorder TipRecorder
	logger   *slog.Logger
}

var _ apiconnect.TipServiceHandler = (*TipService)(nil)

// NewTipService creates the calculator service. recorder may be nil.
func NewTipService(recorder TipRecorder, logger *slog.Logger) *TipService {
	if logger == nil {
		logger = slog.Default()
	}
	return &TipService{recorder: recorder, logger: logger}
}

// Compute derives the tip and per-person split from the raw calculator fields.
// Unparseable bill or people input is not an error: the result comes back
// with Valid=false and zero amounts, the same as the form showing $0.00.
func (s *TipService) Compute(ctx context.Context, req *connect.Request[api.ComputeRequest]) (*connect.Response[api.ComputeResponse], error) {
	sel, err := calculator.ParseTipSelection(req.Msg.TipSelection)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	result := calculator.Compute(calculator.TipInput{
		BillAmount:  req.Msg.BillAmount,
		PeopleCount: req.Msg.PeopleCount,
		Tip:         sel,
		CustomTip:   req.Msg.CustomTip,
	})
	out := tipResultToAPI(result)

	if s.recorder != nil {
		s.recorder.RecordTip(out.Valid, out.Complete)
	}
	s.logger.DebugContext(ctx, "Tip computed",
		"tip", sel.String(),
		"valid", out.Valid,
		"complete", out.Complete,
	)

	return connect.NewResponse(&api.ComputeResponse{Result: out}), nil
}

// Reset returns the input of a fresh calculator.
func (s *TipService) Reset(_ context.Context, _ *connect.Request[emptypb.Empty]) (*connect.Response[api.ResetResponse], error) {
	return connect.NewResponse(&api.ResetResponse{Input: tipInputToAPI(calculator.Reset())}), nil
}

// Presets lists the quick-select percentages and which one is selected by default.
func (s *TipService) Presets(_ context.Context, _ *connect.Request[emptypb.Empty]) (*connect.Response[api.PresetsResponse], error) {
	return connect.NewResponse(&api.PresetsResponse{
		Presets: calculator.Presets(),
		Default: strconv.Itoa(calculator.DefaultTipPercent),
	}), nil
}
