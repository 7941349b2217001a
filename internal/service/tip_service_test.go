package service

import (
	"context"
	"testing"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/types/known/emptypb"

	"github.com/mmynk/splitzytip/pkg/api"
)

func TestTipService_RequiresSession(t *testing.T) {
	env := setupTestServer(t)

	_, err := env.tips.Compute(context.Background(), connect.NewRequest(&api.ComputeRequest{
		TipInput: api.TipInput{BillAmount: "100", PeopleCount: "4", TipSelection: "20"},
	}))
	requireCode(t, err, connect.CodeUnauthenticated)

	_, err = env.tips.Presets(context.Background(), authed("not-a-token", &emptypb.Empty{}))
	requireCode(t, err, connect.CodeUnauthenticated)
}

func TestTipService_Compute(t *testing.T) {
	env := setupTestServer(t)
	token := env.signedInUser(t, "Ada Lovelace", "ada@example.com")
	ctx := context.Background()

	pct := func(v float64) *float64 { return &v }

	tests := []struct {
		name  string
		input api.TipInput
		want  api.TipResult
	}{
		{
			name:  "preset split four ways",
			input: api.TipInput{BillAmount: "100", PeopleCount: "4", TipSelection: "20"},
			want: api.TipResult{
				Valid: true, Complete: true, TipPercent: pct(20),
				TipAmount: 20, TotalAmount: 120, TipPerPerson: 5, TotalPerPerson: 30,
				Formatted: api.FormattedAmounts{
					TipAmount: "$20.00", TotalAmount: "$120.00", TipPerPerson: "$5.00", TotalPerPerson: "$30.00",
				},
			},
		},
		{
			name:  "custom tip",
			input: api.TipInput{BillAmount: "200", PeopleCount: "2", TipSelection: "custom", CustomTip: "10"},
			want: api.TipResult{
				Valid: true, Complete: true, TipPercent: pct(10),
				TipAmount: 20, TotalAmount: 220, TipPerPerson: 10, TotalPerPerson: 110,
				Formatted: api.FormattedAmounts{
					TipAmount: "$20.00", TotalAmount: "$220.00", TipPerPerson: "$10.00", TotalPerPerson: "$110.00",
				},
			},
		},
		{
			name:  "unparseable custom tip shows zero",
			input: api.TipInput{BillAmount: "100", PeopleCount: "1", TipSelection: "custom", CustomTip: "abc"},
			want: api.TipResult{
				Valid: true, Complete: false,
				Formatted: api.FormattedAmounts{
					TipAmount: "$0.00", TotalAmount: "$0.00", TipPerPerson: "$0.00", TotalPerPerson: "$0.00",
				},
			},
		},
		{
			name:  "empty bill is invalid",
			input: api.TipInput{BillAmount: "", PeopleCount: "1", TipSelection: "18"},
			want: api.TipResult{
				Valid: false, TipPercent: pct(18),
				Formatted: api.FormattedAmounts{
					TipAmount: "$0.00", TotalAmount: "$0.00", TipPerPerson: "$0.00", TotalPerPerson: "$0.00",
				},
			},
		},
		{
			name:  "zero people is invalid",
			input: api.TipInput{BillAmount: "50", PeopleCount: "0", TipSelection: "15"},
			want: api.TipResult{
				Valid: false, TipPercent: pct(15),
				Formatted: api.FormattedAmounts{
					TipAmount: "$0.00", TotalAmount: "$0.00", TipPerPerson: "$0.00", TotalPerPerson: "$0.00",
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := env.tips.Compute(ctx, authed(token, &api.ComputeRequest{TipInput: tt.input}))
			require.NoError(t, err)
			require.Equal(t, tt.want, resp.Msg.Result)
		})
	}
}

func TestTipService_ComputeRejectsUnknownSelection(t *testing.T) {
	env := setupTestServer(t)
	token := env.signedInUser(t, "Ada Lovelace", "ada@example.com")

	_, err := env.tips.Compute(context.Background(), authed(token, &api.ComputeRequest{
		TipInput: api.TipInput{BillAmount: "100", PeopleCount: "1", TipSelection: "17"},
	}))
	requireCode(t, err, connect.CodeInvalidArgument)
}

func TestTipService_ResetAndPresets(t *testing.T) {
	env := setupTestServer(t)
	token := env.signedInUser(t, "Ada Lovelace", "ada@example.com")
	ctx := context.Background()

	reset, err := env.tips.Reset(ctx, authed(token, &emptypb.Empty{}))
	require.NoError(t, err)
	require.Equal(t, api.TipInput{BillAmount: "", PeopleCount: "1", TipSelection: "18", CustomTip: ""}, reset.Msg.Input)

	presets, err := env.tips.Presets(ctx, authed(token, &emptypb.Empty{}))
	require.NoError(t, err)
	require.Equal(t, []float64{15, 18, 20, 25}, presets.Msg.Presets)
	require.Equal(t, "18", presets.Msg.Default)
}

type countingRecorder struct {
	valid, complete int
	calls           int
}

func (r *countingRecorder) RecordTip(valid, complete bool) {
	r.calls++
	if valid {
		r.valid++
	}
	if complete {
		r.complete++
	}
}

func TestTipService_RecordsComputations(t *testing.T) {
	rec := &countingRecorder{}
	svc := NewTipService(rec, nil)
	ctx := context.Background()

	inputs := []api.TipInput{
		{BillAmount: "100", PeopleCount: "2", TipSelection: "18"},
		{BillAmount: "100", PeopleCount: "2", TipSelection: "custom", CustomTip: ""},
		{BillAmount: "x", PeopleCount: "2", TipSelection: "18"},
	}
	for _, in := range inputs {
		_, err := svc.Compute(ctx, connect.NewRequest(&api.ComputeRequest{TipInput: in}))
		require.NoError(t, err)
	}

	require.Equal(t, 3, rec.calls)
	require.Equal(t, 2, rec.valid)
	require.Equal(t, 1, rec.complete)
}
