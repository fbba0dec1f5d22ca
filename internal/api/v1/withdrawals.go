package v1

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/gosuda/backoffice/internal/actions"
	"github.com/gosuda/backoffice/internal/domain"
	"github.com/gosuda/backoffice/internal/server/middleware"
)

type ListWithdrawalsInput struct {
	ListParams
}

type ProcessWithdrawalInput struct {
	Body struct {
		WithdrawalID   string `json:"withdrawalId,omitempty" doc:"Withdrawal ID"`
		Action         string `json:"action,omitempty" doc:"approve or reject"`
		Reason         string `json:"reason,omitempty" doc:"Required when rejecting"`
		TransactionRef string `json:"transactionRef,omitempty" doc:"Payment reference; generated when omitted"`
	}
}

// ProcessWithdrawalOutput is {success:true} or {error}. Unlike the other
// operations, a withdrawal in a final state is a 400, not a 409.
type ProcessWithdrawalOutput struct {
	Status int
	Body   struct {
		Success bool   `json:"success,omitempty"`
		Error   string `json:"error,omitempty"`
	}
}

func registerWithdrawalRoutes(api huma.API, b Backoffice) {
	huma.Register(api, huma.Operation{
		OperationID: "list-withdrawals",
		Method:      http.MethodGet,
		Path:        "/v1/withdrawals",
		Summary:     "List withdrawals",
		Tags:        []string{"Withdrawals"},
	}, func(ctx context.Context, input *ListWithdrawalsInput) (*Response[*actions.WithdrawalPage], error) {
		id := middleware.IdentityFromContext(ctx)
		q, err := input.Query()
		if err != nil {
			return respond(actions.Failed[*actions.WithdrawalPage]("ListWithdrawals", id, err))
		}
		return respond(b.ListWithdrawals(ctx, id, q))
	})

	huma.Register(api, huma.Operation{
		OperationID: "process-withdrawal",
		Method:      http.MethodPost,
		Path:        "/withdrawals/process",
		Summary:     "Approve or reject a withdrawal",
		Tags:        []string{"Withdrawals"},
	}, func(ctx context.Context, input *ProcessWithdrawalInput) (*ProcessWithdrawalOutput, error) {
		id := middleware.IdentityFromContext(ctx)

		var r actions.Result[*domain.Withdrawal]
		withdrawalID, err := parseID("withdrawalId", input.Body.WithdrawalID)
		if err != nil {
			r = actions.Failed[*domain.Withdrawal]("ProcessWithdrawal", id, err)
		} else {
			r = b.ProcessWithdrawal(ctx, id, actions.ProcessWithdrawalRequest{
				WithdrawalID:   withdrawalID,
				Action:         domain.WithdrawalDecision(input.Body.Action),
				Reason:         input.Body.Reason,
				TransactionRef: input.Body.TransactionRef,
			})
		}

		out := &ProcessWithdrawalOutput{Status: StatusFor(r.Kind)}
		if r.Kind == actions.KindConflict {
			out.Status = http.StatusBadRequest
		}
		out.Body.Success = r.Success
		out.Body.Error = r.Error
		return out, nil
	})
}
