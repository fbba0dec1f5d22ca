package v1

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/gosuda/backoffice/internal/actions"
	"github.com/gosuda/backoffice/internal/domain"
	"github.com/gosuda/backoffice/internal/server/middleware"
)

type ValidationQueueInput struct {
	ListParams
}

type ValidationHistoryInput struct {
	ListParams
}

type ApproveExecutionInput struct {
	ID   string `path:"id" doc:"Execution ID"`
	Body struct {
		Rating *int `json:"rating,omitempty" doc:"Quality rating from 1 to 5"`
	}
}

type RejectExecutionInput struct {
	ID   string `path:"id" doc:"Execution ID"`
	Body struct {
		Reason string `json:"reason,omitempty" doc:"Reason shown to the executant"`
	}
}

func registerValidationRoutes(api huma.API, b Backoffice) {
	huma.Register(api, huma.Operation{
		OperationID: "get-validation-queue",
		Method:      http.MethodGet,
		Path:        "/v1/validations/queue",
		Summary:     "Pending executions awaiting review",
		Tags:        []string{"Validations"},
	}, func(ctx context.Context, input *ValidationQueueInput) (*Response[*actions.QueuePage], error) {
		id := middleware.IdentityFromContext(ctx)
		q, err := input.Query()
		if err != nil {
			return respond(actions.Failed[*actions.QueuePage]("GetValidationQueue", id, err))
		}
		return respond(b.GetValidationQueue(ctx, id, q))
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-validation-history",
		Method:      http.MethodGet,
		Path:        "/v1/validations/history",
		Summary:     "Reviewed executions",
		Tags:        []string{"Validations"},
	}, func(ctx context.Context, input *ValidationHistoryInput) (*Response[*actions.HistoryPage], error) {
		id := middleware.IdentityFromContext(ctx)
		q, err := input.Query()
		if err != nil {
			return respond(actions.Failed[*actions.HistoryPage]("GetValidationHistory", id, err))
		}
		return respond(b.GetValidationHistory(ctx, id, q))
	})

	huma.Register(api, huma.Operation{
		OperationID: "approve-execution",
		Method:      http.MethodPost,
		Path:        "/v1/validations/{id}/approve",
		Summary:     "Approve an execution and credit its reward",
		Tags:        []string{"Validations"},
	}, func(ctx context.Context, input *ApproveExecutionInput) (*Response[*domain.Execution], error) {
		id := middleware.IdentityFromContext(ctx)
		executionID, err := parseID("id", input.ID)
		if err != nil {
			return respond(actions.Failed[*domain.Execution]("ApproveExecution", id, err))
		}
		return respond(b.ApproveExecution(ctx, id, executionID, input.Body.Rating))
	})

	huma.Register(api, huma.Operation{
		OperationID: "reject-execution",
		Method:      http.MethodPost,
		Path:        "/v1/validations/{id}/reject",
		Summary:     "Reject an execution",
		Tags:        []string{"Validations"},
	}, func(ctx context.Context, input *RejectExecutionInput) (*Response[*domain.Execution], error) {
		id := middleware.IdentityFromContext(ctx)
		executionID, err := parseID("id", input.ID)
		if err != nil {
			return respond(actions.Failed[*domain.Execution]("RejectExecution", id, err))
		}
		return respond(b.RejectExecution(ctx, id, executionID, input.Body.Reason))
	})
}
