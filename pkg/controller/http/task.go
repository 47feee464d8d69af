package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"
	"github.com/mapcrew-lab/taskcoord/pkg/domain/model"
	"github.com/mapcrew-lab/taskcoord/pkg/domain/types"
	"github.com/mapcrew-lab/taskcoord/pkg/usecase"
	"github.com/mapcrew-lab/taskcoord/pkg/utils/errutil"
)

type lockResponse struct {
	TaskID     types.TaskID `json:"taskId"`
	LockOwner  string       `json:"lockOwner,omitempty"`
	LockExpiry *time.Time   `json:"lockExpiry,omitempty"`
}

type statusRequest struct {
	Status              int            `json:"status"`
	RequestReview       *bool          `json:"requestReview,omitempty"`
	CompletionResponses map[string]any `json:"completionResponses,omitempty"`
	Comment             string         `json:"comment,omitempty"`
	Tags                []string       `json:"tags,omitempty"`
}

type bulkStatusRequest struct {
	TaskIDs []types.TaskID `json:"taskIds"`
	statusRequest
}

type reviewRequest struct {
	ReviewStatus int    `json:"reviewStatus"`
	Comment      string `json:"comment,omitempty"`
}

type removeReviewRequestsRequest struct {
	TaskIDs []types.TaskID `json:"taskIds"`
}

type countResponse struct {
	Changed int `json:"changed"`
}

type actionResponse struct {
	ID              types.ActionID  `json:"id"`
	TaskID          types.TaskID    `json:"taskId"`
	ActorID         types.UserID    `json:"actorId"`
	Type            string          `json:"type"`
	PrevValue       string          `json:"prevValue,omitempty"`
	NewValue        string          `json:"newValue,omitempty"`
	RelatedActionID *types.ActionID `json:"relatedActionId,omitempty"`
	Comment         string          `json:"comment,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
}

func taskIDParam(r *http.Request) (types.TaskID, error) {
	raw := chi.URLParam(r, "taskID")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, goerr.Wrap(err, "invalid task id", goerr.V("task_id", raw))
	}
	return types.TaskID(id), nil
}

func toLockResponse(task *model.Task) lockResponse {
	resp := lockResponse{TaskID: task.ID, LockExpiry: task.LockExpiry}
	if task.LockOwner != nil {
		resp.LockOwner = string(*task.LockOwner)
	}
	return resp
}

func (s *Server) claimTask(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	taskID, err := taskIDParam(r)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err, http.StatusBadRequest)
		return
	}

	task, err := s.uc.Lock.Claim(r.Context(), taskID, actor)
	if err != nil {
		handleError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, toLockResponse(task))
}

func (s *Server) refreshLock(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	taskID, err := taskIDParam(r)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err, http.StatusBadRequest)
		return
	}

	task, err := s.uc.Lock.Refresh(r.Context(), taskID, actor)
	if err != nil {
		handleError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, toLockResponse(task))
}

func (s *Server) releaseLock(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	taskID, err := taskIDParam(r)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err, http.StatusBadRequest)
		return
	}

	if err := s.uc.Lock.Release(r.Context(), taskID, actor); err != nil {
		handleError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) lockStatus(w http.ResponseWriter, r *http.Request) {
	taskID, err := taskIDParam(r)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err, http.StatusBadRequest)
		return
	}

	locked, err := s.uc.Lock.IsLocked(r.Context(), taskID)
	if err != nil {
		handleError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, map[string]any{
		"taskId": taskID,
		"locked": locked,
	})
}

func (req *statusRequest) options() usecase.StatusOptions {
	return usecase.StatusOptions{
		RequestReview:       req.RequestReview,
		CompletionResponses: req.CompletionResponses,
		Comment:             req.Comment,
		Tags:                req.Tags,
	}
}

func (s *Server) setStatus(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	taskID, err := taskIDParam(r)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err, http.StatusBadRequest)
		return
	}

	var req statusRequest
	if err := decodeJSON(r, &req); err != nil {
		errutil.HandleHTTP(r.Context(), w, err, http.StatusBadRequest)
		return
	}

	if err := s.uc.Status.SetStatus(r.Context(), taskID, types.TaskStatus(req.Status), actor, req.options()); err != nil {
		handleError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) bulkSetStatus(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	var req bulkStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		errutil.HandleHTTP(r.Context(), w, err, http.StatusBadRequest)
		return
	}

	changed, err := s.uc.Status.BulkSetStatus(r.Context(), req.TaskIDs, types.TaskStatus(req.Status), actor, req.options())
	if err != nil {
		handleError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, countResponse{Changed: changed})
}

func (s *Server) setReviewStatus(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	taskID, err := taskIDParam(r)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err, http.StatusBadRequest)
		return
	}

	var req reviewRequest
	if err := decodeJSON(r, &req); err != nil {
		errutil.HandleHTTP(r.Context(), w, err, http.StatusBadRequest)
		return
	}

	err = s.uc.Review.SetReviewStatus(r.Context(), taskID, types.ReviewStatus(req.ReviewStatus), actor, usecase.ReviewOptions{
		Comment: req.Comment,
	})
	if err != nil {
		handleError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) removeReviewRequests(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	var req removeReviewRequestsRequest
	if err := decodeJSON(r, &req); err != nil {
		errutil.HandleHTTP(r.Context(), w, err, http.StatusBadRequest)
		return
	}

	changed, err := s.uc.Review.RemoveReviewRequest(r.Context(), req.TaskIDs, actor)
	if err != nil {
		handleError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, countResponse{Changed: changed})
}

func (s *Server) taskHistory(w http.ResponseWriter, r *http.Request) {
	taskID, err := taskIDParam(r)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err, http.StatusBadRequest)
		return
	}

	actions, err := s.repo.Action().ListByTask(r.Context(), taskID)
	if err != nil {
		handleError(w, r, err)
		return
	}

	resp := make([]actionResponse, len(actions))
	for i, a := range actions {
		resp[i] = actionResponse{
			ID:              a.ID,
			TaskID:          a.TaskID,
			ActorID:         a.ActorID,
			Type:            a.Type.String(),
			PrevValue:       a.PrevValue,
			NewValue:        a.NewValue,
			RelatedActionID: a.RelatedActionID,
			Comment:         a.Comment,
			CreatedAt:       a.CreatedAt,
		}
	}

	writeJSON(w, r, http.StatusOK, resp)
}
