package http

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"
	"github.com/mapcrew-lab/taskcoord/pkg/domain/types"
	"github.com/mapcrew-lab/taskcoord/pkg/usecase"
	"github.com/mapcrew-lab/taskcoord/pkg/utils/errutil"
)

type bundleStatusRequest struct {
	PrimaryTaskID types.TaskID `json:"primaryTaskId"`
	statusRequest
}

type bundleReviewRequest struct {
	PrimaryTaskID types.TaskID `json:"primaryTaskId"`
	reviewRequest
}

type bundleResponse struct {
	BundleID types.BundleID `json:"bundleId"`
	TaskIDs  []types.TaskID `json:"taskIds"`
	Applied  int            `json:"applied"`
}

func bundleIDParam(r *http.Request) (types.BundleID, error) {
	raw := chi.URLParam(r, "bundleID")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, goerr.Wrap(err, "invalid bundle id", goerr.V("bundle_id", raw))
	}
	return types.BundleID(id), nil
}

func toBundleResponse(result *usecase.BundleResult) bundleResponse {
	return bundleResponse{
		BundleID: result.BundleID,
		TaskIDs:  result.TaskIDs,
		Applied:  result.Applied,
	}
}

func (s *Server) applyBundleStatus(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	bundleID, err := bundleIDParam(r)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err, http.StatusBadRequest)
		return
	}

	var req bundleStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		errutil.HandleHTTP(r.Context(), w, err, http.StatusBadRequest)
		return
	}

	result, err := s.uc.Bundle.ApplyBundleStatus(r.Context(), bundleID, req.PrimaryTaskID, types.TaskStatus(req.Status), actor, req.options())
	if err != nil {
		handleError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, toBundleResponse(result))
}

func (s *Server) applyBundleReview(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	bundleID, err := bundleIDParam(r)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err, http.StatusBadRequest)
		return
	}

	var req bundleReviewRequest
	if err := decodeJSON(r, &req); err != nil {
		errutil.HandleHTTP(r.Context(), w, err, http.StatusBadRequest)
		return
	}

	result, err := s.uc.Bundle.ApplyBundleReviewStatus(r.Context(), bundleID, req.PrimaryTaskID, types.ReviewStatus(req.ReviewStatus), actor, usecase.ReviewOptions{
		Comment: req.Comment,
	})
	if err != nil {
		handleError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, toBundleResponse(result))
}
