package types_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/mapcrew-lab/taskcoord/pkg/domain/types"
)

func TestTaskStatus_IsValid(t *testing.T) {
	tests := []struct {
		name   string
		status types.TaskStatus
		want   bool
	}{
		{
			name:   "valid created",
			status: types.TaskStatusCreated,
			want:   true,
		},
		{
			name:   "valid fixed",
			status: types.TaskStatusFixed,
			want:   true,
		},
		{
			name:   "valid false positive",
			status: types.TaskStatusFalsePositive,
			want:   true,
		},
		{
			name:   "valid skipped",
			status: types.TaskStatusSkipped,
			want:   true,
		},
		{
			name:   "valid deleted",
			status: types.TaskStatusDeleted,
			want:   true,
		},
		{
			name:   "valid already fixed",
			status: types.TaskStatusAlreadyFixed,
			want:   true,
		},
		{
			name:   "valid too hard",
			status: types.TaskStatusTooHard,
			want:   true,
		},
		{
			name:   "valid answered",
			status: types.TaskStatusAnswered,
			want:   true,
		},
		{
			name:   "invalid above range",
			status: types.TaskStatus(8),
			want:   false,
		},
		{
			name:   "invalid negative",
			status: types.TaskStatus(-1),
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.want {
				gt.B(t, tt.status.IsValid()).True()
			} else {
				gt.B(t, tt.status.IsValid()).False()
			}
		})
	}
}

func TestParseTaskStatus(t *testing.T) {
	tests := []struct {
		name    string
		input   int
		want    types.TaskStatus
		wantErr bool
	}{
		{
			name:  "valid created",
			input: 0,
			want:  types.TaskStatusCreated,
		},
		{
			name:  "valid fixed",
			input: 1,
			want:  types.TaskStatusFixed,
		},
		{
			name:  "valid answered",
			input: 7,
			want:  types.TaskStatusAnswered,
		},
		{
			name:    "invalid above range",
			input:   8,
			wantErr: true,
		},
		{
			name:    "invalid negative",
			input:   -1,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := types.ParseTaskStatus(tt.input)
			if tt.wantErr {
				gt.Error(t, err)
			} else {
				gt.NoError(t, err)
				gt.V(t, got).Equal(tt.want)
			}
		})
	}
}

func TestAllTaskStatuses(t *testing.T) {
	statuses := types.AllTaskStatuses()
	gt.A(t, statuses).Length(8)

	for _, status := range statuses {
		gt.B(t, status.IsValid()).
			Describef("Status %s should be valid", status).
			True()
	}
}

func TestTaskStatus_String(t *testing.T) {
	tests := []struct {
		name   string
		status types.TaskStatus
		want   string
	}{
		{
			name:   "created",
			status: types.TaskStatusCreated,
			want:   "CREATED",
		},
		{
			name:   "fixed",
			status: types.TaskStatusFixed,
			want:   "FIXED",
		},
		{
			name:   "false positive",
			status: types.TaskStatusFalsePositive,
			want:   "FALSE_POSITIVE",
		},
		{
			name:   "too hard",
			status: types.TaskStatusTooHard,
			want:   "TOO_HARD",
		},
		{
			name:   "unknown",
			status: types.TaskStatus(42),
			want:   "UNKNOWN(42)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gt.S(t, tt.status.String()).Equal(tt.want)
		})
	}
}
