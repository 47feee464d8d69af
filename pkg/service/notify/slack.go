package notify

import (
	"context"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/mapcrew-lab/taskcoord/pkg/domain/interfaces"
	"github.com/mapcrew-lab/taskcoord/pkg/domain/model"
	"github.com/mapcrew-lab/taskcoord/pkg/domain/types"
	"github.com/slack-go/slack"
)

// slackAPI is the subset of the Slack client used by the sink
type slackAPI interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

// SlackSink posts lock lifecycle events to one Slack channel. Callers
// treat delivery as best-effort, so an API failure only surfaces as an
// error return for them to log.
type SlackSink struct {
	api     slackAPI
	channel string
}

var _ interfaces.NotificationSink = &SlackSink{}

// NewSlack creates a sink posting to the given channel with the bot
// token.
func NewSlack(token, channel string) (*SlackSink, error) {
	if token == "" {
		return nil, goerr.New("Slack bot token is required")
	}
	if channel == "" {
		return nil, goerr.New("Slack channel is required")
	}

	return &SlackSink{
		api:     slack.New(token),
		channel: channel,
	}, nil
}

func (s *SlackSink) TaskClaimed(ctx context.Context, task *model.Task, actor types.UserID) error {
	text := fmt.Sprintf(":lock: Task %d claimed by %s (expires %s)",
		task.ID, actor, task.LockExpiry.UTC().Format("15:04:05 MST"))
	return s.post(ctx, task, text)
}

func (s *SlackSink) TaskReleased(ctx context.Context, task *model.Task, actor types.UserID) error {
	text := fmt.Sprintf(":unlock: Task %d released by %s", task.ID, actor)
	return s.post(ctx, task, text)
}

func (s *SlackSink) post(ctx context.Context, task *model.Task, text string) error {
	_, _, err := s.api.PostMessageContext(ctx, s.channel,
		slack.MsgOptionText(text, false))
	if err != nil {
		return goerr.Wrap(err, "failed to post Slack message",
			goerr.V("channel", s.channel),
			goerr.V("task_id", task.ID))
	}
	return nil
}
