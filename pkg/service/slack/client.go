package slack

import (
	"context"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/mopc-lab/expropia/pkg/domain/model"
	"github.com/slack-go/slack"
)

// client implements Service against the Slack Web API
type client struct {
	api       *slack.Client
	channelID string
}

// Option is a functional option for client configuration
type Option func(*client)

// New creates a new Slack service posting to the given channel.
func New(token, channelID string, opts ...Option) (Service, error) {
	if token == "" {
		return nil, goerr.New("Slack bot token is required")
	}
	if channelID == "" {
		return nil, goerr.New("Slack channel ID is required")
	}

	c := &client{
		api:       slack.New(token),
		channelID: channelID,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

func (c *client) NotifyCaseTransition(ctx context.Context, cs *model.Case, tr *model.Transition) error {
	blocks := buildTransitionBlocks(cs, tr)

	if _, _, err := c.api.PostMessageContext(ctx, c.channelID,
		slack.MsgOptionBlocks(blocks...),
		slack.MsgOptionText(fmt.Sprintf("%s: %s -> %s", cs.CaseNumber, tr.FromStatus, tr.ToStatus), false),
	); err != nil {
		return goerr.Wrap(err, "failed to post transition message",
			goerr.V("case_number", cs.CaseNumber),
			goerr.V("channel", c.channelID))
	}
	return nil
}

func (c *client) NotifyTaskOverdue(ctx context.Context, cs *model.Case, task *model.Task) error {
	blocks := buildOverdueBlocks(cs, task)

	if _, _, err := c.api.PostMessageContext(ctx, c.channelID,
		slack.MsgOptionBlocks(blocks...),
		slack.MsgOptionText(fmt.Sprintf("Overdue task on %s: %s", cs.CaseNumber, task.Title), false),
	); err != nil {
		return goerr.Wrap(err, "failed to post overdue task message",
			goerr.V("case_number", cs.CaseNumber),
			goerr.V("task_id", task.ID))
	}
	return nil
}

func (c *client) NotifyDocumentReview(ctx context.Context, cs *model.Case, doc *model.Document) error {
	blocks := buildDocumentBlocks(cs, doc)

	if _, _, err := c.api.PostMessageContext(ctx, c.channelID,
		slack.MsgOptionBlocks(blocks...),
		slack.MsgOptionText(fmt.Sprintf("Document pending review on %s: %s", cs.CaseNumber, doc.Filename), false),
	); err != nil {
		return goerr.Wrap(err, "failed to post document review message",
			goerr.V("case_number", cs.CaseNumber),
			goerr.V("document_id", doc.ID))
	}
	return nil
}

func buildTransitionBlocks(cs *model.Case, tr *model.Transition) []slack.Block {
	header := slack.NewHeaderBlock(
		slack.NewTextBlockObject(slack.PlainTextType,
			fmt.Sprintf("Case %s moved to %s", cs.CaseNumber, tr.ToStatus), false, false))

	fields := []*slack.TextBlockObject{
		slack.NewTextBlockObject(slack.MarkdownType,
			fmt.Sprintf("*From:*\n%s", tr.FromStatus), false, false),
		slack.NewTextBlockObject(slack.MarkdownType,
			fmt.Sprintf("*To:*\n%s", tr.ToStatus), false, false),
		slack.NewTextBlockObject(slack.MarkdownType,
			fmt.Sprintf("*Owner:*\n%s", cs.OwnerName), false, false),
		slack.NewTextBlockObject(slack.MarkdownType,
			fmt.Sprintf("*Actor:*\n%s", tr.Actor), false, false),
	}

	blocks := []slack.Block{
		header,
		slack.NewSectionBlock(nil, fields, nil),
	}

	if tr.RejectionReason != "" {
		blocks = append(blocks, slack.NewSectionBlock(
			slack.NewTextBlockObject(slack.MarkdownType,
				fmt.Sprintf("*Rejection reason:* %s", tr.RejectionReason), false, false),
			nil, nil))
	}
	if tr.Comments != "" {
		blocks = append(blocks, slack.NewContextBlock("",
			slack.NewTextBlockObject(slack.MarkdownType, tr.Comments, false, false)))
	}

	return blocks
}

func buildOverdueBlocks(cs *model.Case, task *model.Task) []slack.Block {
	header := slack.NewHeaderBlock(
		slack.NewTextBlockObject(slack.PlainTextType,
			fmt.Sprintf("Overdue task on case %s", cs.CaseNumber), false, false))

	fields := []*slack.TextBlockObject{
		slack.NewTextBlockObject(slack.MarkdownType,
			fmt.Sprintf("*Task:*\n%s", task.Title), false, false),
		slack.NewTextBlockObject(slack.MarkdownType,
			fmt.Sprintf("*Priority:*\n%s", task.Priority), false, false),
	}
	if task.AssigneeID != "" {
		fields = append(fields, slack.NewTextBlockObject(slack.MarkdownType,
			fmt.Sprintf("*Assignee:*\n%s", task.AssigneeID), false, false))
	}
	if task.DueAt != nil {
		fields = append(fields, slack.NewTextBlockObject(slack.MarkdownType,
			fmt.Sprintf("*Due:*\n%s", task.DueAt.Format("2006-01-02")), false, false))
	}

	return []slack.Block{
		header,
		slack.NewSectionBlock(nil, fields, nil),
	}
}

func buildDocumentBlocks(cs *model.Case, doc *model.Document) []slack.Block {
	header := slack.NewHeaderBlock(
		slack.NewTextBlockObject(slack.PlainTextType,
			fmt.Sprintf("Document pending review on case %s", cs.CaseNumber), false, false))

	fields := []*slack.TextBlockObject{
		slack.NewTextBlockObject(slack.MarkdownType,
			fmt.Sprintf("*File:*\n%s", doc.Filename), false, false),
		slack.NewTextBlockObject(slack.MarkdownType,
			fmt.Sprintf("*Version:*\n%d", doc.Version), false, false),
		slack.NewTextBlockObject(slack.MarkdownType,
			fmt.Sprintf("*Uploaded by:*\n%s", doc.UploadedBy), false, false),
	}

	return []slack.Block{
		header,
		slack.NewSectionBlock(nil, fields, nil),
	}
}
