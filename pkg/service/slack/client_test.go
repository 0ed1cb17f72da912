package slack_test

import (
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/mopc-lab/expropia/pkg/domain/model"
	"github.com/mopc-lab/expropia/pkg/domain/types"
	svc "github.com/mopc-lab/expropia/pkg/service/slack"
	"github.com/slack-go/slack"
)

func TestNew(t *testing.T) {
	t.Run("requires token", func(t *testing.T) {
		_, err := svc.New("", "C12345")
		gt.Value(t, err).NotNil()
	})

	t.Run("requires channel", func(t *testing.T) {
		_, err := svc.New("xoxb-test", "")
		gt.Value(t, err).NotNil()
	})

	t.Run("creates client", func(t *testing.T) {
		client, err := svc.New("xoxb-test", "C12345")
		gt.NoError(t, err).Required()
		gt.Value(t, client).NotNil()
	})
}

func TestBuildTransitionBlocks(t *testing.T) {
	cs := &model.Case{
		CaseNumber: "EXP-2026-000042",
		OwnerName:  "Juan Morales",
	}

	t.Run("basic transition", func(t *testing.T) {
		blocks := svc.BuildTransitionBlocks(cs, &model.Transition{
			FromStatus: types.CaseStatusInitiated,
			ToStatus:   types.CaseStatusInReview,
			Actor:      "analyst-1",
		})

		gt.Array(t, blocks).Length(2)

		header, ok := blocks[0].(*slack.HeaderBlock)
		gt.Bool(t, ok).True()
		gt.Value(t, header.Text.Text).Equal("Case EXP-2026-000042 moved to IN_REVIEW")
	})

	t.Run("rejection adds reason block", func(t *testing.T) {
		blocks := svc.BuildTransitionBlocks(cs, &model.Transition{
			FromStatus:      types.CaseStatusInReview,
			ToStatus:        types.CaseStatusRejected,
			Actor:           "supervisor-1",
			RejectionReason: "appraisal value unsupported",
		})

		gt.Array(t, blocks).Length(3)
	})

	t.Run("comments add context block", func(t *testing.T) {
		blocks := svc.BuildTransitionBlocks(cs, &model.Transition{
			FromStatus: types.CaseStatusInitiated,
			ToStatus:   types.CaseStatusInReview,
			Actor:      "analyst-1",
			Comments:   "all documents present",
		})

		gt.Array(t, blocks).Length(3)
	})
}

func TestBuildOverdueBlocks(t *testing.T) {
	cs := &model.Case{CaseNumber: "EXP-2026-000042"}
	due := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	blocks := svc.BuildOverdueBlocks(cs, &model.Task{
		Title:      "Issue occupancy notice",
		Priority:   types.TaskPriorityHigh,
		AssigneeID: "U100",
		DueAt:      &due,
	})

	gt.Array(t, blocks).Length(2)

	section, ok := blocks[1].(*slack.SectionBlock)
	gt.Bool(t, ok).True()
	gt.Array(t, section.Fields).Length(4)
}

func TestBuildDocumentBlocks(t *testing.T) {
	cs := &model.Case{CaseNumber: "EXP-2026-000042"}

	blocks := svc.BuildDocumentBlocks(cs, &model.Document{
		Filename:   "deed.pdf",
		Version:    2,
		UploadedBy: "analyst-1",
	})

	gt.Array(t, blocks).Length(2)

	header, ok := blocks[0].(*slack.HeaderBlock)
	gt.Bool(t, ok).True()
	gt.Value(t, header.Text.Text).Equal("Document pending review on case EXP-2026-000042")
}
