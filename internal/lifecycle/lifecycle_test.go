package lifecycle

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"caseflow/internal/model"
)

func TestNext(t *testing.T) {
	tests := []struct {
		name    string
		from    model.Status
		action  Action
		want    model.Status
		wantErr bool
	}{
		{name: "open new", from: model.StatusNew, action: ActionOpen, want: model.StatusClassifying},
		{name: "open is idempotent past new", from: model.StatusProcessing, action: ActionOpen, want: model.StatusProcessing},
		{name: "open completed is a no-op", from: model.StatusCompleted, action: ActionOpen, want: model.StatusCompleted},
		{name: "assign classifying", from: model.StatusClassifying, action: ActionAssign, want: model.StatusAssigned},
		{name: "assign new rejected", from: model.StatusNew, action: ActionAssign, wantErr: true},
		{name: "assign completed rejected", from: model.StatusCompleted, action: ActionAssign, wantErr: true},
		{name: "accept assigned", from: model.StatusAssigned, action: ActionAccept, want: model.StatusProcessing},
		{name: "accept classifying rejected", from: model.StatusClassifying, action: ActionAccept, wantErr: true},
		{name: "reply processing", from: model.StatusProcessing, action: ActionReply, want: model.StatusReplied},
		{name: "reply again", from: model.StatusReplied, action: ActionReply, want: model.StatusReplied},
		{name: "reply assigned rejected", from: model.StatusAssigned, action: ActionReply, wantErr: true},
		{name: "transfer assigned", from: model.StatusAssigned, action: ActionTransfer, want: model.StatusAssigned},
		{name: "transfer processing", from: model.StatusProcessing, action: ActionTransfer, want: model.StatusAssigned},
		{name: "transfer replied", from: model.StatusReplied, action: ActionTransfer, want: model.StatusAssigned},
		{name: "transfer completed rejected", from: model.StatusCompleted, action: ActionTransfer, wantErr: true},
		{name: "complete processing", from: model.StatusProcessing, action: ActionComplete, want: model.StatusCompleted},
		{name: "complete replied", from: model.StatusReplied, action: ActionComplete, want: model.StatusCompleted},
		{name: "complete new rejected", from: model.StatusNew, action: ActionComplete, wantErr: true},
		{name: "complete assigned rejected", from: model.StatusAssigned, action: ActionComplete, wantErr: true},
		{name: "complete completed rejected", from: model.StatusCompleted, action: ActionComplete, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Next(tt.from, tt.action)
			if tt.wantErr {
				var te *TransitionError
				assert.True(t, errors.As(err, &te))
				assert.Equal(t, tt.from, te.From)
				assert.Equal(t, tt.action, te.Action)
				assert.Equal(t, tt.from, got)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestProject(t *testing.T) {
	reply := "answer"

	assert.Equal(t, model.StatusNew, Project(false, nil))
	assert.Equal(t, model.StatusClassifying, Project(true, nil))
	assert.Equal(t, model.StatusAssigned, Project(true, &model.WorkflowStep{State: model.StepUnaccepted}))
	assert.Equal(t, model.StatusProcessing, Project(true, &model.WorkflowStep{State: model.StepInProgress}))
	assert.Equal(t, model.StatusReplied, Project(true, &model.WorkflowStep{State: model.StepInProgress, Reply: &reply}))
	assert.Equal(t, model.StatusCompleted, Project(true, &model.WorkflowStep{State: model.StepCompleted}))
}

func TestEffective(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	tests := []struct {
		name string
		doc  model.Document
		want model.Status
	}{
		{name: "assigned past deadline", doc: model.Document{Status: model.StatusAssigned, Deadline: &past}, want: model.StatusOverdue},
		{name: "replied past deadline", doc: model.Document{Status: model.StatusReplied, Deadline: &past}, want: model.StatusOverdue},
		{name: "processing before deadline", doc: model.Document{Status: model.StatusProcessing, Deadline: &future}, want: model.StatusProcessing},
		{name: "completed past deadline stays completed", doc: model.Document{Status: model.StatusCompleted, Deadline: &past}, want: model.StatusCompleted},
		{name: "classifying without deadline", doc: model.Document{Status: model.StatusClassifying}, want: model.StatusClassifying},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Effective(tt.doc, now))
		})
	}
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, IsTerminal(model.StatusCompleted))
	assert.False(t, IsTerminal(model.StatusReplied))
}
