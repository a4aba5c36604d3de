package queue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) NotifyDealWon(leadName, leadEmail string) error {
	args := m.Called(leadName, leadEmail)
	return args.Error(0)
}

func TestWorkerNotifiesOnDealWon(t *testing.T) {
	notifier := new(MockNotifier)
	notifier.On("NotifyDealWon", "Ada", "a@x.com").Return(nil)

	w := NewWorker(nil, notifier)
	err := w.Process(LeadEventPayload{
		Event:  EventLeadStatusChanged,
		LeadID: "lead-1",
		Name:   "Ada",
		Email:  "a@x.com",
		Status: "Deal",
	})

	assert.NoError(t, err)
	notifier.AssertExpectations(t)
}

func TestWorkerIgnoresOtherTransitions(t *testing.T) {
	notifier := new(MockNotifier)

	w := NewWorker(nil, notifier)
	for _, status := range []string{"Prospect", "Negotiation", "Lost"} {
		err := w.Process(LeadEventPayload{Event: EventLeadStatusChanged, Status: status})
		assert.NoError(t, err)
	}
	notifier.AssertNotCalled(t, "NotifyDealWon", mock.Anything, mock.Anything)
}

func TestWorkerIgnoresNonStatusEvents(t *testing.T) {
	notifier := new(MockNotifier)

	w := NewWorker(nil, notifier)
	for _, event := range []string{EventLeadCreated, EventLeadDeleted, EventInteractionLogged} {
		assert.NoError(t, w.Process(LeadEventPayload{Event: event, Status: "Deal"}))
	}
	notifier.AssertNotCalled(t, "NotifyDealWon", mock.Anything, mock.Anything)
}
