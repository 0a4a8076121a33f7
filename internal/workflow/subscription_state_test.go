package workflow_test

import (
	"context"
	"testing"

	"messapp/internal/domain/subscription"
	"messapp/internal/workflow"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestSubscriptionState_CurrentAbsent(t *testing.T) {
	gw := new(GatewayMock)
	s := workflow.NewSession(nil)
	st := workflow.NewSubscriptionState(gw, s)

	gw.On("FetchSubscription", mock.Anything).Return(nil, nil).Once()

	r, err := st.Current(context.Background())
	require.NoError(t, err)
	assert.Nil(t, r)
	assert.Nil(t, s.Subscription())
}

func TestSubscriptionState_SubscribeThenCancel(t *testing.T) {
	gw := new(GatewayMock)
	s := workflow.NewSession(nil)
	st := workflow.NewSubscriptionState(gw, s)

	rec := subscription.Record{StudentID: 5, Duration: subscription.ThreeMonths, Status: subscription.StatusActive, MessPassNumber: "MP-5"}
	gw.On("Subscribe", mock.Anything, subscription.ThreeMonths).Return(rec, nil).Once()
	gw.On("CancelSubscription", mock.Anything).Return(nil).Once()

	got, err := st.Subscribe(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, rec, got)
	require.NotNil(t, s.Subscription())
	assert.True(t, s.Subscription().CanPayWithPass())

	require.NoError(t, st.Cancel(context.Background()))
	after := s.Subscription()
	require.NotNil(t, after)
	assert.Equal(t, subscription.StatusCancelled, after.Status)
	assert.Equal(t, "MP-5", after.MessPassNumber)
	assert.Equal(t, subscription.ThreeMonths, after.Duration)
	assert.False(t, after.CanPayWithPass())
	gw.AssertExpectations(t)
}

func TestSubscriptionState_SubscribeInvalidDuration(t *testing.T) {
	gw := new(GatewayMock)
	st := workflow.NewSubscriptionState(gw, workflow.NewSession(nil))

	_, err := st.Subscribe(context.Background(), 4)
	assert.ErrorIs(t, err, subscription.ErrInvalidDuration)
	gw.AssertNotCalled(t, "Subscribe", mock.Anything, mock.Anything)
}

func TestSubscriptionState_CancelRejected(t *testing.T) {
	gw := new(GatewayMock)
	s := workflow.NewSession(nil)
	st := workflow.NewSubscriptionState(gw, s)

	gw.On("CancelSubscription", mock.Anything).
		Return(&workflow.RejectedError{Status: 409, Detail: "no active subscription"}).Once()

	err := st.Cancel(context.Background())
	assert.Equal(t, "no active subscription", workflow.Message(err))
	assert.Nil(t, s.Subscription())
}
