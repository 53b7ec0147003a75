package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"progress-bot/internal/delivery"
	"progress-bot/internal/model"
	"progress-bot/internal/slack"
	"progress-bot/internal/store"

	"github.com/stretchr/testify/require"
)

type sentCall struct {
	Token   string
	Channel string
	Msg     slack.Message
}

type updateCall struct {
	Token   string
	Channel string
	TS      string
	Msg     slack.Message
}

type deleteCall struct {
	Token   string
	Channel string
	TS      string
}

type responseCall struct {
	URL  string
	Text string
}

// fakeMessenger records every outbound call so tests can assert on what
// would have hit Slack once the queue drains.
type fakeMessenger struct {
	mu sync.Mutex

	sent      []sentCall
	updates   []updateCall
	deletes   []deleteCall
	dialogs   []map[string]any
	responses []responseCall

	profile    slack.Profile
	profileErr error
	oauth      slack.OAuthResponse
	ackTS      string
	ackChannel string
}

func (f *fakeMessenger) SendMessage(_ context.Context, token, channel string, msg slack.Message) (slack.MessageAck, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentCall{Token: token, Channel: channel, Msg: msg})
	ackChannel := f.ackChannel
	if ackChannel == "" {
		ackChannel = channel
	}
	ts := f.ackTS
	if ts == "" {
		ts = "1700000000.000100"
	}
	return slack.MessageAck{OK: true, Channel: ackChannel, TS: ts}, nil
}

func (f *fakeMessenger) UpdateMessage(_ context.Context, token, channel, ts string, msg slack.Message) (slack.MessageAck, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, updateCall{Token: token, Channel: channel, TS: ts, Msg: msg})
	return slack.MessageAck{OK: true, Channel: channel, TS: ts}, nil
}

func (f *fakeMessenger) DeleteMessage(_ context.Context, token, channel, ts string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes = append(f.deletes, deleteCall{Token: token, Channel: channel, TS: ts})
	return nil
}

func (f *fakeMessenger) OpenDialog(_ context.Context, _, _ string, dialog map[string]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dialogs = append(f.dialogs, dialog)
	return nil
}

func (f *fakeMessenger) SendResponse(_ context.Context, responseURL, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses = append(f.responses, responseCall{URL: responseURL, Text: text})
	return nil
}

func (f *fakeMessenger) UserProfile(_ context.Context, _, _ string) (slack.Profile, error) {
	return f.profile, f.profileErr
}

func (f *fakeMessenger) OAuthAccess(_ context.Context, _ string) (slack.OAuthResponse, error) {
	return f.oauth, nil
}

func (f *fakeMessenger) sentCalls() []sentCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]sentCall(nil), f.sent...)
}

func (f *fakeMessenger) updateCalls() []updateCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]updateCall(nil), f.updates...)
}

func (f *fakeMessenger) deleteCalls() []deleteCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]deleteCall(nil), f.deletes...)
}

func (f *fakeMessenger) responseCalls() []responseCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]responseCall(nil), f.responses...)
}

// newTestService wires a service onto the in-memory store, a recording
// messenger and a single-worker queue. flush blocks until every queued
// delivery has run.
func newTestService(t *testing.T) (*Service, *store.Memory, *fakeMessenger, func()) {
	t.Helper()

	st := store.NewMemory()
	fake := &fakeMessenger{}
	queue := delivery.NewDispatcher(16)
	queue.Start(context.Background(), 1)

	require.NoError(t, st.UpsertTeam(context.Background(), &model.Team{
		TeamID:         "T1",
		TeamName:       "acme",
		BotAccessToken: "xoxb-test",
	}))

	flush := func() { queue.Stop(2 * time.Second) }
	return New(st, fake, queue), st, fake, flush
}

func strptr(s string) *string { return &s }
