package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"progress-bot/internal/delivery"
	"progress-bot/internal/model"
	"progress-bot/internal/service"
	"progress-bot/internal/slack"
	"progress-bot/internal/store"
)

// nopMessenger satisfies the outbound surface without talking to Slack.
type nopMessenger struct{}

func (nopMessenger) SendMessage(_ context.Context, _, channel string, _ slack.Message) (slack.MessageAck, error) {
	return slack.MessageAck{OK: true, Channel: channel, TS: "1.0"}, nil
}

func (nopMessenger) UpdateMessage(_ context.Context, _, channel, ts string, _ slack.Message) (slack.MessageAck, error) {
	return slack.MessageAck{OK: true, Channel: channel, TS: ts}, nil
}

func (nopMessenger) DeleteMessage(context.Context, string, string, string) error { return nil }

func (nopMessenger) OpenDialog(context.Context, string, string, map[string]any) error { return nil }

func (nopMessenger) SendResponse(context.Context, string, string) error { return nil }

func (nopMessenger) UserProfile(context.Context, string, string) (slack.Profile, error) {
	return slack.Profile{}, nil
}

func (nopMessenger) OAuthAccess(context.Context, string) (slack.OAuthResponse, error) {
	return slack.OAuthResponse{TeamID: "T2", BotAccessToken: "xoxb-new"}, nil
}

func newTestRouter(t *testing.T) (*gin.Engine, *store.Memory) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	st := store.NewMemory()
	require.NoError(t, st.UpsertTeam(context.Background(), &model.Team{
		TeamID: "T1", BotAccessToken: "xoxb-test",
	}))

	queue := delivery.NewDispatcher(16)
	queue.Start(context.Background(), 1)
	t.Cleanup(func() { queue.Stop(2 * time.Second) })

	svc := service.New(st, nopMessenger{}, queue)

	eventH := NewEventHandler(svc)
	commandH := NewCommandHandler(svc)
	interactH := NewInteractionHandler(svc)
	oauthH := NewOAuthHandler(svc, "https://progress.test/ok", "https://progress.test/err")

	r := gin.New()
	r.POST("/", eventH.Events)
	r.POST("/config", interactH.Interact)
	r.POST("/today", commandH.Today)
	r.POST("/done", commandH.Done)
	r.POST("/undo", commandH.Undo)
	r.POST("/add", commandH.Add)
	r.POST("/help", commandH.Help)
	r.POST("/remove", commandH.Remove)
	r.GET("/oauth", oauthH.Authorize)
	return r, st
}

func postJSON(r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func postForm(r *gin.Engine, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func commandForm(text string) url.Values {
	return url.Values{
		"team_id": {"T1"},
		"user_id": {"U1"},
		"text":    {text},
	}
}

func TestEventsChallengeEcho(t *testing.T) {
	r, _ := newTestRouter(t)

	w := postJSON(r, "/", `{"challenge":"ch-123","token":"tok"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ch-123", w.Body.String())
}

func TestEventsRejectsMalformedBody(t *testing.T) {
	r, _ := newTestRouter(t)

	w := postJSON(r, "/", `{"event":`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestEventsMessageAcksImmediately(t *testing.T) {
	r, st := newTestRouter(t)

	w := postJSON(r, "/", `{"team_id":"T1","event":{"type":"message","text":"hi","user":"U1","ts":"1.0"}}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String())

	_, err := st.TodayStandup(context.Background(), "U1")
	assert.NoError(t, err, "greeting creates today's record")
}

func TestTodayWithoutStandup(t *testing.T) {
	r, _ := newTestRouter(t)

	w := postForm(r, "/today", commandForm(""))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, gjson.Get(w.Body.String(), "text").String(), "Couldn't find todays standup")
}

func TestDoneRequiresTaskNumber(t *testing.T) {
	r, _ := newTestRouter(t)

	for path, verb := range map[string]string{"/done": "done", "/undo": "not done"} {
		w := postForm(r, path, commandForm("not-a-number"))
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, gjson.Get(w.Body.String(), "text").String(),
			"Please include the task number to set as "+verb)
	}
}

func TestAddRequiresText(t *testing.T) {
	r, _ := newTestRouter(t)

	w := postForm(r, "/add", commandForm("   "))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, gjson.Get(w.Body.String(), "text").String(), "include the task to add")
}

func TestRemoveWithoutStandup(t *testing.T) {
	r, _ := newTestRouter(t)

	w := postForm(r, "/remove", commandForm(""))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, gjson.Get(w.Body.String(), "text").String(), "nothing to do here")
}

func TestHelpReply(t *testing.T) {
	r, _ := newTestRouter(t)

	w := postForm(r, "/help", commandForm(""))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, gjson.Get(w.Body.String(), "text").String(), "/progress-config")
}

func TestInteractRequiresPayload(t *testing.T) {
	r, _ := newTestRouter(t)

	w := postForm(r, "/config", url.Values{})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestInteractIgnoresUnknownType(t *testing.T) {
	r, _ := newTestRouter(t)

	w := postForm(r, "/config", url.Values{"payload": {`{"type":"view_submission"}`}})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{}`, w.Body.String())
}

func TestInteractDialogSubmission(t *testing.T) {
	r, st := newTestRouter(t)

	payload := `{"type":"dialog_submission","user":{"id":"U1"},"team":{"id":"T1"},` +
		`"submission":{"channel":"C42","reminder":"9"},"response_url":"https://hooks.test/r1"}`
	w := postForm(r, "/config", url.Values{"payload": {payload}})

	require.Equal(t, http.StatusOK, w.Code)

	user, err := st.GetUser(context.Background(), "U1")
	require.NoError(t, err)
	require.NotNil(t, user.Channel)
	assert.Equal(t, "C42", *user.Channel)
}

func TestOAuthSuccessRedirect(t *testing.T) {
	r, st := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/oauth?code=install", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "https://progress.test/ok", w.Header().Get("Location"))

	token, err := st.BotTokenForTeam(context.Background(), "T2")
	require.NoError(t, err)
	assert.Equal(t, "xoxb-new", token)
}

func TestOAuthDeclinedRedirect(t *testing.T) {
	r, _ := newTestRouter(t)

	for _, path := range []string{"/oauth?error=access_denied", "/oauth"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "https://progress.test/err", w.Header().Get("Location"))
	}
}
