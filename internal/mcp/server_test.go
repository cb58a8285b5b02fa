package mcp

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/corevia/corevia/internal/models"
	mcplib "github.com/mark3labs/mcp-go/mcp"
)

// fakeDataSource serves canned sessions for tool handler tests.
type fakeDataSource struct {
	sessions []models.Session
	faqs     []models.FAQ
	fail     bool
}

var errQuery = errors.New("query failed")

func (f *fakeDataSource) LatestSession(ctx context.Context, userID string, part models.Part) (*models.Session, error) {
	if f.fail {
		return nil, errQuery
	}
	for i := len(f.sessions) - 1; i >= 0; i-- {
		if f.sessions[i].UserID == userID && f.sessions[i].Part == part {
			return &f.sessions[i], nil
		}
	}
	return nil, nil
}

func (f *fakeDataSource) SessionsByPart(ctx context.Context, userID string, part models.Part) ([]models.Session, error) {
	if f.fail {
		return nil, errQuery
	}
	var result []models.Session
	for _, s := range f.sessions {
		if s.UserID == userID && s.Part == part {
			result = append(result, s)
		}
	}
	return result, nil
}

func (f *fakeDataSource) FAQsByPart(ctx context.Context, part models.Part) ([]models.FAQ, error) {
	if f.fail {
		return nil, errQuery
	}
	return f.faqs, nil
}

func testHandlers(ds DataSource) *handlers {
	return &handlers{ds: ds, log: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

func partRequest(part string) mcplib.CallToolRequest {
	var req mcplib.CallToolRequest
	req.Params.Arguments = map[string]any{"part": part}
	return req
}

func resultText(t *testing.T, res *mcplib.CallToolResult) string {
	t.Helper()
	if len(res.Content) == 0 {
		t.Fatal("empty tool result")
	}
	text, ok := res.Content[0].(mcplib.TextContent)
	if !ok {
		t.Fatalf("content type = %T, want TextContent", res.Content[0])
	}
	return text.Text
}

// TestUserIDFromContextDefault verifies the default user ID when no
// value is set in the context.
func TestUserIDFromContextDefault(t *testing.T) {
	if id := UserIDFromContext(context.Background()); id != "local" {
		t.Errorf("UserIDFromContext(empty) = %q, want local", id)
	}
}

// TestUserIDFromContextSet verifies the user ID is extracted from
// context after being set by WithUserID.
func TestUserIDFromContextSet(t *testing.T) {
	ctx := WithUserID(context.Background(), "alice")
	if id := UserIDFromContext(ctx); id != "alice" {
		t.Errorf("UserIDFromContext = %q, want alice", id)
	}
}

// TestRequirePart verifies the shared part-argument validation.
func TestRequirePart(t *testing.T) {
	if _, errResult := requirePart(partRequest("chest")); errResult != nil {
		t.Errorf("valid part rejected: %v", errResult)
	}
	if _, errResult := requirePart(partRequest("arms")); errResult == nil {
		t.Error("invalid part accepted")
	}
	if _, errResult := requirePart(mcplib.CallToolRequest{}); errResult == nil {
		t.Error("missing part accepted")
	}
}

// TestGetLastSessionNone verifies the no-session case returns a plain
// text answer rather than an error.
func TestGetLastSessionNone(t *testing.T) {
	h := testHandlers(&fakeDataSource{})

	res, err := h.getLastSession(context.Background(), partRequest("chest"))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if res.IsError {
		t.Fatal("no-session case reported as tool error")
	}
	if got := resultText(t, res); !strings.Contains(got, "no session recorded yet") {
		t.Errorf("text = %q", got)
	}
}

// TestGetLastSessionFound verifies the session is returned as JSON for
// the context user.
func TestGetLastSessionFound(t *testing.T) {
	ds := &fakeDataSource{sessions: []models.Session{{
		UserID:       "alice",
		Date:         time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
		Part:         models.PartChest,
		MainExercise: models.NewMainExercise(models.PartChest, 60),
	}}}
	h := testHandlers(ds)

	ctx := WithUserID(context.Background(), "alice")
	res, err := h.getLastSession(ctx, partRequest("chest"))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if res.IsError {
		t.Fatalf("tool error: %s", resultText(t, res))
	}
	if got := resultText(t, res); !strings.Contains(got, `"weight":60`) {
		t.Errorf("json = %q, want weight 60", got)
	}
}

// TestGetLastSessionQueryError verifies database failures surface as
// tool errors, not transport errors.
func TestGetLastSessionQueryError(t *testing.T) {
	h := testHandlers(&fakeDataSource{fail: true})

	res, err := h.getLastSession(context.Background(), partRequest("chest"))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !res.IsError {
		t.Error("query failure not reported as tool error")
	}
}

// TestGetProgressMapsSessions verifies progress points are derived from
// the session history.
func TestGetProgressMapsSessions(t *testing.T) {
	sess := models.Session{
		UserID:       "local",
		Date:         time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
		Part:         models.PartLeg,
		MainExercise: models.NewMainExercise(models.PartLeg, 100),
	}
	sess.MainExercise.Sets[0].IsSuccess = true
	sess.MainExercise.Sets[1].IsSuccess = true
	h := testHandlers(&fakeDataSource{sessions: []models.Session{sess}})

	res, err := h.getProgress(context.Background(), partRequest("leg"))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	got := resultText(t, res)
	if !strings.Contains(got, `"weight":100`) || !strings.Contains(got, `"successSets":2`) {
		t.Errorf("json = %q, want weight 100 and successSets 2", got)
	}
}

// TestListParts verifies the static part list tool.
func TestListParts(t *testing.T) {
	h := testHandlers(&fakeDataSource{})

	res, err := h.listParts(context.Background(), mcplib.CallToolRequest{})
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	got := resultText(t, res)
	for _, want := range []string{"chest", "bench press", "leg", "squat"} {
		if !strings.Contains(got, want) {
			t.Errorf("json = %q, missing %q", got, want)
		}
	}
}
