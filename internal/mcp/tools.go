package mcp

import (
	"context"

	"github.com/corevia/corevia/internal/models"
	"github.com/mark3labs/mcp-go/mcp"
)

// requirePart reads and validates the part argument shared by most tools.
func requirePart(req mcp.CallToolRequest) (models.Part, *mcp.CallToolResult) {
	raw, err := req.RequireString("part")
	if err != nil {
		return "", mcp.NewToolResultError("part parameter is required")
	}
	part, err := models.ParsePart(raw)
	if err != nil {
		return "", mcp.NewToolResultError(err.Error())
	}
	return part, nil
}

// --- Tool definitions ---

var toolGetLastSession = mcp.NewTool("get_last_session",
	mcp.WithDescription("Get the most recent recorded workout session for a body part: working weight, per-set reps and success flags, accessories, and notes."),
	mcp.WithString("part", mcp.Required(), mcp.Description("Body part"), mcp.Enum("chest", "back", "shoulder", "leg")),
)

var toolGetProgress = mcp.NewTool("get_progress",
	mcp.WithDescription("Get the progressive-overload history for a body part: one point per session (date, working weight, successful sets out of 5), oldest first."),
	mcp.WithString("part", mcp.Required(), mcp.Description("Body part"), mcp.Enum("chest", "back", "shoulder", "leg")),
)

var toolGetFaqs = mcp.NewTool("get_faqs",
	mcp.WithDescription("Get exercise guide FAQs for a body part."),
	mcp.WithString("part", mcp.Required(), mcp.Description("Body part"), mcp.Enum("chest", "back", "shoulder", "leg")),
)

var toolListParts = mcp.NewTool("list_parts",
	mcp.WithDescription("List trainable body parts and the main compound lift tracked for each."),
)

// --- Tool handlers ---

func (h *handlers) getLastSession(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	part, errResult := requirePart(req)
	if errResult != nil {
		return errResult, nil
	}

	uid := UserIDFromContext(ctx)
	sess, err := h.ds.LatestSession(ctx, uid, part)
	if err != nil {
		h.log.Error("mcp get_last_session", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	if sess == nil {
		return mcp.NewToolResultText("no session recorded yet for " + part.String()), nil
	}

	result, err := mcp.NewToolResultJSON(sess)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getProgress(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	part, errResult := requirePart(req)
	if errResult != nil {
		return errResult, nil
	}

	uid := UserIDFromContext(ctx)
	sessions, err := h.ds.SessionsByPart(ctx, uid, part)
	if err != nil {
		h.log.Error("mcp get_progress", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	points := make([]models.ProgressPoint, 0, len(sessions))
	for _, sess := range sessions {
		points = append(points, models.ProgressPoint{
			Date:        sess.Date,
			Weight:      sess.MainExercise.Weight,
			SuccessSets: sess.MainExercise.SuccessSets(),
		})
	}

	result, err := mcp.NewToolResultJSON(points)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getFaqs(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	part, errResult := requirePart(req)
	if errResult != nil {
		return errResult, nil
	}

	faqs, err := h.ds.FAQsByPart(ctx, part)
	if err != nil {
		h.log.Error("mcp get_faqs", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(faqs)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) listParts(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	type partInfo struct {
		Part     models.Part `json:"part"`
		CoreLift string      `json:"coreLift"`
	}
	parts := make([]partInfo, 0, len(models.Parts))
	for _, p := range models.Parts {
		parts = append(parts, partInfo{Part: p, CoreLift: p.CoreLift()})
	}

	result, err := mcp.NewToolResultJSON(parts)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}
