package server

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/dekarrin/casengine"
	"github.com/dekarrin/casengine/internal/snapshot"
	"github.com/dekarrin/casengine/server/result"
	"github.com/dekarrin/casengine/server/serr"
)

type analyzeRequest struct {
	Input string `json:"input"`
}

type stepDTO struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Latex       string `json:"latex,omitempty"`
	Expression  string `json:"expression,omitempty"`
}

type followUpDTO struct {
	Label       string `json:"label"`
	Description string `json:"description"`
}

type plotConfigDTO struct {
	Variable string  `json:"variable"`
	XMin     float64 `json:"xMin"`
	XMax     float64 `json:"xMax"`
}

// analyzeResponse mirrors strategy.SolutionBundle's field names, per
// SPEC_FULL.md §6, wrapping the few EvaluationResult-only fields (input,
// strategy) that don't belong to the bundle itself.
type analyzeResponse struct {
	Input       string         `json:"input"`
	Strategy    string         `json:"strategy"`
	Type        string         `json:"type"`
	Exact       string         `json:"exact"`
	Approx      string         `json:"approx,omitempty"`
	ApproxValue *float64       `json:"approxValue,omitempty"`
	Steps       []stepDTO      `json:"steps,omitempty"`
	FollowUps   []followUpDTO  `json:"followUps,omitempty"`
	PlotConfig  *plotConfigDTO `json:"plotConfig,omitempty"`
	Details     map[string]any `json:"details,omitempty"`
}

// handleCreateSession issues a fresh anonymous session token, the
// replacement for the teacher's login endpoint now that there are no user
// accounts to authenticate against.
func (s *Server) handleCreateSession(w http.ResponseWriter, req *http.Request) {
	sessionID := uuid.New()
	tok, err := generateSessionToken(s.tokenSecret, sessionID)
	if err != nil {
		result.InternalServerError("generate session token: %v", err).WriteResponse(w)
		return
	}
	result.Created(map[string]string{"token": tok}, "session created").WriteResponse(w)
}

// handleAnalyze runs casengine.Analyze on the posted expression. If a valid
// bearer token is present the result is also recorded to that session's
// history; an analyze request with no token or an invalid one is still
// served, it just isn't remembered.
func (s *Server) handleAnalyze(w http.ResponseWriter, req *http.Request) {
	var body analyzeRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		result.BadRequest("request body could not be parsed", "%s", serr.New("decode analyze request", err)).WriteResponse(w)
		return
	}
	if body.Input == "" {
		result.BadRequest("input is required", "empty input field").WriteResponse(w)
		return
	}

	eval, err := casengine.Analyze(body.Input)
	if err != nil {
		result.UnprocessableEntity(err.Error(), "analyze %q: %v", body.Input, err).WriteResponse(w)
		return
	}

	resp := analyzeResponse{
		Input:    eval.Input,
		Strategy: eval.Strategy,
		Type:     string(eval.Bundle.Tag),
		Exact:    eval.Tex,
		Approx:   eval.Approx,
		Details:  eval.Bundle.Details,
	}
	if eval.Bundle.HasApprox {
		v := eval.Bundle.ApproxValue
		resp.ApproxValue = &v
	}
	for _, step := range eval.Bundle.Steps {
		dto := stepDTO{
			Title:       step.Title,
			Description: step.Description,
			Latex:       step.Latex,
		}
		if step.Expression != nil {
			dto.Expression = step.Expression.String()
		}
		resp.Steps = append(resp.Steps, dto)
	}
	for _, f := range eval.Bundle.FollowUps {
		resp.FollowUps = append(resp.FollowUps, followUpDTO{
			Label:       f.Label,
			Description: f.Description,
		})
	}
	if eval.Bundle.Plot != nil {
		resp.PlotConfig = &plotConfigDTO{
			Variable: eval.Bundle.Plot.Variable,
			XMin:     eval.Bundle.Plot.XMin,
			XMax:     eval.Bundle.Plot.XMax,
		}
	}

	if sessionID, ok := s.optionalSession(req); ok {
		rec := &snapshot.Record{
			Input:    eval.Input,
			Tree:     eval.AST,
			Result:   eval.Bundle.Result,
			Tex:      eval.Tex,
			Strategy: eval.Strategy,
			Approx:   eval.Approx,
		}
		s.history.Append(sessionID, rec)
	}

	result.OK(resp, "analyzed %q", body.Input).WriteResponse(w)
}

type historyEntry struct {
	Input    string `json:"input"`
	Result   string `json:"result"`
	Tex      string `json:"tex"`
	Strategy string `json:"strategy"`
	Approx   string `json:"approx,omitempty"`
}

// handleHistory lists the past analyses recorded for the caller's session.
// It requires a valid bearer token; unlike handleAnalyze there's no anonymous
// fallback because there is nothing to list without a session identity.
func (s *Server) handleHistory(w http.ResponseWriter, req *http.Request) {
	sessionID, ok := s.optionalSession(req)
	if !ok {
		result.Unauthorized("", "%s", serr.ErrInvalidToken).WriteResponse(w)
		return
	}

	recs := s.history.List(sessionID)
	entries := make([]historyEntry, 0, len(recs))
	for _, r := range recs {
		entries = append(entries, historyEntry{
			Input:    r.Input,
			Result:   r.Result.String(),
			Tex:      r.Tex,
			Strategy: r.Strategy,
			Approx:   r.Approx,
		})
	}

	result.OK(entries, "listed %d history entries", len(entries)).WriteResponse(w)
}

// optionalSession returns the session ID carried by req's bearer token, if
// any valid one is present.
func (s *Server) optionalSession(req *http.Request) (uuid.UUID, bool) {
	tok, err := getBearerTokenFromHeader(req.Header.Get("Authorization"))
	if err != nil {
		return uuid.UUID{}, false
	}
	sessionID, err := validateSessionToken(tok, s.tokenSecret)
	if err != nil {
		return uuid.UUID{}, false
	}
	return sessionID, true
}
