package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"scenebuilder/internal/archive"
	"scenebuilder/internal/scene"
	"scenebuilder/internal/types"
	"scenebuilder/internal/util/jsonutil"
)

const maxBodyBytes = 1 << 20

// SceneRunner is the pipeline surface the handler needs.
type SceneRunner interface {
	Run(ctx context.Context, prompt string, c types.Constraints) (*scene.Result, error)
}

// SceneHandler serves scene generation and archived lookups. Archive may
// be nil, in which case nothing is stored and lookups always miss.
type SceneHandler struct {
	runner  SceneRunner
	archive archive.Store
	log     *log.Logger
}

func NewSceneHandler(runner SceneRunner, store archive.Store, logger *log.Logger) *SceneHandler {
	if logger == nil {
		logger = log.Default()
	}
	return &SceneHandler{runner: runner, archive: store, log: logger}
}

// SceneRequest is the POST /v1/agent/scene body.
type SceneRequest struct {
	Prompt      string              `json:"prompt"`
	Constraints *RequestConstraints `json:"constraints"`
}

// RequestConstraints keeps pointers so an explicit zero can be told apart
// from an omitted field.
type RequestConstraints struct {
	TotalDurationSec *int   `json:"totalDurationSec"`
	AspectRatio      string `json:"aspectRatio"`
	FPS              *int   `json:"fps"`
	Language         string `json:"language"`
	Deterministic    bool   `json:"deterministic"`
}

func (r SceneRequest) validate() (types.Constraints, []string) {
	var problems []string
	if strings.TrimSpace(r.Prompt) == "" {
		problems = append(problems, "prompt: field required")
	}
	var c types.Constraints
	if in := r.Constraints; in != nil {
		if in.TotalDurationSec != nil && *in.TotalDurationSec < 0 {
			problems = append(problems, fmt.Sprintf("constraints.totalDurationSec: must be non-negative, got %d", *in.TotalDurationSec))
		}
		if in.FPS != nil && *in.FPS <= 0 {
			problems = append(problems, fmt.Sprintf("constraints.fps: must be positive, got %d", *in.FPS))
		}
		c = types.Constraints{
			TotalDurationSec: in.TotalDurationSec,
			AspectRatio:      strings.TrimSpace(in.AspectRatio),
			Language:         strings.TrimSpace(in.Language),
			Deterministic:    in.Deterministic,
		}
		if in.FPS != nil {
			c.FPS = *in.FPS
		}
	}
	return c.WithDefaults(), problems
}

// HandleCreate runs the pipeline and returns {plan, scene}.
func (h *SceneHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req SceneRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, fmt.Sprintf("invalid request body: %v", err))
		return
	}
	c, problems := req.validate()
	if len(problems) > 0 {
		writeDetail(w, http.StatusUnprocessableEntity, problems...)
		return
	}

	res, err := h.runner.Run(r.Context(), req.Prompt, c)
	if err != nil {
		var perr *scene.Error
		switch {
		case errors.As(err, &perr):
			h.log.Printf("scene handler: %s failed: %v", perr.Kind, err)
			writeDetail(w, http.StatusUnprocessableEntity, perr.Details()...)
		case errors.Is(err, scene.ErrEmptyPrompt):
			writeDetail(w, http.StatusUnprocessableEntity, "prompt: field required")
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			h.log.Printf("scene handler: request abandoned: %v", err)
			writeDetail(w, http.StatusServiceUnavailable, "request canceled")
		default:
			h.log.Printf("scene handler: %v", err)
			writeDetail(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	body, err := jsonutil.MarshalNoEscape(res)
	if err != nil {
		h.log.Printf("scene handler: encode result: %v", err)
		writeDetail(w, http.StatusInternalServerError, "internal error")
		return
	}
	if h.archive != nil {
		if err := h.archive.Put(r.Context(), res.ProcessID, body); err != nil {
			h.log.Printf("scene handler: archive %s: %v", res.ProcessID, err)
		}
	}
	w.Header().Set("X-Process-Id", res.ProcessID)
	writeJSON(w, http.StatusOK, body)
}

// HandleGet returns a previously generated response by process id.
func (h *SceneHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.PathValue("id"))
	if h.archive == nil || id == "" {
		writeDetail(w, http.StatusNotFound, "scene not found")
		return
	}
	body, err := h.archive.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, archive.ErrNotFound) {
			writeDetail(w, http.StatusNotFound, "scene not found")
			return
		}
		h.log.Printf("scene handler: archive get %s: %v", id, err)
		writeDetail(w, http.StatusBadGateway, "archive unavailable")
		return
	}
	w.Header().Set("X-Process-Id", id)
	writeJSON(w, http.StatusOK, body)
}

func writeDetail(w http.ResponseWriter, status int, detail ...string) {
	body, _ := jsonutil.MarshalNoEscape(map[string]any{"detail": detail})
	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}
