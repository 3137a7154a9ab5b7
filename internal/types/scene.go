package types

// Scene document ------------------------------------------------------------------

// Row kinds accepted by the schema.
const (
	KindVideo    = "video"
	KindImage    = "image"
	KindAudio    = "audio"
	KindText     = "text"
	KindCaptions = "captions"
)

// ActionTypes lists every action type the schema accepts.
var ActionTypes = []string{KindVideo, KindImage, KindAudio, KindText}

// RowKinds lists every lane kind a row may declare.
var RowKinds = []string{KindVideo, KindImage, KindAudio, KindText, KindCaptions}

// Meta defaults applied when the field is absent or null.
const (
	DefaultAspectRatio = "16:9"
	DefaultFPS         = 30
	DefaultGenerator   = "scene-builder-agent"
	DefaultVersion     = "1.0.0"
	DefaultLanguage    = "en"
)

type SceneDocument struct {
	Scenes []Scene `json:"scenes" yaml:"scenes"`
	Meta   Meta    `json:"meta" yaml:"meta"`
}

type Scene struct {
	ID          string  `json:"id" yaml:"id"`
	Title       string  `json:"title" yaml:"title"`
	Description string  `json:"description" yaml:"description"`
	Rows        []Row   `json:"rows" yaml:"rows"`
	DurationSec float64 `json:"durationSec" yaml:"durationSec"`
}

// Row is a timeline lane. A scene may hold any number of rows.
type Row struct {
	ID          string   `json:"id" yaml:"id"`
	Kind        string   `json:"kind" yaml:"kind"`
	Actions     []Action `json:"actions" yaml:"actions"`
	Transitions []Effect `json:"transitions" yaml:"transitions"`
}

type Action struct {
	ID          string         `json:"id" yaml:"id"`
	Type        string         `json:"type" yaml:"type"`
	StartSec    float64        `json:"startSec" yaml:"startSec"`
	DurationSec float64        `json:"durationSec" yaml:"durationSec"`
	Props       map[string]any `json:"props" yaml:"props"`
	Effects     []Effect       `json:"effects" yaml:"effects"`
}

// Effect doubles as a transition record. Props is open-ended.
type Effect struct {
	Name  string         `json:"name" yaml:"name"`
	Props map[string]any `json:"props" yaml:"props"`
}

type Meta struct {
	AspectRatio      string  `json:"aspectRatio" yaml:"aspectRatio"`
	FPS              int     `json:"fps" yaml:"fps"`
	TotalDurationSec float64 `json:"totalDurationSec" yaml:"totalDurationSec"`
	Generator        string  `json:"generator" yaml:"generator"`
	Version          string  `json:"version" yaml:"version"`
	Language         string  `json:"language,omitempty" yaml:"language,omitempty"`
	Deterministic    bool    `json:"deterministic" yaml:"deterministic"`
}

// LicenseBlock is the structural license record carried in action props.
type LicenseBlock struct {
	Source  string `json:"source"`
	Author  string `json:"author"`
	URL     string `json:"url"`
	License string `json:"license"`
}

// License reads props["license"] when it is a mapping.
func (a Action) License() (LicenseBlock, bool) {
	m, ok := a.Props["license"].(map[string]any)
	if !ok {
		return LicenseBlock{}, false
	}
	str := func(k string) string {
		s, _ := m[k].(string)
		return s
	}
	return LicenseBlock{Source: str("source"), Author: str("author"), URL: str("url"), License: str("license")}, true
}

// SceneDurationSum adds every scene's durationSec.
func (d *SceneDocument) SceneDurationSum() float64 {
	var sum float64
	for _, s := range d.Scenes {
		sum += s.DurationSec
	}
	return sum
}

// Request / response ---------------------------------------------------------------

// Constraints are the caller-supplied generation hints. Zero values mean "unset".
type Constraints struct {
	TotalDurationSec *int   `json:"totalDurationSec"`
	AspectRatio      string `json:"aspectRatio"`
	FPS              int    `json:"fps"`
	Language         string `json:"language"`
	Deterministic    bool   `json:"deterministic"`
}

// WithDefaults fills unset fields.
func (c Constraints) WithDefaults() Constraints {
	if c.AspectRatio == "" {
		c.AspectRatio = DefaultAspectRatio
	}
	if c.FPS == 0 {
		c.FPS = DefaultFPS
	}
	if c.Language == "" {
		c.Language = DefaultLanguage
	}
	return c
}

type PlanSummary struct {
	ScenesCount int    `json:"scenesCount" yaml:"scenesCount"`
	Notes       string `json:"notes" yaml:"notes"`
	Prompt      string `json:"prompt" yaml:"prompt"`
}
