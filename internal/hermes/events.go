package hermes

import (
	"time"

	"github.com/MikeSquared-Agency/Seeds/internal/scoring"
)

type BoardEvent struct {
	BoardID string `json:"board_id"`
	Name    string `json:"name,omitempty"`
	Actor   string `json:"actor,omitempty"`
}

type WeightsChangedEvent struct {
	BoardID   string               `json:"board_id"`
	Dimension string               `json:"dimension"`
	Requested float64              `json:"requested"`
	Previous  scoring.WeightConfig `json:"previous"`
	Weights   scoring.WeightConfig `json:"weights"`
	Capped    bool                 `json:"capped"`
	Actor     string               `json:"actor,omitempty"`
}

type SeedEvent struct {
	SeedID  string `json:"seed_id"`
	BoardID string `json:"board_id"`
	Title   string `json:"title,omitempty"`
	Status  string `json:"status,omitempty"`
	Actor   string `json:"actor,omitempty"`
}

type CommentEvent struct {
	CommentID string `json:"comment_id"`
	SeedID    string `json:"seed_id"`
	Author    string `json:"author,omitempty"`
}

type RescoreEvent struct {
	BoardID   string    `json:"board_id"`
	Seeds     int       `json:"seeds"`
	Changed   int       `json:"changed"`
	Timestamp time.Time `json:"timestamp"`
}

type ExportEvent struct {
	Key       string    `json:"key"`
	Boards    int       `json:"boards"`
	Seeds     int       `json:"seeds"`
	Bytes     int       `json:"bytes"`
	Timestamp time.Time `json:"timestamp"`
}
