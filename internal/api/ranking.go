package api

import (
	"net/http"

	"golang.org/x/text/language"

	"github.com/MikeSquared-Agency/Seeds/internal/metrics"
	"github.com/MikeSquared-Agency/Seeds/internal/scoring"
	"github.com/MikeSquared-Agency/Seeds/internal/store"
)

// rankDefaults apply when a ranking request omits sort or order.
type rankDefaults struct {
	strategy  scoring.Strategy
	direction scoring.Direction
	locale    language.Tag
}

type RankingHandler struct {
	store    store.Store
	engine   *scoring.Engine
	defaults rankDefaults
	metrics  *metrics.Metrics
}

func NewRankingHandler(s store.Store, e *scoring.Engine, d rankDefaults, m *metrics.Metrics) *RankingHandler {
	return &RankingHandler{store: s, engine: e, defaults: d, metrics: m}
}

type RankedSeed struct {
	Rank  int         `json:"rank"`
	Score float64     `json:"score"`
	Seed  *store.Seed `json:"seed"`
}

type RankingResponse struct {
	BoardID  string               `json:"board_id"`
	Strategy scoring.Strategy     `json:"strategy"`
	Order    scoring.Direction    `json:"order"`
	Weights  scoring.WeightConfig `json:"weights"`
	MaxScore float64              `json:"max_score"`
	Items    []RankedSeed         `json:"items"`
	Summary  scoring.Summary      `json:"summary"`
}

// Rank handles GET /api/v1/boards/{id}/ranking?sort=&order=&status=
//
// Scores are always recomputed from the board's current weights; the
// cached seed score is not consulted.
func (h *RankingHandler) Rank(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	strategy := h.defaults.strategy
	if s := q.Get("sort"); s != "" {
		parsed, err := scoring.ParseStrategy(s)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		strategy = parsed
	}
	direction := h.defaults.direction
	if s := q.Get("order"); s != "" {
		parsed, err := scoring.ParseDirection(s)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		direction = parsed
	}
	locale := h.defaults.locale
	if s := q.Get("locale"); s != "" {
		tag, err := language.Parse(s)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid locale: "+s)
			return
		}
		locale = tag
	}

	board, ok := loadBoard(w, r, h.store)
	if !ok {
		return
	}

	filter := store.SeedFilter{BoardID: &board.ID}
	if s := q.Get("status"); s != "" {
		status := store.SeedStatus(s)
		if !status.Valid() {
			writeError(w, http.StatusBadRequest, "invalid status: "+s)
			return
		}
		filter.Status = &status
	}

	seeds, err := store.AllSeeds(r.Context(), h.store, filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	ranked, err := scoring.Rank(strategy, direction, seeds, scoring.RankOptions{
		Engine:  h.engine,
		Weights: board.Weights,
		Locale:  locale,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	h.metrics.ObserveRank(string(strategy))

	items := make([]RankedSeed, len(ranked))
	for i, s := range ranked {
		items[i] = RankedSeed{Rank: i + 1, Score: s.Score, Seed: s.Idea}
	}

	writeJSON(w, http.StatusOK, RankingResponse{
		BoardID:  board.ID.String(),
		Strategy: strategy,
		Order:    direction,
		Weights:  board.Weights,
		MaxScore: h.engine.MaxScore(board.Weights),
		Items:    items,
		Summary:  scoring.Summarize(ranked),
	})
}
