package services

import (
	"github.com/sirupsen/logrus"

	"github.com/leaguehq/draftsim/internal/behavior"
	"github.com/leaguehq/draftsim/internal/draft"
	"github.com/leaguehq/draftsim/internal/models"
	"github.com/leaguehq/draftsim/internal/predictor"
)

// recentPickWindow is how much league-wide pick history feeds the board
// context for run detection.
const recentPickWindow = 6

// AutopickDriver advances a draft one pick at a time using the on-clock
// member's behavior model. Looping is the caller's concern: a UI drives
// it on its own cadence, a mock draft calls Step until completion, and
// cancellation is simply not calling the next step.
type AutopickDriver struct {
	predictor *predictor.Predictor
	logger    *logrus.Logger
}

// NewAutopickDriver creates a driver around a predictor.
func NewAutopickDriver(p *predictor.Predictor, logger *logrus.Logger) *AutopickDriver {
	return &AutopickDriver{predictor: p, logger: logger}
}

// StepResult reports one applied autopick and the prediction behind it.
// Prediction is nil when the best-remaining-ADP fallback was used.
type StepResult struct {
	Pick       models.Pick           `json:"pick"`
	Prediction *predictor.Prediction `json:"prediction,omitempty"`
}

// BoardContextFor assembles the league-wide board context from live
// simulator state.
func BoardContextFor(sim *draft.Simulator) behavior.BoardContext {
	return behavior.BoardContext{
		RecentPositions:     sim.RecentPositions(recentPickWindow),
		RemainingByPosition: sim.RemainingByPosition(),
	}
}

// Step predicts and applies the next pick for the member on the clock.
// A member without a model, or a prediction with no viable candidate,
// falls back to the best remaining player by ADP; the fallback is part
// of the contract, not an error path.
func (d *AutopickDriver) Step(session *DraftSession) (*StepResult, error) {
	sim := session.Sim
	if sim.IsComplete() {
		return nil, &draft.InvalidStateError{Reason: "draft is complete"}
	}

	memberID := sim.CurrentMember()
	pos := draft.PositionForPick(sim.CurrentPickNumber(), sim.Settings().TeamCount, sim.Settings().DraftType)
	pool := sim.Pool()
	board := BoardContextFor(sim)

	var prediction *predictor.Prediction
	var selected *models.PlayerPoolEntry

	if model := session.Models[memberID]; model != nil {
		prediction = d.predictor.Predict(model, sim.PicksByMember(memberID), pool, pos.Round, pos.Slot, board)
		if prediction != nil {
			selected = d.predictor.SelectPlayer(pool, prediction.Position, prediction.Confidence)
		}
	}
	if selected == nil {
		prediction = nil
		selected = predictor.BestRemaining(pool)
	}
	if selected == nil {
		return nil, &draft.InvalidStateError{Reason: "player pool is exhausted"}
	}

	pick, err := sim.ApplyPick(selected.PlayerID, true)
	if err != nil {
		return nil, err
	}

	if d.logger != nil {
		fields := logrus.Fields{
			"session_id": session.ID,
			"pick":       pick.PickNumber,
			"member_id":  memberID,
			"player":     pick.PlayerName,
		}
		if prediction != nil {
			fields["confidence"] = prediction.Confidence
		} else {
			fields["fallback"] = "best_remaining_adp"
		}
		d.logger.WithFields(fields).Info("Autopick applied")
	}
	return &StepResult{Pick: pick, Prediction: prediction}, nil
}
