package services

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/courtlog/handball-tracker/internal/handball"
)

// Notifier pushes final score messages to a configured recipient list
// when a match finishes.
type Notifier struct {
	sms        SMSService
	recipients []string
	logger     *logrus.Logger
}

func NewNotifier(sms SMSService, recipients []string, logger *logrus.Logger) *Notifier {
	return &Notifier{
		sms:        sms,
		recipients: recipients,
		logger:     logger,
	}
}

// SendFinalScore formats and sends the full-time result. Failures are
// logged per recipient and never bubble up to the match flow.
func (n *Notifier) SendFinalScore(state MatchState) {
	if len(n.recipients) == 0 {
		return
	}

	own, opp := handball.Score(state.Actions)
	message := fmt.Sprintf("FT: %s %d - %d %s", state.OwnName, own, opp, state.OppName)
	if state.TournamentName != "" {
		message = fmt.Sprintf("[%s] %s", state.TournamentName, message)
	}
	if stats := state.Stats; stats != nil {
		message += fmt.Sprintf(" (HT %d-%d)", stats.Own.First.Goals, stats.Opp.First.Goals)
	}

	for _, to := range n.recipients {
		if err := n.sms.SendMessage(to, message); err != nil {
			n.logger.WithField("match_id", state.ID).Warnf("Final score SMS to %s failed: %v", to, err)
		}
	}
}
