package strategy

import "MarketSignal/internal/model"

// A total strictly above BuyThreshold buys and strictly below SellThreshold
// sells. Totals in between, the thresholds included, stay neutral.
const (
	BuyThreshold  = 1
	SellThreshold = -1
)

// Decide maps a rule total to a verdict.
func Decide(total int) model.Signal {
	switch {
	case total > BuyThreshold:
		return model.Buy
	case total < SellThreshold:
		return model.Sell
	default:
		return model.Neutral
	}
}

// Evaluate folds rules over the snapshot. A nil rule list means DefaultRules.
func Evaluate(snap *model.Snapshot, rules []Rule) *model.TradeSignal {
	if rules == nil {
		rules = DefaultRules
	}
	sig := &model.TradeSignal{Votes: make([]model.RuleVote, 0, len(rules))}
	for _, r := range rules {
		vote, commentary := r.Vote(snap)
		weighted := vote * r.Weight
		sig.Votes = append(sig.Votes, model.RuleVote{
			Name:       r.Name,
			Vote:       vote,
			Weight:     r.Weight,
			Weighted:   weighted,
			Commentary: commentary,
		})
		sig.Total += weighted
	}
	sig.Verdict = Decide(sig.Total)
	return sig
}
