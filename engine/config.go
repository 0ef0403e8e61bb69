package engine

// Config carries the tunable constants of the dispatch core. The two
// thresholds are empirical: 0.30 is the floor below which a classifier match
// is treated as noise, 0.70 the confidence a suggestion needs before it may
// trigger an action. Neither value has a principled derivation; they are
// exposed here (and via environment overrides in main) for tuning.
type Config struct {
	IntentFloor    float64
	ActionGate     float64
	NegationTokens []string
	Corpus         IntentCorpus
	CannedReplies  map[string]string
}

func DefaultConfig() Config {
	return Config{
		IntentFloor:    0.30,
		ActionGate:     0.70,
		NegationTokens: cloneNegationTokens(defaultNegationTokens),
		Corpus:         cloneIntentCorpus(defaultIntentCorpus),
		CannedReplies:  cloneCannedReplies(defaultCannedReplies),
	}
}
