package engine

// IntentExemplars pairs an intent label with the hand-authored phrases known
// to express it. The slice order is fixed: classifier ties keep the first
// exemplar encountered, so this table doubles as the tie-break order.
type IntentExemplars struct {
	Label   string
	Phrases []string
}

// IntentCorpus is the full static training corpus.
type IntentCorpus []IntentExemplars

var (
	defaultIntentCorpus = IntentCorpus{
		{Label: "system.shutdown", Phrases: []string{
			"shutdown", "turn off computer", "power off", "kill system", "shut down pc", "turn off pc",
		}},
		{Label: "system.restart", Phrases: []string{
			"restart", "reboot", "restart computer", "restart pc",
		}},
		{Label: "system.lock", Phrases: []string{
			"lock screen", "lock pc", "lock computer", "secure output",
		}},
		{Label: "volume.set", Phrases: []string{
			"change volume", "set volume", "adjust sound", "audio level",
		}},
		{Label: "volume.up", Phrases: []string{
			"volume up", "louder", "boost sound", "increase volume", "turn up", "can't hear",
		}},
		{Label: "volume.down", Phrases: []string{
			"volume down", "quieter", "lower sound", "decrease volume", "turn down", "too loud",
		}},
		{Label: "app.open", Phrases: []string{
			"open app", "launch", "start program", "run application",
		}},
		{Label: "weather.check", Phrases: []string{
			"check weather", "how is the weather", "weather report", "is it raining",
		}},
	}

	// Question and negation wording that vetoes a classifier suggestion no
	// matter how high it scores. Keeps "what happens if I shutdown" from
	// powering the machine off.
	defaultNegationTokens = []string{
		"don't", "not", "never", "no", "cancel", "abort",
		"how", "what", "why", "where", "who", "when", "which",
		"ask", "about", "want",
	}

	defaultCannedReplies = map[string]string{
		"hello":       "Hi there! How can I help you controlling your PC today?",
		"hi":          "Hello! I am ready to help.",
		"who are you": "I am your desktop assistant.",
		"bye":         "Goodbye! Have a nice day.",
	}
)

// fallbackReply is the terminal answer for input nothing else understood.
const fallbackReply = "I'm not sure how to answer that yet, but I can open apps or change settings!"

func cloneIntentCorpus(src IntentCorpus) IntentCorpus {
	dst := make(IntentCorpus, len(src))
	for i, entry := range src {
		phrases := make([]string, len(entry.Phrases))
		copy(phrases, entry.Phrases)
		dst[i] = IntentExemplars{Label: entry.Label, Phrases: phrases}
	}
	return dst
}

func cloneNegationTokens(src []string) []string {
	dst := make([]string, len(src))
	copy(dst, src)
	return dst
}

func cloneCannedReplies(src map[string]string) map[string]string {
	dst := make(map[string]string, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
