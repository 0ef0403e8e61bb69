package engine

import (
	"strings"
	"time"
	"unicode"

	"go.uber.org/zap"
)

// The dispatcher talks to the outside world only through these narrow
// interfaces. Every method returns the human-readable reply for the user;
// implementations catch their own failures and describe them in the string.

type Scheduler interface {
	AddTask(title, date, start, end string, reminder bool, category string) string
	AppendNote(content string) string
}

type MediaPlayer interface {
	AddToQueue(query string) string
	PlayNow(query string) string
	StartLoop() string
	ClearQueue() string
	History() string
}

type SystemController interface {
	SetBrightness(level string) string
	SetVolume(level string) string
	StepVolume(delta int) string
	SetMuted(muted bool) string
	SetPowerMode(mode string) string
	Shutdown() string
	AbortShutdown() string
	Restart() string
	LockScreen() string
	Sleep() string
	SetTheme(mode string) string
	SetRadioState(radio, state string) string
	OpenSettings(panel string) string
	EnableGamingMode() string
}

type WebServices interface {
	Weather(city string) string
	News(topic string) string
	Search(query string) string
	Translate(text, language string) string
}

type AppControl interface {
	Launch(name string) string
	Close(name string) string
}

type TimerService interface {
	SetTimer(request string) string
}

// Collaborators bundles the injected action handlers. Shared mutable state
// (the music queue, the task store) lives behind these references, never in
// the dispatcher itself.
type Collaborators struct {
	Scheduler Scheduler
	Media     MediaPlayer
	System    SystemController
	Web       WebServices
	Apps      AppControl
	Timers    TimerService
}

// utterance is one unit of user text: the raw form (argument extraction
// keeps the user's casing) and a normalized lower-cased copy for matching.
type utterance struct {
	raw   string
	lower string
}

// Dispatcher runs each utterance through the ordered rule list and returns
// exactly one reply string. It is stateless per call: the rule table, corpus
// and thresholds are built once and read-only afterwards, so concurrent
// callers need no coordination here.
type Dispatcher struct {
	cfg        Config
	classifier *Classifier
	rules      []rule
	deps       Collaborators
	negations  map[string]struct{}
	now        func() time.Time
	logger     *zap.Logger

	// Structural rules evaluated after the classifier gate, minus the
	// terminal canned-chat rule. The gate probes these so that an exact
	// rule always beats a similarity score over the same words.
	structuralAfterGate []rule
}

func NewDispatcher(cfg Config, deps Collaborators) *Dispatcher {
	negations := make(map[string]struct{}, len(cfg.NegationTokens))
	for _, token := range cfg.NegationTokens {
		negations[strings.ToLower(token)] = struct{}{}
	}

	d := &Dispatcher{
		cfg:        cfg,
		classifier: NewClassifier(cfg.Corpus, cfg.IntentFloor),
		rules:      commandRules(),
		deps:       deps,
		negations:  negations,
		now:        time.Now,
		logger:     zap.L().Named("dispatcher"),
	}
	for i, r := range d.rules {
		if r.name == "classifier" {
			d.structuralAfterGate = d.rules[i+1 : len(d.rules)-1]
			break
		}
	}
	return d
}

// Classifier exposes the dispatcher's classifier for direct consultation.
func (d *Dispatcher) Classifier() *Classifier {
	return d.classifier
}

// Process interprets one utterance and always produces a reply: the first
// rule in precedence order that matches wins, and the terminal canned-chat
// rule matches everything, so no input leaves the chain without an answer.
func (d *Dispatcher) Process(input string) string {
	raw := strings.TrimSpace(input)
	in := utterance{raw: raw, lower: strings.ToLower(raw)}

	for _, r := range d.rules {
		args, ok := r.match(d, in)
		if !ok {
			continue
		}
		reply := r.run(d, in, args)
		d.logger.Debug("command dispatched",
			zap.String("rule", r.name),
			zap.String("input", raw))
		return reply
	}

	// The canned-chat rule is unconditional; this is unreachable.
	return fallbackReply
}

// containsNegation reports whether the normalized utterance carries any
// question or negation wording. Words are split on anything that is not a
// letter, digit or apostrophe so that "don't" survives as one token.
func (d *Dispatcher) containsNegation(lower string) bool {
	words := strings.FieldsFunc(lower, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
	})
	for _, word := range words {
		if _, ok := d.negations[word]; ok {
			return true
		}
	}
	return false
}
