package engine

import (
	"regexp"
	"strings"
)

type ruleArgs map[string]string

// rule pairs a trigger predicate with the handler invocation it feeds.
// Rules are immutable and evaluated strictly in slice order: the first match
// wins and no scoring happens among rule matches. The ordering below puts
// narrow, high-value intents before broad catch-alls. Scheduling runs first
// so that "lecture tomorrow at 5pm" is never captured by the numeric volume
// rule, and the generic open/close pattern runs near the end because it
// matches almost anything.
type rule struct {
	name  string
	match func(d *Dispatcher, in utterance) (ruleArgs, bool)
	run   func(d *Dispatcher, in utterance, args ruleArgs) string
}

var (
	schedulePrefixPattern = regexp.MustCompile(`(?i)(?:add event|schedule|remind me to|deadline for|add deadline|set deadline) (.+)`)
	scheduleSuffixPattern = regexp.MustCompile(`(?i)(.+) due (.+)`)
	notePattern           = regexp.MustCompile(`(?i)(?:take note|note this|save note)(?::| that)? (.+)`)
	brightnessPattern     = regexp.MustCompile(`brightness\D*(\d+)`)
	volumePattern         = regexp.MustCompile(`(?i)volume\D*(\d+)`)
	cityPattern           = regexp.MustCompile(`(?i)weather\s+(?:in|for|at)?\s*([a-zA-Z\s]+)`)
	newsTopicPattern      = regexp.MustCompile(`(?i)news\s+(?:about|on|for)?\s*(.+)`)
	searchStripPattern    = regexp.MustCompile(`(?i)^(search|lookup|find)\s+(for\s+)?`)
	openAppPattern        = regexp.MustCompile(`(?i)\b(open|launch|start)\s+(.+)`)
	closeAppPattern       = regexp.MustCompile(`(?i)\b(close|quit|exit|terminate)\s+(.+)`)
	translatePattern      = regexp.MustCompile(`(?i)translate (.+) to (english|chinese simplified|chinese traditional|chinese|mandarin)`)
)

var settingsKeywords = []string{"network", "display", "sound", "battery", "bluetooth", "wifi"}

// Intents the classifier gate may execute directly. The rest of the corpus
// (volume.set, app.open, weather.check) needs an argument the classifier
// cannot supply, so those suggestions fall through to the structural rules.
var executableIntents = map[string]struct{}{
	"system.shutdown": {},
	"system.restart":  {},
	"system.lock":     {},
	"volume.up":       {},
	"volume.down":     {},
}

const volumeStep = 10

func containsAny(s string, substrings ...string) bool {
	for _, sub := range substrings {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// commandRules builds the ordered rule table evaluated by Process.
func commandRules() []rule {
	return []rule{
		{name: "schedule", match: matchSchedule, run: runSchedule},
		{name: "note", match: matchNote, run: runNote},
		{name: "media", match: matchMediaSigil, run: runMediaSigil},
		{name: "classifier", match: matchClassifierGate, run: runClassifierGate},
		{name: "brightness", match: matchBrightness, run: runBrightness},
		{name: "volume", match: matchVolume, run: runVolume},
		{name: "mute", match: matchMute, run: runMute},
		{name: "power_mode", match: matchPowerMode, run: runPowerMode},
		{name: "abort_shutdown", match: matchAbortShutdown, run: runAbortShutdown},
		{name: "sleep", match: matchSleep, run: runSleep},
		{name: "theme", match: matchTheme, run: runTheme},
		{name: "radio", match: matchRadio, run: runRadio},
		{name: "weather", match: matchWeather, run: runWeather},
		{name: "news", match: matchNews, run: runNews},
		{name: "search", match: matchSearch, run: runSearch},
		{name: "settings", match: matchSettings, run: runSettings},
		{name: "open_app", match: matchOpenApp, run: runOpenApp},
		{name: "close_app", match: matchCloseApp, run: runCloseApp},
		{name: "translate", match: matchTranslate, run: runTranslate},
		{name: "gaming_mode", match: matchGamingMode, run: runGamingMode},
		{name: "timer", match: matchTimer, run: runTimer},
		{name: "chat", match: matchAlways, run: runCannedChat},
	}
}

// --- scheduling ---

func matchSchedule(_ *Dispatcher, in utterance) (ruleArgs, bool) {
	if m := schedulePrefixPattern.FindStringSubmatch(in.lower); m != nil {
		args := ruleArgs{"fragment": m[1]}
		if strings.Contains(strings.ToLower(m[0]), "deadline") {
			args["deadline"] = "true"
		}
		return args, true
	}
	if m := scheduleSuffixPattern.FindStringSubmatch(in.lower); m != nil {
		// Reassemble so the date words are still in the fragment.
		return ruleArgs{"fragment": m[1] + " " + m[2], "deadline": "true"}, true
	}
	return nil, false
}

func runSchedule(d *Dispatcher, _ utterance, args ruleArgs) string {
	details := parseSchedule(args["fragment"], args["deadline"] == "true", d.now())
	withReminder := details.Start != ""
	return d.deps.Scheduler.AddTask(details.Title, details.Date, details.Start, details.End, withReminder, details.Category)
}

// --- notes ---

func matchNote(_ *Dispatcher, in utterance) (ruleArgs, bool) {
	if m := notePattern.FindStringSubmatch(in.lower); m != nil {
		return ruleArgs{"content": strings.TrimSpace(m[1])}, true
	}
	return nil, false
}

func runNote(d *Dispatcher, _ utterance, args ruleArgs) string {
	return d.deps.Scheduler.AppendNote(args["content"])
}

// --- media sigil commands ---

func matchMediaSigil(_ *Dispatcher, in utterance) (ruleArgs, bool) {
	if !strings.HasPrefix(in.lower, "m!") {
		return nil, false
	}
	parts := strings.SplitN(in.raw, " ", 2)
	args := ruleArgs{"command": strings.ToLower(parts[0])}
	if len(parts) > 1 {
		args["arg"] = strings.TrimSpace(parts[1])
	}
	return args, true
}

func runMediaSigil(d *Dispatcher, _ utterance, args ruleArgs) string {
	command, arg := args["command"], args["arg"]
	switch command {
	case "m!add":
		if arg == "" {
			return "Please provide a track name or link."
		}
		return d.deps.Media.AddToQueue(arg)
	case "m!play":
		if arg == "" {
			return "Please provide a track name or link."
		}
		return d.deps.Media.PlayNow(arg)
	case "m!loop":
		return d.deps.Media.StartLoop()
	case "m!end":
		return d.deps.Media.ClearQueue()
	case "m!history":
		return d.deps.Media.History()
	default:
		return "Unknown music command. Try m!add, m!play, m!loop, m!end, or m!history."
	}
}

// --- classifier gate ---

// matchClassifierGate consults the statistical classifier once the exact
// structural rules above it have all declined. A suggestion executes only
// when all of these hold:
//
//   - the score clears the action gate;
//   - the utterance carries no negation or question wording, so that "what
//     happens if I shutdown" can never power the machine off;
//   - no structural rule further down the chain claims the utterance. The
//     structural rules are exact and own their trigger words: "turn down
//     volume to 20" belongs to the numeric rule and "turn off wifi" to the
//     radio toggle, even though both score high against corpus exemplars.
//
// Anything else falls through silently.
func matchClassifierGate(d *Dispatcher, in utterance) (ruleArgs, bool) {
	if in.lower == "" {
		return nil, false
	}
	if d.containsNegation(in.lower) {
		return nil, false
	}
	result := d.classifier.Predict(in.lower)
	if result.Score <= d.cfg.ActionGate {
		return nil, false
	}
	if _, ok := executableIntents[result.Label]; !ok {
		return nil, false
	}
	for _, r := range d.structuralAfterGate {
		if _, claimed := r.match(d, in); claimed {
			return nil, false
		}
	}
	return ruleArgs{"label": result.Label}, true
}

func runClassifierGate(d *Dispatcher, _ utterance, args ruleArgs) string {
	switch args["label"] {
	case "system.shutdown":
		return d.deps.System.Shutdown()
	case "system.restart":
		return d.deps.System.Restart()
	case "system.lock":
		return d.deps.System.LockScreen()
	case "volume.up":
		return d.deps.System.StepVolume(volumeStep)
	case "volume.down":
		return d.deps.System.StepVolume(-volumeStep)
	}
	return fallbackReply
}

// --- numeric device control ---

func matchBrightness(_ *Dispatcher, in utterance) (ruleArgs, bool) {
	if m := brightnessPattern.FindStringSubmatch(in.lower); m != nil {
		return ruleArgs{"level": m[1]}, true
	}
	return nil, false
}

func runBrightness(d *Dispatcher, _ utterance, args ruleArgs) string {
	return d.deps.System.SetBrightness(args["level"])
}

func matchVolume(_ *Dispatcher, in utterance) (ruleArgs, bool) {
	if m := volumePattern.FindStringSubmatch(in.raw); m != nil {
		return ruleArgs{"level": m[1]}, true
	}
	return nil, false
}

func runVolume(d *Dispatcher, _ utterance, args ruleArgs) string {
	return d.deps.System.SetVolume(args["level"])
}

// --- boolean / state toggles ---

func matchMute(_ *Dispatcher, in utterance) (ruleArgs, bool) {
	if !strings.Contains(in.lower, "mute") {
		return nil, false
	}
	if containsAny(in.lower, "unmute", "stop", "off") {
		return ruleArgs{"muted": "false"}, true
	}
	return ruleArgs{"muted": "true"}, true
}

func runMute(d *Dispatcher, _ utterance, args ruleArgs) string {
	return d.deps.System.SetMuted(args["muted"] == "true")
}

func matchPowerMode(_ *Dispatcher, in utterance) (ruleArgs, bool) {
	if containsAny(in.lower, "energy saver", "battery saver") {
		if containsAny(in.lower, "off", "disable") {
			return ruleArgs{"mode": "balanced"}, true
		}
		if containsAny(in.lower, "on", "enable", "activate") {
			return ruleArgs{"mode": "saver"}, true
		}
		return nil, false
	}
	if containsAny(in.lower, "high performance", "game mode") {
		return ruleArgs{"mode": "high"}, true
	}
	if strings.Contains(in.lower, "balanced mode") {
		return ruleArgs{"mode": "balanced"}, true
	}
	return nil, false
}

func runPowerMode(d *Dispatcher, _ utterance, args ruleArgs) string {
	return d.deps.System.SetPowerMode(args["mode"])
}

// Bare "shutdown"/"restart"/"lock" reach their actions only through the
// gated classifier. The abort form stays structural: its trigger words are
// themselves negation tokens, so the classifier can never serve it.
func matchAbortShutdown(_ *Dispatcher, in utterance) (ruleArgs, bool) {
	if strings.Contains(in.lower, "shutdown") && containsAny(in.lower, "abort", "cancel") {
		return ruleArgs{}, true
	}
	return nil, false
}

func runAbortShutdown(d *Dispatcher, _ utterance, _ ruleArgs) string {
	return d.deps.System.AbortShutdown()
}

func matchSleep(_ *Dispatcher, in utterance) (ruleArgs, bool) {
	if strings.Contains(in.lower, "sleep") && containsAny(in.lower, "pc", "computer", "mode") {
		return ruleArgs{}, true
	}
	return nil, false
}

func runSleep(d *Dispatcher, _ utterance, _ ruleArgs) string {
	return d.deps.System.Sleep()
}

func matchTheme(_ *Dispatcher, in utterance) (ruleArgs, bool) {
	if containsAny(in.lower, "dark mode", "dark theme") {
		return ruleArgs{"mode": "dark"}, true
	}
	if containsAny(in.lower, "light mode", "light theme") {
		return ruleArgs{"mode": "light"}, true
	}
	return nil, false
}

func runTheme(d *Dispatcher, _ utterance, args ruleArgs) string {
	return d.deps.System.SetTheme(args["mode"])
}

func matchRadio(_ *Dispatcher, in utterance) (ruleArgs, bool) {
	if !containsAny(in.lower, "bluetooth", "wifi") || !containsAny(in.lower, "turn", "switch") {
		return nil, false
	}
	target := "wifi"
	if strings.Contains(in.lower, "bluetooth") {
		target = "bluetooth"
	}
	// Explicit negative wins when both directions appear.
	state := "on"
	if containsAny(in.lower, "off", "disable") {
		state = "off"
	}
	return ruleArgs{"target": target, "state": state}, true
}

func runRadio(d *Dispatcher, _ utterance, args ruleArgs) string {
	return d.deps.System.SetRadioState(args["target"], args["state"])
}

// --- informational / web ---

func matchWeather(_ *Dispatcher, in utterance) (ruleArgs, bool) {
	if !strings.Contains(in.lower, "weather") {
		return nil, false
	}
	args := ruleArgs{}
	if m := cityPattern.FindStringSubmatch(in.raw); m != nil {
		args["city"] = strings.TrimSpace(m[1])
	}
	return args, true
}

func runWeather(d *Dispatcher, _ utterance, args ruleArgs) string {
	city := args["city"]
	if city == "" {
		return "Please specify a city. (e.g., 'weather in Tokyo')"
	}
	return d.deps.Web.Weather(city)
}

func matchNews(_ *Dispatcher, in utterance) (ruleArgs, bool) {
	if !strings.Contains(in.lower, "news") {
		return nil, false
	}
	topic := "latest updates"
	if m := newsTopicPattern.FindStringSubmatch(in.raw); m != nil {
		topic = strings.TrimSpace(m[1])
	}
	return ruleArgs{"topic": topic}, true
}

func runNews(d *Dispatcher, _ utterance, args ruleArgs) string {
	return d.deps.Web.News(args["topic"])
}

func matchSearch(_ *Dispatcher, in utterance) (ruleArgs, bool) {
	if !containsAny(in.lower, "search", "lookup", "who is", "what is") {
		return nil, false
	}
	query := strings.TrimSpace(searchStripPattern.ReplaceAllString(in.raw, ""))
	return ruleArgs{"query": query}, true
}

func runSearch(d *Dispatcher, _ utterance, args ruleArgs) string {
	return d.deps.Web.Search(args["query"])
}

// --- settings-panel fallback ---

func matchSettings(_ *Dispatcher, in utterance) (ruleArgs, bool) {
	if !containsAny(in.lower, "open", "check", "show") {
		return nil, false
	}
	for _, keyword := range settingsKeywords {
		if strings.Contains(in.lower, keyword) {
			return ruleArgs{"panel": keyword}, true
		}
	}
	return nil, false
}

func runSettings(d *Dispatcher, _ utterance, args ruleArgs) string {
	return d.deps.System.OpenSettings(args["panel"])
}

// --- generic application open/close ---

func matchOpenApp(_ *Dispatcher, in utterance) (ruleArgs, bool) {
	if m := openAppPattern.FindStringSubmatch(in.lower); m != nil {
		return ruleArgs{"app": strings.TrimSpace(m[2])}, true
	}
	return nil, false
}

func runOpenApp(d *Dispatcher, _ utterance, args ruleArgs) string {
	return d.deps.Apps.Launch(args["app"])
}

func matchCloseApp(_ *Dispatcher, in utterance) (ruleArgs, bool) {
	if m := closeAppPattern.FindStringSubmatch(in.lower); m != nil {
		return ruleArgs{"app": strings.TrimSpace(m[2])}, true
	}
	return nil, false
}

func runCloseApp(d *Dispatcher, _ utterance, args ruleArgs) string {
	target := args["app"]
	if containsAny(target, "deskmate", "sidebar") {
		return "I cannot close myself this way. Use the quit button in settings."
	}
	return d.deps.Apps.Close(target)
}

// --- translation ---

func matchTranslate(_ *Dispatcher, in utterance) (ruleArgs, bool) {
	if m := translatePattern.FindStringSubmatch(in.lower); m != nil {
		return ruleArgs{"text": m[1], "language": m[2]}, true
	}
	return nil, false
}

func runTranslate(d *Dispatcher, _ utterance, args ruleArgs) string {
	return d.deps.Web.Translate(args["text"], args["language"])
}

// --- gaming mode ---

func matchGamingMode(_ *Dispatcher, in utterance) (ruleArgs, bool) {
	if !containsAny(in.lower, "gaming mode", "game mode") {
		return nil, false
	}
	if containsAny(in.lower, "enable", "start", "on") {
		return ruleArgs{"enabled": "true"}, true
	}
	if containsAny(in.lower, "disable", "stop", "off") {
		return ruleArgs{"enabled": "false"}, true
	}
	return nil, false
}

func runGamingMode(d *Dispatcher, _ utterance, args ruleArgs) string {
	if args["enabled"] == "true" {
		return d.deps.System.EnableGamingMode()
	}
	return "Gaming mode disabled. Settings restored."
}

// --- timers ---

func matchTimer(_ *Dispatcher, in utterance) (ruleArgs, bool) {
	if containsAny(in.lower, "timer", "alarm") && containsAny(in.lower, "set", "add", "remind") {
		return ruleArgs{}, true
	}
	return nil, false
}

func runTimer(d *Dispatcher, in utterance, _ ruleArgs) string {
	return d.deps.Timers.SetTimer(in.lower)
}

// --- canned chat (terminal) ---

func matchAlways(_ *Dispatcher, _ utterance) (ruleArgs, bool) {
	return ruleArgs{}, true
}

func runCannedChat(d *Dispatcher, in utterance, _ ruleArgs) string {
	if reply, ok := d.cfg.CannedReplies[in.lower]; ok {
		return reply
	}
	return fallbackReply
}
