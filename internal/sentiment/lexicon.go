package sentiment

// The lexicon below is the single frozen word/pattern table the engine
// scores against. It resolves the "exact word lists drift across
// documentation" open question from spec §9 by pinning one list; tests
// exercise it directly so future changes are deliberate, not accidental.

// positiveWords is the 47-word positive lexicon.
var positiveWords = map[string]struct{}{
	"good": {}, "great": {}, "awesome": {}, "amazing": {}, "wonderful": {},
	"happy": {}, "love": {}, "loved": {}, "loving": {}, "excellent": {},
	"fantastic": {}, "glad": {}, "excited": {}, "exciting": {}, "joy": {},
	"joyful": {}, "beautiful": {}, "best": {}, "nice": {}, "perfect": {},
	"thanks": {}, "thankful": {}, "grateful": {}, "blessed": {}, "fun": {},
	"funny": {}, "lol": {}, "haha": {}, "yay": {}, "congratulations": {},
	"congrats": {}, "proud": {}, "brilliant": {}, "delighted": {}, "pleased": {},
	"smile": {}, "smiling": {}, "wow": {}, "cool": {}, "sweet": {},
	"cute": {}, "lovely": {}, "enjoy": {}, "enjoyed": {}, "enjoying": {},
	"relieved": {}, "hopeful": {},
}

// negativeWords is the 49-word negative lexicon.
var negativeWords = map[string]struct{}{
	"bad": {}, "terrible": {}, "awful": {}, "horrible": {}, "sad": {},
	"hate": {}, "hated": {}, "hating": {}, "angry": {}, "mad": {},
	"upset": {}, "annoyed": {}, "annoying": {}, "frustrated": {}, "frustrating": {},
	"worried": {}, "worry": {}, "anxious": {}, "scared": {}, "afraid": {},
	"fear": {}, "hurt": {}, "pain": {}, "painful": {}, "sorry": {},
	"disappointed": {}, "disappointing": {}, "depressed": {}, "depressing": {}, "lonely": {},
	"alone": {}, "tired": {}, "exhausted": {}, "sick": {}, "worst": {},
	"useless": {}, "stupid": {}, "dumb": {}, "wrong": {}, "broken": {},
	"fail": {}, "failed": {}, "failure": {}, "crying": {}, "cry": {},
	"miss": {}, "missing": {}, "regret": {}, "ashamed": {},
}

// fillerWords are low-information tokens that short-circuit scoring when
// they are the entire (normalised) message, per spec §4.3 step 1.
var fillerWords = map[string]struct{}{
	"ok": {}, "okay": {}, "k": {}, "yeah": {}, "yep": {}, "yes": {},
	"no": {}, "nope": {}, "hmm": {}, "hm": {}, "lol": {}, "lmao": {},
	"sure": {}, "fine": {}, "alright": {}, "meh": {}, "idk": {}, "kk": {},
}

// positivePatterns are multi-word patterns worth ±2 to the positive counter.
var positivePatterns = []string{
	"can't wait", "cant wait", "feel good", "feels good", "feeling good",
	"so happy", "made my day", "love it", "love this", "love you",
	"best day", "so proud", "can't believe how good",
}

// negativePatterns are multi-word patterns worth ±2 to the negative counter.
var negativePatterns = []string{
	"went wrong", "had enough", "fed up", "sick of", "can't stand",
	"cant stand", "so tired of", "worst day", "gave up", "give up",
	"no point", "waste of time",
}
