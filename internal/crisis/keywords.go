package crisis

// Crisis keyword table. Ordered, process-wide, read-only. Entries with an
// embedded space are matched as literal substrings; single tokens are matched
// on word boundaries. Obfuscated spellings are carried as literal entries, so
// no fuzzy matching happens at scan time.
//
// The table deliberately over-matches: a false negative is the harmful
// failure mode here, a false positive only shows a support banner.
var crisisKeywords = []string{
	// Direct ideation
	"kill myself",
	"killing myself",
	"end my life",
	"end it all",
	"take my own life",
	"want to die",
	"better off dead",
	"don't want to live",
	"dont want to live",
	"no reason to live",
	"suicide",
	"suicidal",

	// Self-harm
	"hurt myself",
	"hurting myself",
	"harm myself",
	"self-harm",
	"self harm",
	"harm",
	"cut myself",
	"cutting myself",

	// Method references
	"overdose",
	"jump off",

	// Obfuscation variants: letter spacing, character substitution, slang
	"k i l l myself",
	"k i l l m y s e l f",
	"k*ll myself",
	"k1ll myself",
	"s*icide",
	"su1cide",
	"sewerslide",
	"unalive",
	"un alive",
	"kms",
}

// Negative-context table: phrases that signal the speaker is denying or
// rejecting crisis ideation. A keyword occurrence inside one of these spans
// does not count as a match on its own.
var negativeContexts = []string{
	"don't want to die",
	"dont want to die",
	"don't want to kill myself",
	"dont want to kill myself",
	"don't want to hurt myself",
	"dont want to hurt myself",
	"never kill myself",
	"never hurt myself",
	"not suicidal",
	"no thoughts of suicide",
	"would not kill myself",
	"wouldn't kill myself",
	"wouldnt kill myself",
}
