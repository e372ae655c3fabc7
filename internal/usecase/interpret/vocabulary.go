package interpret

// term is a canonical value and the phrasings that map to it.
type term struct {
	Canonical string
	Aliases   []string
}

// positions groups canonical crew roles by department.
var positions = []struct {
	Department string
	Roles      []term
}{
	{"deck", []term{
		{"Captain", []string{"master", "skipper", "relief captain"}},
		{"Chief Officer", []string{"first officer", "first mate", "mate"}},
		{"Second Officer", []string{"2nd officer", "second mate"}},
		{"Third Officer", []string{"3rd officer", "third mate"}},
		{"Bosun", []string{"boatswain", "head deckhand"}},
		{"Lead Deckhand", []string{"senior deckhand"}},
		{"Deckhand", []string{"deck crew", "junior deckhand"}},
	}},
	{"interior", []term{
		{"Chief Stewardess", []string{"chief steward", "chief stew", "head of interior", "interior manager"}},
		{"Second Stewardess", []string{"2nd stew", "second steward", "second stew"}},
		{"Stewardess", []string{"steward", "stew", "interior crew", "junior stew"}},
		{"Purser", []string{"yacht purser", "administrator"}},
		{"Laundress", []string{"laundry stew", "laundry steward"}},
	}},
	{"engineering", []term{
		{"Chief Engineer", []string{"chief eng", "head engineer"}},
		{"Second Engineer", []string{"2nd engineer", "second eng"}},
		{"Third Engineer", []string{"3rd engineer", "junior engineer"}},
		{"ETO", []string{"electro-technical officer", "electrical officer", "av/it officer"}},
		{"Engineer", []string{"sole engineer", "yacht engineer"}},
	}},
	{"galley", []term{
		{"Head Chef", []string{"chef", "executive chef", "private chef"}},
		{"Sous Chef", []string{"second chef", "2nd chef"}},
		{"Crew Chef", []string{"crew cook", "cook"}},
	}},
}

// certificates maps hard-filter fields to the keywords that set them.
var certificates = []struct {
	Field    string
	Keywords []string
}{
	{"requires_stcw", []string{"stcw", "stcw 95", "stcw basic safety", "bst", "basic safety training"}},
	{"requires_eng1", []string{"eng1", "eng 1", "seafarer medical", "ml5"}},
	{"requires_b1b2", []string{"b1/b2", "b1b2", "b1 b2", "us visa", "american visa"}},
	{"requires_schengen", []string{"schengen", "schengen visa", "eu visa"}},
}

// experiencePhrases documents how phrasing maps to the experience bounds.
var experiencePhrases = [][2]string{
	{"N+ years, at least N years, minimum N years, N years or more", "min_experience=N"},
	{"more than N years, over N years", "min_experience=N+1"},
	{"N-M years, between N and M years", "min_experience=N, max_experience=M"},
	{"up to N years, no more than N years, at most N years", "max_experience=N"},
	{"less than N years, under N years", "max_experience=N-1"},
	{"exactly N years, N years (no qualifier)", "min_experience=N"},
	{"junior, entry level, green", "max_experience=2"},
	{"senior, very experienced, seasoned", "min_experience=5"},
}

var regions = []term{
	{"Mediterranean", []string{"med", "south of france", "cote d'azur", "antibes", "monaco", "palma", "mallorca", "italy", "greece", "croatia"}},
	{"Caribbean", []string{"carib", "bahamas", "st maarten", "st barths", "antigua", "bvi"}},
	{"United States", []string{"usa", "us", "florida", "fort lauderdale", "new england", "east coast"}},
	{"Northern Europe", []string{"north europe", "uk", "netherlands", "norway", "baltic", "scandinavia"}},
	{"Middle East", []string{"dubai", "abu dhabi", "uae", "red sea", "gulf"}},
	{"Asia Pacific", []string{"asia", "south pacific", "australia", "new zealand", "thailand", "indonesia"}},
	{"Worldwide", []string{"world cruising", "global", "circumnavigation", "remote cruising"}},
}

var contractTypes = []term{
	{"permanent", []string{"perm", "full time", "full-time", "long term", "long-term"}},
	{"rotational", []string{"rotation", "rotational position", "2:2", "3:1", "10 weeks on"}},
	{"temporary", []string{"temp", "relief", "daywork", "freelance", "short term", "short-term", "delivery"}},
	{"seasonal", []string{"season", "summer season", "winter season", "med season", "caribbean season"}},
}

var vesselTypes = []term{
	{"motor", []string{"motor yacht", "m/y", "my", "superyacht", "explorer"}},
	{"sail", []string{"sailing yacht", "s/y", "sy", "sailboat", "sailing"}},
	{"catamaran", []string{"cat", "power cat", "sailing catamaran", "multihull"}},
}
