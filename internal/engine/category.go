package engine

// Coarse category codes from the lookup service, and the policy for each.
// Codes outside all three groups are ambiguous and fall through to the
// sensitivity fallback.

const howToCategory = "26"

var eduCategories = map[string]struct{}{
	"27": {}, // education
	"28": {}, // science & technology
	"35": {}, // documentary
}

var nonEduCategories = map[string]struct{}{
	"10": {}, // music
	"17": {}, // sports
	"20": {}, // gaming
	"22": {}, // people & blogs
	"23": {}, // comedy
	"24": {}, // entertainment
	"25": {}, // news & politics
}

// Ambiguous but in practice entertainment; overridden to hidden.
var entertainmentOverride = map[string]struct{}{
	"1": {}, // film & animation
}

type categoryClass int

const (
	categoryAmbiguous categoryClass = iota
	categoryEducational
	categoryNonEducational
)

func classifyCategory(code string) categoryClass {
	if _, ok := eduCategories[code]; ok {
		return categoryEducational
	}
	if _, ok := nonEduCategories[code]; ok {
		return categoryNonEducational
	}
	return categoryAmbiguous
}
