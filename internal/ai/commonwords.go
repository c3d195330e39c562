package ai

// commonWords is a small natural-language frequency proxy: words in this
// set are treated as high-frequency and avoided by the avoid-common and
// obscure selection strategies. Outside the set, longer words rank as
// rarer.
var commonWords = map[string]bool{
	"dog": true, "cat": true, "fish": true, "bird": true, "horse": true,
	"cow": true, "pig": true, "bear": true, "lion": true, "tiger": true,
	"sun": true, "moon": true, "star": true, "sky": true, "earth": true,
	"water": true, "fire": true, "rain": true, "snow": true, "wind": true,
	"bread": true, "milk": true, "egg": true, "rice": true, "meat": true,
	"apple": true, "cake": true, "tea": true, "salt": true, "sugar": true,
	"car": true, "bus": true, "train": true, "boat": true, "plane": true,
	"house": true, "door": true, "tree": true, "road": true, "city": true,
	"ball": true, "book": true, "chair": true, "table": true, "bed": true,
	"red": true, "blue": true, "green": true, "black": true, "white": true,
}

// rarity scores a word for the frequency-biased strategies: higher is
// rarer. Common-list membership dominates, length breaks ties.
func rarity(word string) int {
	score := len(word)
	if commonWords[word] {
		score -= 100
	}
	return score
}
