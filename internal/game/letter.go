package game

// Soft/silent letters that never start a city name, so they are skipped when
// deciding which letter the next city must begin with.
var softLetters = map[rune]struct{}{
	'ь': {},
	'ъ': {},
	'ы': {},
}

// SignificantLetter returns the last letter of a city name after skipping
// soft/silent trailing characters. If every character is skippable the first
// character wins. The input must be non-empty and already normalized
// (lowercase, trimmed); empty input is rejected upstream.
func SignificantLetter(city string) rune {
	runes := []rune(city)
	for i := len(runes) - 1; i >= 0; i-- {
		if _, soft := softLetters[runes[i]]; !soft {
			return runes[i]
		}
	}
	return runes[0]
}

// FirstLetter returns the first rune of a normalized city name.
func FirstLetter(city string) rune {
	return []rune(city)[0]
}
