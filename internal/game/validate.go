package game

import (
	"strings"

	"github.com/scythe504/goroda-bot/internal"
)

// CityCatalog is the injected dictionary lookup.
type CityCatalog interface {
	Exists(name string) bool
}

type VerdictKind int

const (
	VerdictAccepted VerdictKind = iota
	VerdictUnknownCity
	VerdictAlreadyUsed
	VerdictWrongLetter
	VerdictEmptyInput
)

// Verdict is the outcome of validating one candidate move. City carries the
// normalized name; ExpectedLetter is set only for VerdictWrongLetter.
type Verdict struct {
	Kind           VerdictKind
	City           string
	ExpectedLetter rune
}

// NormalizeCity trims and lowercases a raw candidate city name.
func NormalizeCity(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// Validate decides whether a candidate city is a legal move given a session
// snapshot. Pure decision function, no side effects. Check order matters:
// existence before duplicates before letter chaining, so an unknown city is
// never accepted no matter how well its letters line up.
//
// Callers must hold at least a read lock on the session.
func Validate(catalog CityCatalog, session *internal.GameSession, rawCity string) Verdict {
	city := NormalizeCity(rawCity)
	if city == "" {
		return Verdict{Kind: VerdictEmptyInput}
	}

	if !catalog.Exists(city) {
		return Verdict{Kind: VerdictUnknownCity, City: city}
	}

	if _, used := session.UsedCities[city]; used {
		return Verdict{Kind: VerdictAlreadyUsed, City: city}
	}

	if session.LastCity != "" {
		expected := SignificantLetter(session.LastCity)
		if FirstLetter(city) != expected {
			return Verdict{Kind: VerdictWrongLetter, City: city, ExpectedLetter: expected}
		}
	}

	return Verdict{Kind: VerdictAccepted, City: city}
}
