package game

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/scythe504/goroda-bot/internal"
)

type fakeCatalog map[string]struct{}

func (f fakeCatalog) Exists(name string) bool {
	_, ok := f[NormalizeCity(name)]
	return ok
}

func newTestCatalog(cities ...string) fakeCatalog {
	f := make(fakeCatalog, len(cities))
	for _, city := range cities {
		f[city] = struct{}{}
	}
	return f
}

func newTestSession(phase internal.GamePhase) *internal.GameSession {
	return &internal.GameSession{
		RoomId:      "room1",
		Phase:       phase,
		Players:     make(map[string]*internal.Player),
		PlayerOrder: make([]string, 0),
		UsedCities:  make(map[string]struct{}),
	}
}

func TestValidateNormalizes(t *testing.T) {
	catalog := newTestCatalog("москва")
	session := newTestSession(internal.PhaseActive)

	verdict := Validate(catalog, session, "  МосКВА  ")
	assert.Equal(t, VerdictAccepted, verdict.Kind)
	assert.Equal(t, "москва", verdict.City)
}

func TestValidateEmptyInput(t *testing.T) {
	catalog := newTestCatalog("москва")
	session := newTestSession(internal.PhaseActive)

	for _, raw := range []string{"", "   ", "\t\n"} {
		verdict := Validate(catalog, session, raw)
		assert.Equal(t, VerdictEmptyInput, verdict.Kind)
	}
}

func TestValidateUnknownCityCheckedFirst(t *testing.T) {
	catalog := newTestCatalog("москва")
	session := newTestSession(internal.PhaseActive)
	session.LastCity = "москва"

	// "абакан" chains from москва ('а') but is not in the catalog; the
	// existence check must win over the letter match.
	verdict := Validate(catalog, session, "абакан")
	assert.Equal(t, VerdictUnknownCity, verdict.Kind)
}

func TestValidateUsedBeforeLetter(t *testing.T) {
	catalog := newTestCatalog("москва", "тверь")
	session := newTestSession(internal.PhaseActive)
	session.LastCity = "москва"
	session.UsedCities["тверь"] = struct{}{}

	// "тверь" does not chain from москва either; the duplicate check comes
	// first, so the rejection kind is stable across repeat submissions.
	verdict := Validate(catalog, session, "Тверь")
	assert.Equal(t, VerdictAlreadyUsed, verdict.Kind)

	again := Validate(catalog, session, "Тверь")
	assert.Equal(t, verdict.Kind, again.Kind)
}

func TestValidateWrongLetterCarriesExpected(t *testing.T) {
	catalog := newTestCatalog("тверь", "омск")
	session := newTestSession(internal.PhaseActive)
	session.LastCity = "тверь"

	verdict := Validate(catalog, session, "омск")
	assert.Equal(t, VerdictWrongLetter, verdict.Kind)
	assert.Equal(t, 'р', verdict.ExpectedLetter)
}

func TestValidateSoftLetterChaining(t *testing.T) {
	catalog := newTestCatalog("пермь", "москва")
	session := newTestSession(internal.PhaseActive)
	session.LastCity = "пермь"

	// пермь ends in a soft sign, so the chain letter is 'м'.
	verdict := Validate(catalog, session, "Москва")
	assert.Equal(t, VerdictAccepted, verdict.Kind)
}

func TestValidateFirstMoveSkipsLetterCheck(t *testing.T) {
	catalog := newTestCatalog("омск")
	session := newTestSession(internal.PhaseActive)

	verdict := Validate(catalog, session, "Омск")
	assert.Equal(t, VerdictAccepted, verdict.Kind)
}
