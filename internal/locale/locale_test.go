package locale

import "testing"

func TestParseDefaultsToArabic(t *testing.T) {
	cases := map[string]Language{
		"":         Arabic,
		"ar":       Arabic,
		"en":       Arabic,
		"nonsense": Arabic,
		"fr":       French,
		"FR":       French,
		" French ": French,
		"français": French,
	}
	for raw, want := range cases {
		if got := Parse(raw); got != want {
			t.Errorf("Parse(%q) = %s, want %s", raw, got, want)
		}
	}
}

func TestLookupCoversBothCatalogs(t *testing.T) {
	keys := []Key{
		KeyAuthenticationError, KeyInvalidCredentials, KeyLackOfCredentials,
		KeyAccessTokenExpired, KeyRenewTokenExpired, KeyInvalidCIN,
		KeyInvalidPassword, KeyMissingParameters, KeyMissingAdminAccessCode,
		KeyInvalidAdminAccessCode, KeyUserAlreadyExists, KeyNotFound,
		KeyForbidden, KeyInternalServerError, KeyInvalidRequest,
		KeyVisitorAlreadyExists, KeyVisitorDeletedPreviously,
		KeyVisitorNameMismatch, KeyInvalidVisitData,
		KeySignedUp, KeySignedIn, KeySignedOut, KeyUserDeleted,
		KeyVisitorCreated, KeyVisitorUpdated, KeyVisitorDeleted,
		KeyVisitCreated, KeyVisitUpdated, KeyVisitDeleted,
	}
	for _, lang := range []Language{Arabic, French} {
		for _, key := range keys {
			text := Lookup(lang, key)
			if text.Title == "" || text.Message == "" {
				t.Errorf("Lookup(%s, %s) has empty text", lang, key)
			}
		}
	}
}

func TestLookupUnknownKeyFallsBack(t *testing.T) {
	text := Lookup(French, Key("NO_SUCH_KEY"))
	want := Lookup(French, KeyInternalServerError)
	if text != want {
		t.Fatalf("unknown key = %+v, want internal-error text", text)
	}
}
