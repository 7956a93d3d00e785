package sanitizer

import (
	"regexp"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

var (
	rePhoneChars = regexp.MustCompile(`[^\d+]`)

	// Regions tried when the number carries no country prefix.
	fallbackRegions = []string{"UA", "US"}
)

// NormalizePhone strips formatting characters and reformats the number
// as E.164 when it parses. Unparseable input is returned stripped, so
// the validator rejects it with the original digits intact.
func NormalizePhone(phone string) string {
	phone = rePhoneChars.ReplaceAllString(strings.TrimSpace(phone), "")
	if phone == "" {
		return ""
	}

	if strings.HasPrefix(phone, "+") {
		if parsed, err := phonenumbers.Parse(phone, ""); err == nil {
			return phonenumbers.Format(parsed, phonenumbers.E164)
		}
		return phone
	}

	for _, region := range fallbackRegions {
		parsed, err := phonenumbers.Parse(phone, region)
		if err != nil {
			continue
		}
		if phonenumbers.IsValidNumber(parsed) {
			return phonenumbers.Format(parsed, phonenumbers.E164)
		}
	}

	return phone
}
