package sanitizer

import (
	"regexp"
	"strings"
)

var (
	rePhoneStrip = regexp.MustCompile(`[\s\-().]+`)
	rePhoneE164  = regexp.MustCompile(`^\+?[1-9]\d{6,14}$`)
)

// NormalizePhone strips formatting characters and returns a +-prefixed
// digit string. Input that does not resemble a phone number returns "".
func NormalizePhone(phone string) string {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return ""
	}

	phone = rePhoneStrip.ReplaceAllString(phone, "")
	phone = strings.TrimPrefix(phone, "00")

	if !rePhoneE164.MatchString(phone) {
		return ""
	}

	if !strings.HasPrefix(phone, "+") {
		phone = "+" + phone
	}
	return phone
}
