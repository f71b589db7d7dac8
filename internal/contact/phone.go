package contact

import (
	"regexp"
	"strings"
)

var (
	// wholePhoneRe accepts a subtitle that is nothing but a phone
	// number: an optional + followed by at least seven digits or
	// common separator characters, or an explicit +CC form with a
	// 1-4 digit country code. Tried before any status interpretation
	// because a full-string match is unambiguous.
	wholePhoneRe = regexp.MustCompile(`^(\+?[\d\s\-().]{7,}|\+\d{1,4}[\s-]?\d{4,})$`)

	// embeddedPhoneRe pulls a phone-shaped run of at least ten
	// characters out of mixed status text.
	embeddedPhoneRe = regexp.MustCompile(`\+?[\d\s\-().]{10,}`)

	separatorRe  = regexp.MustCompile(`[\s\-().]`)
	validPhoneRe = regexp.MustCompile(`^\+?\d{7,15}$`)
	digitsRe     = regexp.MustCompile(`^\d+$`)
)

// CleanPhone strips whitespace and separator characters, keeping a
// single leading + for international numbers.
func CleanPhone(phone string) string {
	if phone == "" {
		return ""
	}
	return separatorRe.ReplaceAllString(phone, "")
}

// ValidPhone reports whether a cleaned phone number has a plausible
// length: an optional + and 7 to 15 digits.
func ValidPhone(phone string) bool {
	return validPhoneRe.MatchString(CleanPhone(phone))
}

// FormatPhone renders a cleaned number for human-facing output.
// International numbers with exactly ten trailing digits become
// "+CC (XXX) XXX-XXXX", ten-digit domestic numbers become
// "(XXX) XXX-XXXX", and everything else passes through cleaned.
func FormatPhone(phone string) string {
	if phone == "" {
		return ""
	}
	cleaned := CleanPhone(phone)

	if strings.HasPrefix(cleaned, "+") {
		if len(cleaned) >= 11 {
			cc := cleaned[:len(cleaned)-10]
			num := cleaned[len(cleaned)-10:]
			if digitsRe.MatchString(num) {
				return cc + " (" + num[:3] + ") " + num[3:6] + "-" + num[6:]
			}
		}
		return cleaned
	}

	if len(cleaned) == 10 && digitsRe.MatchString(cleaned) {
		return "(" + cleaned[:3] + ") " + cleaned[3:6] + "-" + cleaned[6:]
	}

	return cleaned
}

// SplitSubtitle classifies a participant cell's free-text subtitle into
// a (phone, status) pair. A subtitle that is entirely phone-shaped is
// taken as a pure phone number; otherwise the text is status by
// default, with an embedded phone-like run extracted and removed when
// present.
func SplitSubtitle(subtitle string) (phone, status string) {
	subtitle = strings.TrimSpace(subtitle)
	if subtitle == "" {
		return "", ""
	}

	if wholePhoneRe.MatchString(subtitle) {
		return CleanPhone(subtitle), ""
	}

	status = subtitle
	if m := embeddedPhoneRe.FindString(subtitle); m != "" {
		phone = CleanPhone(m)
		status = strings.TrimSpace(strings.Replace(subtitle, m, "", 1))
	}
	return phone, status
}
