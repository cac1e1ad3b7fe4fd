package signals

import (
	"regexp"
	"strings"

	"github.com/jonathan/resume-analyzer/internal/types"
)

var (
	emailPattern    = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)
	phonePattern    = regexp.MustCompile(`(?:\+\d{1,3}[ \t.\-]?)?(?:\(\d{3}\)|\d{3})[ \t.\-]?\d{3}[ \t.\-]?\d{4}`)
	linkedinPattern = regexp.MustCompile(`(?i)(?:^|[^a-z0-9.\-])(?:https?://)?(?:[a-z]{2,3}\.)?linkedin\.com/(in|company)/([a-z0-9][a-z0-9_%\-]*)`)
)

// ExtractContactInfo finds emails, phone numbers and LinkedIn profile URLs.
// Each list is deduplicated and keeps first-seen order; empty lists are non-nil.
func ExtractContactInfo(text string) types.ContactInfo {
	return types.ContactInfo{
		Emails:   extractEmails(text),
		Phones:   extractPhones(text),
		LinkedIn: extractLinkedIn(text),
	}
}

func extractEmails(text string) []string {
	emails := []string{}
	seen := make(map[string]bool)

	for _, loc := range emailPattern.FindAllStringIndex(text, -1) {
		candidate := strings.TrimRight(text[loc[0]:loc[1]], ".")
		if !validEmail(candidate) {
			continue
		}
		key := strings.ToLower(candidate)
		if seen[key] {
			continue
		}
		seen[key] = true
		emails = append(emails, candidate)
	}
	return emails
}

// validEmail rejects forms the pattern admits but RFC 5322 dot-atoms do not:
// leading, trailing or doubled dots in the local part, and empty domain labels.
func validEmail(s string) bool {
	at := strings.LastIndexByte(s, '@')
	if at <= 0 || at == len(s)-1 {
		return false
	}
	local, domain := s[:at], s[at+1:]

	if strings.HasPrefix(local, ".") || strings.HasSuffix(local, ".") || strings.Contains(local, "..") {
		return false
	}
	for _, label := range strings.Split(domain, ".") {
		if label == "" || strings.HasPrefix(label, "-") || strings.HasSuffix(label, "-") {
			return false
		}
	}
	return true
}

func extractPhones(text string) []string {
	phones := []string{}
	seen := make(map[string]bool)

	for _, loc := range phonePattern.FindAllStringIndex(text, -1) {
		start, end := loc[0], loc[1]
		// Part of a longer digit run, such as an order number or ISBN.
		if start > 0 && isDigit(text[start-1]) {
			continue
		}
		if end < len(text) && isDigit(text[end]) {
			continue
		}

		phone := text[start:end]
		key := nationalNumber(phone)
		if seen[key] {
			continue
		}
		seen[key] = true
		phones = append(phones, phone)
	}
	return phones
}

func extractLinkedIn(text string) []string {
	urls := []string{}
	seen := make(map[string]bool)

	for _, m := range linkedinPattern.FindAllStringSubmatch(text, -1) {
		url := "linkedin.com/" + strings.ToLower(m[1]) + "/" + strings.ToLower(strings.TrimRight(m[2], "-_"))
		if seen[url] {
			continue
		}
		seen[url] = true
		urls = append(urls, url)
	}
	return urls
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

// nationalNumber is the ten-digit number without any country code, so
// "+1 (555) 123-4567" and "555-123-4567" are the same phone.
func nationalNumber(phone string) string {
	digits := digitsOnly(phone)
	return digits[len(digits)-10:]
}

func digitsOnly(s string) string {
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		if isDigit(s[i]) {
			sb.WriteByte(s[i])
		}
	}
	return sb.String()
}
