package session

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	"github.com/mosesoghene/whats-app-group-export/internal/selector"
)

// Group detection is deliberately biased toward false positives: the
// result only gates whether export UI is offered, and the participant
// panel itself re-validates by requiring actual cells to exist.

var participantCountRes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(\d+)\s+participants?`),
	regexp.MustCompile(`(?i)(\d+)\s+members?`),
	regexp.MustCompile(`(?i)(\d+)\s+people`),
	regexp.MustCompile(`(?i)(\d+)\s+contacts?`),
}

var groupKeywords = []string{"participants", "members", "group", "admin"}

var groupNameRes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)group|team|family|friends|class|work|project`),
	regexp.MustCompile(`\d{4}`),
	regexp.MustCompile(`[📱💬🏠👥]`),
}

// DetectGroup decides whether the document shows an open group
// conversation and extracts its display name. Signals, in order: a
// participant count parsed from the header, group-keyword or
// group-indicator presence, and a name-shape heuristic. When all
// header signals fail but a name was captured and a chat body exists,
// the group is assumed open anyway.
func DetectGroup(doc *goquery.Document, table *selector.Table) Status {
	var st Status

	if header := table.Resolve(selector.ConversationHeader, doc.Selection); header != nil {
		if title := table.Resolve(selector.ConversationTitle, header); title != nil {
			st.GroupName = strings.TrimSpace(title.Text())
			if st.GroupName != "" {
				count := participantCountFromHeader(header)
				if count > 1 || hasGroupIndicators(header, doc, table) || likelyGroupName(st.GroupName) {
					st.IsGroupOpen = true
				}
			}
		}
	}

	if !st.IsGroupOpen && st.GroupName != "" {
		if table.Resolve(selector.ChatBody, doc.Selection) != nil {
			st.IsGroupOpen = true
		}
	}

	return st
}

// participantCountFromHeader scans header descendant text for the first
// "<n> participants/members/people/contacts" pattern and returns its
// integer, or 0 when none is found.
func participantCountFromHeader(header *goquery.Selection) int {
	count := 0
	header.Find("span, div").EachWithBreak(func(_ int, el *goquery.Selection) bool {
		text := strings.TrimSpace(el.Text())
		for _, re := range participantCountRes {
			if m := re.FindStringSubmatch(text); m != nil {
				if n, err := strconv.Atoi(m[1]); err == nil {
					count = n
					return false
				}
			}
		}
		return true
	})
	return count
}

func hasGroupIndicators(header *goquery.Selection, doc *goquery.Document, table *selector.Table) bool {
	text := strings.ToLower(header.Text())
	for _, kw := range groupKeywords {
		if strings.Contains(text, kw) {
			return true
		}
	}

	for _, sel := range table.List(selector.GroupIndicator) {
		if header.Find(sel).Length() > 0 || doc.Find(sel).Length() > 0 {
			return true
		}
	}
	return false
}

// likelyGroupName guesses whether a conversation title names a group
// rather than a person: group-ish words, a 4-digit run (years), common
// group emoji, or simply a long title.
func likelyGroupName(name string) bool {
	if utf8.RuneCountInString(name) < 2 {
		return false
	}
	for _, re := range groupNameRes {
		if re.MatchString(name) {
			return true
		}
	}
	return utf8.RuneCountInString(name) > 20
}
