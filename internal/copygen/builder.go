// Package copygen renders deterministic post copy for weekly campaign
// occurrences. It is the fallback writer used when no AI-generated body is
// available: a pure function of its inputs, so re-runs produce identical
// text for identical campaigns.
package copygen

import (
	"fmt"
	"strings"
	"time"

	"github.com/cheersai/campaign-engine/internal/domain"
)

const (
	hashtagLine     = "#cheersai #weeklyspecial"
	celebrationMark = "🎉"

	formalClosing  = "We look forward to hosting you."
	casualClosing  = "Swing by and say hi!"
	playfulClosing = "You won't want to miss this one!"
	detailFlourish = "Bring your friends and make a night of it."

	defaultLinkLabel = "Learn more"
)

// BuildWeeklyCopy renders the finished post text for one occurrence.
// Platform conventions: Instagram only ever gets a "link in bio" line (and
// only when link metadata exists), Facebook gets the house CTA plus a raw
// "label: url" line when a CTA URL is present, Google Business Profile gets
// no hashtags.
func BuildWeeklyCopy(name, description string, occurrence time.Time, platform string, opts domain.CopyOptions, link domain.LinkOptions) string {
	lines := []string{baseSentence(name, description, occurrence, opts)}

	if opts.LengthPreference == domain.LengthDetailed {
		lines = append(lines, detailFlourish)
	}

	lines = applyTone(lines, opts.ToneAdjust)
	lines = append(lines, ctaLines(platform, opts.CTAStyle, link)...)

	if opts.IncludeEmojis {
		lines[len(lines)-1] += " " + celebrationMark
	}
	if opts.IncludeHashtags && platform != domain.PlatformGBP {
		lines = append(lines, hashtagLine)
	}

	return strings.Join(lines, "\n")
}

func baseSentence(name, description string, occurrence time.Time, opts domain.CopyOptions) string {
	occurrence = occurrence.UTC()
	sentence := fmt.Sprintf("We're hosting %s this %s at %s.",
		name, occurrence.Weekday().String(), friendlyTime(occurrence))

	if opts.LengthPreference != domain.LengthShort && description != "" {
		sentence += " " + description
	}
	return sentence
}

// friendlyTime formats a time on a 12-hour clock with am/pm, omitting the
// minutes when they are ":00" ("7pm", "6:30pm").
func friendlyTime(t time.Time) string {
	hour := t.Hour() % 12
	if hour == 0 {
		hour = 12
	}
	meridiem := "am"
	if t.Hour() >= 12 {
		meridiem = "pm"
	}
	if t.Minute() == 0 {
		return fmt.Sprintf("%d%s", hour, meridiem)
	}
	return fmt.Sprintf("%d:%02d%s", hour, t.Minute(), meridiem)
}

func applyTone(lines []string, tone string) []string {
	switch tone {
	case domain.ToneMoreFormal:
		lines = stripExclamations(lines)
		if !containsLine(lines, formalClosing) {
			lines = append(lines, formalClosing)
		}
	case domain.ToneMoreCasual:
		lines = append(lines, casualClosing)
	case domain.ToneMorePlayful:
		lines = append(lines, playfulClosing)
	case domain.ToneMoreSerious:
		lines = stripExclamations(lines)
	}
	return lines
}

func stripExclamations(lines []string) []string {
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = strings.ReplaceAll(line, "!", ".")
	}
	return out
}

func containsLine(lines []string, target string) bool {
	for _, line := range lines {
		if line == target {
			return true
		}
	}
	return false
}

// ctaLines builds the platform-specific call-to-action lines. Instagram is
// handled first and never receives a raw house CTA; that the default switch
// arm also returns nothing for Instagram is therefore moot, but the arm is
// kept to match the platform table.
func ctaLines(platform, style string, link domain.LinkOptions) []string {
	if platform == domain.PlatformInstagram {
		if link.LinkInBioURL == "" && link.CTAURL == "" {
			return nil
		}
		if link.CTALabel != "" {
			return []string{fmt.Sprintf("%s: link in bio.", link.CTALabel)}
		}
		return []string{"Details via the link in bio."}
	}

	var lines []string
	if cta := houseCTA(platform, style); cta != "" {
		lines = append(lines, cta)
	}
	if platform == domain.PlatformFacebook && link.CTAURL != "" {
		label := link.CTALabel
		if label == "" {
			label = defaultLinkLabel
		}
		lines = append(lines, fmt.Sprintf("%s: %s", label, link.CTAURL))
	}
	return lines
}

func houseCTA(platform, style string) string {
	switch style {
	case domain.CTAStyleDirect:
		return "Book now to lock in your spot."
	case domain.CTAStyleUrgent:
		return "Spots are limited, book today."
	default:
		if platform == domain.PlatformInstagram {
			return ""
		}
		return "Tap to learn more."
	}
}
