package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/cheersai/campaign-engine/internal/cadence"
)

// Supported publishing platforms.
const (
	PlatformFacebook  = "facebook"
	PlatformInstagram = "instagram"
	PlatformGBP       = "gbp"
)

// DefaultPlatforms is used when a campaign names no target platforms.
var DefaultPlatforms = []string{PlatformFacebook, PlatformInstagram}

// Tone adjustments accepted in campaign metadata.
const (
	ToneDefault     = "default"
	ToneMoreFormal  = "more_formal"
	ToneMoreCasual  = "more_casual"
	ToneMorePlayful = "more_playful"
	ToneMoreSerious = "more_serious"
)

// Length preferences accepted in campaign metadata.
const (
	LengthShort    = "short"
	LengthStandard = "standard"
	LengthDetailed = "detailed"
)

// CTA styles accepted in campaign metadata.
const (
	CTAStyleDefault = "default"
	CTAStyleDirect  = "direct"
	CTAStyleUrgent  = "urgent"
)

// CadenceRule is one (platform, weekday, hour, minute) recurrence rule
// derived from a campaign. Rules are never persisted.
type CadenceRule struct {
	Platform string
	Weekday  int
	Hour     int
	Minute   int
}

// CopyOptions are the advanced copy-generation toggles.
type CopyOptions struct {
	ToneAdjust       string
	LengthPreference string
	CTAStyle         string
	IncludeHashtags  bool
	IncludeEmojis    bool
}

// DefaultCopyOptions returns the option values used when metadata omits them.
func DefaultCopyOptions() CopyOptions {
	return CopyOptions{
		ToneAdjust:       ToneDefault,
		LengthPreference: LengthStandard,
		CTAStyle:         CTAStyleDefault,
		IncludeHashtags:  true,
		IncludeEmojis:    true,
	}
}

// LinkOptions carry optional call-to-action link metadata.
type LinkOptions struct {
	CTAURL       string
	CTALabel     string
	LinkInBioURL string
}

// WeeklyConfig is the validated, strongly-typed form of a weekly campaign's
// metadata bag. It is produced exactly once per campaign at the processing
// boundary; nothing downstream re-checks field types.
type WeeklyConfig struct {
	Description  string
	StartDate    time.Time
	WeeksAhead   int
	Platforms    []string
	HeroMediaIDs []string
	DisplayEnd   *time.Time

	// Cadence holds the resolved recurrence rules: the explicit metadata
	// cadence array when it yields at least one well-formed entry, otherwise
	// one synthesized rule per target platform from the single day/time.
	Cadence []CadenceRule

	// DroppedCadence counts malformed explicit cadence entries that were
	// discarded during parsing.
	DroppedCadence int

	Options     CopyOptions
	Link        LinkOptions
	ProofPoints json.RawMessage
}

// rawCadenceEntry mirrors one explicit cadence array element. Pointers
// distinguish missing from zero so malformed entries can be dropped.
type rawCadenceEntry struct {
	Platform *string  `json:"platform"`
	Weekday  *float64 `json:"weekday"`
	Hour     *float64 `json:"hour"`
	Minute   *float64 `json:"minute"`
}

// ParseWeeklyConfig decodes and validates a weekly campaign's metadata.
// Individual fields are lenient: a missing or mistyped field takes its
// default rather than failing the campaign. Only a metadata blob that is
// not a JSON object at all is an error.
func ParseWeeklyConfig(raw json.RawMessage, now time.Time, defaultWeeksAhead int) (*WeeklyConfig, error) {
	fields := map[string]json.RawMessage{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &fields); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidMetadata, err)
		}
	}

	cfg := &WeeklyConfig{
		Description:  rawString(fields, "description"),
		StartDate:    rawTime(fields, "start_date", now),
		WeeksAhead:   rawInt(fields, "weeks_ahead", defaultWeeksAhead),
		Platforms:    rawPlatforms(fields),
		HeroMediaIDs: rawStringSlice(fields, "hero_media_ids"),
		Options:      rawCopyOptions(fields),
		Link: LinkOptions{
			CTAURL:       rawString(fields, "cta_url"),
			CTALabel:     rawString(fields, "cta_label"),
			LinkInBioURL: rawString(fields, "link_in_bio_url"),
		},
		ProofPoints: fields["proof_points"],
	}
	if cfg.WeeksAhead <= 0 {
		cfg.WeeksAhead = defaultWeeksAhead
	}

	if end, ok := rawOptionalTime(fields, "display_end_date"); ok {
		cfg.DisplayEnd = &end
	}

	weekday := cadence.ClampWeekday(rawFloat(fields, "day_of_week"))
	hour, minute := cadence.ParseClock(rawString(fields, "time_of_day"))

	cfg.Cadence, cfg.DroppedCadence = resolveCadence(fields, cfg.Platforms, weekday, hour, minute)

	return cfg, nil
}

// resolveCadence prefers the explicit cadence array; malformed entries are
// dropped and counted. When nothing well-formed remains, one rule per
// target platform is synthesized from the single day/time.
func resolveCadence(fields map[string]json.RawMessage, platforms []string, weekday, hour, minute int) ([]CadenceRule, int) {
	var rules []CadenceRule
	dropped := 0

	if rawList, ok := fields["cadence"]; ok {
		var entries []json.RawMessage
		if err := json.Unmarshal(rawList, &entries); err == nil {
			for _, rawEntry := range entries {
				rule, ok := parseCadenceEntry(rawEntry)
				if !ok {
					dropped++
					continue
				}
				rules = append(rules, rule)
			}
		}
	}

	if len(rules) > 0 {
		return rules, dropped
	}

	rules = make([]CadenceRule, 0, len(platforms))
	for _, platform := range platforms {
		rules = append(rules, CadenceRule{
			Platform: platform,
			Weekday:  weekday,
			Hour:     hour,
			Minute:   minute,
		})
	}
	return rules, dropped
}

func parseCadenceEntry(raw json.RawMessage) (CadenceRule, bool) {
	var entry rawCadenceEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return CadenceRule{}, false
	}
	if entry.Platform == nil || strings.TrimSpace(*entry.Platform) == "" {
		return CadenceRule{}, false
	}
	if entry.Weekday == nil || entry.Hour == nil || entry.Minute == nil {
		return CadenceRule{}, false
	}

	hour := int(*entry.Hour)
	minute := int(*entry.Minute)
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return CadenceRule{}, false
	}

	return CadenceRule{
		Platform: strings.ToLower(strings.TrimSpace(*entry.Platform)),
		Weekday:  cadence.ClampWeekday(*entry.Weekday),
		Hour:     hour,
		Minute:   minute,
	}, true
}

func rawString(fields map[string]json.RawMessage, key string) string {
	raw, ok := fields[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

func rawFloat(fields map[string]json.RawMessage, key string) float64 {
	raw, ok := fields[key]
	if !ok {
		return math.NaN()
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return math.NaN()
	}
	return f
}

func rawInt(fields map[string]json.RawMessage, key string, fallback int) int {
	raw, ok := fields[key]
	if !ok {
		return fallback
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return fallback
	}
	return int(f)
}

func rawBool(fields map[string]json.RawMessage, key string, fallback bool) bool {
	raw, ok := fields[key]
	if !ok {
		return fallback
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err != nil {
		return fallback
	}
	return b
}

func rawStringSlice(fields map[string]json.RawMessage, key string) []string {
	raw, ok := fields[key]
	if !ok {
		return nil
	}
	var values []string
	if err := json.Unmarshal(raw, &values); err != nil {
		return nil
	}
	out := values[:0]
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			out = append(out, v)
		}
	}
	return out
}

func rawPlatforms(fields map[string]json.RawMessage) []string {
	values := rawStringSlice(fields, "platforms")
	if len(values) == 0 {
		return append([]string(nil), DefaultPlatforms...)
	}
	platforms := make([]string, 0, len(values))
	for _, v := range values {
		platforms = append(platforms, strings.ToLower(strings.TrimSpace(v)))
	}
	return platforms
}

func rawTime(fields map[string]json.RawMessage, key string, fallback time.Time) time.Time {
	if t, ok := rawOptionalTime(fields, key); ok {
		return t
	}
	return fallback.UTC()
}

func rawOptionalTime(fields map[string]json.RawMessage, key string) (time.Time, bool) {
	s := rawString(fields, key)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

func rawCopyOptions(fields map[string]json.RawMessage) CopyOptions {
	opts := DefaultCopyOptions()

	raw, ok := fields["advanced"]
	if !ok {
		return opts
	}
	advanced := map[string]json.RawMessage{}
	if err := json.Unmarshal(raw, &advanced); err != nil {
		return opts
	}

	if tone := rawString(advanced, "tone_adjust"); tone != "" {
		opts.ToneAdjust = tone
	}
	if length := rawString(advanced, "length_preference"); length != "" {
		opts.LengthPreference = length
	}
	if style := rawString(advanced, "cta_style"); style != "" {
		opts.CTAStyle = style
	}
	opts.IncludeHashtags = rawBool(advanced, "include_hashtags", true)
	opts.IncludeEmojis = rawBool(advanced, "include_emojis", true)

	return opts
}
