package nag

import (
	"encoding/base64"
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/spf13/cast"

	"tableflip.dev/nag/pkg/timeutil"
)

// Rejection reasons for records that cannot become a Nag. Reconciliation
// skips rejected rows; strict callers surface the reason.
var (
	ErrEmptyWorkName = errors.New("nag: payload has empty work name")
	ErrEmptyText     = errors.New("nag: payload has empty nag text")
)

// fields wraps an untyped payload with prioritized multi-key lookup. Each
// accessor probes candidate keys in order and loosely coerces the first
// present, non-empty value.
type fields map[string]any

func (f fields) raw(keys ...string) (any, bool) {
	for _, key := range keys {
		if v, ok := f[key]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

func (f fields) str(def string, keys ...string) string {
	v, ok := f.raw(keys...)
	if !ok {
		return def
	}
	if s := strings.TrimSpace(cast.ToString(v)); s != "" {
		return s
	}
	return def
}

// optInt64 returns nil for absent or empty-string values and an error for
// values that cannot coerce to an integer.
func (f fields) optInt64(keys ...string) (*int64, error) {
	v, ok := f.raw(keys...)
	if !ok {
		return nil, nil
	}
	if s, isString := v.(string); isString && strings.TrimSpace(s) == "" {
		return nil, nil
	}
	n, err := cast.ToInt64E(v)
	if err != nil {
		return nil, fmt.Errorf("nag: field %s: %w", keys[0], err)
	}
	return &n, nil
}

func (f fields) optInt(keys ...string) (*int, error) {
	n, err := f.optInt64(keys...)
	if err != nil || n == nil {
		return nil, err
	}
	i := int(*n)
	return &i, nil
}

func (f fields) int64Or(def int64, keys ...string) (int64, error) {
	n, err := f.optInt64(keys...)
	if err != nil {
		return 0, err
	}
	if n == nil {
		return def, nil
	}
	return *n, nil
}

func (f fields) intOr(def int, keys ...string) (int, error) {
	n, err := f.int64Or(int64(def), keys...)
	return int(n), err
}

func (f fields) boolOr(def bool, keys ...string) bool {
	v, ok := f.raw(keys...)
	if !ok {
		return def
	}
	b, err := cast.ToBoolE(v)
	if err != nil {
		return def
	}
	return b
}

// invalidGlyphTokens are placeholder strings that must not render as icons.
var invalidGlyphTokens = map[string]bool{
	"":          true,
	"none":      true,
	"null":      true,
	"non":       true,
	"img":       true,
	"undefined": true,
	"nan":       true,
	"na":        true,
	"n/a":       true,
}

// NormalizeIconGlyph extracts a displayable glyph from a loosely typed
// value, recursing into maps and lists. The glyph must carry at least one
// non-ASCII symbol; verbose placeholders and URLs are rejected. Returns ""
// when no usable glyph is found.
func NormalizeIconGlyph(raw any) string {
	switch v := raw.(type) {
	case nil:
		return ""
	case map[string]any:
		for _, key := range []string{"glyph", "emoji", "icon", "text", "value", "label", "name"} {
			if glyph := NormalizeIconGlyph(v[key]); glyph != "" {
				return glyph
			}
		}
		return ""
	case []any:
		for _, item := range v {
			if glyph := NormalizeIconGlyph(item); glyph != "" {
				return glyph
			}
		}
		return ""
	}

	text := strings.TrimSpace(cast.ToString(raw))
	if text == "" {
		return ""
	}
	lower := strings.ToLower(text)
	if invalidGlyphTokens[lower] {
		return ""
	}
	if strings.HasPrefix(lower, "<img") || strings.HasPrefix(lower, "http") {
		return ""
	}
	if strings.HasPrefix(lower, "icon:") {
		text = strings.TrimSpace(text[len("icon:"):])
		if text == "" {
			return ""
		}
	}
	for _, r := range text {
		if r > unicode.MaxASCII {
			return text
		}
	}
	return ""
}

// NormalizeImageURL extracts an http(s) URL from a loosely typed value, or
// returns "".
func NormalizeImageURL(raw any) string {
	switch v := raw.(type) {
	case nil:
		return ""
	case map[string]any:
		for _, key := range []string{"url", "src", "imageUrl", "image", "iconUrl", "icon"} {
			if url := NormalizeImageURL(v[key]); url != "" {
				return url
			}
		}
		return ""
	}
	text := strings.TrimSpace(cast.ToString(raw))
	lower := strings.ToLower(text)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return text
	}
	return ""
}

// NormalizeIconPNG validates inline icon bytes: optional data-URI prefix
// stripped, whitespace removed, at least 16 characters of valid base64.
// Returns the cleaned base64 text or "".
func NormalizeIconPNG(raw any) string {
	switch v := raw.(type) {
	case nil:
		return ""
	case map[string]any:
		for _, key := range []string{"icon_png_base64", "iconPngBase64", "base64", "data", "value"} {
			if data := NormalizeIconPNG(v[key]); data != "" {
				return data
			}
		}
		return ""
	case []any:
		for _, item := range v {
			if data := NormalizeIconPNG(item); data != "" {
				return data
			}
		}
		return ""
	}

	text := strings.TrimSpace(cast.ToString(raw))
	if text == "" {
		return ""
	}
	if lower := strings.ToLower(text); strings.HasPrefix(lower, "data:") {
		if idx := strings.Index(lower, "base64,"); idx >= 0 {
			text = strings.TrimSpace(text[idx+len("base64,"):])
		}
	}
	text = strings.Join(strings.Fields(text), "")
	if len(text) < 16 {
		return ""
	}
	if _, err := base64.StdEncoding.DecodeString(text); err != nil {
		return ""
	}
	return text
}

// FromPayload builds a validated Nag from an untyped payload map. Weight
// and lateness are clamped, the bucket is normalized against the reserved
// project bucket, and the skipped-occurrence list is deduplicated and
// sorted. A payload missing its work name or text is rejected.
func FromPayload(payload map[string]any) (*Nag, error) {
	f := fields(payload)

	workName := f.str("", "workName")
	if workName == "" {
		return nil, ErrEmptyWorkName
	}
	text := f.str("", "nagText")
	if text == "" {
		return nil, ErrEmptyText
	}

	n := &Nag{
		WorkName: workName,
		Text:     text,
	}

	var err error
	if n.LatenessDays, err = f.intOr(7, "latenessDays"); err != nil {
		return nil, err
	}
	if n.LatenessDays < 1 {
		n.LatenessDays = 1
	}
	if n.RepeatMinutes, err = f.intOr(60, "repeatMinutes"); err != nil {
		return nil, err
	}
	if n.RepeatMinutes < 1 {
		n.RepeatMinutes = 1
	}
	if n.ContinueMinutes, err = f.optInt("continueMinutes"); err != nil {
		return nil, err
	}
	n.NotificationsEnabled = f.boolOr(true, "notificationsEnabled")
	if n.Weight, err = f.intOr(50, "weight"); err != nil {
		return nil, err
	}
	n.Weight = clampInt(n.Weight, 0, 100)

	n.Mode = Mode(f.str(string(ModeOneTime), "mode"))
	if n.OneTimeDueMillis, err = f.optInt64("oneTimeEpochMillis"); err != nil {
		return nil, err
	}
	if n.MonthlyDay, err = f.optInt("monthlyDay"); err != nil {
		return nil, err
	}
	if n.MonthlyHour, err = f.optInt("monthlyHour"); err != nil {
		return nil, err
	}
	if n.MonthlyMinute, err = f.optInt("monthlyMinute"); err != nil {
		return nil, err
	}
	if n.CreatedAtMillis, err = f.int64Or(timeutil.NowMillis(), "createdAtEpochMillis"); err != nil {
		return nil, err
	}

	n.SkippedDueMillis = normalizeSkipped(payload["skippedMonthlyDueEpochMillis"])

	n.IconGlyph = NormalizeIconGlyph(firstRaw(f, "iconGlyph", "icon", "iconEmoji", "nagIcon", "iconText"))
	n.ImageURL = NormalizeImageURL(firstRaw(f, "imageUrl", "iconImageUrl", "nagImageUrl", "nagImage", "iconUrl", "image", "icon"))
	n.IconPNGBase64 = NormalizeIconPNG(firstRaw(f, "iconPngBase64", "icon_png_base64", "iconImageBase64", "nagIconBase64"))

	n.RecurringPattern = Pattern(f.str(string(PatternDayOfMonth), "recurringPatternType"))
	if n.RecurringDayOfWeek, err = f.optInt("recurringDayOfWeek"); err != nil {
		return nil, err
	}
	if n.RecurringNthWeek, err = f.optInt("recurringNthWeek"); err != nil {
		return nil, err
	}
	if n.RecurringMonthOfYear, err = f.optInt("recurringMonthOfYear"); err != nil {
		return nil, err
	}
	if n.RecurringQuarterAnchor, err = f.optInt("recurringQuarterAnchorMonth"); err != nil {
		return nil, err
	}
	if n.RecurringVisibleDaysBefore, err = f.optInt("recurringVisibleDaysBeforeDue"); err != nil {
		return nil, err
	}
	if n.RecurringVisibleDaysBefore != nil && *n.RecurringVisibleDaysBefore < 1 {
		one := 1
		n.RecurringVisibleDaysBefore = &one
	}

	if n.PushedOffsetMillis, err = f.int64Or(0, "pushedOffsetMillis"); err != nil {
		return nil, err
	}
	if n.PushedOffsetMillis < 0 {
		n.PushedOffsetMillis = 0
	}
	if n.PushCount, err = f.intOr(0, "pushCount"); err != nil {
		return nil, err
	}
	if n.PushCount < 0 {
		n.PushCount = 0
	}
	if n.PushedTotalMillis, err = f.int64Or(0, "pushedTotalMillis"); err != nil {
		return nil, err
	}
	if n.PushedTotalMillis < 0 {
		n.PushedTotalMillis = 0
	}

	project := ""
	for _, key := range []string{"projectName", "project", "project_name"} {
		if v, ok := f.raw(key); ok {
			if name := NormalizeProjectName(cast.ToString(v)); name != "" {
				project = name
				break
			}
		}
	}
	n.Bucket = f.str(DefaultBuckets()[0], "bucket")
	if strings.EqualFold(n.Bucket, ProjectBucket) {
		if project == "" {
			project = DefaultProjectName
		}
		n.ProjectName = project
	}

	return n, nil
}

func firstRaw(f fields, keys ...string) any {
	v, _ := f.raw(keys...)
	return v
}

func normalizeSkipped(raw any) []int64 {
	list, ok := raw.([]any)
	if !ok {
		return nil
	}
	seen := make(map[int64]bool, len(list))
	out := make([]int64, 0, len(list))
	for _, item := range list {
		millis, err := cast.ToInt64E(item)
		if err != nil || seen[millis] {
			continue
		}
		seen[millis] = true
		out = append(out, millis)
	}
	if len(out) == 0 {
		return nil
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	if len(out) > maxSkippedOccurrences {
		out = append([]int64(nil), out[len(out)-maxSkippedOccurrences:]...)
	}
	return out
}

// Payload serializes the nag into the wire structure appended to the
// event log, tagged with the action and a synced-at timestamp.
func (n *Nag) Payload(action Action, syncedAtMillis int64) map[string]any {
	payload := map[string]any{
		"action":               string(action),
		"syncedAtEpochMillis":  syncedAtMillis,
		"workName":             n.WorkName,
		"nagText":              n.Text,
		"bucket":               n.Bucket,
		"latenessDays":         n.LatenessDays,
		"mode":                 string(n.Mode),
		"repeatMinutes":        n.RepeatMinutes,
		"notificationsEnabled": n.NotificationsEnabled,
		"weight":               n.Weight,
		"createdAtEpochMillis": n.CreatedAtMillis,
		"recurringPatternType": string(n.RecurringPattern),
		"pushedOffsetMillis":   n.PushedOffsetMillis,
		"pushCount":            n.PushCount,
		"pushedTotalMillis":    n.PushedTotalMillis,
	}

	payload["projectName"] = nilWhenEmpty(n.ProjectName)
	payload["continueMinutes"] = nilWhenIntAbsent(n.ContinueMinutes)
	payload["oneTimeEpochMillis"] = nilWhenInt64Absent(n.OneTimeDueMillis)
	payload["monthlyDay"] = nilWhenIntAbsent(n.MonthlyDay)
	payload["monthlyHour"] = nilWhenIntAbsent(n.MonthlyHour)
	payload["monthlyMinute"] = nilWhenIntAbsent(n.MonthlyMinute)
	payload["iconGlyph"] = nilWhenEmpty(n.IconGlyph)
	payload["iconPngBase64"] = nilWhenEmpty(n.IconPNGBase64)
	payload["imageUrl"] = nilWhenEmpty(n.ImageURL)
	payload["recurringDayOfWeek"] = nilWhenIntAbsent(n.RecurringDayOfWeek)
	payload["recurringNthWeek"] = nilWhenIntAbsent(n.RecurringNthWeek)
	payload["recurringMonthOfYear"] = nilWhenIntAbsent(n.RecurringMonthOfYear)
	payload["recurringQuarterAnchorMonth"] = nilWhenIntAbsent(n.RecurringQuarterAnchor)
	payload["recurringVisibleDaysBeforeDue"] = nilWhenIntAbsent(n.RecurringVisibleDaysBefore)

	skipped := make([]any, len(n.SkippedDueMillis))
	for i, millis := range n.SkippedDueMillis {
		skipped[i] = millis
	}
	payload["skippedMonthlyDueEpochMillis"] = skipped

	return payload
}

func nilWhenEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nilWhenIntAbsent(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}

func nilWhenInt64Absent(v *int64) any {
	if v == nil {
		return nil
	}
	return *v
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

