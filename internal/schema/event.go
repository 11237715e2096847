// Package schema defines the event wire contract shared by the session
// runner (client side) and the ingestion API (server side): event types,
// field size limits, and the open extension maps carried by the performance
// and ecommerce payloads.
package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"
)

// EventType enumerates the accepted event kinds.
type EventType string

const (
	EventTypePageview    EventType = "pageview"
	EventTypeClick       EventType = "click"
	EventTypeScroll      EventType = "scroll"
	EventTypeFormSubmit  EventType = "form_submit"
	EventTypeCustom      EventType = "custom"
	EventTypeEcommerce   EventType = "ecommerce"
	EventTypeError       EventType = "error"
	EventTypePerformance EventType = "performance"
)

// Valid reports whether t is a known event type.
func (t EventType) Valid() bool {
	switch t {
	case EventTypePageview, EventTypeClick, EventTypeScroll, EventTypeFormSubmit,
		EventTypeCustom, EventTypeEcommerce, EventTypeError, EventTypePerformance:
		return true
	}
	return false
}

// DeviceType enumerates device categories.
type DeviceType string

const (
	DeviceDesktop DeviceType = "desktop"
	DeviceMobile  DeviceType = "mobile"
	DeviceTablet  DeviceType = "tablet"
	DeviceUnknown DeviceType = "unknown"
)

// Valid reports whether d is a known device type.
func (d DeviceType) Valid() bool {
	switch d {
	case DeviceDesktop, DeviceMobile, DeviceTablet, DeviceUnknown:
		return true
	}
	return false
}

// Field size limits from the ingestion contract.
const (
	MaxIDLength   = 255
	MaxURLLength  = 2048
	MaxPathLength = 1024
	MaxUTMLength  = 255
	MaxDimension  = 10000
	MaxBatchSize  = 100
)

// PerformanceMetrics carries Web Vitals plus arbitrary extension fields.
// Extension keys are passed through unvalidated; consumers must not rely on
// them being stable.
type PerformanceMetrics struct {
	LCP            *float64 `json:"lcp,omitempty"`
	FID            *float64 `json:"fid,omitempty"`
	CLS            *float64 `json:"cls,omitempty"`
	TTFB           *float64 `json:"ttfb,omitempty"`
	FCP            *float64 `json:"fcp,omitempty"`
	TTI            *float64 `json:"tti,omitempty"`
	TBT            *float64 `json:"tbt,omitempty"`
	DOMLoadTime    *float64 `json:"dom_load_time,omitempty"`
	WindowLoadTime *float64 `json:"window_load_time,omitempty"`

	Extra map[string]any `json:"-"`
}

var performanceKnownKeys = map[string]bool{
	"lcp": true, "fid": true, "cls": true, "ttfb": true, "fcp": true,
	"tti": true, "tbt": true, "dom_load_time": true, "window_load_time": true,
}

// UnmarshalJSON decodes the known metrics and collects every other key into
// Extra.
func (p *PerformanceMetrics) UnmarshalJSON(data []byte) error {
	type alias PerformanceMetrics
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	extra, err := collectExtras(data, performanceKnownKeys)
	if err != nil {
		return err
	}
	*p = PerformanceMetrics(a)
	p.Extra = extra
	return nil
}

// MarshalJSON emits the known metrics with the extension fields merged back
// in at the top level of the sub-object.
func (p PerformanceMetrics) MarshalJSON() ([]byte, error) {
	type alias PerformanceMetrics
	return mergeExtras(alias(p), p.Extra)
}

// EcommerceData carries product, cart, order and funnel-step fields plus
// arbitrary extension fields.
type EcommerceData struct {
	ProductID       *string          `json:"product_id,omitempty"`
	ProductName     *string          `json:"product_name,omitempty"`
	ProductCategory *string          `json:"product_category,omitempty"`
	ProductPrice    *float64         `json:"product_price,omitempty"`
	ProductQuantity *int             `json:"product_quantity,omitempty"`
	CartValue       *float64         `json:"cart_value,omitempty"`
	CartItemCount   *int             `json:"cart_item_count,omitempty"`
	OrderID         *string          `json:"order_id,omitempty"`
	OrderValue      *float64         `json:"order_value,omitempty"`
	OrderCurrency   *string          `json:"order_currency,omitempty"`
	OrderItems      []map[string]any `json:"order_items,omitempty"`
	FunnelStep      *string          `json:"funnel_step,omitempty"`

	Extra map[string]any `json:"-"`
}

var ecommerceKnownKeys = map[string]bool{
	"product_id": true, "product_name": true, "product_category": true,
	"product_price": true, "product_quantity": true, "cart_value": true,
	"cart_item_count": true, "order_id": true, "order_value": true,
	"order_currency": true, "order_items": true, "funnel_step": true,
}

// UnmarshalJSON decodes the known fields and collects every other key into
// Extra.
func (e *EcommerceData) UnmarshalJSON(data []byte) error {
	type alias EcommerceData
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	extra, err := collectExtras(data, ecommerceKnownKeys)
	if err != nil {
		return err
	}
	*e = EcommerceData(a)
	e.Extra = extra
	return nil
}

// MarshalJSON emits the known fields with the extension fields merged back in.
func (e EcommerceData) MarshalJSON() ([]byte, error) {
	type alias EcommerceData
	return mergeExtras(alias(e), e.Extra)
}

// TrackEventRequest is one tracked event. Unknown top-level fields are
// rejected at decode time; the performance and ecommerce sub-objects accept
// unknown fields and pass them through.
type TrackEventRequest struct {
	EventType EventType `json:"event_type"`
	EventName string    `json:"event_name,omitempty"`

	SessionID string `json:"session_id"`
	VisitorID string `json:"visitor_id"`
	UserID    string `json:"user_id,omitempty"`

	// Unix timestamp in milliseconds.
	Timestamp *int64 `json:"timestamp,omitempty"`

	URL      string `json:"url"`
	Path     string `json:"path"`
	Referrer string `json:"referrer,omitempty"`

	UTMSource   string `json:"utm_source,omitempty"`
	UTMMedium   string `json:"utm_medium,omitempty"`
	UTMCampaign string `json:"utm_campaign,omitempty"`
	UTMTerm     string `json:"utm_term,omitempty"`
	UTMContent  string `json:"utm_content,omitempty"`

	UserAgent      string     `json:"user_agent"`
	DeviceType     DeviceType `json:"device_type,omitempty"`
	Browser        string     `json:"browser,omitempty"`
	BrowserVersion string     `json:"browser_version,omitempty"`
	OS             string     `json:"os,omitempty"`
	OSVersion      string     `json:"os_version,omitempty"`

	ViewportWidth  *int `json:"viewport_width,omitempty"`
	ViewportHeight *int `json:"viewport_height,omitempty"`
	ScreenWidth    *int `json:"screen_width,omitempty"`
	ScreenHeight   *int `json:"screen_height,omitempty"`

	Performance *PerformanceMetrics `json:"performance,omitempty"`
	Ecommerce   *EcommerceData      `json:"ecommerce,omitempty"`

	Properties map[string]any `json:"properties,omitempty"`

	// Defaults to true when absent.
	ConsentGiven *bool `json:"consent_given,omitempty"`
}

// Consent returns the consent flag, defaulting to true.
func (r *TrackEventRequest) Consent() bool {
	return r.ConsentGiven == nil || *r.ConsentGiven
}

// DecodeTrackEvent parses a single event, rejecting unknown top-level fields.
func DecodeTrackEvent(data []byte) (*TrackEventRequest, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	var req TrackEventRequest
	if err := dec.Decode(&req); err != nil {
		return nil, err
	}
	return &req, nil
}

// BatchTrackRequest carries 1-100 events.
type BatchTrackRequest struct {
	Events []TrackEventRequest `json:"events"`
}

// DecodeBatch parses a batch request, rejecting unknown top-level fields on
// every event.
func DecodeBatch(data []byte) (*BatchTrackRequest, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	var req BatchTrackRequest
	if err := dec.Decode(&req); err != nil {
		return nil, err
	}
	return &req, nil
}

// TrackEventResponse is the single-event tracking reply.
type TrackEventResponse struct {
	Success bool   `json:"success"`
	EventID string `json:"event_id,omitempty"`
	Message string `json:"message,omitempty"`
}

// BatchTrackResponse is the batch tracking reply.
type BatchTrackResponse struct {
	Success   bool     `json:"success"`
	Processed int      `json:"processed"`
	Failed    int      `json:"failed"`
	Errors    []string `json:"errors,omitempty"`
}

// FieldError describes one failed field constraint.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e FieldError) Error() string {
	return e.Field + ": " + e.Message
}

// ValidationErrors aggregates field constraint failures for one event.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	msgs := make([]string, len(v))
	for i, e := range v {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "; ")
}

// Normalize applies the contract's silent truncation to over-length URL and
// referrer values and defaults the consent flag. Call before Validate.
func (r *TrackEventRequest) Normalize() {
	r.URL = truncate(r.URL, MaxURLLength)
	r.Referrer = truncate(r.Referrer, MaxURLLength)
	if r.ConsentGiven == nil {
		t := true
		r.ConsentGiven = &t
	}
}

// truncate cuts s to at most max bytes without splitting a multi-byte rune.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	return s[:max]
}

// Validate checks every field constraint of the ingestion contract and
// returns a ValidationErrors listing each violation.
func (r *TrackEventRequest) Validate() error {
	var errs ValidationErrors

	if !r.EventType.Valid() {
		errs = append(errs, FieldError{"event_type", fmt.Sprintf("unknown event type %q", r.EventType)})
	}
	if r.SessionID == "" || len(r.SessionID) > MaxIDLength {
		errs = append(errs, FieldError{"session_id", "required, 1-255 characters"})
	}
	if r.VisitorID == "" || len(r.VisitorID) > MaxIDLength {
		errs = append(errs, FieldError{"visitor_id", "required, 1-255 characters"})
	}
	if r.URL == "" {
		errs = append(errs, FieldError{"url", "required"})
	}
	if r.Path == "" || len(r.Path) > MaxPathLength {
		errs = append(errs, FieldError{"path", "required, 1-1024 characters"})
	}
	if r.UserAgent == "" {
		errs = append(errs, FieldError{"user_agent", "required"})
	}
	if r.DeviceType != "" && !r.DeviceType.Valid() {
		errs = append(errs, FieldError{"device_type", fmt.Sprintf("unknown device type %q", r.DeviceType)})
	}

	for _, utm := range []struct {
		name  string
		value string
	}{
		{"utm_source", r.UTMSource},
		{"utm_medium", r.UTMMedium},
		{"utm_campaign", r.UTMCampaign},
		{"utm_term", r.UTMTerm},
		{"utm_content", r.UTMContent},
	} {
		if len(utm.value) > MaxUTMLength {
			errs = append(errs, FieldError{utm.name, "exceeds 255 characters"})
		}
	}

	for _, dim := range []struct {
		name  string
		value *int
	}{
		{"viewport_width", r.ViewportWidth},
		{"viewport_height", r.ViewportHeight},
		{"screen_width", r.ScreenWidth},
		{"screen_height", r.ScreenHeight},
	} {
		if dim.value != nil && (*dim.value < 0 || *dim.value > MaxDimension) {
			errs = append(errs, FieldError{dim.name, "must be between 0 and 10000"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func collectExtras(data []byte, known map[string]bool) (map[string]any, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	var extra map[string]any
	for key, value := range raw {
		if known[key] {
			continue
		}
		if extra == nil {
			extra = make(map[string]any)
		}
		var v any
		if err := json.Unmarshal(value, &v); err != nil {
			return nil, err
		}
		extra[key] = v
	}
	return extra, nil
}

func mergeExtras(typed any, extra map[string]any) ([]byte, error) {
	base, err := json.Marshal(typed)
	if err != nil {
		return nil, err
	}
	if len(extra) == 0 {
		return base, nil
	}
	merged := make(map[string]any)
	if err := json.Unmarshal(base, &merged); err != nil {
		return nil, err
	}
	for k, v := range extra {
		if _, exists := merged[k]; !exists {
			merged[k] = v
		}
	}
	return json.Marshal(merged)
}
