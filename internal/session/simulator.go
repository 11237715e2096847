// Package session simulates visitor sessions for distinct behavioral
// archetypes and dispatches them in bulk against the event ingestion API.
package session

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/AscenderGrey/EcomDashQ1BetaCohort/internal/random"
	"github.com/AscenderGrey/EcomDashQ1BetaCohort/internal/schema"
)

// Archetype labels a behavioral pattern governing a session's event sequence
// shape and timing.
type Archetype string

const (
	ArchetypeBrowser         Archetype = "browser"
	ArchetypeResearcher      Archetype = "researcher"
	ArchetypeHighIntentBuyer Archetype = "high_intent_buyer"

	// ArchetypeRandom draws one of the three concrete archetypes using the
	// default weights.
	ArchetypeRandom Archetype = "random"
)

// Valid reports whether a names one of the concrete archetypes.
func (a Archetype) Valid() bool {
	switch a {
	case ArchetypeBrowser, ArchetypeResearcher, ArchetypeHighIntentBuyer:
		return true
	}
	return false
}

// DefaultArchetypeWeights is the distribution used when the caller does not
// supply one: half the traffic just browses, a small slice converts.
var DefaultArchetypeWeights = map[Archetype]float64{
	ArchetypeBrowser:         0.50,
	ArchetypeResearcher:      0.35,
	ArchetypeHighIntentBuyer: 0.15,
}

// Session is one visitor's finalized event sequence. It is never mutated
// after generation and is discarded after dispatch.
type Session struct {
	ID        string
	VisitorID string
	Archetype Archetype
	Events    []schema.TrackEventRequest
}

type browserProfile struct {
	name    string
	version string
}

var (
	productPages = []string{
		"/products/premium-widget",
		"/products/starter-kit",
		"/products/pro-bundle",
		"/products/essential-tool",
		"/products/advanced-system",
	}
	utmSources = []string{"google", "facebook", "instagram", "tiktok", "email", "direct"}
	utmMediums = []string{"cpc", "social", "organic", "email", "referral"}
	devices    = []schema.DeviceType{schema.DeviceDesktop, schema.DeviceMobile, schema.DeviceTablet}
	browsers   = []browserProfile{
		{"Chrome", "120.0"},
		{"Safari", "17.2"},
		{"Firefox", "121.0"},
		{"Edge", "120.0"},
	}
)

const storeBaseURL = "https://test-store.com"

// Simulator builds one visitor's event sequence per call. All generation is
// pure apart from reading the shared random source.
type Simulator struct {
	src *random.Source
	now func() time.Time
}

// NewSimulator creates a simulator backed by src.
func NewSimulator(src *random.Source) *Simulator {
	return &Simulator{src: src, now: time.Now}
}

// DrawArchetype samples a concrete archetype from the given weights, falling
// back to the default distribution when weights is empty.
func (s *Simulator) DrawArchetype(weights map[Archetype]float64) Archetype {
	if len(weights) == 0 {
		weights = DefaultArchetypeWeights
	}
	// Fixed iteration order keeps draws reproducible for a given seed.
	ordered := []Archetype{ArchetypeBrowser, ArchetypeResearcher, ArchetypeHighIntentBuyer}
	candidates := make([]random.Weighted[Archetype], 0, len(ordered))
	for _, a := range ordered {
		if w, ok := weights[a]; ok && w > 0 {
			candidates = append(candidates, random.Weighted[Archetype]{Value: a, Weight: w})
		}
	}
	return random.Choose(s.src, candidates)
}

// GenerateSession builds a complete session for the given archetype.
// ArchetypeRandom draws one using the default weights; any other unknown
// label is a programmer error and panics.
func (s *Simulator) GenerateSession(archetype Archetype) *Session {
	if archetype == ArchetypeRandom {
		archetype = s.DrawArchetype(nil)
	}

	sessionID := "sess_" + shortHex(16)
	visitorID := "visitor_" + shortHex(16)

	var events []schema.TrackEventRequest
	switch archetype {
	case ArchetypeBrowser:
		events = s.browserEvents()
	case ArchetypeResearcher:
		events = s.researcherEvents()
	case ArchetypeHighIntentBuyer:
		events = s.highIntentEvents()
	default:
		panic(fmt.Sprintf("session: unknown archetype %q", archetype))
	}

	s.stampContext(events, sessionID, visitorID)

	return &Session{
		ID:        sessionID,
		VisitorID: visitorID,
		Archetype: archetype,
		Events:    events,
	}
}

// browserEvents models a low-engagement visit: homepage, shallow scroll, and
// half the time a single product view before exiting.
func (s *Simulator) browserEvents() []schema.TrackEventRequest {
	start := s.now().UTC()
	events := []schema.TrackEventRequest{
		s.pageview("/", "https://google.com", start),
		s.scroll("/", s.src.IntBetween(10, 35), start.Add(secondsBetween(s.src, 3, 8))),
	}

	if s.src.Chance(0.5) {
		productPath := random.Pick(s.src, productPages)
		events = append(events, s.pageview(productPath, storeBaseURL+"/", start.Add(secondsBetween(s.src, 10, 20))))
	}
	return events
}

// researcherEvents models a comparison visit: homepage from a search result,
// then pageview, deep scroll and click for each of 2-4 distinct products.
func (s *Simulator) researcherEvents() []schema.TrackEventRequest {
	clock := s.now().UTC()
	events := []schema.TrackEventRequest{
		s.pageview("/", "https://google.com/search?q=best+widgets", clock),
	}
	clock = clock.Add(secondsBetween(s.src, 15, 30))

	viewed := random.Sample(s.src, productPages, s.src.IntBetween(2, 4))
	for _, productPath := range viewed {
		events = append(events, s.pageview(productPath, storeBaseURL+"/", clock))
		clock = clock.Add(secondsBetween(s.src, 5, 10))

		events = append(events, s.scroll(productPath, s.src.IntBetween(50, 85), clock))
		clock = clock.Add(secondsBetween(s.src, 10, 25))

		click := s.event(schema.EventTypeClick, productPath, "", clock)
		click.Properties = map[string]any{
			"element": "product-image",
			"index":   s.src.IntBetween(0, 3),
		}
		events = append(events, click)
		clock = clock.Add(secondsBetween(s.src, 3, 8))
	}
	return events
}

// highIntentEvents models a conversion-bound visit through the full funnel.
// It is the only archetype that emits ecommerce events; a purchase always
// follows an add_to_cart.
func (s *Simulator) highIntentEvents() []schema.TrackEventRequest {
	clock := s.now().UTC()
	events := []schema.TrackEventRequest{
		s.pageview("/", "https://facebook.com/ads", clock),
	}
	clock = clock.Add(secondsBetween(s.src, 10, 20))

	events = append(events, s.pageview("/collections/all", storeBaseURL+"/", clock))
	clock = clock.Add(secondsBetween(s.src, 15, 30))

	productPath := random.Pick(s.src, productPages)
	productID := productPath[strings.LastIndex(productPath, "/")+1:]

	events = append(events, s.pageview(productPath, storeBaseURL+"/collections/all", clock))
	clock = clock.Add(secondsBetween(s.src, 20, 40))

	events = append(events, s.scroll(productPath, s.src.IntBetween(85, 100), clock))
	clock = clock.Add(secondsBetween(s.src, 15, 25))

	price := s.src.FloatBetween(29.99, 199.99)
	addToCart := s.event(schema.EventTypeEcommerce, productPath, "", clock)
	addToCart.EventName = "add_to_cart"
	addToCart.Ecommerce = &schema.EcommerceData{
		ProductID:       strPtr(productID),
		ProductName:     strPtr(titleize(productID)),
		ProductPrice:    &price,
		ProductQuantity: intPtr(1),
		CartValue:       &price,
		FunnelStep:      strPtr("add_to_cart"),
	}
	events = append(events, addToCart)
	clock = clock.Add(secondsBetween(s.src, 5, 15))

	events = append(events, s.pageview("/cart", storeBaseURL+productPath, clock))
	clock = clock.Add(secondsBetween(s.src, 10, 20))

	events = append(events, s.pageview("/checkout", storeBaseURL+"/cart", clock))
	clock = clock.Add(secondsBetween(s.src, 15, 30))

	if s.src.Chance(0.5) {
		orderValue := s.src.FloatBetween(29.99, 199.99)
		purchase := s.event(schema.EventTypeEcommerce, "/checkout/complete", "", clock)
		purchase.EventName = "purchase"
		purchase.Ecommerce = &schema.EcommerceData{
			OrderID:       strPtr("ORD-" + strings.ToUpper(shortHex(8))),
			OrderValue:    &orderValue,
			OrderCurrency: strPtr("USD"),
			FunnelStep:    strPtr("purchase"),
		}
		events = append(events, purchase)
	}
	return events
}

// stampContext attaches the uniform session context to every event: identity,
// device, browser, user agent, UTM attribution, viewport and consent.
func (s *Simulator) stampContext(events []schema.TrackEventRequest, sessionID, visitorID string) {
	device := random.Pick(s.src, devices)
	browser := random.Pick(s.src, browsers)
	utmSource := random.Pick(s.src, utmSources)
	utmMedium := random.Pick(s.src, utmMediums)
	campaign := fmt.Sprintf("campaign_%d", s.src.IntBetween(1, 5))

	width, height := 1920, 1080
	if device != schema.DeviceDesktop {
		width, height = 375, 667
	}

	userAgent := fmt.Sprintf(
		"Mozilla/5.0 (%s) AppleWebKit/537.36 (KHTML, like Gecko) %s/%s",
		device, browser.name, browser.version,
	)

	consent := true
	for i := range events {
		events[i].SessionID = sessionID
		events[i].VisitorID = visitorID
		events[i].DeviceType = device
		events[i].Browser = browser.name
		events[i].BrowserVersion = browser.version
		events[i].UserAgent = userAgent
		events[i].UTMSource = utmSource
		events[i].UTMMedium = utmMedium
		events[i].UTMCampaign = campaign
		events[i].ViewportWidth = intPtr(width)
		events[i].ViewportHeight = intPtr(height)
		events[i].ConsentGiven = &consent
	}
}

func (s *Simulator) pageview(path, referrer string, at time.Time) schema.TrackEventRequest {
	return s.event(schema.EventTypePageview, path, referrer, at)
}

func (s *Simulator) scroll(path string, depth int, at time.Time) schema.TrackEventRequest {
	ev := s.event(schema.EventTypeScroll, path, "", at)
	ev.Properties = map[string]any{"scroll_depth": depth}
	return ev
}

func (s *Simulator) event(eventType schema.EventType, path, referrer string, at time.Time) schema.TrackEventRequest {
	ts := at.UnixMilli()
	return schema.TrackEventRequest{
		EventType: eventType,
		URL:       storeBaseURL + path,
		Path:      path,
		Referrer:  referrer,
		Timestamp: &ts,
	}
}

func secondsBetween(src *random.Source, min, max int) time.Duration {
	return time.Duration(src.IntBetween(min, max)) * time.Second
}

func shortHex(n int) string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")[:n]
}

func titleize(handle string) string {
	words := strings.Split(strings.ReplaceAll(handle, "-", " "), " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func strPtr(s string) *string { return &s }

func intPtr(i int) *int { return &i }
