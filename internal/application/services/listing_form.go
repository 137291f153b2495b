package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/zatekoja/campushub/internal/domain/entities"
	"github.com/zatekoja/campushub/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/campushub/pkg/errors"
)

// FormState is the lifecycle position of a create-listing form
type FormState string

const (
	FormIdle       FormState = "idle"
	FormSubmitting FormState = "submitting"
	FormClosed     FormState = "closed"
)

var (
	// ErrSubmitInProgress is returned by a submit made while another one is
	// still in flight. Nothing is sent.
	ErrSubmitInProgress = errors.New("submission already in progress")

	// ErrFormClosed is returned by any operation on a closed form
	ErrFormClosed = errors.New("form is closed")
)

// ListingCreator persists newly authored listings
type ListingCreator interface {
	CreateMarketplace(ctx context.Context, listing *entities.MarketplaceListing) error
	CreatePG(ctx context.Context, pg *entities.PGAccommodation) error
}

// CollectionRefresher reloads one collection after a successful create
type CollectionRefresher interface {
	Refresh(ctx context.Context, collection entities.Collection) error
}

// MarketplaceDraft is the raw, string-typed state of the marketplace form
type MarketplaceDraft struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Price       string `json:"price"`
	CategoryID  string `json:"category_id"`
	Condition   string `json:"condition"`
	Location    string `json:"location"`
}

// NewMarketplaceDraft returns an empty draft with the form's defaults
func NewMarketplaceDraft() MarketplaceDraft {
	return MarketplaceDraft{Condition: string(entities.ConditionGood)}
}

// PGDraft is the raw, string-typed state of the PG form
type PGDraft struct {
	Title            string `json:"title"`
	Description      string `json:"description"`
	Address          string `json:"address"`
	Latitude         string `json:"latitude"`
	Longitude        string `json:"longitude"`
	RentPerMonth     string `json:"rent_per_month"`
	RoomType         string `json:"room_type"`
	ContactPhone     string `json:"contact_phone"`
	GenderPreference string `json:"gender_preference"`
	AvailableFrom    string `json:"available_from"`
	Amenities        string `json:"amenities"`
}

// NewPGDraft returns an empty draft with the form's defaults
func NewPGDraft() PGDraft {
	return PGDraft{
		RoomType:         string(entities.RoomTypeSingle),
		GenderPreference: string(entities.GenderAny),
	}
}

// formMachine is the state shared by both form variants: the busy flag,
// the last user-visible error and the refresh hook.
type formMachine struct {
	mu         sync.Mutex
	state      FormState
	errMsg     string
	collection entities.Collection
	refresher  CollectionRefresher
}

func (m *formMachine) State() FormState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Error returns the message of the last failed submit, or ""
func (m *formMachine) Error() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.errMsg
}

// Close discards the form without persisting anything
func (m *formMachine) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = FormClosed
}

// begin moves idle to submitting; caller must hold m.mu.
func (m *formMachine) beginLocked() error {
	switch m.state {
	case FormSubmitting:
		return ErrSubmitInProgress
	case FormClosed:
		return ErrFormClosed
	}
	m.state = FormSubmitting
	m.errMsg = ""
	return nil
}

func (m *formMachine) fail(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = FormIdle
	m.errMsg = apperrors.UserMessage(err)
}

func (m *formMachine) succeed(ctx context.Context) {
	m.mu.Lock()
	m.state = FormClosed
	m.mu.Unlock()

	if m.refresher == nil {
		return
	}
	if err := m.refresher.Refresh(ctx, m.collection); err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).
			Str("collection", string(m.collection)).
			Msg("listing created but collection refresh failed")
	}
}

// authorize records the sign-in error only on an idle form; a busy or
// closed form reports its state and is left untouched.
func (m *formMachine) authorize(session *entities.Session) error {
	if session.SignedIn() {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	switch m.state {
	case FormSubmitting:
		return ErrSubmitInProgress
	case FormClosed:
		return ErrFormClosed
	}
	err := apperrors.NewUnauthorizedError("you must be signed in to create a listing")
	m.errMsg = err.Message
	return err
}

// MarketplaceForm controls one open "list an item" form
type MarketplaceForm struct {
	formMachine
	draft   MarketplaceDraft
	creator ListingCreator
}

// NewMarketplaceForm opens a marketplace form. refresher may be nil.
func NewMarketplaceForm(creator ListingCreator, refresher CollectionRefresher) *MarketplaceForm {
	return &MarketplaceForm{
		formMachine: formMachine{state: FormIdle, collection: entities.CollectionMarketplace, refresher: refresher},
		draft:       NewMarketplaceDraft(),
		creator:     creator,
	}
}

// Draft returns a copy of the current draft
func (f *MarketplaceForm) Draft() MarketplaceDraft {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.draft
}

// UpdateField replaces one draft field. Values are not checked until submit.
func (f *MarketplaceForm) UpdateField(name, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state == FormClosed {
		return ErrFormClosed
	}

	d := &f.draft
	switch name {
	case "title":
		d.Title = value
	case "description":
		d.Description = value
	case "price":
		d.Price = value
	case "category_id":
		d.CategoryID = value
	case "condition":
		d.Condition = value
	case "location":
		d.Location = value
	default:
		return apperrors.NewFieldError(name, fmt.Sprintf("unknown field %q", name))
	}
	return nil
}

// Submit coerces the draft and creates the listing owned by the session's
// user. On failure the draft is kept and Error reports why.
func (f *MarketplaceForm) Submit(ctx context.Context, session *entities.Session) error {
	if err := f.authorize(session); err != nil {
		return err
	}

	f.mu.Lock()
	if err := f.beginLocked(); err != nil {
		f.mu.Unlock()
		return err
	}
	draft := f.draft
	f.mu.Unlock()

	listing, err := draft.toListing(session.UserID())
	if err != nil {
		f.fail(err)
		return err
	}

	if err := f.creator.CreateMarketplace(ctx, listing); err != nil {
		f.fail(err)
		return err
	}

	f.succeed(ctx)
	return nil
}

func (d MarketplaceDraft) toListing(userID string) (*entities.MarketplaceListing, error) {
	title, err := requireText("title", d.Title)
	if err != nil {
		return nil, err
	}
	description, err := requireText("description", d.Description)
	if err != nil {
		return nil, err
	}
	categoryID, err := requireText("category_id", d.CategoryID)
	if err != nil {
		return nil, err
	}
	price, err := parseAmount("price", d.Price)
	if err != nil {
		return nil, err
	}
	condition := entities.ItemCondition(strings.TrimSpace(d.Condition))
	if !condition.Valid() {
		return nil, apperrors.NewFieldError("condition", fmt.Sprintf("unknown condition %q", d.Condition))
	}

	return &entities.MarketplaceListing{
		UserID:      userID,
		CategoryID:  categoryID,
		Title:       title,
		Description: description,
		Price:       price,
		Images:      []string{},
		Condition:   condition,
		Status:      entities.MarketplaceStatusAvailable,
		Location:    optionalText(d.Location),
	}, nil
}

// PGForm controls one open "post PG accommodation" form
type PGForm struct {
	formMachine
	draft   PGDraft
	creator ListingCreator
}

// NewPGForm opens a PG form. refresher may be nil.
func NewPGForm(creator ListingCreator, refresher CollectionRefresher) *PGForm {
	return &PGForm{
		formMachine: formMachine{state: FormIdle, collection: entities.CollectionPG, refresher: refresher},
		draft:       NewPGDraft(),
		creator:     creator,
	}
}

// Draft returns a copy of the current draft
func (f *PGForm) Draft() PGDraft {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.draft
}

// UpdateField replaces one draft field. Values are not checked until submit.
func (f *PGForm) UpdateField(name, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state == FormClosed {
		return ErrFormClosed
	}

	d := &f.draft
	switch name {
	case "title":
		d.Title = value
	case "description":
		d.Description = value
	case "address":
		d.Address = value
	case "latitude":
		d.Latitude = value
	case "longitude":
		d.Longitude = value
	case "rent_per_month":
		d.RentPerMonth = value
	case "room_type":
		d.RoomType = value
	case "contact_phone":
		d.ContactPhone = value
	case "gender_preference":
		d.GenderPreference = value
	case "available_from":
		d.AvailableFrom = value
	case "amenities":
		d.Amenities = value
	default:
		return apperrors.NewFieldError(name, fmt.Sprintf("unknown field %q", name))
	}
	return nil
}

// Submit coerces the draft and creates the accommodation owned by the
// session's user. On failure the draft is kept and Error reports why.
func (f *PGForm) Submit(ctx context.Context, session *entities.Session) error {
	if err := f.authorize(session); err != nil {
		return err
	}

	f.mu.Lock()
	if err := f.beginLocked(); err != nil {
		f.mu.Unlock()
		return err
	}
	draft := f.draft
	f.mu.Unlock()

	pg, err := draft.toAccommodation(session.UserID())
	if err != nil {
		f.fail(err)
		return err
	}

	if err := f.creator.CreatePG(ctx, pg); err != nil {
		f.fail(err)
		return err
	}

	f.succeed(ctx)
	return nil
}

func (d PGDraft) toAccommodation(userID string) (*entities.PGAccommodation, error) {
	title, err := requireText("title", d.Title)
	if err != nil {
		return nil, err
	}
	description, err := requireText("description", d.Description)
	if err != nil {
		return nil, err
	}
	address, err := requireText("address", d.Address)
	if err != nil {
		return nil, err
	}
	phone, err := requireText("contact_phone", d.ContactPhone)
	if err != nil {
		return nil, err
	}
	lat, err := parseDecimal("latitude", d.Latitude)
	if err != nil {
		return nil, err
	}
	lng, err := parseDecimal("longitude", d.Longitude)
	if err != nil {
		return nil, err
	}
	if !(entities.Location{Latitude: lat, Longitude: lng}).Valid() {
		return nil, apperrors.NewFieldError("latitude", "coordinates are out of range")
	}
	rent, err := parseAmount("rent_per_month", d.RentPerMonth)
	if err != nil {
		return nil, err
	}

	roomType := entities.RoomType(strings.TrimSpace(d.RoomType))
	if !roomType.Valid() {
		return nil, apperrors.NewFieldError("room_type", fmt.Sprintf("unknown room type %q", d.RoomType))
	}

	var gender *entities.GenderPreference
	if raw := strings.TrimSpace(d.GenderPreference); raw != "" {
		g := entities.GenderPreference(raw)
		if !g.Valid() {
			return nil, apperrors.NewFieldError("gender_preference", fmt.Sprintf("unknown gender preference %q", raw))
		}
		gender = &g
	}

	availableFrom := optionalText(d.AvailableFrom)
	if availableFrom != nil {
		if _, err := time.Parse(time.DateOnly, *availableFrom); err != nil {
			return nil, apperrors.NewFieldError("available_from", "available from must be a date (YYYY-MM-DD)")
		}
	}

	return &entities.PGAccommodation{
		UserID:           userID,
		Title:            title,
		Description:      description,
		Address:          address,
		Latitude:         lat,
		Longitude:        lng,
		RentPerMonth:     rent,
		Amenities:        SplitAmenities(d.Amenities),
		RoomType:         roomType,
		Images:           []string{},
		ContactPhone:     phone,
		AvailableFrom:    availableFrom,
		GenderPreference: gender,
		Status:           entities.PGStatusAvailable,
	}, nil
}

// SplitAmenities turns "WiFi, AC,,Meals " into ["WiFi" "AC" "Meals"]
func SplitAmenities(raw string) []string {
	out := []string{}
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func requireText(field, raw string) (string, error) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return "", apperrors.NewFieldError(field, field+" is required")
	}
	return v, nil
}

func optionalText(raw string) *string {
	v := strings.TrimSpace(raw)
	if v == "" {
		return nil
	}
	return &v
}

func parseDecimal(field, raw string) (float64, error) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return 0, apperrors.NewFieldError(field, field+" is required")
	}
	n, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, apperrors.NewFieldError(field, field+" must be a number")
	}
	return n, nil
}

func parseAmount(field, raw string) (float64, error) {
	n, err := parseDecimal(field, raw)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, apperrors.NewFieldError(field, field+" cannot be negative")
	}
	return n, nil
}
