package rest

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/webcarros/listing-service/internal/adapter/messaging/nats"
	"github.com/webcarros/listing-service/internal/adapter/repository/cache"
	"github.com/webcarros/listing-service/internal/adapter/rest/middleware"
	"github.com/webcarros/listing-service/internal/listing/domain"
	"github.com/webcarros/listing-service/internal/listing/usecase"
	"github.com/webcarros/listing-service/internal/mailer"
	"github.com/webcarros/listing-service/internal/platform/logger"
)

var tracer = otel.Tracer("listing-service/rest-handler")

// maxUploadBytes caps a single image upload.
const maxUploadBytes = 10 << 20

// Handler translates HTTP requests into usecase calls. The cache, events and
// mail collaborators are optional; a nil value disables that concern.
type Handler struct {
	listings *usecase.ListingUsecase
	media    *usecase.MediaUsecase
	cascade  *usecase.CascadeDeleteUsecase
	profiles *usecase.ProfileUsecase
	cache    *cache.ListingCache
	events   *nats.Publisher
	mailer   mailer.Mailer
	logger   *logger.Logger
}

func NewHandler(
	listings *usecase.ListingUsecase,
	media *usecase.MediaUsecase,
	cascade *usecase.CascadeDeleteUsecase,
	profiles *usecase.ProfileUsecase,
	listingCache *cache.ListingCache,
	events *nats.Publisher,
	mail mailer.Mailer,
	log *logger.Logger,
) *Handler {
	return &Handler{
		listings: listings,
		media:    media,
		cascade:  cascade,
		profiles: profiles,
		cache:    listingCache,
		events:   events,
		mailer:   mail,
		logger:   log,
	}
}

type imagePayload struct {
	ID      string `json:"id"`
	OwnerID string `json:"owner_id"`
	URL     string `json:"url"`
}

type listingPayload struct {
	ID          string         `json:"id"`
	OwnerID     string         `json:"owner_id"`
	Name        string         `json:"name"`
	Brand       string         `json:"brand"`
	Model       string         `json:"model"`
	Year        string         `json:"year"`
	Km          string         `json:"km"`
	Price       string         `json:"price"`
	City        string         `json:"city"`
	Description string         `json:"description"`
	CreatedAt   time.Time      `json:"created_at"`
	Images      []imagePayload `json:"images"`
}

type sellerPayload struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

type listingDetailPayload struct {
	listingPayload
	Seller *sellerPayload `json:"seller,omitempty"`
}

type createListingRequest struct {
	Name        string         `json:"name"`
	Brand       string         `json:"brand"`
	Model       string         `json:"model"`
	Year        string         `json:"year"`
	Km          string         `json:"km"`
	Price       string         `json:"price"`
	City        string         `json:"city"`
	Description string         `json:"description"`
	Images      []imagePayload `json:"images"`
}

type deleteListingResponse struct {
	ID            string   `json:"id"`
	MediaFailures []string `json:"media_failures,omitempty"`
}

type profilePayload struct {
	OwnerID   string    `json:"owner_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	AvatarURL string    `json:"avatar_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type upsertProfileRequest struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	AvatarURL string `json:"avatar_url"`
}

func toListingPayload(l *domain.Listing) listingPayload {
	images := make([]imagePayload, 0, len(l.Images))
	for _, img := range l.Images {
		images = append(images, imagePayload{ID: img.ID, OwnerID: img.OwnerID, URL: img.URL})
	}
	return listingPayload{
		ID:          l.ID,
		OwnerID:     l.OwnerID,
		Name:        l.Name,
		Brand:       l.Brand,
		Model:       l.Model,
		Year:        l.Year,
		Km:          l.Km,
		Price:       l.Price,
		City:        l.City,
		Description: l.Description,
		CreatedAt:   l.CreatedAt,
		Images:      images,
	}
}

func toProfilePayload(p *domain.Profile) profilePayload {
	return profilePayload{
		OwnerID:   p.OwnerID,
		Name:      p.Name,
		Email:     p.Email,
		Phone:     p.Phone,
		AvatarURL: p.AvatarURL,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

// ListListings serves the public feed, optionally narrowed by the search
// term and brand filter query parameters.
func (h *Handler) ListListings(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracer.Start(r.Context(), "Handler.ListListings")
	defer span.End()

	search := r.URL.Query().Get("search")
	brand := r.URL.Query().Get("brand")
	span.SetAttributes(attribute.String("search", search), attribute.String("brand", brand))

	listings, err := h.listings.ListAll(ctx)
	if err != nil {
		h.respondError(w, err)
		return
	}
	listings = domain.FilterListings(listings, search, brand)

	payload := make([]listingPayload, 0, len(listings))
	for _, l := range listings {
		payload = append(payload, toListingPayload(l))
	}
	h.respondJSON(w, http.StatusOK, payload)
}

// MyListings serves the authenticated owner's listings in feed order.
func (h *Handler) MyListings(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracer.Start(r.Context(), "Handler.MyListings")
	defer span.End()

	ownerID, ok := middleware.UserID(ctx)
	if !ok {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return
	}

	listings, err := h.listings.ListByOwner(ctx, ownerID)
	if err != nil {
		h.respondError(w, err)
		return
	}

	payload := make([]listingPayload, 0, len(listings))
	for _, l := range listings {
		payload = append(payload, toListingPayload(l))
	}
	h.respondJSON(w, http.StatusOK, payload)
}

// GetListing serves one listing joined with the seller's contact data when a
// profile exists. Detail reads go through the Redis cache.
func (h *Handler) GetListing(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracer.Start(r.Context(), "Handler.GetListing")
	defer span.End()

	id := chi.URLParam(r, "id")
	span.SetAttributes(attribute.String("listing_id", id))

	var listing *domain.Listing
	if h.cache != nil {
		cached, err := h.cache.GetListing(ctx, id)
		if err != nil {
			h.logger.Warn("Handler.GetListing: cache read failed", "listing_id", id, "error", err.Error())
		}
		listing = cached
	}

	if listing == nil {
		var err error
		listing, err = h.listings.GetByID(ctx, id)
		if err != nil {
			h.respondError(w, err)
			return
		}
		if h.cache != nil {
			if err := h.cache.SetListing(ctx, listing); err != nil {
				h.logger.Warn("Handler.GetListing: cache write failed", "listing_id", id, "error", err.Error())
			}
		}
	}

	detail := listingDetailPayload{listingPayload: toListingPayload(listing)}
	if profile, err := h.profiles.Get(ctx, listing.OwnerID); err == nil {
		detail.Seller = &sellerPayload{
			Name:      profile.Name,
			Email:     profile.Email,
			Phone:     profile.Phone,
			AvatarURL: profile.AvatarURL,
		}
	} else if !errors.Is(err, domain.ErrProfileNotFound) {
		h.logger.Warn("Handler.GetListing: seller profile lookup failed", "owner_id", listing.OwnerID, "error", err.Error())
	}

	h.respondJSON(w, http.StatusOK, detail)
}

// CreateListing persists a draft submitted with previously uploaded image
// references. Image ownership is forced to the authenticated user.
func (h *Handler) CreateListing(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracer.Start(r.Context(), "Handler.CreateListing")
	defer span.End()

	ownerID, ok := middleware.UserID(ctx)
	if !ok {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return
	}

	var req createListingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	images := make([]domain.Image, 0, len(req.Images))
	for _, img := range req.Images {
		images = append(images, domain.Image{ID: img.ID, OwnerID: ownerID, URL: img.URL})
	}

	listing, err := h.listings.Create(ctx, ownerID, usecase.ListingInput{
		Name:        req.Name,
		Brand:       req.Brand,
		Model:       req.Model,
		Year:        req.Year,
		Km:          req.Km,
		Price:       req.Price,
		City:        req.City,
		Description: req.Description,
	}, images)
	if err != nil {
		h.respondError(w, err)
		return
	}
	span.SetAttributes(attribute.String("listing_id", listing.ID))

	h.publishEvent(nats.SubjectListingCreated, map[string]string{
		"id":       listing.ID,
		"owner_id": listing.OwnerID,
		"name":     listing.Name,
		"brand":    listing.Brand,
	})
	h.notifyListingCreated(r, ownerID, listing.Name)

	h.respondJSON(w, http.StatusCreated, toListingPayload(listing))
}

// DeleteListing removes the listing record and then its blobs best-effort.
// Partial media failures are reported in the response, not as an error.
func (h *Handler) DeleteListing(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracer.Start(r.Context(), "Handler.DeleteListing")
	defer span.End()

	ownerID, ok := middleware.UserID(ctx)
	if !ok {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return
	}

	id := chi.URLParam(r, "id")
	span.SetAttributes(attribute.String("listing_id", id))

	result, err := h.cascade.Delete(ctx, ownerID, id)
	if err != nil {
		h.respondError(w, err)
		return
	}

	if h.cache != nil {
		if err := h.cache.DeleteListing(ctx, id); err != nil {
			h.logger.Warn("Handler.DeleteListing: cache invalidation failed", "listing_id", id, "error", err.Error())
		}
	}
	h.publishEvent(nats.SubjectListingDeleted, map[string]string{
		"id":       id,
		"owner_id": ownerID,
	})

	resp := deleteListingResponse{ID: result.ListingID}
	for _, f := range result.Failures {
		resp.MediaFailures = append(resp.MediaFailures, f.ImageID)
	}
	h.respondJSON(w, http.StatusOK, resp)
}

// ListBrands serves the distinct brand values present in the feed, sorted
// for a stable select-control payload.
func (h *Handler) ListBrands(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracer.Start(r.Context(), "Handler.ListBrands")
	defer span.End()

	listings, err := h.listings.ListAll(ctx)
	if err != nil {
		h.respondError(w, err)
		return
	}

	set := domain.DistinctBrands(listings)
	brands := make([]string, 0, len(set))
	for brand := range set {
		brands = append(brands, brand)
	}
	sort.Strings(brands)

	h.respondJSON(w, http.StatusOK, brands)
}

// UploadMedia accepts one multipart image, stores it and returns the
// reference to attach to a listing draft on submission.
func (h *Handler) UploadMedia(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracer.Start(r.Context(), "Handler.UploadMedia")
	defer span.End()

	ownerID, ok := middleware.UserID(ctx)
	if !ok {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, "invalid multipart form", http.StatusBadRequest)
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		http.Error(w, "image file is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		http.Error(w, "failed to read image", http.StatusBadRequest)
		return
	}

	image, err := h.media.Upload(ctx, ownerID, data, header.Header.Get("Content-Type"))
	if err != nil {
		h.respondError(w, err)
		return
	}
	span.SetAttributes(attribute.String("image_id", image.ID))

	h.respondJSON(w, http.StatusCreated, imagePayload{ID: image.ID, OwnerID: image.OwnerID, URL: image.URL})
}

// RemoveMedia deletes a provisional image the owner uploaded but has not
// attached to a submitted listing.
func (h *Handler) RemoveMedia(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracer.Start(r.Context(), "Handler.RemoveMedia")
	defer span.End()

	ownerID, ok := middleware.UserID(ctx)
	if !ok {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return
	}

	id := chi.URLParam(r, "id")
	if err := h.media.Remove(ctx, domain.Image{ID: id, OwnerID: ownerID}); err != nil {
		h.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracer.Start(r.Context(), "Handler.GetProfile")
	defer span.End()

	ownerID, ok := middleware.UserID(ctx)
	if !ok {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return
	}

	profile, err := h.profiles.Get(ctx, ownerID)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, toProfilePayload(profile))
}

func (h *Handler) UpsertProfile(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracer.Start(r.Context(), "Handler.UpsertProfile")
	defer span.End()

	ownerID, ok := middleware.UserID(ctx)
	if !ok {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return
	}

	var req upsertProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	profile, err := h.profiles.Upsert(ctx, ownerID, usecase.ProfileInput{
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		AvatarURL: req.AvatarURL,
	})
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, toProfilePayload(profile))
}

func (h *Handler) publishEvent(subject string, payload interface{}) {
	if h.events == nil {
		return
	}
	if err := h.events.Publish(subject, payload); err != nil {
		h.logger.Warn("Handler.publishEvent: publish failed", "subject", subject, "error", err.Error())
	}
}

// notifyListingCreated mails the owner at their profile address. Best-effort:
// a missing profile or mail failure only logs.
func (h *Handler) notifyListingCreated(r *http.Request, ownerID, listingName string) {
	if h.mailer == nil {
		return
	}
	profile, err := h.profiles.Get(r.Context(), ownerID)
	if err != nil || profile.Email == "" {
		return
	}
	if err := h.mailer.SendListingCreated(profile.Email, listingName); err != nil {
		h.logger.Warn("Handler.notifyListingCreated: mail send failed", "owner_id", ownerID, "error", err.Error())
	}
}

func (h *Handler) respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("Handler.respondJSON: encode failed", "error", err.Error())
	}
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrListingNotFound), errors.Is(err, domain.ErrProfileNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, domain.ErrNoImages), errors.Is(err, domain.ErrUnsupportedImageFormat):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, usecase.ErrForbidden):
		http.Error(w, err.Error(), http.StatusForbidden)
	default:
		h.logger.Error("Handler: internal error", "error", err.Error())
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}
