package service

import (
	"context"
	"fmt"
	"time"

	"github.com/MKhiriev/go-data-gateway/internal/logger"
	"github.com/MKhiriev/go-data-gateway/internal/store"
	"github.com/MKhiriev/go-data-gateway/models"
	"github.com/google/uuid"
)

// collectionService is the concrete implementation of CollectionService.
type collectionService struct {
	collections store.CollectionRepository
	logger      *logger.Logger
}

// NewCollectionService constructs a CollectionService over the given
// repository.
func NewCollectionService(collections store.CollectionRepository, logger *logger.Logger) CollectionService {
	return &collectionService{
		collections: collections,
		logger:      logger,
	}
}

func (s *collectionService) CreateCollection(ctx context.Context, principal models.Principal, collection models.Collection) (models.Collection, error) {
	log := logger.FromContext(ctx)

	if collection.Name == "" {
		return models.Collection{}, fmt.Errorf("%w: collection name is required", ErrInvalidDataProvided)
	}

	now := time.Now()
	collection.ID = uuid.NewString()
	collection.OwnerID = principal.UserID
	collection.CreatedAt = now
	collection.UpdatedAt = now

	// A collection-scoped key may not create new collections.
	if principal.CollectionID != "" {
		return models.Collection{}, ErrForbidden
	}

	if err := s.collections.CreateCollection(ctx, collection); err != nil {
		log.Err(err).Str("collection_id", collection.ID).Msg("error creating collection")
		return models.Collection{}, fmt.Errorf("error creating collection: %w", err)
	}

	return collection, nil
}

func (s *collectionService) GetCollection(ctx context.Context, principal models.Principal, id string) (models.Collection, error) {
	collection, err := s.collections.GetCollection(ctx, id)
	if err != nil {
		return models.Collection{}, err
	}

	if err := authorizeResource(principal, collection.OwnerID, collection.ID); err != nil {
		return models.Collection{}, err
	}

	return collection, nil
}

func (s *collectionService) ListCollections(ctx context.Context, principal models.Principal) ([]models.Collection, error) {
	collections, err := s.collections.ListCollections(ctx, principal.UserID)
	if err != nil {
		return nil, err
	}

	if principal.CollectionID == "" {
		return collections, nil
	}

	// A collection-scoped key only sees its own collection.
	scoped := collections[:0]
	for _, c := range collections {
		if c.ID == principal.CollectionID {
			scoped = append(scoped, c)
		}
	}
	return scoped, nil
}

func (s *collectionService) UpdateCollection(ctx context.Context, principal models.Principal, collection models.Collection) (models.Collection, error) {
	log := logger.FromContext(ctx)

	existing, err := s.GetCollection(ctx, principal, collection.ID)
	if err != nil {
		return models.Collection{}, err
	}

	if collection.Name != "" {
		existing.Name = collection.Name
	}
	existing.Description = collection.Description
	existing.Color = collection.Color
	existing.UpdatedAt = time.Now()

	if err := s.collections.UpdateCollection(ctx, existing); err != nil {
		log.Err(err).Str("collection_id", existing.ID).Msg("error updating collection")
		return models.Collection{}, err
	}

	return existing, nil
}

func (s *collectionService) DeleteCollection(ctx context.Context, principal models.Principal, id string) error {
	if _, err := s.GetCollection(ctx, principal, id); err != nil {
		return err
	}

	return s.collections.DeleteCollection(ctx, id)
}
