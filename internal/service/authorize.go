package service

import "github.com/MKhiriev/go-data-gateway/models"

// authorizeResource checks that the principal owns the resource and, when it
// carries a collection scope, that the resource belongs to that collection.
// An empty resource collection id (an unattached table) is outside every
// collection scope.
func authorizeResource(principal models.Principal, ownerID int64, collectionID string) error {
	if principal.UserID != ownerID {
		return ErrForbidden
	}
	if principal.CollectionID != "" && principal.CollectionID != collectionID {
		return ErrForbidden
	}
	return nil
}
