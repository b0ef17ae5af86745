package app

import "online-quiz-service/internal/domain"

// RequireOwner checks that the acting account owns a resource. Pure
// comparison; callers load the resource first so that a missing resource
// surfaces as not-found before ownership is considered.
func RequireOwner(ownerID, actorID int64) error {
	if ownerID != actorID {
		return domain.ErrNotOwner
	}
	return nil
}
